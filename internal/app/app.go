// Package app wires configuration, tools and transports into the server
// lifecycle: Created -> ConfigValidated -> ToolsRegistered -> Serving ->
// ShuttingDown -> Terminated.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/fam-mcp/internal/common"
	"github.com/bobmcallan/fam-mcp/internal/config"
	"github.com/bobmcallan/fam-mcp/internal/mcp"
	"github.com/bobmcallan/fam-mcp/internal/server"
	"github.com/bobmcallan/fam-mcp/internal/telemetry"
	"github.com/bobmcallan/fam-mcp/internal/tools"
)

// App holds all application components and dependencies.
type App struct {
	Config     *config.Config
	Logger     *common.Logger
	MCPServer  *mcpserver.MCPServer
	Dispatcher *mcp.Dispatcher

	state     atomic.Int32
	toolCount atomic.Int32
	catalog   []tools.Tool
	observer  *telemetry.ToolObserver
	stdin     io.Reader
	stdout    io.Writer
	http      atomic.Pointer[server.Server]
}

// Option customises an App.
type Option func(*App)

// WithStdio overrides the streams used by the stdio transport.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.stdin = in
		a.stdout = out
	}
}

// WithObserver records tool calls with the given telemetry observer.
func WithObserver(o *telemetry.ToolObserver) Option {
	return func(a *App) { a.observer = o }
}

// WithTools replaces the tool list built by tools.LoadTools.
func WithTools(catalog ...tools.Tool) Option {
	return func(a *App) { a.catalog = catalog }
}

// New validates cfg and creates the application in the ConfigValidated state.
// A validation failure returns *config.ValidationError.
func New(cfg *config.Config, logger *common.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	a := &App{
		Config: cfg,
		Logger: logger,
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := a.transition("validate config", StateCreated, StateConfigValidated); err != nil {
		return nil, err
	}

	logger.Info().
		Str("api_base", cfg.BMLT.APIBase).
		Str("version", cfg.Server.Version).
		Str("user_agent", cfg.Server.UserAgent).
		Str("log_level", cfg.Logging.Level).
		Str("transport", cfg.Server.Transport).
		Msg("configuration loaded")

	a.MCPServer = mcp.NewMCPServer(cfg)
	a.Dispatcher = mcp.NewDispatcher(logger, a.observer)
	return a, nil
}

// RegisterTools builds the tool list and registers every tool with the
// protocol server. Duplicate names are fatal.
func (a *App) RegisterTools() error {
	if a.State() != StateConfigValidated {
		return &StateError{Op: "register tools", Current: a.State(), Expected: StateConfigValidated}
	}

	catalog := a.catalog
	if catalog == nil {
		catalog = tools.LoadTools(a.Config, a.Logger)
	}

	n, err := mcp.RegisterTools(a.MCPServer, a.Dispatcher, catalog)
	if err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	a.toolCount.Store(int32(n))

	names := make([]string, len(catalog))
	for i, t := range catalog {
		names[i] = t.Name()
	}
	a.Logger.Info().Int("count", n).Str("tools", strings.Join(names, ",")).Msgf("Registered %d tools", n)

	return a.transition("register tools", StateConfigValidated, StateToolsRegistered)
}

// ToolCount returns the number of registered tools.
func (a *App) ToolCount() int {
	return int(a.toolCount.Load())
}

// Status reports the lifecycle state and tool count for health checks.
func (a *App) Status() (string, int) {
	return a.State().String(), a.ToolCount()
}

// HTTPAddr returns the bound HTTP address once serving on the http transport.
func (a *App) HTTPAddr() string {
	srv := a.http.Load()
	if srv == nil || a.State() < StateServing {
		return ""
	}
	return srv.Addr()
}

// Serve attaches the configured transport and blocks until ctx is cancelled
// or the transport stops. It then drains in-flight calls, bounded by the
// shutdown timeout. An error before serving starts means the transport could
// not be attached.
func (a *App) Serve(ctx context.Context) error {
	if a.State() != StateToolsRegistered {
		return &StateError{Op: "serve", Current: a.State(), Expected: StateToolsRegistered}
	}

	var serveErr error
	switch a.Config.Server.Transport {
	case config.TransportHTTP:
		serveErr = a.serveHTTP(ctx)
	default:
		serveErr = a.serveStdio(ctx)
	}
	if a.State() != StateServing {
		return serveErr
	}

	return errors.Join(serveErr, a.shutdown())
}

func (a *App) serveStdio(ctx context.Context) error {
	stdio := mcpserver.NewStdioServer(a.MCPServer)
	stdio.SetErrorLogger(log.New(&logWriter{logger: a.Logger}, "", 0))

	if err := a.transition("serve", StateToolsRegistered, StateServing); err != nil {
		return err
	}
	a.Logger.Info().Str("transport", config.TransportStdio).Msg("MCP server running on stdio")

	err := stdio.Listen(ctx, a.stdin, a.stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport failed: %w", err)
	}
	return nil
}

func (a *App) serveHTTP(ctx context.Context) error {
	handler := mcp.NewHandler(a.MCPServer, a.Logger)
	srv := server.New(a.Config, a.Logger, handler, a.Status)
	if err := srv.Listen(); err != nil {
		return err
	}

	a.http.Store(srv)
	if err := a.transition("serve", StateToolsRegistered, StateServing); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve() }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// shutdown stops the transport and waits for in-flight calls. Draining is
// best effort: a timeout is logged and the process still exits cleanly.
func (a *App) shutdown() error {
	if err := a.transition("shutdown", StateServing, StateShuttingDown); err != nil {
		return err
	}
	a.Logger.Info().Int64("in_flight", a.Dispatcher.InFlight()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout())
	defer cancel()

	if srv := a.http.Load(); srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			a.Logger.Warn().Str("error", err.Error()).Msg("HTTP transport did not stop cleanly")
		}
	}
	if err := a.Dispatcher.Wait(ctx); err != nil {
		a.Logger.Warn().Str("error", err.Error()).Msg("shutdown timeout reached before tool calls finished")
	}

	if err := a.transition("terminate", StateShuttingDown, StateTerminated); err != nil {
		return err
	}
	a.Logger.Info().Msg("server stopped")
	return nil
}

// logWriter forwards mcp-go transport errors to the application logger.
type logWriter struct {
	logger *common.Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.logger.Error().Str("source", "mcp-go").Msg(strings.TrimSpace(string(p)))
	return len(p), nil
}
