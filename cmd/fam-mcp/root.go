package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/fam-mcp/internal/app"
	"github.com/bobmcallan/fam-mcp/internal/common"
	"github.com/bobmcallan/fam-mcp/internal/config"
	"github.com/bobmcallan/fam-mcp/internal/telemetry"
)

const configFileName = "fam-mcp.toml"

// errReported marks an error whose details were already written to stderr.
var errReported = errors.New("error already reported")

type rootOptions struct {
	configFiles []string
	envFile     string
	transport   string
	port        int
}

// Execute runs the root command.
func Execute() error {
	return newRootCommand().ExecuteContext(context.Background())
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "fam-mcp",
		Short:         "MCP server exposing BMLT meeting search as a tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.ErrOrStderr())
		},
	}

	flags := root.Flags()
	flags.StringArrayVarP(&opts.configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded before reading the process environment")
	flags.StringVarP(&opts.transport, "transport", "t", "", "Transport: stdio or http (overrides config)")
	flags.IntVarP(&opts.port, "port", "p", 0, "HTTP transport port (overrides config)")

	root.AddCommand(newVersionCommand())
	return root
}

func run(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return err
	}

	configFiles := opts.configFiles
	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		return err
	}
	config.ApplyFlagOverrides(cfg, opts.transport, opts.port)

	if err := cfg.Validate(); err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			printValidationError(stderr, verr)
			return errReported
		}
		return err
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Info().
		Str("version", config.Version).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("starting fam-mcp")

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TracingOptions{
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		ServiceName:    cfg.Server.Name,
		ServiceVersion: cfg.Server.Version,
	})
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to set up tracing")
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn().Str("error", err.Error()).Msg("failed to flush traces")
		}
	}()

	observer, err := telemetry.NewGlobalToolObserver()
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to create tool observer")
		return err
	}

	application, err := app.New(cfg, logger, app.WithObserver(observer))
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to initialize application")
		return err
	}
	if err := application.RegisterTools(); err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to register tools")
		return err
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
			stop()
		case <-ctx.Done():
		}
	}()

	if err := application.Serve(ctx); err != nil {
		logger.Error().Str("error", err.Error()).Msg("server failed")
		return err
	}
	return nil
}

func printValidationError(w io.Writer, verr *config.ValidationError) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Configuration error: mandatory fields are missing or invalid:")
	fmt.Fprintln(w, "")
	for _, issue := range verr.Issues {
		fmt.Fprintf(w, "  - %s %s\n", issue.Field, issue.Message)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Values can be set via "+configFileName+", a .env file, environment variables, or CLI flags.")
	fmt.Fprintln(w, "")
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried before the working directory.
func configSearchPaths() []string {
	candidates := []string{
		configFileName,
		filepath.Join("config", configFileName),
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, configFileName),
		filepath.Join(binDir, "config", configFileName),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
