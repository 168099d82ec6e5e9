// Package server runs the HTTP transport: the MCP streamable endpoint plus
// health and version routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bobmcallan/fam-mcp/internal/common"
	"github.com/bobmcallan/fam-mcp/internal/config"
	"github.com/bobmcallan/fam-mcp/internal/handlers"
)

// Server manages the HTTP server and routes.
type Server struct {
	config *config.Config
	logger *common.Logger
	router *chi.Mux
	server *http.Server
	mcp    http.Handler
	status handlers.StatusFunc

	mu       sync.Mutex
	listener net.Listener
}

// New creates an HTTP server mounting mcpHandler at /mcp.
func New(cfg *config.Config, logger *common.Logger, mcpHandler http.Handler, status handlers.StatusFunc) *Server {
	s := &Server{
		config: cfg,
		logger: logger,
		mcp:    mcpHandler,
		status: status,
	}

	s.router = s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Listen binds the configured address. Bind failures are returned here so
// callers can treat them as fatal before serving starts.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	return nil
}

// Serve accepts connections on the bound listener until Shutdown.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("server is not listening")
	}

	s.logger.Info().
		Str("address", ln.Addr().String()).
		Str("url", fmt.Sprintf("http://%s/mcp", ln.Addr())).
		Msg("HTTP server starting")

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
