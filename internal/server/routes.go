package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bobmcallan/fam-mcp/internal/handlers"
)

// maxBodyBytes caps MCP request bodies.
const maxBodyBytes = 1 << 20

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(s.correlationIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	// MCP endpoint (streamable HTTP: POST for calls, GET for the event stream, DELETE to end a session)
	if s.mcp != nil {
		r.With(s.maxBodySizeMiddleware(maxBodyBytes)).Handle("/mcp", s.mcp)
	}

	r.Route("/api", func(r chi.Router) {
		r.Method("GET", "/health", handlers.NewHealthHandler(s.logger, s.status))
		r.Method("HEAD", "/health", handlers.NewHealthHandler(s.logger, s.status))
		r.Method("GET", "/version", handlers.NewVersionHandler(s.logger, s.config.Server.Version))
		r.NotFound(handlers.NotFound)
	})

	return r
}
