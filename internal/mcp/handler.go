package mcp

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/fam-mcp/internal/common"
)

// Handler serves the MCP streamable HTTP transport.
type Handler struct {
	streamable *server.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler wraps s in a stateless streamable HTTP server.
func NewHandler(s *server.MCPServer, logger *common.Logger) *Handler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Handler{
		streamable: server.NewStreamableHTTPServer(s, server.WithStateLess(true)),
		logger:     logger,
	}
}

// ServeHTTP tags the request context with the caller and delegates to mcp-go.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.streamable == nil {
		h.logger.Error().Msg("MCP handler has no transport")
		http.Error(w, "MCP transport unavailable", http.StatusServiceUnavailable)
		return
	}

	client := r.RemoteAddr
	if ua := r.UserAgent(); ua != "" {
		client += " " + ua
	}
	r = r.WithContext(withClient(r.Context(), client))
	h.streamable.ServeHTTP(w, r)
}
