package handlers

import (
	"net/http"

	"github.com/bobmcallan/fam-mcp/internal/common"
)

// StatusFunc reports the server lifecycle state and registered tool count.
type StatusFunc func() (state string, tools int)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *common.Logger
	status StatusFunc
}

// NewHealthHandler creates a new health handler. status may be nil.
func NewHealthHandler(logger *common.Logger, status StatusFunc) *HealthHandler {
	return &HealthHandler{logger: logger, status: status}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	body := map[string]any{"status": "ok"}
	if h.status != nil {
		state, tools := h.status()
		body["state"] = state
		body["tools"] = tools
	}
	if err := WriteJSON(w, http.StatusOK, body); err != nil {
		h.logger.Warn().Err(err).Msg("failed to write health response")
	}
}
