package handlers

import (
	"net/http"

	"github.com/bobmcallan/fam-mcp/internal/common"
	"github.com/bobmcallan/fam-mcp/internal/config"
)

// VersionHandler handles version information requests.
type VersionHandler struct {
	logger        *common.Logger
	serverVersion string
}

// NewVersionHandler creates a version handler. serverVersion is the
// configured SERVER_VERSION announced to MCP clients.
func NewVersionHandler(logger *common.Logger, serverVersion string) *VersionHandler {
	return &VersionHandler{logger: logger, serverVersion: serverVersion}
}

// ServeHTTP handles GET /api/version.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	info := config.GetBuildInfo()
	WriteJSON(w, http.StatusOK, map[string]string{
		"version":        info.Version,
		"build":          info.Build,
		"git_commit":     info.GitCommit,
		"go_version":     info.GoVersion,
		"server_version": h.serverVersion,
	})
}
