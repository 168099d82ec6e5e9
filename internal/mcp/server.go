// Package mcp exposes fam-mcp tools over the Model Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/fam-mcp/internal/config"
)

// NewMCPServer creates the protocol server announcing the configured name and version.
func NewMCPServer(cfg *config.Config) *server.MCPServer {
	return server.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
}
