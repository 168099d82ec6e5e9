package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/fam-mcp/internal/tools"
)

// RegisterTools validates the catalog and registers every tool on s, routing
// calls through d. Nothing is registered if validation fails.
func RegisterTools(s *server.MCPServer, d *Dispatcher, catalog []tools.Tool) (int, error) {
	if err := ValidateCatalog(catalog); err != nil {
		return 0, err
	}
	for _, t := range catalog {
		s.AddTool(BuildMCPTool(t), d.Handler(t))
	}
	return len(catalog), nil
}
