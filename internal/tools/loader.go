package tools

import (
	"github.com/bobmcallan/fam-mcp/internal/bmlt"
	"github.com/bobmcallan/fam-mcp/internal/common"
	"github.com/bobmcallan/fam-mcp/internal/config"
)

// LoadTools assembles the tools served by fam-mcp, in registration order.
// It performs no I/O and may be called repeatedly.
func LoadTools(cfg *config.Config, logger *common.Logger) []Tool {
	var searcher Searcher = bmlt.NewClient(cfg.BMLT.APIBase, cfg.Server.UserAgent, cfg.BMLTTimeout(), logger)
	if ttl := cfg.CacheTTL(); ttl > 0 {
		searcher = NewCachedSearcher(searcher, ttl, cfg.BMLT.CacheMaxEntries, logger)
	}
	return []Tool{
		NewMeetingSearchTool(searcher, logger),
	}
}
