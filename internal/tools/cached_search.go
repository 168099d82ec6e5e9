package tools

import (
	"context"
	"time"

	"github.com/bobmcallan/fam-mcp/internal/bmlt"
	"github.com/bobmcallan/fam-mcp/internal/cache"
	"github.com/bobmcallan/fam-mcp/internal/common"
)

// CachedSearcher memoises successful searches for a fixed TTL.
// Failures are never cached.
type CachedSearcher struct {
	next   Searcher
	cache  *cache.Cache[[]bmlt.Meeting]
	logger *common.Logger
}

// NewCachedSearcher wraps next with a result cache.
func NewCachedSearcher(next Searcher, ttl time.Duration, maxEntries int, logger *common.Logger) *CachedSearcher {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &CachedSearcher{
		next:   next,
		cache:  cache.New[[]bmlt.Meeting](ttl, maxEntries),
		logger: logger,
	}
}

// Search returns a cached result for an identical query, or delegates.
func (s *CachedSearcher) Search(ctx context.Context, q bmlt.Query) ([]bmlt.Meeting, error) {
	key := q.Values().Encode()
	if meetings, ok := s.cache.Get(key); ok {
		s.logger.Debug().Str("query", key).Int("meetings", len(meetings)).Msg("BMLT search served from cache")
		return cloneMeetings(meetings), nil
	}

	meetings, err := s.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, cloneMeetings(meetings))
	s.logger.Debug().Str("query", key).Int("entries", s.cache.Len()).Msg("BMLT search cached")
	return meetings, nil
}

func cloneMeetings(in []bmlt.Meeting) []bmlt.Meeting {
	if in == nil {
		return nil
	}
	out := make([]bmlt.Meeting, len(in))
	copy(out, in)
	return out
}
