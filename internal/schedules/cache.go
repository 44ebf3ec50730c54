package schedules

import (
	"context"
	"sync"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
)

// CachedSource keeps every successfully loaded season in memory. Seasons
// are read-only once built, so callers share them.
type CachedSource struct {
	source Source

	mu      sync.Mutex
	seasons map[int]*league.Season
}

// NewCachedSource wraps a source with an in-memory cache
func NewCachedSource(source Source) *CachedSource {
	return &CachedSource{
		source:  source,
		seasons: make(map[int]*league.Season),
	}
}

// Season returns the cached season or loads it. Failed loads are not cached.
func (c *CachedSource) Season(ctx context.Context, year int) (*league.Season, error) {
	c.mu.Lock()
	season, ok := c.seasons[year]
	c.mu.Unlock()
	if ok {
		return season, nil
	}

	season, err := c.source.Season(ctx, year)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if cached, ok := c.seasons[year]; ok {
		season = cached
	} else {
		c.seasons[year] = season
	}
	c.mu.Unlock()
	return season, nil
}
