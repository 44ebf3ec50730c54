package schedules

import (
	"context"
	"fmt"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
)

// Source defines how season results are obtained
type Source interface {
	// Season loads and validates one season's regular-season and playoff games
	Season(ctx context.Context, year int) (*league.Season, error)
}

// SourceError represents a failure to obtain or read season data
type SourceError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Season     int    `json:"season,omitempty"`
}

func (e *SourceError) Error() string {
	if e.Season != 0 {
		return fmt.Sprintf("season %d: %s", e.Season, e.Message)
	}
	return e.Message
}
