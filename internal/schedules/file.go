package schedules

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

// FileSource reads <year>.csv files from a data directory
type FileSource struct {
	dir      string
	topology *league.Topology
	logger   *logrus.Logger
}

// NewFileSource creates a source over a data directory
func NewFileSource(dir string, topology *league.Topology, logger *logrus.Logger) *FileSource {
	return &FileSource{
		dir:      dir,
		topology: topology,
		logger:   logger,
	}
}

// Season loads a season from disk
func (s *FileSource) Season(ctx context.Context, year int) (*league.Season, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%d.csv", year))
	s.logger.WithField("path", path).Debug("Loading season file")

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceError{
				Type:    "season_not_found",
				Message: fmt.Sprintf("no data file %s", path),
				Season:  year,
			}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	season, err := Parse(f, s.topology, year)
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Error("Failed to parse season file")
		return nil, err
	}
	return season, nil
}
