package app

import (
	"fmt"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/analysis"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/config"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/schedules"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the JSON logger shared by the binaries
func NewLogger(level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(parsed)
	return logger, nil
}

// NewSource picks the season source the settings describe, cached for the
// life of the process
func NewSource(settings *config.Settings, topology *league.Topology, logger *logrus.Logger) schedules.Source {
	data := settings.Data
	if data.BaseURL != "" {
		logger.WithField("base_url", data.BaseURL).Info("Reading seasons over HTTP")
		return schedules.NewCachedSource(schedules.NewHTTPSource(
			data.BaseURL, data.RequestsPerSecond, data.Burst, data.Timeout.Duration, topology, logger))
	}
	logger.WithField("dir", data.Dir).Info("Reading seasons from disk")
	return schedules.NewCachedSource(schedules.NewFileSource(data.Dir, topology, logger))
}

// NewAnalyzer wires the source and analysis options from the settings
func NewAnalyzer(settings *config.Settings, topology *league.Topology, logger *logrus.Logger) *analysis.Analyzer {
	return analysis.NewAnalyzer(NewSource(settings, topology, logger), topology, logger, analysis.Options{
		Parallelism:     settings.Analysis.Parallelism,
		Counterfactuals: settings.Analysis.Counterfactuals,
	})
}
