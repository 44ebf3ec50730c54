package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings is the whole seeding server configuration
type Settings struct {
	Instructions string           `json:"_instructions,omitempty"`
	LogLevel     string           `json:"log_level"`
	Data         DataSettings     `json:"data"`
	Analysis     AnalysisSettings `json:"analysis"`
	Server       ServerSettings   `json:"server"`
	Store        StoreSettings    `json:"store"`
}

// DataSettings says where season CSV files come from
type DataSettings struct {
	// Dir holds <year>.csv files. Used when BaseURL is empty.
	Dir string `json:"dir"`
	// BaseURL serves <year>.csv files over HTTP
	BaseURL           string   `json:"base_url,omitempty"`
	RequestsPerSecond float64  `json:"requests_per_second"`
	Burst             int      `json:"burst"`
	Timeout           Duration `json:"timeout"`
}

// AnalysisSettings controls batch season analysis
type AnalysisSettings struct {
	Seasons         string `json:"seasons"`
	Parallelism     int    `json:"parallelism"`
	Counterfactuals bool   `json:"counterfactuals"`
}

// ServerSettings configures the REST listener
type ServerSettings struct {
	Addr string `json:"addr"`
}

// StoreSettings configures report persistence
type StoreSettings struct {
	DatabaseURL string `json:"database_url,omitempty"`
}

// Duration reads "10s" style strings from JSON
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// envOverrides are read from the process environment after the settings
// file. Unset variables leave the file values alone.
type envOverrides struct {
	LogLevel            string  `envconfig:"SEEDING_LOG_LEVEL"`
	DataDir             string  `envconfig:"SEEDING_DATA_DIR"`
	DataURL             string  `envconfig:"SEEDING_DATA_URL"`
	RequestsPerSecond   float64 `envconfig:"SEEDING_REQUESTS_PER_SECOND"`
	Seasons             string  `envconfig:"SEEDING_SEASONS"`
	Parallelism         int     `envconfig:"SEEDING_PARALLELISM"`
	SkipCounterfactuals bool    `envconfig:"SEEDING_SKIP_COUNTERFACTUALS"`
	HTTPAddr            string  `envconfig:"SEEDING_HTTP_ADDR"`
	DatabaseURL         string  `envconfig:"DATABASE_URL"`
}

// DefaultSettingsPaths are searched in order relative to the working directory
var DefaultSettingsPaths = []string{
	"configs/seeding_settings.json",
	"../configs/seeding_settings.json",
	"../../configs/seeding_settings.json",
}

// DefaultSettings is used when no settings file is found
func DefaultSettings() *Settings {
	return &Settings{
		LogLevel: "info",
		Data: DataSettings{
			Dir:               "data",
			RequestsPerSecond: 1,
			Burst:             1,
			Timeout:           Duration{10 * time.Second},
		},
		Analysis: AnalysisSettings{
			Seasons:         "2002-2021",
			Parallelism:     4,
			Counterfactuals: true,
		},
		Server: ServerSettings{
			Addr: ":8080",
		},
	}
}

// LoadSettings loads the settings file from the default search paths and
// applies environment overrides
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(DefaultSettingsPaths)
}

// LoadSettingsFrom loads the first readable settings file of paths. Missing
// keys keep their default values.
func LoadSettingsFrom(paths []string) (*Settings, error) {
	settings := DefaultSettings()

	var configData []byte
	var foundPath string

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			var readErr error
			configData, readErr = os.ReadFile(path)
			if readErr == nil {
				foundPath = path
				break
			}
		}
	}

	if foundPath != "" {
		if err := json.Unmarshal(configData, settings); err != nil {
			return nil, fmt.Errorf("failed to parse seeding settings from %s: %w", foundPath, err)
		}
	}

	if err := settings.applyEnv(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if env.LogLevel != "" {
		s.LogLevel = env.LogLevel
	}
	if env.DataDir != "" {
		s.Data.Dir = env.DataDir
	}
	if env.DataURL != "" {
		s.Data.BaseURL = env.DataURL
	}
	if env.RequestsPerSecond > 0 {
		s.Data.RequestsPerSecond = env.RequestsPerSecond
	}
	if env.Seasons != "" {
		s.Analysis.Seasons = env.Seasons
	}
	if env.Parallelism > 0 {
		s.Analysis.Parallelism = env.Parallelism
	}
	if env.SkipCounterfactuals {
		s.Analysis.Counterfactuals = false
	}
	if env.HTTPAddr != "" {
		s.Server.Addr = env.HTTPAddr
	}
	if env.DatabaseURL != "" {
		s.Store.DatabaseURL = env.DatabaseURL
	}
	return nil
}

// Validate rejects settings no component can run with
func (s *Settings) Validate() error {
	if s.Data.Dir == "" && s.Data.BaseURL == "" {
		return fmt.Errorf("either data.dir or data.base_url must be set")
	}
	if s.Data.RequestsPerSecond <= 0 {
		return fmt.Errorf("data.requests_per_second must be positive, got %v", s.Data.RequestsPerSecond)
	}
	if s.Data.Burst < 1 {
		return fmt.Errorf("data.burst must be at least 1, got %d", s.Data.Burst)
	}
	if s.Analysis.Parallelism < 1 {
		return fmt.Errorf("analysis.parallelism must be at least 1, got %d", s.Analysis.Parallelism)
	}
	return nil
}
