package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seeding_settings.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSettingsFrom_Defaults(t *testing.T) {
	settings, err := LoadSettingsFrom([]string{filepath.Join(t.TempDir(), "missing.json")})
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestLoadSettingsFrom_File(t *testing.T) {
	path := writeSettings(t, `{
		"data": {"dir": "/srv/seasons", "timeout": "3s"},
		"analysis": {"seasons": "2010-2012", "parallelism": 2}
	}`)

	settings, err := LoadSettingsFrom([]string{"does/not/exist.json", path})
	require.NoError(t, err)

	assert.Equal(t, "/srv/seasons", settings.Data.Dir)
	assert.Equal(t, 3*time.Second, settings.Data.Timeout.Duration)
	assert.Equal(t, "2010-2012", settings.Analysis.Seasons)
	assert.Equal(t, 2, settings.Analysis.Parallelism)

	// Keys absent from the file keep their defaults
	assert.Equal(t, 1.0, settings.Data.RequestsPerSecond)
	assert.True(t, settings.Analysis.Counterfactuals)
	assert.Equal(t, ":8080", settings.Server.Addr)
}

func TestLoadSettingsFrom_EnvOverrides(t *testing.T) {
	path := writeSettings(t, `{"data": {"dir": "/srv/seasons"}}`)

	t.Setenv("SEEDING_DATA_DIR", "/tmp/seasons")
	t.Setenv("SEEDING_SEASONS", "2020,2021")
	t.Setenv("SEEDING_SKIP_COUNTERFACTUALS", "true")
	t.Setenv("DATABASE_URL", "postgres://localhost/seeding?sslmode=disable")

	settings, err := LoadSettingsFrom([]string{path})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/seasons", settings.Data.Dir)
	assert.Equal(t, "2020,2021", settings.Analysis.Seasons)
	assert.False(t, settings.Analysis.Counterfactuals)
	assert.Equal(t, "postgres://localhost/seeding?sslmode=disable", settings.Store.DatabaseURL)
}

func TestLoadSettingsFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `{"data": `},
		{name: "bad duration", content: `{"data": {"timeout": 10}}`},
		{name: "no data location", content: `{"data": {"dir": ""}}`},
		{name: "zero parallelism", content: `{"analysis": {"parallelism": 0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSettingsFrom([]string{writeSettings(t, tt.content)})
			assert.Error(t, err)
		})
	}
}
