package schedules

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league/leaguetest"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const csvHeader = "Week,Day,Date,Time,Winner/tie,,Loser/tie,,PtsW,PtsL,YdsW,TOW,YdsL,TOL"

// franchiseName returns the first listed franchise name of a team code
func franchiseName(code string) string {
	for _, name := range franchiseNames {
		if franchiseCodes[name] == code {
			return name
		}
	}
	return code
}

func csvRow(g league.Game) string {
	marker := ""
	switch {
	case g.Round() == league.RoundSuperBowl:
		marker = "N"
	case g.Home == g.Loser:
		marker = "@"
	}
	return fmt.Sprintf("%s,Sun,2011-01-01,1:00PM,%s,%s,%s,boxscore,%d,%d,350,1,300,2",
		g.Week, franchiseName(g.Winner), marker, franchiseName(g.Loser), g.PtsW, g.PtsL)
}

// seasonCSV renders a synthetic season the way season exports look,
// including the playoff divider and a repeated header row
func seasonCSV(season *league.Season) string {
	var b strings.Builder
	b.WriteString(csvHeader + "\n")

	seen := make(map[league.Game]bool)
	for _, team := range season.Schedule.Teams() {
		for _, g := range season.Schedule[team] {
			if seen[g] {
				continue
			}
			seen[g] = true
			b.WriteString(csvRow(g) + "\n")
		}
	}

	b.WriteString("Playoffs\n")
	b.WriteString(csvHeader + "\n")
	for _, g := range season.Playoffs {
		b.WriteString(csvRow(g) + "\n")
	}
	return b.String()
}

func TestTeamCode(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "New England Patriots", want: "NE"},
		{name: "Oakland Raiders", want: "LV"},
		{name: "San Diego Chargers", want: "LAC"},
		{name: "St. Louis Rams", want: "LAR"},
		{name: "Washington Redskins", want: "WAS"},
		{name: "Washington Football Team", want: "WAS"},
		{name: "  Green Bay Packers ", want: "GB"},
		{name: "ne", want: "NE"},
		{name: "JAC", want: "JAC"},
		{name: "Kansas Cty Chiefs", want: "KC"},
		{name: "Pittsburg Steelers", want: "PIT"},
		{name: "Springfield Isotopes", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TeamCode(tt.name)
			if tt.wantErr {
				var srcErr *SourceError
				require.True(t, errors.As(err, &srcErr))
				assert.Equal(t, "unknown_franchise", srcErr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_SyntheticSeason(t *testing.T) {
	topo := league.NFL()

	for _, year := range []int{2010, 2021} {
		want := leaguetest.FullSeason(topo, year)

		got, err := Parse(strings.NewReader(seasonCSV(want)), topo, year)
		require.NoError(t, err)

		assert.Equal(t, year, got.Year)
		assert.Equal(t, want.Playoffs, got.Playoffs)
		for _, team := range topo.Teams() {
			assert.ElementsMatch(t, want.Schedule[team], got.Schedule[team], "%s in %d", team, year)
		}
	}
}

func TestParseRow_HostMarker(t *testing.T) {
	columns, err := headerIndexes(strings.Split(csvHeader, ","))
	require.NoError(t, err)

	tests := []struct {
		name     string
		row      string
		wantHome string
		wantErr  bool
	}{
		{name: "home winner", row: "1,Sun,,,Buffalo Bills,,Miami Dolphins,,24,10", wantHome: "BUF"},
		{name: "away winner", row: "1,Sun,,,Buffalo Bills,@,Miami Dolphins,,24,10", wantHome: "MIA"},
		{name: "neutral site", row: "SuperBowl,Sun,,,Buffalo Bills,N,Los Angeles Rams,,24,10", wantHome: "BUF"},
		{name: "tie", row: "3,Sun,,,Buffalo Bills,@,Miami Dolphins,,17,17", wantHome: "MIA"},
		{name: "bad marker", row: "1,Sun,,,Buffalo Bills,vs,Miami Dolphins,,24,10", wantErr: true},
		{name: "bad points", row: "1,Sun,,,Buffalo Bills,,Miami Dolphins,,twenty,10", wantErr: true},
		{name: "short row", row: "1,Sun,,,Buffalo Bills,,Miami Dolphins", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, err := parseRow(strings.Split(tt.row, ","), columns)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHome, game.Home)
			assert.Equal(t, "BUF", game.Winner)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	topo := league.NFL()

	tests := []struct {
		name    string
		content string
	}{
		{name: "missing column", content: "Week,Day,Winner/tie,,Loser/tie,PtsW\n"},
		{name: "marker column not between teams", content: "Week,Winner/tie,Loser/tie,,PtsW,PtsL\n"},
		{name: "week past the regular season", content: csvHeader + "\n18,Sun,,,Buffalo Bills,,Miami Dolphins,,24,10\n"},
		{name: "unknown week", content: csvHeader + "\nPreseason,Sun,,,Buffalo Bills,,Miami Dolphins,,24,10\n"},
		{name: "unknown team", content: csvHeader + "\n1,Sun,,,Springfield Isotopes,,Miami Dolphins,,24,10\n"},
		{name: "incomplete season", content: csvHeader + "\n1,Sun,,,Buffalo Bills,,Miami Dolphins,,24,10\n"},
		{name: "empty", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.content), topo, 2010)
			assert.Error(t, err)
		})
	}
}

func TestFileSource(t *testing.T) {
	topo := league.NFL()
	dir := t.TempDir()
	want := leaguetest.FullSeason(topo, 2010)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2010.csv"), []byte(seasonCSV(want)), 0o600))

	logger, _ := test.NewNullLogger()
	source := NewFileSource(dir, topo, logger)

	season, err := source.Season(context.Background(), 2010)
	require.NoError(t, err)
	assert.Equal(t, want.Playoffs, season.Playoffs)

	_, err = source.Season(context.Background(), 2011)
	var srcErr *SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, "season_not_found", srcErr.Type)
	assert.Equal(t, 2011, srcErr.Season)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = source.Season(ctx, 2010)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPSource_Season(t *testing.T) {
	topo := league.NFL()
	body := seasonCSV(leaguetest.FullSeason(topo, 2021))

	tests := []struct {
		name         string
		year         int
		serverStatus int
		wantError    bool
		wantType     string
	}{
		{name: "successful request", year: 2021, serverStatus: http.StatusOK},
		{name: "season not found", year: 1999, serverStatus: http.StatusNotFound, wantError: true, wantType: "season_not_found"},
		{name: "server error", year: 2021, serverStatus: http.StatusInternalServerError, wantError: true, wantType: "api_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				expectedPath := fmt.Sprintf("/%d.csv", tt.year)
				if r.URL.Path != expectedPath {
					t.Errorf("Expected path %s, got %s", expectedPath, r.URL.Path)
				}
				w.WriteHeader(tt.serverStatus)
				if tt.serverStatus == http.StatusOK {
					w.Write([]byte(body))
				}
			}))
			defer server.Close()

			logger, _ := test.NewNullLogger()
			source := &HTTPSource{
				baseURL:    server.URL,
				httpClient: &http.Client{},
				limiter:    rate.NewLimiter(rate.Inf, 1),
				topology:   topo,
				logger:     logger,
			}

			season, err := source.Season(context.Background(), tt.year)
			if tt.wantError {
				var srcErr *SourceError
				require.True(t, errors.As(err, &srcErr))
				assert.Equal(t, tt.wantType, srcErr.Type)
				assert.Equal(t, tt.serverStatus, srcErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, season.Year)
		})
	}
}

func TestHTTPSource_ContextCanceled(t *testing.T) {
	logger, _ := test.NewNullLogger()
	source := NewHTTPSource("http://127.0.0.1:0", 1, 1, 0, league.NFL(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := source.Season(ctx, 2021)
	assert.Error(t, err)
}

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) Season(_ context.Context, year int) (*league.Season, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return leaguetest.FullSeason(league.NFL(), year), nil
}

func TestCachedSource(t *testing.T) {
	inner := &countingSource{}
	cached := NewCachedSource(inner)

	first, err := cached.Season(context.Background(), 2010)
	require.NoError(t, err)
	second, err := cached.Season(context.Background(), 2010)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, inner.calls)

	failing := &countingSource{err: &SourceError{Type: "api_error", Message: "boom"}}
	cached = NewCachedSource(failing)
	_, err = cached.Season(context.Background(), 2010)
	assert.Error(t, err)
	_, err = cached.Season(context.Background(), 2010)
	assert.Error(t, err)
	assert.Equal(t, 2, failing.calls)
}
