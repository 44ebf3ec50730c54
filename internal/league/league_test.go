package league_test

import (
	"errors"
	"testing"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league/leaguetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	win := leaguetest.G(1, "NE", "BUF", 24, 10)
	tie := leaguetest.G(2, "NE", "BUF", 17, 17)

	tests := []struct {
		name string
		game league.Game
		team string
		want float64
	}{
		{name: "winner", game: win, team: "NE", want: 1.0},
		{name: "loser", game: win, team: "BUF", want: 0.0},
		{name: "tie listed winner", game: tie, team: "NE", want: 0.5},
		{name: "tie listed loser", game: tie, team: "BUF", want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := league.Result(tt.game, tt.team)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResult_NotAParticipant(t *testing.T) {
	_, err := league.Result(leaguetest.G(1, "NE", "BUF", 24, 10), "MIA")
	require.Error(t, err)
	assert.True(t, errors.Is(err, league.ErrIntegrity))

	var integrity *league.IntegrityError
	require.True(t, errors.As(err, &integrity))
	assert.Equal(t, "MIA", integrity.Team)

	_, err = league.Opponent(leaguetest.G(1, "NE", "BUF", 24, 10), "MIA")
	assert.ErrorIs(t, err, league.ErrIntegrity)
}

func TestRecordAndOpponents(t *testing.T) {
	schedule := leaguetest.ScheduleOf(
		leaguetest.G(1, "NE", "BUF", 24, 10),
		leaguetest.G(2, "MIA", "NE", 20, 13),
		leaguetest.G(3, "NE", "NYJ", 14, 14),
		leaguetest.G(4, "NE", "BUF", 31, 3),
	)

	record, err := league.SeasonRecord(schedule, "NE")
	require.NoError(t, err)
	assert.Equal(t, 2.5, record)

	opponents, err := league.AllOpponents(schedule, "NE")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"BUF": true, "MIA": true, "NYJ": true}, opponents)

	_, err = league.SeasonRecord(schedule, "KC")
	assert.ErrorIs(t, err, league.ErrIntegrity)
}

func TestCommonGames(t *testing.T) {
	schedule := leaguetest.ScheduleOf(
		leaguetest.G(1, "NE", "BUF", 24, 10),
		leaguetest.G(2, "NE", "MIA", 20, 13),
		leaguetest.G(3, "KC", "NE", 27, 20),
		leaguetest.G(1, "BAL", "BUF", 21, 7),
		leaguetest.G(2, "MIA", "BAL", 10, 6),
		leaguetest.G(3, "BAL", "PIT", 17, 16),
		leaguetest.G(4, "BUF", "NE", 23, 20),
	)

	common, err := league.CommonGames(schedule, []string{"NE", "BAL"})
	require.NoError(t, err)

	// BUF and MIA are the only shared opponents
	assert.Len(t, common["NE"], 3)
	assert.Len(t, common["BAL"], 2)

	neRecord, err := league.Record(common["NE"], "NE")
	require.NoError(t, err)
	assert.Equal(t, 2.0, neRecord)

	balRecord, err := league.Record(common["BAL"], "BAL")
	require.NoError(t, err)
	assert.Equal(t, 1.0, balRecord)
}

func TestRank(t *testing.T) {
	scores := map[string]float64{"A": 10, "B": 10, "C": 8, "D": 8, "E": 8, "F": 5}
	metric := func(team string) (float64, error) { return scores[team], nil }

	want := map[string]int{"A": 1, "B": 1, "C": 3, "D": 3, "E": 3, "F": 6}

	orders := [][]string{
		{"A", "B", "C", "D", "E", "F"},
		{"F", "E", "D", "C", "B", "A"},
		{"C", "A", "F", "D", "B", "E"},
	}
	for _, order := range orders {
		got, err := league.Rank(order, metric)
		require.NoError(t, err)
		assert.Equal(t, want, got, "order %v", order)
	}
}

func TestTopology(t *testing.T) {
	topo := league.NFL()

	assert.Len(t, topo.Teams(), 32)
	assert.Equal(t, []string{"AFC", "NFC"}, topo.Conferences())
	assert.Len(t, topo.ConferenceTeams(league.ConferenceAFC), 16)

	div, err := topo.DivisionOf("NE")
	require.NoError(t, err)
	assert.Equal(t, "AFCE", div)

	conf, err := topo.SharedConference([]string{"NE", "KC", "BAL"})
	require.NoError(t, err)
	assert.Equal(t, "AFC", conf)

	_, err = topo.SharedConference([]string{"NE", "DAL"})
	assert.ErrorIs(t, err, league.ErrIntegrity)

	// Accessors hand out copies
	divs := topo.Divisions()
	divs[0].Teams[0] = "XXX"
	again, _ := topo.Division(divs[0].Code)
	assert.NotEqual(t, "XXX", again.Teams[0])
}

func TestNewTopology_Invalid(t *testing.T) {
	divs := league.NFL().Divisions()

	t.Run("wrong division count", func(t *testing.T) {
		_, err := league.NewTopology(divs[:7])
		assert.Error(t, err)
	})

	t.Run("team in two divisions", func(t *testing.T) {
		dup := append([]league.Division(nil), divs...)
		dup[1].Teams[0] = dup[0].Teams[0]
		_, err := league.NewTopology(dup)
		assert.Error(t, err)
	})
}

func TestBuildSchedule(t *testing.T) {
	topo := league.NFL()

	for _, year := range []int{2010, 2021} {
		games := leaguetest.SeasonGames(topo, year)
		schedule, err := league.BuildSchedule(topo, games, year)
		require.NoError(t, err)
		for _, team := range topo.Teams() {
			assert.Len(t, schedule[team], league.GamesPerTeam(year), "%s in %d", team, year)
		}
	}

	t.Run("wrong season length", func(t *testing.T) {
		games := leaguetest.SeasonGames(topo, 2010)
		_, err := league.BuildSchedule(topo, games, 2021)
		assert.ErrorIs(t, err, league.ErrIntegrity)
	})

	t.Run("home team did not play", func(t *testing.T) {
		games := leaguetest.SeasonGames(topo, 2010)
		games[0].Home = "XXX"
		_, err := league.BuildSchedule(topo, games, 2010)
		assert.ErrorIs(t, err, league.ErrIntegrity)
	})
}

func TestSeasonEras(t *testing.T) {
	assert.Equal(t, 16, league.GamesPerTeam(2020))
	assert.Equal(t, 17, league.GamesPerTeam(2021))
	assert.Equal(t, 6, league.PlayoffSeeds(2010))
	assert.Equal(t, 7, league.PlayoffSeeds(2020))
	assert.Equal(t, 7, league.PlayoffSeeds(2021))
}

func TestScheduleFilter_DoesNotMutate(t *testing.T) {
	schedule := leaguetest.ScheduleOf(
		leaguetest.G(1, "NE", "BUF", 24, 10),
		leaguetest.G(2, "NE", "MIA", 20, 13),
	)
	filtered := schedule.Filter(func(team string, g league.Game) bool {
		return g.Loser != "MIA"
	})

	assert.Len(t, filtered["NE"], 1)
	assert.Len(t, schedule["NE"], 2)
	assert.Empty(t, filtered["MIA"])
}
