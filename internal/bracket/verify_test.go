package bracket_test

import (
	"testing"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/bracket"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league/leaguetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sixSeeds   = []string{"BAL", "NE", "IND", "KC", "CLE", "BUF"}
	sevenSeeds = []string{"BAL", "NE", "IND", "KC", "CLE", "BUF", "JAC"}
)

func swap(seeds []string, i, j int) []string {
	out := append([]string(nil), seeds...)
	out[i], out[j] = out[j], out[i]
	return out
}

func TestVerify_Matches(t *testing.T) {
	for _, seeds := range [][]string{sixSeeds, sevenSeeds} {
		report, err := bracket.Verify(leaguetest.Playoffs(seeds), seeds)
		require.NoError(t, err)
		assert.True(t, report.OK(), report.Summary())

		// Wild card pairings plus two divisional games
		assert.Len(t, report.Checked, len(seeds)-2)
		assert.Contains(t, report.Summary(), "ok")
	}
}

func TestVerify_WildCardMismatch(t *testing.T) {
	tests := []struct {
		name  string
		seeds []string
		i, j  int
	}{
		{name: "six seeds, 3 and 4 swapped", seeds: sixSeeds, i: 2, j: 3},
		{name: "seven seeds, 1 and 2 swapped", seeds: sevenSeeds, i: 0, j: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games := leaguetest.Playoffs(tt.seeds)
			report, err := bracket.Verify(games, swap(tt.seeds, tt.i, tt.j))
			require.NoError(t, err)

			assert.False(t, report.OK())
			require.NotEmpty(t, report.Mismatches)
			assert.Equal(t, league.RoundWildCard, report.Mismatches[0].Expected.Round)

			// The divisional round is skipped after a wild card mismatch
			for _, m := range report.Checked {
				assert.Equal(t, league.RoundWildCard, m.Round)
			}
		})
	}
}

func TestVerify_MissingGame(t *testing.T) {
	games := leaguetest.Playoffs(sixSeeds)

	var trimmed []league.Game
	for _, g := range games {
		if g.Round() == league.RoundDivision && g.Home == "BAL" {
			continue
		}
		trimmed = append(trimmed, g)
	}

	report, err := bracket.Verify(trimmed, sixSeeds)
	require.NoError(t, err)
	require.Len(t, report.Mismatches, 1)

	m := report.Mismatches[0]
	assert.Equal(t, league.RoundDivision, m.Expected.Round)
	assert.Equal(t, "BAL", m.Expected.Home)
	assert.Nil(t, m.Actual)
}

func TestVerify_DivisionalReseeding(t *testing.T) {
	// The 6 seed upsets the 3 seed and visits the top seed
	seeds := sixSeeds
	games := []league.Game{
		{Week: string(league.RoundWildCard), Winner: "BUF", Loser: "IND", Home: "IND", PtsW: 20, PtsL: 17},
		{Week: string(league.RoundWildCard), Winner: "KC", Loser: "CLE", Home: "KC", PtsW: 20, PtsL: 17},
		{Week: string(league.RoundDivision), Winner: "BAL", Loser: "BUF", Home: "BAL", PtsW: 20, PtsL: 17},
		{Week: string(league.RoundDivision), Winner: "KC", Loser: "NE", Home: "NE", PtsW: 20, PtsL: 17},
	}

	report, err := bracket.Verify(games, seeds)
	require.NoError(t, err)
	assert.True(t, report.OK(), report.Summary())
	require.Len(t, report.Checked, 4)
	assert.Equal(t, 6, report.Checked[2].AwaySeed)
	assert.Equal(t, 4, report.Checked[3].AwaySeed)
}

func TestVerify_InvalidSeeds(t *testing.T) {
	_, err := bracket.Verify(nil, sixSeeds[:5])
	assert.Error(t, err)

	_, err = bracket.Verify(nil, []string{"BAL", "NE", "IND", "KC", "CLE", "BAL"})
	assert.Error(t, err)
}
