package bracket

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
)

// Matchup is an expected playoff pairing, host first
type Matchup struct {
	Round    league.Round `json:"round"`
	HomeSeed int          `json:"home_seed"`
	AwaySeed int          `json:"away_seed"`
	Home     string       `json:"home"`
	Away     string       `json:"away"`
}

func (m Matchup) String() string {
	return fmt.Sprintf("%s: #%d %s hosts #%d %s", m.Round, m.HomeSeed, m.Home, m.AwaySeed, m.Away)
}

// Mismatch describes one expected pairing the recorded playoffs disagree with
type Mismatch struct {
	Expected Matchup `json:"expected"`
	// Actual is the game hosted by the expected home team, nil when none was found
	Actual *league.Game `json:"actual,omitempty"`
	Reason string       `json:"reason"`
}

func (m Mismatch) String() string {
	if m.Actual == nil {
		return fmt.Sprintf("%s: %s", m.Expected, m.Reason)
	}
	return fmt.Sprintf("%s: %s (recorded %s vs %s at %s)",
		m.Expected, m.Reason, m.Actual.Winner, m.Actual.Loser, m.Actual.Home)
}

// Report is the outcome of checking a seed list against the playoffs
type Report struct {
	Seeds      []string   `json:"seeds"`
	Checked    []Matchup  `json:"checked"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// OK reports whether every checked pairing matched
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0
}

// Summary renders the report in one line
func (r *Report) Summary() string {
	if r.OK() {
		return fmt.Sprintf("ok (%d matchups checked)", len(r.Checked))
	}
	parts := make([]string, len(r.Mismatches))
	for i, m := range r.Mismatches {
		parts[i] = m.String()
	}
	return strings.Join(parts, "; ")
}

// wildCardPairings lists the wild card round by seed number
func wildCardPairings(numSeeds int) [][2]int {
	pairs := [][2]int{{3, 6}, {4, 5}}
	if numSeeds == 7 {
		pairs = append(pairs, [2]int{2, 7})
	}
	return pairs
}

// Verify reconstructs the wild card and divisional pairings implied by the
// seeds and checks them against the recorded playoff games. Disagreements
// are reported in the Report; an error means the seed list itself is
// unusable.
func Verify(playoffGames []league.Game, seeds []string) (*Report, error) {
	if len(seeds) != 6 && len(seeds) != 7 {
		return nil, fmt.Errorf("expected 6 or 7 seeds, got %d", len(seeds))
	}
	seedOf := make(map[string]int, len(seeds))
	for i, team := range seeds {
		if _, dup := seedOf[team]; dup {
			return nil, fmt.Errorf("team %s seeded twice", team)
		}
		seedOf[team] = i + 1
	}

	report := &Report{Seeds: append([]string(nil), seeds...)}

	// Byes count as wild card wins for re-seeding
	byes := 2
	if len(seeds) == 7 {
		byes = 1
	}
	advancing := append([]string(nil), seeds[:byes]...)

	for _, pair := range wildCardPairings(len(seeds)) {
		m := Matchup{
			Round:    league.RoundWildCard,
			HomeSeed: pair[0],
			AwaySeed: pair[1],
			Home:     seeds[pair[0]-1],
			Away:     seeds[pair[1]-1],
		}
		if winner, ok := report.check(playoffGames, m); ok {
			advancing = append(advancing, winner)
		}
	}

	// Without every wild card winner the divisional round cannot be rebuilt
	if !report.OK() {
		return report, nil
	}

	sort.Slice(advancing, func(i, j int) bool {
		return seedOf[advancing[i]] < seedOf[advancing[j]]
	})
	for _, pair := range [][2]int{{0, 3}, {1, 2}} {
		home, away := advancing[pair[0]], advancing[pair[1]]
		report.check(playoffGames, Matchup{
			Round:    league.RoundDivision,
			HomeSeed: seedOf[home],
			AwaySeed: seedOf[away],
			Home:     home,
			Away:     away,
		})
	}

	return report, nil
}

// check finds the game of the round hosted by the expected home team and
// compares participants. It returns the recorded winner when they match.
func (r *Report) check(games []league.Game, m Matchup) (string, bool) {
	r.Checked = append(r.Checked, m)

	for _, g := range games {
		if g.Round() != m.Round || g.Home != m.Home {
			continue
		}
		if !g.Involves(m.Away) {
			game := g
			r.Mismatches = append(r.Mismatches, Mismatch{
				Expected: m,
				Actual:   &game,
				Reason:   fmt.Sprintf("%s hosted %s instead", m.Home, g.Away()),
			})
			return "", false
		}
		return g.Winner, true
	}

	r.Mismatches = append(r.Mismatches, Mismatch{
		Expected: m,
		Reason:   fmt.Sprintf("no %s game hosted by %s", m.Round, m.Home),
	})
	return "", false
}
