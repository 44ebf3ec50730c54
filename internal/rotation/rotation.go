// Package rotation models the league's opponent rotation: which divisions
// meet in a given season and which games are scheduled by the previous
// season's division finish ("place-ranked" games).
package rotation

import (
	"fmt"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
)

const (
	// FirstRotationSeason is the first season of the 32-team format
	FirstRotationSeason = 2002
)

// Intra-conference division pairings repeat every three seasons from 2002.
// Keys and values are division suffixes and apply to both conferences.
var intraConferenceRotation = []map[string]string{
	{"W": "E", "E": "W", "N": "S", "S": "N"},
	{"W": "N", "N": "W", "E": "S", "S": "E"},
	{"W": "S", "S": "W", "N": "E", "E": "N"},
}

// Inter-conference pairings repeat every four seasons. Row r is the
// 17th-game pairing of season 2021+r; the four-game pairing of a season is
// the row two seasons ahead.
var interConferenceRotation = []map[string]string{
	{"AFCE": "NFCE", "AFCN": "NFCW", "AFCS": "NFCS", "AFCW": "NFCN"},
	{"AFCE": "NFCW", "AFCN": "NFCE", "AFCS": "NFCN", "AFCW": "NFCS"},
	{"AFCE": "NFCS", "AFCN": "NFCN", "AFCS": "NFCW", "AFCW": "NFCE"},
	{"AFCE": "NFCN", "AFCN": "NFCS", "AFCS": "NFCE", "AFCW": "NFCW"},
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

func symmetric(row map[string]string) map[string]string {
	out := make(map[string]string, 2*len(row))
	for k, v := range row {
		out[k] = v
		out[v] = k
	}
	return out
}

func divisionSuffix(code string) string {
	if len(code) <= 3 {
		return ""
	}
	return code[3:]
}

// IntraConferencePairing maps every division code to the same-conference
// division it plays in full that season
func IntraConferencePairing(topology *league.Topology, year int) (map[string]string, error) {
	if year < FirstRotationSeason {
		return nil, fmt.Errorf("no division rotation before %d (got %d)", FirstRotationSeason, year)
	}
	row := intraConferenceRotation[mod(year-FirstRotationSeason, len(intraConferenceRotation))]

	out := make(map[string]string)
	for _, div := range topology.Divisions() {
		partner, ok := row[divisionSuffix(div.Code)]
		if !ok {
			return nil, fmt.Errorf("division %s has no rotation slot", div.Code)
		}
		out[div.Code] = div.Conference() + partner
	}
	return out, nil
}

// InterConferencePairing maps every division code to the other-conference
// division it plays in full that season
func InterConferencePairing(year int) (map[string]string, error) {
	if year < FirstRotationSeason {
		return nil, fmt.Errorf("no division rotation before %d (got %d)", FirstRotationSeason, year)
	}
	row := interConferenceRotation[mod(year-league.SeventeenGameSeason+2, len(interConferenceRotation))]
	return symmetric(row), nil
}

// ExtraGamePairing maps every division code to the other-conference
// division whose same-place team it meets in the 17th game
func ExtraGamePairing(year int) (map[string]string, error) {
	if year < league.SeventeenGameSeason {
		return nil, fmt.Errorf("no 17th game before %d (got %d)", league.SeventeenGameSeason, year)
	}
	row := interConferenceRotation[mod(year-league.SeventeenGameSeason, len(interConferenceRotation))]
	return symmetric(row), nil
}

func checkRankings(topology *league.Topology, prevRankings map[string][]string) error {
	for _, div := range topology.Divisions() {
		ranking, ok := prevRankings[div.Code]
		if !ok {
			return fmt.Errorf("missing previous ranking for %s", div.Code)
		}
		if len(ranking) != league.TeamsPerDivision {
			return fmt.Errorf("previous ranking of %s has %d teams", div.Code, len(ranking))
		}
	}
	return nil
}

// ExtraGameOpponents returns each team's 17th-game opponent: the team that
// finished in the same place of the paired division the season before
func ExtraGameOpponents(topology *league.Topology, year int, prevRankings map[string][]string) (map[string]string, error) {
	pairing, err := ExtraGamePairing(year)
	if err != nil {
		return nil, err
	}
	if err := checkRankings(topology, prevRankings); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(topology.Teams()))
	for div, oppDiv := range pairing {
		ranking, oppRanking := prevRankings[div], prevRankings[oppDiv]
		for place := range ranking {
			team, opp := ranking[place], oppRanking[place]
			if prev, seen := out[opp]; seen && prev != team {
				return nil, fmt.Errorf("%s paired with both %s and %s", opp, prev, team)
			}
			out[team] = opp
		}
	}

	if len(out) != len(topology.Teams()) {
		return nil, fmt.Errorf("17th game opponents found for %d of %d teams", len(out), len(topology.Teams()))
	}
	return out, nil
}

// IntraConferenceRankedOpponents returns, per team, the two same-place
// opponents from the conference divisions it is not paired with that season
func IntraConferenceRankedOpponents(topology *league.Topology, year int, prevRankings map[string][]string) (map[string][]string, error) {
	pairing, err := IntraConferencePairing(topology, year)
	if err != nil {
		return nil, err
	}
	if err := checkRankings(topology, prevRankings); err != nil {
		return nil, err
	}

	out := make(map[string][]string)
	for _, div := range topology.Divisions() {
		ranking := prevRankings[div.Code]
		for _, other := range topology.ConferenceDivisions(div.Conference()) {
			if other.Code == div.Code || other.Code == pairing[div.Code] {
				continue
			}
			oppRanking := prevRankings[other.Code]
			for place, team := range ranking {
				out[team] = append(out[team], oppRanking[place])
			}
		}
	}

	for team, opps := range out {
		if len(opps) != 2 {
			return nil, fmt.Errorf("%s has %d place-ranked opponents, want 2", team, len(opps))
		}
	}
	return out, nil
}

// VerifyRankedGames checks that every place-ranked game implied by the
// previous season's rankings is on the schedule
func VerifyRankedGames(topology *league.Topology, schedule league.Schedule, year int, prevRankings map[string][]string) error {
	intra, err := IntraConferenceRankedOpponents(topology, year, prevRankings)
	if err != nil {
		return err
	}
	var extra map[string]string
	if year >= league.SeventeenGameSeason {
		if extra, err = ExtraGameOpponents(topology, year, prevRankings); err != nil {
			return err
		}
	}

	for _, team := range topology.Teams() {
		opponents, err := league.AllOpponents(schedule, team)
		if err != nil {
			return err
		}
		for _, opp := range intra[team] {
			if !opponents[opp] {
				return fmt.Errorf("%s did not play place-ranked opponent %s in %d", team, opp, year)
			}
		}
		if extra != nil && !opponents[extra[team]] {
			return fmt.Errorf("%s did not play 17th game opponent %s in %d", team, extra[team], year)
		}
	}
	return nil
}

// WithoutExtraGame returns a copy of the schedule with each team's 17th
// game removed
func WithoutExtraGame(topology *league.Topology, schedule league.Schedule, year int, prevRankings map[string][]string) (league.Schedule, error) {
	extra, err := ExtraGameOpponents(topology, year, prevRankings)
	if err != nil {
		return nil, err
	}
	return dropOpponents(schedule, func(team string) []string {
		return []string{extra[team]}
	})
}

// WithoutRankedOpponents returns a copy of the schedule without any game
// scheduled by the previous season's finish
func WithoutRankedOpponents(topology *league.Topology, schedule league.Schedule, year int, prevRankings map[string][]string) (league.Schedule, error) {
	if year >= league.SeventeenGameSeason {
		var err error
		if schedule, err = WithoutExtraGame(topology, schedule, year, prevRankings); err != nil {
			return nil, err
		}
	}

	intra, err := IntraConferenceRankedOpponents(topology, year, prevRankings)
	if err != nil {
		return nil, err
	}
	return dropOpponents(schedule, func(team string) []string {
		return intra[team]
	})
}

func dropOpponents(schedule league.Schedule, opponentsOf func(team string) []string) (league.Schedule, error) {
	var filterErr error
	out := schedule.Filter(func(team string, g league.Game) bool {
		opp, err := league.Opponent(g, team)
		if err != nil {
			filterErr = err
			return false
		}
		for _, drop := range opponentsOf(team) {
			if opp == drop {
				return false
			}
		}
		return true
	})
	if filterErr != nil {
		return nil, filterErr
	}

	for team, games := range schedule {
		want := len(games) - len(opponentsOf(team))
		if len(out[team]) != want {
			return nil, fmt.Errorf("%s kept %d games, want %d", team, len(out[team]), want)
		}
	}
	return out, nil
}
