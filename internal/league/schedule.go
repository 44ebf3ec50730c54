package league

import (
	"fmt"
	"sort"
)

const (
	// SeventeenGameSeason is the first season with a 17-game schedule
	SeventeenGameSeason = 2021
	// SevenSeedSeason is the first season with three wild cards per conference
	SevenSeedSeason = 2020
)

// GamesPerTeam returns the regular-season length of a season
func GamesPerTeam(season int) int {
	if season >= SeventeenGameSeason {
		return 17
	}
	return 16
}

// RegularSeasonWeeks returns the number of regular-season weeks (one bye each)
func RegularSeasonWeeks(season int) int {
	return GamesPerTeam(season) + 1
}

// WildCardSlots returns how many wild cards each conference gets
func WildCardSlots(season int) int {
	if season >= SevenSeedSeason {
		return 3
	}
	return 2
}

// PlayoffSeeds returns the length of a conference seed list
func PlayoffSeeds(season int) int {
	return DivisionsPerConference + WildCardSlots(season)
}

// Schedule maps a team code to the games it played, in the order they
// were loaded. A schedule is shared read-only between every tiebreak
// resolution of a season.
type Schedule map[string][]Game

// Games returns the team's games. A missing team is an integrity error.
func (s Schedule) Games(team string) ([]Game, error) {
	games, ok := s[team]
	if !ok {
		return nil, integrityErrorf("unknown_team", team, "team has no schedule")
	}
	return games, nil
}

// Teams returns the scheduled teams in sorted order
func (s Schedule) Teams() []string {
	teams := make([]string, 0, len(s))
	for team := range s {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// Filter returns a new schedule keeping only the games for which keep
// returns true. The receiver is left untouched.
func (s Schedule) Filter(keep func(team string, game Game) bool) Schedule {
	out := make(Schedule, len(s))
	for team, games := range s {
		kept := make([]Game, 0, len(games))
		for _, g := range games {
			if keep(team, g) {
				kept = append(kept, g)
			}
		}
		out[team] = kept
	}
	return out
}

// BuildSchedule groups a season's regular-season games per team and checks
// the schedule invariants: every team in the topology is present and has
// played exactly GamesPerTeam(season) games.
func BuildSchedule(topology *Topology, games []Game, season int) (Schedule, error) {
	schedule := make(Schedule, 32)
	for _, team := range topology.Teams() {
		schedule[team] = nil
	}

	for _, g := range games {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		if g.Round() != "" {
			return nil, integrityErrorf("playoff_game", g.Home,
				"%s game passed as a regular-season game", g.Week)
		}
		for _, team := range []string{g.Winner, g.Loser} {
			if _, ok := schedule[team]; !ok {
				return nil, integrityErrorf("unknown_team", team, "team is not part of the league")
			}
			schedule[team] = append(schedule[team], g)
		}
	}

	want := GamesPerTeam(season)
	for team, teamGames := range schedule {
		if len(teamGames) != want {
			return nil, integrityErrorf("schedule_length", team,
				"played %d games in %d, want %d", len(teamGames), season, want)
		}
	}

	return schedule, nil
}

// Season bundles one season's normalized regular-season schedule and its
// recorded playoff games.
type Season struct {
	Year     int      `json:"year"`
	Schedule Schedule `json:"-"`
	Playoffs []Game   `json:"playoffs"`
}

// NewSeason validates the loaded games and builds the season
func NewSeason(topology *Topology, year int, regular, playoffs []Game) (*Season, error) {
	schedule, err := BuildSchedule(topology, regular, year)
	if err != nil {
		return nil, fmt.Errorf("season %d: %w", year, err)
	}

	for _, g := range playoffs {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("season %d playoffs: %w", year, err)
		}
		if g.Round() == "" {
			return nil, fmt.Errorf("season %d playoffs: %w", year,
				integrityErrorf("regular_game", g.Home, "week %s game passed as a playoff game", g.Week))
		}
	}

	return &Season{
		Year:     year,
		Schedule: schedule,
		Playoffs: append([]Game(nil), playoffs...),
	}, nil
}
