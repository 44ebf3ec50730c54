package league

import (
	"strconv"
)

// Round tags a postseason game
type Round string

const (
	RoundWildCard  Round = "WildCard"
	RoundDivision  Round = "Division"
	RoundConfChamp Round = "ConfChamp"
	RoundSuperBowl Round = "SuperBowl"
)

// PlayoffRounds lists the postseason rounds in the order they are played
var PlayoffRounds = []Round{RoundWildCard, RoundDivision, RoundConfChamp, RoundSuperBowl}

// IsPlayoffRound reports whether the week tag names a postseason round
func IsPlayoffRound(week string) bool {
	for _, r := range PlayoffRounds {
		if string(r) == week {
			return true
		}
	}
	return false
}

// Game is one completed game. Week is the regular-season week number or a
// playoff round tag. For a tie PtsW equals PtsL and Winner/Loser are just
// the two participants.
type Game struct {
	Week   string `json:"week"`
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
	PtsW   int    `json:"pts_w"`
	PtsL   int    `json:"pts_l"`
	Home   string `json:"home"`
}

// Round returns the playoff round of the game, or "" for a regular-season game
func (g Game) Round() Round {
	if IsPlayoffRound(g.Week) {
		return Round(g.Week)
	}
	return ""
}

// WeekNumber parses the regular-season week
func (g Game) WeekNumber() (int, bool) {
	n, err := strconv.Atoi(g.Week)
	return n, err == nil
}

// IsTie reports whether the game ended level
func (g Game) IsTie() bool {
	return g.PtsW == g.PtsL
}

// Involves reports whether team played in the game
func (g Game) Involves(team string) bool {
	return g.Winner == team || g.Loser == team
}

// Away returns the visiting team
func (g Game) Away() string {
	if g.Home == g.Winner {
		return g.Loser
	}
	return g.Winner
}

// Validate checks the invariants every loaded game has to satisfy
func (g Game) Validate() error {
	if g.Winner == "" || g.Loser == "" {
		return integrityErrorf("missing_team", "", "game in week %s is missing a participant", g.Week)
	}
	if g.Winner == g.Loser {
		return integrityErrorf("self_game", g.Winner, "team cannot play itself in week %s", g.Week)
	}
	if g.PtsW < g.PtsL {
		return integrityErrorf("score_order", g.Winner,
			"winner scored %d, less than loser's %d in week %s", g.PtsW, g.PtsL, g.Week)
	}
	if g.Home != g.Winner && g.Home != g.Loser {
		return integrityErrorf("home_team", g.Home,
			"home team did not play %s vs %s in week %s", g.Winner, g.Loser, g.Week)
	}
	return nil
}

// Result returns 1 for a win, 0.5 for a tie and 0 for a loss
func Result(game Game, team string) (float64, error) {
	if !game.Involves(team) {
		return 0, integrityErrorf("not_a_participant", team,
			"did not play in %s vs %s (week %s)", game.Winner, game.Loser, game.Week)
	}
	switch {
	case game.IsTie():
		return 0.5, nil
	case game.Winner == team:
		return 1.0, nil
	default:
		return 0.0, nil
	}
}

// Opponent returns the other participant of the game
func Opponent(game Game, team string) (string, error) {
	if !game.Involves(team) {
		return "", integrityErrorf("not_a_participant", team,
			"did not play in %s vs %s (week %s)", game.Winner, game.Loser, game.Week)
	}
	if game.Winner == team {
		return game.Loser, nil
	}
	return game.Winner, nil
}

// PointsFor returns the points team scored in the game
func PointsFor(game Game, team string) (int, error) {
	if !game.Involves(team) {
		return 0, integrityErrorf("not_a_participant", team,
			"did not play in %s vs %s (week %s)", game.Winner, game.Loser, game.Week)
	}
	if game.Winner == team {
		return game.PtsW, nil
	}
	return game.PtsL, nil
}

// PointsAgainst returns the points team allowed in the game
func PointsAgainst(game Game, team string) (int, error) {
	if !game.Involves(team) {
		return 0, integrityErrorf("not_a_participant", team,
			"did not play in %s vs %s (week %s)", game.Winner, game.Loser, game.Week)
	}
	if game.Winner == team {
		return game.PtsL, nil
	}
	return game.PtsW, nil
}

// NetPoints returns points scored minus points allowed by team in the game
func NetPoints(game Game, team string) (int, error) {
	pf, err := PointsFor(game, team)
	if err != nil {
		return 0, err
	}
	pa, err := PointsAgainst(game, team)
	if err != nil {
		return 0, err
	}
	return pf - pa, nil
}
