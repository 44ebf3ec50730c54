package league

// Record sums the results of team over the given games
func Record(games []Game, team string) (float64, error) {
	total := 0.0
	for _, g := range games {
		r, err := Result(g, team)
		if err != nil {
			return 0, err
		}
		total += r
	}
	return total, nil
}

// SeasonRecord is the record of team over its full schedule
func SeasonRecord(schedule Schedule, team string) (float64, error) {
	games, err := schedule.Games(team)
	if err != nil {
		return 0, err
	}
	return Record(games, team)
}

// AllOpponents returns the distinct opponents on a team's schedule
func AllOpponents(schedule Schedule, team string) (map[string]bool, error) {
	games, err := schedule.Games(team)
	if err != nil {
		return nil, err
	}
	opponents := make(map[string]bool, len(games))
	for _, g := range games {
		opp, err := Opponent(g, team)
		if err != nil {
			return nil, err
		}
		opponents[opp] = true
	}
	return opponents, nil
}

// GamesAgainst returns the games team played against any of the opponents
func GamesAgainst(schedule Schedule, team string, opponents map[string]bool) ([]Game, error) {
	games, err := schedule.Games(team)
	if err != nil {
		return nil, err
	}
	var out []Game
	for _, g := range games {
		opp, err := Opponent(g, team)
		if err != nil {
			return nil, err
		}
		if opponents[opp] {
			out = append(out, g)
		}
	}
	return out, nil
}

// CommonGames intersects the opponent sets of all teams and returns, per
// team, its games against that common set.
func CommonGames(schedule Schedule, teams []string) (map[string][]Game, error) {
	var common map[string]bool
	for _, team := range teams {
		opponents, err := AllOpponents(schedule, team)
		if err != nil {
			return nil, err
		}
		if common == nil {
			common = opponents
			continue
		}
		for opp := range common {
			if !opponents[opp] {
				delete(common, opp)
			}
		}
	}

	out := make(map[string][]Game, len(teams))
	for _, team := range teams {
		games, err := GamesAgainst(schedule, team, common)
		if err != nil {
			return nil, err
		}
		out[team] = games
	}
	return out, nil
}

// SetOf builds a membership set from a team list
func SetOf(teams []string) map[string]bool {
	set := make(map[string]bool, len(teams))
	for _, t := range teams {
		set[t] = true
	}
	return set
}
