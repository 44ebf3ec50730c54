package league

import (
	"sort"
)

// Metric scores a team; higher is better for ranking purposes
type Metric func(team string) (float64, error)

// Rank scores every team of the universe with metric and returns 1-indexed
// ranks, best first. Tied teams share the position of the first team that
// reached their score, so scores 10, 10, 8 rank 1, 1, 3. The result does
// not depend on the order of universe.
func Rank(universe []string, metric Metric) (map[string]int, error) {
	type scored struct {
		team  string
		score float64
	}

	entries := make([]scored, 0, len(universe))
	for _, team := range universe {
		score, err := metric(team)
		if err != nil {
			return nil, err
		}
		entries = append(entries, scored{team: team, score: score})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	ranks := make(map[string]int, len(entries))
	firstIdx := 0
	for idx, e := range entries {
		if idx > 0 && e.score != entries[idx-1].score {
			firstIdx = idx
		}
		ranks[e.team] = firstIdx + 1
	}
	return ranks, nil
}

// TotalPointsFor is a Metric over a schedule: points scored across the season
func TotalPointsFor(schedule Schedule) Metric {
	return func(team string) (float64, error) {
		return sumPoints(schedule, team, PointsFor)
	}
}

// TotalPointsAgainst is a Metric over a schedule: points allowed across the season
func TotalPointsAgainst(schedule Schedule) Metric {
	return func(team string) (float64, error) {
		return sumPoints(schedule, team, PointsAgainst)
	}
}

func sumPoints(schedule Schedule, team string, points func(Game, string) (int, error)) (float64, error) {
	games, err := schedule.Games(team)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, g := range games {
		p, err := points(g, team)
		if err != nil {
			return 0, err
		}
		total += p
	}
	return float64(total), nil
}
