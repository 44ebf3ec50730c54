package seeding

import (
	"fmt"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/tiebreak"
	"github.com/sirupsen/logrus"
)

// Seeder builds playoff seeding and division standings on top of a
// season's tiebreak engine.
type Seeder struct {
	engine *tiebreak.Engine
	logger *logrus.Logger
}

// NewSeeder creates a seeder for one season schedule
func NewSeeder(topology *league.Topology, schedule league.Schedule, logger *logrus.Logger) *Seeder {
	return &Seeder{
		engine: tiebreak.NewEngine(topology, schedule, logger),
		logger: logger,
	}
}

// Engine exposes the underlying tiebreak engine
func (s *Seeder) Engine() *tiebreak.Engine {
	return s.engine
}

// DivisionChampions returns the champion of every division of the
// conference, in layout order
func (s *Seeder) DivisionChampions(conference string) ([]string, error) {
	divisions := s.engine.Topology().ConferenceDivisions(conference)
	if len(divisions) != league.DivisionsPerConference {
		return nil, fmt.Errorf("conference %q has %d divisions, want %d",
			conference, len(divisions), league.DivisionsPerConference)
	}

	champs := make([]string, 0, len(divisions))
	for _, div := range divisions {
		champ, err := s.engine.Best(div.Teams[:], tiebreak.ScopeDivision)
		if err != nil {
			return nil, fmt.Errorf("%s champion: %w", div.Code, err)
		}
		s.logger.WithFields(logrus.Fields{
			"division": div.Code,
			"champion": champ,
		}).Debug("Division champion selected")
		champs = append(champs, champ)
	}
	return champs, nil
}

// pickOrder repeatedly takes the best team of the pool with the wild card
// rules until count teams are picked. Each pick starts over from the
// first step on what is left of the pool.
func (s *Seeder) pickOrder(pool []string, count int, scope tiebreak.Scope) ([]string, error) {
	remaining := append([]string(nil), pool...)
	picked := make([]string, 0, count)
	for len(picked) < count {
		if len(remaining) == 0 {
			return nil, fmt.Errorf("pool exhausted after %d of %d picks", len(picked), count)
		}
		next, err := s.engine.Best(remaining, scope)
		if err != nil {
			return nil, err
		}
		picked = append(picked, next)
		remaining = without(remaining, next)
	}
	return picked, nil
}

// Seeds returns the conference's playoff seeds, best first: four division
// champions ordered by the wild card rules, then the wild cards.
func (s *Seeder) Seeds(conference string, season int) ([]string, error) {
	champs, err := s.DivisionChampions(conference)
	if err != nil {
		return nil, err
	}

	seeds, err := s.pickOrder(champs, len(champs), tiebreak.ScopeWildCard)
	if err != nil {
		return nil, fmt.Errorf("seeding %s division champions: %w", conference, err)
	}

	champSet := league.SetOf(champs)
	var rest []string
	for _, team := range s.engine.Topology().ConferenceTeams(conference) {
		if !champSet[team] {
			rest = append(rest, team)
		}
	}

	wildCards, err := s.pickOrder(rest, league.WildCardSlots(season), tiebreak.ScopeWildCard)
	if err != nil {
		return nil, fmt.Errorf("selecting %s wild cards: %w", conference, err)
	}
	seeds = append(seeds, wildCards...)

	s.logger.WithFields(logrus.Fields{
		"conference": conference,
		"season":     season,
		"seeds":      seeds,
	}).Info("Computed playoff seeds")
	return seeds, nil
}

// DivisionRanking orders a division best to worst by repeatedly taking the
// division tiebreak winner of the remaining teams.
func (s *Seeder) DivisionRanking(division string) ([]string, error) {
	div, ok := s.engine.Topology().Division(division)
	if !ok {
		return nil, fmt.Errorf("unknown division %q", division)
	}
	order, err := s.pickOrder(div.Teams[:], len(div.Teams), tiebreak.ScopeDivision)
	if err != nil {
		return nil, fmt.Errorf("ranking %s: %w", division, err)
	}
	return order, nil
}

// RankDivisions ranks every division of the league
func (s *Seeder) RankDivisions() (map[string][]string, error) {
	rankings := make(map[string][]string)
	for _, div := range s.engine.Topology().Divisions() {
		order, err := s.DivisionRanking(div.Code)
		if err != nil {
			return nil, err
		}
		rankings[div.Code] = order
	}
	return rankings, nil
}

func without(teams []string, drop string) []string {
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		if t != drop {
			out = append(out, t)
		}
	}
	return out
}
