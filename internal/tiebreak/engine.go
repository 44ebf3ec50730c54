package tiebreak

import (
	"fmt"

	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

// maxCandidates caps a tied group: four teams per division, and at most
// one team per division of a conference once division ties are settled
const maxCandidates = 4

// Decision records one step applied during a resolution
type Decision struct {
	Scope      Scope              `json:"scope"`
	Step       Step               `json:"step"`
	Candidates []string           `json:"candidates"`
	Remaining  []string           `json:"remaining"`
	Values     map[string]float64 `json:"values,omitempty"`
}

// Resolution is the winner of a tie together with every step that was
// applied to reach it, division sub-ties included.
type Resolution struct {
	Winner     string     `json:"winner"`
	Scope      Scope      `json:"scope"`
	Candidates []string   `json:"candidates"`
	Decisions  []Decision `json:"decisions"`
}

// Engine resolves ties for one season. It only reads the schedule and
// topology, so a single Engine can serve any number of resolutions.
type Engine struct {
	topology *league.Topology
	schedule league.Schedule
	logger   *logrus.Logger
	catalog  map[Scope][]Step
}

// NewEngine creates a tiebreak engine over a season schedule
func NewEngine(topology *league.Topology, schedule league.Schedule, logger *logrus.Logger) *Engine {
	return &Engine{
		topology: topology,
		schedule: schedule,
		logger:   logger,
		catalog: map[Scope][]Step{
			ScopeDivision: Steps(ScopeDivision),
			ScopeWildCard: Steps(ScopeWildCard),
		},
	}
}

// Schedule returns the schedule the engine resolves ties over
func (e *Engine) Schedule() league.Schedule {
	return e.schedule
}

// Topology returns the league layout used by the engine
func (e *Engine) Topology() *league.Topology {
	return e.topology
}

// Best returns the single team that wins the tie among candidates
func (e *Engine) Best(candidates []string, scope Scope) (string, error) {
	return e.resolve(candidates, scope, nil)
}

// Explain resolves like Best and also returns the applied steps
func (e *Engine) Explain(candidates []string, scope Scope) (*Resolution, error) {
	var trace []Decision
	winner, err := e.resolve(candidates, scope, &trace)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Winner:     winner,
		Scope:      scope,
		Candidates: append([]string(nil), candidates...),
		Decisions:  trace,
	}, nil
}

func (e *Engine) resolve(candidates []string, scope Scope, trace *[]Decision) (string, error) {
	if _, ok := e.catalog[scope]; !ok {
		return "", fmt.Errorf("unknown tiebreak scope %q", scope)
	}

	teams := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, team := range candidates {
		if seen[team] {
			continue
		}
		if _, err := e.topology.DivisionOf(team); err != nil {
			return "", err
		}
		seen[team] = true
		teams = append(teams, team)
	}

	if err := e.checkScope(teams, scope); err != nil {
		return "", err
	}

	// Only one club per division can reach the wild card steps. This runs
	// once, before the step loop, and is not repeated after eliminations.
	if scope == ScopeWildCard {
		for _, div := range e.topology.Divisions() {
			var tied []string
			for _, team := range teams {
				if div.Contains(team) {
					tied = append(tied, team)
				}
			}
			if len(tied) < 2 {
				continue
			}

			divBest, err := e.resolve(tied, ScopeDivision, trace)
			if err != nil {
				return "", fmt.Errorf("division tiebreak in %s: %w", div.Code, err)
			}

			kept := make([]string, 0, len(teams))
			for _, team := range teams {
				if team == divBest || !div.Contains(team) {
					kept = append(kept, team)
				}
			}
			e.logger.WithFields(logrus.Fields{
				"division": div.Code,
				"tied":     tied,
				"advances": divBest,
			}).Debug("Settled division tie before wild card steps")
			teams = kept
		}
	}

	return e.narrow(teams, scope, trace)
}

// checkScope rejects groups the scope cannot rank: division ties need a
// single division and wild card ties a single conference
func (e *Engine) checkScope(teams []string, scope Scope) error {
	if len(teams) < 2 {
		return nil
	}
	if scope == ScopeWildCard {
		_, err := e.topology.SharedConference(teams)
		return err
	}
	div, err := e.topology.DivisionOf(teams[0])
	if err != nil {
		return err
	}
	for _, team := range teams[1:] {
		other, err := e.topology.DivisionOf(team)
		if err != nil {
			return err
		}
		if other != div {
			return &league.IntegrityError{
				Type:    "mixed_divisions",
				Message: fmt.Sprintf("division tie between %s and %s teams", div, other),
				Team:    team,
			}
		}
	}
	return nil
}

// narrow walks the step list of the scope. Any elimination restarts the
// walk from the first step with the smaller group.
func (e *Engine) narrow(teams []string, scope Scope, trace *[]Decision) (string, error) {
	if len(teams) == 0 || len(teams) > maxCandidates {
		return "", fmt.Errorf("%w: %d teams %v in %s scope", ErrInvalidCandidates, len(teams), teams, scope)
	}
	if len(teams) == 1 {
		return teams[0], nil
	}

	for _, step := range e.catalog[scope] {
		out, err := e.apply(step, teams, scope)
		if err != nil {
			return "", err
		}

		if trace != nil {
			*trace = append(*trace, Decision{
				Scope:      scope,
				Step:       step,
				Candidates: append([]string(nil), teams...),
				Remaining:  append([]string(nil), out.remaining...),
				Values:     out.values,
			})
		}

		entry := e.logger.WithFields(logrus.Fields{
			"step":      step.String(),
			"scope":     scope,
			"teams":     teams,
			"remaining": out.remaining,
			"values":    out.values,
		})

		switch {
		case len(out.remaining) == 1:
			entry.Debug("Tie resolved")
			return out.remaining[0], nil
		case len(out.remaining) < len(teams):
			entry.Debug("Team eliminated, restarting tiebreak steps")
			return e.narrow(out.remaining, scope, trace)
		}
	}

	return "", fmt.Errorf("%w: %v in %s scope", ErrResolutionExhausted, teams, scope)
}

func (e *Engine) apply(step Step, teams []string, scope Scope) (outcome, error) {
	handler, ok := rules[step]
	if !ok {
		return outcome{}, fmt.Errorf("no handler for tiebreak step %s", step)
	}

	out, err := handler(e, teams, scope)
	if err != nil {
		return outcome{}, err
	}

	member := league.SetOf(teams)
	if len(out.remaining) == 0 || len(out.remaining) > len(teams) {
		return outcome{}, fmt.Errorf("step %s returned %d teams out of %d", step, len(out.remaining), len(teams))
	}
	for _, t := range out.remaining {
		if !member[t] {
			return outcome{}, fmt.Errorf("step %s returned %s, which was not tied", step, t)
		}
	}
	return out, nil
}
