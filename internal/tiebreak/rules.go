package tiebreak

import (
	"github.com/sam-maryland/nfl-seeding-mcp-server/internal/league"
)

// minWildCardCommonGames is the minimum number of common games before the
// common games step applies to a wild card tie
const minWildCardCommonGames = 4

// outcome is what a step leaves of the tied group, plus the values it
// compared (nil when the step did not apply)
type outcome struct {
	remaining []string
	values    map[string]float64
}

type rule func(e *Engine, teams []string, scope Scope) (outcome, error)

// rules is the dispatch table from step to its handler
var rules = map[Step]rule{
	StepBestRecord:                bestRecordRule,
	StepHeadToHead:                headToHeadRule,
	StepDivisionRecord:            divisionRecordRule,
	StepCommonGames:               commonGamesRule,
	StepConferenceRecord:          conferenceRecordRule,
	StepStrengthOfVictory:         strengthOfVictoryRule,
	StepStrengthOfSchedule:        strengthOfScheduleRule,
	StepConferenceCombinedRanking: conferenceCombinedRankingRule,
	StepCombinedRanking:           combinedRankingRule,
	StepConferenceNetPoints:       conferenceNetPointsRule,
	StepNetPoints:                 netPointsRule,
	StepNetTouchdowns:             unsupportedRule(StepNetTouchdowns),
	StepCoinToss:                  unsupportedRule(StepCoinToss),
}

// best keeps the teams with the highest value, in input order
func best(teams []string, values map[string]float64) outcome {
	top := values[teams[0]]
	for _, t := range teams[1:] {
		if values[t] > top {
			top = values[t]
		}
	}
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		if values[t] == top {
			out = append(out, t)
		}
	}
	return outcome{remaining: out, values: values}
}

func unchanged(teams []string) outcome {
	return outcome{remaining: append([]string(nil), teams...)}
}

func recordAgainst(schedule league.Schedule, team string, opponents map[string]bool) (float64, error) {
	games, err := league.GamesAgainst(schedule, team, opponents)
	if err != nil {
		return 0, err
	}
	return league.Record(games, team)
}

func headToHeadRecords(schedule league.Schedule, teams []string) (map[string]float64, error) {
	tied := league.SetOf(teams)
	records := make(map[string]float64, len(teams))
	for _, team := range teams {
		r, err := recordAgainst(schedule, team, tied)
		if err != nil {
			return nil, err
		}
		records[team] = r
	}
	return records, nil
}

func bestRecordRule(e *Engine, teams []string, _ Scope) (outcome, error) {
	values := make(map[string]float64, len(teams))
	for _, team := range teams {
		r, err := league.SeasonRecord(e.schedule, team)
		if err != nil {
			return outcome{}, err
		}
		values[team] = r
	}
	return best(teams, values), nil
}

func headToHeadRule(e *Engine, teams []string, scope Scope) (outcome, error) {
	records, err := headToHeadRecords(e.schedule, teams)
	if err != nil {
		return outcome{}, err
	}

	// Division opponents meet twice, so the best head-to-head record always applies
	if scope == ScopeDivision {
		return best(teams, records), nil
	}

	meetings, err := headToHeadMeetings(e.schedule, teams)
	if err != nil {
		return outcome{}, err
	}

	// A sweep is checked for every team before any winless team, so an
	// undefeated club wins even when another club lost to everyone.
	for _, team := range teams {
		if sweptAll(meetings, team, teams) {
			return outcome{remaining: []string{team}, values: records}, nil
		}
	}
	for _, team := range teams {
		if records[team] == 0 && playedAll(meetings, team, teams) {
			rest := make([]string, 0, len(teams)-1)
			for _, t := range teams {
				if t != team {
					rest = append(rest, t)
				}
			}
			return outcome{remaining: rest, values: records}, nil
		}
	}
	return outcome{remaining: append([]string(nil), teams...), values: records}, nil
}

// headToHeadMeetings maps team -> opponent -> results of their meetings
func headToHeadMeetings(schedule league.Schedule, teams []string) (map[string]map[string][]float64, error) {
	tied := league.SetOf(teams)
	meetings := make(map[string]map[string][]float64, len(teams))
	for _, team := range teams {
		games, err := league.GamesAgainst(schedule, team, tied)
		if err != nil {
			return nil, err
		}
		byOpp := make(map[string][]float64)
		for _, g := range games {
			opp, err := league.Opponent(g, team)
			if err != nil {
				return nil, err
			}
			r, err := league.Result(g, team)
			if err != nil {
				return nil, err
			}
			byOpp[opp] = append(byOpp[opp], r)
		}
		meetings[team] = byOpp
	}
	return meetings, nil
}

func sweptAll(meetings map[string]map[string][]float64, team string, teams []string) bool {
	for _, opp := range teams {
		if opp == team {
			continue
		}
		results := meetings[team][opp]
		if len(results) == 0 {
			return false
		}
		for _, r := range results {
			if r != 1.0 {
				return false
			}
		}
	}
	return true
}

func playedAll(meetings map[string]map[string][]float64, team string, teams []string) bool {
	for _, opp := range teams {
		if opp != team && len(meetings[team][opp]) == 0 {
			return false
		}
	}
	return true
}

func divisionRecordRule(e *Engine, teams []string, _ Scope) (outcome, error) {
	values := make(map[string]float64, len(teams))
	for _, team := range teams {
		divTeams, err := e.topology.DivisionTeams(team)
		if err != nil {
			return outcome{}, err
		}
		r, err := recordAgainst(e.schedule, team, league.SetOf(divTeams))
		if err != nil {
			return outcome{}, err
		}
		values[team] = r
	}
	return best(teams, values), nil
}

func commonGamesRule(e *Engine, teams []string, scope Scope) (outcome, error) {
	common, err := league.CommonGames(e.schedule, teams)
	if err != nil {
		return outcome{}, err
	}

	if scope == ScopeWildCard {
		enough := false
		for _, games := range common {
			if len(games) >= minWildCardCommonGames {
				enough = true
				break
			}
		}
		if !enough {
			return unchanged(teams), nil
		}
	}

	values := make(map[string]float64, len(teams))
	for _, team := range teams {
		r, err := league.Record(common[team], team)
		if err != nil {
			return outcome{}, err
		}
		values[team] = r
	}
	return best(teams, values), nil
}

func (e *Engine) conferenceSet(teams []string) (map[string]bool, error) {
	conf, err := e.topology.SharedConference(teams)
	if err != nil {
		return nil, err
	}
	return league.SetOf(e.topology.ConferenceTeams(conf)), nil
}

func conferenceRecordRule(e *Engine, teams []string, _ Scope) (outcome, error) {
	confTeams, err := e.conferenceSet(teams)
	if err != nil {
		return outcome{}, err
	}
	values := make(map[string]float64, len(teams))
	for _, team := range teams {
		r, err := recordAgainst(e.schedule, team, confTeams)
		if err != nil {
			return outcome{}, err
		}
		values[team] = r
	}
	return best(teams, values), nil
}

// opponentRecordSum adds up the season records of the opponents of team,
// counting only the games accepted by include.
func (e *Engine) opponentRecordSum(team string, include func(result float64) bool) (float64, error) {
	games, err := e.schedule.Games(team)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, g := range games {
		r, err := league.Result(g, team)
		if err != nil {
			return 0, err
		}
		if !include(r) {
			continue
		}
		opp, err := league.Opponent(g, team)
		if err != nil {
			return 0, err
		}
		oppRecord, err := league.SeasonRecord(e.schedule, opp)
		if err != nil {
			return 0, err
		}
		total += oppRecord
	}
	return total, nil
}

func strengthOfVictoryRule(e *Engine, teams []string, _ Scope) (outcome, error) {
	values := make(map[string]float64, len(teams))
	for _, team := range teams {
		sov, err := e.opponentRecordSum(team, func(r float64) bool { return r == 1.0 })
		if err != nil {
			return outcome{}, err
		}
		values[team] = sov
	}
	return best(teams, values), nil
}

func strengthOfScheduleRule(e *Engine, teams []string, _ Scope) (outcome, error) {
	values := make(map[string]float64, len(teams))
	for _, team := range teams {
		sos, err := e.opponentRecordSum(team, func(float64) bool { return true })
		if err != nil {
			return outcome{}, err
		}
		values[team] = sos
	}
	return best(teams, values), nil
}

// CombinedRanking scores teams by their rank among universe in points
// scored and in points allowed. Ranks are inverted (count - rank) so a
// higher sum is better. Fewest points allowed ranks first.
func CombinedRanking(schedule league.Schedule, universe, teams []string) (map[string]float64, error) {
	pfRanks, err := league.Rank(universe, league.TotalPointsFor(schedule))
	if err != nil {
		return nil, err
	}
	allowed := league.TotalPointsAgainst(schedule)
	paRanks, err := league.Rank(universe, func(team string) (float64, error) {
		pa, err := allowed(team)
		return -pa, err
	})
	if err != nil {
		return nil, err
	}

	n := len(universe)
	values := make(map[string]float64, len(teams))
	for _, team := range teams {
		pf, okF := pfRanks[team]
		pa, okA := paRanks[team]
		if !okF || !okA {
			return nil, &league.IntegrityError{
				Type:    "unranked_team",
				Message: "team is outside the ranking universe",
				Team:    team,
			}
		}
		values[team] = float64((n - pf) + (n - pa))
	}
	return values, nil
}

func conferenceCombinedRankingRule(e *Engine, teams []string, _ Scope) (outcome, error) {
	conf, err := e.topology.SharedConference(teams)
	if err != nil {
		return outcome{}, err
	}
	values, err := CombinedRanking(e.schedule, e.topology.ConferenceTeams(conf), teams)
	if err != nil {
		return outcome{}, err
	}
	return best(teams, values), nil
}

func combinedRankingRule(e *Engine, teams []string, _ Scope) (outcome, error) {
	values, err := CombinedRanking(e.schedule, e.topology.Teams(), teams)
	if err != nil {
		return outcome{}, err
	}
	return best(teams, values), nil
}

func (e *Engine) netPoints(team string, opponents map[string]bool) (float64, error) {
	games, err := e.schedule.Games(team)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, g := range games {
		if opponents != nil {
			opp, err := league.Opponent(g, team)
			if err != nil {
				return 0, err
			}
			if !opponents[opp] {
				continue
			}
		}
		net, err := league.NetPoints(g, team)
		if err != nil {
			return 0, err
		}
		total += net
	}
	return float64(total), nil
}

func conferenceNetPointsRule(e *Engine, teams []string, _ Scope) (outcome, error) {
	confTeams, err := e.conferenceSet(teams)
	if err != nil {
		return outcome{}, err
	}
	values := make(map[string]float64, len(teams))
	for _, team := range teams {
		net, err := e.netPoints(team, confTeams)
		if err != nil {
			return outcome{}, err
		}
		values[team] = net
	}
	return best(teams, values), nil
}

func netPointsRule(e *Engine, teams []string, _ Scope) (outcome, error) {
	values := make(map[string]float64, len(teams))
	for _, team := range teams {
		net, err := e.netPoints(team, nil)
		if err != nil {
			return outcome{}, err
		}
		values[team] = net
	}
	return best(teams, values), nil
}

func unsupportedRule(step Step) rule {
	return func(_ *Engine, teams []string, scope Scope) (outcome, error) {
		return outcome{}, &UnsupportedStepError{
			Step:  step,
			Scope: scope,
			Teams: append([]string(nil), teams...),
		}
	}
}
