package tiebreak

import (
	"fmt"
	"strings"
)

// Scope selects which official rule ordering applies to a tie
type Scope string

const (
	// ScopeDivision breaks ties between teams of the same division
	ScopeDivision Scope = "division"
	// ScopeWildCard breaks ties between clubs competing for seeding or an
	// at-large slot, possibly from different divisions
	ScopeWildCard Scope = "wildcard"
)

// ParseScope accepts "division", "div", "wildcard", "wild_card" or "wc"
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "division", "div":
		return ScopeDivision, nil
	case "wildcard", "wild_card", "wc":
		return ScopeWildCard, nil
	default:
		return "", fmt.Errorf("unknown tiebreak scope %q", s)
	}
}

// Step identifies one official tiebreak rule
type Step int

const (
	StepBestRecord Step = iota
	StepHeadToHead
	StepDivisionRecord
	StepCommonGames
	StepConferenceRecord
	StepStrengthOfVictory
	StepStrengthOfSchedule
	StepConferenceCombinedRanking
	StepCombinedRanking
	StepConferenceNetPoints
	StepNetPoints
	StepNetTouchdowns
	StepCoinToss
)

var stepNames = map[Step]string{
	StepBestRecord:                "best_record",
	StepHeadToHead:                "head_to_head",
	StepDivisionRecord:            "division_record",
	StepCommonGames:               "common_games",
	StepConferenceRecord:          "conference_record",
	StepStrengthOfVictory:         "strength_of_victory",
	StepStrengthOfSchedule:        "strength_of_schedule",
	StepConferenceCombinedRanking: "conference_combined_ranking",
	StepCombinedRanking:           "combined_ranking",
	StepConferenceNetPoints:       "conference_net_points",
	StepNetPoints:                 "net_points",
	StepNetTouchdowns:             "net_touchdowns",
	StepCoinToss:                  "coin_toss",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// MarshalText renders the step by name in JSON output
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Supported reports whether the step can be evaluated from game results.
// Net touchdowns need data the schedule does not carry and a coin toss is
// not deterministic.
func (s Step) Supported() bool {
	return s != StepNetTouchdowns && s != StepCoinToss
}

var divisionSteps = []Step{
	StepBestRecord,
	StepHeadToHead,
	StepDivisionRecord,
	StepCommonGames,
	StepConferenceRecord,
	StepStrengthOfVictory,
	StepStrengthOfSchedule,
	StepConferenceCombinedRanking,
	StepCombinedRanking,
	StepConferenceNetPoints,
	StepNetPoints,
	StepNetTouchdowns,
	StepCoinToss,
}

// Division record is absent: wild card ties can span divisions.
var wildCardSteps = []Step{
	StepBestRecord,
	StepHeadToHead,
	StepConferenceRecord,
	StepCommonGames,
	StepStrengthOfVictory,
	StepStrengthOfSchedule,
	StepConferenceCombinedRanking,
	StepCombinedRanking,
	StepConferenceNetPoints,
	StepNetPoints,
	StepNetTouchdowns,
	StepCoinToss,
}

// Steps returns the ordered rule list of a scope
func Steps(scope Scope) []Step {
	var src []Step
	switch scope {
	case ScopeDivision:
		src = divisionSteps
	case ScopeWildCard:
		src = wildCardSteps
	}
	out := make([]Step, len(src))
	copy(out, src)
	return out
}
