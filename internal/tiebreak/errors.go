package tiebreak

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrResolutionExhausted means every step ran without narrowing the
	// tie. Valid groups of four or fewer always resolve earlier, so this
	// points at a logic defect rather than bad data.
	ErrResolutionExhausted = errors.New("all tiebreak steps applied without resolution")

	// ErrUnsupportedTiebreak is matched by UnsupportedStepError
	ErrUnsupportedTiebreak = errors.New("unsupported tiebreak step reached")

	// ErrInvalidCandidates is returned for empty or oversized candidate sets
	ErrInvalidCandidates = errors.New("invalid tiebreak candidate set")
)

// UnsupportedStepError is returned when resolution reaches net touchdowns
// or the coin toss.
type UnsupportedStepError struct {
	Step  Step     `json:"step"`
	Scope Scope    `json:"scope"`
	Teams []string `json:"teams"`
}

func (e *UnsupportedStepError) Error() string {
	return fmt.Sprintf("%s tiebreak needed for %s (%s scope)",
		e.Step, strings.Join(e.Teams, ","), e.Scope)
}

func (e *UnsupportedStepError) Is(target error) bool {
	return target == ErrUnsupportedTiebreak
}
