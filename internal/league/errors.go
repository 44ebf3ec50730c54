package league

import (
	"errors"
	"fmt"
)

// ErrIntegrity is matched by every IntegrityError
var ErrIntegrity = errors.New("schedule data integrity violation")

// IntegrityError reports malformed input handed to the engine by the loader.
// It is never recoverable: the data has to be fixed.
type IntegrityError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Team    string `json:"team,omitempty"`
}

func (e *IntegrityError) Error() string {
	if e.Team != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Team, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Is lets callers use errors.Is(err, ErrIntegrity)
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

func integrityErrorf(typ, team, format string, args ...interface{}) error {
	return &IntegrityError{
		Type:    typ,
		Message: fmt.Sprintf(format, args...),
		Team:    team,
	}
}
