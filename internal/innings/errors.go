package innings

import (
	"fmt"

	"github.com/abhisek/learncricket/internal/scoring"
)

// TerminalStateError is returned when a ball is applied to a finished innings.
type TerminalStateError struct {
	Status Status
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("innings is over (%s)", e.Status)
}

// RangeError reports an invalid index or argument. The innings is not
// modified when it is returned.
type RangeError struct {
	Field string
	Value any
	Limit string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %v out of range (%s)", e.Field, e.Value, e.Limit)
}

func outcomeRangeError(o scoring.Outcome) *RangeError {
	return &RangeError{Field: "outcome", Value: o, Limit: "must be a bowled outcome"}
}
