package session

import "fmt"

// InvalidStateError is returned when an operation is not allowed in the
// current phase, including a Submit racing another Submit.
type InvalidStateError struct {
	Op    string
	Phase Phase
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("session: cannot %s while %s", e.Op, e.Phase)
}

// SupplyExhaustedError is returned when no playable question could be
// obtained. The session is paused, not ended; Resume retries.
type SupplyExhaustedError struct {
	Attempts int
	Err      error
}

func (e *SupplyExhaustedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("session: question supply exhausted after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("session: question supply exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *SupplyExhaustedError) Unwrap() error { return e.Err }

// InvalidChoiceError is returned by Submit for an option index outside
// the question's options. Nothing is scored.
type InvalidChoiceError struct {
	Choice int
	Max    int
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("session: choice %d out of range [0,%d]", e.Choice, e.Max)
}
