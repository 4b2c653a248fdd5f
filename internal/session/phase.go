package session

import "fmt"

// Phase is the lifecycle position of a session.
type Phase int

const (
	PhaseNotStarted     Phase = iota
	PhaseAwaitingAnswer       // a question is shown and the timer runs
	PhaseScoring              // an answer is moving through the pipeline
	PhasePaused               // the question supply ran dry
	PhaseComplete             // the innings ended
	PhaseAborted              // the player quit
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseAwaitingAnswer:
		return "awaiting_answer"
	case PhaseScoring:
		return "scoring"
	case PhasePaused:
		return "paused"
	case PhaseComplete:
		return "complete"
	case PhaseAborted:
		return "aborted"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Terminal reports whether the session is over.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseAborted
}
