package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/abhisek/learncricket/internal/adaptive"
	"github.com/abhisek/learncricket/internal/innings"
	"github.com/abhisek/learncricket/internal/questions"
	"github.com/abhisek/learncricket/internal/scoring"
)

// EventKind identifies what happened.
type EventKind int

const (
	EventStarted      EventKind = iota // progress loaded, before the first question
	EventQuestion                      // a new question awaits an answer
	EventBall                          // a ball was fully applied
	EventOverComplete                  // an over ended and play continues
	EventPaused                        // supply ran dry
	EventResumed
	EventComplete // innings ended
	EventAborted
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventQuestion:
		return "question"
	case EventBall:
		return "ball"
	case EventOverComplete:
		return "over_complete"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventComplete:
		return "complete"
	case EventAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// BallResult is the outcome of one answered question.
type BallResult struct {
	// Index is the zero-based ball number in the innings.
	Index           int
	Question        questions.Question
	Choice          int
	Correct         bool
	ResponseSeconds float64
	Outcome         scoring.Outcome
}

// Event is a state change published after it has been fully applied.
// State and Recommendation are copies taken at publish time.
type Event struct {
	Kind           EventKind
	SessionID      string
	SessionKey     string
	Time           time.Time
	State          innings.State
	Config         innings.Config
	Recommendation adaptive.Recommendation

	// Ball is set for EventBall.
	Ball *BallResult

	// Over is set for EventOverComplete.
	Over *innings.OverSummary

	// Question is set for EventQuestion and EventResumed.
	Question *questions.Question

	// Err is set for EventPaused.
	Err error

	// Duration is the time since Start, set for EventComplete and
	// EventAborted.
	Duration time.Duration
}

// Listener reacts to session events. OnEvent is called synchronously on
// the goroutine that changed the session, in order; it must not call
// back into Submit, Resume or Abort.
type Listener interface {
	OnEvent(ctx context.Context, ev Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, ev Event)

func (f ListenerFunc) OnEvent(ctx context.Context, ev Event) { f(ctx, ev) }

// ChannelListener forwards events to a buffered channel without
// blocking. Events are dropped when the buffer is full.
type ChannelListener struct {
	ch      chan Event
	dropped atomic.Int64
}

// NewChannelListener creates a listener with the given buffer size.
func NewChannelListener(size int) *ChannelListener {
	if size < 1 {
		size = 1
	}
	return &ChannelListener{ch: make(chan Event, size)}
}

func (l *ChannelListener) OnEvent(_ context.Context, ev Event) {
	select {
	case l.ch <- ev:
	default:
		l.dropped.Add(1)
	}
}

// Events returns the receive side of the channel.
func (l *ChannelListener) Events() <-chan Event { return l.ch }

// Dropped returns how many events did not fit in the buffer.
func (l *ChannelListener) Dropped() int64 { return l.dropped.Load() }
