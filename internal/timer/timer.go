// Package timer measures how long a learner takes to answer a question.
package timer

import (
	"fmt"
	"time"
)

// State is the lifecycle position of a ResponseTimer.
type State int

const (
	StateIdle    State = iota // never started, or reset
	StateRunning              // started, waiting for Stop
	StateStopped              // stopped, Elapsed holds the last reading
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// InvalidStateError is returned when Start or Stop is called in a state
// that does not allow it. It always indicates an integration bug.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("timer: cannot %s while %s", e.Op, e.State)
}

// ResponseTimer is a restartable stopwatch for a single question-answer
// cycle. It is not safe for concurrent use; a session owns exactly one.
type ResponseTimer struct {
	clock   Clock
	state   State
	started time.Time
	elapsed time.Duration
}

// New creates an idle timer reading from clock. A nil clock falls back to
// SystemClock.
func New(clock Clock) *ResponseTimer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ResponseTimer{clock: clock}
}

// Start records the reference instant. Starting a running timer is an error.
func (t *ResponseTimer) Start() error {
	if t.state == StateRunning {
		return &InvalidStateError{Op: "start", State: t.state}
	}
	t.started = t.clock.Now()
	t.elapsed = 0
	t.state = StateRunning
	return nil
}

// Stop returns the seconds elapsed since Start and stops the timer.
func (t *ResponseTimer) Stop() (float64, error) {
	if t.state != StateRunning {
		return 0, &InvalidStateError{Op: "stop", State: t.state}
	}
	d := t.clock.Now().Sub(t.started)
	if d < 0 {
		d = 0
	}
	t.elapsed = d
	t.state = StateStopped
	return d.Seconds(), nil
}

// Reset clears the elapsed time and returns to idle from any state.
func (t *ResponseTimer) Reset() {
	t.state = StateIdle
	t.started = time.Time{}
	t.elapsed = 0
}

// State returns the current lifecycle state.
func (t *ResponseTimer) State() State { return t.state }

// Running reports whether the timer is running.
func (t *ResponseTimer) Running() bool { return t.state == StateRunning }

// Elapsed returns the live reading while running, the final reading once
// stopped, and zero when idle. Used by the UI countdown.
func (t *ResponseTimer) Elapsed() time.Duration {
	switch t.state {
	case StateRunning:
		return t.clock.Now().Sub(t.started)
	case StateStopped:
		return t.elapsed
	default:
		return 0
	}
}
