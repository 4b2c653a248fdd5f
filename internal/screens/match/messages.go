package match

import (
	"time"

	sess "github.com/abhisek/learncricket/internal/session"
)

// startedMsg reports the result of Orchestrator.Start.
type startedMsg struct {
	Err error
}

// sessionEventMsg carries one event from the session's listener channel.
type sessionEventMsg struct {
	Event sess.Event
}

// submittedMsg reports the result of Orchestrator.Submit.
type submittedMsg struct {
	Ball sess.BallResult
	Err  error
}

// resumedMsg reports the result of Orchestrator.Resume.
type resumedMsg struct {
	Err error
}

// abortedMsg reports the result of Orchestrator.Abort.
type abortedMsg struct {
	Err error
}

// timerTickMsg refreshes the live response timer.
type timerTickMsg time.Time
