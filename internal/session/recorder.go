package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/abhisek/learncricket/internal/store"
)

// Recorder is a Listener that appends ball and session events to the
// event log. Write failures are logged and never interrupt play.
type Recorder struct {
	repo store.EventRepo
	log  zerolog.Logger
}

// NewRecorder creates a Recorder writing to repo.
func NewRecorder(repo store.EventRepo, log zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

func (r *Recorder) OnEvent(ctx context.Context, ev Event) {
	var err error
	switch ev.Kind {
	case EventStarted:
		err = r.repo.AppendSession(ctx, sessionEventData(ev, store.ActionStart))
	case EventBall:
		if ev.Ball == nil {
			return
		}
		b := ev.Ball
		err = r.repo.AppendBall(ctx, store.BallEventData{
			SessionID:  ev.SessionID,
			BallIndex:  b.Index,
			QuestionID: b.Question.ID,
			Topic:      string(b.Question.Topic),
			Difficulty: b.Question.Difficulty.String(),
			Correct:    b.Correct,
			ResponseMs: int64(b.ResponseSeconds * 1000),
			Outcome:    b.Outcome.String(),
			Runs:       b.Outcome.Runs(),
			TotalRuns:  ev.State.Runs,
			Wickets:    ev.State.WicketsLost,
		})
	case EventComplete:
		err = r.repo.AppendSession(ctx, sessionEventData(ev, store.ActionEnd))
	case EventAborted:
		err = r.repo.AppendSession(ctx, sessionEventData(ev, store.ActionAbort))
	default:
		return
	}
	if err != nil {
		r.log.Error().Err(err).Stringer("event", ev.Kind).Str("session", ev.SessionID).Msg("failed to record session event")
	}
}

func sessionEventData(ev Event, action string) store.SessionEventData {
	return store.SessionEventData{
		SessionID:    ev.SessionID,
		SessionKey:   ev.SessionKey,
		Action:       action,
		Runs:         ev.State.Runs,
		Wickets:      ev.State.WicketsLost,
		Balls:        ev.State.BallsBowled,
		Overs:        ev.Config.TotalOvers,
		BallsPerOver: ev.Config.BallsPerOver,
		TotalWickets: ev.Config.TotalWickets,
		Status:       ev.State.Status.String(),
		DurationSecs: int(ev.Duration.Seconds()),
	}
}
