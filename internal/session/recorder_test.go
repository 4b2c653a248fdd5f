package session

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learncricket/internal/questions"
	"github.com/abhisek/learncricket/internal/store"
	"github.com/abhisek/learncricket/internal/timer"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newStoreSession(t *testing.T, st *store.Store, id string) (*Orchestrator, *timer.ManualClock) {
	t.Helper()
	clock := timer.NewManualClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	o, err := New(Config{}, Deps{
		Supply:    questions.NewStaticSupply(testQuestions(id, 20)...),
		Progress:  st.ProgressRepo(),
		Clock:     clock,
		Listeners: []Listener{NewRecorder(st.EventRepo(), zerolog.Nop())},
		Logger:    zerolog.Nop(),
		NewID:     func() string { return id },
	})
	require.NoError(t, err)
	return o, clock
}

func TestRecorder_WritesSessionAndBalls(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	o, clock := newStoreSession(t, st, "s1")
	require.NoError(t, o.Start(ctx))
	for _, correct := range []bool{true, false, true, false} {
		q, ok := o.Current()
		require.True(t, ok)
		choice := q.CorrectIndex
		if !correct {
			choice = (choice + 1) % 4
		}
		clock.AdvanceSeconds(2)
		_, err := o.Submit(ctx, choice)
		require.NoError(t, err)
	}
	require.Equal(t, PhaseComplete, o.Phase())

	sessions, err := st.EventRepo().QuerySessions(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, store.ActionEnd, sessions[0].Action)
	assert.Equal(t, store.ActionStart, sessions[1].Action)
	assert.Equal(t, 12, sessions[0].Runs)
	assert.Equal(t, 2, sessions[0].Wickets)
	assert.Equal(t, 4, sessions[0].Balls)
	assert.Equal(t, "all_out", sessions[0].Status)
	assert.Equal(t, 8, sessions[0].DurationSecs)
	assert.Equal(t, DefaultKey, sessions[0].SessionKey)

	balls, err := st.EventRepo().SessionBalls(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, balls, 4)
	assert.Equal(t, "six", balls[0].Outcome)
	assert.Equal(t, "wicket", balls[1].Outcome)
	assert.Equal(t, 2000, int(balls[0].ResponseMs))
	assert.Equal(t, 12, balls[3].TotalRuns)
	for i, b := range balls {
		assert.Equal(t, i, b.BallIndex)
	}

	// A later session picks up the saved progress.
	o2, _ := newStoreSession(t, st, "s2")
	require.NoError(t, o2.Start(ctx))
	assert.Equal(t, 4, o2.Aggregate().Attempted())
	require.NoError(t, o2.Abort(ctx))

	aborted, err := st.EventRepo().QuerySessions(ctx, store.QueryOpts{}, store.ActionAbort)
	require.NoError(t, err)
	require.Len(t, aborted, 1)
	assert.Equal(t, "s2", aborted[0].SessionID)
}

func TestChannelListener_DropsWhenFull(t *testing.T) {
	l := NewChannelListener(1)
	l.OnEvent(context.Background(), Event{Kind: EventBall})
	l.OnEvent(context.Background(), Event{Kind: EventQuestion})

	ev := <-l.Events()
	assert.Equal(t, EventBall, ev.Kind)
	assert.Equal(t, int64(1), l.Dropped())
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "over_complete", EventOverComplete.String())
	assert.Equal(t, "unknown", EventKind(99).String())
	assert.Equal(t, "awaiting_answer", PhaseAwaitingAnswer.String())
	assert.True(t, PhaseAborted.Terminal())
	assert.False(t, PhasePaused.Terminal())
}
