package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWithPragmas(t *testing.T) {
	got := withPragmas("/tmp/x.db")
	if !strings.HasPrefix(got, "/tmp/x.db?_pragma=busy_timeout(5000)&") {
		t.Errorf("withPragmas = %q", got)
	}
	got = withPragmas("file:x?mode=memory")
	if !strings.HasPrefix(got, "file:x?mode=memory&_pragma=") {
		t.Errorf("withPragmas kept query = %q", got)
	}
	if n := strings.Count(got, "_pragma="); n != len(pragmas) {
		t.Errorf("pragma count = %d, want %d", n, len(pragmas))
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"progress_snapshots", "ball_events", "session_events", "llm_request_events", "sequences"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestProgressLoadMissing(t *testing.T) {
	s := openTestStore(t)
	data, err := s.ProgressRepo().Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil progress, got %+v", data)
	}
}

func TestProgressSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	in := &ProgressData{
		Version: ProgressVersion,
		Topics: map[string]*BucketData{
			"rules":   {Attempted: 4, Correct: 3},
			"history": {Attempted: 2, Correct: 0},
		},
		Difficulties:         map[string]*BucketData{"easy": {Attempted: 6, Correct: 3}},
		CurrentStreak:        1,
		BestStreak:           3,
		Responses:            6,
		TotalResponseSeconds: 21.5,
		Innings:              &InningsTotals{Played: 1, Runs: 18, Balls: 6, Wickets: 3, BestRuns: 18, BestWickets: 3},
	}
	if err := repo.Save(ctx, "default", in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := repo.Load(ctx, "default")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out == nil {
		t.Fatal("expected progress")
	}
	if out.Topics["rules"].Correct != 3 || out.Topics["history"].Attempted != 2 {
		t.Errorf("topics = %+v", out.Topics)
	}
	if out.BestStreak != 3 || out.TotalResponseSeconds != 21.5 {
		t.Errorf("streak/response = %d/%v", out.BestStreak, out.TotalResponseSeconds)
	}
	if out.Innings == nil || out.Innings.BestRuns != 18 {
		t.Errorf("innings = %+v", out.Innings)
	}

	// Other keys are untouched.
	other, err := repo.Load(ctx, "someone-else")
	if err != nil {
		t.Fatalf("load other: %v", err)
	}
	if other != nil {
		t.Error("expected nil progress for another key")
	}
}

func TestProgressLatestWinsAndPrunes(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	for i := 1; i <= 8; i++ {
		if err := repo.Save(ctx, "k", &ProgressData{Version: ProgressVersion, Responses: i}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if err := repo.Save(ctx, "other", &ProgressData{Version: ProgressVersion, Responses: 99}); err != nil {
		t.Fatalf("save other: %v", err)
	}

	out, err := repo.Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Responses != 8 {
		t.Errorf("responses = %d, want 8", out.Responses)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM progress_snapshots WHERE key = 'k'").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != DefaultSnapshotKeep {
		t.Errorf("snapshots for k = %d, want %d", count, DefaultSnapshotKeep)
	}
}

func TestProgressDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, "k", &ProgressData{Version: ProgressVersion}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	out, err := repo.Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out != nil {
		t.Error("expected nil progress after delete")
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq != int64(i+1) {
			t.Errorf("seq[%d] = %d, want %d", i, seq, i+1)
		}
		if seq <= prev {
			t.Errorf("sequence not increasing: %d after %d", seq, prev)
		}
		prev = seq
	}
}

func TestSequencerResumesAfterStoredEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	for i := 0; i < 3; i++ {
		if err := repo.AppendBall(ctx, BallEventData{SessionID: "s1", BallIndex: i, Topic: "rules", Outcome: "dot"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if _, err := s.DB().Exec("DELETE FROM sequences"); err != nil {
		t.Fatalf("reset counter: %v", err)
	}

	seq, err := newSequencer(ctx, s.DB(), "events")
	if err != nil {
		t.Fatalf("new sequencer: %v", err)
	}
	next, err := seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next != 4 {
		t.Fatalf("next = %d, want 4", next)
	}
}

func TestBallEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, outcome := range []string{"six", "dot", "wicket"} {
		err := repo.AppendBall(ctx, BallEventData{
			SessionID:  "s1",
			BallIndex:  i,
			QuestionID: fmt.Sprintf("q%d", i),
			Topic:      "rules",
			Difficulty: "easy",
			Correct:    outcome != "wicket",
			ResponseMs: 1500,
			Outcome:    outcome,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if err := repo.AppendBall(ctx, BallEventData{SessionID: "s2", Topic: "history", Outcome: "four"}); err != nil {
		t.Fatalf("append s2: %v", err)
	}

	balls, err := repo.SessionBalls(ctx, "s1")
	if err != nil {
		t.Fatalf("session balls: %v", err)
	}
	if len(balls) != 3 {
		t.Fatalf("balls = %d, want 3", len(balls))
	}
	for i, b := range balls {
		if b.BallIndex != i {
			t.Errorf("ball %d index = %d", i, b.BallIndex)
		}
		if i > 0 && b.Sequence <= balls[i-1].Sequence {
			t.Errorf("ball %d out of sequence order", i)
		}
	}
	if balls[2].Correct || balls[2].Outcome != "wicket" {
		t.Errorf("last ball = %+v", balls[2])
	}
	if !balls[0].Correct || balls[0].ResponseMs != 1500 {
		t.Errorf("first ball = %+v", balls[0])
	}
}

func TestSessionEventsQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []SessionEventData{
		{SessionID: "a", SessionKey: "asha", Action: ActionStart},
		{SessionID: "a", SessionKey: "asha", Action: ActionEnd, Runs: 20, Wickets: 2, Balls: 12, Status: "overs_complete"},
		{SessionID: "b", SessionKey: "ravi", Action: ActionStart},
		{SessionID: "b", SessionKey: "ravi", Action: ActionAbort, Runs: 4, Balls: 3, Status: "in_progress"},
	}
	for _, e := range events {
		if err := repo.AppendSession(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	finished, err := repo.QuerySessions(ctx, QueryOpts{}, ActionEnd, ActionAbort)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(finished) != 2 {
		t.Fatalf("finished = %d, want 2", len(finished))
	}
	// Newest first.
	if finished[0].SessionID != "b" || finished[1].Runs != 20 {
		t.Errorf("unexpected order: %+v", finished)
	}

	all, err := repo.QuerySessions(ctx, QueryOpts{Limit: 3})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("limited = %d, want 3", len(all))
	}

	after, err := repo.QuerySessions(ctx, QueryOpts{After: finished[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after = %d, want 2", len(after))
	}

	asha, err := repo.QuerySessions(ctx, QueryOpts{SessionKey: "asha", Limit: 1}, ActionEnd, ActionAbort)
	if err != nil {
		t.Fatalf("query by key: %v", err)
	}
	if len(asha) != 1 || asha[0].SessionID != "a" {
		t.Errorf("by key = %+v", asha)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "anthropic",
		Model:        "claude-haiku",
		Purpose:      "question-gen",
		InputTokens:  120,
		OutputTokens: 300,
		LatencyMs:    850,
		Success:      true,
		RequestBody:  `{"prompt":"..."}`,
		ResponseBody: `{"questions":[]}`,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	err = repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "openai",
		Model:        "gpt-4o-mini",
		Purpose:      "question-gen",
		Success:      false,
		ErrorMessage: "rate limited",
	})
	if err != nil {
		t.Fatalf("append failure: %v", err)
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "unknown", Success: true}); err != nil {
		t.Fatalf("append other purpose: %v", err)
	}

	other, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "unknown"})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(other) != 1 || other[0].Provider != "mock" {
		t.Fatalf("purpose filter = %+v", other)
	}

	list, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(-time.Hour), Purpose: "question-gen"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("events = %d, want 2", len(list))
	}
	if list[0].Provider != "openai" || list[0].Success {
		t.Errorf("newest = %+v", list[0])
	}

	got, err := repo.GetLLMEvent(ctx, list[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.OutputTokens != 300 || got.ResponseBody != `{"questions":[]}` {
		t.Errorf("get = %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}
}
