package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the ent SQL builder and the
// global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequencer
}

// insert assigns the next sequence and appends one row to table.
func (r *eventRepo) insert(ctx context.Context, table string, columns []string, values []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := entsql.Dialect(dialect.SQLite).
		Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, columns...)...).
		Values(append([]any{seqNum, time.Now().UTC()}, values...)...).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// selectEvents builds a newest-first select over an event table with the
// filters in opts applied.
func selectEvents(table string, columns []string, opts QueryOpts) *entsql.Selector {
	sel := entsql.Dialect(dialect.SQLite).
		Select(append([]string{"id", "sequence", "timestamp"}, columns...)...).
		From(entsql.Table(table)).
		OrderBy(entsql.Desc("sequence"))

	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

var ballEventColumns = []string{
	"session_id", "ball_index", "question_id", "topic", "difficulty",
	"correct", "response_ms", "outcome", "runs", "total_runs", "wickets",
}

func (r *eventRepo) AppendBall(ctx context.Context, d BallEventData) error {
	return r.insert(ctx, ballTable.Name, ballEventColumns, []any{
		d.SessionID, d.BallIndex, d.QuestionID, d.Topic, d.Difficulty,
		d.Correct, d.ResponseMs, d.Outcome, d.Runs, d.TotalRuns, d.Wickets,
	})
}

func (r *eventRepo) SessionBalls(ctx context.Context, sessionID string) ([]BallEvent, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select(append([]string{"id", "sequence", "timestamp"}, ballEventColumns...)...).
		From(entsql.Table(ballTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query balls: %w", err)
	}
	defer rows.Close()

	var out []BallEvent
	for rows.Next() {
		var e BallEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.SessionID, &e.BallIndex, &e.QuestionID, &e.Topic, &e.Difficulty,
			&e.Correct, &e.ResponseMs, &e.Outcome, &e.Runs, &e.TotalRuns, &e.Wickets,
		); err != nil {
			return nil, fmt.Errorf("scan ball event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var sessionEventColumns = []string{
	"session_id", "session_key", "action", "runs", "wickets", "balls",
	"overs", "balls_per_over", "total_wickets", "status", "duration_secs",
}

func (r *eventRepo) AppendSession(ctx context.Context, d SessionEventData) error {
	return r.insert(ctx, sessionTable.Name, sessionEventColumns, []any{
		d.SessionID, d.SessionKey, d.Action, d.Runs, d.Wickets, d.Balls,
		d.Overs, d.BallsPerOver, d.TotalWickets, d.Status, d.DurationSecs,
	})
}

func (r *eventRepo) QuerySessions(ctx context.Context, opts QueryOpts, actions ...string) ([]SessionEvent, error) {
	sel := selectEvents(sessionTable.Name, sessionEventColumns, opts)
	if len(actions) > 0 {
		vals := make([]any, len(actions))
		for i, a := range actions {
			vals[i] = a
		}
		sel.Where(entsql.In("action", vals...))
	}
	if opts.SessionKey != "" {
		sel.Where(entsql.EQ("session_key", opts.SessionKey))
	}

	q, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var e SessionEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.SessionID, &e.SessionKey, &e.Action, &e.Runs, &e.Wickets, &e.Balls,
			&e.Overs, &e.BallsPerOver, &e.TotalWickets, &e.Status, &e.DurationSecs,
		); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var llmEventColumns = []string{
	"provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, d LLMRequestEventData) error {
	return r.insert(ctx, llmTable.Name, llmEventColumns, []any{
		d.Provider, d.Model, d.Purpose, d.InputTokens, d.OutputTokens,
		d.LatencyMs, d.Success, d.ErrorMessage, d.RequestBody, d.ResponseBody,
	})
}

func scanLLMEvent(sc interface{ Scan(...any) error }) (LLMRequestEvent, error) {
	var e LLMRequestEvent
	err := sc.Scan(&e.ID, &e.Sequence, &e.Timestamp,
		&e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
		&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
	)
	return e, err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := selectEvents(llmTable.Name, llmEventColumns, opts)
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	q, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select(append([]string{"id", "sequence", "timestamp"}, llmEventColumns...)...).
		From(entsql.Table(llmTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	e, err := scanLLMEvent(r.db.QueryRowContext(ctx, q, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return &e, nil
}
