package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequencer hands out the global order shared by every event table.
// Row IDs are per table; the sequence lets a ball be ordered against the
// innings start that preceded it. The counter lives in the database so a
// CLI command and a running game never hand out the same number.
type sequencer struct {
	mu   sync.Mutex
	db   *sql.DB
	name string
}

const sequenceDDL = `CREATE TABLE IF NOT EXISTS sequences (
	name  TEXT PRIMARY KEY,
	value INTEGER NOT NULL
)`

// newSequencer makes sure the named counter exists. A fresh counter
// starts after the highest sequence already stored, so databases written
// before the counter existed keep their order.
func newSequencer(ctx context.Context, db *sql.DB, name string) (*sequencer, error) {
	if _, err := db.ExecContext(ctx, sequenceDDL); err != nil {
		return nil, fmt.Errorf("create sequences table: %w", err)
	}

	var start int64
	for _, t := range []string{ballTable.Name, sessionTable.Name, llmTable.Name} {
		var m sql.NullInt64
		if err := db.QueryRowContext(ctx, "SELECT MAX(sequence) FROM "+t).Scan(&m); err != nil {
			return nil, fmt.Errorf("max sequence in %s: %w", t, err)
		}
		start = max(start, m.Int64)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sequences (name, value) VALUES (?, ?)`, name, start); err != nil {
		return nil, fmt.Errorf("seed sequence %s: %w", name, err)
	}
	return &sequencer{db: db, name: name}, nil
}

// Next increments the counter and returns the new value.
func (s *sequencer) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var v int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE sequences SET value = value + 1 WHERE name = ? RETURNING value`, s.name).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", s.name, err)
	}
	return v, nil
}
