package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// DefaultSnapshotKeep is how many progress snapshots are kept per key.
const DefaultSnapshotKeep = 5

// progressRepo stores progress as JSON snapshots, newest wins.
type progressRepo struct {
	db   *sql.DB
	keep int
}

func (r *progressRepo) Load(ctx context.Context, key string) (*ProgressData, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(progressTable.Name)).
		Where(entsql.EQ("key", key)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Query()

	var raw []byte
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query progress %q: %w", key, err)
	}

	var data ProgressData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal progress %q: %w", key, err)
	}
	return &data, nil
}

func (r *progressRepo) Save(ctx context.Context, key string, data *ProgressData) error {
	if data == nil {
		return fmt.Errorf("save progress %q: nil data", key)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	q, args := entsql.Dialect(dialect.SQLite).
		Insert(progressTable.Name).
		Columns("key", "timestamp", "data").
		Values(key, time.Now().UTC(), string(raw)).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save progress %q: %w", key, err)
	}
	return r.Prune(ctx, key, r.keep)
}

func (r *progressRepo) Delete(ctx context.Context, key string) error {
	q, args := entsql.Dialect(dialect.SQLite).
		Delete(progressTable.Name).
		Where(entsql.EQ("key", key)).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete progress %q: %w", key, err)
	}
	return nil
}

// Prune deletes all but the keep most recent snapshots for key.
func (r *progressRepo) Prune(ctx context.Context, key string, keep int) error {
	if keep <= 0 {
		return nil
	}

	// Find the ID threshold: the keep-th most recent snapshot.
	q, args := entsql.Dialect(dialect.SQLite).
		Select("id").
		From(entsql.Table(progressTable.Name)).
		Where(entsql.EQ("key", key)).
		OrderBy(entsql.Desc("id")).
		Offset(keep - 1).
		Limit(1).
		Query()

	var threshold int
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	q, args = entsql.Dialect(dialect.SQLite).
		Delete(progressTable.Name).
		Where(entsql.And(entsql.EQ("key", key), entsql.LT("id", threshold))).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
