package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// pragmas are passed to the modernc driver through the DSN so that they
// hold on every connection it opens.
var pragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
}

// Store owns the SQLite handle behind the event log and progress
// snapshots.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequencer
}

// Open connects to the database at dsn, migrates it to the current
// schema and resumes the event sequence.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time; this also keeps in-memory databases to a
	// single connection.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	s := &Store{db: db, drv: entsql.OpenDB(dialect.SQLite, db)}
	if err := migrate(ctx, s.drv); err != nil {
		s.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	if s.seq, err = newSequencer(ctx, db, "events"); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func withPragmas(dsn string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range pragmas {
		b.WriteString(sep + "_pragma=" + p)
		sep = "&"
	}
	return b.String()
}

// DB exposes the raw handle for ad hoc queries.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.drv.Close() }

func (s *Store) ProgressRepo() ProgressRepo {
	return &progressRepo{db: s.db, keep: DefaultSnapshotKeep}
}

func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

// DefaultDBPath returns LEARNCRICKET_DB when set, otherwise
// learncricket.db under DataDir. The parent directory is created.
func DefaultDBPath() (string, error) {
	p := os.Getenv("LEARNCRICKET_DB")
	if p == "" {
		dir, err := DataDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(dir, "learncricket.db")
	}
	return p, EnsureDir(p)
}

// DataDir returns $XDG_DATA_HOME/learncricket, falling back to
// ~/.local/share/learncricket. The directory is not created.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "learncricket"), nil
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
