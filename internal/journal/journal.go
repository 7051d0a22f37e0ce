// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal persists a record of extractor invocations in SQLite.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/circuit-batch/pkg/types"
)

// Store appends and queries invocation records. Journaling is opt-in:
// the batch runner only writes here when a journal path is configured.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS invocations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			profile TEXT NOT NULL,
			tag TEXT NOT NULL,
			split TEXT NOT NULL,
			token_id INTEGER NOT NULL,
			threshold REAL NOT NULL,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			exit_code INTEGER NOT NULL,
			timed_out INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invocations_profile ON invocations(profile)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one invocation row.
func (s *Store) Record(ctx context.Context, inv types.Invocation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations
			(profile, tag, split, token_id, threshold, started_at, duration_ms, exit_code, timed_out)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.Profile, inv.Tag, string(inv.Split), inv.TokenID, inv.Threshold,
		inv.StartedAt.UTC().Format(time.RFC3339Nano),
		inv.Duration.Milliseconds(), inv.ExitCode, boolToInt(inv.TimedOut),
	)
	if err != nil {
		return fmt.Errorf("recording invocation %s:%d: %w", inv.Split, inv.TokenID, err)
	}
	return nil
}

// Recent returns up to limit invocations, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.Invocation, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT profile, tag, split, token_id, threshold, started_at, duration_ms, exit_code, timed_out
		 FROM invocations ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var invs []types.Invocation
	for rows.Next() {
		var (
			inv        types.Invocation
			split      string
			startedAt  string
			durationMS int64
			timedOut   int
		)
		if err := rows.Scan(&inv.Profile, &inv.Tag, &split, &inv.TokenID, &inv.Threshold,
			&startedAt, &durationMS, &inv.ExitCode, &timedOut); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}

		inv.Split = types.Split(split)
		inv.Duration = time.Duration(durationMS) * time.Millisecond
		inv.TimedOut = timedOut != 0
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			inv.StartedAt = t
		}

		invs = append(invs, inv)
	}

	return invs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
