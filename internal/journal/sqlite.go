// Package journal keeps an append-only audit trail of runs in SQLite.
//
// The journal records what a run posted and decided. It is observability, not
// restart state: the engine never reads it back.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/mazerunner/pkg/ports"
)

// SQLite implements ports.Journal.
type SQLite struct {
	db *sql.DB
}

var _ ports.Journal = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the journal at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("journal: empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS entries (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			at_unix_ms INTEGER NOT NULL,
			kind TEXT NOT NULL,
			move INTEGER NOT NULL,
			room_id INTEGER NOT NULL,
			detail TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS entries_run ON entries(run_id, seq);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("journal: init schema: %w", err)
		}
	}
	return nil
}

// Record appends an entry.
func (s *SQLite) Record(ctx context.Context, e ports.JournalEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (run_id, at_unix_ms, kind, move, room_id, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		e.RunID, e.At.UnixMilli(), e.Kind, e.Move, e.RoomID, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("journal: record %s: %w", e.Kind, err)
	}
	return nil
}

// Entries returns the entries of a run in insertion order.
// An empty runID returns the entries of the most recent run.
func (s *SQLite) Entries(ctx context.Context, runID string) ([]ports.JournalEntry, error) {
	if runID == "" {
		err := s.db.QueryRowContext(ctx, `SELECT run_id FROM entries ORDER BY seq DESC LIMIT 1`).Scan(&runID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("journal: latest run: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, at_unix_ms, kind, move, room_id, detail FROM entries WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var out []ports.JournalEntry
	for rows.Next() {
		var e ports.JournalEntry
		var ms int64
		if err := rows.Scan(&e.RunID, &ms, &e.Kind, &e.Move, &e.RoomID, &e.Detail); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.At = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
