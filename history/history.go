// Package history keeps a local relational log of past uploads. The log is
// advisory: upload flow never depends on it, and a failed insert is
// reported but must not fail the upload that produced it.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one logged upload. The encryption key is deliberately absent:
// it must never be persisted in plaintext alongside the id. ShareURL is
// therefore the share page URL without its key-bearing fragment.
type Entry struct {
	ID        string
	URL       string
	ShareURL  string
	CreatedAt time.Time
	Encrypted bool
	Size      int64
	Note      string
}

// Store wraps a sql.DB connection to the upload log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and runs schema
// migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("history: create directory: %w", err)
	}

	// modernc's driver takes pragmas as _pragma=name(value), not the
	// mattn-style _journal_mode form, which it would silently ignore.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: ping db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the uploads table if it does not already exist.
func (s *Store) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS uploads (
    id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    share_url TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    encrypted INTEGER NOT NULL DEFAULT 0,
    size INTEGER NOT NULL DEFAULT 0,
    note TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at);
`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Record inserts one upload into the log. A zero CreatedAt is stamped with
// the current time.
func (s *Store) Record(e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidEntry)
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO uploads (id, url, share_url, created_at, encrypted, size, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.URL, e.ShareURL, created.Unix(), boolToInt(e.Encrypted), e.Size, e.Note,
	)
	if err != nil {
		return fmt.Errorf("history: record %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns the n most recent entries, newest first. n <= 0 returns
// an empty slice.
func (s *Store) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}

	rows, err := s.db.Query(
		`SELECT id, url, share_url, created_at, encrypted, size, note
		 FROM uploads ORDER BY created_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]Entry, 0, n)
	for rows.Next() {
		var e Entry
		var created int64
		var encrypted int
		if err := rows.Scan(&e.ID, &e.URL, &e.ShareURL, &created, &encrypted, &e.Size, &e.Note); err != nil {
			return nil, fmt.Errorf("history: scan row: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0)
		e.Encrypted = encrypted != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate rows: %w", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
