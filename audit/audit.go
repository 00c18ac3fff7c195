// Package audit records every section edit attempt in a local SQLite
// database, so a reviewer can reconstruct what the agent changed, when,
// and with which outcome, independent of the git history it pushed.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Aryan1718/OverLeaf-MCP/dbopen"
)

// Schema is the edit log table, applied on open.
const Schema = `
CREATE TABLE IF NOT EXISTS edit_log (
	event_id       TEXT PRIMARY KEY,
	file_path      TEXT NOT NULL,
	heading_command TEXT NOT NULL,
	section_title  TEXT NOT NULL,
	outcome        TEXT NOT NULL,
	detail         TEXT NOT NULL DEFAULT '',
	commit_message TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edit_log_created ON edit_log(created_at DESC);
`

// Edit outcomes.
const (
	OutcomeUpdated   = "updated"    // body replaced and persisted
	OutcomeNotFound  = "not_found"  // heading did not match
	OutcomeNoChanges = "no_changes" // replacement equal to current body
	OutcomeError     = "error"      // git or filesystem failure
)

// Entry is one edit attempt.
type Entry struct {
	ID             string    `json:"id"`
	FilePath       string    `json:"file_path"`
	HeadingCommand string    `json:"heading_command"`
	SectionTitle   string    `json:"section_title"`
	Outcome        string    `json:"outcome"`
	Detail         string    `json:"detail,omitempty"`
	CommitMessage  string    `json:"commit_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store is the SQLite-backed edit log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the edit log at path.
func Open(path string) (*Store, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already-open database, applying the schema. Used by
// tests with dbopen.OpenMemory.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("audit: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one entry. A missing ID gets a fresh UUID and a zero
// CreatedAt gets the current time; the filled entry is returned.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO edit_log (
			event_id, file_path, heading_command, section_title,
			outcome, detail, commit_message, created_at
		) VALUES (?,?,?,?,?,?,?,?)`,
		e.ID, e.FilePath, e.HeadingCommand, e.SectionTitle,
		e.Outcome, e.Detail, e.CommitMessage, e.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("audit: record: %w", err)
	}
	return e, nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, file_path, heading_command, section_title,
		       outcome, detail, commit_message, created_at
		FROM edit_log
		ORDER BY created_at DESC, event_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.FilePath, &e.HeadingCommand, &e.SectionTitle,
			&e.Outcome, &e.Detail, &e.CommitMessage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
