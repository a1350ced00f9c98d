// Package history provides SQLite-based archiving of finished reports.
// Only completed transcripts are stored, and nothing here is ever fed back
// into a running session.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"

	"github.com/comigor/reflector/internal/logger"
	"github.com/comigor/reflector/internal/prompt"
	"github.com/comigor/reflector/internal/transcript"
)

// ErrNotFound is returned by Load for unknown session ids.
var ErrNotFound = errors.New("history: report not found")

// Report is a finished session.
type Report struct {
	SessionID  string
	Mode       prompt.Mode
	Transcript transcript.Transcript
	CreatedAt  time.Time
}

// NewReport stamps a finished transcript with a fresh session id.
func NewReport(mode prompt.Mode, tr transcript.Transcript) Report {
	return Report{
		SessionID:  uuid.NewString(),
		Mode:       mode,
		Transcript: tr,
		CreatedAt:  time.Now().UTC(),
	}
}

// Store is an open archive.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the archive at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(10000)")
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS messages (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        mode TEXT NOT NULL,
        position INTEGER NOT NULL,
        role TEXT NOT NULL,
        content TEXT NOT NULL,
        created_at TEXT NOT NULL,
        UNIQUE (session_id, position)
    );`); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create table: %w", err)
	}
	logger.L.Debug("sqlite history DB initialized", "path", path)
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists every message of r in one transaction.
func (s *Store) Save(ctx context.Context, r Report) (err error) {
	if r.Transcript.Len() == 0 {
		return errors.New("history: refusing to save an empty transcript")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.L.Warn("history rollback failed", "error", rbErr)
			}
		}
	}()

	for i, m := range r.Transcript.Messages() {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO messages (session_id, mode, position, role, content, created_at) VALUES (?,?,?,?,?,?);`,
			r.SessionID, string(r.Mode), i, string(m.Role), m.Content, r.CreatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("history: insert message %d: %w", i, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	return nil
}

// Load returns the report stored under sessionID, messages in order.
func (s *Store) Load(ctx context.Context, sessionID string) (Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mode, role, content, created_at FROM messages WHERE session_id = ? ORDER BY position ASC;`, sessionID)
	if err != nil {
		return Report{}, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	r := Report{SessionID: sessionID}
	for rows.Next() {
		var mode, role, content, createdAt string
		if err := rows.Scan(&mode, &role, &content, &createdAt); err != nil {
			return Report{}, fmt.Errorf("history: scan: %w", err)
		}
		msg := transcript.Message{Role: transcript.Role(role), Content: content}
		if r.Transcript.Len() == 0 {
			r.Mode = prompt.Mode(mode)
			if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
				return Report{}, fmt.Errorf("history: parse created_at: %w", err)
			}
			r.Transcript = transcript.New(msg)
			continue
		}
		r.Transcript = r.Transcript.Append(msg)
	}
	if err := rows.Err(); err != nil {
		return Report{}, fmt.Errorf("history: rows: %w", err)
	}
	if r.Transcript.Len() == 0 {
		return Report{}, ErrNotFound
	}
	return r, nil
}
