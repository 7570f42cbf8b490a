package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/onboarding-wizard/internal/types"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// timeLayout has a fixed width so that stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database at dsn and applies migrations.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	s := &SQLite{conn: conn}
	if err := s.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// migrate applies the embedded migrations not yet recorded in schema_migrations.
func (s *SQLite) migrate(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			continue
		}

		b, err := fs.ReadFile(migrationFS, path.Join("migrations", fname))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fname, err)
		}
		if _, err := s.conn.ExecContext(ctx, string(b)); err != nil {
			return fmt.Errorf("exec migration %s: %w", fname, err)
		}
		if _, err := s.conn.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", fname, err)
		}
	}
	return nil
}

// SaveSession implements Store.
func (s *SQLite) SaveSession(ctx context.Context, snap types.SessionSnapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO wizard_sessions (id, current_step, has_unsaved, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   current_step = excluded.current_step,
		   has_unsaved = excluded.has_unsaved,
		   data = excluded.data,
		   updated_at = excluded.updated_at`,
		snap.ID.String(), int(snap.CurrentStep), snap.HasUnsaved, string(data),
		formatTime(snap.CreatedAt), formatTime(snap.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession implements Store.
func (s *SQLite) GetSession(ctx context.Context, id uuid.UUID) (*types.SessionSnapshot, error) {
	var (
		step                 int
		unsaved              bool
		data                 string
		createdAt, updatedAt string
	)
	err := s.conn.QueryRowContext(ctx,
		`SELECT current_step, has_unsaved, data, created_at, updated_at FROM wizard_sessions WHERE id = ?`,
		id.String(),
	).Scan(&step, &unsaved, &data, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	snap := &types.SessionSnapshot{ID: id, CurrentStep: types.StepIdentity(step), HasUnsaved: unsaved}
	if err := json.Unmarshal([]byte(data), &snap.Data); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}
	if snap.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if snap.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return snap, nil
}

// DeleteSession implements Store.
func (s *SQLite) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM wizard_sessions WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SaveSubmission implements Store.
func (s *SQLite) SaveSubmission(ctx context.Context, sub types.Submission) error {
	payload, err := json.Marshal(sub.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO submissions (id, session_id, payload, submitted_at) VALUES (?, ?, ?, ?)`,
		sub.ID.String(), sub.SessionID.String(), string(payload), formatTime(sub.SubmittedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// ListSubmissions implements Store. Newest submissions come first.
func (s *SQLite) ListSubmissions(ctx context.Context, limit int) ([]types.Submission, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, session_id, payload, submitted_at FROM submissions ORDER BY submitted_at DESC, id LIMIT ?`,
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []types.Submission
	for rows.Next() {
		var id, sessionID, payload, submittedAt string
		if err := rows.Scan(&id, &sessionID, &payload, &submittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		sub, err := decodeSubmission(id, sessionID, payload, submittedAt)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return subs, nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

func decodeSubmission(id, sessionID, payload, submittedAt string) (*types.Submission, error) {
	var (
		sub types.Submission
		err error
	)
	if sub.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid submission id %q: %w", id, err)
	}
	if sub.SessionID, err = uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}
	if err := json.Unmarshal([]byte(payload), &sub.Payload); err != nil {
		return nil, fmt.Errorf("failed to decode submission payload: %w", err)
	}
	if sub.SubmittedAt, err = parseTime(submittedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}
