package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/onboarding-wizard/internal/types"
)

// SaveSubmission records an accepted submission
func (db *DB) SaveSubmission(ctx context.Context, sub types.Submission) error {
	payload, err := json.Marshal(sub.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO submissions (id, session_id, payload, submitted_at) VALUES ($1, $2, $3, $4)`,
		sub.ID, sub.SessionID, payload, sub.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// ListSubmissions retrieves recent submissions, newest first
func (db *DB) ListSubmissions(ctx context.Context, limit int) ([]types.Submission, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, session_id, payload, submitted_at
		 FROM submissions ORDER BY submitted_at DESC, id LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []types.Submission
	for rows.Next() {
		var sub types.Submission
		var payload []byte
		if err := rows.Scan(&sub.ID, &sub.SessionID, &payload, &sub.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		if err := json.Unmarshal(payload, &sub.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode submission %s: %w", sub.ID, err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return subs, nil
}
