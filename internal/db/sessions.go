package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/onboarding-wizard/internal/types"
)

// SaveSession upserts a session snapshot
func (db *DB) SaveSession(ctx context.Context, snap types.SessionSnapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO wizard_sessions (id, current_step, has_unsaved, data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET current_step = $2, has_unsaved = $3, data = $4, updated_at = $6`,
		snap.ID, int(snap.CurrentStep), snap.HasUnsaved, data, snap.CreatedAt, snap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession retrieves a session snapshot by ID
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*types.SessionSnapshot, error) {
	snap := types.SessionSnapshot{ID: id}
	var step int
	var data []byte

	err := db.pool.QueryRow(ctx,
		`SELECT current_step, has_unsaved, data, created_at, updated_at
		 FROM wizard_sessions WHERE id = $1`,
		id,
	).Scan(&step, &snap.HasUnsaved, &data, &snap.CreatedAt, &snap.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	snap.CurrentStep = types.StepIdentity(step)
	if err := json.Unmarshal(data, &snap.Data); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}
	return &snap, nil
}

// DeleteSession removes a session
func (db *DB) DeleteSession(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM wizard_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
