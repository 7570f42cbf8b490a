// Package store provides persistence for wizard sessions and accepted submissions.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jonathan/onboarding-wizard/internal/types"
)

// DefaultListLimit is used when a listing asks for a non-positive limit.
const DefaultListLimit = 50

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store persists session snapshots and the submission log.
// GetSession returns nil, nil when the session does not exist.
type Store interface {
	SaveSession(ctx context.Context, snap types.SessionSnapshot) error
	GetSession(ctx context.Context, id uuid.UUID) (*types.SessionSnapshot, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	SaveSubmission(ctx context.Context, sub types.Submission) error
	ListSubmissions(ctx context.Context, limit int) ([]types.Submission, error)
	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
