package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/onboarding-wizard/internal/types"
)

// Memory is a process-local Store.
type Memory struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]types.SessionSnapshot
	submissions []types.Submission
	closed      bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[uuid.UUID]types.SessionSnapshot)}
}

// SaveSession implements Store.
func (m *Memory) SaveSession(_ context.Context, snap types.SessionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	snap.Data = snap.Data.Clone()
	m.sessions[snap.ID] = snap
	return nil
}

// GetSession implements Store.
func (m *Memory) GetSession(_ context.Context, id uuid.UUID) (*types.SessionSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	snap, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	snap.Data = snap.Data.Clone()
	return &snap, nil
}

// DeleteSession implements Store.
func (m *Memory) DeleteSession(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.sessions, id)
	return nil
}

// SaveSubmission implements Store.
func (m *Memory) SaveSubmission(_ context.Context, sub types.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	sub.Payload.AllFormData = sub.Payload.AllFormData.Clone()
	m.submissions = append(m.submissions, sub)
	return nil
}

// ListSubmissions implements Store. Newest submissions come first.
func (m *Memory) ListSubmissions(_ context.Context, limit int) ([]types.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]types.Submission, len(m.submissions))
	copy(out, m.submissions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	if limit = normalizeLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
