package store

import (
	"context"

	"github.com/jonathan/onboarding-wizard/internal/db"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

// Postgres is a Store backed by the PostgreSQL database layer.
type Postgres struct {
	*db.DB
}

// NewPostgres wraps an open database. The store owns it from now on.
func NewPostgres(database *db.DB) *Postgres {
	return &Postgres{DB: database}
}

// ListSubmissions implements Store. Newest submissions come first.
func (p *Postgres) ListSubmissions(ctx context.Context, limit int) ([]types.Submission, error) {
	return p.DB.ListSubmissions(ctx, normalizeLimit(limit))
}

// Close implements Store.
func (p *Postgres) Close() error {
	p.DB.Close()
	return nil
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*SQLite)(nil)
	_ Store = (*Postgres)(nil)
)
