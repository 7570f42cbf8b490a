package main

import (
	"context"
	"fmt"

	"github.com/jonathan/onboarding-wizard/internal/config"
	"github.com/jonathan/onboarding-wizard/internal/db"
	"github.com/jonathan/onboarding-wizard/internal/directory"
	"github.com/jonathan/onboarding-wizard/internal/store"
)

// openStore opens the configured storage backend. For postgres storage the
// database also serves as the reference directory.
func openStore(ctx context.Context, cfg config.Config) (store.Store, directory.Provider, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		st, err := store.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, nil, nil
	case config.StoragePostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if _, err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return store.NewPostgres(database), database, nil
	default:
		return store.NewMemory(), nil, nil
	}
}

// loadDirectory returns the directory seed file's contents, or the built-in data.
func loadDirectory(cfg config.Config) (*directory.Static, error) {
	if cfg.DirectoryFile == "" {
		return directory.Default(), nil
	}
	return directory.LoadFile(cfg.DirectoryFile)
}
