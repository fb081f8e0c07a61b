package sqlite

import (
	"context"

	"popetl/internal/storage"
)

// newRepository is swapped out by tests.
var newRepository = NewRepository

func init() { storage.Register("sqlite", open) }

// open uses cfg.DSN, falling back to cfg.Database as a file path.
func open(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = cfg.Database
	}
	r, closeFn, err := newRepository(ctx, Config{DSN: dsn, BatchSize: cfg.BatchSize, Logger: cfg.Logger})
	if err != nil {
		return nil, err
	}
	return storage.WithClose(r, closeFn), nil
}
