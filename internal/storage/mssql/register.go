package mssql

import (
	"context"

	"popetl/internal/storage"
)

// newRepository is swapped out by tests.
var newRepository = NewRepository

func init() { storage.Register("mssql", open) }

// open connects to SQL Server using cfg.DSN, or a DSN built from the parts of cfg.
func open(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	dsn, err := cfg.ResolveDSN(BuildDSN)
	if err != nil {
		return nil, err
	}
	r, closeFn, err := newRepository(ctx, Config{DSN: dsn, BatchSize: cfg.BatchSize, Logger: cfg.Logger})
	if err != nil {
		return nil, err
	}
	return storage.WithClose(r, closeFn), nil
}
