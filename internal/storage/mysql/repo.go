// Package mysql provides a MySQL-backed storage.Repository implementation
// on top of database/sql and go-sql-driver/mysql. Loads run as multi-row
// INSERTs in one transaction.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"popetl/internal/ddl"
	"popetl/internal/storage"
)

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a connection pool and verifies it with a ping.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: open: %w", err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { db.Close() }, nil
}

func (r *Repository) Dialect() ddl.Dialect { return Dialect{} }

func (r *Repository) Exec(ctx context.Context, query string) error {
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

func (r *Repository) QueryStrings(ctx context.Context, query string) ([][]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("mysql: query: %w", err)
	}
	out, err := storage.ScanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("mysql: scan: %w", err)
	}
	return out, nil
}

// CopyFrom inserts rows in batches of multi-row INSERTs inside a single
// transaction; a failed batch rolls back the whole load.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	batch := storage.ClampBatch(storage.Config{BatchSize: r.cfg.BatchSize}.Batch(), len(columns), maxParams)
	log := storage.Config{Logger: r.cfg.Logger}.Log()

	n, err := storage.LoadBatches(ctx, log, columns, rows, batch, storage.MultiRowInsert(Dialect{}, tx, table))
	if err != nil {
		return 0, fmt.Errorf("mysql: insert into %s: %w", table, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit: %w", err)
	}
	return n, nil
}
