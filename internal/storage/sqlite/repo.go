// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. It performs batched INSERTs inside a transaction; SQLite does
// not have a dedicated bulk-load API like Postgres COPY, but transactions keep
// performance acceptable for moderate volumes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"popetl/internal/ddl"
	"popetl/internal/storage"

	_ "modernc.org/sqlite"
)

// dateLayout is how time.Time values are stored.
const dateLayout = "2006-01-02"

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// A single connection keeps the transaction and follow-up reads on the
	// same handle, which matters for in-memory databases.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// Dialect implements storage.Repository.
func (r *Repository) Dialect() ddl.Dialect { return Dialect{} }

// Exec implements storage.Repository.
func (r *Repository) Exec(ctx context.Context, query string) error {
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// QueryStrings implements storage.Repository.
func (r *Repository) QueryStrings(ctx context.Context, query string) ([][]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	out, err := storage.ScanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan: %w", err)
	}
	return out, nil
}

// CopyFrom inserts rows into table with multi-row INSERT statements, all in a
// single transaction.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert := storage.MultiRowInsert(Dialect{}, tx, table)
	batch := storage.ClampBatch(storage.Config{BatchSize: r.cfg.BatchSize}.Batch(), len(columns), maxParams)
	log := storage.Config{Logger: r.cfg.Logger}.Log()

	n, err := storage.LoadBatches(ctx, log, columns, rows, batch,
		func(ctx context.Context, cols []string, batch [][]any) (int64, error) {
			return insert(ctx, cols, toSQLiteValues(batch))
		})
	if err != nil {
		return 0, fmt.Errorf("sqlite: insert into %s: %w", table, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return n, nil
}

// toSQLiteValues copies rows, converting time.Time to ISO date text.
func toSQLiteValues(rows [][]any) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		cp := make([]any, len(r))
		for j, v := range r {
			if t, ok := v.(time.Time); ok {
				cp[j] = t.Format(dateLayout)
				continue
			}
			cp[j] = v
		}
		out[i] = cp
	}
	return out
}
