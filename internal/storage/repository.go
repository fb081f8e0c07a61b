// Package storage contains storage-agnostic contracts and utilities: the
// Repository interface every backend implements, a factory registry keyed by
// storage kind, and the batched loader backends use for bulk inserts.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"popetl/internal/ddl"
)

// DefaultBatchSize is the number of rows per INSERT/COPY batch when
// Config.BatchSize is zero.
const DefaultBatchSize = 1000

// Backend is what a concrete backend implements; the factory adds Close.
type Backend interface {
	// Dialect describes how to render SQL for this backend.
	Dialect() ddl.Dialect

	// Exec runs a statement that returns no rows (DDL, INSERT ... SELECT).
	Exec(ctx context.Context, query string) error

	// CopyFrom inserts rows (aligned to columns) into table in batches of
	// Config.BatchSize. All batches run in one transaction: on error nothing
	// is committed.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// QueryStrings runs a query and returns every row as strings, NULL as "".
	QueryStrings(ctx context.Context, query string) ([][]string, error)
}

// Repository is the minimal contract the pipeline needs from a database.
type Repository interface {
	Backend

	// Close releases the connection pool.
	Close()
}

type closingRepo struct {
	Backend
	closeFn func()
}

func (c closingRepo) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// WithClose turns a backend and the cleanup function its constructor returned
// into a Repository.
func WithClose(b Backend, closeFn func()) Repository {
	return closingRepo{Backend: b, closeFn: closeFn}
}

// DSNBuilder assembles a driver DSN from connection parts.
type DSNBuilder func(host string, port int, user, password, database string, params map[string]string) (string, error)

// ResolveDSN returns c.DSN when set and otherwise the DSN build produces from
// the individual parts.
func (c Config) ResolveDSN(build DSNBuilder) (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	return build(c.Host, c.Port, c.User, c.Password, c.Database, c.Params)
}

// Config carries the connection parameters for a backend. Either DSN or the
// individual parts are used; DSN wins when set.
type Config struct {
	Kind     string
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Params   map[string]string

	// BatchSize is the number of rows per INSERT/COPY batch.
	BatchSize int

	// Logger receives loader progress; a discarding logger is used when nil.
	Logger *slog.Logger
}

// Log returns c.Logger or a logger that discards everything.
func (c Config) Log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Batch returns the configured batch size, DefaultBatchSize when unset.
func (c Config) Batch() int {
	if c.BatchSize > 0 {
		return c.BatchSize
	}
	return DefaultBatchSize
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. Backends call it
// from init.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
