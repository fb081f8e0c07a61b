// Package sqlite implements a SQLite-backed storage.Repository.
package sqlite

import "log/slog"

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:popetl.db?cache=shared"
	//   "popetl.db" (interpreted by the driver)
	DSN string

	// BatchSize is the number of rows per multi-row INSERT. It is clamped to
	// SQLite's bind parameter limit.
	BatchSize int

	Logger *slog.Logger
}
