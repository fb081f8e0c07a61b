package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// the provided rows (aligned to 'columns' order) and return the number of
// rows reported as inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches splits rows into batches of batchSize, preserving order, and
// calls copyFn for each. It stops at the first error and returns the total
// reported so far. Progress is logged at debug level on each flush.
func LoadBatches(
	ctx context.Context,
	log *slog.Logger,
	columns []string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total   int64
		batches int
		start   = time.Now()
	)
	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := min(lo+batchSize, len(rows))

		n, err := copyFn(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			log.Warn("loader: batch failed", "batch", batches+1, "first_row", lo, "total_inserted", total, "error", err)
			return total, err
		}
		batches++

		elapsed := time.Since(start)
		rps := float64(0)
		if elapsed > 0 {
			rps = float64(total) / elapsed.Seconds()
		}
		log.Debug("loader: batch flushed",
			"batch", batches,
			"inserted", n,
			"total_inserted", total,
			"rps", int64(rps),
			"elapsed", elapsed.Truncate(time.Millisecond),
		)
	}
	return total, nil
}

// ClampBatch lowers batchSize so a multi-row INSERT of ncols columns stays
// within maxParams bind parameters.
func ClampBatch(batchSize, ncols, maxParams int) int {
	if ncols <= 0 || maxParams <= 0 {
		return batchSize
	}
	if limit := maxParams / ncols; limit < batchSize {
		return max(limit, 1)
	}
	return batchSize
}
