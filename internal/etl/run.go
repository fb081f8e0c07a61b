package etl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"popetl/internal/config"
	"popetl/internal/datasource"
	"popetl/internal/datasource/httpds"
	"popetl/internal/export"
	"popetl/internal/metrics"
	csvparser "popetl/internal/parser/csv"
	"popetl/internal/schema"
	"popetl/internal/storage"
)

// Deps are the collaborators of Run that callers may replace.
type Deps struct {
	// Logger receives stage events; nothing is logged when nil.
	Logger *slog.Logger

	// Source overrides the source derived from cfg.Source.
	Source datasource.Source
}

// StorageConfig translates the storage section of cfg into a storage.Config.
func StorageConfig(cfg config.Config, log *slog.Logger) storage.Config {
	db := cfg.Storage.DB
	return storage.Config{
		Kind:      cfg.Storage.Kind,
		DSN:       db.DSN,
		Host:      db.Host,
		Port:      db.Port,
		User:      db.User,
		Password:  db.Password,
		Database:  db.Database,
		Params:    db.Params,
		BatchSize: cfg.Storage.BatchSize,
		Logger:    log,
	}
}

// SourceFor builds the datasource described by cfg.Source.
func SourceFor(cfg config.Config, log *slog.Logger) (datasource.Source, error) {
	return datasource.ForLocation(cfg.Source.URL, httpds.Config{
		Timeout:            cfg.Source.Timeout.Std(),
		MaxRetries:         cfg.Source.MaxRetries,
		InsecureSkipVerify: cfg.Source.InsecureSkipVerify,
		Logger:             log,
	})
}

// CSVOptions returns the parser options for cfg.Source.
func CSVOptions(cfg config.Config) csvparser.Options {
	opts := csvparser.Options{Comma: ';'}
	if r, _ := utf8.DecodeRuneInString(cfg.Source.Delimiter); r != utf8.RuneError {
		opts.Comma = r
	}
	return opts
}

// Run executes every stage in order and stops at the first failure, which is
// returned as a *StageError. The database connection is never held across
// stages.
func Run(ctx context.Context, cfg config.Config, deps Deps) (*Report, error) {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With("job", cfg.Job)

	src := deps.Source
	if src == nil {
		var err error
		if src, err = SourceFor(cfg, log); err != nil {
			return nil, &StageError{Stage: StageFetch, Err: fmt.Errorf("fetch: %w", err)}
		}
	}

	sc := StorageConfig(cfg, log)
	populations := schema.Populations(cfg.Tables.Populations)
	rep := &Report{Output: cfg.Output.Path}

	stage := func(name string, fn func() (int64, error)) error {
		log.Info("stage started", "stage", name)
		start := time.Now()
		n, err := fn()
		d := time.Since(start)
		metrics.RecordStep(cfg.Job, name, err, d)
		if err != nil {
			log.Error("stage failed", "stage", name, "duration", d, "err", err)
			return &StageError{Stage: name, Err: err}
		}
		log.Info("stage completed", "stage", name, "rows", n, "duration", d)
		rep.Stages = append(rep.Stages, StageReport{Stage: name, Rows: n, Duration: d})
		return nil
	}

	var (
		table   *csvparser.Table
		rows    [][]any
		results []export.Result
	)
	steps := []struct {
		name string
		fn   func() (int64, error)
	}{
		{StageFetch, func() (int64, error) {
			var err error
			table, err = Fetch(ctx, src, CSVOptions(cfg))
			if err != nil {
				return 0, err
			}
			metrics.RecordRow(cfg.Job, "fetched", int64(table.Len()))
			return int64(table.Len()), nil
		}},
		{StageCreatePopulations, func() (int64, error) {
			return 0, CreatePopulations(ctx, sc, populations)
		}},
		{StagePrepare, func() (int64, error) {
			var err error
			rows, err = Prepare(table, populations)
			table = nil
			return int64(len(rows)), err
		}},
		{StageLoad, func() (int64, error) {
			n, err := LoadPopulations(ctx, sc, populations, rows)
			if err != nil {
				return n, err
			}
			metrics.RecordRow(cfg.Job, "inserted", n)
			metrics.RecordBatches(cfg.Job, batchCount(n, sc.Batch()))
			rows = nil
			return n, nil
		}},
		{StageAggregate, func() (int64, error) {
			return Aggregate(ctx, sc, cfg.Tables, cfg.Query.PopulationThreshold)
		}},
		{StageReadResults, func() (int64, error) {
			var err error
			results, err = ReadResults(ctx, sc, cfg.Tables)
			if err != nil {
				return 0, err
			}
			metrics.RecordRow(cfg.Job, "results", int64(len(results)))
			return int64(len(results)), nil
		}},
		{StageExport, func() (int64, error) {
			if err := export.WriteTSV(cfg.Output.Path, results); err != nil {
				return 0, fmt.Errorf("export %s: %w", cfg.Output.Path, err)
			}
			rep.Fingerprint = export.Fingerprint(results)
			return int64(len(results)), nil
		}},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return nil, &StageError{Stage: s.name, Err: fmt.Errorf("%s: %w", s.name, err)}
		}
		if err := stage(s.name, s.fn); err != nil {
			return nil, err
		}
	}

	log.Info("pipeline completed",
		"output", rep.Output,
		"results", len(results),
		"fingerprint", fmt.Sprintf("%016x", rep.Fingerprint),
		"duration", rep.Duration(),
	)
	return rep, nil
}

// batchCount is the number of batches of size batch needed for n rows.
func batchCount(n int64, batch int) int64 {
	if n <= 0 || batch <= 0 {
		return 0
	}
	return (n + int64(batch) - 1) / int64(batch)
}
