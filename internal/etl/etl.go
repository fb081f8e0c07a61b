// Package etl implements the pipeline stages: fetch the cities CSV, rebuild
// the populations table, bulk load it, aggregate per country into the results
// table, read the results back and export them as TSV.
//
// Every stage is a plain function with explicit inputs. Stages that touch the
// database open their own repository through the storage factory and close it
// before returning, so they can be run and tested one at a time.
package etl

import (
	"errors"
	"time"

	"popetl/internal/storage"
)

// Stage names used in logs, metrics and StageError.
const (
	StageFetch             = "fetch"
	StageCreatePopulations = "create_populations"
	StagePrepare           = "prepare"
	StageLoad              = "load"
	StageAggregate         = "aggregate"
	StageReadResults       = "read_results"
	StageExport            = "export"
)

// StageError reports which stage of a run failed. Err is the wrapped cause,
// reachable with errors.Is/As; its message already names the stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage name carried by err, or "" if err does not
// wrap a StageError.
func FailedStage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// StageReport is the outcome of one completed stage.
type StageReport struct {
	Stage    string
	Rows     int64
	Duration time.Duration
}

// Report summarizes a successful run.
type Report struct {
	Stages []StageReport

	// Output is the path of the written TSV file.
	Output string

	// Fingerprint is export.Fingerprint of the exported rows.
	Fingerprint uint64
}

// Rows returns the row count reported by stage, and whether it ran.
func (r *Report) Rows(stage string) (int64, bool) {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s.Rows, true
		}
	}
	return 0, false
}

// Duration is the sum of the stage durations.
func (r *Report) Duration() time.Duration {
	var d time.Duration
	for _, s := range r.Stages {
		d += s.Duration
	}
	return d
}

// newRepository is a test seam over storage.New.
var newRepository = storage.New
