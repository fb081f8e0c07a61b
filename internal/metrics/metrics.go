// Package metrics records pipeline metrics through a pluggable Backend.
// Until SetBackend is called every call is a no-op, so instrumented code never
// needs to know whether metrics are enabled. Concrete backends live in the
// prompush (Pushgateway) and datadog (DogStatsD) subpackages.
package metrics

import (
	"sync"
	"time"
)

// Metric names.
const (
	StageTotal    = "popetl_stage_total"
	StageDuration = "popetl_stage_duration_seconds"
	RowsTotal     = "popetl_rows_total"
	BatchesTotal  = "popetl_batches_total"
)

// Stage outcome label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is implemented by metric systems.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered values; called once when the run ends.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b as the global backend. A nil b is ignored.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush flushes the global backend.
func Flush() error { return current().Flush() }

// Status maps a stage error to its label value.
func Status(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}

// RecordStep counts one run of a pipeline stage and observes its duration.
func RecordStep(job, step string, err error, d time.Duration) {
	lbls := Labels{"job": job, "step": step, "status": Status(err)}
	b := current()
	b.IncCounter(StageTotal, 1, lbls)
	b.ObserveHistogram(StageDuration, d.Seconds(), lbls)
}

// RecordRow adds delta rows of kind ("fetched", "inserted", "results").
// Non-positive deltas are dropped.
func RecordRow(job, kind string, delta int64) {
	if delta > 0 {
		current().IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
	}
}

// RecordBatches adds delta flushed INSERT/COPY batches.
func RecordBatches(job string, delta int64) {
	if delta > 0 {
		current().IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
	}
}
