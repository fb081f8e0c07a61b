// Package prompush pushes run metrics to a Prometheus Pushgateway. popetl exits
// after one run, so nothing is ever scraped; Flush pushes the registry under
// the job grouping key.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"popetl/internal/metrics"
)

// Backend implements metrics.Backend on a private registry.
type Backend struct {
	jobName string
	pusher  *push.Pusher

	stageCounter  *prometheus.CounterVec
	stageDuration *prometheus.SummaryVec
	rowCounter    *prometheus.CounterVec
	batchCounter  prometheus.Counter
}

// NewBackend returns a Backend pushing to gatewayURL as jobName ("popetl"
// when empty).
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "popetl"
	}

	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	stepStatus := []string{"step", "status"}

	return &Backend{
		jobName: jobName,
		pusher:  push.New(gatewayURL, jobName).Gatherer(reg),
		stageCounter: f.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StageTotal,
			Help: "Stage runs by step and status.",
		}, stepStatus),
		stageDuration: f.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.StageDuration,
			Help:       "Stage wall time in seconds by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.99: 0.001},
		}, stepStatus),
		rowCounter: f.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Rows fetched, inserted and exported.",
		}, []string{"kind"}),
		batchCounter: f.NewCounter(prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Loader batches written.",
		}),
	}, nil
}

// IncCounter implements metrics.Backend. Names it does not know are dropped.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StageTotal:
		b.stageCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case metrics.RowsTotal:
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
	case metrics.BatchesTotal:
		b.batchCounter.Add(delta)
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name == metrics.StageDuration {
		b.stageDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
	}
}

// Flush replaces the job's metrics on the gateway (HTTP PUT).
func (b *Backend) Flush() error {
	if err := b.pusher.Push(); err != nil {
		return fmt.Errorf("prompush: %w", err)
	}
	return nil
}
