// Package metrics exposes Prometheus counters for store mutations.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pickup"

// Outcome labels
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the collectors registered for one process
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	expired    prometheus.Counter
	revision   prometheus.Gauge
}

// New creates a registry with the pickup collectors and the Go runtime collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Mutation operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_expired_total",
			Help:      "Join requests moved to EXPIRED by the sweeper.",
		}),
		revision: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_revision",
			Help:      "Revision of the last committed store change.",
		}),
	}
	m.registry.MustRegister(
		m.operations,
		m.expired,
		m.revision,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordOperation counts one mutation. Errors wrapping rejected are counted
// as rejections, other errors as failures.
func (m *Metrics) RecordOperation(operation string, err error, rejected func(error) bool) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
		if rejected != nil && rejected(err) {
			outcome = OutcomeRejected
		}
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// AddExpired counts requests expired by a sweep
func (m *Metrics) AddExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.expired.Add(float64(n))
}

// SetRevision records the latest store revision
func (m *Metrics) SetRevision(rev uint64) {
	if m == nil {
		return
	}
	m.revision.Set(float64(rev))
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
