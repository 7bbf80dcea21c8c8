// Package metrics defines the Prometheus collectors for ledger activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "splitsmart"

// Metrics holds the ledger collectors. A nil *Metrics is valid and records
// nothing, so callers never need to check whether metrics are enabled.
type Metrics struct {
	writes            *prometheus.CounterVec
	validationErrors  *prometheus.CounterVec
	balanceDuration   prometheus.Histogram
	eventPublishFails prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_writes_total",
			Help:      "Committed ledger writes by kind.",
		}, []string{"kind"}),
		validationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_validation_errors_total",
			Help:      "Rejected ledger writes by operation.",
		}, []string{"op"}),
		balanceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "balance_computation_seconds",
			Help:      "Time spent loading a group ledger and computing balances.",
			Buckets:   prometheus.DefBuckets,
		}),
		eventPublishFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Ledger events that could not be published after commit.",
		}),
	}

	reg.MustRegister(m.writes, m.validationErrors, m.balanceDuration, m.eventPublishFails)
	return m
}

// WriteCommitted counts a committed write. kind is "expense" or "payment".
func (m *Metrics) WriteCommitted(kind string) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(kind).Inc()
}

// ValidationFailed counts a write rejected before reaching the store.
func (m *Metrics) ValidationFailed(op string) {
	if m == nil {
		return
	}
	m.validationErrors.WithLabelValues(op).Inc()
}

// ObserveBalanceComputation records how long a balance computation took.
func (m *Metrics) ObserveBalanceComputation(d time.Duration) {
	if m == nil {
		return
	}
	m.balanceDuration.Observe(d.Seconds())
}

// EventPublishFailed counts an event lost after its write committed.
func (m *Metrics) EventPublishFailed() {
	if m == nil {
		return
	}
	m.eventPublishFails.Inc()
}
