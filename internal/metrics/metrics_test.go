package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.WriteCommitted("expense")
	m.WriteCommitted("expense")
	m.WriteCommitted("payment")
	m.ValidationFailed("create_expense")
	m.ObserveBalanceComputation(10 * time.Millisecond)
	m.EventPublishFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.writes.WithLabelValues("expense")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.writes.WithLabelValues("payment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationErrors.WithLabelValues("create_expense")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventPublishFails))
	assert.Equal(t, 1, testutil.CollectAndCount(m.balanceDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.WriteCommitted("expense")
		m.ValidationFailed("record_payment")
		m.ObserveBalanceComputation(time.Second)
		m.EventPublishFailed()
	})
}
