package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Recorders(t *testing.T) {
	m := New("commerce")

	m.ObserveRequest("orders.submit", 200, 12*time.Millisecond)
	m.EventPublished("order.submitted")
	m.EventPublished("order.submitted")
	m.EventBuffered()
	m.EventDropped()
	m.SetBufferSize(3)
	m.ConflictRetry("order.add_item")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Requests.WithLabelValues("orders.submit", "200")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.EventsPublished.WithLabelValues("order.submitted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EventsBuffered))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EventsDropped))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.BufferSize))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConflictRetries.WithLabelValues("order.add_item")))
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("x", 500, time.Second)
		m.EventPublished("x")
		m.EventBuffered()
		m.EventDropped()
		m.SetBufferSize(1)
		m.ConflictRetry("x")
	})
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New("commerce")
		New("commerce")
	})
}
