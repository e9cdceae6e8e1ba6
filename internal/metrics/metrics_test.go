package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveReceived("content_item")
	m.ObserveReceived("content_item")
	m.ObserveAcked("content_item")
	m.ObserveFailed("collection", "decode")
	m.ObserveHandler("content_item", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Received.WithLabelValues("content_item")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Acked.WithLabelValues("content_item")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failed.WithLabelValues("collection", "decode")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveReceived("content_item")
	m.ObserveAcked("content_item")
	m.ObserveFailed("content_item", "handler")
	m.ObserveHandler("content_item", time.Now())
}

func TestNewTwiceOnSameRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	var a, b *Metrics
	assert.NotPanics(t, func() {
		a = New(reg)
		b = New(reg)
	})
	a.ObserveAcked("collection")
	b.ObserveAcked("collection")

	assert.Same(t, a.Acked, b.Acked)
	assert.Equal(t, 2.0, testutil.ToFloat64(b.Acked.WithLabelValues("collection")))
	n, err := testutil.GatherAndCount(reg, "contentflow_messages_acked_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewConflictingCollectorPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Name: "contentflow_messages_received_total",
		Help: "Messages delivered to the listener.",
	}))
	assert.Panics(t, func() { New(reg) })
}
