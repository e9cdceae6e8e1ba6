package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 消费循环的 Prometheus 指标；nil *Metrics 可用，不记录任何数据
type Metrics struct {
	Received        *prometheus.CounterVec
	Acked           *prometheus.CounterVec
	Failed          *prometheus.CounterVec
	HandlerDuration *prometheus.HistogramVec
}

// New 在 reg 上注册全部指标。同一 reg 上重复调用时复用已注册的指标，
// 多个会话因此累加到同一组序列
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Received: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentflow_messages_received_total",
			Help: "Messages delivered to the listener.",
		}, []string{"kind"})),
		Acked: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentflow_messages_acked_total",
			Help: "Messages handled and acknowledged.",
		}, []string{"kind"})),
		Failed: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentflow_messages_failed_total",
			Help: "Messages that ended the session, by reason (decode, handler, ack).",
		}, []string{"kind", "reason"})),
		HandlerDuration: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contentflow_handler_duration_seconds",
			Help:    "Time spent in the notification handler.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"})),
	}
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing
		}
	}
	panic(err)
}

func (m *Metrics) ObserveReceived(kind string) {
	if m == nil {
		return
	}
	m.Received.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveAcked(kind string) {
	if m == nil {
		return
	}
	m.Acked.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveFailed(kind, reason string) {
	if m == nil {
		return
	}
	m.Failed.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) ObserveHandler(kind string, start time.Time) {
	if m == nil {
		return
	}
	m.HandlerDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
