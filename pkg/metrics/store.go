package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records structured store operations.
type StoreMetrics struct {
	duration *prometheus.HistogramVec
	ops      *prometheus.CounterVec
	opens    *prometheus.CounterVec
}

// NewStoreMetrics registers the store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_operation_duration_seconds",
		Help:    "Duration of store operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection", "op"})
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_operations_total",
		Help: "Store operations by collection, operation and outcome.",
	}, []string{"collection", "op", "result"})
	opens := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_open_total",
		Help: "Store open attempts by outcome.",
	}, []string{"result"})
	reg.MustRegister(duration, ops, opens)
	return &StoreMetrics{
		duration: duration,
		ops:      ops,
		opens:    opens,
	}
}

// Observe records one operation. result is a short outcome label such as
// "ok", "absent" or an error code.
func (m *StoreMetrics) Observe(collection, op, result string, elapsed time.Duration) {
	if m == nil || m.ops == nil {
		return
	}
	collection = normalizeLabel(collection)
	m.ops.WithLabelValues(collection, normalizeLabel(op), normalizeLabel(result)).Inc()
	m.duration.WithLabelValues(collection, normalizeLabel(op)).Observe(elapsed.Seconds())
}

// ObserveOpen records an open attempt.
func (m *StoreMetrics) ObserveOpen(err error) {
	if m == nil || m.opens == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.opens.WithLabelValues(result).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
