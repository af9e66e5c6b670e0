package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	messagesSent *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastQuantity *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		messagesSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retailmind_messages_sent_total",
				Help: "Total number of sale events sent to backend",
			},
			[]string{"backend", "product_id"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retailmind_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastQuantity: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "retailmind_last_sale_quantity",
				Help: "Last recorded sale quantity for a product",
			},
			[]string{"product_id"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retailmind_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordMessageSent records a sale event sent to a backend.
func (r *Recorder) RecordMessageSent(backend, productID string) {
	r.messagesSent.WithLabelValues(backend, productID).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastQuantity records the last sale quantity for a product.
func (r *Recorder) RecordLastQuantity(productID string, qty float64) {
	r.lastQuantity.WithLabelValues(productID).Set(qty)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
