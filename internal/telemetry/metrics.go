package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal        *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	CarrierErrors        *prometheus.CounterVec
	GeoSentinelFallbacks prometheus.Counter
	WebhookEvents        *prometheus.CounterVec
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "makesend_requests_total",
				Help: "Total number of requests by operation and status",
			},
			[]string{"operation", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "makesend_request_duration_seconds",
				Help:    "Request duration in seconds by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		CarrierErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "makesend_carrier_errors_total",
				Help: "Total carrier API errors by operation and error type",
			},
			[]string{"operation", "error_type"},
		),
		GeoSentinelFallbacks: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "makesend_geo_sentinel_fallbacks_total",
				Help: "Orders sent with the fallback origin/destination because geography resolution failed",
			},
		),
		WebhookEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "makesend_webhook_events_total",
				Help: "Webhook deliveries by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
	}
}

// RecordRequest records a request metric.
func (m *Metrics) RecordRequest(operation, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(operation, status).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(duration)
}

// RecordError records a carrier error metric.
func (m *Metrics) RecordError(operation, errorType string) {
	m.CarrierErrors.WithLabelValues(operation, errorType).Inc()
}
