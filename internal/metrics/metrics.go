// Package metrics defines the Prometheus collectors exported by the UI server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Backend operation labels.
const (
	OpListQRCodes  = "all_qr_codes"
	OpCreateQRCode = "create_qr_code"
)

// Metrics groups the collectors for backend calls, submissions and sessions.
type Metrics struct {
	registry *prometheus.Registry

	backendRequests *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	submissions     *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		backendRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qrcode_ui_backend_requests_total",
			Help: "Requests sent to the QR code service by operation and outcome",
		}, []string{"operation", "outcome"}),
		backendLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qrcode_ui_backend_request_duration_seconds",
			Help:    "Latency of requests sent to the QR code service",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qrcode_ui_submissions_total",
			Help: "Form submissions by result (success, warning, error, busy)",
		}, []string{"result"}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "qrcode_ui_active_sessions",
			Help: "Number of live browser sessions held in memory",
		}),
	}
}

// ObserveBackend records one backend call. A nil receiver is a no-op.
func (m *Metrics) ObserveBackend(operation string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.backendRequests.WithLabelValues(operation, outcome).Inc()
	m.backendLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// CountSubmission records the outcome of a submit click.
func (m *Metrics) CountSubmission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

// SetActiveSessions publishes the current session count.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

// Registry exposes the underlying registry for tests and custom handlers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
