package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service on a private registry.
type Metrics struct {
	Registry     *prometheus.Registry
	CallsTotal   *prometheus.CounterVec
	CallDuration *prometheus.HistogramVec
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		CallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alopeyk_api_calls_total",
				Help: "Total number of AloPeyk API calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		CallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "alopeyk_api_call_duration_seconds",
				Help:    "AloPeyk API call duration in seconds by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alopeyk_gateway_requests_total",
				Help: "Total gateway HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "alopeyk_gateway_request_duration_seconds",
				Help:    "Gateway HTTP request duration in seconds by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// RecordCall records one AloPeyk API call. It satisfies alopeyk.Recorder.
func (m *Metrics) RecordCall(operation, outcome string, duration time.Duration) {
	m.CallsTotal.WithLabelValues(operation, outcome).Inc()
	m.CallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordHTTP records one gateway request.
func (m *Metrics) RecordHTTP(route string, code int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
