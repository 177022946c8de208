package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Generation metrics
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec

	// Upstream metrics
	UpstreamRequestsTotal *prometheus.CounterVec
	UpstreamHealth        *prometheus.GaugeVec
	BreakerState          *prometheus.GaugeVec
}

// New creates a new Metrics instance registered on its own registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "mediaforge"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		// Generation metrics
		GenerationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "generation",
				Name:      "requests_total",
				Help:      "Total number of generations by outcome",
			},
			[]string{"capability", "outcome"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "generation",
				Name:      "duration_seconds",
				Help:      "Generation duration in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"capability"},
		),

		// Upstream metrics
		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Total number of upstream calls by status class",
			},
			[]string{"capability", "status"}, // status: 2xx..5xx, transport_error, breaker_open
		),
		UpstreamHealth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "health",
				Help:      "Upstream health status (1=healthy, 0=unhealthy)",
			},
			[]string{"capability"},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"capability"},
		),
	}
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordGeneration records a finished generation.
func (m *Metrics) RecordGeneration(capability, outcome string, duration time.Duration) {
	m.GenerationsTotal.WithLabelValues(capability, outcome).Inc()
	m.GenerationDuration.WithLabelValues(capability).Observe(duration.Seconds())
}

// RecordUpstreamCall records one upstream call. A zero status means no
// response was received; reason then labels why.
func (m *Metrics) RecordUpstreamCall(capability string, status int, reason string) {
	label := reason
	if status != 0 {
		label = statusCodeToString(status)
	}
	if label == "" {
		label = "unknown"
	}
	m.UpstreamRequestsTotal.WithLabelValues(capability, label).Inc()
}

// SetUpstreamHealth sets the health status of an upstream.
func (m *Metrics) SetUpstreamHealth(capability string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	m.UpstreamHealth.WithLabelValues(capability).Set(value)
}

// SetBreakerState sets the circuit breaker state of an upstream.
func (m *Metrics) SetBreakerState(capability, state string) {
	m.BreakerState.WithLabelValues(capability).Set(breakerStateValue(state))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "status_" + strconv.Itoa(code)
	}
}
