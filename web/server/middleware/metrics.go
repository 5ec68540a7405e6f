package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.hackfix.me/purr/effect"
)

// Metrics collects HTTP and handler metrics in its own registry.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	exits    *prometheus.CounterVec
}

// NewMetrics returns a new Metrics instance. The registry also includes the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "purr",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "purr",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		exits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "purr",
			Subsystem: "handler",
			Name:      "exits_total",
			Help:      "Total number of translated handler results by exit kind.",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.exits,
	)

	return m
}

// Middleware returns a Middleware that counts requests and observes their
// duration.
func (m *Metrics) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerDuration(m.duration,
			promhttp.InstrumentHandlerCounter(m.requests, next))
	}
}

// Handler returns the handler exposing the collected metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveExit counts the exit of a translated handler result.
func (m *Metrics) ObserveExit(exit effect.Exit) {
	m.exits.WithLabelValues(exit.Kind.String()).Inc()
}
