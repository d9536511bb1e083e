// Package metrics exposes Prometheus collectors for the gateway and the
// inference backend calls it makes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "summarygate"

// Metrics groups the collectors. Build one per process with New and pass it
// to the components that record into it.
type Metrics struct {
	registry *prometheus.Registry

	summarizeTotal    *prometheus.CounterVec
	summarizeDuration *prometheus.HistogramVec
	backendTotal      *prometheus.CounterVec
	backendDuration   *prometheus.HistogramVec
	backendInFlight   prometheus.Gauge
	healthTotal       *prometheus.CounterVec
}

// New creates the collectors and registers them, plus the Go runtime and
// process collectors, on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		summarizeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summarize_requests_total",
				Help:      "Total summarize calls by terminal outcome",
			},
			[]string{"outcome"},
		),
		summarizeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "summarize_duration_seconds",
				Help:      "Duration of summarize calls in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"outcome"},
		),
		backendTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_requests_total",
				Help:      "Total inference backend calls",
			},
			[]string{"operation", "result"},
		),
		backendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_request_duration_seconds",
				Help:      "Duration of inference backend calls in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),
		backendInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "backend_inflight_requests",
				Help:      "Generate calls currently holding a backend slot",
			},
		),
		healthTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "health_checks_total",
				Help:      "Total health checks by backend reachability",
			},
			[]string{"backend"},
		),
	}

	m.registry.MustRegister(
		m.summarizeTotal,
		m.summarizeDuration,
		m.backendTotal,
		m.backendDuration,
		m.backendInFlight,
		m.healthTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSummarize records one summarize call reaching a terminal state.
// A nil receiver is a no-op so components can run without metrics.
func (m *Metrics) RecordSummarize(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.summarizeTotal.WithLabelValues(outcome).Inc()
	m.summarizeDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// RecordBackend records one call to the inference backend.
func (m *Metrics) RecordBackend(operation, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.backendTotal.WithLabelValues(operation, result).Inc()
	m.backendDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// BackendSlotAcquired and BackendSlotReleased track the in-flight gauge.
func (m *Metrics) BackendSlotAcquired() {
	if m == nil {
		return
	}
	m.backendInFlight.Inc()
}

func (m *Metrics) BackendSlotReleased() {
	if m == nil {
		return
	}
	m.backendInFlight.Dec()
}

// RecordHealth records a health check result.
func (m *Metrics) RecordHealth(reachable bool) {
	if m == nil {
		return
	}
	label := "disconnected"
	if reachable {
		label = "connected"
	}
	m.healthTotal.WithLabelValues(label).Inc()
}
