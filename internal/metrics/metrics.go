// Package metrics owns the Prometheus registry for coltype. Every method is
// nil-safe so callers can pass a nil *Metrics when metrics are off.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coltype"

// Metrics holds the collectors registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	classifications  *prometheus.CounterVec
	splits           *prometheus.CounterVec
	classifyDuration prometheus.Histogram
	httpRequests     *prometheus.CounterVec
}

// New creates a registry with the coltype collectors. Go and process
// collectors are included when runtime is true.
func New(runtime bool) *Metrics {
	registry := prometheus.NewRegistry()
	if runtime {
		registry.MustRegister(
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
		)
	}

	m := &Metrics{
		registry: registry,
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Columns classified, by resulting label.",
		}, []string{"label"}),
		splits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_total",
			Help:      "Values split, by kind (company, phone) and outcome (matched, unmatched).",
		}, []string{"kind", "outcome"}),
		classifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classify_duration_seconds",
			Help:      "Time spent classifying one column.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
	}

	registry.MustRegister(m.classifications, m.splits, m.classifyDuration, m.httpRequests)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveClassification records one classified column
func (m *Metrics) ObserveClassification(label string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(label).Inc()
	m.classifyDuration.Observe(elapsed.Seconds())
}

// ObserveSplit records one split value. kind is "company" or "phone".
func (m *Metrics) ObserveSplit(kind string, matched bool) {
	if m == nil {
		return
	}
	outcome := "unmatched"
	if matched {
		outcome = "matched"
	}
	m.splits.WithLabelValues(kind, outcome).Inc()
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(route string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
