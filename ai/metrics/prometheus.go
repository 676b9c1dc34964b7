// Package metrics provides Prometheus metrics export for vector store
// operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter records insert and search metrics in Prometheus format.
type Exporter struct {
	registry *prometheus.Registry

	insertLatency     prometheus.Histogram
	searchLatency     prometheus.Histogram
	documentsInserted prometheus.Counter
	searchResults     prometheus.Counter
	operationErrors   *prometheus.CounterVec
}

// Config configures the exporter.
type Config struct {
	// Registry to use (if nil, creates a new one).
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds).
	LatencyBuckets []float64
}

// DefaultConfig returns the default exporter configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}
}

// NewExporter creates a new Prometheus metrics exporter.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{
		registry: registry,
		insertLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vecstore_insert_duration_seconds",
			Help:    "Latency of document batch inserts.",
			Buckets: cfg.LatencyBuckets,
		}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vecstore_search_duration_seconds",
			Help:    "Latency of similarity searches.",
			Buckets: cfg.LatencyBuckets,
		}),
		documentsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vecstore_documents_inserted_total",
			Help: "Number of documents inserted.",
		}),
		searchResults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vecstore_search_results_total",
			Help: "Number of documents returned by similarity searches.",
		}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vecstore_errors_total",
			Help: "Number of failed store operations by operation.",
		}, []string{"op"}),
	}

	registry.MustRegister(
		e.insertLatency,
		e.searchLatency,
		e.documentsInserted,
		e.searchResults,
		e.operationErrors,
	)
	return e
}

// RecordInsert records one batch insert.
func (e *Exporter) RecordInsert(documents int, duration time.Duration, err error) {
	if e == nil {
		return
	}
	e.insertLatency.Observe(duration.Seconds())
	if err != nil {
		e.operationErrors.WithLabelValues("insert").Inc()
		return
	}
	e.documentsInserted.Add(float64(documents))
}

// RecordSearch records one similarity search.
func (e *Exporter) RecordSearch(results int, duration time.Duration, err error) {
	if e == nil {
		return
	}
	e.searchLatency.Observe(duration.Seconds())
	e.searchResults.Add(float64(results))
	if err != nil {
		e.operationErrors.WithLabelValues("search").Inc()
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
