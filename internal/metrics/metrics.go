// Package metrics provides Prometheus metrics for the doctree service
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the document store service.
// Each instance carries its own registry so servers and tests never fight
// over global registration.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Store metrics
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec
	DocumentsTotal         prometheus.Gauge
	SectionsTotal          prometheus.Gauge

	// Document operation metrics
	DocumentLoadsTotal prometheus.Counter
	DocumentSavesTotal prometheus.Counter

	// Server metrics
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry:        registry,
		ServerStartTime: time.Now(),
	}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doctree_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doctree_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "doctree_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	m.StoreOperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doctree_store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"operation", "status"},
	)

	m.StoreOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doctree_store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	m.DocumentsTotal = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "doctree_documents_total",
			Help: "Total number of documents in the store",
		},
	)

	m.SectionsTotal = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "doctree_sections_total",
			Help: "Total number of sections across stored documents",
		},
	)

	m.DocumentLoadsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "doctree_document_loads_total",
			Help: "Total number of document load operations",
		},
	)

	m.DocumentSavesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "doctree_document_saves_total",
			Help: "Total number of document save operations",
		},
	)

	m.ServerUptimeSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "doctree_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	return m
}

// Registry returns the metrics registry for exposition
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest records a completed HTTP request
func (m *Metrics) RecordRequest(method, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordStoreOperation records a document store operation
func (m *Metrics) RecordStoreOperation(operation, status string, duration time.Duration) {
	m.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	m.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateStoreStats updates document store gauges
func (m *Metrics) UpdateStoreStats(documents, sections int64) {
	m.DocumentsTotal.Set(float64(documents))
	m.SectionsTotal.Set(float64(sections))
}

// UpdateUptime refreshes the uptime gauge
func (m *Metrics) UpdateUptime() {
	m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
}
