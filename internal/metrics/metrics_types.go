// Package metrics exposes Prometheus metrics for node executions, the
// resource slot and whole runs. Every Registry owns a private Prometheus
// registry so tests and parallel apps never collide.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all metrics for the application
type Registry struct {
	// Node Metrics
	NodeExecutionsTotal *prometheus.CounterVec
	NodeDuration        *prometheus.HistogramVec
	NodeUnitsTotal      *prometheus.CounterVec
	NodeThroughput      *prometheus.GaugeVec

	// Resource Metrics
	ResourceLoadsTotal        *prometheus.CounterVec
	ResourceLoadDuration      *prometheus.HistogramVec
	ResourceUnloadsTotal      *prometheus.CounterVec
	ResourceCacheHitsTotal    *prometheus.CounterVec
	ResourceLoadFailuresTotal *prometheus.CounterVec
	ResourceResident          *prometheus.GaugeVec
	ResourceUsageMB           *prometheus.GaugeVec

	// Run Metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
	}

	r.initNodeMetrics()
	r.initResourceMetrics()
	r.initRunMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
