package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initResourceMetrics() {
	r.ResourceLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotgraph_resource_loads_total",
			Help: "Total number of resource loads by strategy",
		},
		[]string{"resource", "strategy"},
	)

	r.ResourceLoadDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slotgraph_resource_load_duration_seconds",
			Help:    "Time spent materialising resources",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"resource"},
	)

	r.ResourceUnloadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotgraph_resource_unloads_total",
			Help: "Total number of resource unloads",
		},
		[]string{"resource"},
	)

	r.ResourceCacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotgraph_resource_cache_hits_total",
			Help: "Loads satisfied by the already resident resource",
		},
		[]string{"resource"},
	)

	r.ResourceLoadFailuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotgraph_resource_load_failures_total",
			Help: "Total number of failed resource loads",
		},
		[]string{"resource"},
	)

	r.ResourceResident = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slotgraph_resource_resident",
			Help: "Whether the resource is currently resident (1=yes, 0=no)",
		},
		[]string{"resource"},
	)

	r.ResourceUsageMB = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slotgraph_resource_usage_megabytes",
			Help: "Resource usage snapshot taken after the most recent node",
		},
		[]string{"kind"},
	)
}
