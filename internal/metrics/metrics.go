package metrics

import (
	"time"
)

// RecordNode records one node execution.
func (r *Registry) RecordNode(node, resource, status string, duration time.Duration, units int, throughput float64) {
	r.NodeExecutionsTotal.WithLabelValues(node, status).Inc()
	r.NodeDuration.WithLabelValues(node).Observe(duration.Seconds())
	if status != "completed" {
		return
	}
	r.NodeUnitsTotal.WithLabelValues(node, resource).Add(float64(units))
	r.NodeThroughput.WithLabelValues(node).Set(throughput)
}

// RecordUsage records the latest resource usage snapshot.
func (r *Registry) RecordUsage(allocatedMB, reservedMB float64) {
	r.ResourceUsageMB.WithLabelValues("allocated").Set(allocatedMB)
	r.ResourceUsageMB.WithLabelValues("reserved").Set(reservedMB)
}

// RecordRun records a finished pipeline run.
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
}

// ResourceLoaded records a completed load.
func (r *Registry) ResourceLoaded(name, strategy string, took time.Duration) {
	r.ResourceLoadsTotal.WithLabelValues(name, strategy).Inc()
	r.ResourceLoadDuration.WithLabelValues(name).Observe(took.Seconds())
	r.ResourceResident.WithLabelValues(name).Set(1)
}

// ResourceUnloaded records an unload.
func (r *Registry) ResourceUnloaded(name string) {
	r.ResourceUnloadsTotal.WithLabelValues(name).Inc()
	r.ResourceResident.WithLabelValues(name).Set(0)
}

// ResourceCacheHit records a load served by the resident resource.
func (r *Registry) ResourceCacheHit(name string) {
	r.ResourceCacheHitsTotal.WithLabelValues(name).Inc()
}

// ResourceLoadFailed records a failed load.
func (r *Registry) ResourceLoadFailed(name string) {
	r.ResourceLoadFailuresTotal.WithLabelValues(name).Inc()
}
