package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initNodeMetrics() {
	r.NodeExecutionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotgraph_node_executions_total",
			Help: "Total number of node executions by outcome",
		},
		[]string{"node", "status"},
	)

	r.NodeDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slotgraph_node_duration_seconds",
			Help:    "Wall-clock duration of node transforms",
			Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"node"},
	)

	r.NodeUnitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotgraph_node_units_total",
			Help: "Units of work (e.g. tokens) produced by nodes",
		},
		[]string{"node", "resource"},
	)

	r.NodeThroughput = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slotgraph_node_throughput_units_per_second",
			Help: "Throughput of the most recent execution of each node",
		},
		[]string{"node"},
	)
}
