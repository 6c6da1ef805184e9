package instrument

import (
	"math"

	"github.com/specialistvlad/slotgraph/internal/telemetry"
)

// Record is the metric entry appended to state for every completed node.
type Record struct {
	Node          string          `json:"node"`
	Resource      string          `json:"resource"`
	DurationSec   float64         `json:"duration_sec"`
	Units         int             `json:"units"`
	Throughput    float64         `json:"throughput"`
	ResourceUsage telemetry.Usage `json:"resource_usage"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
