// Package telemetry takes resource-usage snapshots that are attached to every
// node's metric record.
package telemetry

import (
	"context"
	"math"
	"runtime"
)

// Usage is a memory snapshot in megabytes.
type Usage struct {
	AllocatedMB float64 `json:"allocated_mb"`
	ReservedMB  float64 `json:"reserved_mb"`
}

// Sampler takes usage snapshots. Implementations must be cheap; they run after
// every node.
type Sampler interface {
	Snapshot(ctx context.Context) Usage
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func(ctx context.Context) Usage

// Snapshot implements Sampler.
func (f SamplerFunc) Snapshot(ctx context.Context) Usage { return f(ctx) }

// Nop reports zero usage.
var Nop Sampler = SamplerFunc(func(context.Context) Usage { return Usage{} })

// RuntimeSampler reports the Go heap (allocated) and the memory obtained from
// the OS (reserved). It stands in for accelerator memory when the backend
// runs in process.
type RuntimeSampler struct{}

// Snapshot implements Sampler.
func (RuntimeSampler) Snapshot(context.Context) Usage {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Usage{
		AllocatedMB: toMB(ms.HeapAlloc),
		ReservedMB:  toMB(ms.Sys),
	}
}

func toMB(b uint64) float64 {
	return math.Round(float64(b)/(1<<20)*100) / 100
}
