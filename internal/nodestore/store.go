// Package nodestore defines the interface for storing and retrieving the
// mutable per-run execution state of nodes.
//
// The node store is the counterpart of topologystore: topology holds the
// immutable DAG, the node store holds what happens to each node during one
// run. It is created fresh for every run, starts with every node Pending,
// and is discarded when the run ends.
//
// Besides status, output and error, the store tracks activation. A node is
// activated when at least one incoming edge fired: an unconditional edge
// from a completed predecessor, the branch chosen by a conditional edge, or
// the START sentinel for entry nodes. A node whose predecessors are all
// resolved but which was never activated sits only on branches that were not
// taken, and the scheduler skips it.
//
// Nodes follow this lifecycle:
//
//	Pending → Running → Completed (with output) OR Failed (with error)
//	Pending → Skipped
package nodestore

import (
	"context"

	"github.com/specialistvlad/slotgraph/internal/node"
)

// Store is the interface for managing the mutable execution state of nodes.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// SetStatus updates the execution status of a node.
	SetStatus(ctx context.Context, id string, status node.Status) error

	// GetStatus returns the current status of a node, StatusPending if none
	// was set yet.
	GetStatus(ctx context.Context, id string) (node.Status, error)

	// SetOutput records the result a node produced.
	SetOutput(ctx context.Context, id string, output node.Result) error

	// GetOutput returns the recorded result of a node. The boolean is false
	// when the node has not completed.
	GetOutput(ctx context.Context, id string) (node.Result, bool, error)

	// SetError records the failure of a node.
	SetError(ctx context.Context, id string, nodeErr error) error

	// GetError returns the recorded failure of a node, or nil.
	GetError(ctx context.Context, id string) (error, error)

	// Activate marks that at least one incoming edge of the node fired.
	Activate(ctx context.Context, id string) error

	// Activated reports whether the node was activated.
	Activated(ctx context.Context, id string) (bool, error)
}
