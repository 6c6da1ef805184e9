// Package node defines a single vertex of the execution graph: its identity,
// the state key it writes, the resource it is accounted against and the pure
// transform it runs.
package node

import (
	"context"

	"github.com/specialistvlad/slotgraph/internal/state"
)

const (
	// Start is the entry sentinel. Edges leaving Start mark entry nodes.
	Start = "START"
	// End is the terminal sentinel.
	End = "END"
)

// IsSentinel reports whether id names Start or End.
func IsSentinel(id string) bool {
	return id == Start || id == End
}

// Result is what a transform hands back to the wrapper: the value merged into
// state and the unit-of-work count (e.g. generated tokens) used for throughput.
type Result struct {
	Value any
	Units int
}

// Transform is the node logic. It receives a read-only snapshot of the state
// as it was when the node became ready. It may block, e.g. while the resource
// manager loads a model.
type Transform func(ctx context.Context, snap state.Snapshot) (Result, error)

// Node is a single vertex in the execution graph.
type Node struct {
	// ID is the unique node identifier used by edges.
	ID string
	// Key is the state key the node's output is merged into. Defaults to ID.
	Key string
	// Resource is the resource identifier recorded in the node's metric.
	// Defaults to Key.
	Resource string
	// Transform is the node logic.
	Transform Transform

	// index is the declaration order, assigned when the node is added to a
	// topology store.
	index int
}

// OutputKey returns the state key the node writes.
func (n *Node) OutputKey() string {
	if n.Key != "" {
		return n.Key
	}
	return n.ID
}

// ResourceID returns the identifier the node's metric is recorded against.
func (n *Node) ResourceID() string {
	if n.Resource != "" {
		return n.Resource
	}
	return n.OutputKey()
}

// Index returns the node's declaration order.
func (n *Node) Index() int {
	return n.index
}

// SetIndex records the node's declaration order.
func (n *Node) SetIndex(i int) {
	n.index = i
}

// Status is the execution status of a node within one run.
type Status int32

const (
	// StatusPending indicates the node is waiting for its predecessors.
	StatusPending Status = iota
	// StatusRunning indicates the node's transform is executing.
	StatusRunning
	// StatusCompleted indicates the node ran and its output was merged.
	StatusCompleted
	// StatusFailed indicates the node's transform returned an error.
	StatusFailed
	// StatusSkipped indicates the node sits only on branches that were not taken.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Resolved reports whether the status is final for scheduling purposes.
func (s Status) Resolved() bool {
	return s == StatusCompleted || s == StatusSkipped
}
