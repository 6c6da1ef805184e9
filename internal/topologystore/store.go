// Package topologystore defines the interface for storing and retrieving the
// static structure of the execution graph.
//
// The topology store keeps the immutable DAG (nodes and dependency edges)
// apart from the mutable per-run status kept by nodestore. It is populated
// once while a graph is compiled and is read-only for the rest of its life:
// the scheduler repeatedly asks for DependenciesOf and DependentsOf while it
// decides which node runs next.
//
// Declaration order matters. Nodes are numbered in the order they are added
// and every query returns nodes in that order, because the scheduler uses the
// declaration index to break ties between ready nodes.
package topologystore

import (
	"context"
	"errors"

	"github.com/specialistvlad/slotgraph/internal/node"
)

// ErrNodeNotFound is returned when an operation refers to a node that was
// never added.
var ErrNodeNotFound = errors.New("node not found in topology")

// ErrDuplicateNode is returned when a node is added under an ID that is
// already taken.
var ErrDuplicateNode = errors.New("duplicate node in topology")

// Store is the interface for managing the static topology of the execution
// graph.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// AddNode registers a node and assigns it the next declaration index.
	//
	// Adding any node under an existing ID, including the same *node.Node
	// again, returns ErrDuplicateNode.
	AddNode(ctx context.Context, n *node.Node) error

	// AddDependency records that 'to' depends on 'from'. Both nodes must
	// already exist, otherwise ErrNodeNotFound is returned. Adding the same
	// dependency twice is a no-op.
	AddDependency(ctx context.Context, from, to string) error

	// GetNode retrieves a single node by ID.
	GetNode(ctx context.Context, id string) (*node.Node, bool)

	// AllNodes returns every node in declaration order. The slice is a copy.
	AllNodes(ctx context.Context) []*node.Node

	// DependenciesOf returns the IDs of the direct predecessors of id in
	// declaration order.
	DependenciesOf(ctx context.Context, id string) ([]string, error)

	// DependentsOf returns the IDs of the direct successors of id in
	// declaration order.
	DependentsOf(ctx context.Context, id string) ([]string, error)
}
