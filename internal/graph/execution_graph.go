package graph

import (
	"context"
	"slices"

	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/topologystore"
)

// ExecutionGraph is a compiled, validated and immutable DAG.
type ExecutionGraph struct {
	topology topologystore.Store
	entries  []string
	order    []string
	next     map[string][]string
	routes   map[string]ConditionalEdge
}

// Topology returns the underlying topology store.
func (g *ExecutionGraph) Topology() topologystore.Store {
	return g.topology
}

// Entries returns the entry nodes in declaration order.
func (g *ExecutionGraph) Entries() []string {
	return slices.Clone(g.entries)
}

// Order returns a topological order of all nodes. Among nodes whose
// predecessors are already placed, the lowest declaration index comes first.
func (g *ExecutionGraph) Order() []string {
	return slices.Clone(g.order)
}

// Successors returns the targets of unconditional edges leaving id, in
// declaration order. END is never included.
func (g *ExecutionGraph) Successors(id string) []string {
	return slices.Clone(g.next[id])
}

// Route returns the conditional edge leaving id, if any.
func (g *ExecutionGraph) Route(id string) (ConditionalEdge, bool) {
	r, ok := g.routes[id]
	return r, ok
}

// Nodes returns every node in declaration order.
func (g *ExecutionGraph) Nodes(ctx context.Context) []*node.Node {
	return g.topology.AllNodes(ctx)
}

// Node returns the node with the given ID.
func (g *ExecutionGraph) Node(ctx context.Context, id string) (*node.Node, bool) {
	return g.topology.GetNode(ctx, id)
}

// Len returns the number of nodes.
func (g *ExecutionGraph) Len() int {
	return len(g.order)
}
