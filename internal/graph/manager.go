package graph

import (
	"context"
	"fmt"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/nodestore"
)

// Graph is the per-run view of an execution graph: static structure from the
// compiled graph combined with the mutable status of one run.
//
// The scheduler uses AllNodes, DependenciesOf, NodeStatus and Activated to
// find the next node; the executor uses the Mark* methods and Activate to
// record progress.
type Graph interface {
	// Node retrieves a node by ID.
	Node(ctx context.Context, id string) (*node.Node, bool)

	// AllNodes returns every node in declaration order.
	AllNodes(ctx context.Context) []*node.Node

	// Entries returns the entry node IDs.
	Entries() []string

	// DependenciesOf returns the direct predecessors of a node.
	DependenciesOf(ctx context.Context, id string) ([]*node.Node, error)

	// Successors returns the targets of unconditional edges leaving id.
	Successors(id string) []string

	// Route returns the conditional edge leaving id, if any.
	Route(id string) (ConditionalEdge, bool)

	// NodeStatus returns the node's status in this run.
	NodeStatus(ctx context.Context, id string) (node.Status, error)

	// Activate records that an incoming edge of the node fired. Activating END
	// is a no-op.
	Activate(ctx context.Context, id string) error

	// Activated reports whether any incoming edge of the node fired.
	Activated(ctx context.Context, id string) (bool, error)

	// MarkRunning transitions a node Pending → Running.
	MarkRunning(ctx context.Context, id string) error

	// MarkCompleted transitions a node Running → Completed and records its result.
	MarkCompleted(ctx context.Context, id string, out node.Result) error

	// MarkFailed transitions a node Running → Failed and records the error.
	MarkFailed(ctx context.Context, id string, nodeErr error) error

	// MarkSkipped transitions a node Pending → Skipped.
	MarkSkipped(ctx context.Context, id string) error
}

// Manager composes a compiled graph with a node store.
type Manager struct {
	graph *ExecutionGraph
	state nodestore.Store
}

var _ Graph = (*Manager)(nil)

// New creates the per-run facade.
func New(g *ExecutionGraph, ns nodestore.Store) *Manager {
	return &Manager{graph: g, state: ns}
}

// Node implements Graph.
func (m *Manager) Node(ctx context.Context, id string) (*node.Node, bool) {
	return m.graph.Node(ctx, id)
}

// AllNodes implements Graph.
func (m *Manager) AllNodes(ctx context.Context) []*node.Node {
	return m.graph.Nodes(ctx)
}

// Entries implements Graph.
func (m *Manager) Entries() []string {
	return m.graph.Entries()
}

// DependenciesOf implements Graph.
func (m *Manager) DependenciesOf(ctx context.Context, id string) ([]*node.Node, error) {
	ids, err := m.graph.topology.DependenciesOf(ctx, id)
	if err != nil {
		return nil, err
	}
	deps := make([]*node.Node, 0, len(ids))
	for _, depID := range ids {
		n, ok := m.graph.Node(ctx, depID)
		if !ok {
			return nil, fmt.Errorf("internal inconsistency: dependency %q of %q missing from topology", depID, id)
		}
		deps = append(deps, n)
	}
	return deps, nil
}

// Successors implements Graph.
func (m *Manager) Successors(id string) []string {
	return m.graph.Successors(id)
}

// Route implements Graph.
func (m *Manager) Route(id string) (ConditionalEdge, bool) {
	return m.graph.Route(id)
}

// NodeStatus implements Graph.
func (m *Manager) NodeStatus(ctx context.Context, id string) (node.Status, error) {
	return m.state.GetStatus(ctx, id)
}

// Activate implements Graph.
func (m *Manager) Activate(ctx context.Context, id string) error {
	if id == node.End {
		return nil
	}
	if _, ok := m.graph.Node(ctx, id); !ok {
		return &UnknownNodeError{ID: id, Where: "activation"}
	}
	ctxlog.FromContext(ctx).Debug("Node activated.", "node", id)
	return m.state.Activate(ctx, id)
}

// Activated implements Graph.
func (m *Manager) Activated(ctx context.Context, id string) (bool, error) {
	return m.state.Activated(ctx, id)
}

// MarkRunning implements Graph.
func (m *Manager) MarkRunning(ctx context.Context, id string) error {
	return m.transition(ctx, id, node.StatusPending, node.StatusRunning)
}

// MarkCompleted implements Graph.
func (m *Manager) MarkCompleted(ctx context.Context, id string, out node.Result) error {
	if err := m.transition(ctx, id, node.StatusRunning, node.StatusCompleted); err != nil {
		return err
	}
	return m.state.SetOutput(ctx, id, out)
}

// MarkFailed implements Graph.
func (m *Manager) MarkFailed(ctx context.Context, id string, nodeErr error) error {
	if err := m.transition(ctx, id, node.StatusRunning, node.StatusFailed); err != nil {
		return err
	}
	return m.state.SetError(ctx, id, nodeErr)
}

// MarkSkipped implements Graph.
func (m *Manager) MarkSkipped(ctx context.Context, id string) error {
	return m.transition(ctx, id, node.StatusPending, node.StatusSkipped)
}

func (m *Manager) transition(ctx context.Context, id string, from, to node.Status) error {
	current, err := m.state.GetStatus(ctx, id)
	if err != nil {
		return err
	}
	if current != from {
		return fmt.Errorf("node %q: cannot move from %s to %s", id, current, to)
	}
	ctxlog.FromContext(ctx).Debug("Node status changed.", "node", id, "from", from, "to", to)
	return m.state.SetStatus(ctx, id, to)
}
