package scheduler

import (
	"context"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/graph"
	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/state"
)

// DefaultScheduler is the reference implementation of Scheduler. It keeps no
// state of its own; everything lives in the graph facade.
type DefaultScheduler struct {
	graph graph.Graph
}

// New creates a scheduler for the given per-run graph.
func New(g graph.Graph) *DefaultScheduler {
	return &DefaultScheduler{graph: g}
}

var _ Scheduler = (*DefaultScheduler)(nil)

// Start implements Scheduler.
func (s *DefaultScheduler) Start(ctx context.Context) error {
	for _, id := range s.graph.Entries() {
		if err := s.graph.Activate(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Next implements Scheduler.
func (s *DefaultScheduler) Next(ctx context.Context) (*node.Node, error) {
	if err := s.prune(ctx); err != nil {
		return nil, err
	}

	for _, n := range s.graph.AllNodes(ctx) {
		ready, activated, err := s.inspect(ctx, n)
		if err != nil {
			return nil, err
		}
		if ready && activated {
			return n, nil
		}
	}
	return nil, nil
}

// prune skips pending nodes whose predecessors are all resolved but which
// were never activated, until no more nodes change.
func (s *DefaultScheduler) prune(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for {
		changed := false
		for _, n := range s.graph.AllNodes(ctx) {
			ready, activated, err := s.inspect(ctx, n)
			if err != nil {
				return err
			}
			if !ready || activated {
				continue
			}
			if err := s.graph.MarkSkipped(ctx, n.ID); err != nil {
				return err
			}
			logger.Debug("Skipping node on a branch that was not taken.", "node", n.ID)
			changed = true
		}
		if !changed {
			return nil
		}
	}
}

// inspect reports whether n is pending with all predecessors resolved, and
// whether any incoming edge fired.
func (s *DefaultScheduler) inspect(ctx context.Context, n *node.Node) (ready, activated bool, err error) {
	status, err := s.graph.NodeStatus(ctx, n.ID)
	if err != nil || status != node.StatusPending {
		return false, false, err
	}

	deps, err := s.graph.DependenciesOf(ctx, n.ID)
	if err != nil {
		return false, false, err
	}
	for _, dep := range deps {
		st, err := s.graph.NodeStatus(ctx, dep.ID)
		if err != nil {
			return false, false, err
		}
		if !st.Resolved() {
			return false, false, nil
		}
	}

	activated, err = s.graph.Activated(ctx, n.ID)
	return true, activated, err
}

// Advance implements Scheduler.
func (s *DefaultScheduler) Advance(ctx context.Context, n *node.Node, snap state.Snapshot) error {
	for _, next := range s.graph.Successors(n.ID) {
		if err := s.graph.Activate(ctx, next); err != nil {
			return err
		}
	}

	route, ok := s.graph.Route(n.ID)
	if !ok {
		return nil
	}
	target, err := route.Resolve(ctx, snap)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Conditional edge resolved.", "node", n.ID, "target", target)
	return s.graph.Activate(ctx, target)
}
