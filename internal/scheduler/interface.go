package scheduler

import (
	"context"

	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/state"
)

// Scheduler analyses the graph and the per-run node status to pick the next
// node to execute.
//
// Usage by a serial executor:
//
//	sched.Start(ctx)
//	for {
//	    n, err := sched.Next(ctx)
//	    if err != nil || n == nil {
//	        break
//	    }
//	    // run n, merge its output
//	    sched.Advance(ctx, n, store.Snapshot())
//	}
type Scheduler interface {
	// Start activates the entry nodes. It must be called once per run.
	Start(ctx context.Context) error

	// Next prunes nodes on branches that were not taken and returns the
	// ready node with the lowest declaration index. It returns nil when no
	// node is ready.
	Next(ctx context.Context) (*node.Node, error)

	// Advance fires the edges leaving n after it completed. snap is the state
	// after n's output was merged; conditional edges are evaluated against it.
	// A branch key outside the declared set yields a *graph.RoutingError.
	Advance(ctx context.Context, n *node.Node, snap state.Snapshot) error
}
