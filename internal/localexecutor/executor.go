// Package localexecutor provides a concrete, in-process implementation of the
// executor.Executor interface. Nodes run one at a time on the caller's
// goroutine.
package localexecutor

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/executor"
	"github.com/specialistvlad/slotgraph/internal/graph"
	"github.com/specialistvlad/slotgraph/internal/instrument"
	"github.com/specialistvlad/slotgraph/internal/scheduler"
	"github.com/specialistvlad/slotgraph/internal/state"
)

// Executor implements executor.Executor for local, serialized execution. An
// Executor is bound to one run's graph facade and must not be reused.
type Executor struct {
	scheduler scheduler.Scheduler
	graph     graph.Graph
	wrapper   *instrument.Wrapper
	schema    state.Schema
}

var _ executor.Executor = (*Executor)(nil)

// New creates a new local executor.
func New(
	sch scheduler.Scheduler,
	g graph.Graph,
	w *instrument.Wrapper,
	schema state.Schema,
) *Executor {
	return &Executor{
		scheduler: sch,
		graph:     g,
		wrapper:   w,
		schema:    schema,
	}
}

// Execute implements executor.Executor. Cancellation of ctx is honoured
// between nodes; a running transform is never interrupted by the executor.
func (e *Executor) Execute(ctx context.Context, initial map[string]any) (state.Snapshot, error) {
	logger := ctxlog.FromContext(ctx)

	store, err := state.New(e.schema, initial)
	if err != nil {
		return state.Snapshot{}, &executor.ExecutionError{Err: fmt.Errorf("initial state: %w", err)}
	}
	abort := func(nodeID string, err error) (state.Snapshot, error) {
		snap := store.Snapshot()
		return snap, &executor.ExecutionError{Node: nodeID, State: snap, Err: err}
	}

	if err := e.scheduler.Start(ctx); err != nil {
		return abort("", err)
	}

	executed := 0
	for {
		if err := ctx.Err(); err != nil {
			logger.Warn("Run cancelled between nodes.", "executed", executed)
			return abort("", err)
		}

		n, err := e.scheduler.Next(ctx)
		if err != nil {
			return abort("", err)
		}
		if n == nil {
			break
		}

		if err := e.graph.MarkRunning(ctx, n.ID); err != nil {
			return abort(n.ID, err)
		}
		_, res, runErr := e.wrapper.Wrap(n)(ctx, store)
		if runErr != nil {
			if err := e.graph.MarkFailed(ctx, n.ID, runErr); err != nil {
				return abort(n.ID, errors.Join(runErr, err))
			}
			return abort(n.ID, &executor.NodeExecutionError{Node: n.ID, Err: runErr})
		}
		if err := e.graph.MarkCompleted(ctx, n.ID, res); err != nil {
			return abort(n.ID, err)
		}
		executed++

		if err := e.scheduler.Advance(ctx, n, store.Snapshot()); err != nil {
			return abort(n.ID, err)
		}
	}

	logger.Debug("All live nodes executed.", "executed", executed)
	return store.Snapshot(), nil
}
