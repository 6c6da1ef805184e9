// Package executor defines the interface for the execution engine and the
// errors a run can end with.
package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/slotgraph/internal/state"
)

// Executor runs a compiled graph once, from initial values to final state.
type Executor interface {
	// Execute runs every live node and returns the final state. On failure the
	// error is an *ExecutionError carrying the partial state.
	Execute(ctx context.Context, initial map[string]any) (state.Snapshot, error)
}

// ErrNodeFailed is the kind of NodeExecutionError.
var ErrNodeFailed = errors.New("node execution failed")

// NodeExecutionError wraps the error a node's transform returned.
type NodeExecutionError struct {
	Node string
	Err  error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("%s: node %q: %v", ErrNodeFailed, e.Node, e.Err)
}

func (e *NodeExecutionError) Unwrap() []error { return []error{ErrNodeFailed, e.Err} }

// ExecutionError aborts a run. State is the state accumulated up to the
// failure; Node is the node that was running or routing, if any.
type ExecutionError struct {
	Node  string
	State state.Snapshot
	Err   error
}

func (e *ExecutionError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("execution aborted: %v", e.Err)
	}
	return fmt.Sprintf("execution aborted at %q: %v", e.Node, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// PartialState extracts the partial state from a run error.
func PartialState(err error) (state.Snapshot, bool) {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.State, true
	}
	return state.Snapshot{}, false
}
