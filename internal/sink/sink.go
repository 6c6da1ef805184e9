// Package sink exports finished runs to external collaborators: an appended
// Markdown journal, a SQLite table and a socket.io event stream. Sinks see a
// run only after the executor returned; a sink failure never changes the run
// result.
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/instrument"
	"github.com/specialistvlad/slotgraph/internal/state"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is the exported view of one pipeline execution.
type Run struct {
	ID        string
	Pipeline  string
	StartedAt time.Time
	Duration  time.Duration
	// State is the final state, or the partial state of a failed run.
	State state.Snapshot
	Err   error
}

// Status reports "completed" or "failed".
func (r Run) Status() string {
	if r.Err != nil {
		return StatusFailed
	}
	return StatusCompleted
}

// Records returns the metric records accumulated under the metrics key.
func (r Run) Records() []instrument.Record {
	var out []instrument.Record
	for _, v := range r.State.List(state.MetricsKey) {
		if rec, ok := v.(instrument.Record); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Results returns every state entry except the metrics list.
func (r Run) Results() map[string]any {
	out := r.State.Map()
	delete(out, state.MetricsKey)
	return out
}

// Sink receives a finished run.
type Sink interface {
	Export(ctx context.Context, run Run) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, run Run) error

// Export implements Sink.
func (f SinkFunc) Export(ctx context.Context, run Run) error { return f(ctx, run) }

// Multi runs every sink in order and joins their errors.
type Multi []Sink

// Export implements Sink.
func (m Multi) Export(ctx context.Context, run Run) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error
	for i, s := range m {
		if err := s.Export(ctx, run); err != nil {
			logger.Error("Sink export failed.", "sink", fmt.Sprintf("%T", s), "index", i, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
