package instrument

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/state"
	"github.com/specialistvlad/slotgraph/internal/telemetry"
)

// Invocation runs one node against a snapshot and reports its record.
type Invocation func(ctx context.Context, n *node.Node, snap state.Snapshot) (Record, node.Result, error)

// Middleware decorates an Invocation.
type Middleware func(next Invocation) Invocation

// Step is a wrapped node ready for the executor.
type Step func(ctx context.Context, store *state.Store) (Record, node.Result, error)

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Wrapper) { w.now = now }
}

// WithSampler sets the resource usage sampler.
func WithSampler(p telemetry.Sampler) Option {
	return func(w *Wrapper) { w.sampler = p }
}

// WithMiddleware appends middleware. The first one added is the outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(w *Wrapper) { w.middleware = append(w.middleware, mw...) }
}

// Wrapper wraps nodes uniformly.
type Wrapper struct {
	now        func() time.Time
	sampler    telemetry.Sampler
	middleware []Middleware
}

// New creates a wrapper. Without options it uses time.Now, a zero usage
// sampler and no middleware.
func New(opts ...Option) *Wrapper {
	w := &Wrapper{
		now:     time.Now,
		sampler: telemetry.Nop,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Wrap returns the executable step for n.
func (w *Wrapper) Wrap(n *node.Node) Step {
	invoke := w.measure
	for i := len(w.middleware) - 1; i >= 0; i-- {
		invoke = w.middleware[i](invoke)
	}

	return func(ctx context.Context, store *state.Store) (Record, node.Result, error) {
		rec, res, err := invoke(ctx, n, store.Snapshot())
		if err != nil {
			return rec, node.Result{}, err
		}
		if err := store.Merge(n.OutputKey(), res.Value); err != nil {
			return rec, res, fmt.Errorf("merging output of %q: %w", n.ID, err)
		}
		if err := store.MergeReserved(state.MetricsKey, rec); err != nil {
			return rec, res, fmt.Errorf("recording metrics of %q: %w", n.ID, err)
		}
		return rec, res, nil
	}
}

// measure is the innermost invocation: it times the transform and builds the
// record.
func (w *Wrapper) measure(ctx context.Context, n *node.Node, snap state.Snapshot) (Record, node.Result, error) {
	start := w.now()
	res, err := n.Transform(ctx, snap)
	elapsed := w.now().Sub(start).Seconds()

	rec := Record{
		Node:        n.ID,
		Resource:    n.ResourceID(),
		DurationSec: round2(elapsed),
	}
	if err != nil {
		return rec, node.Result{}, err
	}

	rec.Units = res.Units
	if elapsed > 0 {
		rec.Throughput = round2(float64(res.Units) / elapsed)
	}
	rec.ResourceUsage = w.sampler.Snapshot(ctx)
	return rec, res, nil
}
