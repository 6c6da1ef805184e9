package instrument

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/state"
)

// Logging logs the start and outcome of every node with the logger from ctx.
func Logging() Middleware {
	return func(next Invocation) Invocation {
		return func(ctx context.Context, n *node.Node, snap state.Snapshot) (Record, node.Result, error) {
			logger := ctxlog.FromContext(ctx).With("node", n.ID, "resource", n.ResourceID())
			logger.Info("Node started.")

			rec, res, err := next(ctx, n, snap)
			if err != nil {
				logger.Error("Node failed.", "duration_sec", rec.DurationSec, "error", err)
				return rec, res, err
			}
			logger.Info("Node finished.",
				"duration_sec", rec.DurationSec,
				"units", rec.Units,
				"throughput", rec.Throughput,
				"allocated_mb", rec.ResourceUsage.AllocatedMB,
			)
			return rec, res, nil
		}
	}
}

// Recorder receives node observations. *metrics.Registry implements it.
type Recorder interface {
	RecordNode(node, resource, status string, duration time.Duration, units int, throughput float64)
	RecordUsage(allocatedMB, reservedMB float64)
}

// Observe reports every node outcome to rec.
func Observe(r Recorder) Middleware {
	return func(next Invocation) Invocation {
		return func(ctx context.Context, n *node.Node, snap state.Snapshot) (Record, node.Result, error) {
			rec, res, err := next(ctx, n, snap)
			duration := time.Duration(rec.DurationSec * float64(time.Second))
			if err != nil {
				r.RecordNode(n.ID, rec.Resource, node.StatusFailed.String(), duration, 0, 0)
				return rec, res, err
			}
			r.RecordNode(n.ID, rec.Resource, node.StatusCompleted.String(), duration, rec.Units, rec.Throughput)
			r.RecordUsage(rec.ResourceUsage.AllocatedMB, rec.ResourceUsage.ReservedMB)
			return rec, res, nil
		}
	}
}

// PanicError is returned when a transform panics.
type PanicError struct {
	Node  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("node %q panicked: %v", e.Node, e.Value)
}

// Recover turns a panicking transform into a *PanicError.
func Recover() Middleware {
	return func(next Invocation) Invocation {
		return func(ctx context.Context, n *node.Node, snap state.Snapshot) (rec Record, res node.Result, err error) {
			defer func() {
				if r := recover(); r != nil {
					rec = Record{Node: n.ID, Resource: n.ResourceID()}
					res = node.Result{}
					err = &PanicError{Node: n.ID, Value: r, Stack: debug.Stack()}
				}
			}()
			return next(ctx, n, snap)
		}
	}
}
