// Package report provides the `report` transform, which aggregates the
// analysis content in state into a text report.
package report

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/handlers"
	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/report"
)

// Module implements the handlers.Module interface for this package.
type Module struct {
	// Now stamps the report. Nil means time.Now.
	Now func() time.Time
}

// Input defines the arguments for the transform.
type Input struct {
	Exclude []string `cty:"exclude,optional"`
	Print   bool     `cty:"print,optional"`
}

func (m *Module) run(ctx context.Context, call *handlers.Call) (node.Result, error) {
	input := call.Input.(*Input)
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	exclude := append(slices.Clone(call.Inputs), input.Exclude...)
	sections := report.NewDefault(exclude...).Aggregate(call.State)
	text := report.Render(sections, call.State.Keys(), now())
	ctxlog.FromContext(ctx).Info("Report aggregated.", "sections", len(sections))

	if input.Print && call.Out != nil {
		if _, err := fmt.Fprintln(call.Out, text); err != nil {
			return node.Result{}, fmt.Errorf("print report: %w", err)
		}
	}
	return node.Result{Value: text}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("report", &handlers.RegisteredHandler{
		NewInput: func() any { return new(Input) },
		Fn:       m.run,
	})
}
