// Package value provides the `value` transform, which outputs its evaluated
// `value` argument. Arithmetic and routing steps are written with it.
package value

import (
	"context"

	"github.com/specialistvlad/slotgraph/internal/handlers"
	"github.com/specialistvlad/slotgraph/internal/node"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the arguments for the transform.
type Input struct {
	Value any `cty:"value"`
}

// OnRunValue is the handler for the 'value' transform.
func OnRunValue(_ context.Context, call *handlers.Call) (node.Result, error) {
	return node.Result{Value: call.Input.(*Input).Value}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("value", &handlers.RegisteredHandler{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunValue,
	})
}
