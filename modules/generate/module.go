// Package generate provides the `generate` transform: it makes the node's
// resource resident and asks it to generate text for a prompt.
package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/handlers"
	"github.com/specialistvlad/slotgraph/internal/node"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the arguments for the transform.
type Input struct {
	Prompt string         `cty:"prompt"`
	Params map[string]any `cty:"params,optional"`
}

// OnRunGenerate is the handler for the 'generate' transform.
func OnRunGenerate(ctx context.Context, call *handlers.Call) (node.Result, error) {
	input := call.Input.(*Input)
	logger := ctxlog.FromContext(ctx).With("transform", "generate", "resource", call.Resource)

	if call.Resources == nil {
		return node.Result{}, errors.New("no resource manager configured")
	}
	handle, err := call.Resources.Load(ctx, call.Resource)
	if err != nil {
		return node.Result{}, err
	}

	logger.Debug("Generating.", "prompt_chars", len(input.Prompt))
	text, units, err := handle.Generate(ctx, input.Prompt, input.Params)
	if err != nil {
		return node.Result{}, fmt.Errorf("generate with %s: %w", handle.Name(), err)
	}
	logger.Info("Generated text.", "units", units, "strategy", handle.Strategy)
	return node.Result{Value: text, Units: units}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("generate", &handlers.RegisteredHandler{
		NewInput:      func() any { return new(Input) },
		NeedsResource: true,
		Fn:            OnRunGenerate,
	})
}
