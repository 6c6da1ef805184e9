// Package print provides the `print` transform, which writes a value to the
// run's output and passes the rendered text on.
package print

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/handlers"
	"github.com/specialistvlad/slotgraph/internal/node"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the arguments for the print transform.
type Input struct {
	Value any    `cty:"value"`
	Label string `cty:"label,optional"`
}

// OnRunPrint is the handler for the 'print' transform.
func OnRunPrint(ctx context.Context, call *handlers.Call) (node.Result, error) {
	input := call.Input.(*Input)
	ctxlog.FromContext(ctx).Info("Printing input", "node", call.Node)

	var b strings.Builder
	if input.Label != "" {
		fmt.Fprintf(&b, "%s:\n", input.Label)
	}
	render(&b, input.Value)

	text := b.String()
	if call.Out != nil {
		if _, err := fmt.Fprint(call.Out, text); err != nil {
			return node.Result{}, err
		}
	}
	return node.Result{Value: strings.TrimRight(text, "\n")}, nil
}

func render(b *strings.Builder, v any) {
	switch val := v.(type) {
	case nil:
		b.WriteString("      (null)\n")
	case map[string]any:
		// Sort keys for consistent output
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, "      %s = %v\n", k, val[k])
		}
	case string:
		b.WriteString(val)
		b.WriteString("\n")
	default:
		fmt.Fprintf(b, "%v\n", val)
	}
}

// Register registers the handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("print", &handlers.RegisteredHandler{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunPrint,
	})
}
