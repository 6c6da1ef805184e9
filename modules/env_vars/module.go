// Package env_vars provides the `env_vars` transform, which copies process
// environment variables into state.
package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/specialistvlad/slotgraph/internal/handlers"
	"github.com/specialistvlad/slotgraph/internal/node"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input selects variables by exact name or by prefix. With neither set the
// whole environment is returned.
type Input struct {
	Names  []string `cty:"names,optional"`
	Prefix string   `cty:"prefix,optional"`
}

// OnRunEnvVars is the handler for the 'env_vars' transform.
func OnRunEnvVars(_ context.Context, call *handlers.Call) (node.Result, error) {
	input := call.Input.(*Input)
	envMap := make(map[string]any)

	for _, name := range input.Names {
		if v, ok := os.LookupEnv(name); ok {
			envMap[name] = v
		}
	}
	if len(input.Names) == 0 || input.Prefix != "" {
		for _, e := range os.Environ() {
			pair := strings.SplitN(e, "=", 2)
			if len(pair) == 2 && strings.HasPrefix(pair[0], input.Prefix) {
				envMap[pair[0]] = pair[1]
			}
		}
	}

	return node.Result{Value: envMap}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("env_vars", &handlers.RegisteredHandler{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunEnvVars,
	})
}
