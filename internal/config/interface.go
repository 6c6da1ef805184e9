package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/slotgraph/internal/state"
)

// Loader is the interface for a format-specific pipeline loader.
type Loader interface {
	// Load reads configuration from the given paths, translates it into the
	// format-agnostic model, and returns a matching Evaluator.
	Load(ctx context.Context, paths ...string) (*Model, Evaluator, error)
}

// Evaluator evaluates configuration expressions at run time. It is the
// bridge between raw expressions and the Go values handlers work with.
type Evaluator interface {
	// Evaluate returns the native Go value of expr with the snapshot bound
	// as the `state` variable.
	Evaluate(ctx context.Context, expr hcl.Expression, snap state.Snapshot) (any, error)

	// EvaluateKey evaluates expr and renders the result as a branch key.
	EvaluateKey(ctx context.Context, expr hcl.Expression, snap state.Snapshot) (string, error)

	// DecodeArguments evaluates every argument against snap and decodes the
	// results into target, a pointer to a struct with `cty` field tags.
	DecodeArguments(ctx context.Context, args map[string]hcl.Expression, snap state.Snapshot, target any) error
}
