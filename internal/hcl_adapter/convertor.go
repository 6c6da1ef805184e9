package hcl_adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/slotgraph/internal/config"
	"github.com/specialistvlad/slotgraph/internal/state"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// stateVar is the single variable exposed to pipeline expressions.
const stateVar = "state"

// Converter is the HCL-specific implementation of the config.Evaluator interface.
type Converter struct {
	functions map[string]function.Function
}

var _ config.Evaluator = (*Converter)(nil)

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{functions: map[string]function.Function{
		"upper":      stdlib.UpperFunc,
		"lower":      stdlib.LowerFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"format":     stdlib.FormatFunc,
		"join":       stdlib.JoinFunc,
		"length":     stdlib.LengthFunc,
		"concat":     stdlib.ConcatFunc,
		"coalesce":   stdlib.CoalesceFunc,
		"max":        stdlib.MaxFunc,
		"min":        stdlib.MinFunc,
		"jsonencode": stdlib.JSONEncodeFunc,
	}}
}

// ToCtyValue converts a state snapshot into a cty object. Values travel
// through JSON, so anything that marshals to JSON is visible to expressions.
func (c *Converter) ToCtyValue(snap state.Snapshot) (cty.Value, error) {
	values := snap.Map()
	if len(values) == 0 {
		return cty.EmptyObjectVal, nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return cty.NilVal, fmt.Errorf("state is not JSON-encodable: %w", err)
	}
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type of state: %w", err)
	}
	return ctyjson.Unmarshal(raw, ty)
}

func (c *Converter) evalContext(snap state.Snapshot) (*hcl.EvalContext, error) {
	val, err := c.ToCtyValue(snap)
	if err != nil {
		return nil, err
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{stateVar: val},
		Functions: c.functions,
	}, nil
}

func (c *Converter) value(expr hcl.Expression, snap state.Snapshot) (cty.Value, error) {
	if expr == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	evalCtx, err := c.evalContext(snap)
	if err != nil {
		return cty.NilVal, err
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return val, nil
}

// Evaluate implements config.Evaluator.
func (c *Converter) Evaluate(_ context.Context, expr hcl.Expression, snap state.Snapshot) (any, error) {
	val, err := c.value(expr, snap)
	if err != nil {
		return nil, err
	}
	return ctyToNative(val)
}

// EvaluateKey evaluates expr and converts the result to a string, the way
// route conditions are matched against branch keys.
func (c *Converter) EvaluateKey(_ context.Context, expr hcl.Expression, snap state.Snapshot) (string, error) {
	val, err := c.value(expr, snap)
	if err != nil {
		return "", err
	}
	if val.IsNull() || !val.IsKnown() {
		return "", fmt.Errorf("condition evaluated to null")
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("condition of type %s is not a branch key: %w", val.Type().FriendlyName(), err)
	}
	return str.AsString(), nil
}
