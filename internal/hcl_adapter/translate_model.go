// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/slotgraph/internal/config"
	"github.com/specialistvlad/slotgraph/internal/ctxlog"
)

// translateState converts the HCL-specific state schema into the agnostic model.
func (l *Loader) translateState(ctx context.Context, s *StateBlock) *config.StateKey {
	key := &config.StateKey{Name: s.Name, Policy: s.Policy}
	if isExprDefined(ctx, s.Initial, "initial") {
		key.Initial = s.Initial
	}
	return key
}

// translateNode converts the HCL-specific node schema into the agnostic model.
func (l *Loader) translateNode(ctx context.Context, n *NodeBlock) (*config.Node, error) {
	logger := ctxlog.FromContext(ctx).With("node", n.Name, "transform", n.Transform)
	logger.Debug("Translating HCL node to internal config model.")

	args, diags := extractBodyAttributes(n.Arguments)
	if diags.HasErrors() {
		return nil, fmt.Errorf("node %q arguments: %w", n.Name, diags)
	}

	return &config.Node{
		Name:      n.Name,
		Transform: n.Transform,
		Resource:  n.Resource,
		Key:       n.Key,
		Arguments: args,
		DependsOn: n.DependsOn,
	}, nil
}

// translateRoute converts the HCL-specific route schema into the agnostic model.
// A route without a condition is rejected here so it never reaches a run.
func (l *Loader) translateRoute(ctx context.Context, r *RouteBlock) (*config.Route, error) {
	if !isExprDefined(ctx, r.Condition, "condition") {
		return nil, fmt.Errorf("route %q: missing required argument \"condition\"", r.From)
	}
	branches := make(map[string]string, len(r.Branches))
	for k, v := range r.Branches {
		branches[k] = v
	}
	return &config.Route{
		From:      r.From,
		Condition: r.Condition,
		Branches:  branches,
	}, nil
}
