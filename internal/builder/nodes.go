package builder

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/slotgraph/internal/config"
	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/handlers"
	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/resource"
	"github.com/specialistvlad/slotgraph/internal/state"
)

func (b *Builder) buildNode(ctx context.Context, cn *config.Node, inputs []string) (*node.Node, error) {
	logger := ctxlog.FromContext(ctx).With("node", cn.Name, "transform", cn.Transform)

	h, ok := b.handlers.Get(cn.Transform)
	if !ok {
		return nil, &NodeError{Node: cn.Name, Kind: ErrUnknownTransform, Msg: fmt.Sprintf("unknown transform %q", cn.Transform)}
	}
	if h.NeedsResource && cn.Resource == "" {
		return nil, &NodeError{Node: cn.Name, Kind: ErrInvalidNode, Msg: fmt.Sprintf("transform %q needs a resource", cn.Transform)}
	}
	if h.NewInput == nil && len(cn.Arguments) > 0 {
		return nil, &NodeError{Node: cn.Name, Kind: ErrInvalidNode, Msg: fmt.Sprintf("transform %q takes no arguments", cn.Transform)}
	}
	if cn.Resource != "" && b.registry != nil {
		if _, ok := b.registry.Lookup(cn.Resource); !ok {
			return nil, fmt.Errorf("node %q: %w", cn.Name, &resource.NotFoundError{Name: cn.Resource})
		}
	}

	logger.Debug("Binding node to handler.", "resource", cn.Resource, "arguments", len(cn.Arguments))
	return &node.Node{
		ID:        cn.Name,
		Key:       cn.Key,
		Resource:  cn.Resource,
		Transform: b.bind(cn.Name, cn.Resource, cn.Arguments, inputs, h),
	}, nil
}

// bind returns the Transform that evaluates args and invokes h.
func (b *Builder) bind(id, res string, args map[string]hcl.Expression, inputs []string, h *handlers.RegisteredHandler) node.Transform {
	return func(ctx context.Context, snap state.Snapshot) (node.Result, error) {
		var input any
		if h.NewInput != nil {
			input = h.NewInput()
			if err := b.evaluator.DecodeArguments(ctx, args, snap, input); err != nil {
				return node.Result{}, fmt.Errorf("arguments: %w", err)
			}
		}
		return h.Fn(ctx, &handlers.Call{
			Node:      id,
			Resource:  res,
			Input:     input,
			Inputs:    inputs,
			State:     snap,
			Resources: b.resources,
			Out:       b.out,
		})
	}
}
