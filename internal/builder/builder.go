package builder

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/specialistvlad/slotgraph/internal/config"
	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/graph"
	"github.com/specialistvlad/slotgraph/internal/handlers"
	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/resource"
	"github.com/specialistvlad/slotgraph/internal/state"
)

// Pipeline is a built model, ready to compile and run.
type Pipeline struct {
	Name    string
	Nodes   []*node.Node
	Edges   []graph.Edge
	Routes  []graph.ConditionalEdge
	Schema  state.Schema
	Initial map[string]any
}

// Compile validates the pipeline structure and returns its execution graph.
func (p *Pipeline) Compile(ctx context.Context) (*graph.ExecutionGraph, error) {
	return graph.Compile(ctx, p.Nodes, p.Edges, p.Routes)
}

// Option configures a Builder.
type Option func(*Builder)

// WithResources sets the loader handed to handlers.
func WithResources(l handlers.ResourceLoader) Option {
	return func(b *Builder) { b.resources = l }
}

// WithRegistry enables build-time checks of node resource names.
func WithRegistry(r *resource.Registry) Option {
	return func(b *Builder) { b.registry = r }
}

// WithInputKeys names keys the caller will seed each run with. Together with
// the declared initial values they are reported to handlers as Call.Inputs.
func WithInputKeys(keys ...string) Option {
	return func(b *Builder) { b.inputKeys = append(b.inputKeys, keys...) }
}

// WithOutput sets the writer handed to handlers that print.
func WithOutput(w io.Writer) Option {
	return func(b *Builder) { b.out = w }
}

// Builder builds pipelines from config models.
type Builder struct {
	handlers  *handlers.Handlers
	evaluator config.Evaluator
	resources handlers.ResourceLoader
	registry  *resource.Registry
	out       io.Writer
	inputKeys []string
}

// New creates a builder resolving transforms from h and evaluating
// expressions with ev.
func New(h *handlers.Handlers, ev config.Evaluator, opts ...Option) *Builder {
	b := &Builder{handlers: h, evaluator: ev, out: os.Stdout}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build converts the model into a Pipeline. It does not compile the graph.
func (b *Builder) Build(ctx context.Context, m *config.Model) (*Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building pipeline from config model.", "source", m.Source, "nodes", len(m.Nodes))

	p := &Pipeline{Name: m.Source}

	schema, initial, err := b.buildState(ctx, m.State)
	if err != nil {
		return nil, err
	}
	p.Schema, p.Initial = schema, initial
	inputs := inputKeys(initial, b.inputKeys)

	for _, cn := range m.Nodes {
		n, err := b.buildNode(ctx, cn, inputs)
		if err != nil {
			return nil, err
		}
		p.Nodes = append(p.Nodes, n)
	}

	p.Edges = buildEdges(m)
	for _, r := range m.Routes {
		ce, err := b.buildRoute(r)
		if err != nil {
			return nil, err
		}
		p.Routes = append(p.Routes, ce)
	}

	logger.Debug("Pipeline built.", "nodes", len(p.Nodes), "edges", len(p.Edges), "routes", len(p.Routes))
	return p, nil
}

func (b *Builder) buildState(ctx context.Context, keys []*config.StateKey) (state.Schema, map[string]any, error) {
	schema := make(state.Schema, len(keys))
	initial := make(map[string]any)
	for _, k := range keys {
		if _, dup := schema[k.Name]; dup {
			return nil, nil, fmt.Errorf("state key %q declared twice", k.Name)
		}
		if state.IsReserved(k.Name) {
			return nil, nil, fmt.Errorf("state key %q is reserved", k.Name)
		}
		policy, err := state.ParsePolicy(k.Policy)
		if err != nil {
			return nil, nil, fmt.Errorf("state key %q: %w", k.Name, err)
		}
		schema[k.Name] = policy

		if k.Initial == nil {
			continue
		}
		v, err := b.evaluator.Evaluate(ctx, k.Initial, state.Snapshot{})
		if err != nil {
			return nil, nil, fmt.Errorf("state key %q initial value: %w", k.Name, err)
		}
		initial[k.Name] = v
	}
	return schema, initial, nil
}

// inputKeys is the sorted union of the declared initial keys and extra.
func inputKeys(initial map[string]any, extra []string) []string {
	keys := slices.Collect(maps.Keys(initial))
	for _, k := range extra {
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// buildEdges turns depends_on lists and edge blocks into graph edges,
// without duplicates, in declaration order.
func buildEdges(m *config.Model) []graph.Edge {
	var edges []graph.Edge
	add := func(e graph.Edge) {
		if !slices.Contains(edges, e) {
			edges = append(edges, e)
		}
	}
	for _, n := range m.Nodes {
		for _, dep := range n.DependsOn {
			add(graph.Edge{From: dep, To: n.Name})
		}
	}
	for _, e := range m.Edges {
		add(graph.Edge{From: e.From, To: e.To})
	}
	return edges
}

func (b *Builder) buildRoute(r *config.Route) (graph.ConditionalEdge, error) {
	if r.Condition == nil {
		return graph.ConditionalEdge{}, fmt.Errorf("route from %q has no condition", r.From)
	}
	cond := r.Condition
	ev := b.evaluator
	return graph.ConditionalEdge{
		From: r.From,
		Predicate: func(ctx context.Context, snap state.Snapshot) (string, error) {
			return ev.EvaluateKey(ctx, cond, snap)
		},
		Branches: r.Branches,
	}, nil
}
