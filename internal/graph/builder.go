package graph

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/inmemorytopology"
	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/state"
	"github.com/specialistvlad/slotgraph/internal/topologystore"
)

// Builder collects graph declarations and compiles them. The zero value is
// not usable; call NewBuilder.
type Builder struct {
	topology topologystore.Store
	nodes    []*node.Node
	edges    []Edge
	routes   []ConditionalEdge
}

// NewBuilder returns a builder backed by an in-memory topology store.
func NewBuilder() *Builder {
	return &Builder{topology: inmemorytopology.New()}
}

// WithTopology replaces the topology store the graph is compiled into. The
// store must be empty.
func (b *Builder) WithTopology(ts topologystore.Store) *Builder {
	b.topology = ts
	return b
}

// AddNode declares a node. Declaration order is the scheduling tie-breaker.
func (b *Builder) AddNode(n *node.Node) *Builder {
	b.nodes = append(b.nodes, n)
	return b
}

// AddEdge declares that 'to' runs after 'from'.
func (b *Builder) AddEdge(from, to string) *Builder {
	b.edges = append(b.edges, Edge{From: from, To: to})
	return b
}

// AddConditionalEdge declares a conditional edge leaving 'from'.
func (b *Builder) AddConditionalEdge(from string, p Predicate, branches map[string]string) *Builder {
	b.routes = append(b.routes, ConditionalEdge{From: from, Predicate: p, Branches: branches})
	return b
}

// Compile validates the declarations and returns the execution graph.
func (b *Builder) Compile(ctx context.Context) (*ExecutionGraph, error) {
	return compile(ctx, b.topology, b.nodes, b.edges, b.routes)
}

// Compile validates the given declarations and returns an immutable graph.
func Compile(ctx context.Context, nodes []*node.Node, edges []Edge, routes []ConditionalEdge) (*ExecutionGraph, error) {
	return compile(ctx, inmemorytopology.New(), nodes, edges, routes)
}

func compile(
	ctx context.Context,
	ts topologystore.Store,
	nodes []*node.Node,
	edges []Edge,
	routes []ConditionalEdge,
) (*ExecutionGraph, error) {
	logger := ctxlog.FromContext(ctx)

	if len(nodes) == 0 {
		return nil, invalidf("graph has no nodes")
	}
	if len(ts.AllNodes(ctx)) != 0 {
		return nil, invalidf("topology store is not empty")
	}

	seen := make(map[string]struct{}, len(nodes))
	for _, decl := range nodes {
		if err := validateNode(decl); err != nil {
			return nil, err
		}
		if _, dup := seen[decl.ID]; dup {
			return nil, invalidf("duplicate node id %q", decl.ID)
		}
		seen[decl.ID] = struct{}{}

		// The store stamps the declaration index, so it gets a private copy.
		n := new(node.Node)
		*n = *decl
		if err := ts.AddNode(ctx, n); err != nil {
			if errors.Is(err, topologystore.ErrDuplicateNode) {
				return nil, invalidf("duplicate node id %q", n.ID)
			}
			return nil, fmt.Errorf("adding node %q: %w", n.ID, err)
		}
	}

	declared := func(id string) bool {
		_, ok := ts.GetNode(ctx, id)
		return ok
	}

	g := &ExecutionGraph{
		topology: ts,
		next:     make(map[string][]string),
		routes:   make(map[string]ConditionalEdge),
	}

	var startTargets []string
	for _, e := range edges {
		where := fmt.Sprintf("edge %q -> %q", e.From, e.To)
		switch {
		case e.To == node.Start:
			return nil, invalidf("%s: START cannot be an edge target", where)
		case e.From == node.End:
			return nil, invalidf("%s: END cannot be an edge source", where)
		case e.From == node.Start && e.To == node.End:
			return nil, invalidf("%s: edge connects the sentinels directly", where)
		}
		if e.From != node.Start && !declared(e.From) {
			return nil, &UnknownNodeError{ID: e.From, Where: where}
		}
		if e.To != node.End && !declared(e.To) {
			return nil, &UnknownNodeError{ID: e.To, Where: where}
		}

		switch {
		case e.From == node.Start:
			if !slices.Contains(startTargets, e.To) {
				startTargets = append(startTargets, e.To)
			}
		case e.To == node.End:
			// Explicit terminal edge; sinks reach END implicitly anyway.
		default:
			if err := ts.AddDependency(ctx, e.From, e.To); err != nil {
				return nil, fmt.Errorf("%s: %w", where, err)
			}
			if !slices.Contains(g.next[e.From], e.To) {
				g.next[e.From] = append(g.next[e.From], e.To)
			}
		}
	}

	for _, r := range routes {
		where := fmt.Sprintf("conditional edge from %q", r.From)
		if r.From == node.Start || r.From == node.End {
			return nil, invalidf("%s: sentinels cannot route", where)
		}
		if !declared(r.From) {
			return nil, &UnknownNodeError{ID: r.From, Where: where}
		}
		if _, dup := g.routes[r.From]; dup {
			return nil, invalidf("%s: node already has a conditional edge", where)
		}
		if r.Predicate == nil {
			return nil, invalidf("%s: predicate is nil", where)
		}
		if len(r.Branches) == 0 {
			return nil, invalidf("%s: no branches declared", where)
		}
		for _, key := range r.Keys() {
			target := r.Branches[key]
			if key == "" {
				return nil, invalidf("%s: empty branch key", where)
			}
			if target == node.Start {
				return nil, invalidf("%s: branch %q targets START", where, key)
			}
			if target == node.End {
				continue
			}
			if !declared(target) {
				return nil, &UnknownNodeError{ID: target, Where: fmt.Sprintf("%s, branch %q", where, key)}
			}
			if err := ts.AddDependency(ctx, r.From, target); err != nil {
				return nil, fmt.Errorf("%s: %w", where, err)
			}
		}
		g.routes[r.From] = r
	}

	order, err := topologicalOrder(ctx, ts)
	if err != nil {
		return nil, err
	}
	g.order = order

	entries, err := entryNodes(ctx, ts, startTargets)
	if err != nil {
		return nil, err
	}
	g.entries = entries

	if err := checkReachable(ctx, ts, entries); err != nil {
		return nil, err
	}

	logger.Debug("Execution graph compiled.",
		"nodes", len(order), "entries", entries, "routes", len(g.routes))
	return g, nil
}

func validateNode(n *node.Node) error {
	if n == nil {
		return invalidf("nil node")
	}
	if n.ID == "" {
		return invalidf("node with empty id")
	}
	if node.IsSentinel(n.ID) {
		return invalidf("node id %q is reserved", n.ID)
	}
	if n.Transform == nil {
		return invalidf("node %q has no transform", n.ID)
	}
	if state.IsReserved(n.OutputKey()) {
		return invalidf("node %q writes reserved state key %q", n.ID, n.OutputKey())
	}
	return nil
}

// topologicalOrder runs Kahn's algorithm, always taking the ready node with
// the lowest declaration index.
func topologicalOrder(ctx context.Context, ts topologystore.Store) ([]string, error) {
	all := ts.AllNodes(ctx)
	indegree := make(map[string]int, len(all))
	for _, n := range all {
		deps, err := ts.DependenciesOf(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		indegree[n.ID] = len(deps)
	}

	order := make([]string, 0, len(all))
	placed := make(map[string]bool, len(all))
	for len(order) < len(all) {
		next := ""
		for _, n := range all {
			if !placed[n.ID] && indegree[n.ID] == 0 {
				next = n.ID
				break
			}
		}
		if next == "" {
			var rest []string
			for _, n := range all {
				if !placed[n.ID] {
					rest = append(rest, n.ID)
				}
			}
			return nil, &CycleError{Nodes: rest}
		}
		placed[next] = true
		order = append(order, next)

		dependents, err := ts.DependentsOf(ctx, next)
		if err != nil {
			return nil, err
		}
		for _, d := range dependents {
			indegree[d]--
		}
	}
	return order, nil
}

func entryNodes(ctx context.Context, ts topologystore.Store, startTargets []string) ([]string, error) {
	if len(startTargets) > 0 {
		slices.SortFunc(startTargets, func(a, b string) int {
			na, _ := ts.GetNode(ctx, a)
			nb, _ := ts.GetNode(ctx, b)
			return na.Index() - nb.Index()
		})
		return startTargets, nil
	}

	var entries []string
	for _, n := range ts.AllNodes(ctx) {
		deps, err := ts.DependenciesOf(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		if len(deps) == 0 {
			entries = append(entries, n.ID)
		}
	}
	if len(entries) == 0 {
		return nil, invalidf("graph has no entry node")
	}
	return entries, nil
}

func checkReachable(ctx context.Context, ts topologystore.Store, entries []string) error {
	seen := make(map[string]bool)
	queue := slices.Clone(entries)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		dependents, err := ts.DependentsOf(ctx, id)
		if err != nil {
			return err
		}
		queue = append(queue, dependents...)
	}

	var missing []string
	for _, n := range ts.AllNodes(ctx) {
		if !seen[n.ID] {
			missing = append(missing, n.ID)
		}
	}
	if len(missing) > 0 {
		return unreachable(missing)
	}
	return nil
}
