package scheduler

import (
	"context"
	"testing"

	"github.com/specialistvlad/slotgraph/internal/graph"
	"github.com/specialistvlad/slotgraph/internal/inmemorystore"
	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, state.Snapshot) (node.Result, error) {
	return node.Result{}, nil
}

func nodes(ids ...string) []*node.Node {
	out := make([]*node.Node, len(ids))
	for i, id := range ids {
		out[i] = &node.Node{ID: id, Transform: noop}
	}
	return out
}

// drive runs the scheduling loop without executing transforms and returns the
// order in which nodes were handed out.
func drive(t *testing.T, g graph.Graph, snap state.Snapshot) ([]string, error) {
	t.Helper()
	ctx := context.Background()
	s := New(g)
	require.NoError(t, s.Start(ctx))

	var order []string
	for {
		n, err := s.Next(ctx)
		if err != nil {
			return order, err
		}
		if n == nil {
			return order, nil
		}
		order = append(order, n.ID)
		require.NoError(t, g.MarkRunning(ctx, n.ID))
		require.NoError(t, g.MarkCompleted(ctx, n.ID, node.Result{}))
		if err := s.Advance(ctx, n, snap); err != nil {
			return order, err
		}
	}
}

func compile(t *testing.T, ns []*node.Node, edges []graph.Edge, routes []graph.ConditionalEdge) graph.Graph {
	t.Helper()
	eg, err := graph.Compile(context.Background(), ns, edges, routes)
	require.NoError(t, err)
	return graph.New(eg, inmemorystore.New())
}

func currencyRoute() graph.ConditionalEdge {
	return graph.ConditionalEdge{
		From: "calc_total",
		Predicate: func(_ context.Context, snap state.Snapshot) (string, error) {
			v, _ := snap.String("target_currency")
			return v, nil
		},
		Branches: map[string]string{"INR": "convert_to_inr", "EUR": "convert_to_eur"},
	}
}

func TestScheduler_LinearChain(t *testing.T) {
	g := compile(t, nodes("A", "B", "C"), []graph.Edge{
		{From: node.Start, To: "A"}, {From: "A", To: "B"}, {From: "B", To: "C"}, {From: "C", To: node.End},
	}, nil)

	order, err := drive(t, g, state.NewSnapshot(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, order)
}

func TestScheduler_FanOutRunsInDeclarationOrder(t *testing.T) {
	// C is declared before B, so it runs first even though both are ready.
	g := compile(t, nodes("A", "C", "B", "D"), []graph.Edge{
		{From: "A", To: "B"}, {From: "A", To: "C"}, {From: "B", To: "D"}, {From: "C", To: "D"},
	}, nil)

	order, err := drive(t, g, state.NewSnapshot(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B", "D"}, order)
}

func TestScheduler_FanInWaitsForAllPredecessors(t *testing.T) {
	// join is declared early but must wait for both slow branches.
	g := compile(t, nodes("root", "join", "left", "left2", "right"), []graph.Edge{
		{From: "root", To: "left"}, {From: "left", To: "left2"}, {From: "root", To: "right"},
		{From: "left2", To: "join"}, {From: "right", To: "join"},
	}, nil)

	order, err := drive(t, g, state.NewSnapshot(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "left", "left2", "right", "join"}, order)
}

func TestScheduler_ConditionalBranchPrunesOtherBranch(t *testing.T) {
	ns := nodes("calc_total", "convert_to_inr", "convert_to_eur", "format")
	edges := []graph.Edge{
		{From: "convert_to_inr", To: "format"},
		{From: "convert_to_eur", To: "format"},
	}
	g := compile(t, ns, edges, []graph.ConditionalEdge{currencyRoute()})

	order, err := drive(t, g, state.NewSnapshot(map[string]any{"target_currency": "EUR"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"calc_total", "convert_to_eur", "format"}, order)

	status, err := g.NodeStatus(context.Background(), "convert_to_inr")
	require.NoError(t, err)
	assert.Equal(t, node.StatusSkipped, status)
}

func TestScheduler_PruningPropagatesDownstream(t *testing.T) {
	ns := nodes("calc_total", "convert_to_inr", "convert_to_eur", "inr_audit")
	edges := []graph.Edge{{From: "convert_to_inr", To: "inr_audit"}}
	g := compile(t, ns, edges, []graph.ConditionalEdge{currencyRoute()})

	order, err := drive(t, g, state.NewSnapshot(map[string]any{"target_currency": "EUR"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"calc_total", "convert_to_eur"}, order)

	for _, id := range []string{"convert_to_inr", "inr_audit"} {
		status, err := g.NodeStatus(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, node.StatusSkipped, status, id)
	}
}

func TestScheduler_RouteToEnd(t *testing.T) {
	route := currencyRoute()
	route.Branches["NONE"] = node.End
	g := compile(t, nodes("calc_total", "convert_to_inr", "convert_to_eur"), nil, []graph.ConditionalEdge{route})

	order, err := drive(t, g, state.NewSnapshot(map[string]any{"target_currency": "NONE"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"calc_total"}, order)
}

func TestScheduler_UnknownBranchKey(t *testing.T) {
	g := compile(t, nodes("calc_total", "convert_to_inr", "convert_to_eur"), nil, []graph.ConditionalEdge{currencyRoute()})

	order, err := drive(t, g, state.NewSnapshot(map[string]any{"target_currency": "USD"}))
	assert.Equal(t, []string{"calc_total"}, order)
	assert.ErrorIs(t, err, graph.ErrRouting)

	var routing *graph.RoutingError
	require.ErrorAs(t, err, &routing)
	assert.Equal(t, "USD", routing.Key)
}

func TestScheduler_NothingReadyWhilePredecessorRuns(t *testing.T) {
	ctx := context.Background()
	g := compile(t, nodes("A", "B"), []graph.Edge{{From: "A", To: "B"}}, nil)
	s := New(g)
	require.NoError(t, s.Start(ctx))

	n, err := s.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "A", n.ID)
	require.NoError(t, g.MarkRunning(ctx, "A"))

	n, err = s.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, n)
}
