package inmemorytopology

import (
	"context"
	"testing"

	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/topologystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndGetNode(t *testing.T) {
	s := New()
	ctx := context.Background()
	testNode := &node.Node{ID: "analyst"}

	require.NoError(t, s.AddNode(ctx, testNode))

	retrieved, ok := s.GetNode(ctx, "analyst")
	require.True(t, ok)
	assert.Same(t, testNode, retrieved)

	_, ok = s.GetNode(ctx, "missing")
	assert.False(t, ok)
}

func TestAddNode_AssignsDeclarationIndex(t *testing.T) {
	s := New()
	ctx := context.Background()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		require.NoError(t, s.AddNode(ctx, &node.Node{ID: id}))
	}

	all := s.AllNodes(ctx)
	require.Len(t, all, 3)
	for i, n := range all {
		assert.Equal(t, ids[i], n.ID)
		assert.Equal(t, i, n.Index())
	}
}

func TestAddNode_Duplicate(t *testing.T) {
	ctx := context.Background()
	first := &node.Node{ID: "a"}

	testCases := []struct {
		name string
		dup  *node.Node
	}{
		{name: "same pointer", dup: first},
		{name: "different node same id", dup: &node.Node{ID: "a"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New()
			require.NoError(t, s.AddNode(ctx, first))

			err := s.AddNode(ctx, tc.dup)
			assert.ErrorIs(t, err, topologystore.ErrDuplicateNode)
			assert.Len(t, s.AllNodes(ctx), 1)
			assert.Equal(t, 0, first.Index())
		})
	}
}

func TestDependencies(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, id := range []string{"fetch", "parse", "merge", "report"} {
		require.NoError(t, s.AddNode(ctx, &node.Node{ID: id}))
	}

	require.NoError(t, s.AddDependency(ctx, "parse", "report"))
	require.NoError(t, s.AddDependency(ctx, "fetch", "report"))
	require.NoError(t, s.AddDependency(ctx, "fetch", "merge"))
	require.NoError(t, s.AddDependency(ctx, "fetch", "merge"))

	deps, err := s.DependenciesOf(ctx, "report")
	require.NoError(t, err)
	assert.Equal(t, []string{"fetch", "parse"}, deps, "sorted by declaration index")

	dependents, err := s.DependentsOf(ctx, "fetch")
	require.NoError(t, err)
	assert.Equal(t, []string{"merge", "report"}, dependents)

	deps, err = s.DependenciesOf(ctx, "fetch")
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestDependencies_UnknownNode(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddNode(ctx, &node.Node{ID: "a"}))

	err := s.AddDependency(ctx, "a", "ghost")
	assert.ErrorIs(t, err, topologystore.ErrNodeNotFound)

	err = s.AddDependency(ctx, "ghost", "a")
	assert.ErrorIs(t, err, topologystore.ErrNodeNotFound)

	_, err = s.DependenciesOf(ctx, "ghost")
	assert.ErrorIs(t, err, topologystore.ErrNodeNotFound)

	_, err = s.DependentsOf(ctx, "ghost")
	assert.ErrorIs(t, err, topologystore.ErrNodeNotFound)
}
