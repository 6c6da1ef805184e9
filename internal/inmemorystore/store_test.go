package inmemorystore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetStatus(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Unknown nodes are pending.
	status, err := s.GetStatus(ctx, "analyst")
	require.NoError(t, err)
	assert.Equal(t, node.StatusPending, status)

	require.NoError(t, s.SetStatus(ctx, "analyst", node.StatusRunning))

	status, err = s.GetStatus(ctx, "analyst")
	require.NoError(t, err)
	assert.Equal(t, node.StatusRunning, status)
}

func TestSetAndGetOutput(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, ok, err := s.GetOutput(ctx, "analyst")
	require.NoError(t, err)
	assert.False(t, ok)

	expected := node.Result{Value: "summary", Units: 42}
	require.NoError(t, s.SetOutput(ctx, "analyst", expected))

	got, ok, err := s.GetOutput(ctx, "analyst")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, expected, got)
}

func TestSetAndGetError(t *testing.T) {
	s := New()
	ctx := context.Background()

	retrievedErr, err := s.GetError(ctx, "analyst")
	require.NoError(t, err)
	assert.Nil(t, retrievedErr)

	expectedErr := errors.New("a test error occurred")
	require.NoError(t, s.SetError(ctx, "analyst", expectedErr))

	retrievedErr, err = s.GetError(ctx, "analyst")
	require.NoError(t, err)
	assert.Equal(t, expectedErr, retrievedErr)
}

func TestActivation(t *testing.T) {
	s := New()
	ctx := context.Background()

	ok, err := s.Activated(ctx, "convert_to_eur")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Activate(ctx, "convert_to_eur"))
	require.NoError(t, s.Activate(ctx, "convert_to_eur"))

	ok, err = s.Activated(ctx, "convert_to_eur")
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestStore_ConcurrentAccess verifies that the store can be safely accessed by
// multiple goroutines simultaneously without data races or lost writes.
func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()
	numGoroutines := 100
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("node_%d", i)
			s.SetStatus(ctx, id, node.StatusCompleted)
			s.SetOutput(ctx, id, node.Result{Value: i})
			s.SetError(ctx, id, fmt.Errorf("error for node %d", i))
			s.Activate(ctx, id)
		}(i)
	}
	wg.Wait()

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("node_%d", i)

			status, err := s.GetStatus(ctx, id)
			assert.NoError(t, err)
			assert.Equal(t, node.StatusCompleted, status, "mismatched status for node %d", i)

			output, ok, err := s.GetOutput(ctx, id)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, i, output.Value, "mismatched output for node %d", i)

			nodeErr, err := s.GetError(ctx, id)
			assert.NoError(t, err)
			assert.EqualError(t, nodeErr, fmt.Sprintf("error for node %d", i))

			activated, err := s.Activated(ctx, id)
			assert.NoError(t, err)
			assert.True(t, activated)
		}(i)
	}
	wg.Wait()
}
