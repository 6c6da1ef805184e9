package executor

import (
	"errors"
	"testing"

	"github.com/specialistvlad/slotgraph/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeExecutionError(t *testing.T) {
	cause := errors.New("cuda out of memory")
	err := &ExecutionError{
		Node:  "analyst",
		State: state.NewSnapshot(map[string]any{"a": 1}),
		Err:   &NodeExecutionError{Node: "analyst", Err: cause},
	}

	assert.ErrorIs(t, err, ErrNodeFailed)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, `execution aborted at "analyst": node execution failed: node "analyst": cuda out of memory`)

	snap, ok := PartialState(err)
	require.True(t, ok)
	v, _ := snap.Get("a")
	assert.Equal(t, 1, v)
}

func TestPartialState_OtherErrors(t *testing.T) {
	_, ok := PartialState(errors.New("plain"))
	assert.False(t, ok)
}
