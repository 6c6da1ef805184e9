package handlers

import (
	"context"
	"testing"

	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, *Call) (node.Result, error) { return node.Result{}, nil }

func TestHandlers_Register(t *testing.T) {
	h := New()
	h.RegisterHandler("value", &RegisteredHandler{Fn: noop})
	h.RegisterHandler("generate", &RegisteredHandler{Fn: noop, NeedsResource: true})

	got, ok := h.Get("generate")
	require.True(t, ok)
	assert.True(t, got.NeedsResource)

	_, ok = h.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"generate", "value"}, h.Names())
	assert.Equal(t, 2, h.Len())
}

func TestHandlers_RegisterPanics(t *testing.T) {
	h := New()
	h.RegisterHandler("value", &RegisteredHandler{Fn: noop})

	assert.PanicsWithValue(t, "transform handler with name 'value' already registered", func() {
		h.RegisterHandler("value", &RegisteredHandler{Fn: noop})
	})
	assert.Panics(t, func() { h.RegisterHandler("nil", nil) })
	assert.Panics(t, func() { h.RegisterHandler("nofn", &RegisteredHandler{}) })
}
