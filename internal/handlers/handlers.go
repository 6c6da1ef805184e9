package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/resource"
	"github.com/specialistvlad/slotgraph/internal/state"
)

// ResourceLoader makes a named resource resident. *resource.Manager
// satisfies it.
type ResourceLoader interface {
	Load(ctx context.Context, name string) (*resource.Handle, error)
}

// Call is everything a handler sees for one node invocation.
type Call struct {
	Node     string
	Resource string
	// Input is the value returned by NewInput with the node's arguments
	// decoded into it, or nil when the handler takes no arguments.
	Input any
	// Inputs are the keys the run was seeded with: initial values declared
	// by the pipeline plus caller-supplied inputs, sorted.
	Inputs    []string
	State     state.Snapshot
	Resources ResourceLoader
	Out       io.Writer
}

// Func is the Go side of a transform.
type Func func(ctx context.Context, call *Call) (node.Result, error)

// RegisteredHandler holds the compiled Go parts of a transform.
type RegisteredHandler struct {
	// NewInput returns a pointer to a struct with `cty` tags. Nil means the
	// transform accepts no arguments.
	NewInput func() any
	// NeedsResource rejects nodes that do not name a resource.
	NeedsResource bool
	Fn            Func
}

// Module registers one or more handlers.
type Module interface {
	Register(h *Handlers)
}

// Handlers holds all the registered handlers.
type Handlers struct {
	all map[string]*RegisteredHandler
}

// New creates and initializes a new Handlers instance.
func New() *Handlers {
	return &Handlers{
		all: make(map[string]*RegisteredHandler),
	}
}

// RegisterHandler registers a Go function under a transform name.
func (r *Handlers) RegisterHandler(name string, handler *RegisteredHandler) {
	if _, exists := r.all[name]; exists {
		panic(fmt.Sprintf("transform handler with name '%s' already registered", name))
	}
	if handler == nil || handler.Fn == nil {
		panic(fmt.Sprintf("transform handler '%s' has no function", name))
	}
	slog.Debug("Registering transform handler.", "name", name)
	r.all[name] = handler
}

// Get returns the handler registered under name.
func (r *Handlers) Get(name string) (*RegisteredHandler, bool) {
	h, ok := r.all[name]
	return h, ok
}

// Names returns the registered transform names in lexical order.
func (r *Handlers) Names() []string {
	return slices.Sorted(maps.Keys(r.all))
}

// Len returns the number of registered handlers.
func (r *Handlers) Len() int {
	return len(r.all)
}
