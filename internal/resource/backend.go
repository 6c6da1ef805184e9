package resource

import (
	"context"
	"fmt"
)

// Instance is a materialised resource held by the Manager while resident.
type Instance interface {
	// Release frees everything the instance holds. It is called exactly once.
	Release(ctx context.Context) error
}

// Generator is implemented by instances that produce text, such as language
// models. units is the backend's unit-of-work count (e.g. tokens).
type Generator interface {
	Generate(ctx context.Context, prompt string, params map[string]any) (text string, units int, err error)
}

// Loader materialises registry entries.
type Loader interface {
	Load(ctx context.Context, entry Entry, strategy Strategy) (Instance, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, entry Entry, strategy Strategy) (Instance, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, entry Entry, strategy Strategy) (Instance, error) {
	return f(ctx, entry, strategy)
}

// Backends dispatches loads to a Loader chosen by the entry's Backend field.
// The entry under the empty name is the default.
type Backends map[string]Loader

// Load implements Loader.
func (b Backends) Load(ctx context.Context, entry Entry, strategy Strategy) (Instance, error) {
	l, ok := b[entry.Backend]
	if !ok {
		return nil, fmt.Errorf("no backend registered under %q", entry.Backend)
	}
	return l.Load(ctx, entry, strategy)
}

// Register adds a loader under name. It panics on duplicates, like handler
// registration.
func (b Backends) Register(name string, l Loader) {
	if _, exists := b[name]; exists {
		panic(fmt.Sprintf("resource backend '%s' already registered", name))
	}
	b[name] = l
}
