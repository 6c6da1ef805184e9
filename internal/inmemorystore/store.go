// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// Each node's state is independent and the key space is known upfront, so
// the store keeps one sync.Map per kind of state instead of a global lock.
// It is created fresh for each run and is never persisted.
package inmemorystore

import (
	"context"
	"sync"

	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
type Store struct {
	states    sync.Map // Key: node ID, Value: node.Status
	outputs   sync.Map // Key: node ID, Value: node.Result
	errors    sync.Map // Key: node ID, Value: error
	activated sync.Map // Key: node ID, Value: struct{}
}

// New creates a new, empty in-memory node state store.
func New() nodestore.Store {
	return &Store{}
}

// SetStatus updates the execution status of a specific node.
func (s *Store) SetStatus(ctx context.Context, id string, status node.Status) error {
	s.states.Store(id, status)
	return nil
}

// GetStatus retrieves the execution status of a specific node.
// If a status has not been set, it returns StatusPending.
func (s *Store) GetStatus(ctx context.Context, id string) (node.Status, error) {
	status, ok := s.states.Load(id)
	if !ok {
		return node.StatusPending, nil
	}
	return status.(node.Status), nil
}

// SetOutput records the result of a node.
func (s *Store) SetOutput(ctx context.Context, id string, output node.Result) error {
	s.outputs.Store(id, output)
	return nil
}

// GetOutput retrieves the recorded result of a completed node.
func (s *Store) GetOutput(ctx context.Context, id string) (node.Result, bool, error) {
	output, ok := s.outputs.Load(id)
	if !ok {
		return node.Result{}, false, nil
	}
	return output.(node.Result), true, nil
}

// SetError records the failure error of a node.
func (s *Store) SetError(ctx context.Context, id string, nodeErr error) error {
	s.errors.Store(id, nodeErr)
	return nil
}

// GetError retrieves the recorded error of a failed node.
func (s *Store) GetError(ctx context.Context, id string) (error, error) {
	err, ok := s.errors.Load(id)
	if !ok {
		return nil, nil
	}
	return err.(error), nil
}

// Activate marks the node as activated by an incoming edge.
func (s *Store) Activate(ctx context.Context, id string) error {
	s.activated.Store(id, struct{}{})
	return nil
}

// Activated reports whether any incoming edge of the node fired.
func (s *Store) Activated(ctx context.Context, id string) (bool, error) {
	_, ok := s.activated.Load(id)
	return ok, nil
}
