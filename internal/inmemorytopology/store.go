package inmemorytopology

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/slotgraph/internal/node"
	"github.com/specialistvlad/slotgraph/internal/topologystore"
)

// Store implements topologystore.Store using maps guarded by a RWMutex.
type Store struct {
	mu    sync.RWMutex
	order []*node.Node
	nodes map[string]*node.Node
	deps  map[string]map[string]struct{} // Key: node ID, Value: set of predecessor IDs
	rdeps map[string]map[string]struct{} // Key: node ID, Value: set of successor IDs
}

// New creates a new, empty in-memory topology store.
func New() topologystore.Store {
	return &Store{
		nodes: make(map[string]*node.Node),
		deps:  make(map[string]map[string]struct{}),
		rdeps: make(map[string]map[string]struct{}),
	}
}

// AddNode adds a node and stamps its declaration index.
func (s *Store) AddNode(ctx context.Context, n *node.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[n.ID]; ok {
		return fmt.Errorf("%w: '%s'", topologystore.ErrDuplicateNode, n.ID)
	}
	n.SetIndex(len(s.order))
	s.order = append(s.order, n)
	s.nodes[n.ID] = n
	return nil
}

// AddDependency creates a dependency link from one node to another.
func (s *Store) AddDependency(ctx context.Context, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[from]; !ok {
		return fmt.Errorf("dependency source '%s': %w", from, topologystore.ErrNodeNotFound)
	}
	if _, ok := s.nodes[to]; !ok {
		return fmt.Errorf("dependency target '%s': %w", to, topologystore.ErrNodeNotFound)
	}

	if s.deps[to] == nil {
		s.deps[to] = make(map[string]struct{})
	}
	s.deps[to][from] = struct{}{}
	if s.rdeps[from] == nil {
		s.rdeps[from] = make(map[string]struct{})
	}
	s.rdeps[from][to] = struct{}{}
	return nil
}

// GetNode retrieves a single node by ID.
func (s *Store) GetNode(ctx context.Context, id string) (*node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	return n, ok
}

// AllNodes returns all nodes in declaration order.
func (s *Store) AllNodes(ctx context.Context) []*node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.order)
}

// DependenciesOf returns the predecessors of id.
func (s *Store) DependenciesOf(ctx context.Context, id string) ([]string, error) {
	return s.neighbours(id, s.deps)
}

// DependentsOf returns the successors of id.
func (s *Store) DependentsOf(ctx context.Context, id string) ([]string, error) {
	return s.neighbours(id, s.rdeps)
}

func (s *Store) neighbours(id string, edges map[string]map[string]struct{}) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[id]; !ok {
		return nil, fmt.Errorf("node '%s': %w", id, topologystore.ErrNodeNotFound)
	}

	set := edges[id]
	out := make([]string, 0, len(set))
	for other := range set {
		out = append(out, other)
	}
	slices.SortFunc(out, func(a, b string) int {
		return cmp.Compare(s.nodes[a].Index(), s.nodes[b].Index())
	})
	return out, nil
}
