package graph

import (
	"context"
	"maps"
	"slices"

	"github.com/specialistvlad/slotgraph/internal/state"
)

// Edge is an unconditional dependency: To runs after From. From may be START
// and To may be END.
type Edge struct {
	From string
	To   string
}

// Predicate inspects the state after the source node completed and returns
// exactly one branch key.
type Predicate func(ctx context.Context, snap state.Snapshot) (string, error)

// ConditionalEdge routes execution from one node to exactly one of several
// targets. Branch targets may be END.
type ConditionalEdge struct {
	From      string
	Predicate Predicate
	// Branches maps branch keys to target node IDs.
	Branches map[string]string
}

// Keys returns the declared branch keys in lexical order.
func (c ConditionalEdge) Keys() []string {
	return slices.Sorted(maps.Keys(c.Branches))
}

// Targets returns the distinct branch targets in lexical order of their keys.
func (c ConditionalEdge) Targets() []string {
	var out []string
	for _, k := range c.Keys() {
		if t := c.Branches[k]; !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// Resolve evaluates the predicate against snap and returns the chosen target.
func (c ConditionalEdge) Resolve(ctx context.Context, snap state.Snapshot) (string, error) {
	key, err := c.Predicate(ctx, snap)
	if err != nil {
		return "", &RoutingError{Node: c.From, Branches: c.Keys(), Err: err}
	}
	target, ok := c.Branches[key]
	if !ok {
		return "", &RoutingError{Node: c.From, Key: key, Branches: c.Keys()}
	}
	return target, nil
}
