package builder

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/slotgraph/internal/config"
)

// Only returns a copy of m reduced to the node called name plus every node
// downstream of it whose transform is one of keep. Kept downstream nodes
// run directly after name. State declarations are preserved; routes are
// dropped.
func Only(m *config.Model, name string, keep ...string) (*config.Model, error) {
	target, ok := m.NodeByName(name)
	if !ok {
		return nil, fmt.Errorf("node %q not found in %s", name, m.Source)
	}

	down := downstream(m, name)
	out := &config.Model{Source: m.Source, State: m.State}

	for _, n := range m.Nodes {
		switch {
		case n == target:
			cp := *n
			cp.DependsOn = nil
			out.Nodes = append(out.Nodes, &cp)
		case down[n.Name] && slices.Contains(keep, n.Transform):
			cp := *n
			cp.DependsOn = []string{name}
			out.Nodes = append(out.Nodes, &cp)
		}
	}
	return out, nil
}

// downstream returns every node reachable from start.
func downstream(m *config.Model, start string) map[string]bool {
	next := make(map[string][]string)
	for _, n := range m.Nodes {
		for _, dep := range n.DependsOn {
			next[dep] = append(next[dep], n.Name)
		}
	}
	for _, e := range m.Edges {
		next[e.From] = append(next[e.From], e.To)
	}
	for _, r := range m.Routes {
		for _, to := range r.Branches {
			next[r.From] = append(next[r.From], to)
		}
	}

	seen := map[string]bool{}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, to := range next[cur] {
			if !seen[to] {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	return seen
}
