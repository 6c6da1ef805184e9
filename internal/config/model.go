package config

import (
	"github.com/hashicorp/hcl/v2"
)

// Model is the unified, format-agnostic representation of a pipeline.
type Model struct {
	// Source names the file(s) the model was loaded from.
	Source string
	State  []*StateKey
	Nodes  []*Node
	Edges  []*Edge
	Routes []*Route
}

// StateKey is the format-agnostic representation of a `state` block.
type StateKey struct {
	Name   string
	Policy string
	// Initial is evaluated once, without state, to seed the run.
	Initial hcl.Expression
}

// Node is the format-agnostic representation of a `node` block.
type Node struct {
	Name      string
	Transform string
	Resource  string
	Key       string
	Arguments map[string]hcl.Expression
	DependsOn []string
}

// Edge is an unconditional `edge` block.
type Edge struct {
	From string
	To   string
}

// Route is the format-agnostic representation of a `route` block.
type Route struct {
	From      string
	Condition hcl.Expression
	Branches  map[string]string
}

// NodeByName returns the node declared under name.
func (m *Model) NodeByName(name string) (*Node, bool) {
	for _, n := range m.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}
