// This file contains the HCL schema structs decoded by gohcl. They mirror the
// blocks a pipeline file may contain and are translated into the
// format-agnostic config model by translate_model.go.

package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	State  []*StateBlock `hcl:"state,block"`
	Nodes  []*NodeBlock  `hcl:"node,block"`
	Edges  []*EdgeBlock  `hcl:"edge,block"`
	Routes []*RouteBlock `hcl:"route,block"`
	Remain hcl.Body      `hcl:",remain"`
}

// StateBlock declares a state key and its merge policy.
type StateBlock struct {
	Name    string         `hcl:"name,label"`
	Policy  string         `hcl:"policy,optional"`
	Initial hcl.Expression `hcl:"initial,optional"`
}

// NodeBlock declares one node.
type NodeBlock struct {
	Name      string     `hcl:"name,label"`
	Transform string     `hcl:"transform"`
	Resource  string     `hcl:"resource,optional"`
	Key       string     `hcl:"key,optional"`
	DependsOn []string   `hcl:"depends_on,optional"`
	Arguments *ArgsBlock `hcl:"arguments,block"`
}

// ArgsBlock holds a node's arguments as unevaluated expressions.
type ArgsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// EdgeBlock declares an unconditional edge.
type EdgeBlock struct {
	From string `hcl:"from,label"`
	To   string `hcl:"to,label"`
}

// RouteBlock declares a conditional edge.
type RouteBlock struct {
	From      string            `hcl:"from,label"`
	Condition hcl.Expression    `hcl:"condition"`
	Branches  map[string]string `hcl:"branches"`
}
