package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph is the kind of every structural validation failure.
	ErrInvalidGraph = errors.New("invalid execution graph")
	// ErrNotFound is satisfied by every "referenced thing does not exist" error.
	ErrNotFound = errors.New("not found")
	// ErrUnknownNode is the kind of UnknownNodeError.
	ErrUnknownNode = errors.New("unknown node")
	// ErrCycle is the kind of CycleError.
	ErrCycle = errors.New("cycle detected")
	// ErrUnreachable is returned when a node cannot be reached from any entry.
	ErrUnreachable = errors.New("unreachable node")
	// ErrRouting is the kind of RoutingError.
	ErrRouting = errors.New("routing failed")
)

// GraphError wraps deterministic graph validation failures.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &GraphError{Kind: ErrInvalidGraph, Msg: fmt.Sprintf(format, args...)}
}

func unreachable(ids []string) error {
	return &GraphError{Kind: ErrUnreachable, Msg: strings.Join(ids, ", ")}
}

// UnknownNodeError reports an edge endpoint that was never declared.
type UnknownNodeError struct {
	// ID is the undeclared identifier.
	ID string
	// Where describes the referring edge, e.g. `edge "a" -> "b"`.
	Where string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("%s %q referenced by %s", ErrUnknownNode, e.ID, e.Where)
}

func (e *UnknownNodeError) Unwrap() error { return ErrUnknownNode }

// Is lets callers match any missing reference with ErrNotFound.
func (e *UnknownNodeError) Is(target error) bool { return target == ErrNotFound }

// CycleError lists the nodes Kahn's algorithm could not order.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s among nodes: %s", ErrCycle, strings.Join(e.Nodes, ", "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// RoutingError is a runtime failure of a conditional edge: the predicate
// failed or returned a key outside the declared branch set.
type RoutingError struct {
	Node     string
	Key      string
	Branches []string
	// Err is the predicate's own failure, if any.
	Err error
}

func (e *RoutingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at node %q: predicate: %v", ErrRouting, e.Node, e.Err)
	}
	return fmt.Sprintf("%s at node %q: key %q is not one of [%s]",
		ErrRouting, e.Node, e.Key, strings.Join(e.Branches, ", "))
}

func (e *RoutingError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRouting, e.Err}
	}
	return []error{ErrRouting}
}
