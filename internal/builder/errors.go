package builder

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTransform marks a node naming a transform nobody registered.
	ErrUnknownTransform = errors.New("unknown transform")
	// ErrInvalidNode marks a node whose declaration its handler cannot accept.
	ErrInvalidNode = errors.New("invalid node declaration")
)

// NodeError reports a node that could not be built.
type NodeError struct {
	Node string
	Kind error
	Msg  string
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q: %s", e.Node, e.Msg)
}

func (e *NodeError) Unwrap() error { return e.Kind }
