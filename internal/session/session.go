// Package session defines the core interfaces for creating and managing an
// execution session. A session is one run of a compiled graph; it abstracts
// away how the per-run stores and executor are wired.
package session

import (
	"context"

	"github.com/specialistvlad/slotgraph/internal/executor"
	"github.com/specialistvlad/slotgraph/internal/graph"
	"github.com/specialistvlad/slotgraph/internal/state"
)

// SessionFactory creates an execution Session. Different implementations can
// support various backends; only local execution exists today.
type SessionFactory interface {
	NewSession(
		ctx context.Context,
		g *graph.ExecutionGraph,
		schema state.Schema,
	) (Session, error)
}

// Session represents a single execution run and manages its lifecycle.
type Session interface {
	// ID is the unique run identifier.
	ID() string
	GetExecutor() (executor.Executor, error)
	// Close releases any resources held by the session. It accepts a context
	// to allow for graceful cleanup operations.
	Close(ctx context.Context) error
}
