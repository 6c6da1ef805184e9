// Package localsession provides a concrete implementation of the session.Session
// and session.SessionFactory interfaces for local, in-process execution.
package localsession

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/executor"
	"github.com/specialistvlad/slotgraph/internal/graph"
	"github.com/specialistvlad/slotgraph/internal/inmemorystore"
	"github.com/specialistvlad/slotgraph/internal/instrument"
	"github.com/specialistvlad/slotgraph/internal/localexecutor"
	"github.com/specialistvlad/slotgraph/internal/scheduler"
	"github.com/specialistvlad/slotgraph/internal/session"
	"github.com/specialistvlad/slotgraph/internal/state"
)

// ErrClosed is returned by GetExecutor after Close.
var ErrClosed = errors.New("session is closed")

// SessionFactory implements session.SessionFactory for local runs.
type SessionFactory struct {
	// Wrapper instruments every node. Nil means an un-instrumented wrapper.
	Wrapper *instrument.Wrapper
}

var _ session.SessionFactory = (*SessionFactory)(nil)

// NewSession creates and configures a new local session.
func (f *SessionFactory) NewSession(
	ctx context.Context,
	g *graph.ExecutionGraph,
	schema state.Schema,
) (session.Session, error) {
	if g == nil {
		return nil, errors.New("nil execution graph")
	}
	id := uuid.NewString()
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Creating local session.", "run_id", id, "nodes", g.Len())

	wrapper := f.Wrapper
	if wrapper == nil {
		wrapper = instrument.New()
	}

	// Per-run wiring: fresh node store, facade, scheduler and executor.
	nodeStore := inmemorystore.New()
	runGraph := graph.New(g, nodeStore)
	sched := scheduler.New(runGraph)
	exec := localexecutor.New(sched, runGraph, wrapper, schema)

	return &Session{
		id:       id,
		executor: exec,
	}, nil
}

// Session implements session.Session for local runs.
type Session struct {
	id       string
	executor executor.Executor
	closed   atomic.Bool
}

// ID returns the run identifier.
func (s *Session) ID() string {
	return s.id
}

// GetExecutor returns the executor that was created and wired up by the factory.
func (s *Session) GetExecutor() (executor.Executor, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	return s.executor, nil
}

// Close drops the per-run stores. Closing twice is a no-op.
func (s *Session) Close(ctx context.Context) error {
	if s.closed.Swap(true) {
		return nil
	}
	ctxlog.FromContext(ctx).Debug("Local session closed.", "run_id", s.id)
	s.executor = nil
	return nil
}
