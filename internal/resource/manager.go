package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
)

// Handle is the currently resident resource.
type Handle struct {
	Entry    Entry
	Strategy Strategy
	Instance Instance
	LoadedAt time.Time
}

// Name returns the registry name of the resource.
func (h *Handle) Name() string {
	return h.Entry.Name
}

// Generate forwards to the instance if it is a Generator.
func (h *Handle) Generate(ctx context.Context, prompt string, params map[string]any) (string, int, error) {
	g, ok := h.Instance.(Generator)
	if !ok {
		return "", 0, fmt.Errorf("resource %q (%T) cannot generate", h.Entry.Name, h.Instance)
	}
	return g.Generate(ctx, prompt, params)
}

// Stats are cumulative counters of a Manager.
type Stats struct {
	Loads     int
	Unloads   int
	CacheHits int
	Failures  int
}

// Observer receives every transition of the resource slot. Implementations
// must not call back into the Manager.
type Observer interface {
	ResourceLoaded(name string, strategy string, took time.Duration)
	ResourceUnloaded(name string)
	ResourceCacheHit(name string)
	ResourceLoadFailed(name string)
}

// Option configures a Manager.
type Option func(*Manager)

// WithStrategy sets the load strategy policy.
func WithStrategy(f StrategyFunc) Option {
	return func(m *Manager) { m.strategy = f }
}

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observers = append(m.observers, o) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager guarantees that at most one resource is resident.
type Manager struct {
	registry  *Registry
	loader    Loader
	strategy  StrategyFunc
	observers []Observer
	now       func() time.Time

	// mu spans every check-and-load sequence.
	mu       sync.Mutex
	resident *Handle

	// Accessors below never wait for a load in progress.
	status  atomic.Int32
	current atomic.Pointer[Handle]
	statsMu sync.Mutex
	stats   Stats
}

// NewManager creates a manager with nothing resident.
func NewManager(reg *Registry, loader Loader, opts ...Option) *Manager {
	m := &Manager{
		registry: reg,
		loader:   loader,
		strategy: SizeClassPolicy(DefaultReducedClasses...),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the registry the manager serves.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Status returns the slot's lifecycle state without waiting for a load in
// progress.
func (m *Manager) Status() Status {
	return Status(m.status.Load())
}

// Load makes name the resident resource and returns its handle. If name is
// already resident the existing handle is returned. Otherwise the resident
// resource, if any, is unloaded first. An unknown name fails with
// *NotFoundError and leaves the resident resource untouched.
func (m *Manager) Load(ctx context.Context, name string) (*Handle, error) {
	logger := ctxlog.FromContext(ctx).With("resource", name)

	entry, ok := m.registry.Lookup(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resident != nil && m.resident.Entry.Name == name {
		m.count(func(s *Stats) { s.CacheHits++ })
		logger.Debug("Resource already resident.")
		for _, o := range m.observers {
			o.ResourceCacheHit(name)
		}
		return m.resident, nil
	}

	if err := m.unloadLocked(ctx); err != nil {
		return nil, fmt.Errorf("unloading before loading %q: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	strategy := m.strategy(entry)
	logger.Info("Loading resource.", "path", entry.Path, "strategy", strategy, "backend", entry.Backend)
	m.status.Store(int32(StatusLoading))
	start := m.now()

	inst, err := m.loader.Load(ctx, entry, strategy)
	if err != nil {
		m.status.Store(int32(StatusUnloaded))
		m.count(func(s *Stats) { s.Failures++ })
		for _, o := range m.observers {
			o.ResourceLoadFailed(name)
		}
		logger.Error("Resource load failed.", "error", err)
		return nil, &ResourceLoadError{Name: name, Err: err}
	}
	if inst == nil {
		m.status.Store(int32(StatusUnloaded))
		m.count(func(s *Stats) { s.Failures++ })
		for _, o := range m.observers {
			o.ResourceLoadFailed(name)
		}
		return nil, &ResourceLoadError{Name: name, Err: errors.New("backend returned no instance")}
	}

	took := m.now().Sub(start)
	m.resident = &Handle{Entry: entry, Strategy: strategy, Instance: inst, LoadedAt: m.now()}
	m.current.Store(m.resident)
	m.count(func(s *Stats) { s.Loads++ })
	m.status.Store(int32(StatusLoaded))
	for _, o := range m.observers {
		o.ResourceLoaded(name, string(strategy), took)
	}
	logger.Info("Resource loaded.", "took", took)
	return m.resident, nil
}

// Unload releases the resident resource. It is a no-op when nothing is
// resident.
func (m *Manager) Unload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unloadLocked(ctx)
}

// unloadLocked must be called with m.mu held. The slot is empty afterwards
// even when Release fails.
func (m *Manager) unloadLocked(ctx context.Context) error {
	if m.resident == nil {
		return nil
	}
	h := m.resident
	logger := ctxlog.FromContext(ctx).With("resource", h.Entry.Name)
	logger.Info("Unloading resource.")

	m.status.Store(int32(StatusUnloading))
	err := h.Instance.Release(ctx)
	m.resident = nil
	m.current.Store(nil)
	m.count(func(s *Stats) { s.Unloads++ })
	m.status.Store(int32(StatusUnloaded))
	for _, o := range m.observers {
		o.ResourceUnloaded(h.Entry.Name)
	}
	if err != nil {
		logger.Warn("Resource release reported an error.", "error", err)
		return fmt.Errorf("releasing %q: %w", h.Entry.Name, err)
	}
	return nil
}

// Resident returns the resident handle, or nil.
func (m *Manager) Resident() *Handle {
	return m.current.Load()
}

// Stats returns a copy of the counters.
func (m *Manager) Stats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

func (m *Manager) count(f func(*Stats)) {
	m.statsMu.Lock()
	f(&m.stats)
	m.statsMu.Unlock()
}

// Close unloads the resident resource for deterministic teardown.
func (m *Manager) Close(ctx context.Context) error {
	return m.Unload(ctx)
}
