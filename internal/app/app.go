package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/specialistvlad/slotgraph/internal/builder"
	"github.com/specialistvlad/slotgraph/internal/config"
	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/graph"
	"github.com/specialistvlad/slotgraph/internal/handlers"
	"github.com/specialistvlad/slotgraph/internal/instrument"
	"github.com/specialistvlad/slotgraph/internal/localsession"
	"github.com/specialistvlad/slotgraph/internal/metrics"
	"github.com/specialistvlad/slotgraph/internal/resource"
	"github.com/specialistvlad/slotgraph/internal/sink"
	"github.com/specialistvlad/slotgraph/internal/telemetry"
	"github.com/specialistvlad/slotgraph/modules/echo"
)

var _ resource.Observer = (*metrics.Registry)(nil)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	ctx    context.Context
	config *Config
	now    func() time.Time

	metrics   *metrics.Registry
	handlers  *handlers.Handlers
	resources *resource.Manager
	pipeline  *builder.Pipeline
	graph     *graph.ExecutionGraph
	sessions  *localsession.SessionFactory
	sinks     sink.Multi
	closers   []io.Closer

	httpServer *http.Server
}

// Option customises NewApp.
type Option func(*options)

type options struct {
	modules  []handlers.Module
	backends resource.Backends
	sinks    []sink.Sink
	now      func() time.Time
}

// WithModules registers extra transforms next to the core ones.
func WithModules(m ...handlers.Module) Option {
	return func(o *options) { o.modules = append(o.modules, m...) }
}

// WithBackend registers a resource backend under name, replacing any backend
// already there. The echo backend is present unless replaced.
func WithBackend(name string, l resource.Loader) Option {
	return func(o *options) { o.backends[name] = l }
}

// WithSinks adds sinks to the ones built from the export configuration.
func WithSinks(s ...sink.Sink) Option {
	return func(o *options) { o.sinks = append(o.sinks, s...) }
}

// WithClock sets the clock used to stamp runs.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewApp is the constructor for the main application. It loads the resource
// registry and the pipeline, and compiles the pipeline into an execution
// graph. Any configuration problem is returned before a run can start.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	o := &options{backends: resource.Backends{}, now: time.Now}
	echo.Register(o.backends, echo.Backend{})
	for _, opt := range opts {
		opt(o)
	}

	app := &App{
		outW:     outW,
		logger:   logger,
		ctx:      ctx,
		config:   cfg,
		now:      o.now,
		metrics:  metrics.NewRegistry(),
		handlers: handlers.New(),
	}

	reg, err := loadRegistry(cfg.RegistryPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resource registry loaded.", "entries", reg.Len())

	strategy := resource.SizeClassPolicy(resource.DefaultReducedClasses...)
	if cfg.ReducedSizeClasses != nil {
		strategy = resource.SizeClassPolicy(cfg.ReducedSizeClasses...)
	}
	app.resources = resource.NewManager(reg, o.backends,
		resource.WithStrategy(strategy),
		resource.WithObserver(app.metrics),
	)

	for _, m := range append(coreModules(), o.modules...) {
		m.Register(app.handlers)
	}
	logger.Debug("Transforms registered.", "count", app.handlers.Len())

	if err := app.loadPipeline(ctx, loader, reg); err != nil {
		return nil, err
	}

	wrapper := instrument.New(
		instrument.WithSampler(telemetry.RuntimeSampler{}),
		instrument.WithMiddleware(instrument.Recover(), instrument.Logging(), instrument.Observe(app.metrics)),
	)
	app.sessions = &localsession.SessionFactory{Wrapper: wrapper}

	if err := app.buildSinks(o.sinks); err != nil {
		app.closeSinks()
		return nil, err
	}

	logger.Debug("Application initialised.", "nodes", app.graph.Len(), "sinks", len(app.sinks))
	return app, nil
}

func loadRegistry(path string) (*resource.Registry, error) {
	if path == "" {
		return resource.NewRegistry()
	}
	return resource.LoadRegistryFile(path)
}

// loadPipeline reads the pipeline files, narrows them to one node when asked
// to, binds transforms and compiles the graph.
func (a *App) loadPipeline(ctx context.Context, loader config.Loader, reg *resource.Registry) error {
	model, ev, err := loader.Load(ctx, a.config.PipelinePath)
	if err != nil {
		return fmt.Errorf("load pipeline: %w", err)
	}
	if a.config.Only != "" {
		model, err = builder.Only(model, a.config.Only, "report")
		if err != nil {
			return err
		}
		a.logger.Info("Running a single node.", "node", a.config.Only, "nodes", len(model.Nodes))
	}

	a.pipeline, err = builder.New(a.handlers, ev,
		builder.WithResources(a.resources),
		builder.WithRegistry(reg),
		builder.WithOutput(a.outW),
		builder.WithInputKeys(slices.Collect(maps.Keys(a.config.Inputs))...),
	).Build(ctx, model)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	a.graph, err = a.pipeline.Compile(ctx)
	if err != nil {
		return fmt.Errorf("compile pipeline: %w", err)
	}
	return nil
}

func (a *App) buildSinks(extra []sink.Sink) error {
	exp := a.config.Exports
	if exp.Markdown != "" {
		a.sinks = append(a.sinks, sink.NewMarkdown(exp.Markdown))
	}
	if exp.SQLite != "" {
		s, err := sink.NewSQLite(exp.SQLite)
		if err != nil {
			return err
		}
		a.sinks = append(a.sinks, s)
		a.closers = append(a.closers, s)
	}
	if exp.SocketIO != nil {
		s, err := sink.NewSocketIO(sink.SocketIOConfig{
			URL:                exp.SocketIO.URL,
			Namespace:          exp.SocketIO.Namespace,
			Event:              exp.SocketIO.Event,
			InsecureSkipVerify: exp.SocketIO.InsecureSkipVerify,
		})
		if err != nil {
			return err
		}
		a.sinks = append(a.sinks, s)
		a.closers = append(a.closers, s)
	}
	if a.config.Summary {
		a.sinks = append(a.sinks, sink.NewConsole(a.outW))
	}
	a.sinks = append(a.sinks, extra...)
	return nil
}

func (a *App) closeSinks() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Metrics returns the application's metrics registry.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// Resources returns the resource manager.
func (a *App) Resources() *resource.Manager {
	return a.resources
}

// Close stops the health check server, releases the resident resource and
// closes every sink.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(
		a.closeHealthCheckServer(),
		a.resources.Close(ctx),
		a.closeSinks(),
	)
}
