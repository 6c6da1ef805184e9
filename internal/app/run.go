package app

import (
	"context"
	"fmt"
	"maps"

	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/executor"
	"github.com/specialistvlad/slotgraph/internal/sink"
	"github.com/specialistvlad/slotgraph/internal/state"
)

// Run executes the compiled pipeline once. The resident resource is released
// when the run ends, the outcome is recorded and handed to every sink. On
// failure the returned snapshot holds the state accumulated so far.
func (a *App) Run(ctx context.Context) (state.Snapshot, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if a.config.HealthcheckPort > 0 && a.httpServer == nil {
		a.startHealthCheckServer()
	}

	sess, err := a.sessions.NewSession(ctx, a.graph, a.pipeline.Schema)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("failed to create session: %w", err)
	}
	defer sess.Close(ctx)

	ctx = ctxlog.With(ctx, "run_id", sess.ID())
	logger := ctxlog.FromContext(ctx)

	exec, err := sess.GetExecutor()
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("failed to get executor: %w", err)
	}

	initial := maps.Clone(a.pipeline.Initial)
	if initial == nil {
		initial = make(map[string]any, len(a.config.Inputs))
	}
	maps.Copy(initial, a.config.Inputs)

	logger.Info("▶️ Starting pipeline run.", "pipeline", a.pipeline.Name, "nodes", a.graph.Len())
	started := a.now()
	snap, runErr := exec.Execute(ctx, initial)
	duration := a.now().Sub(started)
	if runErr != nil {
		snap, _ = executor.PartialState(runErr)
	}

	if err := a.resources.Unload(ctx); err != nil {
		logger.Warn("Failed to release resource after run.", "error", err)
	}

	run := sink.Run{
		ID:        sess.ID(),
		Pipeline:  a.pipeline.Name,
		StartedAt: started,
		Duration:  duration,
		State:     snap,
		Err:       runErr,
	}
	a.metrics.RecordRun(run.Status(), duration)

	if err := a.sinks.Export(ctx, run); err != nil {
		logger.Warn("Some exports failed.", "error", err)
	}

	if runErr != nil {
		logger.Error("❌ Pipeline run failed.", "error", runErr, "duration", duration)
		return snap, fmt.Errorf("run %s: %w", sess.ID(), runErr)
	}
	logger.Info("✅ Pipeline run completed.", "duration", duration, "keys", snap.Len())
	return snap, nil
}
