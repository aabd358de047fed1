package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"tabprep/internal/frame"
)

// Runner executes the registered stages strictly sequentially over one
// frame. Each stage runs to completion before the next begins; a stage
// failure aborts the run. The runner itself is stateless across runs.
type Runner struct {
	registry *Registry
	logger   *slog.Logger
	tracer   *Tracer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTracer attaches OpenTelemetry instrumentation to the runner.
func WithTracer(t *Tracer) RunnerOption {
	return func(r *Runner) { r.tracer = t }
}

// NewRunner creates a runner over the given registry.
func NewRunner(registry *Registry, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		registry: registry,
		logger:   logger.With(slog.String("component", "pipeline")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates the frame and executes every registered stage against it
// in registration order. The returned RunState carries per-stage timing
// and status even when the run fails partway.
func (r *Runner) Run(ctx context.Context, f *frame.Frame) (*RunState, error) {
	state := NewRunState(uuid.NewString())

	if err := f.Validate(); err != nil {
		verr := NewValidationError("frame validation failed", err)
		state.Fail(verr)
		r.logger.ErrorContext(ctx, "refusing to run on malformed frame",
			slog.String("run_id", state.ID),
			slog.String("error", err.Error()))
		return state, verr
	}

	var span trace.Span
	if r.tracer != nil {
		ctx, span = r.tracer.StartRun(ctx, state.ID, f.Rows(), f.Cols())
		defer span.End()
	}

	state.Start()
	r.logger.InfoContext(ctx, "pipeline run started",
		slog.String("run_id", state.ID),
		slog.Int("rows", f.Rows()),
		slog.Int("columns", f.Cols()),
		slog.Int("stages", r.registry.Count()))

	for _, stage := range r.registry.List() {
		if err := ctx.Err(); err != nil {
			cerr := NewCancellationError(stage.ID(), err)
			state.Fail(cerr)
			return state, cerr
		}

		if err := r.runStage(ctx, stage, state, f); err != nil {
			state.Fail(err)
			return state, err
		}
	}

	state.Complete()

	if r.tracer != nil {
		r.tracer.RecordClaims(ctx, countClaims(f))
	}
	r.logger.InfoContext(ctx, "pipeline run completed",
		slog.String("run_id", state.ID),
		slog.Duration("duration", state.Duration()))
	return state, nil
}

// runStage executes one stage's fit and transform phases, tracking state
// and instrumentation.
func (r *Runner) runStage(ctx context.Context, stage Stage, state *RunState, f *frame.Frame) error {
	stageState := NewStageState(stage.ID(), stage.Name())
	state.AddStage(stageState)
	stageState.Start()

	var span trace.Span
	stageCtx := ctx
	if r.tracer != nil {
		stageCtx, span = r.tracer.StartStage(ctx, state.ID, stage.ID())
	}

	err := stage.Fit(stageCtx, f)
	if err == nil {
		err = stage.Transform(stageCtx, f)
	}

	if err != nil {
		stageState.Fail(err)
		if r.tracer != nil {
			r.tracer.EndStage(stageCtx, span, stage.ID(), stageState.Duration(), err)
		}
		r.logger.ErrorContext(ctx, "stage failed",
			slog.String("run_id", state.ID),
			slog.String("stage", stage.ID()),
			slog.String("error", err.Error()))
		return NewExecutionError(stage.ID(), err)
	}

	stageState.Complete()
	if r.tracer != nil {
		r.tracer.EndStage(stageCtx, span, stage.ID(), stageState.Duration(), nil)
	}
	r.logger.DebugContext(ctx, "stage completed",
		slog.String("run_id", state.ID),
		slog.String("stage", stage.ID()),
		slog.Duration("duration", stageState.Duration()))
	return nil
}

// countClaims tallies columns by their final claim tag.
func countClaims(f *frame.Frame) map[string]int {
	claims := make(map[string]int)
	for _, col := range f.Columns() {
		claims[string(col.Claim)]++
	}
	return claims
}
