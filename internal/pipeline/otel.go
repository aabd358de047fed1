package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName identifies pipeline spans.
	TracerName = "tabprep.pipeline"
)

// Tracer provides OpenTelemetry instrumentation for pipeline runs: one
// span per run, one child span per stage, a stage duration histogram, and
// a counter of claimed columns labelled by semantic type.
type Tracer struct {
	tracer         trace.Tracer
	runsTotal      metric.Int64Counter
	stageDuration  metric.Float64Histogram
	columnsClaimed metric.Int64Counter
}

// NewTracer creates pipeline instrumentation on the given meter.
func NewTracer(meter metric.Meter) (*Tracer, error) {
	runsTotal, err := meter.Int64Counter("tabprep_pipeline_runs_total",
		metric.WithDescription("Total pipeline runs started"))
	if err != nil {
		return nil, fmt.Errorf("failed to create runs counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("tabprep_stage_duration_seconds",
		metric.WithDescription("Stage execution duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create stage duration histogram: %w", err)
	}

	columnsClaimed, err := meter.Int64Counter("tabprep_columns_claimed_total",
		metric.WithDescription("Columns claimed per semantic type"))
	if err != nil {
		return nil, fmt.Errorf("failed to create claim counter: %w", err)
	}

	return &Tracer{
		tracer:         otel.Tracer(TracerName),
		runsTotal:      runsTotal,
		stageDuration:  stageDuration,
		columnsClaimed: columnsClaimed,
	}, nil
}

// StartRun opens the run span and records the run counter.
func (t *Tracer) StartRun(ctx context.Context, runID string, rows, cols int) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("frame.rows", rows),
			attribute.Int("frame.columns", cols),
		),
	)
	t.runsTotal.Add(ctx, 1)
	return ctx, span
}

// StartStage opens a stage span under the run span.
func (t *Tracer) StartStage(ctx context.Context, runID, stageID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, fmt.Sprintf("pipeline.stage.%s", stageID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("stage.id", stageID),
		),
	)
}

// EndStage closes a stage span and records its duration.
func (t *Tracer) EndStage(ctx context.Context, span trace.Span, stageID string, d time.Duration, err error) {
	t.stageDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("stage.id", stageID)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordClaims records how many columns each semantic type ended up with.
func (t *Tracer) RecordClaims(ctx context.Context, claims map[string]int) {
	for typ, n := range claims {
		t.columnsClaimed.Add(ctx, int64(n),
			metric.WithAttributes(attribute.String("type", typ)))
	}
}
