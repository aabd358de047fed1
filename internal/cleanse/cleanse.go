package cleanse

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"tabprep/internal/frame"
	"tabprep/internal/pipeline"
)

// Stage identifiers, listed in execution order.
const (
	StageIDStandardize = "standardize"
	StageIDNumeric     = "numeric"
	StageIDDate        = "date"
	StageIDBoolean     = "boolean"
	StageIDText        = "text"
)

// Stage display names.
const (
	StageNameStandardize = "Standardizer"
	StageNameNumeric     = "Numeric Transformer"
	StageNameDate        = "Date Transformer"
	StageNameBoolean     = "Boolean Transformer"
	StageNameText        = "Text Transformer"
)

// Options configures the cleansing stages.
type Options struct {
	// Workers bounds the per-column fan-out within a stage. Zero means
	// GOMAXPROCS. Column decisions are independent, so the fan-out never
	// changes the result, only the wall time.
	Workers int
}

// NewPipeline builds a runner with the five cleansing stages registered in
// the canonical order: standardize, numeric, date, boolean, text.
//
// The boolean stage deliberately runs before the text stage. The text
// stage is a total catch-all, so placing it earlier would claim every
// remaining column and the boolean stage could never accept anything;
// boolean columns would silently degrade to text. The ordering here is the
// only one under which all four typed stages are reachable, and it is
// pinned by tests.
func NewPipeline(logger *slog.Logger, opts Options, runnerOpts ...pipeline.RunnerOption) (*pipeline.Runner, error) {
	registry := pipeline.NewRegistry()
	stages := []pipeline.Stage{
		NewStandardizer(logger, opts),
		NewNumericStage(logger, opts),
		NewDateStage(logger, opts),
		NewBooleanStage(logger, opts),
		NewTextStage(logger, opts),
	}
	for _, stage := range stages {
		if err := registry.Register(stage); err != nil {
			return nil, err
		}
	}
	return pipeline.NewRunner(registry, logger, runnerOpts...), nil
}

// claimResult is the outcome of a transformer's attempt on one column:
// either the full set of coerced cells, or a rejection. Rejection is a
// value, not an error; the caller branches on it and leaves the column
// untouched.
type claimResult struct {
	accepted bool
	cells    []frame.Value
}

// rejected is the zero claim result.
var rejected = claimResult{}

// forEachUnclaimed runs fn over every unclaimed column, fanning out across
// a bounded worker group. Each column's rewrite is local to that column,
// so the fan-out shares no mutable state and the output is deterministic
// regardless of scheduling.
func forEachUnclaimed(ctx context.Context, f *frame.Frame, workers int, fn func(col *frame.Column) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, col := range f.Columns() {
		if col.Claimed() {
			continue
		}
		col := col
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(col)
		})
	}
	return g.Wait()
}
