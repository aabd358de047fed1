package cleanse

import (
	"context"
	"log/slog"

	"tabprep/internal/frame"
	"tabprep/internal/pipeline"
)

// BooleanStage claims columns whose every non-missing cell is a boolean
// spelling. Post-standardizer those are already the canonical "True" and
// "False" tokens. On acceptance, non-missing cells become native booleans
// and missing cells become the empty string. All-missing columns are never
// claimed here.
//
// This stage must run before the text stage; see NewPipeline.
type BooleanStage struct {
	pipeline.BaseStage
	logger  *slog.Logger
	workers int
}

// NewBooleanStage creates the boolean transformer stage.
func NewBooleanStage(logger *slog.Logger, opts Options) *BooleanStage {
	if logger != nil {
		logger = logger.With(slog.String("stage", StageIDBoolean))
	}
	return &BooleanStage{
		BaseStage: pipeline.NewBaseStage(StageIDBoolean, StageNameBoolean),
		logger:    logger,
		workers:   opts.Workers,
	}
}

// Transform attempts the boolean claim on every unclaimed column.
func (s *BooleanStage) Transform(ctx context.Context, f *frame.Frame) error {
	return forEachUnclaimed(ctx, f, s.workers, func(col *frame.Column) error {
		res := claimBoolean(col)
		if !res.accepted {
			return nil
		}
		col.Cells = res.cells
		col.Claim = frame.ClaimBoolean
		if s.logger != nil {
			s.logger.Debug("column claimed", slog.String("column", col.Name))
		}
		return nil
	})
}

// claimBoolean attempts the all-or-nothing boolean coercion of one column.
func claimBoolean(col *frame.Column) claimResult {
	cells := make([]frame.Value, len(col.Cells))
	nonMissing := 0
	for i, v := range col.Cells {
		if v.IsMissing() {
			cells[i] = frame.Text("")
			continue
		}
		b, ok := CoerceBool(v.AsText())
		if !ok {
			return rejected
		}
		cells[i] = frame.Bool(b)
		nonMissing++
	}
	if nonMissing == 0 {
		return rejected
	}
	return claimResult{accepted: true, cells: cells}
}
