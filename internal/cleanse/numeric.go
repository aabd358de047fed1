package cleanse

import (
	"context"
	"log/slog"

	"tabprep/internal/frame"
	"tabprep/internal/pipeline"
)

// NumericStage claims columns whose every non-missing cell parses as a
// float. On acceptance, non-missing cells become parsed float values and
// missing cells become the empty string. A column with zero non-missing
// cells is never claimed here; ownership of all-missing columns belongs to
// the text stage.
type NumericStage struct {
	pipeline.BaseStage
	logger  *slog.Logger
	workers int
}

// NewNumericStage creates the numeric transformer stage.
func NewNumericStage(logger *slog.Logger, opts Options) *NumericStage {
	if logger != nil {
		logger = logger.With(slog.String("stage", StageIDNumeric))
	}
	return &NumericStage{
		BaseStage: pipeline.NewBaseStage(StageIDNumeric, StageNameNumeric),
		logger:    logger,
		workers:   opts.Workers,
	}
}

// Transform attempts the numeric claim on every unclaimed column.
func (s *NumericStage) Transform(ctx context.Context, f *frame.Frame) error {
	return forEachUnclaimed(ctx, f, s.workers, func(col *frame.Column) error {
		res := claimNumeric(col)
		if !res.accepted {
			return nil
		}
		col.Cells = res.cells
		col.Claim = frame.ClaimNumeric
		if s.logger != nil {
			s.logger.Debug("column claimed", slog.String("column", col.Name))
		}
		return nil
	})
}

// claimNumeric attempts the all-or-nothing numeric coercion of one column.
// The first cell that fails to parse rejects the whole attempt, leaving
// the caller's column untouched.
func claimNumeric(col *frame.Column) claimResult {
	cells := make([]frame.Value, len(col.Cells))
	nonMissing := 0
	for i, v := range col.Cells {
		if v.IsMissing() {
			cells[i] = frame.Text("")
			continue
		}
		f, ok := CoerceFloat(v.AsText())
		if !ok {
			return rejected
		}
		cells[i] = frame.Float(f)
		nonMissing++
	}
	if nonMissing == 0 {
		return rejected
	}
	return claimResult{accepted: true, cells: cells}
}
