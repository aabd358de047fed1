package cleanse

import (
	"context"
	"log/slog"

	"tabprep/internal/frame"
	"tabprep/internal/pipeline"
)

// DateStage claims columns whose every non-missing cell parses as a
// calendar date in one of the supported ISO-like forms. On acceptance,
// non-missing cells are rewritten to the canonical YYYY-MM-DD text form
// (text rather than a native date, keeping the column interop-friendly)
// and missing cells become a single space, preserving column width in
// rendered output. All-missing columns are never claimed here.
type DateStage struct {
	pipeline.BaseStage
	logger  *slog.Logger
	workers int
}

// NewDateStage creates the date transformer stage.
func NewDateStage(logger *slog.Logger, opts Options) *DateStage {
	if logger != nil {
		logger = logger.With(slog.String("stage", StageIDDate))
	}
	return &DateStage{
		BaseStage: pipeline.NewBaseStage(StageIDDate, StageNameDate),
		logger:    logger,
		workers:   opts.Workers,
	}
}

// Transform attempts the date claim on every unclaimed column.
func (s *DateStage) Transform(ctx context.Context, f *frame.Frame) error {
	return forEachUnclaimed(ctx, f, s.workers, func(col *frame.Column) error {
		res := claimDate(col)
		if !res.accepted {
			return nil
		}
		col.Cells = res.cells
		col.Claim = frame.ClaimDate
		if s.logger != nil {
			s.logger.Debug("column claimed", slog.String("column", col.Name))
		}
		return nil
	})
}

// claimDate attempts the all-or-nothing date coercion of one column.
func claimDate(col *frame.Column) claimResult {
	cells := make([]frame.Value, len(col.Cells))
	nonMissing := 0
	for i, v := range col.Cells {
		if v.IsMissing() {
			cells[i] = frame.Text(" ")
			continue
		}
		canonical, ok := CoerceDate(v.AsText())
		if !ok {
			return rejected
		}
		cells[i] = frame.Text(canonical)
		nonMissing++
	}
	if nonMissing == 0 {
		return rejected
	}
	return claimResult{accepted: true, cells: cells}
}
