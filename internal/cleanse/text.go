package cleanse

import (
	"context"
	"log/slog"
	"strings"

	"tabprep/internal/frame"
	"tabprep/internal/pipeline"
)

// TextStage is the catch-all for every column no earlier stage claimed,
// including all-missing columns and columns with irreducibly mixed
// content. Non-missing cells keep their trimmed text form and missing
// cells become a single space. The stage never rejects a column, which is
// why it runs last: every column that reaches it ends up typed, and no
// column ever ends a run unclaimed.
type TextStage struct {
	pipeline.BaseStage
	logger  *slog.Logger
	workers int
}

// NewTextStage creates the text transformer stage.
func NewTextStage(logger *slog.Logger, opts Options) *TextStage {
	if logger != nil {
		logger = logger.With(slog.String("stage", StageIDText))
	}
	return &TextStage{
		BaseStage: pipeline.NewBaseStage(StageIDText, StageNameText),
		logger:    logger,
		workers:   opts.Workers,
	}
}

// Transform claims every remaining unclaimed column.
func (s *TextStage) Transform(ctx context.Context, f *frame.Frame) error {
	return forEachUnclaimed(ctx, f, s.workers, func(col *frame.Column) error {
		for i, v := range col.Cells {
			if v.IsMissing() {
				col.Cells[i] = frame.Text(" ")
				continue
			}
			col.Cells[i] = frame.Text(strings.TrimSpace(v.AsText()))
		}
		col.Claim = frame.ClaimText
		if s.logger != nil {
			s.logger.Debug("column claimed", slog.String("column", col.Name))
		}
		return nil
	})
}
