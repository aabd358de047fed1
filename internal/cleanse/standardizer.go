package cleanse

import (
	"context"
	"log/slog"
	"strings"

	"tabprep/internal/frame"
	"tabprep/internal/pipeline"
)

// Standardizer is the column-agnostic first pass. It rewrites every cell
// to a canonical intermediate form: null-vocabulary tokens and whitespace
// become the missing marker, boolean spellings become the canonical
// "True"/"False" text form, and everything else becomes its trimmed text
// form. No column-level type decision happens here; the stage only
// normalizes the alphabet the typed transformers will see.
type Standardizer struct {
	pipeline.BaseStage
	logger  *slog.Logger
	workers int
}

// NewStandardizer creates the standardizer stage.
func NewStandardizer(logger *slog.Logger, opts Options) *Standardizer {
	if logger != nil {
		logger = logger.With(slog.String("stage", StageIDStandardize))
	}
	return &Standardizer{
		BaseStage: pipeline.NewBaseStage(StageIDStandardize, StageNameStandardize),
		logger:    logger,
		workers:   opts.Workers,
	}
}

// Transform normalizes every cell in every unclaimed column. It accepts
// any input representation and cannot fail on cell content; unrecognized
// tokens pass through as trimmed text.
func (s *Standardizer) Transform(ctx context.Context, f *frame.Frame) error {
	return forEachUnclaimed(ctx, f, s.workers, func(col *frame.Column) error {
		missing := 0
		for i, v := range col.Cells {
			cell := standardizeCell(v)
			if cell.IsMissing() {
				missing++
			}
			col.Cells[i] = cell
		}
		if s.logger != nil {
			s.logger.Debug("column standardized",
				slog.String("column", col.Name),
				slog.Int("missing", missing))
		}
		return nil
	})
}

// standardizeCell maps one raw cell to the canonical intermediate form.
func standardizeCell(v frame.Value) frame.Value {
	if v.IsMissing() {
		return v
	}
	s := strings.TrimSpace(v.AsText())
	if IsNullToken(s) {
		return frame.Missing()
	}
	if canonical, ok := CanonicalBoolToken(s); ok {
		return frame.Text(canonical)
	}
	return frame.Text(s)
}
