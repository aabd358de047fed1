package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"tabprep/internal/cleanse"
	apierrors "tabprep/internal/errors"
	"tabprep/internal/files"
	"tabprep/internal/frame"
	"tabprep/internal/pipeline"
)

// CleanseRequest holds the per-request options parsed from the query
// string.
type CleanseRequest struct {
	// Output selects the response: the cleaned table as CSV, or a JSON
	// report of the per-column type decisions.
	Output string `validate:"oneof=csv report"`
	// BOM prepends a UTF-8 BOM to CSV output for Excel.
	BOM bool
}

// ColumnReport describes one column's outcome in a report response.
type ColumnReport struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Missing int    `json:"missing"`
}

// CleanseReport is the JSON report response.
type CleanseReport struct {
	RunID   string         `json:"run_id"`
	Rows    int            `json:"rows"`
	Columns []ColumnReport `json:"columns"`
}

// CleanseHandler handles cleanse HTTP requests. Each request builds and
// runs a fresh pipeline; the stages are stateless, so nothing is shared
// between requests.
type CleanseHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	opts     cleanse.Options
	tracer   *pipeline.Tracer
	maxBody  int64
}

// NewCleanseHandler creates a cleanse handler.
func NewCleanseHandler(logger *slog.Logger, opts cleanse.Options, tracer *pipeline.Tracer, maxBody int64) *CleanseHandler {
	return &CleanseHandler{
		logger:   logger.With(slog.String("handler", "cleanse")),
		validate: validator.New(),
		opts:     opts,
		tracer:   tracer,
		maxBody:  maxBody,
	}
}

// Cleanse handles POST /api/v1/cleanse. The body is CSV, either raw or as
// a multipart "file" part.
func (h *CleanseHandler) Cleanse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, apiErr := h.parseRequest(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	f, apiErr := h.readFrame(w, r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	var runnerOpts []pipeline.RunnerOption
	if h.tracer != nil {
		runnerOpts = append(runnerOpts, pipeline.WithTracer(h.tracer))
	}
	runner, err := cleanse.NewPipeline(h.logger, h.opts, runnerOpts...)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build pipeline", slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrInternalServer))
		return
	}

	state, err := runner.Run(ctx, f)
	if err != nil {
		h.logger.ErrorContext(ctx, "pipeline run failed",
			slog.String("run_id", state.ID),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrPipelineExecution(err)))
		return
	}

	switch req.Output {
	case "report":
		render.JSON(w, r, buildReport(state.ID, f))
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if err := files.WriteCSV(w, f, files.WriteOptions{BOMPrefix: req.BOM}); err != nil {
			h.logger.ErrorContext(ctx, "failed to write response",
				slog.String("run_id", state.ID),
				slog.String("error", err.Error()))
		}
	}
}

// parseRequest parses and validates the query options.
func (h *CleanseHandler) parseRequest(r *http.Request) (*CleanseRequest, *apierrors.APIError) {
	req := &CleanseRequest{Output: "csv"}
	q := r.URL.Query()

	if v := q.Get("output"); v != "" {
		req.Output = v
	}
	if v := q.Get("bom"); v != "" {
		bom, err := strconv.ParseBool(v)
		if err != nil {
			return nil, apierrors.ErrValidation("bom", "must be a boolean")
		}
		req.BOM = bom
	}

	if err := h.validate.Struct(req); err != nil {
		return nil, apierrors.ErrValidation("output", "must be one of: csv, report")
	}
	return req, nil
}

// readFrame loads the CSV body, raw or multipart, into a frame. The body
// is capped at maxBody bytes for both branches; ParseMultipartForm's
// argument is only a memory threshold and enforces nothing.
func (h *CleanseHandler) readFrame(w http.ResponseWriter, r *http.Request) (*frame.Frame, *apierrors.APIError) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxBody); err != nil {
			if isBodyTooLarge(err) {
				return nil, apierrors.ErrPayloadTooLarge
			}
			return nil, apierrors.InvalidRequestWithError(err)
		}
		part, _, err := r.FormFile("file")
		if err != nil {
			return nil, apierrors.ErrValidation("file", "multipart request must carry a \"file\" part")
		}
		defer part.Close()
		f, err := files.ReadCSV(part)
		if err != nil {
			return nil, apierrors.ErrMalformedTable(err)
		}
		return f, nil
	}

	f, err := files.ReadCSV(r.Body)
	if err != nil {
		if isBodyTooLarge(err) {
			return nil, apierrors.ErrPayloadTooLarge
		}
		return nil, apierrors.ErrMalformedTable(err)
	}
	return f, nil
}

// isBodyTooLarge reports whether err came from the MaxBytesReader cap.
func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// buildReport summarizes the per-column claims of a completed run. A
// single-space text cell in a date or text column is that type's missing
// representation; genuine single-space content cannot survive the
// standardizer, so the count is exact.
func buildReport(runID string, f *frame.Frame) *CleanseReport {
	report := &CleanseReport{
		RunID:   runID,
		Rows:    f.Rows(),
		Columns: make([]ColumnReport, 0, f.Cols()),
	}
	for _, col := range f.Columns() {
		report.Columns = append(report.Columns, ColumnReport{
			Name:    col.Name,
			Type:    string(col.Claim),
			Missing: countMissing(col),
		})
	}
	return report
}

// countMissing counts cells holding the column type's empty
// representation.
func countMissing(col *frame.Column) int {
	n := 0
	for _, v := range col.Cells {
		switch col.Claim {
		case frame.ClaimNumeric, frame.ClaimBoolean:
			if s, ok := v.Text(); ok && s == "" {
				n++
			}
		case frame.ClaimDate, frame.ClaimText:
			if s, ok := v.Text(); ok && s == " " {
				n++
			}
		default:
			if v.IsMissing() {
				n++
			}
		}
	}
	return n
}
