package frame

import (
	"fmt"
)

// Claim records which semantic type, if any, has accepted a column. A
// column starts Unclaimed; the first stage whose acceptance rule passes
// sets the claim, and a claimed column is terminal: later stages must
// leave it untouched.
type Claim string

const (
	ClaimNone    Claim = "unclaimed"
	ClaimNumeric Claim = "numeric"
	ClaimDate    Claim = "date"
	ClaimText    Claim = "text"
	ClaimBoolean Claim = "boolean"
)

// Column holds an ordered sequence of cells under a name unique within its
// frame, plus the claim tag set by the stage that accepted it.
type Column struct {
	Name  string
	Claim Claim
	Cells []Value
}

// Claimed reports whether a stage has already accepted this column.
func (c *Column) Claimed() bool {
	return c.Claim != ClaimNone && c.Claim != ""
}

// NonMissing counts cells that are not the missing marker.
func (c *Column) NonMissing() int {
	n := 0
	for _, v := range c.Cells {
		if !v.IsMissing() {
			n++
		}
	}
	return n
}

// Frame is an ordered collection of equal-length named columns.
type Frame struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New creates an empty frame. The row count is fixed by the first column
// added.
func New() *Frame {
	return &Frame{index: make(map[string]int)}
}

// AddColumn appends an unclaimed column. It fails on a duplicate name or a
// length that disagrees with the columns already present; continuing past
// either would silently corrupt row alignment.
func (f *Frame) AddColumn(name string, cells []Value) error {
	if name == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if _, exists := f.index[name]; exists {
		return fmt.Errorf("duplicate column name %q", name)
	}
	if len(f.cols) > 0 && len(cells) != f.rows {
		return fmt.Errorf("column %q has %d rows, frame has %d", name, len(cells), f.rows)
	}
	if len(f.cols) == 0 {
		f.rows = len(cells)
	}
	f.index[name] = len(f.cols)
	f.cols = append(f.cols, &Column{Name: name, Claim: ClaimNone, Cells: cells})
	return nil
}

// Columns returns the columns in their original order. The slice and the
// columns it points to are the frame's own; stages mutate them in place.
func (f *Frame) Columns() []*Column {
	return f.cols
}

// Column returns the named column, or false if absent.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Rows returns the fixed row count.
func (f *Frame) Rows() int { return f.rows }

// Cols returns the column count.
func (f *Frame) Cols() int { return len(f.cols) }

// Validate checks the structural invariants the pipeline assumes: every
// column present in the index, no ragged lengths. Violations are hard
// failures for the caller; the pipeline refuses to run on a malformed
// frame.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("frame is nil")
	}
	for _, col := range f.cols {
		if len(col.Cells) != f.rows {
			return fmt.Errorf("column %q has %d rows, frame has %d", col.Name, len(col.Cells), f.rows)
		}
		if i, ok := f.index[col.Name]; !ok || f.cols[i] != col {
			return fmt.Errorf("column %q missing from frame index", col.Name)
		}
	}
	return nil
}

// FromRecords builds a frame from a header row and raw text records, the
// shape produced by CSV and XLSX readers. Short records are padded with
// missing markers so ragged input files still load; long records are a
// hard error.
func FromRecords(header []string, records [][]string) (*Frame, error) {
	f := New()
	cells := make([][]Value, len(header))
	for i := range cells {
		cells[i] = make([]Value, len(records))
	}
	for r, rec := range records {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("record %d has %d fields, header has %d", r, len(rec), len(header))
		}
		for c := range header {
			if c < len(rec) {
				cells[c][r] = Text(rec[c])
			} else {
				cells[c][r] = Missing()
			}
		}
	}
	for i, name := range header {
		if err := f.AddColumn(name, cells[i]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Records renders the frame back to a header row and text records, for CSV
// output. Missing markers render as empty fields; typed cells use their
// canonical string form.
func (f *Frame) Records() ([]string, [][]string) {
	header := make([]string, len(f.cols))
	for i, col := range f.cols {
		header[i] = col.Name
	}
	records := make([][]string, f.rows)
	for r := 0; r < f.rows; r++ {
		rec := make([]string, len(f.cols))
		for c, col := range f.cols {
			rec[c] = col.Cells[r].AsText()
		}
		records[r] = rec
	}
	return header, records
}

// Clone returns a deep copy, used by tests to compare pre- and post-run
// state.
func (f *Frame) Clone() *Frame {
	out := New()
	for _, col := range f.cols {
		cells := make([]Value, len(col.Cells))
		copy(cells, col.Cells)
		// AddColumn cannot fail here: names and lengths were already valid.
		_ = out.AddColumn(col.Name, cells)
		out.cols[len(out.cols)-1].Claim = col.Claim
	}
	return out
}
