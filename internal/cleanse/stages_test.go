package cleanse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabprep/internal/cleanse"
	"tabprep/internal/frame"
	"tabprep/internal/pipeline"
)

// runCleanse builds a frame from raw text columns, runs the full pipeline,
// and returns the frame.
func runCleanse(t *testing.T, columns map[string][]string, order []string) *frame.Frame {
	t.Helper()

	f := frame.New()
	for _, name := range order {
		raw := columns[name]
		cells := make([]frame.Value, len(raw))
		for i, s := range raw {
			cells[i] = frame.Text(s)
		}
		require.NoError(t, f.AddColumn(name, cells))
	}

	runner, err := cleanse.NewPipeline(discardLogger(), cleanse.Options{})
	require.NoError(t, err)

	state, err := runner.Run(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, pipeline.RunStatusCompleted, state.CurrentStatus())
	return f
}

func runCleanseColumn(t *testing.T, raw []string) *frame.Column {
	t.Helper()
	f := runCleanse(t, map[string][]string{"c": raw}, []string{"c"})
	col, ok := f.Column("c")
	require.True(t, ok)
	return col
}

func TestNumericColumnClaimed(t *testing.T) {
	col := runCleanseColumn(t, []string{"123", "NA", "20"})

	assert.Equal(t, frame.ClaimNumeric, col.Claim)

	v, ok := col.Cells[0].Float()
	require.True(t, ok)
	assert.Equal(t, 123.0, v)

	// The missing cell becomes the numeric empty representation.
	s, ok := col.Cells[1].Text()
	require.True(t, ok)
	assert.Equal(t, "", s)

	v, ok = col.Cells[2].Float()
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
}

func TestDateColumnClaimed(t *testing.T) {
	col := runCleanseColumn(t, []string{"2023-07-17", "20230717", "nan"})

	assert.Equal(t, frame.ClaimDate, col.Claim)

	s, _ := col.Cells[0].Text()
	assert.Equal(t, "2023-07-17", s)

	s, _ = col.Cells[1].Text()
	assert.Equal(t, "2023-07-17", s)

	// The missing cell becomes the date empty representation.
	s, _ = col.Cells[2].Text()
	assert.Equal(t, " ", s)
}

func TestBooleanColumnClaimed(t *testing.T) {
	col := runCleanseColumn(t, []string{"True", "false", "TRUE"})

	assert.Equal(t, frame.ClaimBoolean, col.Claim)

	want := []bool{true, false, true}
	for i, w := range want {
		b, ok := col.Cells[i].Bool()
		require.True(t, ok, "cell %d should be a native boolean", i)
		assert.Equal(t, w, b)
	}
}

func TestBooleanColumnWithMissing(t *testing.T) {
	col := runCleanseColumn(t, []string{"True", "NA", "False"})

	assert.Equal(t, frame.ClaimBoolean, col.Claim)

	s, ok := col.Cells[1].Text()
	require.True(t, ok)
	assert.Equal(t, "", s)
}

func TestMixedColumnFallsThroughToText(t *testing.T) {
	col := runCleanseColumn(t, []string{"abc", "cde", "12"})

	assert.Equal(t, frame.ClaimText, col.Claim)

	want := []string{"abc", "cde", "12"}
	for i, w := range want {
		s, ok := col.Cells[i].Text()
		require.True(t, ok)
		assert.Equal(t, w, s)
	}
}

func TestAllMissingColumnOwnedByText(t *testing.T) {
	// A column with zero non-missing cells is vacuously parseable by every
	// typed stage, but only the text stage may own it.
	col := runCleanseColumn(t, []string{"NA", "None", "  "})

	assert.Equal(t, frame.ClaimText, col.Claim)
	for i := range col.Cells {
		s, ok := col.Cells[i].Text()
		require.True(t, ok)
		assert.Equal(t, " ", s, "cell %d", i)
	}
}

func TestCompactDateNotSwallowedByNumeric(t *testing.T) {
	// Compact dates parse as floats, but the numeric stage must leave them
	// for the date stage.
	col := runCleanseColumn(t, []string{"20230629", "20230630"})
	assert.Equal(t, frame.ClaimDate, col.Claim)
}

func TestSingleBadCellRejectsWholeColumn(t *testing.T) {
	// One unparseable cell disqualifies the column; no partial coercion.
	col := runCleanseColumn(t, []string{"1", "2", "x"})

	assert.Equal(t, frame.ClaimText, col.Claim)
	s, _ := col.Cells[0].Text()
	assert.Equal(t, "1", s)
}

func TestShapePreservation(t *testing.T) {
	columns := map[string][]string{
		"Numerical": {"123", " ", "NA", "20"},
		"Boolean":   {"True", "", "false", "FALSE"},
		"Character": {"abc", "None", "cde", "234"},
		"Date":      {"2023-06-28", "N.A.", "20230629", "2023/06/30"},
	}
	order := []string{"Numerical", "Boolean", "Character", "Date"}

	f := runCleanse(t, columns, order)

	assert.Equal(t, 4, f.Rows())
	assert.Equal(t, 4, f.Cols())
	for i, col := range f.Columns() {
		assert.Equal(t, order[i], col.Name)
		assert.Len(t, col.Cells, 4)
	}

	numCol, _ := f.Column("Numerical")
	assert.Equal(t, frame.ClaimNumeric, numCol.Claim)
	boolCol, _ := f.Column("Boolean")
	assert.Equal(t, frame.ClaimBoolean, boolCol.Claim)
	textCol, _ := f.Column("Character")
	assert.Equal(t, frame.ClaimText, textCol.Claim)
	dateCol, _ := f.Column("Date")
	assert.Equal(t, frame.ClaimDate, dateCol.Claim)
}

func TestEveryColumnEndsClaimed(t *testing.T) {
	f := runCleanse(t, map[string][]string{
		"a": {"1", "2"},
		"b": {"x", "y"},
		"c": {"NA", "NA"},
	}, []string{"a", "b", "c"})

	for _, col := range f.Columns() {
		assert.True(t, col.Claimed(), "column %s must end in a terminal state", col.Name)
	}
}

func TestClaimedColumnIsTerminal(t *testing.T) {
	// A pre-claimed column must pass through every stage untouched.
	f := frame.New()
	original := []frame.Value{frame.Text("True"), frame.Text("False")}
	cells := make([]frame.Value, len(original))
	copy(cells, original)
	require.NoError(t, f.AddColumn("locked", cells))
	col, _ := f.Column("locked")
	col.Claim = frame.ClaimText

	runner, err := cleanse.NewPipeline(discardLogger(), cleanse.Options{})
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, frame.ClaimText, col.Claim)
	for i := range original {
		assert.True(t, col.Cells[i].Equal(original[i]), "cell %d changed", i)
	}
}

func TestBooleanStageRunsBeforeTextStage(t *testing.T) {
	// With the text stage first, its catch-all would claim every column
	// and the boolean stage could never accept anything. The pipeline
	// order pins boolean ahead of text so boolean columns do not degrade
	// to strings.
	runner, err := cleanse.NewPipeline(discardLogger(), cleanse.Options{})
	require.NoError(t, err)
	_ = runner

	f := runCleanse(t, map[string][]string{"b": {"True", "False"}}, []string{"b"})
	col, _ := f.Column("b")
	assert.Equal(t, frame.ClaimBoolean, col.Claim)
}

func TestPipelineStageOrder(t *testing.T) {
	registry := pipeline.NewRegistry()
	stages := []pipeline.Stage{
		cleanse.NewStandardizer(discardLogger(), cleanse.Options{}),
		cleanse.NewNumericStage(discardLogger(), cleanse.Options{}),
		cleanse.NewDateStage(discardLogger(), cleanse.Options{}),
		cleanse.NewBooleanStage(discardLogger(), cleanse.Options{}),
		cleanse.NewTextStage(discardLogger(), cleanse.Options{}),
	}
	for _, s := range stages {
		require.NoError(t, registry.Register(s))
	}

	want := []string{
		cleanse.StageIDStandardize,
		cleanse.StageIDNumeric,
		cleanse.StageIDDate,
		cleanse.StageIDBoolean,
		cleanse.StageIDText,
	}
	assert.Equal(t, want, registry.ListIDs())
}

func TestIdempotence(t *testing.T) {
	columns := map[string][]string{
		"n": {"123", "NA", "2.5"},
		"d": {"2023-07-17", "20230717", "nan"},
		"b": {"True", "false", ""},
		"s": {"abc", "cde", "12"},
	}
	order := []string{"n", "d", "b", "s"}

	first := runCleanse(t, columns, order)

	// Running again over the already-typed frame changes nothing: every
	// column is claimed, so every stage skips it.
	snapshot := first.Clone()
	runner, err := cleanse.NewPipeline(discardLogger(), cleanse.Options{})
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), first)
	require.NoError(t, err)

	for _, col := range first.Columns() {
		snapCol, _ := snapshot.Column(col.Name)
		require.Equal(t, snapCol.Claim, col.Claim)
		for i := range col.Cells {
			assert.True(t, col.Cells[i].Equal(snapCol.Cells[i]),
				"column %s cell %d drifted", col.Name, i)
		}
	}

	// A round trip through text records and a fresh pipeline also
	// reproduces the same output: a fully typed table is a fixed point.
	header, records := first.Records()
	rebuilt, err := frame.FromRecords(header, records)
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), rebuilt)
	require.NoError(t, err)

	_, firstRecords := first.Records()
	_, rebuiltRecords := rebuilt.Records()
	assert.Equal(t, firstRecords, rebuiltRecords)
}

func TestParallelRunsAreDeterministic(t *testing.T) {
	columns := map[string][]string{
		"a": {"1", "2", "3"},
		"b": {"2023-01-01", "NA", "20230202"},
		"c": {"x", "y", "z"},
		"d": {"True", "False", "NA"},
		"e": {"NA", "", " "},
	}
	order := []string{"a", "b", "c", "d", "e"}

	serial := runCleanse(t, columns, order)

	f := frame.New()
	for _, name := range order {
		raw := columns[name]
		cells := make([]frame.Value, len(raw))
		for i, s := range raw {
			cells[i] = frame.Text(s)
		}
		require.NoError(t, f.AddColumn(name, cells))
	}
	runner, err := cleanse.NewPipeline(discardLogger(), cleanse.Options{Workers: 4})
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), f)
	require.NoError(t, err)

	_, serialRecords := serial.Records()
	_, parallelRecords := f.Records()
	assert.Equal(t, serialRecords, parallelRecords)
}

func TestZeroRowFrame(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddColumn("empty", nil))

	runner, err := cleanse.NewPipeline(discardLogger(), cleanse.Options{})
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), f)
	require.NoError(t, err)

	// Zero non-missing cells: the text stage owns it.
	col, _ := f.Column("empty")
	assert.Equal(t, frame.ClaimText, col.Claim)
	assert.Equal(t, 0, f.Rows())
}
