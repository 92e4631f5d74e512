package validate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/model"
)

func stringTypes(cols ...string) map[string]model.ColumnTypeInfo {
	m := make(map[string]model.ColumnTypeInfo, len(cols))
	for _, c := range cols {
		m[c] = model.ColumnTypeInfo{Type: model.TypeString, Confidence: 1.0}
	}
	return m
}

func TestValidateCleanRows(t *testing.T) {
	t.Parallel()

	rows := []model.Row{
		{"a": "1", "b": "x"},
		{"a": "2", "b": "y"},
	}

	res := New(zap.NewNop()).Validate(rows, stringTypes("a", "b"), false, 2)

	assert.True(t, res.ValidationPassed)
	assert.Empty(t, res.Issues)
	assert.Equal(t, model.ValidationStats{}, res.Stats)
}

func TestValidateEmptyRow(t *testing.T) {
	t.Parallel()

	rows := []model.Row{
		{"a": "1", "b": "x"},
		{"a": "", "b": "N/A"}, // null tokens count as empty
	}

	res := New(zap.NewNop()).Validate(rows, stringTypes("a", "b"), false, 2)

	assert.Equal(t, 1, res.Stats.EmptyRows)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, model.SeverityWarning, res.Issues[0].Severity)
	require.NotNil(t, res.Issues[0].Row)
	assert.Equal(t, 1, *res.Issues[0].Row)
}

func TestValidateDuplicateRows(t *testing.T) {
	t.Parallel()

	rows := []model.Row{
		{"a": "1", "b": "x"},
		{"a": "2", "b": "y"},
		{"a": "1", "b": "x"},
		{"a": "1", "b": "x"},
	}

	res := New(zap.NewNop()).Validate(rows, stringTypes("a", "b"), false, 2)

	// One increment per repeat beyond the first occurrence.
	assert.Equal(t, 2, res.Stats.DuplicateRows)

	var dupes int
	for _, issue := range res.Issues {
		if issue.Severity == model.SeverityInfo {
			dupes++
			assert.Equal(t, "retained in output", issue.Action)
		}
	}
	assert.Equal(t, 2, dupes)
}

func TestValidateEmptyRowExcludedFromDuplicateCheck(t *testing.T) {
	t.Parallel()

	rows := []model.Row{
		{"a": "", "b": ""},
		{"a": "", "b": ""},
	}

	res := New(zap.NewNop()).Validate(rows, stringTypes("a", "b"), false, 2)

	assert.Equal(t, 2, res.Stats.EmptyRows)
	assert.Zero(t, res.Stats.DuplicateRows)
	assert.Zero(t, res.Stats.RaggedRows)
}

func TestValidateRaggedRow(t *testing.T) {
	t.Parallel()

	rows := []model.Row{
		{"a": "1", "b": "x", "c": "q"},
		{"a": "1", "b": "x", "c": ""}, // sparse row registers as ragged
	}

	res := New(zap.NewNop()).Validate(rows, stringTypes("a", "b", "c"), false, 3)

	assert.Equal(t, 1, res.Stats.RaggedRows)
}

func TestValidateTypeConflictIssues(t *testing.T) {
	t.Parallel()

	types := stringTypes("a")
	types["age"] = model.ColumnTypeInfo{
		Type:           model.TypeInt,
		Confidence:     0.9,
		Conflicts:      []string{"Row 1: 'oops' doesn't match int"},
		TotalConflicts: 1,
	}

	rows := []model.Row{{"a": "x", "age": "oops"}}
	res := New(zap.NewNop()).Validate(rows, types, false, 2)

	assert.Equal(t, 1, res.Stats.TypeConflicts)

	var found bool
	for _, issue := range res.Issues {
		if issue.Column == "age" {
			found = true
			assert.Equal(t, model.SeverityWarning, issue.Severity)
		}
	}
	assert.True(t, found)
}

func TestValidateConflictSurfaceCap(t *testing.T) {
	t.Parallel()

	conflicts := make([]string, 8)
	for i := range conflicts {
		conflicts[i] = fmt.Sprintf("Row %d: 'x' doesn't match int", i)
	}
	types := map[string]model.ColumnTypeInfo{
		"n": {Type: model.TypeInt, Confidence: 0.9, Conflicts: conflicts, TotalConflicts: 8},
	}

	res := New(zap.NewNop()).Validate(nil, types, false, 1)

	// Surfaced issues are capped per column; the stat keeps the total.
	assert.Len(t, res.Issues, conflictsPerColumn)
	assert.Equal(t, 8, res.Stats.TypeConflicts)
}

func TestValidateStrictMode(t *testing.T) {
	t.Parallel()

	rows := []model.Row{{"a": "", "b": ""}}

	lenient := New(zap.NewNop()).Validate(rows, stringTypes("a", "b"), false, 2)
	assert.True(t, lenient.ValidationPassed)

	strict := New(zap.NewNop()).Validate(rows, stringTypes("a", "b"), true, 2)
	assert.False(t, strict.ValidationPassed)
}

func TestValidateStrictPassesOnInfoOnly(t *testing.T) {
	t.Parallel()

	rows := []model.Row{
		{"a": "1", "b": "x"},
		{"a": "1", "b": "x"},
	}

	res := New(zap.NewNop()).Validate(rows, stringTypes("a", "b"), true, 2)

	// Duplicates are info severity: strict mode still passes.
	assert.Equal(t, 1, res.Stats.DuplicateRows)
	assert.True(t, res.ValidationPassed)
}

func TestRowHashOrderIndependence(t *testing.T) {
	t.Parallel()

	a := model.Row{"x": "1", "y": "2"}
	b := model.Row{"y": "2", "x": "1"}
	c := model.Row{"x": "1", "y": "3"}

	assert.Equal(t, rowHash(a), rowHash(b))
	assert.NotEqual(t, rowHash(a), rowHash(c))
}
