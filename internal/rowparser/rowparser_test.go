package rowparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/model"
)

func profileFor(t *testing.T, content string, columns []string, headerIdx int) *model.StructuralProfile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return &model.StructuralProfile{
		Path:           path,
		Encoding:       "utf-8",
		Delimiter:      ',',
		QuoteChar:      '"',
		HeaderRowIndex: headerIdx,
		ColumnCount:    len(columns),
		ColumnNames:    columns,
	}
}

func TestParseSkipsHeader(t *testing.T) {
	t.Parallel()

	profile := profileFor(t, "name,age\nAlice,30\nBob,25\n", []string{"name", "age"}, 0)

	rows, err := New(zap.NewNop()).Parse(profile)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, model.Row{"name": "Alice", "age": "30"}, rows[0])
	assert.Equal(t, model.Row{"name": "Bob", "age": "25"}, rows[1])
}

func TestParseNoHeader(t *testing.T) {
	t.Parallel()

	profile := profileFor(t, "1,2\n3,4\n", []string{"col_0", "col_1"}, model.HeaderNone)

	rows, err := New(zap.NewNop()).Parse(profile)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, model.Row{"col_0": "1", "col_1": "2"}, rows[0])
}

func TestParsePadsShortRows(t *testing.T) {
	t.Parallel()

	profile := profileFor(t, "a,b,c\n1,2\n", []string{"a", "b", "c"}, 0)

	rows, err := New(zap.NewNop()).Parse(profile)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, model.Row{"a": "1", "b": "2", "c": ""}, rows[0])
}

func TestParseTruncatesLongRows(t *testing.T) {
	t.Parallel()

	profile := profileFor(t, "a,b\n1,2,3,4\n", []string{"a", "b"}, 0)

	rows, err := New(zap.NewNop()).Parse(profile)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, model.Row{"a": "1", "b": "2"}, rows[0])
}

func TestParseRowWidthInvariant(t *testing.T) {
	t.Parallel()

	profile := profileFor(t, "a,b,c\n1\n1,2\n1,2,3\n1,2,3,4\n", []string{"a", "b", "c"}, 0)

	rows, err := New(zap.NewNop()).Parse(profile)
	require.NoError(t, err)

	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.Len(t, row, profile.ColumnCount)
	}
}

func TestParseSkipsEmptyRawRows(t *testing.T) {
	t.Parallel()

	profile := profileFor(t, "a,b\n1,2\n\n,\n3,4\n", []string{"a", "b"}, 0)

	rows, err := New(zap.NewNop()).Parse(profile)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "3", rows[1]["a"])
}

func TestParseStripsBOM(t *testing.T) {
	t.Parallel()

	profile := profileFor(t, "\ufeffa,b\n1,2\n", []string{"a", "b"}, 0)

	rows, err := New(zap.NewNop()).Parse(profile)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["a"])
}

func TestParseMissingFile(t *testing.T) {
	t.Parallel()

	profile := &model.StructuralProfile{
		Path:        filepath.Join(t.TempDir(), "gone.csv"),
		Encoding:    "utf-8",
		Delimiter:   ',',
		ColumnCount: 1,
		ColumnNames: []string{"a"},
	}

	_, err := New(zap.NewNop()).Parse(profile)
	require.Error(t, err)
}
