package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/model"
)

func sampleFiles() []model.FileMetadata {
	row := 1
	return []model.FileMetadata{
		{
			Input:       "/data/good.csv",
			Output:      "/out/good.json",
			Encoding:    "utf-8",
			RowCount:    10,
			ColumnCount: 3,
			Types: map[string]model.ColumnTypeInfo{
				"age": {Type: model.TypeInt, Confidence: 0.9, TotalConflicts: 1},
			},
			Issues: []model.ValidationIssue{
				{Row: &row, Issue: "Duplicate of row 0", Severity: model.SeverityInfo, Action: "retained in output"},
			},
			Stats: model.ValidationStats{DuplicateRows: 1, TypeConflicts: 1},
		},
		{
			Input: "/data/bad.csv",
			Error: "no readable rows",
		},
	}
}

func TestBuildTotals(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	s := Build("run-1", now, now, sampleFiles())

	assert.Equal(t, 2, s.TotalFiles)
	assert.Equal(t, 1, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 10, s.TotalRows)
	assert.Equal(t, 1, s.TotalIssues)
}

func TestSummarizeWritesArtifacts(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	s := Build("run-1", now, now, sampleFiles())

	dir := t.TempDir()
	summaryPath, reportPath, err := New(zap.NewNop()).Summarize(s, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "run_summary.json"), summaryPath)
	assert.Equal(t, filepath.Join(dir, "validation_report.md"), reportPath)

	data, err := os.ReadFile(summaryPath)
	require.NoError(t, err)

	var decoded model.RunSummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	require.Len(t, decoded.Files, 2)
	assert.Equal(t, "no readable rows", decoded.Files[1].Error)
}

func TestMarkdownReportContent(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	s := Build("run-1", now, now, sampleFiles())

	md := New(zap.NewNop()).renderMarkdown(s)

	assert.Contains(t, md, "# Validation Report")
	assert.Contains(t, md, "Files processed: 2")
	assert.Contains(t, md, "/data/good.csv")
	assert.Contains(t, md, "`age`: int (confidence 0.90")
	// Failed files render as failure entries, never abort the summary.
	assert.Contains(t, md, "**FAILED**: no readable rows")
	assert.Contains(t, md, "## Recommendations")
	assert.Contains(t, md, "Duplicate rows detected")
	assert.Contains(t, md, "Type conflicts detected")
	assert.Contains(t, md, "Some files failed to convert")
}

func TestMarkdownTopIssuesCap(t *testing.T) {
	t.Parallel()

	issues := make([]model.ValidationIssue, 8)
	for i := range issues {
		r := i
		issues[i] = model.ValidationIssue{Row: &r, Issue: "Empty row", Severity: model.SeverityWarning, Action: "skipped"}
	}
	files := []model.FileMetadata{{
		Input:  "/data/a.csv",
		Output: "/out/a.json",
		Issues: issues,
		Stats:  model.ValidationStats{EmptyRows: 8},
	}}

	now := time.Now().UTC()
	md := New(zap.NewNop()).renderMarkdown(Build("run-1", now, now, files))

	assert.Contains(t, md, "... and 3 more")
	assert.Contains(t, md, "Empty rows detected")
}

func TestRecommendationsEmptyForCleanRun(t *testing.T) {
	t.Parallel()

	files := []model.FileMetadata{{Input: "/data/a.csv", Output: "/out/a.json", RowCount: 1}}
	now := time.Now().UTC()

	recs := recommendations(Build("run-1", now, now, files))
	assert.Empty(t, recs)
}
