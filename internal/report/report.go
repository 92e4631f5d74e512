// Package report aggregates per-file metadata into a machine-readable
// run summary and a human-readable Markdown validation report.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/model"
)

const (
	summaryFile = "run_summary.json"
	reportFile  = "validation_report.md"

	topIssuesPerFile = 5
)

// Generator produces run artifacts.
type Generator struct {
	log *zap.Logger
}

// New creates a Generator.
func New(log *zap.Logger) *Generator {
	if log == nil {
		log = zap.L()
	}
	return &Generator{log: log}
}

// Build aggregates file metadata into a RunSummary.
func Build(runID string, started, finished time.Time, files []model.FileMetadata) *model.RunSummary {
	s := &model.RunSummary{
		RunID:      runID,
		StartedAt:  started,
		FinishedAt: finished,
		TotalFiles: len(files),
		Files:      files,
	}
	for _, f := range files {
		if f.Failed() {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.TotalRows += f.RowCount
		s.TotalIssues += len(f.Issues)
	}
	return s
}

// Summarize writes run_summary.json and validation_report.md into
// outputDir and returns their paths. A file entry carrying an error is
// rendered as a failure entry; it never aborts the summary.
func (g *Generator) Summarize(summary *model.RunSummary, outputDir string) (string, string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", "", eris.Wrapf(model.ErrIO, "report: mkdir %s: %v", outputDir, err)
	}

	summaryPath := filepath.Join(outputDir, summaryFile)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", "", eris.Wrap(err, "report: marshal summary")
	}
	if err := os.WriteFile(summaryPath, append(data, '\n'), 0o644); err != nil {
		return "", "", eris.Wrapf(model.ErrIO, "report: write %s: %v", summaryPath, err)
	}

	reportPath := filepath.Join(outputDir, reportFile)
	if err := os.WriteFile(reportPath, []byte(g.renderMarkdown(summary)), 0o644); err != nil {
		return "", "", eris.Wrapf(model.ErrIO, "report: write %s: %v", reportPath, err)
	}

	g.log.Info("run artifacts written",
		zap.String("summary", summaryPath),
		zap.String("report", reportPath),
	)

	return summaryPath, reportPath, nil
}

func (g *Generator) renderMarkdown(s *model.RunSummary) string {
	var b strings.Builder

	b.WriteString("# Validation Report\n\n")
	fmt.Fprintf(&b, "Run `%s` — started %s, finished %s.\n\n",
		s.RunID,
		s.StartedAt.UTC().Format(time.RFC3339),
		s.FinishedAt.UTC().Format(time.RFC3339),
	)

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- Files processed: %d\n", s.TotalFiles)
	fmt.Fprintf(&b, "- Succeeded: %d\n", s.Succeeded)
	fmt.Fprintf(&b, "- Failed: %d\n", s.Failed)
	fmt.Fprintf(&b, "- Rows converted: %d\n", s.TotalRows)
	fmt.Fprintf(&b, "- Validation issues: %d\n\n", s.TotalIssues)

	for _, f := range s.Files {
		fmt.Fprintf(&b, "## %s\n\n", f.Input)

		if f.Failed() {
			fmt.Fprintf(&b, "**FAILED**: %s\n\n", f.Error)
			continue
		}

		fmt.Fprintf(&b, "- Output: `%s`\n", f.Output)
		fmt.Fprintf(&b, "- Encoding: %s\n", f.Encoding)
		fmt.Fprintf(&b, "- Rows: %d, columns: %d, elapsed: %dms\n\n", f.RowCount, f.ColumnCount, f.ElapsedMS)

		if len(f.Types) > 0 {
			b.WriteString("### Inferred types\n\n")
			cols := make([]string, 0, len(f.Types))
			for col := range f.Types {
				cols = append(cols, col)
			}
			sort.Strings(cols)
			for _, col := range cols {
				info := f.Types[col]
				fmt.Fprintf(&b, "- `%s`: %s (confidence %.2f, nulls %d, conflicts %d)\n",
					col, info.Type, info.Confidence, info.NullCount, info.TotalConflicts)
			}
			b.WriteString("\n")
		}

		bySeverity := map[model.Severity]int{}
		for _, issue := range f.Issues {
			bySeverity[issue.Severity]++
		}
		fmt.Fprintf(&b, "### Issues (%d)\n\n", len(f.Issues))
		fmt.Fprintf(&b, "- info: %d, warning: %d, error: %d\n\n",
			bySeverity[model.SeverityInfo], bySeverity[model.SeverityWarning], bySeverity[model.SeverityError])

		for i, issue := range f.Issues {
			if i >= topIssuesPerFile {
				fmt.Fprintf(&b, "- ... and %d more\n", len(f.Issues)-topIssuesPerFile)
				break
			}
			loc := "file"
			if issue.Row != nil {
				loc = fmt.Sprintf("row %d", *issue.Row)
			} else if issue.Column != "" {
				loc = fmt.Sprintf("column %s", issue.Column)
			}
			fmt.Fprintf(&b, "- [%s] %s: %s (%s)\n", issue.Severity, loc, issue.Issue, issue.Action)
		}
		if len(f.Issues) > 0 {
			b.WriteString("\n")
		}
	}

	recs := recommendations(s)
	if len(recs) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, r := range recs {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	return b.String()
}

// recommendations pattern-matches the aggregated issues and failures.
func recommendations(s *model.RunSummary) []string {
	var ragged, duplicates, conflicts, empty bool
	for _, f := range s.Files {
		if f.Stats.RaggedRows > 0 {
			ragged = true
		}
		if f.Stats.DuplicateRows > 0 {
			duplicates = true
		}
		if f.Stats.TypeConflicts > 0 {
			conflicts = true
		}
		if f.Stats.EmptyRows > 0 {
			empty = true
		}
	}

	var recs []string
	if ragged {
		recs = append(recs, "Ragged rows detected: normalize column counts in the source files.")
	}
	if duplicates {
		recs = append(recs, "Duplicate rows detected: consider deduplicating the source data.")
	}
	if conflicts {
		recs = append(recs, "Type conflicts detected: clean up values that do not match the inferred column types.")
	}
	if empty {
		recs = append(recs, "Empty rows detected: strip blank lines from the source files.")
	}
	if s.Failed > 0 {
		recs = append(recs, "Some files failed to convert: see the per-file failure entries above.")
	}
	return recs
}
