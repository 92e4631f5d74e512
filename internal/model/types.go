// Package model defines the data types shared across the conversion pipeline.
package model

import "time"

// ColumnType is the closed set of semantic column types the inference
// engine can assign. String is the universal fallback and never fails.
type ColumnType string

const (
	TypeString   ColumnType = "string"
	TypeInt      ColumnType = "int"
	TypeFloat    ColumnType = "float"
	TypeBoolean  ColumnType = "boolean"
	TypeDatetime ColumnType = "datetime"
)

// HeaderAuto and HeaderNone are the sentinel values for header row modes
// besides an explicit zero-based row index.
const (
	HeaderAuto = -2
	HeaderNone = -1
)

// StructuralProfile describes the detected structure of one CSV file.
// Immutable after Analyze returns it.
type StructuralProfile struct {
	Path           string     `json:"path"`
	Encoding       string     `json:"encoding"`
	Delimiter      rune       `json:"-"`
	DelimiterName  string     `json:"delimiter"`
	QuoteChar      rune       `json:"-"`
	QuoteCharName  string     `json:"quote_char"`
	HeaderRowIndex int        `json:"header_row_index"` // -1 = no header
	ColumnCount    int        `json:"column_count"`
	ColumnNames    []string   `json:"column_names"`
	SampleRows     [][]string `json:"sample_rows"`
}

// Row maps column name to raw string value. Ordering lives in the
// profile's ColumnNames; every Row has exactly ColumnCount entries.
type Row map[string]string

// ColumnTypeInfo is the inference result for a single column.
// Never mutated after creation.
type ColumnTypeInfo struct {
	Type       ColumnType `json:"type"`
	Confidence float64    `json:"confidence"`
	// Conflicts holds at most the configured cap of human-readable
	// mismatch descriptions plus a "... and N more" marker;
	// TotalConflicts counts the untruncated list.
	Conflicts      []string `json:"conflicts"`
	TotalConflicts int      `json:"total_conflicts"`
	NullCount      int      `json:"null_count"`
	SampleValues   []string `json:"sample_values"`
}

// Severity classifies a validation issue.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ValidationIssue is one finding from the validator. Row is nil for
// column-level issues; Column is empty for row-level issues.
type ValidationIssue struct {
	Row      *int     `json:"row,omitempty"`
	Column   string   `json:"column,omitempty"`
	Issue    string   `json:"issue"`
	Severity Severity `json:"severity"`
	Action   string   `json:"action"`
}

// ValidationStats aggregates validator counters for one file.
type ValidationStats struct {
	EmptyRows     int `json:"empty_rows"`
	DuplicateRows int `json:"duplicate_rows"`
	RaggedRows    int `json:"ragged_rows"`
	TypeConflicts int `json:"type_conflicts"`
}

// ValidationResult is the full validator output for one file.
type ValidationResult struct {
	Issues           []ValidationIssue `json:"issues"`
	Stats            ValidationStats   `json:"stats"`
	ValidationPassed bool              `json:"validation_passed"`
}

// WriteResult reports what the writer produced for one file.
type WriteResult struct {
	OutputFile       string `json:"output_file"`
	RowsWritten      int    `json:"rows_written"`
	FileSizeBytes    int64  `json:"file_size_bytes"`
	ProcessingTimeMS int64  `json:"processing_time_ms"`
}

// FileMetadata is the per-file record collected by the orchestrator.
// Either Error is set (the file failed) or the remaining fields are.
type FileMetadata struct {
	Input       string                    `json:"input"`
	Error       string                    `json:"error,omitempty"`
	Output      string                    `json:"output,omitempty"`
	Encoding    string                    `json:"encoding,omitempty"`
	RowCount    int                       `json:"row_count"`
	ColumnCount int                       `json:"column_count"`
	ElapsedMS   int64                     `json:"elapsed_ms"`
	Types       map[string]ColumnTypeInfo `json:"types,omitempty"`
	Issues      []ValidationIssue         `json:"issues,omitempty"`
	Stats       ValidationStats           `json:"stats"`
}

// Failed reports whether this file's pipeline ended in an error.
func (m *FileMetadata) Failed() bool { return m.Error != "" }

// RunSummary is the terminal artifact aggregating a whole run.
type RunSummary struct {
	RunID       string         `json:"run_id"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	TotalFiles  int            `json:"total_files"`
	Succeeded   int            `json:"succeeded"`
	Failed      int            `json:"failed"`
	TotalRows   int            `json:"total_rows"`
	TotalIssues int            `json:"total_issues"`
	Files       []FileMetadata `json:"files"`
}
