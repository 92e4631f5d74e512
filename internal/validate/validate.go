// Package validate runs data-quality checks over parsed rows and the
// inferred type map: empty rows, duplicates, ragged rows, and type
// conflicts. Detection only: no row is ever removed from the output.
package validate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/model"
)

// conflictsPerColumn caps the surfaced type-conflict issues per column
// to bound report size; stats still count the untruncated total.
const conflictsPerColumn = 5

// Validator runs the checks for one file.
type Validator struct {
	log *zap.Logger
}

// New creates a Validator.
func New(log *zap.Logger) *Validator {
	if log == nil {
		log = zap.L()
	}
	return &Validator{log: log}
}

// Validate checks every row and every column. Row indices are 0-based
// positions in the already-parsed sequence. With strict set, any
// warning-or-error issue fails validation; the caller must then skip
// the write stage for this file.
func (v *Validator) Validate(rows []model.Row, typeMap map[string]model.ColumnTypeInfo, strict bool, expectedColumns int) model.ValidationResult {
	res := model.ValidationResult{ValidationPassed: true}

	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		if rowNullOrEmpty(row) {
			res.Stats.EmptyRows++
			res.Issues = append(res.Issues, rowIssue(i, "Empty row", model.SeverityWarning,
				"excluded from duplicate and ragged checks"))
			continue
		}

		hash := rowHash(row)
		if first, dup := seen[hash]; dup {
			res.Stats.DuplicateRows++
			res.Issues = append(res.Issues, rowIssue(i,
				fmt.Sprintf("Duplicate of row %d", first), model.SeverityInfo,
				"retained in output"))
		} else {
			seen[hash] = i
		}

		if populated := populatedFields(row); populated != expectedColumns {
			res.Stats.RaggedRows++
			res.Issues = append(res.Issues, rowIssue(i,
				fmt.Sprintf("Ragged row: %d non-empty fields, expected %d", populated, expectedColumns),
				model.SeverityWarning, "padded or truncated to match column count"))
		}
	}

	// Column-level: surface a bounded number of conflicts per column,
	// in stable column order.
	cols := make([]string, 0, len(typeMap))
	for col := range typeMap {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	for _, col := range cols {
		info := typeMap[col]
		res.Stats.TypeConflicts += info.TotalConflicts
		for j, conflict := range info.Conflicts {
			if j >= conflictsPerColumn {
				break
			}
			res.Issues = append(res.Issues, model.ValidationIssue{
				Column:   col,
				Issue:    conflict,
				Severity: model.SeverityWarning,
				Action:   fmt.Sprintf("value kept as string on %s coercion failure", info.Type),
			})
		}
	}

	if strict {
		for _, issue := range res.Issues {
			if issue.Severity == model.SeverityWarning || issue.Severity == model.SeverityError {
				res.ValidationPassed = false
				break
			}
		}
	}

	v.log.Debug("validation complete",
		zap.Int("rows", len(rows)),
		zap.Int("issues", len(res.Issues)),
		zap.Int("empty", res.Stats.EmptyRows),
		zap.Int("duplicates", res.Stats.DuplicateRows),
		zap.Int("ragged", res.Stats.RaggedRows),
		zap.Int("type_conflicts", res.Stats.TypeConflicts),
		zap.Bool("passed", res.ValidationPassed),
	)

	return res
}

func rowIssue(idx int, issue string, sev model.Severity, action string) model.ValidationIssue {
	i := idx
	return model.ValidationIssue{Row: &i, Issue: issue, Severity: sev, Action: action}
}

// rowHash fingerprints row content as a sha256 over the sorted
// field-name/value pairs. The hash covers the padded row, so raw rows
// differing only in trailing padding collapse to the same fingerprint.
func rowHash(row model.Row) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(row[k]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// rowNullOrEmpty reports whether every field is empty or a null token.
func rowNullOrEmpty(row model.Row) bool {
	for _, v := range row {
		if !model.IsNullToken(v) {
			return false
		}
	}
	return true
}

// populatedFields counts non-empty fields post-padding. Legitimately
// sparse rows register as ragged under this count.
func populatedFields(row model.Row) int {
	n := 0
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
