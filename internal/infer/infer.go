// Package infer assigns a semantic type to each column of a parsed CSV
// file, with a confidence score and a bounded list of conflicting
// values. Inference is a pure function of its inputs and never fails:
// string is the universal fallback.
package infer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/sells-group/csvforge/internal/config"
	"github.com/sells-group/csvforge/internal/model"
)

// Engine holds inference tuning knobs.
type Engine struct {
	threshold    float64
	maxConflicts int
	maxSamples   int
}

// New creates an Engine from config.
func New(cfg config.InferConfig) *Engine {
	e := &Engine{
		threshold:    cfg.ConfidenceThreshold,
		maxConflicts: cfg.MaxConflicts,
		maxSamples:   cfg.MaxSampleValues,
	}
	if e.threshold <= 0 {
		e.threshold = 0.8
	}
	if e.maxConflicts <= 0 {
		e.maxConflicts = 10
	}
	if e.maxSamples <= 0 {
		e.maxSamples = 5
	}
	return e
}

// Infer computes a ColumnTypeInfo per column, each column evaluated
// independently.
func (e *Engine) Infer(rows []model.Row, columns []string) map[string]model.ColumnTypeInfo {
	out := make(map[string]model.ColumnTypeInfo, len(columns))
	for _, col := range columns {
		out[col] = e.inferColumn(rows, col)
	}
	return out
}

// AllString returns the type map used when inference is disabled:
// every column is a string with full confidence.
func AllString(columns []string) map[string]model.ColumnTypeInfo {
	out := make(map[string]model.ColumnTypeInfo, len(columns))
	for _, col := range columns {
		out[col] = model.ColumnTypeInfo{Type: model.TypeString, Confidence: 1.0}
	}
	return out
}

// candidateOrder is the tie-break order: the first listed wins ties.
var candidateOrder = []model.ColumnType{
	model.TypeBoolean,
	model.TypeInt,
	model.TypeFloat,
	model.TypeDatetime,
}

func (e *Engine) inferColumn(rows []model.Row, col string) model.ColumnTypeInfo {
	var nonNull []string
	nullCount := 0
	for _, row := range rows {
		v := row[col]
		if model.IsNullToken(v) {
			nullCount++
			continue
		}
		nonNull = append(nonNull, v)
	}

	info := model.ColumnTypeInfo{
		Type:       model.TypeString,
		Confidence: 1.0,
		NullCount:  nullCount,
	}
	for _, v := range nonNull {
		if len(info.SampleValues) >= e.maxSamples {
			break
		}
		info.SampleValues = append(info.SampleValues, v)
	}
	if len(nonNull) == 0 {
		return info
	}

	n := float64(len(nonNull))
	matches := map[model.ColumnType]int{}
	for _, v := range nonNull {
		if isBoolean(v) {
			matches[model.TypeBoolean]++
		}
		if isInt(v) {
			matches[model.TypeInt]++
		}
		if isFloat(v) {
			matches[model.TypeFloat]++
		}
		if isDatetime(v) {
			matches[model.TypeDatetime]++
		}
	}

	ratios := map[model.ColumnType]float64{
		model.TypeBoolean: float64(matches[model.TypeBoolean]) / n,
		model.TypeInt:     float64(matches[model.TypeInt]) / n,
		// Genuine floats are floats-that-are-not-ints: every int also
		// parses as a float, so subtract the int ratio.
		model.TypeFloat:    (float64(matches[model.TypeFloat]) - float64(matches[model.TypeInt])) / n,
		model.TypeDatetime: float64(matches[model.TypeDatetime]) / n,
	}

	winner := candidateOrder[0]
	best := ratios[winner]
	for _, t := range candidateOrder[1:] {
		if ratios[t] > best {
			winner, best = t, ratios[t]
		}
	}

	if best < e.threshold {
		// Below threshold: string is always safe and never fails.
		return info
	}

	info.Type = winner
	info.Confidence = best
	e.collectConflicts(&info, rows, col, winner)
	return info
}

// collectConflicts re-scans all non-null values against the winning
// type's predicate, capping the human-readable list and recording the
// true total. Row indices are 0-based positions in the parsed sequence.
func (e *Engine) collectConflicts(info *model.ColumnTypeInfo, rows []model.Row, col string, t model.ColumnType) {
	pred := predicateFor(t)
	overflow := 0
	for i, row := range rows {
		v := row[col]
		if model.IsNullToken(v) || pred(v) {
			continue
		}
		info.TotalConflicts++
		if len(info.Conflicts) < e.maxConflicts {
			info.Conflicts = append(info.Conflicts,
				fmt.Sprintf("Row %d: '%s' doesn't match %s", i, v, t))
		} else {
			overflow++
		}
	}
	if overflow > 0 {
		info.Conflicts = append(info.Conflicts, fmt.Sprintf("... and %d more", overflow))
	}
}

func predicateFor(t model.ColumnType) func(string) bool {
	switch t {
	case model.TypeBoolean:
		return isBoolean
	case model.TypeInt:
		return isInt
	case model.TypeFloat:
		return isFloat
	case model.TypeDatetime:
		return isDatetime
	default:
		return func(string) bool { return true }
	}
}

func isBoolean(s string) bool {
	return model.IsBooleanToken(s)
}

func isInt(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// isDatetime uses the permissive dateparse parser. Pure numbers also
// satisfy it for some layouts, which is why int precedes datetime in
// the tie-break order.
func isDatetime(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := dateparse.ParseAny(s)
	return err == nil
}
