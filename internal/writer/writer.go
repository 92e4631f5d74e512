// Package writer coerces raw string values to their inferred types and
// serializes rows as a JSON array or as JSONL.
package writer

import (
	"bytes"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/model"
)

// Formats accepted by Write.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// Writer serializes converted rows.
type Writer struct {
	log *zap.Logger
}

// New creates a Writer.
func New(log *zap.Logger) *Writer {
	if log == nil {
		log = zap.L()
	}
	return &Writer{log: log}
}

// Write coerces every value per the type map and writes the output
// file. On any write failure the partial output is removed; no partial
// artifact survives an error.
func (w *Writer) Write(rows []model.Row, typeMap map[string]model.ColumnTypeInfo, columns []string, outputPath, format string) (*model.WriteResult, error) {
	start := time.Now()

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, eris.Wrapf(model.ErrIO, "writer: create %s: %v", outputPath, err)
	}

	var rowsWritten int
	switch format {
	case FormatJSONL:
		rowsWritten, err = w.writeJSONL(f, rows, typeMap, columns)
	default:
		rowsWritten, err = w.writeJSON(f, rows, typeMap, columns)
	}
	if err == nil {
		err = f.Close()
	} else {
		_ = f.Close()
	}
	if err != nil {
		_ = os.Remove(outputPath)
		return nil, eris.Wrapf(model.ErrIO, "writer: write %s: %v", outputPath, err)
	}

	fi, err := os.Stat(outputPath)
	if err != nil {
		return nil, eris.Wrapf(model.ErrIO, "writer: stat %s: %v", outputPath, err)
	}

	result := &model.WriteResult{
		OutputFile:       outputPath,
		RowsWritten:      rowsWritten,
		FileSizeBytes:    fi.Size(),
		ProcessingTimeMS: time.Since(start).Milliseconds(),
	}

	w.log.Debug("wrote output",
		zap.String("path", outputPath),
		zap.String("format", format),
		zap.Int("rows", rowsWritten),
		zap.Int64("bytes", result.FileSizeBytes),
	)

	return result, nil
}

// writeJSON writes one pretty-printed array for the whole file.
func (w *Writer) writeJSON(f *os.File, rows []model.Row, typeMap map[string]model.ColumnTypeInfo, columns []string) (int, error) {
	objects := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		obj, err := encodeRow(row, typeMap, columns)
		if err != nil {
			return 0, err
		}
		objects = append(objects, obj)
	}

	out, err := json.MarshalIndent(objects, "", "  ")
	if err != nil {
		return 0, err
	}
	if _, err := f.Write(append(out, '\n')); err != nil {
		return 0, err
	}
	return len(objects), nil
}

// writeJSONL writes one compact object per line, counting rows as each
// line is emitted.
func (w *Writer) writeJSONL(f *os.File, rows []model.Row, typeMap map[string]model.ColumnTypeInfo, columns []string) (int, error) {
	written := 0
	for _, row := range rows {
		obj, err := encodeRow(row, typeMap, columns)
		if err != nil {
			return written, err
		}
		if _, err := f.Write(append(obj, '\n')); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// encodeRow marshals one row as a JSON object with fields in column
// order.
func encodeRow(row model.Row, typeMap map[string]model.ColumnTypeInfo, columns []string) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(Coerce(row[col], typeMap[col].Type))
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Coerce converts a raw string value per the column's inferred type.
// Null tokens become nil; a failed conversion of a non-null value
// falls back to the original string, never an error. The validator
// already surfaced the conflict.
func Coerce(raw string, t model.ColumnType) any {
	if model.IsNullToken(raw) {
		return nil
	}

	switch t {
	case model.TypeInt:
		if n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			return n
		}
	case model.TypeFloat:
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return f
		}
	case model.TypeBoolean:
		return model.IsTrueToken(raw)
	case model.TypeDatetime:
		if ts, err := dateparse.ParseAny(strings.TrimSpace(raw)); err == nil {
			return ts.Format(time.RFC3339)
		}
	}

	return raw
}
