package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/csvforge/internal/model"
	"github.com/sells-group/csvforge/internal/writer"
)

// parseOutputFormat validates a format flag value against the
// supported output formats.
func parseOutputFormat(s string) (string, error) {
	switch s {
	case writer.FormatJSON, writer.FormatJSONL:
		return s, nil
	default:
		return "", eris.Errorf("invalid output format %q: want %s or %s", s, writer.FormatJSON, writer.FormatJSONL)
	}
}

// parseHeaderRow parses the --header-row flag: "auto", "-1", or an
// explicit zero-based row index.
func parseHeaderRow(s string) (int, error) {
	if s == "" || s == "auto" {
		return model.HeaderAuto, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, eris.Errorf("invalid --header-row %q: want auto, -1, or a row index", s)
	}
	if n < -1 {
		return 0, eris.Errorf("invalid --header-row %d: want auto, -1, or a row index", n)
	}
	return n, nil
}

// readRowsJSON loads a JSON array of field maps and returns the rows
// plus the sorted union of column names.
func readRowsJSON(path string) ([]model.Row, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "read %s", path)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, eris.Wrapf(err, "parse %s", path)
	}

	colSet := make(map[string]bool)
	rows := make([]model.Row, 0, len(raw))
	for _, m := range raw {
		row := make(model.Row, len(m))
		for k, v := range m {
			colSet[k] = true
			switch val := v.(type) {
			case nil:
				row[k] = ""
			case string:
				row[k] = val
			default:
				b, _ := json.Marshal(val)
				row[k] = string(b)
			}
		}
		rows = append(rows, row)
	}

	columns := make([]string, 0, len(colSet))
	for col := range colSet {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	return rows, columns, nil
}

// readTypesJSON loads a column type map produced by infer-types.
func readTypesJSON(path string) (map[string]model.ColumnTypeInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	var types map[string]model.ColumnTypeInfo
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, eris.Wrapf(err, "parse %s", path)
	}
	return types, nil
}

// writeJSONOut writes v as indented JSON to path, or stdout when path
// is empty.
func writeJSONOut(v any, path string) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	out = append(out, '\n')

	if path == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}
