// Package rowparser turns raw CSV bytes into ordered field maps using
// the parameters detected by the analyzer.
package rowparser

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/analyzer"
	"github.com/sells-group/csvforge/internal/model"
)

// Parser materializes rows for a profiled file.
type Parser struct {
	log *zap.Logger
}

// New creates a Parser.
func New(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.L()
	}
	return &Parser{log: log}
}

// Parse reads every data row from the profiled file. The header row is
// skipped when the profile places it at index 0, fully-empty raw rows
// are dropped, and every returned row has exactly ColumnCount fields:
// short rows are padded with empty strings, long rows truncated.
func (p *Parser) Parse(profile *model.StructuralProfile) ([]model.Row, error) {
	rc, err := analyzer.OpenDecoded(profile.Path, profile.Encoding)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.Comma = profile.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows []model.Row
	rawIdx := -1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(model.ErrIO, "rowparser: read %s: %v", profile.Path, err)
		}
		rawIdx++

		if profile.HeaderRowIndex == 0 && rawIdx == 0 {
			continue
		}
		if rowEmpty(record) {
			continue
		}

		if len(record) > profile.ColumnCount {
			p.log.Warn("truncating long row",
				zap.String("path", profile.Path),
				zap.Int("row", rawIdx),
				zap.Int("fields", len(record)),
				zap.Int("expected", profile.ColumnCount),
			)
			record = record[:profile.ColumnCount]
		}

		row := make(model.Row, profile.ColumnCount)
		for i, name := range profile.ColumnNames {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func rowEmpty(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
