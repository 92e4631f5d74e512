// Package analyzer detects a CSV file's encoding, dialect, and header
// and produces a structural profile used by the rest of the pipeline.
package analyzer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/csvforge/internal/config"
	"github.com/sells-group/csvforge/internal/model"
)

// Analyzer sniffs CSV structure. Each detection sub-step is a
// heuristic: a failing sub-step is replaced by its default rather than
// aborting the analysis.
type Analyzer struct {
	cfg config.AnalyzeConfig
	log *zap.Logger
}

// New creates an Analyzer with the given sampling limits.
func New(cfg config.AnalyzeConfig, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.L()
	}
	return &Analyzer{cfg: cfg, log: log}
}

// Analyze builds a StructuralProfile for the file at path. headerRow is
// model.HeaderAuto, model.HeaderNone, or an explicit zero-based index.
// Fails with model.ErrNotFound if path does not exist and with
// model.ErrEmptyFile if no sample rows can be read.
func (a *Analyzer) Analyze(path string, headerRow int) (*model.StructuralProfile, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Wrapf(model.ErrNotFound, "analyzer: %s", path)
		}
		return nil, eris.Wrapf(err, "analyzer: stat %s", path)
	}

	raw, err := readSample(path, a.cfg.EncodingSampleBytes)
	if err != nil {
		return nil, eris.Wrapf(err, "analyzer: read sample %s", path)
	}

	encName, encErr := detectEncoding(raw)
	if encErr != nil {
		a.log.Debug("encoding detection failed, using default",
			zap.String("path", path), zap.Error(encErr))
	}

	limit := a.cfg.DialectSampleBytes
	if limit <= 0 || limit > len(raw) {
		limit = len(raw)
	}
	text, err := decodeSample(raw[:limit], encName)
	if err != nil {
		return nil, err
	}

	dialect, dialErr := detectDialect(text)
	if dialErr != nil {
		a.log.Debug("dialect detection failed, using default",
			zap.String("path", path), zap.Error(dialErr))
		dialect = DefaultDialect
	}

	rc, err := OpenDecoded(path, encName)
	if err != nil {
		return nil, err
	}
	sampleRows := a.readSampleRows(rc, dialect)
	if err := rc.Close(); err != nil {
		return nil, eris.Wrapf(err, "analyzer: close %s", path)
	}
	if len(sampleRows) == 0 {
		return nil, eris.Wrapf(model.ErrEmptyFile, "analyzer: %s", path)
	}

	headerIdx := headerRow
	if headerRow == model.HeaderAuto {
		hasHeader, headErr := detectHeader(sampleRows)
		if headErr != nil {
			a.log.Debug("header detection failed, assuming header",
				zap.String("path", path), zap.Error(headErr))
			hasHeader = true
		}
		if hasHeader {
			headerIdx = 0
		} else {
			headerIdx = model.HeaderNone
		}
	}

	columnCount := len(sampleRows[0])
	columns := columnNames(sampleRows, headerIdx, columnCount)

	profile := &model.StructuralProfile{
		Path:           path,
		Encoding:       encName,
		Delimiter:      dialect.Delimiter,
		DelimiterName:  delimiterName(dialect.Delimiter),
		QuoteChar:      dialect.QuoteChar,
		QuoteCharName:  string(dialect.QuoteChar),
		HeaderRowIndex: headerIdx,
		ColumnCount:    columnCount,
		ColumnNames:    columns,
		SampleRows:     sampleRows,
	}

	a.log.Debug("analyzed file",
		zap.String("path", path),
		zap.String("encoding", encName),
		zap.String("delimiter", profile.DelimiterName),
		zap.Int("columns", columnCount),
		zap.Int("header_row", headerIdx),
	)

	return profile, nil
}

// readSample reads up to limit raw bytes from the start of the file.
func readSample(path string, limit int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if limit <= 0 {
		limit = 100 * 1024
	}
	buf := make([]byte, limit)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf[:n], nil
}

// maxSampleScan bounds the raw records examined while collecting
// sample rows, so a reader returning a sticky error cannot spin the
// loop forever.
const maxSampleScan = 100

// readSampleRows reads up to cfg.SampleRows rows from the decoded
// stream with the resolved dialect. Malformed and fully-empty rows are
// skipped.
func (a *Analyzer) readSampleRows(r io.Reader, dialect Dialect) [][]string {
	reader := csv.NewReader(r)
	reader.Comma = dialect.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	limit := a.cfg.SampleRows
	if limit <= 0 {
		limit = 5
	}

	var rows [][]string
	for scanned := 0; len(rows) < limit && scanned < maxSampleScan; scanned++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		if rowEmpty(record) {
			continue
		}
		rows = append(rows, record)
	}
	return rows
}

// columnNames resolves column names from the header row, or
// synthesizes col_0..col_{n-1} when there is no header. Blank or
// duplicate header fields get positional fallbacks.
func columnNames(rows [][]string, headerIdx, count int) []string {
	names := make([]string, count)

	var header []string
	if headerIdx >= 0 && headerIdx < len(rows) {
		header = rows[headerIdx]
	}

	seen := make(map[string]bool, count)
	for i := 0; i < count; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" || seen[name] || headerIdx < 0 {
			name = fmt.Sprintf("col_%d", i)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

func rowEmpty(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func delimiterName(d rune) string {
	switch d {
	case '\t':
		return "tab"
	default:
		return string(d)
	}
}
