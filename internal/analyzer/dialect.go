package analyzer

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Dialect is the delimiter/quote pair describing a CSV variant.
type Dialect struct {
	Delimiter rune
	QuoteChar rune
}

// DefaultDialect is the fallback when sniffing fails.
var DefaultDialect = Dialect{Delimiter: ',', QuoteChar: '"'}

// delimiterCandidates is the closed candidate set for sniffing.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// detectDialect sniffs delimiter and quote character from a decoded
// text sample. Each candidate delimiter is scored by trial-parsing the
// sample: candidates producing more columns, consistently across rows,
// win. Returns an error only when no candidate splits anything.
func detectDialect(sample string) (Dialect, error) {
	sample = strings.TrimPrefix(sample, "\ufeff")
	if strings.TrimSpace(sample) == "" {
		return DefaultDialect, eris.New("analyzer: empty dialect sample")
	}

	best := DefaultDialect
	bestScore := -1.0

	for _, delim := range delimiterCandidates {
		score := scoreDelimiter(sample, delim)
		if score > bestScore {
			bestScore = score
			best = Dialect{Delimiter: delim, QuoteChar: '"'}
		}
	}

	if bestScore <= 0 {
		return DefaultDialect, eris.New("analyzer: no candidate delimiter splits the sample")
	}

	best.QuoteChar = detectQuoteChar(sample, best.Delimiter)
	return best, nil
}

// scoreDelimiter trial-parses the sample with one candidate delimiter.
// The score rewards width (fields per row beyond one) and punishes
// inconsistent field counts across rows.
func scoreDelimiter(sample string, delim rune) float64 {
	reader := csv.NewReader(strings.NewReader(sample))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	counts := map[int]int{}
	rows := 0
	for rows < 20 {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return -1
		}
		counts[len(record)]++
		rows++
	}
	if rows == 0 {
		return -1
	}

	// Modal field count and its share of rows.
	modeCount, modeRows := 0, 0
	for c, n := range counts {
		if n > modeRows {
			modeCount, modeRows = c, n
		}
	}
	if modeCount < 2 {
		return 0
	}

	consistency := float64(modeRows) / float64(rows)
	return consistency * float64(modeCount)
}

// detectQuoteChar picks the quote character by counting quote runes
// adjacent to the delimiter or at line boundaries. Double quote wins
// ties, matching the common default.
func detectQuoteChar(sample string, delim rune) rune {
	double := strings.Count(sample, string(delim)+`"`) + strings.Count(sample, `"`+string(delim))
	single := strings.Count(sample, string(delim)+`'`) + strings.Count(sample, `'`+string(delim))
	if single > double {
		return '\''
	}
	return '"'
}
