package analyzer

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// detectHeader decides whether the first sample row is a header. Each
// column votes: if the first-row value is non-numeric while the rows
// beneath it are mostly numeric, that column looks headed. A first row
// with any empty or duplicated field votes against.
func detectHeader(rows [][]string) (bool, error) {
	if len(rows) < 2 {
		return false, eris.New("analyzer: too few sample rows for header heuristic")
	}

	first := rows[0]
	seen := make(map[string]bool, len(first))
	for _, field := range first {
		f := strings.TrimSpace(field)
		if f == "" || seen[f] {
			return false, nil
		}
		seen[f] = true
	}

	votes := 0
	for col, field := range first {
		if isNumeric(field) {
			votes--
			continue
		}
		numericBelow := 0
		total := 0
		for _, row := range rows[1:] {
			if col >= len(row) || strings.TrimSpace(row[col]) == "" {
				continue
			}
			total++
			if isNumeric(row[col]) {
				numericBelow++
			}
		}
		if total > 0 && numericBelow*2 > total {
			votes += 2
		} else {
			votes++
		}
	}

	return votes > 0, nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}
