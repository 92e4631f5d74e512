package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rotisserie/eris"
)

// ResolveInputs expands input specs into a deduplicated, sorted list
// of file paths. A spec may be a file path, a directory (expanded to
// its *.csv files), or a glob pattern (including **). Missing plain
// paths are kept so they surface as per-file failures downstream.
func ResolveInputs(specs []string) ([]string, error) {
	seen := make(map[string]bool)
	var inputs []string

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			inputs = append(inputs, abs)
		}
	}

	for _, spec := range specs {
		if fi, err := os.Stat(spec); err == nil && fi.IsDir() {
			matches, err := filepath.Glob(filepath.Join(spec, "*.csv"))
			if err != nil {
				return nil, eris.Wrapf(err, "pipeline: expand directory %s", spec)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		if isPattern(spec) {
			matches, err := doublestar.FilepathGlob(spec)
			if err != nil {
				return nil, eris.Wrapf(err, "pipeline: expand pattern %s", spec)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		add(spec)
	}

	sort.Strings(inputs)
	return inputs, nil
}

func isPattern(spec string) bool {
	return strings.ContainsAny(spec, "*?[{")
}
