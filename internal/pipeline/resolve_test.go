package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))
	return path
}

func TestResolveInputsDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "one.csv"))
	touch(t, filepath.Join(dir, "two.csv"))
	touch(t, filepath.Join(dir, "notes.txt"))

	inputs, err := ResolveInputs([]string{dir})
	require.NoError(t, err)

	require.Len(t, inputs, 2)
	assert.Equal(t, "one.csv", filepath.Base(inputs[0]))
	assert.Equal(t, "two.csv", filepath.Base(inputs[1]))
}

func TestResolveInputsGlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "sub", "deep.csv"))
	touch(t, filepath.Join(dir, "top.csv"))

	inputs, err := ResolveInputs([]string{filepath.Join(dir, "**", "*.csv")})
	require.NoError(t, err)

	require.Len(t, inputs, 2)
}

func TestResolveInputsDeduplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := touch(t, filepath.Join(dir, "data.csv"))

	inputs, err := ResolveInputs([]string{path, path, dir})
	require.NoError(t, err)

	assert.Len(t, inputs, 1)
}

func TestResolveInputsKeepsMissingFiles(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "ghost.csv")
	inputs, err := ResolveInputs([]string{missing})
	require.NoError(t, err)

	require.Len(t, inputs, 1)
	assert.Equal(t, missing, inputs[0])
}

func TestResolveInputsSorted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := touch(t, filepath.Join(dir, "b.csv"))
	a := touch(t, filepath.Join(dir, "a.csv"))

	inputs, err := ResolveInputs([]string{b, a})
	require.NoError(t, err)

	assert.Equal(t, []string{a, b}, inputs)
}
