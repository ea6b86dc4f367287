package runner_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/grepl/pkg/engine"
	"github.com/yaklabco/grepl/pkg/match"
	"github.com/yaklabco/grepl/pkg/runner"
)

func TestRunner_IncludeGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.go", "hit go\n")
	writeFile(t, dir, "a.txt", "hit txt\n")
	writeFile(t, dir, "sub/b.go", "hit sub\n")

	got := runSearch(t, "hit", engine.Options{ShowFileName: true}, runner.Options{
		Paths:        []string{dir},
		Directories:  runner.DirRecurse,
		IncludeGlobs: []string{"*.go"},
	})

	assert.Contains(t, got.out, "a.go:hit go\n")
	assert.Contains(t, got.out, filepath.Join("sub", "b.go")+":hit sub\n")
	assert.NotContains(t, got.out, "a.txt")
	assert.Equal(t, 2, got.result.Stats.FilesScanned)
}

func TestRunner_ExcludeGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "keep.txt", "hit keep\n")
	writeFile(t, dir, "drop.log", "hit drop\n")

	got := runSearch(t, "hit", engine.Options{ShowFileName: true}, runner.Options{
		Paths:        []string{dir},
		Directories:  runner.DirRecurse,
		ExcludeGlobs: []string{"*.log"},
	})

	assert.Contains(t, got.out, "keep.txt:hit keep\n")
	assert.NotContains(t, got.out, "drop.log")
}

func TestRunner_ExcludeWinsOverInclude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hit\n")

	got := runSearch(t, "hit", engine.Options{}, runner.Options{
		Paths:        []string{dir},
		Directories:  runner.DirRecurse,
		IncludeGlobs: []string{"*.txt"},
		ExcludeGlobs: []string{"a.*"},
	})

	assert.Empty(t, got.out)
	assert.Zero(t, got.result.Stats.FilesScanned)
}

func TestRunner_FiltersApplyToExplicitFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	excluded := writeFile(t, dir, "a.log", "hit log\n")
	kept := writeFile(t, dir, "a.txt", "hit txt\n")

	got := runSearch(t, "hit", engine.Options{}, runner.Options{
		Paths:        []string{excluded, kept},
		ExcludeGlobs: []string{"*.log"},
	})

	assert.Equal(t, "hit txt\n", got.out)
	assert.Equal(t, 1, got.result.Stats.FilesScanned)
}

func TestRunner_IncludeAppliesToExplicitFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "hit\n")

	got := runSearch(t, "hit", engine.Options{}, runner.Options{
		Paths:        []string{path},
		IncludeGlobs: []string{"*.go"},
	})

	assert.Empty(t, got.out)
	assert.Zero(t, got.result.Stats.FilesScanned)
}

func TestRunner_ExcludeDirPrunes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hit top\n")
	writeFile(t, dir, "vendor/b.txt", "hit vendor\n")
	writeFile(t, dir, "vendor/deep/c.txt", "hit deep\n")

	got := runSearch(t, "hit", engine.Options{ShowFileName: true}, runner.Options{
		Paths:           []string{dir},
		Directories:     runner.DirRecurse,
		ExcludeDirGlobs: []string{"vendor"},
	})

	assert.Contains(t, got.out, "a.txt:hit top\n")
	assert.NotContains(t, got.out, "vendor")
	assert.Equal(t, 1, got.result.Stats.FilesScanned)
}

func TestRunner_ExcludeDirDoesNotPruneRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "skipme")
	writeFile(t, sub, "a.txt", "hit\n")

	// A directory named on the command line is walked even when a pattern
	// matches its own base name.
	got := runSearch(t, "hit", engine.Options{}, runner.Options{
		Paths:           []string{sub},
		Directories:     runner.DirRecurse,
		ExcludeDirGlobs: []string{"skipme"},
	})

	assert.Equal(t, "hit\n", got.out)
}

func TestNew_InvalidGlob(t *testing.T) {
	t.Parallel()

	set, err := match.Compile([]string{"x"}, match.Options{Dialect: match.DialectFixed})
	require.NoError(t, err)

	sink := &engine.WriterSink{}
	eng := engine.New(engine.Options{
		Palette:    engine.DefaultPalette(),
		Separators: engine.DefaultSeparators(),
	}, set, sink)

	_, err = runner.New(eng, sink, runner.Options{IncludeGlobs: []string{"[unclosed"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile include pattern")
}
