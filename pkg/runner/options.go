// Package runner orchestrates scanning across files, directories, and
// standard input, applying directory policies and name filters, and
// aggregating per-file reports into a run result.
package runner

import "io"

// DirAction controls what happens when an input path is a directory.
type DirAction int

const (
	// DirRead reports the directory as an error and moves on.
	DirRead DirAction = iota

	// DirRecurse scans the directory tree without following symlinked
	// directories.
	DirRecurse

	// DirRecurseLinks scans the directory tree and follows symlinked
	// directories.
	DirRecurseLinks

	// DirSkip silently ignores directories.
	DirSkip
)

// StdinLabel is the default display name for standard input.
const StdinLabel = "(standard input)"

// Options controls input selection for one run.
type Options struct {
	// Paths are the user-specified inputs. "-" means standard input. When
	// empty, the runner defaults to "." under the recursive directory
	// actions and to standard input otherwise.
	Paths []string

	// Stdin is read when a path is "-".
	Stdin io.Reader

	// Label replaces the default "(standard input)" name for Stdin.
	Label string

	Directories DirAction

	// IncludeGlobs restricts scanned files to those whose base name matches
	// at least one pattern. Empty means no restriction.
	IncludeGlobs []string

	// ExcludeGlobs skips files whose base name matches any pattern;
	// exclusion wins over inclusion.
	ExcludeGlobs []string

	// ExcludeDirGlobs prunes directories during recursion by base name.
	ExcludeDirGlobs []string
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) > 0 {
		return o.Paths
	}
	if o.Directories == DirRecurse || o.Directories == DirRecurseLinks {
		return []string{"."}
	}
	return []string{"-"}
}

func (o Options) effectiveLabel() string {
	if o.Label != "" {
		return o.Label
	}
	return StdinLabel
}
