package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// filter holds the compiled include/exclude name patterns.
type filter struct {
	include    []glob.Glob
	exclude    []glob.Glob
	excludeDir []glob.Glob
}

func newFilter(opts Options) (*filter, error) {
	f := &filter{}
	var err error
	if f.include, err = compileGlobs(opts.IncludeGlobs); err != nil {
		return nil, fmt.Errorf("compile include pattern: %w", err)
	}
	if f.exclude, err = compileGlobs(opts.ExcludeGlobs); err != nil {
		return nil, fmt.Errorf("compile exclude pattern: %w", err)
	}
	if f.excludeDir, err = compileGlobs(opts.ExcludeDirGlobs); err != nil {
		return nil, fmt.Errorf("compile exclude-dir pattern: %w", err)
	}
	return f, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// file reports whether a file with the given base name should be scanned.
func (f *filter) file(name string) bool {
	if matchAny(f.exclude, name) {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	return matchAny(f.include, name)
}

// dir reports whether a directory with the given base name should be
// descended into.
func (f *filter) dir(name string) bool {
	return !matchAny(f.excludeDir, name)
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// walk scans a directory tree in lexical order. Unreadable entries are
// reported and skipped; only context cancellation aborts the walk.
func (r *Runner) walk(ctx context.Context, root string, result *Result) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			r.fileError(result, path, walkErr)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if path != root && !r.filter.dir(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				// Broken symlink.
				return nil
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil
			}
			if info.IsDir() {
				if r.opts.Directories != DirRecurseLinks {
					return nil
				}
				// Walk the symlink target rather than the symlink itself;
				// WalkDir uses Lstat on the root, so this cannot recurse
				// back through the same link.
				return r.walk(ctx, realPath, result)
			}
			// File symlink: fall through to the name filter.
		}

		if r.filter.file(entry.Name()) {
			r.scanFile(result, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	return nil
}
