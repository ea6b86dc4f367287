package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/grepl/internal/logging"
	"github.com/yaklabco/grepl/pkg/engine"
	"github.com/yaklabco/grepl/pkg/scan"
)

// progName prefixes per-file error messages, matching the binary name.
const progName = "grepl"

// Runner feeds inputs to an Engine in argument order. Output order must
// follow input order, so files are scanned sequentially.
type Runner struct {
	engine *engine.Engine
	sink   engine.Sink
	opts   Options
	filter *filter
}

// New creates a Runner. Malformed include/exclude globs are configuration
// errors.
func New(eng *engine.Engine, sink engine.Sink, opts Options) (*Runner, error) {
	f, err := newFilter(opts)
	if err != nil {
		return nil, err
	}
	return &Runner{engine: eng, sink: sink, opts: opts, filter: f}, nil
}

// Run scans every input path and returns the aggregated result. Per-file
// read errors are reported on the sink's error stream and counted; only
// context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{}
	logger := logging.FromContext(ctx)

	for _, path := range r.opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("run cancelled: %w", err)
		}

		if path == "-" {
			logger.Debug("scanning standard input", logging.FieldLabel, r.opts.effectiveLabel())
			r.scanStdin(result)
			continue
		}

		logger.Debug("scanning path", logging.FieldPath, path)

		info, err := os.Stat(path)
		if err != nil {
			r.fileError(result, path, err)
			continue
		}

		if info.IsDir() {
			switch r.opts.Directories {
			case DirRead:
				r.sink.Error(fmt.Sprintf("%s: %s: Is a directory", progName, path))
				result.Stats.FilesErrored++
			case DirSkip:
			case DirRecurse, DirRecurseLinks:
				if err := r.walk(ctx, path, result); err != nil {
					return result, err
				}
			}
			continue
		}

		// Name filters apply to every candidate file, named on the command
		// line or found during recursion.
		if !r.filter.file(filepath.Base(path)) {
			continue
		}
		r.scanFile(result, path)
	}

	return result, nil
}

func (r *Runner) scanStdin(result *Result) {
	src := scan.NewReaderSource(r.opts.Stdin, r.opts.effectiveLabel())
	rep, err := r.engine.Run(src)
	if err != nil {
		r.fileError(result, src.Name(), err)
		return
	}
	result.accumulate(rep)
}

func (r *Runner) scanFile(result *Result, path string) {
	src, err := scan.OpenFile(path)
	if err != nil {
		r.fileError(result, path, err)
		return
	}
	defer src.Close()

	rep, err := r.engine.Run(src)
	if err != nil {
		r.fileError(result, path, err)
		return
	}
	result.accumulate(rep)
}

func (r *Runner) fileError(result *Result, path string, err error) {
	result.Stats.FilesErrored++
	r.sink.Error(fmt.Sprintf("%s: %s: %s", progName, path, errorText(err)))
}

// errorText unwraps *os.PathError so messages read "grepl: path: reason"
// rather than repeating the path.
func errorText(err error) string {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err.Error()
	}
	return err.Error()
}
