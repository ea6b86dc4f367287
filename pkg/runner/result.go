package runner

import "github.com/yaklabco/grepl/pkg/engine"

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesScanned is the number of inputs scanned to completion.
	FilesScanned int

	// FilesMatched is the number of inputs with at least one match.
	FilesMatched int

	// FilesSkipped is the number of files abandoned as binary.
	FilesSkipped int

	// FilesErrored is the number of inputs that could not be read.
	FilesErrored int
}

// Result is the overall runner result.
type Result struct {
	// Reports contains the per-file reports in scan order.
	Reports []engine.FileReport

	Stats Stats
}

// Matched reports whether any input produced a match.
func (r *Result) Matched() bool {
	return r != nil && r.Stats.FilesMatched > 0
}

// Errored reports whether any input failed to be read.
func (r *Result) Errored() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// accumulate updates the result with one file report.
func (r *Result) accumulate(rep engine.FileReport) {
	r.Reports = append(r.Reports, rep)
	r.Stats.FilesScanned++
	if rep.Matched {
		r.Stats.FilesMatched++
	}
	if rep.Skipped {
		r.Stats.FilesSkipped++
	}
}
