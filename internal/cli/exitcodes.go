package cli

import "github.com/yaklabco/grepl/pkg/runner"

// Exit codes for grepl, following the grep convention.
const (
	// ExitMatch indicates at least one line was selected.
	ExitMatch = 0

	// ExitNoMatch indicates no lines were selected.
	ExitNoMatch = 1

	// ExitError indicates a usage, configuration, or file error.
	ExitError = 2
)

// ExitCodeFromResult determines the exit code from a run result. Under
// quiet output a match wins even when some files errored, so pipelines can
// use the exit status alone.
func ExitCodeFromResult(result *runner.Result, quiet bool) int {
	if result == nil {
		return ExitError
	}
	if quiet && result.Matched() {
		return ExitMatch
	}
	if result.Errored() {
		return ExitError
	}
	if result.Matched() {
		return ExitMatch
	}
	return ExitNoMatch
}
