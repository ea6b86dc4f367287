// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError = "error"
	FieldPath  = "path"
	FieldPaths = "paths"
	FieldFiles = "files"
	FieldLabel = "label"

	// Expression fields.
	FieldDialect     = "dialect"
	FieldExpressions = "expressions"
	FieldIgnoreCase  = "ignore_case"
	FieldInvert      = "invert"

	// Output fields.
	FieldMode          = "mode"
	FieldColor         = "color"
	FieldBeforeContext = "before_context"
	FieldAfterContext  = "after_context"

	// Statistics fields.
	FieldFilesScanned = "files_scanned"
	FieldFilesMatched = "files_matched"
	FieldFilesSkipped = "files_skipped"
	FieldFilesErrored = "files_errored"
)
