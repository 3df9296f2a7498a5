// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldCommand    = "command"

	// Configuration fields.
	FieldConfig = "config"
	FieldMode   = "mode"
	FieldFormat = "format"
	FieldJobs   = "jobs"

	// Parse fields.
	FieldCode     = "code"
	FieldOffset   = "offset"
	FieldDepth    = "depth"
	FieldKind     = "kind"
	FieldLanguage = "language"
	FieldSources  = "sources"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldDuration         = "duration"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
