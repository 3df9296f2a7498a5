package runner

import (
	"github.com/yaklabco/tplparse/pkg/ast"
	"github.com/yaklabco/tplparse/pkg/extract"
	"github.com/yaklabco/tplparse/pkg/langdetect"
	"github.com/yaklabco/tplparse/pkg/parser"
)

// ParsedSource is one extracted template and its parse.
type ParsedSource struct {
	// Source is the extracted template, with its file segments.
	Source extract.Source

	// Document is the parse of Source.Content. Its diagnostics carry
	// offsets relative to Source.Content.
	Document *parser.Document
}

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Kind is the classification that decided extraction.
	Kind langdetect.Kind

	// Sources holds every template found in the file, in file order.
	Sources []ParsedSource

	// Diagnostics are the diagnostics of all sources, with Offset, Line
	// and Column relative to the file.
	Diagnostics []parser.Diagnostic

	// Lines indexes the file content. It is only built when the file has
	// diagnostics, for reporters that print source context.
	Lines *ast.LineIndex

	// Error is set if the file could not be processed.
	Error error
}

// Skipped reports whether the file yielded no template to parse.
func (o *FileOutcome) Skipped() bool {
	return o.Error == nil && len(o.Sources) == 0
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files read and parsed without error.
	FilesProcessed int

	// FilesSkipped is the number of processed files with no template in them.
	FilesSkipped int

	// FilesErrored is the number of files that could not be processed.
	FilesErrored int

	// FilesWithIssues is the number of files with at least one diagnostic.
	FilesWithIssues int

	// SourcesParsed is the number of templates parsed across all files.
	SourcesParsed int

	// NodesTotal counts AST nodes across all parsed sources, roots excluded.
	NodesTotal int

	// DiagnosticsTotal is the total number of diagnostics across all files.
	DiagnosticsTotal int

	// DiagnosticsBySeverity maps severity levels to counts.
	DiagnosticsBySeverity map[parser.Severity]int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

// HasWarnings reports whether any warning-severity diagnostics were found.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[parser.SeverityWarning] > 0
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[parser.Severity]int),
	}
}

// accumulate appends an outcome and updates the stats.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	if outcome.Skipped() {
		r.Stats.FilesSkipped++
	}

	r.Stats.SourcesParsed += len(outcome.Sources)
	for _, src := range outcome.Sources {
		// Count excludes the root itself.
		r.Stats.NodesTotal += ast.Count(src.Document.Root) - 1
	}

	r.Stats.DiagnosticsTotal += len(outcome.Diagnostics)
	if len(outcome.Diagnostics) > 0 {
		r.Stats.FilesWithIssues++
	}
	for sev, n := range parser.CountBySeverity(outcome.Diagnostics) {
		r.Stats.DiagnosticsBySeverity[sev] += n
	}
}
