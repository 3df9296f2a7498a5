// Package reporter writes parse results in human and machine formats.
package reporter

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yaklabco/tplparse/pkg/runner"
)

// Reporter formats and writes parse results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of diagnostics reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	defaults := DefaultOptions()
	if opts.Writer == nil {
		opts.Writer = defaults.Writer
	}
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = io.Discard
	}
	if !opts.Delimiters.IsValid() {
		opts.Delimiters = defaults.Delimiters
	}

	format := opts.Format
	if format == "" {
		format = FormatTree
	}

	switch format {
	case FormatTree:
		return NewTreeReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatYAML:
		return NewYAMLReporter(opts), nil
	case FormatMarkup:
		return NewMarkupReporter(opts), nil
	case FormatDiagnostics:
		return NewDiagnosticsReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// stdinLabel names unnamed input in every output format.
const stdinLabel = "<input>"

// displayPath returns path relative to workDir when that does not climb
// out of it. Unnamed input is shown as stdinLabel.
func displayPath(path, workDir string) string {
	if path == "" {
		return stdinLabel
	}
	if workDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// sourceLabel names the i-th source of a file. Files with a single
// whole-file source are named by path alone.
func sourceLabel(path string, file *runner.FileOutcome, i int) string {
	if path == "" {
		path = stdinLabel
	}
	src := file.Sources[i].Source
	if len(file.Sources) == 1 && src.Language == "" {
		return path
	}
	label := fmt.Sprintf("%s#%d", path, i+1)
	if src.Language != "" {
		label += " (" + src.Language + ")"
	}
	return label
}

func countDiagnostics(result *runner.Result) int {
	if result == nil {
		return 0
	}
	return result.Stats.DiagnosticsTotal
}
