package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/tplparse/pkg/ast"
	"github.com/yaklabco/tplparse/pkg/parser"
	"github.com/yaklabco/tplparse/pkg/runner"
)

// outputVersion is the schema version of JSON and YAML output.
const outputVersion = "1.0.0"

// Output is the top-level structure of JSON and YAML output.
type Output struct {
	Version string       `json:"version" yaml:"version"`
	Files   []FileOutput `json:"files" yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// FileOutput is a single file's results.
type FileOutput struct {
	Path    string         `json:"path" yaml:"path"`
	Kind    string         `json:"kind" yaml:"kind"`
	Sources []SourceOutput `json:"sources" yaml:"sources"`

	// Diagnostics carry file-relative positions.
	Diagnostics []parser.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Error       string              `json:"error,omitempty" yaml:"error,omitempty"`
}

// SourceOutput is one template and its tree.
type SourceOutput struct {
	Language string            `json:"language,omitempty" yaml:"language,omitempty"`
	Segments []ast.SourceRange `json:"segments" yaml:"segments"`
	Root     *ast.Node         `json:"root" yaml:"root"`
}

// Summary contains aggregate statistics.
type Summary struct {
	FilesParsed     int            `json:"filesParsed" yaml:"filesParsed"`
	FilesSkipped    int            `json:"filesSkipped" yaml:"filesSkipped"`
	FilesWithIssues int            `json:"filesWithIssues" yaml:"filesWithIssues"`
	FilesErrored    int            `json:"filesErrored" yaml:"filesErrored"`
	Sources         int            `json:"sources" yaml:"sources"`
	Nodes           int            `json:"nodes" yaml:"nodes"`
	TotalIssues     int            `json:"totalIssues" yaml:"totalIssues"`
	BySeverity      map[string]int `json:"bySeverity" yaml:"bySeverity"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := BuildOutput(result, r.opts.WorkingDir)

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

// BuildOutput converts a run result into its serializable form. Lists are
// never nil so empty results encode as [] rather than null.
func BuildOutput(result *runner.Result, workDir string) *Output {
	output := &Output{
		Version: outputVersion,
		Files:   make([]FileOutput, 0),
		Summary: Summary{BySeverity: make(map[string]int)},
	}

	if result == nil {
		return output
	}

	output.Files = make([]FileOutput, 0, len(result.Files))
	for _, file := range result.Files {
		path := displayPath(file.Path, workDir)
		fileOut := FileOutput{
			Path:        path,
			Kind:        file.Kind.String(),
			Sources:     make([]SourceOutput, 0, len(file.Sources)),
			Diagnostics: make([]parser.Diagnostic, 0, len(file.Diagnostics)),
		}
		if file.Error != nil {
			fileOut.Error = file.Error.Error()
		}

		for _, src := range file.Sources {
			segments := src.Source.Segments
			if segments == nil {
				segments = []ast.SourceRange{}
			}
			fileOut.Sources = append(fileOut.Sources, SourceOutput{
				Language: src.Source.Language,
				Segments: segments,
				Root:     src.Document.Root,
			})
		}

		for _, d := range file.Diagnostics {
			d.Path = path
			fileOut.Diagnostics = append(fileOut.Diagnostics, d)
		}

		output.Files = append(output.Files, fileOut)
	}

	stats := result.Stats
	output.Summary.FilesParsed = stats.FilesProcessed
	output.Summary.FilesSkipped = stats.FilesSkipped
	output.Summary.FilesWithIssues = stats.FilesWithIssues
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.Sources = stats.SourcesParsed
	output.Summary.Nodes = stats.NodesTotal
	output.Summary.TotalIssues = stats.DiagnosticsTotal
	for sev, n := range stats.DiagnosticsBySeverity {
		output.Summary.BySeverity[string(sev)] = n
	}

	return output
}
