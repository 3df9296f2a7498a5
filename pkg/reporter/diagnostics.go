package reporter

import (
	"bufio"
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/tplparse/internal/ui/pretty"
	"github.com/yaklabco/tplparse/pkg/parser"
	"github.com/yaklabco/tplparse/pkg/runner"
)

// DiagnosticsReporter prints diagnostics grouped by file, optionally with
// the offending source line.
type DiagnosticsReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiagnosticsReporter creates a new diagnostics reporter.
func NewDiagnosticsReporter(opts Options) *DiagnosticsReporter {
	return &DiagnosticsReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *DiagnosticsReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for i := range result.Files {
		file := &result.Files[i]
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		}
		if len(file.Diagnostics) == 0 {
			continue
		}

		diags := slices.Clone(file.Diagnostics)
		parser.SortDiagnostics(diags)

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(diags)))
		for _, d := range diags {
			d.Path = path
			var line string
			if r.opts.ShowContext && file.Lines != nil {
				line = file.Lines.LineContent(d.Line)
			}
			fmt.Fprint(r.bw, r.styles.FormatDiagnostic(&d, r.opts.ShowContext, line))
			total++
		}
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}
