package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/tplparse/internal/ui/pretty"
	"github.com/yaklabco/tplparse/pkg/runner"
)

// SummaryReporter prints aggregate tables: diagnostics per code, per file,
// and the run totals.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	tables *pretty.TableFormatter
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))
	return &SummaryReporter{
		opts:   opts,
		styles: styles,
		tables: pretty.NewTableFormatter(styles, pretty.TerminalWidth(opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}

	if codes := r.tables.FormatCodeTable(pretty.CountByCode(result)); codes != "" {
		fmt.Fprint(r.bw, codes)
		fmt.Fprintln(r.bw)
	}

	files := pretty.CountByFile(result)
	for i := range files {
		files[i].Path = displayPath(files[i].Path, r.opts.WorkingDir)
	}
	fmt.Fprint(r.bw, r.tables.FormatFileTable(files))

	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))

	return countDiagnostics(result), nil
}
