package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/tplparse/internal/ui/pretty"
	"github.com/yaklabco/tplparse/pkg/runner"
)

// TreeReporter prints each parsed template as an outline, followed by the
// file's diagnostics.
type TreeReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTreeReporter creates a new tree reporter.
func NewTreeReporter(opts Options) *TreeReporter {
	return &TreeReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TreeReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to parse."))
		}
		return 0, nil
	}

	treeOpts := pretty.TreeOptions{ShowSpans: r.opts.ShowSpans}
	first := true

	for i := range result.Files {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("report cancelled: %w", err)
		}

		file := &result.Files[i]
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		}

		for j := range file.Sources {
			if !first {
				fmt.Fprintln(r.bw)
			}
			first = false

			fmt.Fprintln(r.bw, r.styles.FilePath.Render(sourceLabel(path, file, j)))
			fmt.Fprint(r.bw, r.styles.FormatTree(file.Sources[j].Document.Root, treeOpts))
		}

		for _, d := range file.Diagnostics {
			d.Path = path
			fmt.Fprint(r.bw, r.styles.FormatDiagnostic(&d, false, ""))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return countDiagnostics(result), nil
}
