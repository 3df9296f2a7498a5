package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/tplparse/pkg/ast"
	"github.com/yaklabco/tplparse/pkg/runner"
)

// MarkupReporter writes each template back out from its tree. With more
// than one template, each is preceded by a "==> label <==" header.
// File errors go to ErrorWriter so stdout stays pure markup.
type MarkupReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewMarkupReporter creates a new markup reporter.
func NewMarkupReporter(opts Options) *MarkupReporter {
	return &MarkupReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *MarkupReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	headers := result.Stats.SourcesParsed > 1
	first := true

	for i := range result.Files {
		file := &result.Files[i]
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprintf(r.opts.ErrorWriter, "%s: error: %v\n", path, file.Error)
			continue
		}

		for j, src := range file.Sources {
			if headers {
				if !first {
					fmt.Fprintln(r.bw)
				}
				fmt.Fprintf(r.bw, "==> %s <==\n", sourceLabel(path, file, j))
			}
			first = false

			fmt.Fprint(r.bw, ast.Markup(src.Document.Root, r.opts.Delimiters))
		}
	}

	return countDiagnostics(result), nil
}
