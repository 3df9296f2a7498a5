package runner

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/tplparse/pkg/ast"
	"github.com/yaklabco/tplparse/pkg/extract"
	"github.com/yaklabco/tplparse/pkg/fsutil"
	"github.com/yaklabco/tplparse/pkg/langdetect"
	"github.com/yaklabco/tplparse/pkg/parser"
)

// Runner reads, extracts and parses template files.
// A Runner is safe for concurrent use; every file gets its own parse state.
type Runner struct {
	// Parser parses each extracted source.
	Parser *parser.Parser

	// Extractor splits files into template sources.
	Extractor *extract.Extractor

	logger *log.Logger
}

// New creates a Runner. A nil extractor uses extract.DefaultLanguages and a
// nil logger discards output.
func New(p *parser.Parser, x *extract.Extractor, logger *log.Logger) *Runner {
	if p == nil {
		p = parser.New()
	}
	if x == nil {
		x = extract.New(nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Parser: p, Extractor: x, logger: logger}
}

// Run discovers files under opts.Paths and processes them on a worker pool.
// Outcomes are returned in path order. A per-file failure is recorded on
// its FileOutcome; only discovery failures and cancellation return an error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	r.logger.Debug("discovered files", "files_discovered", len(files))

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := r.ProcessFile(ctx, path)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// RunContent processes one in-memory input, such as stdin, as a single-file
// run. path only guides extraction; unnamed or unclassified content is
// parsed as a template.
func (r *Runner) RunContent(ctx context.Context, path string, content []byte) *Result {
	kind := langdetect.KindTemplate
	if path != "" {
		if k := langdetect.Classify(path, content); k != langdetect.KindUnknown {
			kind = k
		}
	}

	result := &Result{Stats: newStats()}
	result.Stats.FilesDiscovered = 1
	result.accumulate(r.ProcessContent(ctx, path, content, kind))
	return result
}

// ProcessFile reads and parses a single file.
func (r *Runner) ProcessFile(ctx context.Context, path string) FileOutcome {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		r.logger.Warn("read failed", "path", path, "error", err)
		return FileOutcome{Path: path, Error: err}
	}

	return r.ProcessContent(ctx, path, content, langdetect.Classify(path, content))
}

// ProcessContent extracts and parses content already in memory, such as
// stdin. kind selects the extraction strategy.
func (r *Runner) ProcessContent(ctx context.Context, path string, content []byte, kind langdetect.Kind) FileOutcome {
	outcome := FileOutcome{Path: path, Kind: kind}

	sources, err := r.Extractor.Extract(ctx, path, content, kind)
	if err != nil {
		outcome.Error = fmt.Errorf("extract %s: %w", path, err)
		return outcome
	}

	var lines *ast.LineIndex
	for _, src := range sources {
		doc, err := r.Parser.Parse(ctx, path, src.Content)
		if err != nil {
			outcome.Error = err
			return outcome
		}
		outcome.Sources = append(outcome.Sources, ParsedSource{Source: src, Document: doc})

		if len(doc.Diagnostics) == 0 {
			continue
		}
		if lines == nil {
			lines = ast.NewLineIndex(string(content))
		}
		for _, d := range doc.Diagnostics {
			outcome.Diagnostics = append(outcome.Diagnostics, toFile(d, &src, lines))
		}
	}
	parser.SortDiagnostics(outcome.Diagnostics)
	outcome.Lines = lines

	r.logger.Debug("parsed file",
		"path", path,
		"kind", kind.String(),
		"sources", len(outcome.Sources),
		"diagnostics", len(outcome.Diagnostics),
	)

	return outcome
}

// toFile rebases a source-relative diagnostic onto the file.
func toFile(d parser.Diagnostic, src *extract.Source, lines *ast.LineIndex) parser.Diagnostic {
	d.Offset = src.FileOffset(d.Offset)
	pos := lines.PositionAt(d.Offset)
	d.Line = pos.Line
	d.Column = pos.Column
	return d
}
