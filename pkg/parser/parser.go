// Package parser turns template source into an ast tree.
//
// The parser is a recursive descent over a single cursor: a children loop
// dispatches on the next bytes to element, text, interpolation, comment and
// CDATA parsers, and elements recurse back into the children loop with their
// tag on an ancestor stack. An end tag for any open ancestor stops the loop,
// which closes unclosed inner elements without swallowing the outer end tag.
//
// Parsing never fails. Malformed input yields a best-effort tree plus
// diagnostics.
package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/tplparse/pkg/ast"
)

// Parser holds parse options. A Parser is safe for concurrent use; each call
// gets its own cursor and ancestor stack.
type Parser struct {
	mode   ast.TextMode
	delims ast.Delimiters
	logger *log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithMode sets the text mode the parse starts in. The default is DATA.
func WithMode(mode ast.TextMode) Option {
	return func(p *Parser) {
		p.mode = mode
	}
}

// WithDelimiters sets the interpolation delimiters. Invalid pairs are ignored.
func WithDelimiters(open, closeDelim string) Option {
	return func(p *Parser) {
		d := ast.Delimiters{Open: open, Close: closeDelim}
		if d.IsValid() {
			p.delims = d
		}
	}
}

// WithLogger sets the logger diagnostics are written to at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a parser with the given options.
func New(opts ...Option) *Parser {
	p := &Parser{
		mode:   ast.ModeData,
		delims: ast.DefaultDelimiters(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode returns the initial text mode.
func (p *Parser) Mode() ast.TextMode {
	return p.mode
}

// Delimiters returns the interpolation delimiters.
func (p *Parser) Delimiters() ast.Delimiters {
	return p.delims
}

// Result is the outcome of parsing an in-memory string.
type Result struct {
	Root        *ast.Node
	Diagnostics []Diagnostic
}

// Document is a parsed source with everything needed to report on it.
type Document struct {
	Path        string
	Content     []byte
	Lines       *ast.LineIndex
	Mode        ast.TextMode
	Root        *ast.Node
	Diagnostics []Diagnostic
}

// Parse parses source with default options and returns the Root node.
func Parse(source string) *ast.Node {
	return New().ParseString(source).Root
}

// ParseString parses source and returns the tree with its diagnostics.
func (p *Parser) ParseString(source string) *Result {
	return p.run(source, "")
}

// Parse parses content read from path. Content is copied, so the caller may
// reuse the slice. The only error is context cancellation.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	source := string(content)
	res := p.run(source, path)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	return &Document{
		Path:        path,
		Content:     []byte(source),
		Lines:       ast.NewLineIndex(source),
		Mode:        p.mode,
		Root:        res.Root,
		Diagnostics: res.Diagnostics,
	}, nil
}

func (p *Parser) newState(source, path string) *state {
	return &state{
		cur:    newCursor(source),
		mode:   p.mode,
		delims: p.delims,
		path:   path,
		logger: p.logger,
	}
}

func (p *Parser) run(source, path string) *Result {
	s := p.newState(source, path)

	root := ast.NewRoot()
	root.Children = s.parseChildren()
	root.Span = ast.SourceRange{Start: 0, End: len(source)}

	if len(s.diags) > 0 {
		lines := ast.NewLineIndex(source)
		for i := range s.diags {
			pos := lines.PositionAt(s.diags[i].Offset)
			s.diags[i].Line = pos.Line
			s.diags[i].Column = pos.Column
		}
	}

	return &Result{Root: root, Diagnostics: s.diags}
}

// state is the per-call parse context.
type state struct {
	cur       *cursor
	mode      ast.TextMode
	delims    ast.Delimiters
	ancestors ancestorStack
	path      string
	diags     []Diagnostic
	logger    *log.Logger
}

func (s *state) report(code Code, offset int, format string, args ...any) {
	d := Diagnostic{
		Code:     code,
		Severity: code.Severity(),
		Message:  fmt.Sprintf(format, args...),
		Path:     s.path,
		Offset:   offset,
	}
	s.diags = append(s.diags, d)

	s.logger.Debug(d.Message,
		"code", string(code),
		"offset", offset,
		"depth", s.ancestors.depth(),
	)
}
