package parser

import (
	"github.com/yaklabco/tplparse/pkg/ast"
)

const (
	commentOpen  = "<!--"
	commentClose = "-->"
	cdataOpen    = "<![CDATA["
	cdataClose   = "]]>"
)

// textTerminators returns the strings that end a text run in mode.
func (s *state) textTerminators() []string {
	switch s.mode {
	case ast.ModeRCData:
		return []string{"</", s.delims.Open}
	case ast.ModeRawText:
		return []string{"</"}
	case ast.ModeCData:
		return []string{cdataClose}
	default:
		return []string{"<", s.delims.Open}
	}
}

// parseText consumes a run of text up to the nearest terminator for the
// current mode. The run is at least one byte long: text is only entered
// when nothing else claimed the cursor, so a '<' or delimiter sitting at
// the cursor belongs to the text.
func (s *state) parseText() *ast.Node {
	start := s.cur.pos
	end := s.cur.remaining()

	for _, term := range s.textTerminators() {
		if idx := s.cur.indexOf(term, 1); idx >= 0 && idx < end {
			end = idx
		}
	}

	s.cur.advanceBy(end)
	return s.leaf(ast.NodeText, start, s.cur.input[start:s.cur.pos])
}

// parseInterpolation consumes an interpolation. Content is kept verbatim,
// surrounding whitespace included.
func (s *state) parseInterpolation() *ast.Node {
	return s.parseDelimited(ast.NodeInterpolation, s.delims.Open, s.delims.Close, CodeUnterminatedInterpolation)
}

func (s *state) parseComment() *ast.Node {
	return s.parseDelimited(ast.NodeComment, commentOpen, commentClose, CodeUnterminatedComment)
}

func (s *state) parseCDATA() *ast.Node {
	return s.parseDelimited(ast.NodeCDATA, cdataOpen, cdataClose, CodeUnterminatedCDATA)
}

// parseDelimited consumes open, then everything up to and including the next
// closeDelim. Without a closing delimiter the rest of the input becomes the
// content and code is reported.
func (s *state) parseDelimited(kind ast.NodeKind, open, closeDelim string, code Code) *ast.Node {
	start := s.cur.pos
	s.cur.advanceBy(len(open))

	idx := s.cur.indexOf(closeDelim, 0)
	if idx < 0 {
		s.report(code, start, "%s is missing its closing %q", kind, closeDelim)
		return s.leaf(kind, start, s.cur.advanceToEnd())
	}

	content := s.cur.input[s.cur.pos : s.cur.pos+idx]
	s.cur.advanceBy(idx + len(closeDelim))
	return s.leaf(kind, start, content)
}

func (s *state) leaf(kind ast.NodeKind, start int, content string) *ast.Node {
	node := ast.NewLeaf(kind, content)
	node.Span = ast.SourceRange{Start: start, End: s.cur.pos}
	return node
}
