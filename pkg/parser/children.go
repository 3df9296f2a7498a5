package parser

import (
	"github.com/yaklabco/tplparse/pkg/ast"
)

// ancestorStack is the open-element path, outermost first. Only tag names
// are kept; the elements themselves are owned by their parents.
type ancestorStack struct {
	tags []string
}

func (a *ancestorStack) push(tag string) {
	a.tags = append(a.tags, tag)
}

func (a *ancestorStack) pop() {
	if len(a.tags) > 0 {
		a.tags = a.tags[:len(a.tags)-1]
	}
}

func (a *ancestorStack) depth() int {
	return len(a.tags)
}

// isEnd reports whether the children parser must stop: input is exhausted, or
// the cursor is at the end tag of any open element, innermost first.
func (s *state) isEnd() bool {
	if s.cur.eof() {
		return true
	}
	if !s.cur.startsWith("</") {
		return false
	}
	for i := len(s.ancestors.tags) - 1; i >= 0; i-- {
		if s.atEndTag(s.ancestors.tags[i]) {
			return true
		}
	}
	return false
}

// atEndTag reports whether the cursor is at "</tag" followed by a name
// boundary. The comparison is exact, so "</spa" does not end "span" and
// "</span" does not end "spa".
func (s *state) atEndTag(tag string) bool {
	if tag == "" || !s.cur.startsWith("</"+tag) {
		return false
	}
	next := len(tag) + 2
	if next >= s.cur.remaining() {
		return true
	}
	b := s.cur.peek(next)
	return isSpace(b) || b == '/' || b == '>'
}

// parseChildren builds sibling nodes until isEnd. Every iteration consumes
// at least one byte.
func (s *state) parseChildren() []*ast.Node {
	var nodes []*ast.Node

	for !s.isEnd() {
		var node *ast.Node

		if s.mode.AllowsTags() && s.cur.startsWith("<") {
			switch next := s.cur.peek(1); {
			case next == '!':
				if s.cur.startsWith(commentOpen) {
					node = s.parseComment()
				} else if s.cur.startsWith(cdataOpen) {
					node = s.parseCDATA()
				}
			case next == '/':
				// Stray end tag: isEnd did not claim it, so it becomes text.
			case isASCIILetter(next):
				node = s.parseElement()
			}
		}

		if node == nil && s.mode.AllowsInterpolation() && s.cur.startsWith(s.delims.Open) {
			node = s.parseInterpolation()
		}

		if node == nil {
			node = s.parseText()
		}

		nodes = append(nodes, node)
	}

	return nodes
}

// parseElement parses a start tag, its body and its end tag. A missing end
// tag is reported and the element is returned unclosed.
func (s *state) parseElement() *ast.Node {
	el := s.parseTag(tagStart)
	if el.IsSelfClosing {
		return el
	}

	el.Children = s.parseBody(el.Tag)

	if s.atEndTag(el.Tag) {
		s.parseTag(tagEnd)
		el.Closed = true
	} else {
		s.report(CodeMissingEndTag, el.Span.Start, "missing closing tag for <%s>", el.Tag)
	}

	el.Span.End = s.cur.pos
	return el
}

// parseBody parses an element's children with tag on the ancestor stack.
// The pop is deferred so the stack stays balanced on every return path.
func (s *state) parseBody(tag string) []*ast.Node {
	s.ancestors.push(tag)
	defer s.ancestors.pop()

	return s.parseChildren()
}
