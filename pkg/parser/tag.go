package parser

import (
	"github.com/yaklabco/tplparse/pkg/ast"
)

// tagKind selects between start and end tag tokenizing.
type tagKind uint8

const (
	tagStart tagKind = iota
	tagEnd
)

// scanTagName returns the length of the tag name at offset from, or 0 when
// the byte there is not an ASCII letter.
func (s *state) scanTagName(from int) int {
	if !isASCIILetter(s.cur.peek(from)) {
		return 0
	}
	n := from + 1
	for n < s.cur.remaining() && isTagNameChar(s.cur.peek(n)) {
		n++
	}
	return n - from
}

// parseTag consumes a start or end tag. For start tags the attribute list is
// parsed and the self-closing flag set; end tags are consumed through the
// next '>' and yield an element with no props.
//
// A tag whose name does not match degrades to an element with an empty name.
func (s *state) parseTag(kind tagKind) *ast.Node {
	start := s.cur.pos

	prefix := 1
	if kind == tagEnd {
		prefix = 2
	}

	nameLen := s.scanTagName(prefix)
	tag := s.cur.input[start+prefix : start+prefix+nameLen]
	if nameLen == 0 {
		// Consume only the opener so the caller still makes progress.
		s.cur.advanceBy(prefix)
	} else {
		s.cur.advanceBy(prefix + nameLen)
	}
	s.cur.advanceSpaces()

	if kind == tagEnd {
		if idx := s.cur.indexOf(">", 0); idx >= 0 {
			s.cur.advanceBy(idx + 1)
		} else {
			s.cur.advanceToEnd()
		}
		el := ast.NewElement(tag, nil, false)
		el.Span = ast.SourceRange{Start: start, End: s.cur.pos}
		return el
	}

	props := s.parseAttributes()

	selfClosing := s.cur.startsWith("/>")
	switch {
	case selfClosing:
		s.cur.advanceBy(2)
	case s.cur.startsWith(">"):
		s.cur.advanceBy(1)
	}

	el := ast.NewElement(tag, props, selfClosing)
	el.Span = ast.SourceRange{Start: start, End: s.cur.pos}
	return el
}

// parseAttributes reads attributes and directives up to '>' or '/>'.
// Directive names such as "@click" or "v-on:mousedown.stop" are kept verbatim.
func (s *state) parseAttributes() []ast.Attribute {
	var props []ast.Attribute

	for !s.cur.eof() && !s.cur.startsWith(">") && !s.cur.startsWith("/>") {
		start := s.cur.pos

		nameLen := s.scanAttributeName()
		if nameLen == 0 {
			s.report(CodeUnexpectedCharacter, start, "unexpected %q in tag", s.cur.peek(0))
			s.cur.advanceBy(1)
			s.cur.advanceSpaces()
			continue
		}

		name := s.cur.input[start : start+nameLen]
		s.cur.advanceBy(nameLen)
		end := s.cur.pos
		s.cur.advanceSpaces()

		attr := ast.Attribute{Name: name}

		if !s.cur.startsWith("=") {
			s.report(CodeAttributeWithoutValue, start, "attribute %q has no value", name)
			attr.Span = ast.SourceRange{Start: start, End: end}
			props = append(props, attr)
			continue
		}

		s.cur.advanceBy(1)
		s.cur.advanceSpaces()

		attr.Value, end = s.parseAttributeValue(name, end)
		attr.Span = ast.SourceRange{Start: start, End: end}
		s.cur.advanceSpaces()

		props = append(props, attr)
	}

	return props
}

// scanAttributeName returns the length of the attribute name at the cursor.
func (s *state) scanAttributeName() int {
	if !isTagNameChar(s.cur.peek(0)) || s.cur.eof() {
		return 0
	}
	n := 1
	for n < s.cur.remaining() {
		b := s.cur.peek(n)
		if !isTagNameChar(b) || b == '=' {
			break
		}
		n++
	}
	return n
}

// parseAttributeValue reads a quoted or unquoted value after '='. It returns
// the value and the end offset of the attribute; nameEnd is used when no
// value could be read.
func (s *state) parseAttributeValue(name string, nameEnd int) (string, int) {
	quote := s.cur.peek(0)
	if quote == '"' || quote == '\'' {
		open := s.cur.pos
		s.cur.advanceBy(1)

		idx := s.cur.indexOf(string(quote), 0)
		if idx < 0 {
			s.report(CodeUnterminatedAttribute, open, "unterminated value for attribute %q", name)
			return "", s.cur.pos
		}

		value := s.cur.input[s.cur.pos : s.cur.pos+idx]
		s.cur.advanceBy(idx + 1)
		return value, s.cur.pos
	}

	n := 0
	for n < s.cur.remaining() && isTagNameChar(s.cur.peek(n)) {
		n++
	}
	if n == 0 {
		return "", nameEnd
	}

	value := s.cur.input[s.cur.pos : s.cur.pos+n]
	s.cur.advanceBy(n)
	return value, s.cur.pos
}
