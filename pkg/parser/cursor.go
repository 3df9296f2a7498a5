package parser

import "strings"

// cursor is an immutable input plus a read offset. Consuming input only
// moves the offset forward, so spans taken before a call stay valid after it.
type cursor struct {
	input string
	pos   int
}

func newCursor(input string) *cursor {
	return &cursor{input: input}
}

// rest returns the unconsumed suffix.
func (c *cursor) rest() string {
	return c.input[c.pos:]
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.input)
}

func (c *cursor) remaining() int {
	return len(c.input) - c.pos
}

// peek returns the byte i positions ahead, or 0 past the end.
func (c *cursor) peek(i int) byte {
	if c.pos+i >= len(c.input) {
		return 0
	}
	return c.input[c.pos+i]
}

func (c *cursor) startsWith(prefix string) bool {
	return strings.HasPrefix(c.input[c.pos:], prefix)
}

// indexOf returns the offset of s relative to the cursor, searching from
// from bytes ahead, or -1.
func (c *cursor) indexOf(s string, from int) int {
	if from > c.remaining() {
		return -1
	}
	idx := strings.Index(c.input[c.pos+from:], s)
	if idx < 0 {
		return -1
	}
	return idx + from
}

// advanceBy consumes n bytes, clamped to the end of input.
func (c *cursor) advanceBy(n int) {
	if n <= 0 {
		return
	}
	c.pos = min(c.pos+n, len(c.input))
}

// advanceSpaces consumes a maximal run of whitespace and returns its length.
func (c *cursor) advanceSpaces() int {
	n := 0
	for n < c.remaining() && isSpace(c.peek(n)) {
		n++
	}
	c.advanceBy(n)
	return n
}

// advanceToEnd consumes everything that is left and returns it.
func (c *cursor) advanceToEnd() string {
	rest := c.rest()
	c.pos = len(c.input)
	return rest
}

// isSpace reports whether b separates tag names and attributes.
func isSpace(b byte) bool {
	switch b {
	case '\t', '\r', '\n', '\f', ' ':
		return true
	default:
		return false
	}
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isTagNameChar reports whether b may continue a tag name, an unquoted
// attribute value, or (together with '=') an attribute name.
func isTagNameChar(b byte) bool {
	return !isSpace(b) && b != '/' && b != '>'
}
