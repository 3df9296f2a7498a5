package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor_Advance(t *testing.T) {
	t.Parallel()

	c := newCursor("ab \t\r\n\fcd")
	assert.Equal(t, byte('a'), c.peek(0))

	c.advanceBy(2)
	assert.Equal(t, 5, c.advanceSpaces())
	assert.Equal(t, "cd", c.rest())

	c.advanceBy(100)
	assert.True(t, c.eof())
	assert.Equal(t, byte(0), c.peek(0))
	assert.Equal(t, 0, c.advanceSpaces())
}

func TestCursor_IndexOf(t *testing.T) {
	t.Parallel()

	c := newCursor("x<y<z")
	c.advanceBy(1)

	assert.Equal(t, 0, c.indexOf("<", 0))
	assert.Equal(t, 2, c.indexOf("<", 1))
	assert.Equal(t, -1, c.indexOf("q", 0))
	assert.Equal(t, -1, c.indexOf("<", 10))
	assert.True(t, c.startsWith("<y"))
	assert.Equal(t, "<y<z", c.advanceToEnd())
}

func TestAncestorStack_Balanced(t *testing.T) {
	t.Parallel()

	s := New().newState("<a><b><c></a>rest", "")

	nodes := s.parseChildren()
	assert.Equal(t, 0, s.ancestors.depth())
	assert.Len(t, nodes, 2)
	assert.Len(t, s.diags, 2)
}

func TestAtEndTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		tag   string
		want  bool
	}{
		{"</div>", "div", true},
		{"</div", "div", true},
		{"</div >", "div", true},
		{"</div/>", "div", true},
		{"</divx>", "div", false},
		{"</di>", "div", false},
		{"<div>", "div", false},
		{"</>", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			s := New().newState(tt.input, "")
			assert.Equal(t, tt.want, s.atEndTag(tt.tag))
		})
	}
}
