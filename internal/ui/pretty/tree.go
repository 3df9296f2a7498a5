package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/yaklabco/tplparse/pkg/ast"
)

// maxContentWidth caps quoted leaf content in tree labels.
const maxContentWidth = 60

// TreeOptions controls FormatTree.
type TreeOptions struct {
	// ShowSpans appends each node's byte range.
	ShowSpans bool
}

// FormatTree renders a syntax tree as an indented outline:
//
//	Root
//	├── Element <div id="a">
//	│   └── Interpolation " name "
//	└── Text "\n"
func (s *Styles) FormatTree(root *ast.Node, opts TreeOptions) string {
	if root == nil {
		return ""
	}

	t := s.subtree(root, opts).
		Enumerator(tree.DefaultEnumerator).
		EnumeratorStyle(s.Branch.PaddingRight(1))

	return t.String() + "\n"
}

func (s *Styles) subtree(n *ast.Node, opts TreeOptions) *tree.Tree {
	t := tree.Root(s.NodeLabel(n, opts))
	for _, child := range n.Children {
		if len(child.Children) > 0 {
			t.Child(s.subtree(child, opts))
			continue
		}
		t.Child(s.NodeLabel(child, opts))
	}
	return t
}

// NodeLabel returns the one-line description of a node.
func (s *Styles) NodeLabel(n *ast.Node, opts TreeOptions) string {
	var b strings.Builder
	b.WriteString(s.Kind.Render(n.Kind.String()))

	switch n.Kind {
	case ast.NodeRoot:
	case ast.NodeElement:
		b.WriteString(" " + s.startTag(n))
		if !n.IsSelfClosing && !n.Closed {
			b.WriteString(s.Warning.Render(" unclosed"))
		}
	case ast.NodeComment, ast.NodeCDATA:
		b.WriteString(" " + s.Comment.Render(quote(n.Content)))
	case ast.NodeInterpolation:
		b.WriteString(" " + s.Interpolation.Render(quote(n.Content)))
	default:
		b.WriteString(" " + s.Text.Render(quote(n.Content)))
	}

	if opts.ShowSpans {
		b.WriteString(" " + s.Span.Render(fmt.Sprintf("[%d,%d)", n.Span.Start, n.Span.End)))
	}

	return b.String()
}

func (s *Styles) startTag(n *ast.Node) string {
	var b strings.Builder
	b.WriteString(s.Tag.Render("<" + n.Tag))
	for _, attr := range n.Props {
		b.WriteString(" " + s.AttrName.Render(attr.Name))
		if attr.Value != "" {
			b.WriteString("=" + s.AttrValue.Render(strconv.Quote(attr.Value)))
		}
	}
	if n.IsSelfClosing {
		b.WriteString(s.Tag.Render("/>"))
	} else {
		b.WriteString(s.Tag.Render(">"))
	}
	return b.String()
}

// quote renders content on one line, eliding the middle of long values.
func quote(content string) string {
	if len(content) > maxContentWidth {
		half := maxContentWidth / 2
		content = content[:half] + "…" + content[len(content)-half:]
	}
	return strconv.Quote(content)
}
