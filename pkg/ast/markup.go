package ast

import (
	"strings"
)

// Markup re-synthesizes template markup from a tree.
//
// Text is written verbatim. Attribute values are double-quoted unless they
// contain a double quote, single-quoted unless they also contain a single
// quote, and written unquoted when they hold both. Bare attributes with an
// empty value are written as a name only. End tags are only written for elements that were closed
// in the source, so the markup of a degraded tree stays degraded.
func Markup(root *Node, delims Delimiters) string {
	if !delims.IsValid() {
		delims = DefaultDelimiters()
	}
	var sb strings.Builder
	writeMarkup(&sb, root, delims)
	return sb.String()
}

func writeMarkup(sb *strings.Builder, n *Node, delims Delimiters) {
	if n == nil {
		return
	}

	switch n.Kind {
	case NodeRoot:
		for _, child := range n.Children {
			writeMarkup(sb, child, delims)
		}
	case NodeElement:
		sb.WriteByte('<')
		sb.WriteString(n.Tag)
		for _, attr := range n.Props {
			sb.WriteByte(' ')
			writeAttribute(sb, attr)
		}
		if n.IsSelfClosing {
			sb.WriteString("/>")
			return
		}
		sb.WriteByte('>')
		for _, child := range n.Children {
			writeMarkup(sb, child, delims)
		}
		if n.Closed {
			sb.WriteString("</")
			sb.WriteString(n.Tag)
			sb.WriteByte('>')
		}
	case NodeText:
		sb.WriteString(n.Content)
	case NodeInterpolation:
		sb.WriteString(delims.Open)
		sb.WriteString(n.Content)
		sb.WriteString(delims.Close)
	case NodeComment:
		sb.WriteString("<!--")
		sb.WriteString(n.Content)
		sb.WriteString("-->")
	case NodeCDATA:
		sb.WriteString("<![CDATA[")
		sb.WriteString(n.Content)
		sb.WriteString("]]>")
	}
}

func writeAttribute(sb *strings.Builder, attr Attribute) {
	sb.WriteString(attr.Name)
	if attr.Value == "" {
		return
	}
	sb.WriteByte('=')

	hasDouble := strings.IndexByte(attr.Value, '"') >= 0
	hasSingle := strings.IndexByte(attr.Value, '\'') >= 0
	switch {
	case !hasDouble:
		writeQuoted(sb, attr.Value, '"')
	case !hasSingle:
		writeQuoted(sb, attr.Value, '\'')
	case unquotable(attr.Value):
		sb.WriteString(attr.Value)
	default:
		// No quoting reproduces such a value.
		writeQuoted(sb, attr.Value, '"')
	}
}

func writeQuoted(sb *strings.Builder, value string, quote byte) {
	sb.WriteByte(quote)
	sb.WriteString(value)
	sb.WriteByte(quote)
}

// unquotable reports whether value reads back as a single unquoted
// attribute value: it must not open with a quote or hold whitespace, '/'
// or '>'.
func unquotable(value string) bool {
	if value[0] == '"' || value[0] == '\'' {
		return false
	}
	return !strings.ContainsAny(value, "\t\r\n\f />")
}
