// Package ast defines the template syntax tree produced by the parser.
//
// A tree is a Root node whose Children are Element, Text, Interpolation,
// Comment and CDATA nodes in source order. Elements own their children;
// nothing else holds references into a tree once the parser returns it.
package ast

import "fmt"

// NodeKind classifies the type of an AST node.
type NodeKind uint8

// Node kinds.
const (
	NodeRoot NodeKind = iota
	NodeElement
	NodeText
	NodeInterpolation
	NodeComment
	NodeCDATA
)

var nodeKindNames = [...]string{
	NodeRoot:          "Root",
	NodeElement:       "Element",
	NodeText:          "Text",
	NodeInterpolation: "Interpolation",
	NodeComment:       "Comment",
	NodeCDATA:         "CDATA",
}

// String returns the kind name used in serialized trees.
func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Attribute is a single attribute or directive from a start tag.
// Directive syntax (`@click`, `v-on:x.stop`) is not interpreted; the whole
// token is the Name.
type Attribute struct {
	Name  string      `json:"name" yaml:"name"`
	Value string      `json:"value" yaml:"value"`
	Span  SourceRange `json:"span" yaml:"span"`
}

// Node represents a single node in the template AST.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tag is the element name, case preserved. Element only.
	Tag string

	// Props holds attributes and directives in source order. Element only.
	Props []Attribute

	// IsSelfClosing is true when the start tag ended in "/>". Element only.
	IsSelfClosing bool

	// Closed is true when a matching end tag was consumed. Element only.
	Closed bool

	// Children holds child nodes for Root and Element.
	Children []*Node

	// Content is the raw source text of Text, Interpolation, Comment and
	// CDATA nodes, without delimiters.
	Content string

	// Span is the byte range of the node in the original source,
	// delimiters and tags included.
	Span SourceRange
}

// NewRoot creates an empty Root node.
func NewRoot() *Node {
	return &Node{Kind: NodeRoot}
}

// NewElement creates an Element node with no children.
func NewElement(tag string, props []Attribute, selfClosing bool) *Node {
	return &Node{
		Kind:          NodeElement,
		Tag:           tag,
		Props:         props,
		IsSelfClosing: selfClosing,
	}
}

// NewLeaf creates a content node (Text, Interpolation, Comment or CDATA).
func NewLeaf(kind NodeKind, content string) *Node {
	return &Node{Kind: kind, Content: content}
}

// IsContainer reports whether the node kind can hold children.
func (n *Node) IsContainer() bool {
	return n.Kind == NodeRoot || n.Kind == NodeElement
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// AppendChild appends child to n's children.
func (n *Node) AppendChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
}

// Attr returns the first attribute with the given name.
func (n *Node) Attr(name string) (Attribute, bool) {
	for _, attr := range n.Props {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attribute{}, false
}

// Text returns the node's span of source.
// Returns "" if the span does not fit inside source.
func (n *Node) Text(source string) string {
	if n.Span.Start < 0 || n.Span.End > len(source) || n.Span.Start > n.Span.End {
		return ""
	}
	return source[n.Span.Start:n.Span.End]
}
