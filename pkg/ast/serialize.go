package ast

import "encoding/json"

// nodeShape is the serialized form of a Node. Fields that do not apply to a
// kind are left nil so they are omitted, while Root and Element always carry
// a (possibly empty) children list.
type nodeShape struct {
	Type          NodeKind     `json:"type" yaml:"type"`
	Tag           *string      `json:"tag,omitempty" yaml:"tag,omitempty"`
	Props         *[]Attribute `json:"props,omitempty" yaml:"props,omitempty"`
	IsSelfClosing *bool        `json:"isSelfClosing,omitempty" yaml:"isSelfClosing,omitempty"`
	Closed        *bool        `json:"closed,omitempty" yaml:"closed,omitempty"`
	Content       *string      `json:"content,omitempty" yaml:"content,omitempty"`
	Children      *[]*Node     `json:"children,omitempty" yaml:"children,omitempty"`
	Span          SourceRange  `json:"span" yaml:"span"`
}

func (n *Node) shape() nodeShape {
	out := nodeShape{Type: n.Kind, Span: n.Span}

	switch n.Kind {
	case NodeRoot:
		children := nonNilChildren(n.Children)
		out.Children = &children
	case NodeElement:
		tag := n.Tag
		props := n.Props
		if props == nil {
			props = []Attribute{}
		}
		selfClosing := n.IsSelfClosing
		closed := n.Closed
		children := nonNilChildren(n.Children)
		out.Tag = &tag
		out.Props = &props
		out.IsSelfClosing = &selfClosing
		out.Closed = &closed
		out.Children = &children
	case NodeText, NodeInterpolation, NodeComment, NodeCDATA:
		content := n.Content
		out.Content = &content
	}

	return out
}

func nonNilChildren(children []*Node) []*Node {
	if children == nil {
		return []*Node{}
	}
	return children
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.shape())
}

// MarshalYAML implements yaml.Marshaler.
func (n *Node) MarshalYAML() (any, error) {
	return n.shape(), nil
}
