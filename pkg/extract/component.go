package extract

import (
	"github.com/yaklabco/tplparse/pkg/ast"
	"github.com/yaklabco/tplparse/pkg/langdetect"
	"github.com/yaklabco/tplparse/pkg/parser"
)

const templateTag = "template"

// component returns the body of the first top-level <template> element.
// Components without one (Svelte, for instance) are markup throughout and
// yield the whole file.
func (e *Extractor) component(path string, content []byte) Source {
	root := parser.Parse(string(content))

	for _, child := range root.Children {
		if child.Kind != ast.NodeElement || child.Tag != templateTag || child.IsSelfClosing {
			continue
		}

		body := bodyRange(child)
		return Source{
			Path:     path,
			Kind:     langdetect.KindComponent,
			Content:  content[body.Start:body.End],
			Segments: []ast.SourceRange{body},
		}
	}

	return wholeFile(path, content, langdetect.KindComponent)
}

// bodyRange returns the byte range covered by an element's children.
// An empty body is reported as an empty range at the element start.
func bodyRange(el *ast.Node) ast.SourceRange {
	if len(el.Children) == 0 {
		return ast.SourceRange{Start: el.Span.Start, End: el.Span.Start}
	}
	first := el.Children[0].Span.Start
	last := el.Children[len(el.Children)-1].Span.End
	return ast.SourceRange{Start: first, End: last}
}
