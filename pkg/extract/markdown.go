package extract

import (
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/tplparse/pkg/ast"
	"github.com/yaklabco/tplparse/pkg/langdetect"
)

// markdown returns the fenced code blocks whose language is wanted.
// Blocks without an info string are kept when their content looks like
// markup and "html" is wanted.
func (e *Extractor) markdown(path string, content []byte) []Source {
	reader := text.NewReader(content)
	doc := e.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	var sources []Source

	//nolint:errcheck // walker never returns an error
	gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		block, ok := n.(*gast.FencedCodeBlock)
		if !ok {
			return gast.WalkContinue, nil
		}

		src, ok := e.fencedSource(path, content, block)
		if ok {
			sources = append(sources, src)
		}
		return gast.WalkSkipChildren, nil
	})

	return sources
}

func (e *Extractor) fencedSource(path string, content []byte, block *gast.FencedCodeBlock) (Source, bool) {
	lines := block.Lines()
	if lines.Len() == 0 {
		return Source{}, false
	}

	var body []byte
	segments := make([]ast.SourceRange, 0, lines.Len())
	for i := range lines.Len() {
		seg := lines.At(i)
		// Raw bytes rather than seg.Value, which may add tab padding.
		body = append(body, content[seg.Start:seg.Stop]...)
		segments = append(segments, ast.SourceRange{Start: seg.Start, End: seg.Stop})
	}

	lang := ""
	if block.Info != nil {
		lang = langdetect.NormalizeFence(string(block.Info.Value(content)))
	}
	if lang == "" {
		lang = langdetect.Detect(body)
	}
	if !e.wantsLanguage(lang) {
		return Source{}, false
	}

	return Source{
		Path:     path,
		Kind:     langdetect.KindMarkdown,
		Language: lang,
		Content:  body,
		Segments: segments,
	}, true
}
