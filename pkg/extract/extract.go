// Package extract finds template sources inside files.
//
// Whole-file templates yield one source. Single-file components yield the
// body of their top-level <template> element. Markdown files yield every
// fenced code block whose language is in the configured set.
package extract

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/yaklabco/tplparse/pkg/ast"
	"github.com/yaklabco/tplparse/pkg/langdetect"
)

// DefaultLanguages are the fence languages extracted from Markdown.
var DefaultLanguages = []string{"html", "vue", "handlebars", "svelte"}

// Source is one template found in a file.
type Source struct {
	// Path is the file the source came from.
	Path string

	// Kind is the file classification that produced this source.
	Kind langdetect.Kind

	// Language is the normalized fence language for Markdown sources.
	Language string

	// Content is the template text.
	Content []byte

	// Segments are the file byte ranges that make up Content, in order.
	// Fenced blocks nested in lists or quotes have one segment per line.
	Segments []ast.SourceRange
}

// FileOffset maps an offset in Content to an offset in the file.
// Offsets past the end map to the end of the last segment.
func (s *Source) FileOffset(offset int) int {
	if len(s.Segments) == 0 {
		return offset
	}
	remaining := offset
	for _, seg := range s.Segments {
		if remaining < seg.Len() {
			return seg.Start + remaining
		}
		remaining -= seg.Len()
	}
	return s.Segments[len(s.Segments)-1].End
}

// Extractor splits files into template sources.
type Extractor struct {
	languages []string
	md        goldmark.Markdown
}

// New creates an extractor for the given fence languages.
// An empty list means DefaultLanguages.
func New(languages []string) *Extractor {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}

	normalized := make([]string, 0, len(languages))
	for _, lang := range languages {
		if n := langdetect.NormalizeFence(lang); n != "" && !slices.Contains(normalized, n) {
			normalized = append(normalized, n)
		}
	}

	return &Extractor{
		languages: normalized,
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Languages returns the normalized fence languages.
func (e *Extractor) Languages() []string {
	return slices.Clone(e.languages)
}

// Extract returns the template sources of a file of the given kind.
// Unknown kinds yield no sources.
func (e *Extractor) Extract(ctx context.Context, path string, content []byte, kind langdetect.Kind) ([]Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	switch kind {
	case langdetect.KindTemplate:
		return []Source{wholeFile(path, content, kind)}, nil
	case langdetect.KindComponent:
		return []Source{e.component(path, content)}, nil
	case langdetect.KindMarkdown:
		return e.markdown(path, content), nil
	case langdetect.KindUnknown:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
}

func (e *Extractor) wantsLanguage(lang string) bool {
	return lang != "" && slices.Contains(e.languages, strings.ToLower(lang))
}

func wholeFile(path string, content []byte, kind langdetect.Kind) Source {
	return Source{
		Path:     path,
		Kind:     kind,
		Content:  content,
		Segments: []ast.SourceRange{{Start: 0, End: len(content)}},
	}
}
