// Package langdetect decides how a file or code fence holds template markup.
// It uses go-enry for extension, alias and content based language detection.
package langdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Kind describes where the template markup lives in a file.
type Kind uint8

// File kinds.
const (
	// KindUnknown files are not parsed.
	KindUnknown Kind = iota

	// KindTemplate files are markup from the first byte to the last.
	KindTemplate

	// KindComponent files are single-file components whose markup is the
	// body of a top-level <template> element.
	KindComponent

	// KindMarkdown files carry templates in fenced code blocks.
	KindMarkdown
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindTemplate:  "template",
	KindComponent: "component",
	KindMarkdown:  "markdown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Language names as normalized fence tags.
const (
	langHTML       = "html"
	langVue        = "vue"
	langSvelte     = "svelte"
	langMarkdown   = "markdown"
	langHandlebars = "handlebars"
	langMustache   = "mustache"
	langText       = "text"
)

// templateExtensions are whole-file templates without asking enry, which
// either does not know them or weighs them against other languages.
var templateExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".tpl":      true,
	".tmpl":     true,
	".template": true,
	".mustache": true,
	".hbs":      true,
}

// Classify returns how path should be extracted.
//
// Detection order: known template and Markdown extensions, then enry's
// filename and extension strategies, then a content check for files enry
// cannot place.
func Classify(path string, content []byte) Kind {
	if enry.IsBinary(content) {
		return KindUnknown
	}

	switch ext := strings.ToLower(filepath.Ext(path)); {
	case templateExtensions[ext]:
		return KindTemplate
	case ext == ".md" || ext == ".markdown":
		// enry weighs ".md" against other languages by content.
		return KindMarkdown
	}

	lang := enry.GetLanguage(filepath.Base(path), content)
	if k := kindForLanguage(normalize(lang)); k != KindUnknown {
		return k
	}

	if lang == "" && looksLikeTemplate(content) {
		return KindTemplate
	}

	return KindUnknown
}

func kindForLanguage(lang string) Kind {
	switch lang {
	case langVue, langSvelte:
		return KindComponent
	case langMarkdown:
		return KindMarkdown
	case langHTML, langHandlebars, langMustache, "html+django", "html+erb", "jinja":
		return KindTemplate
	default:
		return KindUnknown
	}
}

// NormalizeFence maps a fence info string to a lower-case language name,
// resolving aliases through enry ("hbs" becomes "handlebars").
// Only the first word of the info string is considered.
func NormalizeFence(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	word := strings.TrimPrefix(strings.Trim(fields[0], "{}"), ".")

	if lang, ok := enry.GetLanguageByAlias(word); ok {
		return normalize(lang)
	}
	return strings.ToLower(word)
}

// Detect guesses the language of an unlabeled code block.
// Returns "text" when nothing fits.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return langText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if looksLikeTemplate(content) {
		return langHTML
	}

	candidates := []string{"HTML", "Vue", "Handlebars", "JavaScript", "CSS", "Markdown", "JSON", "YAML"}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang)
	}

	return langText
}

// IsVendored reports whether path points into vendored or generated-looking
// directories that enry recognizes (node_modules, vendor, dist, ...).
func IsVendored(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}

// looksLikeTemplate reports whether content starts with markup or carries
// interpolation next to a tag.
func looksLikeTemplate(content []byte) bool {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) < 2 || trimmed[0] != '<' {
		return bytes.Contains(trimmed, []byte("{{")) && bytes.Contains(trimmed, []byte("</"))
	}
	next := trimmed[1]
	return next == '!' || next == '/' || (next|0x20 >= 'a' && next|0x20 <= 'z')
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	return strings.ToLower(lang)
}
