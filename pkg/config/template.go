package config

import (
	"bytes"
	"fmt"
	"strings"
)

// Template formats.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "toml".
	Format string

	// Full writes every setting uncommented with its default value.
	// If false, only the mode is set and the rest is commented out.
	Full bool
}

// GenerateTemplate creates a commented configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch strings.ToLower(opts.Format) {
	case "", TemplateYAML:
		return generateYAMLTemplate(opts.Full), nil
	case TemplateTOML:
		return generateTOMLTemplate(opts.Full), nil
	default:
		return nil, fmt.Errorf("unknown template format %q; valid formats: yaml, toml", opts.Format)
	}
}

func generateYAMLTemplate(full bool) []byte {
	defaults := NewConfig()
	c := commenter(full)

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	buf.WriteString("# Initial text mode: DATA, RCDATA, RAWTEXT or CDATA\n")
	fmt.Fprintf(&buf, "mode: %s\n\n", defaults.Mode)

	buf.WriteString("# Interpolation delimiters\n")
	fmt.Fprintf(&buf, "%sdelimiters:\n", c)
	fmt.Fprintf(&buf, "%s  open: %q\n", c, defaults.Delimiters.Open)
	fmt.Fprintf(&buf, "%s  close: %q\n\n", c, defaults.Delimiters.Close)

	buf.WriteString("# File extensions parsed when walking directories\n")
	fmt.Fprintf(&buf, "%sextensions:\n", c)
	for _, ext := range defaults.Extensions {
		fmt.Fprintf(&buf, "%s  - %q\n", c, ext)
	}
	buf.WriteString("\n")

	buf.WriteString("# Fence languages parsed inside Markdown files\n")
	fmt.Fprintf(&buf, "%smarkdown_languages:\n", c)
	for _, lang := range defaults.MarkdownLanguages {
		fmt.Fprintf(&buf, "%s  - %s\n", c, lang)
	}
	buf.WriteString("\n")

	buf.WriteString("# File patterns to ignore (glob patterns)\n")
	fmt.Fprintf(&buf, "%signore:\n", c)
	fmt.Fprintf(&buf, "%s  - \"node_modules/**\"\n", c)
	fmt.Fprintf(&buf, "%s  - \"dist/**\"\n", c)

	return buf.Bytes()
}

func generateTOMLTemplate(full bool) []byte {
	defaults := NewConfig()
	c := commenter(full)

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	buf.WriteString("# Initial text mode: DATA, RCDATA, RAWTEXT or CDATA\n")
	fmt.Fprintf(&buf, "mode = %q\n\n", defaults.Mode)

	buf.WriteString("# File extensions parsed when walking directories\n")
	fmt.Fprintf(&buf, "%sextensions = [%s]\n\n", c, quoteList(defaults.Extensions))

	buf.WriteString("# Fence languages parsed inside Markdown files\n")
	fmt.Fprintf(&buf, "%smarkdown_languages = [%s]\n\n", c, quoteList(defaults.MarkdownLanguages))

	buf.WriteString("# File patterns to ignore (glob patterns)\n")
	fmt.Fprintf(&buf, "%signore = [\"node_modules/**\", \"dist/**\"]\n\n", c)

	buf.WriteString("# Interpolation delimiters\n")
	fmt.Fprintf(&buf, "%s[delimiters]\n", c)
	fmt.Fprintf(&buf, "%sopen = %q\n", c, defaults.Delimiters.Open)
	fmt.Fprintf(&buf, "%sclose = %q\n", c, defaults.Delimiters.Close)

	return buf.Bytes()
}

func commenter(full bool) string {
	if full {
		return ""
	}
	return "# "
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# tplparse configuration
# See: https://github.com/yaklabco/tplparse`
}
