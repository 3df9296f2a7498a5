// Package config defines core configuration types for tplparse.
// These types are pure data structures; discovery and merging live in the
// configloader package.
package config

import "github.com/yaklabco/tplparse/pkg/ast"

// OutputFormat specifies how parse results are printed.
type OutputFormat string

const (
	FormatTree        OutputFormat = "tree"
	FormatJSON        OutputFormat = "json"
	FormatYAML        OutputFormat = "yaml"
	FormatMarkup      OutputFormat = "markup"
	FormatDiagnostics OutputFormat = "diagnostics"
	FormatSummary     OutputFormat = "summary"
)

// OutputFormats lists every valid format in display order.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatTree, FormatJSON, FormatYAML, FormatMarkup, FormatDiagnostics, FormatSummary}
}

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatTree, FormatJSON, FormatYAML, FormatMarkup, FormatDiagnostics, FormatSummary:
		return true
	default:
		return false
	}
}

// DelimitersConfig holds the interpolation markers.
type DelimitersConfig struct {
	Open  string `yaml:"open" toml:"open"`
	Close string `yaml:"close" toml:"close"`
}

// Config is the root configuration structure for tplparse.
type Config struct {
	// Mode is the initial text mode: DATA, RCDATA, RAWTEXT or CDATA.
	Mode string `yaml:"mode" toml:"mode"`

	// Delimiters are the interpolation open and close markers.
	Delimiters DelimitersConfig `yaml:"delimiters" toml:"delimiters"`

	// Extensions are the file extensions picked up when walking directories.
	Extensions []string `yaml:"extensions" toml:"extensions"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore" toml:"ignore"`

	// MarkdownLanguages are the fence languages parsed inside Markdown files.
	MarkdownLanguages []string `yaml:"markdown_languages" toml:"markdown_languages"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" toml:"-"`

	// Compact disables indentation in JSON output.
	Compact bool `yaml:"-" toml:"-"`

	// Strict makes warnings and info diagnostics fail the check command.
	Strict bool `yaml:"-" toml:"-"`
}

// DefaultExtensions are the file extensions walked by default.
func DefaultExtensions() []string {
	return []string{".html", ".htm", ".vue", ".svelte", ".tpl", ".tmpl", ".hbs", ".mustache", ".md"}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	delims := ast.DefaultDelimiters()
	return &Config{
		Mode:              ast.ModeData.String(),
		Delimiters:        DelimitersConfig{Open: delims.Open, Close: delims.Close},
		Extensions:        DefaultExtensions(),
		Ignore:            nil,
		MarkdownLanguages: []string{"html", "vue", "handlebars", "svelte"},
		Format:            FormatTree,
		Jobs:              0, // 0 means use GOMAXPROCS
	}
}

// TextMode parses Mode. An unknown mode is an error.
func (c *Config) TextMode() (ast.TextMode, error) {
	return ast.ParseTextMode(c.Mode)
}

// ASTDelimiters returns the configured delimiters as an ast.Delimiters.
func (c *Config) ASTDelimiters() ast.Delimiters {
	return ast.Delimiters{Open: c.Delimiters.Open, Close: c.Delimiters.Close}
}
