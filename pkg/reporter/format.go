package reporter

import (
	"fmt"

	"github.com/yaklabco/tplparse/pkg/config"
)

// Format represents an output format.
type Format string

// Output formats supported by the reporter.
const (
	FormatTree        Format = "tree"
	FormatJSON        Format = "json"
	FormatYAML        Format = "yaml"
	FormatMarkup      Format = "markup"
	FormatDiagnostics Format = "diagnostics"
	FormatSummary     Format = "summary"
)

// ParseFormat parses a format string, returning an error for unknown formats.
// The empty string selects the tree format.
func ParseFormat(formatStr string) (Format, error) {
	if formatStr == "" {
		return FormatTree, nil
	}
	f := Format(formatStr)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown format %q; valid formats: tree, json, yaml, markup, diagnostics, summary", formatStr)
	}
	return f, nil
}

// FromConfig converts a configured output format.
func FromConfig(f config.OutputFormat) (Format, error) {
	return ParseFormat(string(f))
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	switch f {
	case FormatTree, FormatJSON, FormatYAML, FormatMarkup, FormatDiagnostics, FormatSummary:
		return true
	default:
		return false
	}
}
