package parser

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Severity is the importance of a diagnostic. None of them stop the parse.
type Severity string

// Severity levels.
const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Code identifies the kind of problem a diagnostic reports.
type Code string

// Diagnostic codes.
const (
	CodeMissingEndTag             Code = "missing-end-tag"
	CodeAttributeWithoutValue     Code = "attribute-without-value"
	CodeUnterminatedAttribute     Code = "unterminated-attribute-value"
	CodeUnterminatedInterpolation Code = "unterminated-interpolation"
	CodeUnterminatedComment       Code = "unterminated-comment"
	CodeUnterminatedCDATA         Code = "unterminated-cdata"
	CodeUnexpectedCharacter       Code = "unexpected-character"
)

// Severity returns the default severity for the code.
func (c Code) Severity() Severity {
	if c == CodeAttributeWithoutValue {
		return SeverityInfo
	}
	return SeverityWarning
}

// Diagnostic is a non-fatal problem found while parsing.
type Diagnostic struct {
	Code     Code     `json:"code" yaml:"code"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`

	// Path is the logical source path, empty for in-memory sources.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Offset is the byte offset the problem was found at.
	Offset int `json:"offset" yaml:"offset"`

	// Line and Column are 1-based; Column counts bytes.
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String formats the diagnostic as "path:line:col: severity: message (code)".
func (d Diagnostic) String() string {
	var sb strings.Builder
	if d.Path != "" {
		sb.WriteString(d.Path)
		sb.WriteByte(':')
	}
	fmt.Fprintf(&sb, "%d:%d: %s: %s (%s)", d.Line, d.Column, d.Severity, d.Message, d.Code)
	return sb.String()
}

// CountBySeverity tallies diagnostics per severity.
func CountBySeverity(diags []Diagnostic) map[Severity]int {
	counts := make(map[Severity]int)
	for _, d := range diags {
		counts[d.Severity]++
	}
	return counts
}

// SortDiagnostics orders diags by position in the input. Diagnostics at the
// same offset keep their emission order.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		return cmp.Compare(a.Offset, b.Offset)
	})
}
