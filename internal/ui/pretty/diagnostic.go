package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/tplparse/pkg/parser"
)

const (
	// sourceIndent aligns source context under the diagnostic line.
	sourceIndent = "        "

	// tabSpaces matches lipgloss's default tab width.
	tabSpaces = "    "
)

// FormatDiagnostic formats a single diagnostic for terminal output.
// When showContext is set and sourceLine is non-empty, the line is printed
// with a caret under the reported column.
func (s *Styles) FormatDiagnostic(diag *parser.Diagnostic, showContext bool, sourceLine string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%s",
		s.FilePath.Render(displayPath(diag.Path)),
		s.Location.Render(fmt.Sprintf("%d:%d", diag.Line, diag.Column)),
	)

	// location  severity  message  (code)
	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.Code.Render("("+string(diag.Code)+")"),
	)

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.Column))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev parser.Severity) string {
	switch sev {
	case parser.SeverityWarning:
		return s.Warning.Render("warning")
	case parser.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret marker.
// Columns count bytes; tabs are expanded the way lipgloss renders them.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	builder.WriteString(sourceIndent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		builder.WriteString(sourceIndent + caretPadding(line, column) + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

func caretPadding(line string, column int) string {
	var pad strings.Builder
	for i := range column - 1 {
		if i < len(line) && line[i] == '\t' {
			pad.WriteString(tabSpaces)
			continue
		}
		pad.WriteByte(' ')
	}
	return pad.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(displayPath(path))
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

// FormatFileError formats a file that could not be processed.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s: %s\n",
		s.FilePath.Render(displayPath(path)),
		s.Error.Render(fmt.Sprintf("error: %v", err)),
	)
}

func displayPath(path string) string {
	if path == "" {
		return "<input>"
	}
	return path
}
