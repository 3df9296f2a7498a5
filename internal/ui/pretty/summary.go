package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/tplparse/pkg/parser"
	"github.com/yaklabco/tplparse/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 issues (2 warnings, 1 info) in 2 files".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 {
		msg := s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s parsed)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles)))
		if stats.FilesErrored > 0 {
			msg += ", " + s.Failure.Render(fmt.Sprintf("%d %s failed", stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles)))
		}
		return msg + "\n"
	}

	var severityParts []string
	if warnings := stats.DiagnosticsBySeverity[parser.SeverityWarning]; warnings > 0 {
		severityParts = append(severityParts, s.Warning.Render(fmt.Sprintf("%d %s", warnings, plural(warnings, "warning", "warnings"))))
	}
	if infos := stats.DiagnosticsBySeverity[parser.SeverityInfo]; infos > 0 {
		severityParts = append(severityParts, s.Info.Render(fmt.Sprintf("%d info", infos)))
	}

	line := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))
	if len(severityParts) > 0 {
		line += " (" + strings.Join(severityParts, ", ") + ")"
	}
	line += fmt.Sprintf(" in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, wordFile, wordFiles))

	if stats.FilesErrored > 0 {
		line += ", " + s.Failure.Render(fmt.Sprintf("%d %s failed", stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles)))
	}

	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, style func(...string) string, value int) {
		builder.WriteString(fmt.Sprintf("  %-19s", label+":") + style(strconv.Itoa(value)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files parsed", s.SummaryValue.Render, stats.FilesProcessed)
	if stats.FilesSkipped > 0 {
		row("Files skipped", s.Dim.Render, stats.FilesSkipped)
	}
	if stats.FilesErrored > 0 {
		row("Files failed", s.Failure.Render, stats.FilesErrored)
	}
	if stats.FilesWithIssues > 0 {
		row("Files with issues", s.Failure.Render, stats.FilesWithIssues)
	}
	row("Templates", s.SummaryValue.Render, stats.SourcesParsed)
	row("Nodes", s.SummaryValue.Render, stats.NodesTotal)

	builder.WriteString("\n")

	row("Total issues", s.SummaryValue.Render, stats.DiagnosticsTotal)
	if warnings := stats.DiagnosticsBySeverity[parser.SeverityWarning]; warnings > 0 {
		row("  Warnings", s.Warning.Render, warnings)
	}
	if infos := stats.DiagnosticsBySeverity[parser.SeverityInfo]; infos > 0 {
		row("  Info", s.Info.Render, infos)
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Some files could not be parsed"))
	case stats.DiagnosticsBySeverity[parser.SeverityWarning] > 0:
		builder.WriteString(s.Warning.Render("Parsed with warnings"))
	default:
		builder.WriteString(s.Success.Render("All templates parsed cleanly"))
	}
	builder.WriteString("\n")

	return builder.String()
}
