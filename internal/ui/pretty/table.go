package pretty

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/tplparse/pkg/parser"
	"github.com/yaklabco/tplparse/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minPathWidth     = 20
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// CodeCount is one row of the per-code table.
type CodeCount struct {
	Code     parser.Code
	Severity parser.Severity
	Count    int
	Files    int
}

// FileCount is one row of the per-file table.
type FileCount struct {
	Path     string
	Sources  int
	Warnings int
	Infos    int
}

// TableFormatter formats aggregated diagnostics as aligned tables.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter. A termWidth of zero or
// less uses a default width.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// CountByCode aggregates diagnostics by code, most frequent first.
func CountByCode(result *runner.Result) []CodeCount {
	if result == nil {
		return nil
	}

	index := make(map[parser.Code]*CodeCount)
	for _, file := range result.Files {
		seen := make(map[parser.Code]bool)
		for _, d := range file.Diagnostics {
			row, ok := index[d.Code]
			if !ok {
				row = &CodeCount{Code: d.Code, Severity: d.Severity}
				index[d.Code] = row
			}
			row.Count++
			if !seen[d.Code] {
				seen[d.Code] = true
				row.Files++
			}
		}
	}

	rows := make([]CodeCount, 0, len(index))
	for _, row := range index {
		rows = append(rows, *row)
	}
	slices.SortFunc(rows, func(a, b CodeCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(string(a.Code), string(b.Code))
	})
	return rows
}

// CountByFile returns a row per file with diagnostics, in result order.
func CountByFile(result *runner.Result) []FileCount {
	if result == nil {
		return nil
	}

	var rows []FileCount
	for _, file := range result.Files {
		if len(file.Diagnostics) == 0 {
			continue
		}
		counts := parser.CountBySeverity(file.Diagnostics)
		rows = append(rows, FileCount{
			Path:     file.Path,
			Sources:  len(file.Sources),
			Warnings: counts[parser.SeverityWarning],
			Infos:    counts[parser.SeverityInfo],
		})
	}
	return rows
}

// FormatCodeTable renders the per-code table.
func (t *TableFormatter) FormatCodeTable(rows []CodeCount) string {
	if len(rows) == 0 {
		return ""
	}

	cells := make([][]string, len(rows))
	styles := make([]lipgloss.Style, len(rows))
	for i, row := range rows {
		cells[i] = []string{string(row.Code), string(row.Severity), strconv.Itoa(row.Count), strconv.Itoa(row.Files)}
		styles[i] = t.rowStyle(row.Severity)
	}

	return t.render([]string{"CODE", "SEVERITY", "COUNT", "FILES"}, cells, styles, []bool{false, false, true, true})
}

// FormatFileTable renders the per-file table. Long paths are truncated
// from the left so the file name stays visible.
func (t *TableFormatter) FormatFileTable(rows []FileCount) string {
	if len(rows) == 0 {
		return ""
	}

	cells := make([][]string, len(rows))
	styles := make([]lipgloss.Style, len(rows))

	// Leave room for the numeric columns.
	maxPath := max(minPathWidth, t.termWidth-3*(len("WARNINGS")+tablePadding))
	for i, row := range rows {
		cells[i] = []string{
			truncatePath(row.Path, maxPath),
			strconv.Itoa(row.Sources),
			strconv.Itoa(row.Warnings),
			strconv.Itoa(row.Infos),
		}
		styles[i] = t.styles.Message
		if row.Warnings > 0 {
			styles[i] = t.styles.TableWarnRow
		}
	}

	return t.render([]string{"FILE", "SOURCES", "WARNINGS", "INFO"}, cells, styles, []bool{false, true, true, true})
}

func (t *TableFormatter) rowStyle(sev parser.Severity) lipgloss.Style {
	if sev == parser.SeverityInfo {
		return t.styles.TableInfoRow
	}
	return t.styles.TableWarnRow
}

// render lays out header and rows; widths are computed before styling so
// ANSI sequences do not disturb alignment.
func (t *TableFormatter) render(header []string, rows [][]string, rowStyles []lipgloss.Style, rightAlign []bool) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	total := 0
	for _, w := range widths {
		total += w + tablePadding
	}
	total -= tablePadding

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if rightAlign[i] {
				parts[i] = fmt.Sprintf("%*s", widths[i], cell)
			} else {
				parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
			}
		}
		return strings.TrimRight(strings.Join(parts, strings.Repeat(" ", tablePadding)), " ")
	}

	var b strings.Builder
	b.WriteString(t.styles.TableHeader.Render(line(header)) + "\n")
	b.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)) + "\n")
	for i, row := range rows {
		b.WriteString(rowStyles[i].Render(line(row)) + "\n")
	}
	b.WriteString(t.styles.TableSeparator.Render(strings.Repeat(lightSeparator, total)) + "\n")
	return b.String()
}

// truncatePath shortens path to maxLen by dropping leading characters.
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen || maxLen <= 3 {
		return path
	}
	return "..." + path[len(path)-(maxLen-3):]
}
