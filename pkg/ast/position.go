package ast

import "sort"

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// Start is the byte index where the range begins (inclusive).
	Start int `json:"start" yaml:"start"`

	// End is the byte index where the range ends (exclusive).
	End int `json:"end" yaml:"end"`
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if the given offset is within this range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Position represents a 1-based line and column in a source.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// LineInfo holds metadata for a single line of source.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For a last line without a trailing newline this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of source).
	EndOffset int
}

// LineIndex maps byte offsets of a source to line/column positions.
type LineIndex struct {
	source string
	lines  []LineInfo
}

// NewLineIndex builds the line table for source.
// It handles both LF and CRLF line endings.
func NewLineIndex(source string) *LineIndex {
	idx := &LineIndex{source: source}
	if source == "" {
		return idx
	}

	lineStart := 0
	for i := range len(source) {
		if source[i] != '\n' {
			continue
		}
		newlineStart := i
		if i > 0 && source[i-1] == '\r' {
			newlineStart = i - 1
		}
		idx.lines = append(idx.lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    i + 1,
		})
		lineStart = i + 1
	}

	idx.lines = append(idx.lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(source),
		EndOffset:    len(source),
	})

	return idx
}

// LineCount returns the number of lines.
func (l *LineIndex) LineCount() int {
	return len(l.lines)
}

// PositionAt converts a byte offset to a 1-based line and column.
// Column counts bytes, not runes. Offsets at or past the end map to the
// position just after the last byte. Returns the zero Position for negative
// offsets or an empty source.
func (l *LineIndex) PositionAt(offset int) Position {
	if offset < 0 || len(l.lines) == 0 {
		return Position{}
	}

	if offset >= len(l.source) {
		last := l.lines[len(l.lines)-1]
		return Position{Line: len(l.lines), Column: len(l.source) - last.StartOffset + 1}
	}

	lineIdx := sort.Search(len(l.lines), func(i int) bool {
		return l.lines[i].EndOffset > offset
	})
	if lineIdx >= len(l.lines) {
		lineIdx = len(l.lines) - 1
	}

	return Position{Line: lineIdx + 1, Column: offset - l.lines[lineIdx].StartOffset + 1}
}

// LineContent returns a 1-based line without its newline.
// Returns "" if the line number is out of range.
func (l *LineIndex) LineContent(line int) string {
	if line < 1 || line > len(l.lines) {
		return ""
	}
	info := l.lines[line-1]
	return l.source[info.StartOffset:info.NewlineStart]
}
