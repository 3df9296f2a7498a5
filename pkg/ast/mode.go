package ast

import (
	"fmt"
	"strings"
)

// TextMode describes how the next span of input is interpreted.
type TextMode uint8

// Text modes.
const (
	// ModeData recognizes tags, comments, CDATA sections and interpolation.
	ModeData TextMode = iota

	// ModeRCData recognizes interpolation only.
	ModeRCData

	// ModeRawText recognizes nothing; content is text up to an end tag.
	ModeRawText

	// ModeCData recognizes nothing; content is text up to "]]>".
	ModeCData
)

var textModeNames = [...]string{
	ModeData:    "DATA",
	ModeRCData:  "RCDATA",
	ModeRawText: "RAWTEXT",
	ModeCData:   "CDATA",
}

// String returns the canonical upper-case mode name.
func (m TextMode) String() string {
	if int(m) < len(textModeNames) {
		return textModeNames[m]
	}
	return fmt.Sprintf("TextMode(%d)", m)
}

// MarshalText implements encoding.TextMarshaler.
func (m TextMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *TextMode) UnmarshalText(text []byte) error {
	parsed, err := ParseTextMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// AllowsTags reports whether '<' may open a tag, comment or CDATA section.
func (m TextMode) AllowsTags() bool {
	return m == ModeData
}

// AllowsInterpolation reports whether the open delimiter starts an
// interpolation.
func (m TextMode) AllowsInterpolation() bool {
	return m == ModeData || m == ModeRCData
}

// ParseTextMode parses a mode name, case-insensitively.
// The empty string parses as ModeData.
func ParseTextMode(s string) (TextMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "DATA":
		return ModeData, nil
	case "RCDATA":
		return ModeRCData, nil
	case "RAWTEXT":
		return ModeRawText, nil
	case "CDATA":
		return ModeCData, nil
	default:
		return ModeData, fmt.Errorf("unknown text mode %q; valid modes: DATA, RCDATA, RAWTEXT, CDATA", s)
	}
}

// Delimiters are the interpolation open and close markers.
type Delimiters struct {
	Open  string `json:"open" yaml:"open" toml:"open"`
	Close string `json:"close" yaml:"close" toml:"close"`
}

// DefaultDelimiters returns the "{{" / "}}" pair.
func DefaultDelimiters() Delimiters {
	return Delimiters{Open: "{{", Close: "}}"}
}

// IsValid reports whether both markers are non-empty and distinct.
func (d Delimiters) IsValid() bool {
	return d.Open != "" && d.Close != "" && d.Open != d.Close
}
