package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/tplparse/internal/ui/pretty"
	"github.com/yaklabco/tplparse/pkg/ast"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter receives per-file errors for formats whose output must
	// stay machine-readable (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowContext includes the source line under each diagnostic.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// ShowSpans appends byte ranges to tree labels.
	ShowSpans bool

	// Compact uses minified JSON output.
	Compact bool

	// Delimiters are written around interpolations in markup output.
	Delimiters ast.Delimiters

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatTree,
		Color:       pretty.ColorAuto,
		ShowContext: true,
		ShowSummary: true,
		Delimiters:  ast.DefaultDelimiters(),
	}
}
