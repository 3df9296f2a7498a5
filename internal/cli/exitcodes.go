package cli

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/yaklabco/tplparse/internal/configloader"
	"github.com/yaklabco/tplparse/pkg/fsutil"
	"github.com/yaklabco/tplparse/pkg/parser"
	"github.com/yaklabco/tplparse/pkg/runner"
)

// Exit codes for tplparse.
const (
	// ExitSuccess indicates successful execution with no failing diagnostics.
	ExitSuccess = 0

	// ExitDiagnostics indicates parsing completed but found diagnostics.
	ExitDiagnostics = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrDiagnosticsFound signals exit code 1. It is not logged.
	ErrDiagnosticsFound = errors.New("diagnostics found")

	// ErrFilesFailed is returned when some inputs could not be read.
	ErrFilesFailed = errors.New("some files could not be read")

	// ErrUsage marks invalid flags or arguments.
	ErrUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code of a check run. Warnings
// always fail; strict mode also fails on info diagnostics. Unreadable files
// take precedence.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasErrors() {
		return ExitIOError
	}

	if result.Stats.DiagnosticsBySeverity[parser.SeverityWarning] > 0 {
		return ExitDiagnostics
	}

	if strict && result.Stats.DiagnosticsBySeverity[parser.SeverityInfo] > 0 {
		return ExitDiagnostics
	}

	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrDiagnosticsFound):
		return ExitDiagnostics
	case errors.Is(err, ErrUsage), isCobraUsageError(err):
		return ExitInvalidUsage
	case errors.Is(err, configloader.ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrFilesFailed),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// isCobraUsageError recognizes the argument errors cobra creates itself.
func isCobraUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}
