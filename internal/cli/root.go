// Package cli provides the Cobra command structure for tplparse.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tplparse/internal/configloader"
	"github.com/yaklabco/tplparse/internal/logging"
	"github.com/yaklabco/tplparse/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

const rootLongDescription = `tplparse parses HTML-like template markup into a syntax tree.

It understands elements and attributes, {{ }} interpolations, comments and
CDATA sections, and recovers from malformed input instead of failing: an
unclosed tag is closed where an ancestor ends, and every recovery is
reported as a diagnostic. Templates are read from HTML and template files,
from the <template> block of single-file components, and from fenced code
blocks in Markdown.`

// environmentHelp lists the TPLPARSE_* variables the config loader reads.
func environmentHelp() string {
	vars := configloader.ListEnvVars()

	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}

	var b strings.Builder
	b.WriteString("Environment:")
	for _, v := range vars {
		fmt.Fprintf(&b, "\n  %-*s  %s", width, v.Name, v.Help)
	}
	return b.String()
}

// NewRootCommand creates the root tplparse command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "tplparse",
		Short: "Parse HTML-like templates into syntax trees",
		Long:  rootLongDescription + "\n\n" + environmentHelp(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !pretty.ValidColorMode(color) {
				return fmt.Errorf("%w: --color must be auto, always or never, got %q", ErrUsage, color)
			}
			if debug {
				logging.SetLevel("debug")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, logging.Default()))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", pretty.ColorAuto,
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color, rootCmd.OutOrStdout()).ApplyToCommand(rootCmd)

	return rootCmd
}
