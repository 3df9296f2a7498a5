package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/tplparse/pkg/config"
)

func newCheckCommand() *cobra.Command {
	var cfg config.Config
	flags := &runFlags{pinFormat: true}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report template diagnostics and fail when any are found",
		Long: `Parse templates and report only their diagnostics.

Exits with status 1 when any warning is found. With --strict, info
diagnostics such as attributes without a value also fail the check.

Examples:
  tplparse check                      # Check the current directory
  tplparse check --strict templates/  # Fail on info diagnostics too
  tplparse check --format summary     # Tables per code and per file
  tplparse check --format json        # Machine-readable diagnostics`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplates(cmd, args, &cfg, flags, true)
		},
	}

	addRunFlags(cmd, &cfg, flags, string(config.FormatDiagnostics))
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "fail on info diagnostics as well as warnings")

	return cmd
}
