package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tplparse/internal/configloader"
	"github.com/yaklabco/tplparse/internal/logging"
	"github.com/yaklabco/tplparse/internal/ui/pretty"
	"github.com/yaklabco/tplparse/pkg/ast"
	"github.com/yaklabco/tplparse/pkg/config"
	"github.com/yaklabco/tplparse/pkg/extract"
	"github.com/yaklabco/tplparse/pkg/fsutil"
	"github.com/yaklabco/tplparse/pkg/parser"
	"github.com/yaklabco/tplparse/pkg/reporter"
	"github.com/yaklabco/tplparse/pkg/runner"
)

// runFlags holds the flags shared by parse and check, plus the ones only
// parse registers.
type runFlags struct {
	format     string
	mode       string
	delimiters []string
	ignore     []string
	extensions []string
	languages  []string
	stdinName  string
	noContext  bool

	// pinFormat applies --format even when left at its default, so a
	// command's own default wins over TPLPARSE_FORMAT.
	pinFormat bool

	// parse only
	output    string
	spans     bool
	noSummary bool
}

func newParseCommand() *cobra.Command {
	var cfg config.Config
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "Parse templates and print their syntax trees",
		Long:  parseLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplates(cmd, args, &cfg, flags, false)
		},
	}

	addRunFlags(cmd, &cfg, flags, string(config.FormatTree))
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write output to a file instead of stdout")
	cmd.Flags().BoolVar(&cfg.Compact, "compact", false, "minify JSON output")
	cmd.Flags().BoolVar(&flags.spans, "spans", false, "show byte ranges in tree output")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "omit the closing summary line")

	return cmd
}

const parseLongDescription = `Parse template files and print the resulting syntax trees.

By default, parses every template file under the current directory. With no
paths and input piped from another command or a non-empty file, or with the
single path "-", parses stdin instead. A terminal or /dev/null on stdin does
not count as input.

Examples:
  tplparse parse                          # Parse the current directory
  tplparse parse src/components           # Parse a directory
  tplparse parse page.html --format json  # Print the tree as JSON
  echo '<p>{{ x }}</p>' | tplparse parse  # Parse stdin
  tplparse parse - < page.html            # Parse stdin explicitly
  tplparse parse --format markup -o out.html page.html`

func addRunFlags(cmd *cobra.Command, cfg *config.Config, flags *runFlags, defaultFormat string) {
	formats := make([]string, 0, len(config.OutputFormats()))
	for _, f := range config.OutputFormats() {
		formats = append(formats, string(f))
	}

	cmd.Flags().StringVar(&flags.format, "format", defaultFormat, "output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVar(&flags.mode, "mode", "", "initial text mode: DATA, RCDATA, RAWTEXT, CDATA")
	cmd.Flags().StringSliceVar(&flags.delimiters, "delimiters", nil, "interpolation delimiters as open,close")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to parse (e.g. .html,.vue)")
	cmd.Flags().StringSliceVar(&flags.languages, "markdown-languages", nil, "fence languages to parse in Markdown")
	cmd.Flags().StringVar(&flags.stdinName, "stdin-filename", "", "file name used to classify stdin")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
}

// applyFlags copies explicitly set flags onto the CLI config layer.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags *runFlags) error {
	if flags.pinFormat || cmd.Flags().Changed("format") {
		format, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cfg.Format = config.OutputFormat(format)
	}

	if cmd.Flags().Changed("mode") {
		if _, err := ast.ParseTextMode(flags.mode); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cfg.Mode = flags.mode
	}

	if cmd.Flags().Changed("delimiters") {
		if len(flags.delimiters) != 2 {
			return fmt.Errorf("%w: --delimiters takes exactly two values, got %d", ErrUsage, len(flags.delimiters))
		}
		cfg.Delimiters = config.DelimitersConfig{Open: flags.delimiters[0], Close: flags.delimiters[1]}
	}

	if cfg.Jobs < 0 {
		return fmt.Errorf("%w: --jobs must not be negative", ErrUsage)
	}

	cfg.Ignore = flags.ignore
	cfg.Extensions = flags.extensions
	cfg.MarkdownLanguages = flags.languages
	return nil
}

func runTemplates(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *runFlags, check bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithFields(ctx, logging.FieldCommand, cmd.Name())
	logger := logging.FromContext(ctx)
	start := time.Now()

	if err := applyFlags(cmd, cliCfg, flags); err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := loadConfig(ctx, cmd, workDir, cliCfg)
	if err != nil {
		return err
	}

	mode, err := cfg.TextMode()
	if err != nil {
		return fmt.Errorf("%w: %w", configloader.ErrConfig, err)
	}
	delims := cfg.ASTDelimiters()

	p := parser.New(
		parser.WithMode(mode),
		parser.WithDelimiters(delims.Open, delims.Close),
		parser.WithLogger(logger),
	)
	r := runner.New(p, extract.New(cfg.MarkdownLanguages), logger)

	var result *runner.Result
	if readStdin(cmd.InOrStdin(), args) {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("%w: read stdin: %w", ErrFilesFailed, err)
		}
		logger.Debug("parsing stdin", logging.FieldInput, flags.stdinName)
		result = r.RunContent(ctx, flags.stdinName, content)
	} else {
		opts := runner.OptionsFromConfig(cfg, args)
		opts.WorkingDir = workDir

		logger.Debug("starting run",
			logging.FieldPaths, opts.Paths,
			logging.FieldWorkingDir, opts.WorkingDir,
			logging.FieldJobs, opts.Jobs,
		)

		result, err = r.Run(ctx, opts)
		if err != nil {
			return errors.Join(errors.New("parse run failed"), err)
		}
	}

	if err := writeReport(ctx, cmd, cfg, flags, workDir, result); err != nil {
		return err
	}

	logger.Debug("run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldDuration, time.Since(start),
	)

	if !check {
		if result.HasErrors() {
			return ErrFilesFailed
		}
		return nil
	}

	switch ExitCodeFromResult(result, cfg.Strict) {
	case ExitIOError:
		return ErrFilesFailed
	case ExitDiagnostics:
		return ErrDiagnosticsFound
	default:
		return nil
	}
}

func writeReport(ctx context.Context, cmd *cobra.Command, cfg *config.Config, flags *runFlags, workDir string, result *runner.Result) error {
	format, err := reporter.FromConfig(cfg.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = pretty.ColorAuto
	}

	report := func(out io.Writer) error {
		rep, err := reporter.New(reporter.Options{
			Writer:      out,
			ErrorWriter: cmd.ErrOrStderr(),
			Format:      format,
			Color:       colorMode,
			ShowContext: !flags.noContext,
			ShowSummary: !flags.noSummary,
			ShowSpans:   flags.spans,
			Compact:     cfg.Compact,
			Delimiters:  cfg.ASTDelimiters(),
			WorkingDir:  workDir,
		})
		if err != nil {
			return fmt.Errorf("create reporter: %w", err)
		}
		if _, err := rep.Report(ctx, result); err != nil {
			return fmt.Errorf("report results: %w", err)
		}
		return nil
	}

	if flags.output == "" {
		return report(cmd.OutOrStdout())
	}

	if err := fsutil.WriteAtomicFunc(ctx, flags.output, 0, report); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logging.FromContext(ctx).Debug("wrote output", logging.FieldOutput, flags.output)
	return nil
}

func loadConfig(ctx context.Context, cmd *cobra.Command, workDir string, cliCfg *config.Config) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldConfig, loadResult.LoadedFrom,
		logging.FieldMode, cfg.Mode,
		logging.FieldFormat, cfg.Format,
		logging.FieldJobs, cfg.Jobs,
	)

	return cfg, nil
}

// stdinArg names stdin explicitly on the command line.
const stdinArg = "-"

// readStdin reports whether a run parses stdin instead of discovering
// files: either "-" is the only path, or no paths are given and stdin
// carries input.
func readStdin(r io.Reader, args []string) bool {
	switch len(args) {
	case 0:
		return stdinPiped(r)
	case 1:
		return args[0] == stdinArg
	default:
		return false
	}
}

// stdinPiped reports whether r carries redirected input. Pipes, sockets and
// non-empty regular files do; terminals, /dev/null and other character
// devices, and empty files do not. Readers that are not files, such as test
// buffers, count as piped.
func stdinPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return true
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	mode := info.Mode()
	switch {
	case mode&os.ModeCharDevice != 0:
		return false
	case mode.IsRegular():
		return info.Size() > 0
	default:
		return true
	}
}
