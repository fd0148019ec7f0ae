// Package cli implements the coverage-model command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jenkinsci/coverage-model-sub002/internal/config"
	"github.com/jenkinsci/coverage-model-sub002/internal/filter"
	"github.com/jenkinsci/coverage-model-sub002/internal/model"
	"github.com/jenkinsci/coverage-model-sub002/internal/observability"
	"github.com/jenkinsci/coverage-model-sub002/internal/parser"
)

// options are the flags shared by every subcommand.
type options struct {
	configFile   string
	verbose      bool
	reportFormat string
	locale       string
	split        bool
	exclude      []string
	metricsFile  string

	cfg    *config.Config
	logger *slog.Logger
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "coverage-model",
		Short: "Inspect code coverage and mutation reports as a coverage tree",
		Long: `coverage-model reads Cobertura, JaCoCo, PIT and Go coverage reports,
builds a module/package/file/class/method tree and aggregates it.

Commands:
  summary    Print the coverage distribution of a report
  tree       Print the hierarchy with per-node coverage
  badge      Write an SVG coverage badge
  metrics    List the registered coverage metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return opts.dumpMetrics()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default: "+config.DefaultFile+")")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.StringVarP(&opts.reportFormat, "report-format", "r", parser.FormatAuto, "report format: auto, cobertura, jacoco, pit, go")
	flags.StringVar(&opts.locale, "locale", "", "locale used to format percentages, e.g. en or de")
	flags.BoolVar(&opts.split, "split", false, "split dotted package names into nested packages")
	flags.StringArrayVar(&opts.exclude, "exclude", nil, "glob of file paths to exclude (repeatable)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics of the run to this file")

	rootCmd.AddCommand(newSummaryCmd(opts))
	rootCmd.AddCommand(newTreeCmd(opts))
	rootCmd.AddCommand(newBadgeCmd(opts))
	rootCmd.AddCommand(newMetricsCmd(opts))
	return rootCmd
}

// setup loads the config file, applies flag overrides and installs the
// logger.
func (o *options) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	var err error
	if o.configFile != "" {
		o.cfg, err = config.Load(o.configFile)
	} else {
		o.cfg, err = config.LoadOptional(config.DefaultFile)
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("locale") {
		o.cfg.Locale = o.locale
	}
	if flags.Changed("split") {
		o.cfg.SplitPackages = o.split
	}
	if flags.Changed("exclude") {
		o.cfg.Exclude = append(o.cfg.Exclude, o.exclude...)
	}
	if err := o.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	o.logger.Debug("configuration loaded", "locale", o.cfg.Locale, "split", o.cfg.SplitPackages, "exclude", o.cfg.Exclude)
	return nil
}

// load parses a report and applies package splitting and file excludes.
func (o *options) load(path string) (*model.Node, error) {
	root, err := parser.ParseFile(path, o.reportFormat, parser.Options{Logger: o.logger})
	if err != nil {
		return nil, err
	}
	if o.cfg.SplitPackages {
		root.SplitPackages()
	}

	m, err := filter.Compile(o.cfg.Exclude)
	if err != nil {
		return nil, err
	}
	if !m.Empty() {
		before := len(root.Files())
		root = m.Exclude(root)
		o.logger.Debug("excluded files", "report", path, "count", before-len(root.Files()))
	}
	return root, nil
}

func (o *options) dumpMetrics() error {
	if o.metricsFile == "" {
		return nil
	}
	f, err := os.Create(o.metricsFile) //nolint:gosec
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	if err := observability.WriteText(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeLine(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
