package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jenkinsci/coverage-model-sub002/internal/badge"
	"github.com/jenkinsci/coverage-model-sub002/internal/model"
	"github.com/jenkinsci/coverage-model-sub002/internal/report"
)

func newSummaryCmd(opts *options) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "summary <report>...",
		Short: "Print the coverage distribution of one or more reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = opts.cfg.Output.Format
			}

			var buf bytes.Buffer
			for _, path := range args {
				root, err := opts.load(path)
				if err != nil {
					return err
				}
				if err := report.Build(root, opts.cfg.Language()).Render(&buf, format); err != nil {
					return err
				}
			}
			return report.WriteOutput(cmd.OutOrStdout(), output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", report.FormatTable, "output format: table, json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func newTreeCmd(opts *options) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "tree <report>",
		Short: "Print the hierarchy of a report with per-node coverage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.load(args[0])
			if err != nil {
				return err
			}
			return report.PrintTree(cmd.OutOrStdout(), root, report.TreeOptions{
				MaxDepth: depth,
				Locale:   opts.cfg.Language(),
			})
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum depth to print, 0 for all levels")
	return cmd
}

func newBadgeCmd(opts *options) *cobra.Command {
	var (
		output string
		metric string
		label  string
	)

	cmd := &cobra.Command{
		Use:   "badge <report>",
		Short: "Write an SVG coverage badge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output") {
				output = opts.cfg.Output.Badge
			}
			selected := opts.cfg.BadgeMetric()
			if cmd.Flags().Changed("metric") {
				m, ok := model.ValueOf(strings.ToUpper(metric))
				if !ok || m.Kind() == model.Scalar {
					return fmt.Errorf("metric %q has no coverage percentage", metric)
				}
				selected = m
			}
			if label == "" {
				label = strings.ToLower(selected.String())
			}

			root, err := opts.load(args[0])
			if err != nil {
				return err
			}

			svg := badge.Render(root.GetCoverage(selected).Percentage(), badge.Options{
				Label:  label,
				Locale: opts.cfg.Language(),
				Thresholds: badge.Thresholds{
					Red:    opts.cfg.Badge.Red,
					Yellow: opts.cfg.Badge.Yellow,
				},
			})
			if err := report.WriteOutput(cmd.OutOrStdout(), output, []byte(svg)); err != nil {
				return err
			}
			if output != "-" {
				opts.logger.Info("badge written", "path", output, "metric", selected)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "coverage.svg", "badge file, - for stdout")
	cmd.Flags().StringVarP(&metric, "metric", "m", "", "metric shown on the badge (default from config: LINE)")
	cmd.Flags().StringVar(&label, "label", "", "left-hand badge text (default: metric name)")
	return cmd
}

func newMetricsCmd(_ *options) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the registered coverage metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			writeLine(out, "%-12s %-10s %s", "METRIC", "KIND", "RANK")
			for _, m := range model.Metrics() {
				rank := "-"
				if m.IsStructural() {
					rank = fmt.Sprint(m.Rank())
				}
				writeLine(out, "%-12s %-10s %s", m, m.Kind(), rank)
			}
			return nil
		},
	}
}
