// Package report renders coverage trees for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"

	"github.com/jenkinsci/coverage-model-sub002/internal/model"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Row is the aggregated coverage of one metric.
type Row struct {
	Metric     string `json:"metric" yaml:"metric"`
	Covered    int    `json:"covered" yaml:"covered"`
	Missed     int    `json:"missed" yaml:"missed"`
	Total      int    `json:"total" yaml:"total"`
	Percentage string `json:"percentage" yaml:"percentage"`
}

// Mutations summarizes a mutation testing run.
type Mutations struct {
	Killed   int `json:"killed" yaml:"killed"`
	Survived int `json:"survived" yaml:"survived"`
}

// Summary is the distribution of a tree together with its complexity and
// mutation result.
type Summary struct {
	Name       string     `json:"name" yaml:"name"`
	Rows       []Row      `json:"metrics" yaml:"metrics"`
	Complexity int        `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	Mutations  *Mutations `json:"mutations,omitempty" yaml:"mutations,omitempty"`
}

// Build summarizes root with percentages formatted for tag.
func Build(root *model.Node, tag language.Tag) Summary {
	s := Summary{Name: root.Name(), Complexity: root.GetComplexity()}
	for _, e := range root.GetCoverageMetricsDistribution() {
		s.Rows = append(s.Rows, Row{
			Metric:     e.Metric.String(),
			Covered:    e.Coverage.Covered(),
			Missed:     e.Coverage.Missed(),
			Total:      e.Coverage.Total(),
			Percentage: e.Coverage.Percentage().Format(tag),
		})
	}
	if result := root.GetMutationResult(); result.IsSet() {
		s.Mutations = &Mutations{Killed: result.Killed, Survived: result.Survived}
	}
	return s
}

// Row returns the row of the named metric.
func (s Summary) Row(metric string) (Row, bool) {
	for _, r := range s.Rows {
		if r.Metric == metric {
			return r, true
		}
	}
	return Row{}, false
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

// Render writes the summary in the given format.
func (s Summary) Render(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatTable, "":
		return s.renderTable(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding JSON summary: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding YAML summary: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func (s Summary) renderTable(w io.Writer) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Metric", "Covered", "Missed", "Total", "Coverage").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
	for _, r := range s.Rows {
		t.Row(r.Metric, strconv.Itoa(r.Covered), strconv.Itoa(r.Missed), strconv.Itoa(r.Total), r.Percentage)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Name))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	if s.Complexity > 0 {
		fmt.Fprintf(&b, "Complexity: %d\n", s.Complexity)
	}
	if s.Mutations != nil {
		fmt.Fprintf(&b, "Mutations: %d killed, %d survived\n", s.Mutations.Killed, s.Mutations.Survived)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteOutput writes data to path, or to stdout when path is empty or "-".
func WriteOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: reports should be readable
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
