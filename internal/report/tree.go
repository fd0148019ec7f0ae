package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"

	"github.com/jenkinsci/coverage-model-sub002/internal/model"
)

// TreeOptions control PrintTree.
type TreeOptions struct {
	// MaxDepth limits the printed levels below the root; 0 prints all.
	MaxDepth int
	Locale   language.Tag
}

// PrintTree writes the hierarchy, one node per line, each annotated with
// the coverage of the tree's primary metric.
func PrintTree(w io.Writer, root *model.Node, opts TreeOptions) error {
	primary, ok := root.PrimaryMetric()
	return printNode(w, root, 0, primary, ok, opts)
}

func printNode(w io.Writer, n *model.Node, depth int, primary model.Metric, hasPrimary bool, opts TreeOptions) error {
	line := strings.Repeat("  ", depth) + n.String()
	if hasPrimary {
		c := n.GetCoverage(primary)
		if c.IsSet() {
			line += fmt.Sprintf("  %s %s (%d/%d)", primary, c.Percentage().Format(opts.Locale), c.Covered(), c.Total())
		}
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return nil
	}
	for _, c := range n.Children() {
		if err := printNode(w, c, depth+1, primary, hasPrimary, opts); err != nil {
			return err
		}
	}
	return nil
}
