package model

import (
	"slices"

	"golang.org/x/text/language"
)

// primaryMetrics decide whether a structural node counts as covered, in
// order of preference.
var primaryMetrics = []Metric{LINE, INSTRUCTION, MUTATION}

// MetricCoverage is one entry of a coverage distribution.
type MetricCoverage struct {
	Metric   Metric
	Coverage Coverage
}

// MetricPercentage is one entry of a percentage distribution.
type MetricPercentage struct {
	Metric     Metric
	Percentage Percentage
}

// Distribution maps metrics to their aggregated coverage, in metric
// declaration order.
type Distribution []MetricCoverage

// Get returns the coverage recorded for metric.
func (d Distribution) Get(metric Metric) (Coverage, bool) {
	for _, e := range d {
		if e.Metric == metric {
			return e.Coverage, true
		}
	}
	return Coverage{}, false
}

// Metrics lists the metrics of the distribution in order.
func (d Distribution) Metrics() []Metric {
	metrics := make([]Metric, len(d))
	for i, e := range d {
		metrics[i] = e.Metric
	}
	return metrics
}

// MutationResult counts killed and surviving mutants.
type MutationResult struct {
	Killed   int
	Survived int
}

func (r MutationResult) Total() int { return r.Killed + r.Survived }

func (r MutationResult) IsSet() bool { return r.Total() > 0 }

// sumLeaves adds the leaves of metric over the subtree.
func (n *Node) sumLeaves(metric Metric) Leaf {
	sum := Leaf{metric: metric, kind: metric.Kind()}
	n.walk(func(node *Node) bool {
		if l, ok := node.Leaf(metric); ok {
			if combined, err := sum.Combine(l); err == nil {
				sum = combined
			}
		}
		return true
	})
	return sum
}

// GetCoverage aggregates metric over the subtree. Ratio metrics sum their
// leaves. A structural metric counts its nodes: a node is covered when its
// subtree has at least one covered unit of the primary metric (see
// PrimaryMetric), otherwise it is missed. Scalar and absent metrics yield
// an unset Coverage.
func (n *Node) GetCoverage(metric Metric) Coverage {
	switch metric.Kind() {
	case Ratio:
		return n.sumLeaves(metric).Coverage()
	case Structural:
		primary, ok := n.PrimaryMetric()
		var nodes Coverage
		n.countNodes(metric, primary, ok, &nodes)
		return nodes
	default:
		return Coverage{}
	}
}

// countNodes returns the primary coverage of the subtree and adds every
// node of metric to acc.
func (n *Node) countNodes(metric, primary Metric, hasPrimary bool, acc *Coverage) Coverage {
	var own Coverage
	if hasPrimary {
		if l, ok := n.Leaf(primary); ok {
			own = l.Coverage()
		}
	}
	for _, c := range n.children {
		own = own.Add(c.countNodes(metric, primary, hasPrimary, acc))
	}
	if n.metric == metric {
		if own.Covered() > 0 {
			*acc = acc.Add(coveredNode)
		} else {
			*acc = acc.Add(missedNode)
		}
	}
	return own
}

// PrimaryMetric is the first of LINE, INSTRUCTION and MUTATION that has a
// leaf in the subtree.
func (n *Node) PrimaryMetric() (Metric, bool) {
	present := n.leafMetrics()
	for _, m := range primaryMetrics {
		if present[m] {
			return m, true
		}
	}
	return 0, false
}

// CoverageByName is GetCoverage for a metric name; unknown names yield an
// unset Coverage.
func (n *Node) CoverageByName(name string) Coverage {
	metric, ok := ValueOf(name)
	if !ok {
		return Coverage{}
	}
	return n.GetCoverage(metric)
}

func (n *Node) leafMetrics() map[Metric]bool {
	present := map[Metric]bool{}
	n.walk(func(node *Node) bool {
		for _, l := range node.leaves {
			present[l.metric] = true
		}
		return true
	})
	return present
}

// Metrics lists the metrics present in the subtree in declaration order:
// structural metrics with at least one node and value metrics with at
// least one leaf.
func (n *Node) Metrics() []Metric {
	present := n.leafMetrics()
	n.walk(func(node *Node) bool {
		present[node.metric] = true
		return true
	})
	metrics := make([]Metric, 0, len(present))
	for m := range present {
		metrics = append(metrics, m)
	}
	slices.Sort(metrics)
	return metrics
}

// GetCoverageMetricsDistribution aggregates every coverage metric present
// in the subtree. Scalar metrics such as COMPLEXITY are not part of it.
func (n *Node) GetCoverageMetricsDistribution() Distribution {
	var d Distribution
	for _, m := range n.Metrics() {
		if m.Kind() == Scalar {
			continue
		}
		d = append(d, MetricCoverage{Metric: m, Coverage: n.GetCoverage(m)})
	}
	return d
}

// GetCoverageMetricsPercentages maps the distribution through Percentage.
func (n *Node) GetCoverageMetricsPercentages() []MetricPercentage {
	d := n.GetCoverageMetricsDistribution()
	percentages := make([]MetricPercentage, len(d))
	for i, e := range d {
		percentages[i] = MetricPercentage{Metric: e.Metric, Percentage: e.Coverage.Percentage()}
	}
	return percentages
}

// GetComplexity sums the COMPLEXITY leaves of the subtree.
func (n *Node) GetComplexity() int {
	return n.sumLeaves(COMPLEXITY).Value()
}

// GetMutationResult sums the MUTATION leaves of the subtree.
func (n *Node) GetMutationResult() MutationResult {
	c := n.GetCoverage(MUTATION)
	return MutationResult{Killed: c.Covered(), Survived: c.Missed()}
}

// PrintCoverageFor formats the percentage of metric for the locale, e.g.
// "76.25%"; "-" when the metric has no data.
func (n *Node) PrintCoverageFor(metric Metric, tag language.Tag) string {
	return n.GetCoverage(metric).Percentage().Format(tag)
}
