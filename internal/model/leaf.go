package model

import "fmt"

// Leaf is a measured value for one value metric: either a ratio (Coverage)
// or a scalar count, depending on the metric's Kind.
type Leaf struct {
	metric   Metric
	kind     Kind
	coverage Coverage
	value    int
}

// NewCoverageLeaf builds a ratio leaf, e.g. LINE or BRANCH.
func NewCoverageLeaf(metric Metric, coverage Coverage) Leaf {
	return Leaf{metric: metric, kind: Ratio, coverage: coverage}
}

// NewValueLeaf builds a scalar leaf, e.g. COMPLEXITY. Negative values are
// clamped to zero.
func NewValueLeaf(metric Metric, value int) Leaf {
	return Leaf{metric: metric, kind: Scalar, value: max(value, 0)}
}

func (l Leaf) Metric() Metric { return l.metric }

// Coverage returns the ratio value; scalar leaves report an unset pair.
func (l Leaf) Coverage() Coverage {
	if l.kind != Ratio {
		return Coverage{}
	}
	return l.coverage
}

// Value returns the scalar value; ratio leaves report 0.
func (l Leaf) Value() int {
	if l.kind != Scalar {
		return 0
	}
	return l.value
}

func (l Leaf) IsSet() bool {
	if l.kind == Ratio {
		return l.coverage.IsSet()
	}
	return l.value > 0
}

// validate checks that the leaf's variant matches the kind registered for
// its metric.
func (l Leaf) validate() error {
	if l.metric.IsStructural() || l.metric.Kind() != l.kind {
		return newError(CodeLeafMetricMismatch, "%s leaf cannot hold a %s value", l.metric, l.kind).
			WithContext(CtxMetric, l.metric.String())
	}
	return nil
}

// Combine adds two leaves of the same metric.
func (l Leaf) Combine(other Leaf) (Leaf, error) {
	if l.metric != other.metric || l.kind != other.kind {
		return Leaf{}, newError(CodeLeafMetricMismatch, "cannot combine %s leaf with %s leaf", l.metric, other.metric).
			WithContext(CtxMetric, l.metric.String()).
			WithContext(CtxOther, other.metric.String())
	}
	if l.kind == Ratio {
		return NewCoverageLeaf(l.metric, l.coverage.Add(other.coverage)), nil
	}
	return NewValueLeaf(l.metric, l.value+other.value), nil
}

func (l Leaf) String() string {
	if l.kind == Ratio {
		return fmt.Sprintf("[%s]: %s", l.metric.DisplayName(), l.coverage)
	}
	return fmt.Sprintf("[%s]: %d", l.metric.DisplayName(), l.value)
}
