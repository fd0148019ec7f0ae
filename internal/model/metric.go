package model

import (
	"fmt"
	"strings"
	"sync"
)

// Kind tells how a metric is measured.
type Kind int

const (
	// Structural metrics are containment levels: they address nodes, never leaves.
	Structural Kind = iota
	// Ratio metrics carry a covered/missed pair.
	Ratio
	// Scalar metrics carry a single non-negative count.
	Scalar
)

func (k Kind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Ratio:
		return "ratio"
	case Scalar:
		return "scalar"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Metric identifies an entry of the metric registry. Metrics compare and
// sort by declaration order.
type Metric int

type descriptor struct {
	name string
	rank int // -1 for value metrics
	kind Kind
}

var (
	registryMu sync.RWMutex
	registry   []descriptor
	byName     = map[string]Metric{}
)

var (
	MODULE      = register("MODULE", 0, Structural)
	PACKAGE     = register("PACKAGE", 1, Structural)
	FILE        = register("FILE", 2, Structural)
	CLASS       = register("CLASS", 3, Structural)
	METHOD      = register("METHOD", 4, Structural)
	LINE        = register("LINE", -1, Ratio)
	BRANCH      = register("BRANCH", -1, Ratio)
	INSTRUCTION = register("INSTRUCTION", -1, Ratio)
	COMPLEXITY  = register("COMPLEXITY", -1, Scalar)
	MUTATION    = register("MUTATION", -1, Ratio)
)

func register(name string, rank int, kind Kind) Metric {
	registryMu.Lock()
	defer registryMu.Unlock()

	m := Metric(len(registry))
	registry = append(registry, descriptor{name: name, rank: rank, kind: kind})
	byName[name] = m
	return m
}

// RegisterMetric adds a custom value metric to the registry. Registering an
// existing name returns the existing metric if the kind matches.
func RegisterMetric(name string, kind Kind) (Metric, error) {
	if name == "" {
		return 0, fmt.Errorf("metric name must not be empty")
	}
	if kind == Structural {
		return 0, fmt.Errorf("structural metric %q cannot be registered", name)
	}
	if m, ok := ValueOf(name); ok {
		if m.Kind() != kind {
			return 0, fmt.Errorf("metric %s already registered as %s", name, m.Kind())
		}
		return m, nil
	}
	return register(name, -1, kind), nil
}

// ValueOf looks up a metric by its exact name.
func ValueOf(name string) (Metric, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	m, ok := byName[name]
	return m, ok
}

// Metrics returns every registered metric in declaration order.
func Metrics() []Metric {
	registryMu.RLock()
	defer registryMu.RUnlock()

	all := make([]Metric, len(registry))
	for i := range registry {
		all[i] = Metric(i)
	}
	return all
}

func (m Metric) describe() descriptor {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if int(m) < 0 || int(m) >= len(registry) {
		return descriptor{name: fmt.Sprintf("METRIC(%d)", int(m)), rank: -1, kind: Scalar}
	}
	return registry[m]
}

// String returns the registry name, e.g. "LINE".
func (m Metric) String() string {
	return m.describe().name
}

// DisplayName returns the name in title case, e.g. "Module".
func (m Metric) DisplayName() string {
	name := m.String()
	if name == "" {
		return name
	}
	return name[:1] + strings.ToLower(name[1:])
}

func (m Metric) Kind() Kind {
	return m.describe().kind
}

func (m Metric) IsStructural() bool {
	return m.Kind() == Structural
}

// Rank is the position in the containment order MODULE < PACKAGE < FILE <
// CLASS < METHOD, or -1 for value metrics.
func (m Metric) Rank() int {
	return m.describe().rank
}

// MarshalText renders the registry name so metrics can key JSON and YAML maps.
func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Metric) UnmarshalText(text []byte) error {
	found, ok := ValueOf(string(text))
	if !ok {
		return fmt.Errorf("unknown metric %q", string(text))
	}
	*m = found
	return nil
}
