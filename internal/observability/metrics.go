// Package observability exposes the Prometheus metrics recorded while
// parsing reports.
package observability

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Registry collects the metrics of this process; it is separate from the
// default registry so dumps only contain report metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// Metrics definitions
var (
	ReportsParsedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "coverage_model_reports_parsed_total",
		Help: "Total number of coverage reports parsed successfully.",
	}, []string{"format"})

	ReportParseErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "coverage_model_report_parse_errors_total",
		Help: "Total number of coverage reports that failed to parse.",
	}, []string{"format"})

	ParsingDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coverage_model_parsing_seconds",
		Help:    "Time spent parsing a coverage report.",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})

	TreeNodes = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "coverage_model_tree_nodes",
		Help: "Number of nodes per structural metric in the last parsed tree.",
	}, []string{"metric"})
)

// WriteText writes every gathered metric in the Prometheus text format.
func WriteText(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
