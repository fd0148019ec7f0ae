// Package parser turns coverage and mutation reports into model trees.
package parser

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jenkinsci/coverage-model-sub002/internal/model"
	"github.com/jenkinsci/coverage-model-sub002/internal/observability"
)

// Supported report formats.
const (
	FormatAuto      = "auto"
	FormatCobertura = "cobertura"
	FormatJaCoCo    = "jacoco"
	FormatPIT       = "pit"
	FormatGo        = "go"
)

// Parser reads one report and builds its tree. The name becomes the name
// of the MODULE root.
type Parser interface {
	Parse(r io.Reader, name string) (*model.Node, error)
}

// Options configures the parsers returned by ForFormat.
type Options struct {
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Formats lists the supported report formats.
func Formats() []string {
	formats := []string{FormatCobertura, FormatJaCoCo, FormatPIT, FormatGo}
	sort.Strings(formats)
	return formats
}

// ForFormat returns the parser for a report format.
func ForFormat(format string, opts Options) (Parser, error) {
	switch strings.ToLower(format) {
	case FormatCobertura:
		return &CoberturaParser{log: opts.logger()}, nil
	case FormatJaCoCo:
		return &JacocoParser{log: opts.logger()}, nil
	case FormatPIT:
		return &PitParser{log: opts.logger()}, nil
	case FormatGo:
		return &GoProfileParser{log: opts.logger()}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}
}

// Detect guesses the report format from the first bytes of a report.
func Detect(head []byte) (string, bool) {
	trimmed := bytes.TrimSpace(head)
	if bytes.HasPrefix(trimmed, []byte("mode:")) {
		return FormatGo, true
	}

	decoder := newDecoder(bytes.NewReader(head))
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity
	for {
		tok, err := decoder.Token()
		if err != nil {
			return "", false
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "coverage":
			return FormatCobertura, true
		case "report":
			return FormatJaCoCo, true
		case "mutations":
			return FormatPIT, true
		default:
			return "", false
		}
	}
}

// ParseFile parses the report at path. An empty or "auto" format is
// detected from the file content. The tree's root is named after the
// report's base name.
func ParseFile(path, format string, opts Options) (*model.Node, error) {
	f, err := os.Open(path) //nolint:gosec // path is a user-supplied report
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := bufio.NewReader(f)
	if format == "" || format == FormatAuto {
		head, _ := reader.Peek(4096)
		detected, ok := Detect(head)
		if !ok {
			return nil, model.WrapError(fmt.Errorf("%s", path), model.CodeInvalidReport, "cannot detect report format")
		}
		format = detected
	}

	p, err := ForFormat(format, opts)
	if err != nil {
		return nil, err
	}

	log := opts.logger().With("report", path, "format", format)
	start := time.Now()
	root, err := p.Parse(reader, filepath.Base(path))
	observability.ParsingDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.ReportParseErrorsTotal.WithLabelValues(format).Inc()
		log.Error("failed to parse report", "error", err)
		return nil, err
	}
	observability.ReportsParsedTotal.WithLabelValues(format).Inc()
	recordTree(root)
	log.Debug("parsed report", "nodes", root.Size(), "duration", time.Since(start))
	return root, nil
}

func recordTree(root *model.Node) {
	for _, m := range model.Metrics() {
		if !m.IsStructural() {
			continue
		}
		nodes, err := root.GetAll(m)
		if err != nil {
			continue
		}
		observability.TreeNodes.WithLabelValues(m.String()).Set(float64(len(nodes)))
	}
}

// newDecoder returns an XML decoder that tolerates the DOCTYPE headers and
// non-UTF-8 declarations found in real reports.
func newDecoder(r io.Reader) *xml.Decoder {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return decoder
}

// packageName normalizes slash-separated package names to dotted ones.
func packageName(name string) string {
	return strings.ReplaceAll(strings.Trim(name, "/"), "/", model.PackageSeparator)
}

// invalidReport tags parse failures.
func invalidReport(err error, name string) error {
	return model.WrapError(err, model.CodeInvalidReport, fmt.Sprintf("invalid report %s", name))
}
