package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jenkinsci/coverage-model-sub002/internal/model"
)

type pitReport struct {
	XMLName   xml.Name      `xml:"mutations"`
	Mutations []pitMutation `xml:"mutation"`
}

type pitMutation struct {
	Detected          bool   `xml:"detected,attr"`
	Status            string `xml:"status,attr"`
	SourceFile        string `xml:"sourceFile"`
	MutatedClass      string `xml:"mutatedClass"`
	MutatedMethod     string `xml:"mutatedMethod"`
	MethodDescription string `xml:"methodDescription"`
	LineNumber        int    `xml:"lineNumber"`
	Mutator           string `xml:"mutator"`
}

// detectedStatuses are PIT statuses that count as a killed mutant.
var detectedStatuses = map[string]bool{
	"KILLED":       true,
	"TIMED_OUT":    true,
	"MEMORY_ERROR": true,
	"RUN_ERROR":    true,
}

func (m pitMutation) killed() bool {
	return m.Detected || detectedStatuses[m.Status]
}

// PitParser reads PIT mutations.xml reports. Each mutation adds to the
// MUTATION leaf of its method: killed mutants count as covered, survivors
// as missed.
type PitParser struct {
	log *slog.Logger
}

func (p *PitParser) Parse(r io.Reader, name string) (*model.Node, error) {
	var report pitReport
	if err := newDecoder(r).Decode(&report); err != nil {
		return nil, invalidReport(fmt.Errorf("decoding PIT XML: %w", err), name)
	}

	root := model.NewRoot(name)
	for _, mutation := range report.Mutations {
		if mutation.MutatedClass == "" || mutation.SourceFile == "" {
			p.log.Debug("skipping mutation without location", "mutator", mutation.Mutator, "line", mutation.LineNumber)
			continue
		}
		if err := readMutation(root, mutation); err != nil {
			return nil, invalidReport(err, name)
		}
	}
	return root, nil
}

func readMutation(root *model.Node, mutation pitMutation) error {
	className := mutation.MutatedClass
	pkg := ""
	if i := strings.LastIndex(className, "."); i >= 0 {
		pkg = className[:i]
	}

	node := root
	for _, level := range []struct {
		metric model.Metric
		name   string
	}{
		{model.PACKAGE, pkg},
		{model.FILE, mutation.SourceFile},
		{model.CLASS, className},
		{model.METHOD, mutation.MutatedMethod},
	} {
		child, err := node.EnsureChild(level.metric, level.name)
		if err != nil {
			return err
		}
		node = child
	}

	result := model.NewCoverage(0, 1)
	if mutation.killed() {
		result = model.NewCoverage(1, 0)
	}
	return node.AttachLeaf(model.NewCoverageLeaf(model.MUTATION, result))
}
