package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jenkinsci/coverage-model-sub002/internal/model"
)

type coberturaReport struct {
	XMLName  xml.Name           `xml:"coverage"`
	Sources  []string           `xml:"sources>source"`
	Packages []coberturaPackage `xml:"packages>package"`
}

type coberturaPackage struct {
	Name    string           `xml:"name,attr"`
	Classes []coberturaClass `xml:"classes>class"`
}

type coberturaClass struct {
	Name     string            `xml:"name,attr"`
	Filename string            `xml:"filename,attr"`
	Methods  []coberturaMethod `xml:"methods>method"`
	Lines    []coberturaLine   `xml:"lines>line"`
}

type coberturaMethod struct {
	Name       string          `xml:"name,attr"`
	Signature  string          `xml:"signature,attr"`
	Complexity string          `xml:"complexity,attr"`
	Lines      []coberturaLine `xml:"lines>line"`
}

type coberturaLine struct {
	Number            int    `xml:"number,attr"`
	Hits              int64  `xml:"hits,attr"`
	Branch            bool   `xml:"branch,attr"`
	ConditionCoverage string `xml:"condition-coverage,attr"`
}

var conditionCoverage = regexp.MustCompile(`\((\d+)/(\d+)\)`)

// CoberturaParser reads Cobertura XML reports.
type CoberturaParser struct {
	log *slog.Logger
}

func (p *CoberturaParser) Parse(r io.Reader, name string) (*model.Node, error) {
	var report coberturaReport
	if err := newDecoder(r).Decode(&report); err != nil {
		return nil, invalidReport(fmt.Errorf("decoding cobertura XML: %w", err), name)
	}

	root := model.NewRoot(name)
	for _, source := range report.Sources {
		root.AddSource(strings.TrimSpace(source))
	}
	for _, pkg := range report.Packages {
		if err := p.readPackage(root, pkg); err != nil {
			return nil, invalidReport(err, name)
		}
	}
	return root, nil
}

func (p *CoberturaParser) readPackage(root *model.Node, pkg coberturaPackage) error {
	pkgNode, err := root.EnsureChild(model.PACKAGE, packageName(pkg.Name))
	if err != nil {
		return err
	}
	for _, class := range pkg.Classes {
		if class.Filename == "" {
			p.log.Debug("skipping class without file name", "class", class.Name)
			continue
		}
		fileNode, err := pkgNode.EnsureChild(model.FILE, class.Filename)
		if err != nil {
			return err
		}
		if f, ok := fileNode.AsFile(); ok {
			f.SetRelativePath(class.Filename)
		}
		if err := p.readClass(fileNode, class); err != nil {
			return fmt.Errorf("class %s: %w", class.Name, err)
		}
	}
	return nil
}

func (p *CoberturaParser) readClass(fileNode *model.Node, class coberturaClass) error {
	classNode, err := fileNode.CreateChild(model.CLASS, class.Name)
	if err != nil {
		return err
	}

	methodLines := map[int]bool{}
	for _, method := range class.Methods {
		methodNode, err := classNode.CreateChild(model.METHOD, method.Name)
		if err != nil {
			return err
		}
		for _, line := range method.Lines {
			methodLines[line.Number] = true
		}
		if err := attachLines(methodNode, method.Lines); err != nil {
			return err
		}
		if complexity, ok := parseComplexity(method.Complexity); ok {
			if err := methodNode.AttachLeaf(model.NewValueLeaf(model.COMPLEXITY, complexity)); err != nil {
				return err
			}
		}
	}

	// Lines outside any method (field initializers, static blocks) stay on the class.
	var classLines []coberturaLine
	for _, line := range class.Lines {
		if !methodLines[line.Number] {
			classLines = append(classLines, line)
		}
	}
	return attachLines(classNode, classLines)
}

func attachLines(node *model.Node, lines []coberturaLine) error {
	var lineCoverage, branchCoverage model.Coverage
	for _, line := range lines {
		if line.Hits > 0 {
			lineCoverage = lineCoverage.Add(model.NewCoverage(1, 0))
		} else {
			lineCoverage = lineCoverage.Add(model.NewCoverage(0, 1))
		}
		if line.Branch {
			branchCoverage = branchCoverage.Add(parseConditionCoverage(line.ConditionCoverage))
		}
	}
	for metric, c := range map[model.Metric]model.Coverage{model.LINE: lineCoverage, model.BRANCH: branchCoverage} {
		if !c.IsSet() {
			continue
		}
		if err := node.AttachLeaf(model.NewCoverageLeaf(metric, c)); err != nil {
			return err
		}
	}
	return nil
}

// parseConditionCoverage reads values like "50% (1/2)".
func parseConditionCoverage(value string) model.Coverage {
	m := conditionCoverage.FindStringSubmatch(value)
	if m == nil {
		return model.Coverage{}
	}
	covered, err1 := strconv.Atoi(m[1])
	total, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || covered > total {
		return model.Coverage{}
	}
	return model.NewCoverage(covered, total-covered)
}

// parseComplexity accepts integral and floating point values such as "3.0".
func parseComplexity(value string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return int(math.Round(f)), true
}
