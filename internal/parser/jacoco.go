package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/jenkinsci/coverage-model-sub002/internal/model"
)

type jacocoReport struct {
	XMLName  xml.Name        `xml:"report"`
	Name     string          `xml:"name,attr"`
	Groups   []jacocoGroup   `xml:"group"`
	Packages []jacocoPackage `xml:"package"`
}

type jacocoGroup struct {
	Name     string          `xml:"name,attr"`
	Groups   []jacocoGroup   `xml:"group"`
	Packages []jacocoPackage `xml:"package"`
}

type jacocoPackage struct {
	Name    string        `xml:"name,attr"`
	Classes []jacocoClass `xml:"class"`
}

type jacocoClass struct {
	Name           string         `xml:"name,attr"`
	SourceFileName string         `xml:"sourcefilename,attr"`
	Methods        []jacocoMethod `xml:"method"`
}

type jacocoMethod struct {
	Name     string          `xml:"name,attr"`
	Desc     string          `xml:"desc,attr"`
	Line     int             `xml:"line,attr"`
	Counters []jacocoCounter `xml:"counter"`
}

type jacocoCounter struct {
	Type    string `xml:"type,attr"`
	Missed  int    `xml:"missed,attr"`
	Covered int    `xml:"covered,attr"`
}

var jacocoCounters = map[string]model.Metric{
	"INSTRUCTION": model.INSTRUCTION,
	"LINE":        model.LINE,
	"BRANCH":      model.BRANCH,
	"COMPLEXITY":  model.COMPLEXITY,
}

// JacocoParser reads JaCoCo XML reports. Only method counters are used,
// the class, package and report totals are recomputed by the model.
type JacocoParser struct {
	log *slog.Logger
}

func (p *JacocoParser) Parse(r io.Reader, name string) (*model.Node, error) {
	var report jacocoReport
	if err := newDecoder(r).Decode(&report); err != nil {
		return nil, invalidReport(fmt.Errorf("decoding jacoco XML: %w", err), name)
	}

	root := model.NewRoot(name)
	packages := report.Packages
	packages = append(packages, flattenGroups(report.Groups)...)
	for _, pkg := range packages {
		if err := p.readPackage(root, pkg); err != nil {
			return nil, invalidReport(err, name)
		}
	}
	return root, nil
}

func flattenGroups(groups []jacocoGroup) []jacocoPackage {
	var packages []jacocoPackage
	for _, g := range groups {
		packages = append(packages, g.Packages...)
		packages = append(packages, flattenGroups(g.Groups)...)
	}
	return packages
}

func (p *JacocoParser) readPackage(root *model.Node, pkg jacocoPackage) error {
	pkgNode, err := root.EnsureChild(model.PACKAGE, packageName(pkg.Name))
	if err != nil {
		return err
	}
	for _, class := range pkg.Classes {
		if class.SourceFileName == "" {
			p.log.Debug("skipping class without source file", "class", class.Name)
			continue
		}
		fileNode, err := pkgNode.EnsureChild(model.FILE, class.SourceFileName)
		if err != nil {
			return err
		}
		if f, ok := fileNode.AsFile(); ok {
			f.SetRelativePath(path.Join(pkg.Name, class.SourceFileName))
		}
		classNode, err := fileNode.CreateChild(model.CLASS, packageName(class.Name))
		if err != nil {
			return err
		}
		for _, method := range class.Methods {
			if err := readMethod(classNode, method); err != nil {
				return fmt.Errorf("method %s%s: %w", method.Name, method.Desc, err)
			}
		}
	}
	return nil
}

func readMethod(classNode *model.Node, method jacocoMethod) error {
	methodNode, err := classNode.CreateChild(model.METHOD, method.Name)
	if err != nil {
		return err
	}
	for _, counter := range method.Counters {
		metric, ok := jacocoCounters[counter.Type]
		if !ok {
			continue
		}
		leaf := model.NewCoverageLeaf(metric, model.NewCoverage(counter.Covered, counter.Missed))
		if metric.Kind() == model.Scalar {
			leaf = model.NewValueLeaf(metric, counter.Covered+counter.Missed)
		}
		if err := methodNode.AttachLeaf(leaf); err != nil {
			return err
		}
	}
	return nil
}
