package parser

import (
	"fmt"
	"io"
	"log/slog"
	"path"

	"golang.org/x/tools/cover"

	"github.com/jenkinsci/coverage-model-sub002/internal/model"
)

// GoProfileParser reads profiles written by "go test -coverprofile".
// Packages are the import path directories, FILE nodes carry LINE and
// INSTRUCTION (statement) coverage.
type GoProfileParser struct {
	log *slog.Logger
}

func (p *GoProfileParser) Parse(r io.Reader, name string) (*model.Node, error) {
	profiles, err := cover.ParseProfilesFromReader(r)
	if err != nil {
		return nil, invalidReport(fmt.Errorf("parsing coverage profile: %w", err), name)
	}

	root := model.NewRoot(name)
	for _, profile := range profiles {
		dir := path.Dir(profile.FileName)
		if dir == "." {
			dir = ""
		}
		pkgNode, err := root.EnsureChild(model.PACKAGE, packageName(dir))
		if err != nil {
			return nil, err
		}
		fileNode, err := pkgNode.EnsureChild(model.FILE, path.Base(profile.FileName))
		if err != nil {
			return nil, err
		}
		if f, ok := fileNode.AsFile(); ok {
			f.SetRelativePath(profile.FileName)
		}

		lines, statements := computeCoverage(profile.Blocks)
		for metric, c := range map[model.Metric]model.Coverage{model.LINE: lines, model.INSTRUCTION: statements} {
			if !c.IsSet() {
				continue
			}
			if err := fileNode.AttachLeaf(model.NewCoverageLeaf(metric, c)); err != nil {
				return nil, err
			}
		}
		p.log.Debug("read profile", "file", profile.FileName, "blocks", len(profile.Blocks))
	}
	return root, nil
}

// computeCoverage derives line coverage (a line is covered when any block
// spanning it ran) and statement coverage from the profile blocks.
func computeCoverage(blocks []cover.ProfileBlock) (lines, statements model.Coverage) {
	covered := map[int]bool{}
	for _, b := range blocks {
		if b.NumStmt == 0 {
			continue
		}
		if b.Count > 0 {
			statements = statements.Add(model.NewCoverage(b.NumStmt, 0))
		} else {
			statements = statements.Add(model.NewCoverage(0, b.NumStmt))
		}
		for line := b.StartLine; line <= b.EndLine; line++ {
			covered[line] = covered[line] || b.Count > 0
		}
	}
	for _, c := range covered {
		if c {
			lines = lines.Add(model.NewCoverage(1, 0))
		} else {
			lines = lines.Add(model.NewCoverage(0, 1))
		}
	}
	return lines, statements
}
