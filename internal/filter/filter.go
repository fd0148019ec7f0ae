// Package filter drops files from a coverage tree by glob pattern.
package filter

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/jenkinsci/coverage-model-sub002/internal/model"
)

// Matcher matches file paths against a set of glob patterns.
type Matcher struct {
	globs []glob.Glob
}

// Compile builds a matcher; '*' stays within a path segment, '**' crosses
// segments.
func Compile(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Empty reports whether no pattern was compiled.
func (m *Matcher) Empty() bool {
	return len(m.globs) == 0
}

// Match reports whether the path matches any pattern.
func (m *Matcher) Match(path string) bool {
	for _, g := range m.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Exclude returns a copy of the tree without the files whose path or
// recorded relative path matches a pattern.
func (m *Matcher) Exclude(root *model.Node) *model.Node {
	if m.Empty() {
		return root
	}
	return root.Prune(func(n *model.Node) bool {
		f, ok := n.AsFile()
		if !ok {
			return true
		}
		return !m.Match(f.Path()) && !m.Match(f.RelativePath())
	})
}
