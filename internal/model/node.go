// Package model holds the coverage tree: structural nodes (module, package,
// file, class, method) carrying value leaves (line, branch, instruction,
// mutation, complexity), plus the aggregation queries over it.
//
// A tree is built single-threaded by a report parser and may be shared for
// concurrent reads afterwards; concurrent mutation is not supported.
package model

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// RootParentName is reported by ParentName for nodes without a parent.
const RootParentName = "^"

// Node is a structural vertex of the coverage tree. Children are owned by
// their parent; the parent pointer is a back-reference only.
type Node struct {
	metric   Metric
	name     string
	parent   *Node
	children []*Node
	leaves   []Leaf

	sources      []string // MODULE only
	relativePath string   // FILE only
}

// NewRoot creates a MODULE node; the name is shown verbatim when rendered.
func NewRoot(name string) *Node {
	return &Node{metric: MODULE, name: name}
}

func (n *Node) Metric() Metric { return n.metric }
func (n *Node) Name() string   { return n.name }
func (n *Node) Parent() *Node  { return n.parent }
func (n *Node) IsRoot() bool   { return n.parent == nil }

// ParentName returns the parent's name, or "^" for a root.
func (n *Node) ParentName() string {
	if n.parent == nil {
		return RootParentName
	}
	return n.parent.name
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// Leaves returns the node's own leaves ordered by metric.
func (n *Node) Leaves() []Leaf {
	return slices.Clone(n.leaves)
}

// Leaf returns the node's own leaf for metric, if any.
func (n *Node) Leaf(metric Metric) (Leaf, bool) {
	for _, l := range n.leaves {
		if l.metric == metric {
			return l, true
		}
	}
	return Leaf{}, false
}

func canContain(parent, child Metric) bool {
	if !parent.IsStructural() || !child.IsStructural() {
		return false
	}
	if parent == PACKAGE && child == PACKAGE {
		return true
	}
	return child.Rank() == parent.Rank()+1
}

// CreateChild appends a new child node. The child must sit exactly one
// structural level below this node; packages may also nest in packages.
func (n *Node) CreateChild(metric Metric, name string) (*Node, error) {
	if !canContain(n.metric, metric) {
		return nil, newError(CodeInvalidHierarchy, "a %s node cannot be a child of a %s node", metric, n.metric).
			WithContext(CtxParent, n.name).
			WithContext(CtxName, name)
	}
	child := &Node{metric: metric, name: name, parent: n}
	n.children = append(n.children, child)
	return child, nil
}

// Child returns the direct child with the given metric and name.
func (n *Node) Child(metric Metric, name string) (*Node, bool) {
	for _, c := range n.children {
		if c.metric == metric && c.name == name {
			return c, true
		}
	}
	return nil, false
}

// EnsureChild returns the direct child with the given metric and name,
// creating it when missing.
func (n *Node) EnsureChild(metric Metric, name string) (*Node, error) {
	if c, ok := n.Child(metric, name); ok {
		return c, nil
	}
	return n.CreateChild(metric, name)
}

// AttachLeaf stores the leaf, or sums it into an existing leaf of the
// same metric.
func (n *Node) AttachLeaf(leaf Leaf) error {
	if err := leaf.validate(); err != nil {
		return err
	}
	for i, existing := range n.leaves {
		if existing.metric == leaf.metric {
			sum, err := existing.Combine(leaf)
			if err != nil {
				return err
			}
			n.leaves[i] = sum
			return nil
		}
	}
	n.leaves = append(n.leaves, leaf)
	slices.SortFunc(n.leaves, func(a, b Leaf) int { return int(a.metric) - int(b.metric) })
	return nil
}

// AddSource registers a source directory of the report.
func (n *Node) AddSource(dir string) {
	if dir == "" || slices.Contains(n.sources, dir) {
		return
	}
	n.sources = append(n.sources, dir)
}

// Sources returns the registered source directories of the tree's root.
func (n *Node) Sources() []string {
	return slices.Clone(n.Root().sources)
}

// Root walks up the parent chain.
func (n *Node) Root() *Node {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Path is the slash-separated location of the node below the module:
// package names contribute their dotted segments as directories.
func (n *Node) Path() string {
	if n.metric == MODULE {
		return ""
	}
	var parentPath string
	if n.parent != nil {
		parentPath = n.parent.Path()
	}
	switch n.metric {
	case PACKAGE:
		return joinPath(parentPath, strings.Join(packageSegments(n.name), "/"))
	case FILE:
		if parentPath == "" || strings.HasPrefix(n.name, parentPath+"/") {
			return n.name
		}
	}
	return joinPath(parentPath, n.name)
}

func joinPath(parent, name string) string {
	switch {
	case parent == "":
		return name
	case name == "":
		return parent
	default:
		return parent + "/" + name
	}
}

// walk visits the subtree depth-first, parents before children.
func (n *Node) walk(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(visit) {
			return false
		}
	}
	return true
}

// GetAll collects every node of the structural metric in the subtree,
// including this node.
func (n *Node) GetAll(metric Metric) ([]*Node, error) {
	if !metric.IsStructural() {
		return nil, newError(CodeUnsupportedQuery, "%s is not a structural metric", metric).
			WithContext(CtxMetric, metric.String())
	}
	var all []*Node
	n.walk(func(node *Node) bool {
		if node.metric == metric {
			all = append(all, node)
		}
		return true
	})
	return all, nil
}

// Find returns the first node of the structural metric whose name matches.
// FILE nodes also match on their Path.
func (n *Node) Find(metric Metric, name string) (*Node, bool) {
	var found *Node
	n.walk(func(node *Node) bool {
		if node.metric == metric && (node.name == name || (metric == FILE && node.Path() == name)) {
			found = node
			return false
		}
		return true
	})
	return found, found != nil
}

// Size counts the nodes of the subtree.
func (n *Node) Size() int {
	size := 0
	n.walk(func(*Node) bool {
		size++
		return true
	})
	return size
}

func (n *Node) String() string {
	return fmt.Sprintf("[%s] %s", n.metric.DisplayName(), n.name)
}

// PrintTree writes the indented hierarchy, one node per line.
func (n *Node) PrintTree(w io.Writer) error {
	return n.printTree(w, 0)
}

func (n *Node) printTree(w io.Writer, depth int) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), n); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := c.printTree(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}
