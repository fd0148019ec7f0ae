package model

import "slices"

// Prune returns a copy of the subtree without the FILE nodes rejected by
// keep. Packages emptied by the filter are dropped as well. The receiver is
// not modified. Prune returns nil only when the receiver itself is a
// rejected FILE node.
func (n *Node) Prune(keep func(*Node) bool) *Node {
	return n.copyFiltered(nil, keep)
}

// Copy returns a deep copy of the subtree, detached from any parent.
func (n *Node) Copy() *Node {
	return n.Prune(func(*Node) bool { return true })
}

func (n *Node) copyFiltered(parent *Node, keep func(*Node) bool) *Node {
	if n.metric == FILE && !keep(n) {
		return nil
	}
	c := &Node{
		metric:       n.metric,
		name:         n.name,
		parent:       parent,
		leaves:       slices.Clone(n.leaves),
		sources:      slices.Clone(n.sources),
		relativePath: n.relativePath,
	}
	for _, child := range n.children {
		if cc := child.copyFiltered(c, keep); cc != nil {
			c.children = append(c.children, cc)
		}
	}
	if parent != nil && n.metric == PACKAGE && len(n.children) > 0 && len(c.children) == 0 {
		return nil
	}
	return c
}
