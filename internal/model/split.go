package model

import (
	"slices"
	"strings"
)

// PackageSeparator separates the segments of a package name.
const PackageSeparator = "."

// SplitPackages rewrites dotted package names into nested packages. On a
// MODULE node every direct PACKAGE child is split; a PACKAGE node named
// "a.b.c" is replaced in its parent by the chain a -> b -> c holding the
// original children. Other levels are left unchanged. Splitting an already
// split tree has no effect.
func (n *Node) SplitPackages() {
	switch n.metric {
	case MODULE:
		for _, c := range slices.Clone(n.children) {
			if c.metric == PACKAGE {
				c.splitPackage()
			}
		}
	case PACKAGE:
		n.splitPackage()
	}
}

func packageSegments(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return string(r) == PackageSeparator
	})
}

func (n *Node) splitPackage() {
	segments := packageSegments(n.name)
	if len(segments) < 2 {
		return
	}

	head := &Node{metric: PACKAGE, name: segments[0]}
	innermost := head
	for _, segment := range segments[1:] {
		next := &Node{metric: PACKAGE, name: segment, parent: innermost}
		innermost.children = []*Node{next}
		innermost = next
	}
	innermost.children = n.children
	innermost.leaves = n.leaves

	for _, c := range innermost.children {
		c.parent = innermost
	}
	n.children, n.leaves = nil, nil

	parent := n.parent
	if parent == nil {
		// Detached package: it becomes the head of its own chain.
		n.name = head.name
		n.children = head.children
		for _, c := range n.children {
			c.parent = n
		}
		return
	}

	n.parent = nil
	index := slices.Index(parent.children, n)
	if existing, ok := parent.packageChild(head.name, n); ok {
		parent.children = slices.Delete(parent.children, index, index+1)
		existing.mergePackage(head)
		return
	}
	head.parent = parent
	parent.children[index] = head
}

// packageChild finds a PACKAGE child named name other than skip.
func (n *Node) packageChild(name string, skip *Node) (*Node, bool) {
	for _, c := range n.children {
		if c != skip && c.metric == PACKAGE && c.name == name {
			return c, true
		}
	}
	return nil, false
}

// mergePackage moves the content of other into n, merging packages of the
// same name level by level.
func (n *Node) mergePackage(other *Node) {
	for _, l := range other.leaves {
		// Both leaves passed AttachLeaf before, so metric and kind agree.
		_ = n.AttachLeaf(l)
	}
	for _, c := range other.children {
		if c.metric == PACKAGE {
			if existing, ok := n.packageChild(c.name, nil); ok {
				existing.mergePackage(c)
				continue
			}
		}
		c.parent = n
		n.children = append(n.children, c)
	}
	other.children, other.leaves = nil, nil
}
