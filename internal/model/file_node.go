package model

// FileNode is a FILE node with typed access to its per-file counters.
type FileNode struct {
	*Node
}

// AsFile returns the node as a FileNode if it is a FILE node.
func (n *Node) AsFile() (FileNode, bool) {
	if n == nil || n.metric != FILE {
		return FileNode{}, false
	}
	return FileNode{Node: n}, true
}

// Files returns every FILE node of the subtree.
func (n *Node) Files() []FileNode {
	var files []FileNode
	n.walk(func(node *Node) bool {
		if f, ok := node.AsFile(); ok {
			files = append(files, f)
		}
		return true
	})
	return files
}

func (f FileNode) MissedInstructions() int  { return f.GetCoverage(INSTRUCTION).Missed() }
func (f FileNode) CoveredInstructions() int { return f.GetCoverage(INSTRUCTION).Covered() }
func (f FileNode) MissedBranches() int      { return f.GetCoverage(BRANCH).Missed() }
func (f FileNode) CoveredBranches() int     { return f.GetCoverage(BRANCH).Covered() }

// SetRelativePath records the source path the report gave for this file.
func (f FileNode) SetRelativePath(path string) {
	f.relativePath = path
}

// RelativePath returns the recorded source path, falling back to Path.
func (f FileNode) RelativePath() string {
	if f.relativePath != "" {
		return f.relativePath
	}
	return f.Path()
}
