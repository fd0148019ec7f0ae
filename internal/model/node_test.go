package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type testMethod struct {
	name        string
	line        Coverage
	branch      Coverage
	instruction Coverage
	complexity  int
}

func addMethod(t *testing.T, class *Node, m testMethod) *Node {
	t.Helper()

	method, err := class.CreateChild(METHOD, m.name)
	require.NoError(t, err)
	for metric, c := range map[Metric]Coverage{LINE: m.line, BRANCH: m.branch, INSTRUCTION: m.instruction} {
		if c.IsSet() {
			require.NoError(t, method.AttachLeaf(NewCoverageLeaf(metric, c)))
		}
	}
	if m.complexity > 0 {
		require.NoError(t, method.AttachLeaf(NewValueLeaf(COMPLEXITY, m.complexity)))
	}
	return method
}

func addClass(t *testing.T, pkg *Node, file, class string, methods ...testMethod) *Node {
	t.Helper()

	f, err := pkg.EnsureChild(FILE, file)
	require.NoError(t, err)
	c, err := f.CreateChild(CLASS, class)
	require.NoError(t, err)
	for _, m := range methods {
		addMethod(t, c, m)
	}
	return f
}

// newTestTree builds:
//
//	report
//	  edu.hm.hafner.util: Ensure.java (that, fail), PathUtil.java (getPath)
//	  edu.hm.hafner.coverage: Coverage.java (add)
func newTestTree(t *testing.T) *Node {
	t.Helper()

	root := NewRoot("report")
	root.AddSource("src/main/java")

	util, err := root.CreateChild(PACKAGE, "edu.hm.hafner.util")
	require.NoError(t, err)
	addClass(t, util, "Ensure.java", "Ensure",
		testMethod{name: "that", line: NewCoverage(8, 2), branch: NewCoverage(1, 1), complexity: 3},
		testMethod{name: "fail", line: NewCoverage(0, 3), complexity: 1})
	addClass(t, util, "PathUtil.java", "PathUtil",
		testMethod{name: "getPath", line: NewCoverage(4, 0), instruction: NewCoverage(10, 2), complexity: 2})

	cov, err := root.CreateChild(PACKAGE, "edu.hm.hafner.coverage")
	require.NoError(t, err)
	addClass(t, cov, "Coverage.java", "Coverage",
		testMethod{name: "add", line: NewCoverage(0, 5)})

	return root
}

func TestCreateChildHierarchy(t *testing.T) {
	root := NewRoot("module")
	pkg, err := root.CreateChild(PACKAGE, "a")
	require.NoError(t, err)
	assert.Equal(t, root, pkg.Parent())
	assert.Equal(t, "module", pkg.ParentName())
	assert.Equal(t, RootParentName, root.ParentName())
	assert.True(t, root.IsRoot())

	_, err = pkg.CreateChild(PACKAGE, "b")
	assert.NoError(t, err, "packages nest")

	file, err := pkg.CreateChild(FILE, "A.java")
	require.NoError(t, err)

	tests := []struct {
		name   string
		parent *Node
		metric Metric
	}{
		{"skip package", root, FILE},
		{"skip to method", root, METHOD},
		{"invert", file, PACKAGE},
		{"same level", file, FILE},
		{"module below module", root, MODULE},
		{"value metric", file, LINE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			child, err := tt.parent.CreateChild(tt.metric, "x")
			require.Error(t, err)
			assert.Nil(t, child)
			assert.True(t, IsCode(err, CodeInvalidHierarchy), "got %v", err)
		})
	}
	assert.Len(t, file.Children(), 0)
}

func TestEnsureChildReusesNode(t *testing.T) {
	root := NewRoot("module")
	first, err := root.EnsureChild(PACKAGE, "a")
	require.NoError(t, err)
	second, err := root.EnsureChild(PACKAGE, "a")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, root.Children(), 1)
}

func TestAttachLeafAccumulates(t *testing.T) {
	method := NewRoot("m")

	require.NoError(t, method.AttachLeaf(NewCoverageLeaf(LINE, NewCoverage(1, 0))))
	require.NoError(t, method.AttachLeaf(NewCoverageLeaf(LINE, NewCoverage(0, 1))))
	require.NoError(t, method.AttachLeaf(NewCoverageLeaf(LINE, NewCoverage(1, 0))))
	require.NoError(t, method.AttachLeaf(NewValueLeaf(COMPLEXITY, 2)))
	require.NoError(t, method.AttachLeaf(NewCoverageLeaf(BRANCH, NewCoverage(1, 1))))

	leaf, ok := method.Leaf(LINE)
	require.True(t, ok)
	assert.Equal(t, NewCoverage(2, 1), leaf.Coverage())
	assert.Len(t, method.Leaves(), 3)
	assert.Equal(t, []Metric{LINE, BRANCH, COMPLEXITY},
		[]Metric{method.Leaves()[0].Metric(), method.Leaves()[1].Metric(), method.Leaves()[2].Metric()})
}

func TestAttachLeafRejectsMismatch(t *testing.T) {
	node := NewRoot("m")

	err := node.AttachLeaf(NewCoverageLeaf(PACKAGE, NewCoverage(1, 0)))
	assert.True(t, IsCode(err, CodeLeafMetricMismatch))

	err = node.AttachLeaf(NewValueLeaf(LINE, 4))
	assert.True(t, IsCode(err, CodeLeafMetricMismatch))
	assert.Empty(t, node.Leaves())
}

func TestGetAll(t *testing.T) {
	root := newTestTree(t)

	for metric, want := range map[Metric]int{MODULE: 1, PACKAGE: 2, FILE: 3, CLASS: 3, METHOD: 4} {
		nodes, err := root.GetAll(metric)
		require.NoError(t, err)
		assert.Len(t, nodes, want, "metric %s", metric)
		assert.Equal(t, countByWalk(root, metric), len(nodes))
	}
}

func countByWalk(n *Node, metric Metric) int {
	count := 0
	if n.Metric() == metric {
		count++
	}
	for _, c := range n.Children() {
		count += countByWalk(c, metric)
	}
	return count
}

func TestGetAllRejectsValueMetrics(t *testing.T) {
	root := newTestTree(t)

	for _, metric := range []Metric{LINE, BRANCH, INSTRUCTION, MUTATION, COMPLEXITY, Metric(999)} {
		nodes, err := root.GetAll(metric)
		require.Error(t, err, "metric %s", metric)
		assert.Nil(t, nodes)
		assert.True(t, IsCode(err, CodeUnsupportedQuery))
	}
}

func TestGetCoverage(t *testing.T) {
	root := newTestTree(t)

	tests := []struct {
		metric Metric
		want   Coverage
	}{
		{MODULE, NewCoverage(1, 0)},
		{PACKAGE, NewCoverage(1, 1)},
		{FILE, NewCoverage(2, 1)},
		{CLASS, NewCoverage(2, 1)},
		{METHOD, NewCoverage(2, 2)},
		{LINE, NewCoverage(12, 10)},
		{BRANCH, NewCoverage(1, 1)},
		{INSTRUCTION, NewCoverage(10, 2)},
		{MUTATION, Coverage{}},
		{COMPLEXITY, Coverage{}},
	}
	for _, tt := range tests {
		t.Run(tt.metric.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, root.GetCoverage(tt.metric))
		})
	}
}

func TestCoverageByName(t *testing.T) {
	root := newTestTree(t)

	assert.Equal(t, NewCoverage(12, 10), root.CoverageByName("LINE"))
	assert.False(t, root.CoverageByName("not-a-real-metric").IsSet())
	assert.False(t, root.GetCoverage(Metric(999)).IsSet())
}

func TestStructuralCoverageWithoutPrimaryMetric(t *testing.T) {
	root := NewRoot("module")
	pkg, err := root.CreateChild(PACKAGE, "empty")
	require.NoError(t, err)
	_, err = pkg.CreateChild(FILE, "Empty.java")
	require.NoError(t, err)

	_, ok := root.PrimaryMetric()
	assert.False(t, ok)
	assert.Equal(t, NewCoverage(0, 1), root.GetCoverage(PACKAGE))
	assert.Equal(t, NewCoverage(0, 1), root.GetCoverage(FILE))
}

func TestStructuralCoverageFallsBackToInstructions(t *testing.T) {
	root := NewRoot("module")
	pkg, err := root.CreateChild(PACKAGE, "p")
	require.NoError(t, err)
	file, err := pkg.CreateChild(FILE, "a.go")
	require.NoError(t, err)
	require.NoError(t, file.AttachLeaf(NewCoverageLeaf(INSTRUCTION, NewCoverage(3, 1))))

	primary, ok := root.PrimaryMetric()
	require.True(t, ok)
	assert.Equal(t, INSTRUCTION, primary)
	assert.Equal(t, NewCoverage(1, 0), root.GetCoverage(FILE))
}

func TestDistribution(t *testing.T) {
	root := newTestTree(t)

	d := root.GetCoverageMetricsDistribution()

	assert.Equal(t, []Metric{MODULE, PACKAGE, FILE, CLASS, METHOD, LINE, BRANCH, INSTRUCTION}, d.Metrics())
	c, ok := d.Get(LINE)
	require.True(t, ok)
	assert.Equal(t, NewCoverage(12, 10), c)
	_, ok = d.Get(COMPLEXITY)
	assert.False(t, ok)
	assert.Contains(t, root.Metrics(), COMPLEXITY)
}

func TestDistributionMatchesManualLeafSums(t *testing.T) {
	root := newTestTree(t)

	manual := map[Metric]Coverage{}
	var sum func(*Node)
	sum = func(n *Node) {
		for _, l := range n.Leaves() {
			manual[l.Metric()] = manual[l.Metric()].Add(l.Coverage())
		}
		for _, c := range n.Children() {
			sum(c)
		}
	}
	sum(root)

	for _, e := range root.GetCoverageMetricsDistribution() {
		if e.Metric.IsStructural() {
			continue
		}
		assert.Equal(t, manual[e.Metric], e.Coverage, "metric %s", e.Metric)
	}
}

func TestPercentages(t *testing.T) {
	root := newTestTree(t)

	percentages := root.GetCoverageMetricsPercentages()

	require.Len(t, percentages, 8)
	assert.Equal(t, PACKAGE, percentages[1].Metric)
	assert.Equal(t, "50.00%", percentages[1].Percentage.String())
	assert.Equal(t, LINE, percentages[5].Metric)
	assert.Equal(t, "54.55%", percentages[5].Percentage.String())
	assert.Equal(t, "54,55%", root.PrintCoverageFor(LINE, language.German))
	assert.Equal(t, "-", root.PrintCoverageFor(MUTATION, language.English))
}

func TestComplexityAndMutations(t *testing.T) {
	root := newTestTree(t)
	assert.Equal(t, 6, root.GetComplexity())
	assert.False(t, root.GetMutationResult().IsSet())

	method, ok := root.Find(METHOD, "that")
	require.True(t, ok)
	require.NoError(t, method.AttachLeaf(NewCoverageLeaf(MUTATION, NewCoverage(1, 0))))
	require.NoError(t, method.AttachLeaf(NewCoverageLeaf(MUTATION, NewCoverage(0, 1))))
	require.NoError(t, method.AttachLeaf(NewCoverageLeaf(MUTATION, NewCoverage(1, 0))))

	result := root.GetMutationResult()
	assert.Equal(t, MutationResult{Killed: 2, Survived: 1}, result)
	assert.Equal(t, 3, result.Total())
	assert.Equal(t, 3, method.GetComplexity())
}

func TestFind(t *testing.T) {
	root := newTestTree(t)

	method, ok := root.Find(METHOD, "getPath")
	require.True(t, ok)
	assert.Equal(t, "getPath", method.Name())
	assert.Equal(t, "edu/hm/hafner/util/PathUtil.java/PathUtil/getPath", method.Path())

	file, ok := root.Find(FILE, "edu/hm/hafner/coverage/Coverage.java")
	require.True(t, ok)
	assert.Equal(t, "Coverage.java", file.Name())

	_, ok = root.Find(FILE, "Missing.java")
	assert.False(t, ok)
	_, ok = root.Find(LINE, "getPath")
	assert.False(t, ok)
}

func TestPath(t *testing.T) {
	root := NewRoot("cobertura.xml")
	pkg, err := root.CreateChild(PACKAGE, "edu.hm")
	require.NoError(t, err)
	qualified, err := pkg.CreateChild(FILE, "edu/hm/A.java")
	require.NoError(t, err)
	simple, err := pkg.CreateChild(FILE, "B.java")
	require.NoError(t, err)

	assert.Equal(t, "", root.Path())
	assert.Equal(t, "edu/hm", pkg.Path())
	assert.Equal(t, "edu/hm/A.java", qualified.Path())
	assert.Equal(t, "edu/hm/B.java", simple.Path())

	defaultPkg, err := root.CreateChild(PACKAGE, "")
	require.NoError(t, err)
	file, err := defaultPkg.CreateChild(FILE, "Main.java")
	require.NoError(t, err)
	assert.Equal(t, "Main.java", file.Path())
}

func TestFileNode(t *testing.T) {
	root := newTestTree(t)

	files := root.Files()
	require.Len(t, files, 3)

	pathUtil, ok := root.Find(FILE, "PathUtil.java")
	require.True(t, ok)
	f, ok := pathUtil.AsFile()
	require.True(t, ok)
	assert.Equal(t, 10, f.CoveredInstructions())
	assert.Equal(t, 2, f.MissedInstructions())
	assert.Zero(t, f.CoveredBranches())
	assert.Equal(t, "edu/hm/hafner/util/PathUtil.java", f.RelativePath())

	f.SetRelativePath("src/main/java/edu/hm/hafner/util/PathUtil.java")
	assert.Equal(t, "src/main/java/edu/hm/hafner/util/PathUtil.java", f.RelativePath())

	ensure, ok := root.Find(FILE, "Ensure.java")
	require.True(t, ok)
	e, _ := ensure.AsFile()
	assert.Equal(t, 1, e.CoveredBranches())
	assert.Equal(t, 1, e.MissedBranches())

	_, ok = root.AsFile()
	assert.False(t, ok)
	assert.Equal(t, []string{"src/main/java"}, ensure.Sources())
}

func TestPrintTree(t *testing.T) {
	root := NewRoot("cobertura.xml")
	pkg, err := root.CreateChild(PACKAGE, "edu")
	require.NoError(t, err)
	_, err = pkg.CreateChild(FILE, "A.java")
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, root.PrintTree(&out))

	assert.Equal(t, "[Module] cobertura.xml\n  [Package] edu\n    [File] A.java\n", out.String())
	assert.Equal(t, "[Module] cobertura.xml", root.String())
	assert.Equal(t, 3, root.Size())
}

func TestPrune(t *testing.T) {
	root := newTestTree(t)

	pruned := root.Prune(func(n *Node) bool { return n.Name() != "Coverage.java" })

	require.NotNil(t, pruned)
	assert.Len(t, pruned.Files(), 2)
	assert.Len(t, pruned.Children(), 1, "empty package is dropped")
	assert.Equal(t, NewCoverage(12, 5), pruned.GetCoverage(LINE))
	assert.Equal(t, []string{"src/main/java"}, pruned.Sources())
	assert.Len(t, root.Files(), 3, "source tree is untouched")

	copied := root.Copy()
	assert.Equal(t, dump(root), dump(copied))
	assert.NotSame(t, root.Children()[0], copied.Children()[0])
	assert.Same(t, copied, copied.Children()[0].Parent())
}
