package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafCombine(t *testing.T) {
	sum, err := NewCoverageLeaf(LINE, NewCoverage(3, 1)).Combine(NewCoverageLeaf(LINE, NewCoverage(2, 2)))
	require.NoError(t, err)
	assert.Equal(t, LINE, sum.Metric())
	assert.Equal(t, NewCoverage(5, 3), sum.Coverage())

	total, err := NewValueLeaf(COMPLEXITY, 3).Combine(NewValueLeaf(COMPLEXITY, 4))
	require.NoError(t, err)
	assert.Equal(t, 7, total.Value())
}

func TestLeafCombineMismatch(t *testing.T) {
	_, err := NewCoverageLeaf(LINE, NewCoverage(1, 0)).Combine(NewCoverageLeaf(BRANCH, NewCoverage(1, 0)))
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeLeafMetricMismatch))

	_, err = NewCoverageLeaf(COMPLEXITY, NewCoverage(1, 0)).Combine(NewValueLeaf(COMPLEXITY, 1))
	assert.True(t, IsCode(err, CodeLeafMetricMismatch))
}

func TestLeafAccessors(t *testing.T) {
	ratio := NewCoverageLeaf(BRANCH, NewCoverage(1, 1))
	assert.Zero(t, ratio.Value())
	assert.True(t, ratio.IsSet())
	assert.Equal(t, "[Branch]: 50.00% (1/2)", ratio.String())

	scalar := NewValueLeaf(COMPLEXITY, 0)
	assert.False(t, scalar.IsSet())
	assert.False(t, scalar.Coverage().IsSet())
	assert.Equal(t, 0, NewValueLeaf(COMPLEXITY, -2).Value())
	assert.Equal(t, "[Complexity]: 5", NewValueLeaf(COMPLEXITY, 5).String())
}

func TestLeafValidate(t *testing.T) {
	assert.NoError(t, NewCoverageLeaf(LINE, NewCoverage(1, 0)).validate())
	assert.NoError(t, NewValueLeaf(COMPLEXITY, 1).validate())
	assert.True(t, IsCode(NewValueLeaf(LINE, 1).validate(), CodeLeafMetricMismatch))
	assert.True(t, IsCode(NewCoverageLeaf(FILE, NewCoverage(1, 0)).validate(), CodeLeafMetricMismatch))
}

func TestErrorMessage(t *testing.T) {
	err := newError(CodeInvalidHierarchy, "bad %s", "child").WithContext(CtxName, "x")
	assert.Equal(t, "[INVALID_HIERARCHY] bad child map[name:x]", err.Error())

	wrapped := WrapError(assert.AnError, CodeInvalidReport, "broken")
	assert.True(t, IsCode(wrapped, CodeInvalidReport))
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.False(t, IsCode(assert.AnError, CodeInvalidReport))
}
