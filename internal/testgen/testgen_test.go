package testgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/parser"
)

func mustProgram(t *testing.T, text string) ast.Statement {
	t.Helper()
	stmt, err := parser.Parse(text)
	require.NoError(t, err)
	return stmt
}

func mustCond(t *testing.T, text string) ast.Expression {
	t.Helper()
	expr, err := parser.ParseCondition(text)
	require.NoError(t, err)
	return expr
}

func TestAnalyzeConstraints(t *testing.T) {
	pre := mustCond(t, "x >= 0 and x < 10 and 3 < y and z != 4 and w = 5 and x > -2")
	cs := AnalyzeConstraints([]string{"w", "x", "y", "z", "free"}, pre)

	require.NotNil(t, cs["x"].Lower)
	assert.Equal(t, int64(0), *cs["x"].Lower)
	require.NotNil(t, cs["x"].Upper)
	assert.Equal(t, int64(9), *cs["x"].Upper)

	require.NotNil(t, cs["y"].Lower)
	assert.Equal(t, int64(4), *cs["y"].Lower)
	assert.Nil(t, cs["y"].Upper)

	assert.Equal(t, []int64{4}, cs["z"].NotEqual)
	assert.Equal(t, int64(5), *cs["w"].Lower)
	assert.Equal(t, int64(5), *cs["w"].Upper)

	assert.Nil(t, cs["free"].Lower)
	assert.Nil(t, cs["free"].Upper)
}

func TestAnalyzeConstraintsIgnoresDisjunction(t *testing.T) {
	cs := AnalyzeConstraints([]string{"x"}, mustCond(t, "x > 0 or x < -5"))
	assert.Nil(t, cs["x"].Lower)
	assert.Nil(t, cs["x"].Upper)
}

func TestGenerateValues(t *testing.T) {
	lo, hi := int64(0), int64(9)
	values := GenerateValues(&VarConstraint{Name: "x", Lower: &lo, Upper: &hi, NotEqual: []int64{1}})

	assert.Equal(t, []int64{0, 8, 9}, values[:3], "boundary values come first")
	seen := make(map[int64]bool)
	for _, v := range values {
		assert.GreaterOrEqual(t, v, lo)
		assert.LessOrEqual(t, v, hi)
		assert.NotEqual(t, int64(1), v)
		assert.False(t, seen[v], "duplicate %d", v)
		seen[v] = true
	}
}

func TestGenerateValuesIsDeterministic(t *testing.T) {
	c := &VarConstraint{Name: "x"}
	assert.Equal(t, GenerateValues(c), GenerateValues(c))
	assert.Contains(t, GenerateValues(c), DefaultLower)
	assert.Contains(t, GenerateValues(c), DefaultUpper)
}

func TestCheckPasses(t *testing.T) {
	stmt := mustProgram(t, "if x > 0 then y := x else y := 0 - x ; assert y >= 0")
	report, err := Check(stmt, nil, mustCond(t, "y >= 0 and (y = x or y = 0 - x)"), Options{})
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.Greater(t, report.Checked, 20)
}

func TestCheckFindsPostconditionFailure(t *testing.T) {
	stmt := mustProgram(t, "y := x - 1")
	report, err := Check(stmt, mustCond(t, "x >= 0"), mustCond(t, "y >= 0"), Options{})
	require.NoError(t, err)
	require.False(t, report.Passed())
	assert.Equal(t, int64(0), report.Failure.Input["x"])
	assert.Equal(t, int64(-1), report.Failure.Output["y"])
	assert.Contains(t, report.Failure.String(), "postcondition does not hold")
}

func TestCheckFindsAssertionFailure(t *testing.T) {
	stmt := mustProgram(t, "assert x != 7")
	report, err := Check(stmt, mustCond(t, "x = 7"), nil, Options{})
	require.NoError(t, err)
	require.False(t, report.Passed())
	assert.Contains(t, report.Failure.Reason, "assert")
}

func TestCheckSkipsInputsOutsidePrecondition(t *testing.T) {
	stmt := mustProgram(t, "z := x - y ; assert z > 0")
	report, err := Check(stmt, mustCond(t, "x > y"), nil, Options{Samples: 50})
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.Greater(t, report.Skipped, 0)
	assert.Greater(t, report.Checked, 0)
}

func TestCheckStepLimitIsInconclusive(t *testing.T) {
	stmt := mustProgram(t, "while x > 0 do x := x + 1")
	report, err := Check(stmt, mustCond(t, "x > 0"), mustCond(t, "false"), Options{Samples: 10, MaxSteps: 50})
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.Equal(t, 0, report.Checked)
	assert.Greater(t, report.Skipped, 0)
}

func TestCheckRejectsHoles(t *testing.T) {
	_, err := Check(mustProgram(t, "x := ??"), nil, nil, Options{})
	assert.ErrorIs(t, err, ErrHoles)
}
