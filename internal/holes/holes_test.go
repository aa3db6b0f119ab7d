package holes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/parser"
	"github.com/lhaig/whilesynth/internal/smt"
)

func TestProcess(t *testing.T) {
	sk, err := Process("c1 := ?? ; c2 := ?? ; a := c1 * x ; b := c2 - 1 ; a := a + b; c := x + x ; assert(a = c)")
	require.NoError(t, err)
	assert.Equal(t, []string{"hole_0", "hole_1"}, sk.Holes)
	assert.Equal(t, "c1 := hole_0 ; c2 := hole_1 ; a := c1 * x ; b := c2 - 1 ; a := a + b; c := x + x ; assert(a = c)", sk.Text)
	assert.Equal(t, 0, ast.CountHoles(sk.AST))
	assert.Contains(t, ast.Vars(sk.AST), "hole_1")
}

func TestProcessKeepsFormatting(t *testing.T) {
	src := "# pick t\nt := ??   ;\n  y := (??*2)"
	sk, err := Process(src)
	require.NoError(t, err)
	assert.Equal(t, "# pick t\nt := hole_0   ;\n  y := (hole_1*2)", sk.Text)
	assert.Equal(t, src, sk.Original)
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name    string
		program string
		want    error
	}{
		{"not valid", "c1 := ?? ; c2 := ?? ;", parser.ErrInvalidProgram},
		{"no holes", "x := 1 ; assert x = 1", ErrNoHoles},
		{"reserved name", "hole_3 := ?? ; assert hole_3 = 1", ErrInvalidVarName},
		{"reserved name read", "x := hole_0 + ??", ErrInvalidVarName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Process(tt.program)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProcessAllowsHoleLikeNames(t *testing.T) {
	sk, err := Process("hole := ?? ; hole_x := 1 ; myhole_1 := 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"hole_0"}, sk.Holes)
}

// Naming is stable: processing the same text twice gives the same sketch.
func TestProcessIdempotentNaming(t *testing.T) {
	src := "a := ?? ; b := ?? + ?? ; if a < b then c := ?? else c := 0"
	first, err := Process(src)
	require.NoError(t, err)
	second, err := Process(src)
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, []string{"hole_0", "hole_1", "hole_2", "hole_3"}, first.Holes)
}

func TestPartition(t *testing.T) {
	holes, rest := Partition(smt.Model{"hole_0": 2, "hole_12": -1, "x": 5, "hole": 3, "x!ex0": 1})
	assert.Equal(t, smt.Model{"hole_0": 2, "hole_12": -1}, holes)
	assert.Equal(t, smt.Model{"x": 5, "hole": 3, "x!ex0": 1}, rest)
}

func TestComplete(t *testing.T) {
	got := Complete(smt.Model{"hole_1": 4, "x": 9}, []string{"hole_0", "hole_1"})
	assert.Equal(t, smt.Model{"hole_0": 0, "hole_1": 4}, got)
}

func TestSubstitute(t *testing.T) {
	text := "a := hole_1 ; b := hole_10 ; c := hole_1+hole_2 ; d := myhole_1"
	got := Substitute(text, smt.Model{"hole_1": 7, "hole_10": -3})
	assert.Equal(t, "a := 7 ; b := -3 ; c := 7+0 ; d := myhole_1", got)
}

// Substituting values into a sketch gives a parseable program with the
// values in place of the holes.
func TestSubstituteRoundTrip(t *testing.T) {
	sk, err := Process("x := ?? ; y := x - ?? ; z := 2 * ??")
	require.NoError(t, err)
	text := Substitute(sk.Text, smt.Model{"hole_0": -5, "hole_1": -1, "hole_2": 3})
	assert.Equal(t, "x := -5 ; y := x - -1 ; z := 2 * 3", text)

	stmt, err := parser.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "x := -5 ; y := (x - -1) ; z := (2 * 3)", ast.Text(stmt))
}

func TestIsHole(t *testing.T) {
	assert.True(t, IsHole("hole_0"))
	assert.True(t, IsHole("hole_42"))
	assert.False(t, IsHole("hole_"))
	assert.False(t, IsHole("hole_1a"))
	assert.False(t, IsHole("xhole_1"))
	assert.Equal(t, "hole_7", Name(7))
}
