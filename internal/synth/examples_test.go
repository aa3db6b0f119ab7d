package synth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/whilesynth/internal/solver"
	"github.com/lhaig/whilesynth/internal/wp"
)

const linearProgram = "c1 := ?? ; c2 := ?? ; a := c1 * x ; b := c2 - 10 ; a := a + b ; c := x * 2 ; if a != c then d := 0 else d := 1"

var linearExamples = []Example{
	{Inputs: map[string]int64{"x": 0}, Outputs: map[string]int64{"d": 1}},
	{Inputs: map[string]int64{"x": 1}, Outputs: map[string]int64{"d": 1}},
}

func TestFromExamples(t *testing.T) {
	got, err := FromExamples(context.Background(), linearProgram, linearExamples,
		wp.True, wp.True, wp.True, testOptions(1))
	require.NoError(t, err)
	assert.Equal(t, "c1 := 2 ; c2 := 10 ; a := c1 * x ; b := c2 - 10 ; a := a + b ; c := x * 2 ; if a != c then d := 0 else d := 1", got)
}

func TestFromExamplesNoSolution(t *testing.T) {
	program := "c1 := ?? ; c2 := 4 * ?? ; a := c1 * x ; b := c2 - 10 ; a := a + b ; c := x * 2 ; if a != c then d := 0 else d := 1"
	got, err := FromExamples(context.Background(), program, linearExamples,
		wp.True, wp.True, wp.True, testOptions(1))
	assert.ErrorIs(t, err, ErrProgramNotVerified)
	assert.Empty(t, got)
}

func TestFromExamplesWithLoop(t *testing.T) {
	program := "y := 0 ; i := 0 ; while i < n do (y := y + ?? ; i := i + 1)"
	examples := []Example{
		{Inputs: map[string]int64{"n": 2}, Outputs: map[string]int64{"y": 6}},
		{Inputs: map[string]int64{"n": 3}, Outputs: map[string]int64{"y": 9}},
	}
	got, err := FromExamples(context.Background(), program, examples,
		wp.True, wp.True, wp.True, testOptions(4))
	require.NoError(t, err)
	assert.Equal(t, "y := 0 ; i := 0 ; while i < n do (y := y + 3 ; i := i + 1)", got)
}

// Omitted outputs are unconstrained, so a single example with no outputs
// accepts the first assignment found.
func TestFromExamplesDontCare(t *testing.T) {
	got, err := FromExamples(context.Background(), "y := x + ??",
		[]Example{{Inputs: map[string]int64{"x": 1}}}, wp.True, wp.True, wp.True, testOptions(1))
	require.NoError(t, err)
	assert.Equal(t, "y := x + 0", got)
}

func TestFromExamplesSharedPrecondition(t *testing.T) {
	got, err := FromExamples(context.Background(), "y := x + ??",
		[]Example{{Inputs: map[string]int64{"x": 1}}},
		wp.True, wp.MustCondition("y > 4"), wp.True, testOptions(1))
	require.NoError(t, err)
	assert.Equal(t, "y := x + 4", got)
}

func TestFromExamplesKeepsExtraNamesPerExample(t *testing.T) {
	examples := []Example{
		{Inputs: map[string]int64{"w": 0}, Outputs: map[string]int64{"z": 1}},
		{Inputs: map[string]int64{"w": 1}, Outputs: map[string]int64{"z": 1}},
	}
	got, err := FromExamples(context.Background(), "y := ?? ; z := y", examples,
		wp.True, wp.True, wp.True, testOptions(1))
	require.NoError(t, err)
	assert.Equal(t, "y := 1 ; z := y", got)
}

func TestExampleNames(t *testing.T) {
	ex := Example{Inputs: map[string]int64{"w": 0}, Outputs: map[string]int64{"z": 1}}
	got := exampleNames([]string{"hole_0", "y"}, ex, wp.MustCondition("k > 0"), wp.True)
	assert.Equal(t, []string{"hole_0", "k", "w", "y", "z"}, got)
}

func TestFromExamplesErrors(t *testing.T) {
	tests := []struct {
		name     string
		program  string
		examples []Example
		want     error
	}{
		{"no examples", linearProgram, nil, ErrNoExamplesProvided},
		{"no holes", "d := 1", linearExamples, ErrProgramHasNoHoles},
		{"invalid program", "d := ?? ;", linearExamples, ErrProgramNotValid},
		{"reserved variable", "hole_9 := ??", linearExamples, ErrProgramHasInvalidVarName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromExamples(context.Background(), tt.program, tt.examples,
				wp.True, wp.True, wp.True, testOptions(1))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExampleConditions(t *testing.T) {
	pre, post := ExampleConditions(Example{
		Inputs:  map[string]int64{"y": 2, "x": -1},
		Outputs: map[string]int64{"d": 1},
	})
	env := wp.NewEnv([]string{"d", "x", "y"})
	assert.Equal(t, "(and (= x (- 1)) (= y 2))", pre.Apply(env).String())
	assert.Equal(t, "(= d 1)", post.Apply(env).String())

	pre, post = ExampleConditions(Example{})
	assert.True(t, pre.Apply(env).IsTrue())
	assert.True(t, post.Apply(env).IsTrue())
}

func TestFromExamplesWithZ3(t *testing.T) {
	z3, err := solver.NewZ3("", 30*time.Second, nil)
	if err != nil {
		t.Skip("z3 not found on PATH")
	}
	opts := DefaultOptions(z3)

	got, err := FromExamples(context.Background(), linearProgram, linearExamples, wp.True, wp.True, wp.True, opts)
	require.NoError(t, err)
	assert.Equal(t, "c1 := 2 ; c2 := 10 ; a := c1 * x ; b := c2 - 10 ; a := a + b ; c := x * 2 ; if a != c then d := 0 else d := 1", got)

	program := "c1 := ?? ; c2 := 4 * ?? ; a := c1 * x ; b := c2 - 10 ; a := a + b ; c := x * 2 ; if a != c then d := 0 else d := 1"
	_, err = FromExamples(context.Background(), program, linearExamples, wp.True, wp.True, wp.True, opts)
	assert.ErrorIs(t, err, ErrProgramNotVerified)
}
