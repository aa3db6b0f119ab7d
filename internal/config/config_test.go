package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhaig/whilesynth/internal/parser"
	"github.com/lhaig/whilesynth/internal/solver/solvertest"
	"github.com/lhaig/whilesynth/internal/synth"
)

func TestLoadLoop(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "loop.yaml"))
	require.NoError(t, err)

	assert.Contains(t, p.Program, "while x < t do")
	assert.Equal(t, "true", p.Pre)
	assert.Equal(t, "true", p.Post)
	assert.Equal(t, "true", p.Invariant)
	assert.Equal(t, 6, p.Unroll)
	assert.Equal(t, Bounds{Lower: -10, Upper: 10, Step: 10}, p.Bounds)
	assert.Equal(t, 5*time.Second, p.Solver.Timeout.Duration)
	assert.Empty(t, p.Solver.Path)
	assert.Empty(t, p.Examples)
}

func TestLoadExamples(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "examples.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "x >= 0", p.Pre)
	assert.Equal(t, synth.DefaultUnrollBound, p.Unroll)
	assert.Equal(t, Bounds{Lower: synth.DefaultLower, Upper: synth.DefaultUpper, Step: synth.DefaultWidenStep}, p.Bounds)
	assert.Equal(t, "/usr/local/bin/z3", p.Solver.Path)
	assert.Equal(t, 90*time.Second, p.Solver.Timeout.Duration)

	require.Len(t, p.Examples, 2)
	assert.Equal(t, map[string]int64{"x": 1}, p.Examples[1].Inputs)
	assert.Equal(t, map[string]int64{"x": 12}, p.Examples[1].Outputs)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading problem")
}

func TestParseDefaults(t *testing.T) {
	p, err := Parse([]byte(`program: "x := ??"` + "\npre: \"\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "true", p.Pre)
	assert.Equal(t, synth.DefaultUnrollBound, p.Unroll)
	assert.Equal(t, 30*time.Second, p.Solver.Timeout.Duration)
}

func TestParseKeepsDefaultsForPartialBounds(t *testing.T) {
	p, err := Parse([]byte("program: skip\nbounds: {lower: -5}\n"))
	require.NoError(t, err)
	assert.Equal(t, Bounds{Lower: -5, Upper: synth.DefaultUpper, Step: synth.DefaultWidenStep}, p.Bounds)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		invalid bool
		want    string
	}{
		{"empty file", "", true, "empty problem file"},
		{"no program", "pre: x > 0\n", true, "program is empty"},
		{"unroll", "program: skip\nunroll: 0\n", true, "unroll must be at least 1"},
		{"inverted bounds", "program: skip\nbounds: {lower: 5, upper: 1}\n", true, "lower 5 is above upper 1"},
		{"zero step", "program: skip\nbounds: {step: 0}\n", true, "step must be positive"},
		{"empty example", "program: skip\nexamples:\n  - {}\n", true, "example 0"},
		{"unknown key", "program: skip\nloops: 3\n", false, "field loops not found"},
		{"bad timeout", "program: skip\nsolver: {timeout: soon}\n", false, "timeout"},
		{"bad example value", "program: skip\nexamples:\n  - in: {x: one}\n", false, "decoding problem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidProblem)
			}
		})
	}
}

func TestConditions(t *testing.T) {
	p := Default()
	p.Program = "skip"
	p.Pre = "x > 0 and y > 0"
	p.Post = "Implies(x > 1, y > 1)"

	pre, post, inv, err := p.Conditions()
	require.NoError(t, err)
	assert.Equal(t, "x > 0 and y > 0", pre.String())
	assert.Equal(t, "Implies(x > 1, y > 1)", post.String())
	assert.Equal(t, "true", inv.String())

	p.Invariant = "x >"
	_, _, _, err = p.Conditions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invariant")
}

func TestOptions(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "loop.yaml"))
	require.NoError(t, err)

	s := &solvertest.Enumerator{}
	opts := p.Options(s, nil)
	require.NoError(t, opts.Validate())
	assert.Equal(t, 6, opts.UnrollBound)
	assert.Equal(t, int64(-10), opts.Lower)
	assert.Equal(t, int64(10), opts.Upper)
	assert.Equal(t, int64(10), opts.WidenStep)
	assert.Same(t, s, opts.Solver)
}

func TestLoopProblemSynthesizes(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "loop.yaml"))
	require.NoError(t, err)
	pre, post, inv, err := p.Conditions()
	require.NoError(t, err)

	got, err := synth.Program(context.Background(), p.Program, pre, post, inv, p.Options(&solvertest.Enumerator{}, nil))
	require.NoError(t, err)
	assert.Contains(t, got, "t := 5")
}

func TestDurationMarshal(t *testing.T) {
	out, err := Duration{90 * time.Second}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", out)
}

func TestBundledExamples(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			p, err := Load(path)
			require.NoError(t, err)
			_, err = parser.Parse(p.Program)
			require.NoError(t, err)
			_, _, _, err = p.Conditions()
			require.NoError(t, err)
		})
	}
}
