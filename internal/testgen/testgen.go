// Package testgen spot-checks hole-free programs by running them on
// generated inputs.
package testgen

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/interp"
	"github.com/lhaig/whilesynth/internal/smt"
	"github.com/lhaig/whilesynth/internal/wp"
)

// DefaultSamples is the number of inputs tried by Check.
const DefaultSamples = 200

// ErrHoles is returned for programs that still contain ??.
var ErrHoles = errors.New("program has unfilled holes")

// Options tunes a spot check.
type Options struct {
	Samples  int
	MaxSteps int
}

// Failure describes the first input that broke the program.
type Failure struct {
	Input  interp.State
	Output interp.State
	Reason string
}

func (f *Failure) String() string {
	return fmt.Sprintf("input %s: %s", formatState(f.Input), f.Reason)
}

// Report summarizes a spot check. Skipped counts inputs rejected by the
// precondition or stopped by the step limit.
type Report struct {
	Checked int
	Skipped int
	Failure *Failure
}

// Passed reports whether no input failed.
func (r *Report) Passed() bool { return r.Failure == nil }

// Check runs stmt on generated inputs that satisfy pre and checks that
// every assertion and post hold. A nil condition means true.
func Check(stmt ast.Statement, pre, post ast.Expression, opts Options) (*Report, error) {
	if ast.CountHoles(stmt) > 0 {
		return nil, errors.WithStack(ErrHoles)
	}
	samples := opts.Samples
	if samples <= 0 {
		samples = DefaultSamples
	}

	vars := inputVars(stmt, pre, post)
	constraints := AnalyzeConstraints(vars, pre)
	values := make(map[string][]int64, len(vars))
	for _, v := range vars {
		values[v] = GenerateValues(constraints[v])
	}

	report := &Report{}
	seenInput := make(map[string]bool)
	rng := uint64(0x8a5cd789635d2dff)
	for i := 0; i < samples; i++ {
		in := make(interp.State, len(vars))
		for j, v := range vars {
			vs := values[v]
			if i < len(vs) {
				// walk the boundary values first, staggered per variable
				in[v] = vs[(i+j)%len(vs)]
				continue
			}
			rng = xorshift64(rng)
			in[v] = vs[rng%uint64(len(vs))]
		}
		key := formatState(in)
		if seenInput[key] {
			continue
		}
		seenInput[key] = true

		ok, err := holds(pre, in)
		if err != nil {
			return nil, errors.Wrap(err, "precondition")
		}
		if !ok {
			report.Skipped++
			continue
		}

		out, err := interp.Run(stmt, in, interp.Options{MaxSteps: opts.MaxSteps})
		switch {
		case errors.Is(err, interp.ErrStepLimit):
			report.Skipped++
			continue
		case err != nil:
			report.Failure = &Failure{Input: in, Output: out, Reason: err.Error()}
			return report, nil
		}

		report.Checked++
		ok, err = holds(post, out)
		if err != nil {
			return nil, errors.Wrap(err, "postcondition")
		}
		if !ok {
			report.Failure = &Failure{Input: in, Output: out, Reason: "postcondition does not hold, final state " + formatState(out)}
			return report, nil
		}
	}
	return report, nil
}

// inputVars returns the program variables plus any names the conditions
// mention, sorted.
func inputVars(stmt ast.Statement, conds ...ast.Expression) []string {
	seen := make(map[string]bool)
	for _, v := range ast.Vars(stmt) {
		seen[v] = true
	}
	for _, c := range conds {
		if c == nil {
			continue
		}
		for _, v := range ast.Vars(c) {
			seen[v] = true
		}
	}
	names := make([]string, 0, len(seen))
	for v := range seen {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}

// holds evaluates a condition on a concrete state.
func holds(cond ast.Expression, s interp.State) (bool, error) {
	if cond == nil {
		return true, nil
	}
	env := make(wp.Env, len(s))
	for name, v := range s {
		env[name] = smt.IntVal(v)
	}
	eval := &smt.Evaluator{}
	return eval.EvalBool(wp.EvalCondition(cond, env), nil)
}

func formatState(s interp.State) string {
	return smt.Model(s).String()
}
