package synth

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lhaig/whilesynth/internal/holes"
	"github.com/lhaig/whilesynth/internal/smt"
	"github.com/lhaig/whilesynth/internal/unroll"
	"github.com/lhaig/whilesynth/internal/wp"
)

// Example is one input/output pair. Variables missing from either map are
// unconstrained.
type Example struct {
	Inputs  map[string]int64 `yaml:"in"`
	Outputs map[string]int64 `yaml:"out"`
}

// ExampleConditions returns the pre- and postcondition of one example.
func ExampleConditions(ex Example) (pre, post wp.Predicate) {
	return bindings(ex.Inputs), bindings(ex.Outputs)
}

func bindings(values map[string]int64) wp.And {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(wp.And, 0, len(names))
	for _, name := range names {
		out = append(out, wp.Equals{Var: name, Value: values[name]})
	}
	return out
}

// exampleVar names the copy of a program variable used by example i.
func exampleVar(i int) func(string) string {
	return func(name string) string { return fmt.Sprintf("%s!ex%d", name, i) }
}

// exampleNames returns every name one example needs its own copy of: the
// program variables, the example's bindings and the free names of the
// conditions, sorted.
func exampleNames(vars []string, ex Example, conds ...wp.Predicate) []string {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		seen[v] = true
	}
	for _, m := range []map[string]int64{ex.Inputs, ex.Outputs} {
		for name := range m {
			seen[name] = true
		}
	}
	for _, c := range conds {
		for _, name := range smt.FreeVars(c.Apply(wp.Env{})) {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromExamples synthesizes hole values for text so that every example
// holds. All examples share one assignment and are solved in a single
// query, each over its own copy of the program variables.
func FromExamples(ctx context.Context, text string, examples []Example, pre, post, inv wp.Predicate, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	sketch, err := holes.Process(text)
	if err != nil {
		return "", err
	}
	if len(examples) == 0 {
		return "", errors.WithStack(ErrNoExamplesProvided)
	}

	log := opts.logger().WithFields(logrus.Fields{
		"examples": len(examples),
		"holes":    len(sketch.Holes),
	})

	unrolled := unroll.Unroll(sketch.AST, opts.UnrollBound)
	t := wp.New(unrolled)
	terms := make([]*smt.Term, 0, len(examples))
	for i, ex := range examples {
		env := wp.RenamedEnv(exampleNames(t.Vars(), ex, pre, post, inv), exampleVar(i), holes.IsHole)
		exPre, exPost := ExampleConditions(ex)
		terms = append(terms, smt.And(
			exPre.Apply(env),
			pre.Apply(env),
			t.WP(unrolled, wp.And{exPost, post}, inv).Apply(env),
		))
	}

	found, ok, err := newSearch(sketch.Holes, opts, log).find(ctx, smt.And(terms...))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.WithStack(ErrProgramNotVerified)
	}
	log.WithField("assignment", found).Info("program synthesized from examples")
	return holes.Substitute(sketch.Text, found), nil
}
