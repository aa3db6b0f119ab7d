// Package solvertest provides a solver that needs no external binary.
package solvertest

import (
	"context"

	"github.com/lhaig/whilesynth/internal/smt"
	"github.com/lhaig/whilesynth/internal/solver"
)

// DefaultRange is the half-width of the search domain.
const DefaultRange = 12

// Enumerator decides queries by brute force over the integers in
// [-Range, Range]. Variables pinned by a top-level "v = constant" conjunct
// are not enumerated. Unsat only means "no model inside the domain", and
// quantifiers are checked over the same domain.
type Enumerator struct {
	Range int64
	// Queries counts the Check calls made so far.
	Queries int
	// Scripts records the rendered script of every query.
	Scripts []string
}

// Check implements solver.Solver.
func (e *Enumerator) Check(ctx context.Context, q *smt.Query) (*solver.Outcome, error) {
	e.Queries++
	e.Scripts = append(e.Scripts, q.Script())

	domain := e.domain()
	eval := &smt.Evaluator{Domain: domain}
	formula := q.Formula()

	pinned, consistent := pins(formula)
	if !consistent {
		return &solver.Outcome{Result: solver.Unsat}, nil
	}

	var free []string
	assignment := make(map[string]int64)
	for _, name := range q.FreeVars() {
		if v, ok := pinned[name]; ok {
			assignment[name] = v
			continue
		}
		free = append(free, name)
	}

	idx := make([]int, len(free))
	for steps := 0; ; steps++ {
		if steps%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for i, name := range free {
			assignment[name] = domain[idx[i]]
		}
		ok, err := eval.EvalBool(formula, assignment)
		if err != nil {
			return nil, err
		}
		if ok {
			return &solver.Outcome{Result: solver.Sat, Model: smt.Model(assignment).Clone()}, nil
		}

		// the last variable moves fastest
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(domain) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return &solver.Outcome{Result: solver.Unsat}, nil
		}
	}
}

// domain orders values by magnitude: 0, 1, -1, 2, -2, ...
func (e *Enumerator) domain() []int64 {
	r := e.Range
	if r <= 0 {
		r = DefaultRange
	}
	values := []int64{0}
	for v := int64(1); v <= r; v++ {
		values = append(values, v, -v)
	}
	return values
}

// pins collects var = constant facts implied by the top-level structure of
// t. It reports false when two facts contradict each other.
func pins(t *smt.Term) (map[string]int64, bool) {
	out := make(map[string]int64)
	for _, c := range conjuncts(t, false) {
		if c.Kind() != smt.KindApp || c.Op() != smt.OpEq {
			continue
		}
		a, b := c.Args()[0], c.Args()[1]
		if a.Kind() == smt.KindInt {
			a, b = b, a
		}
		if a.Kind() != smt.KindVar || b.Kind() != smt.KindInt {
			continue
		}
		if prev, ok := out[a.Name()]; ok && prev != b.Value() {
			return nil, false
		}
		out[a.Name()] = b.Value()
	}
	return out, true
}

func conjuncts(t *smt.Term, negated bool) []*smt.Term {
	if t.Kind() != smt.KindApp {
		if negated {
			return []*smt.Term{smt.Not(t)}
		}
		return []*smt.Term{t}
	}
	args := t.Args()
	switch {
	case !negated && t.Op() == smt.OpAnd:
		var out []*smt.Term
		for _, a := range args {
			out = append(out, conjuncts(a, false)...)
		}
		return out
	case negated && t.Op() == smt.OpOr:
		var out []*smt.Term
		for _, a := range args {
			out = append(out, conjuncts(a, true)...)
		}
		return out
	case negated && t.Op() == smt.OpImplies:
		return append(conjuncts(args[0], false), conjuncts(args[1], true)...)
	case t.Op() == smt.OpNot:
		return conjuncts(args[0], !negated)
	}
	if negated {
		return []*smt.Term{smt.Not(t)}
	}
	return []*smt.Term{t}
}
