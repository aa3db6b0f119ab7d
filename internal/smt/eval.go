package smt

import (
	"github.com/pkg/errors"
)

// ErrUnbound is returned when a free variable has no value.
var ErrUnbound = errors.New("unbound variable")

// Evaluator computes the value of a term under a concrete assignment.
// Quantifiers are evaluated by enumerating Domain for every bound variable,
// so a forall is only as strong as the domain is wide.
type Evaluator struct {
	Domain []int64
}

// EuclidDiv is SMT-LIB integer division: the remainder a - b*q is always in
// [0, |b|). Division by zero yields 0.
func EuclidDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	q := a / b
	if a%b < 0 {
		if b > 0 {
			q--
		} else {
			q++
		}
	}
	return q
}

// EvalBool evaluates a boolean term.
func (e *Evaluator) EvalBool(t *Term, assignment map[string]int64) (bool, error) {
	v, err := e.eval(t, assignment)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.Errorf("expected a boolean term, got %s", t)
	}
	return b, nil
}

// EvalInt evaluates an integer term.
func (e *Evaluator) EvalInt(t *Term, assignment map[string]int64) (int64, error) {
	v, err := e.eval(t, assignment)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int64)
	if !ok {
		return 0, errors.Errorf("expected an integer term, got %s", t)
	}
	return n, nil
}

func (e *Evaluator) eval(t *Term, env map[string]int64) (interface{}, error) {
	switch t.kind {
	case KindVar:
		v, ok := env[t.name]
		if !ok {
			return nil, errors.Wrap(ErrUnbound, t.name)
		}
		return v, nil
	case KindInt:
		return t.value, nil
	case KindBool:
		return t.truth, nil
	case KindForAll:
		return e.forAll(t, env)
	}

	switch t.op {
	case OpAnd:
		for _, a := range t.args {
			b, err := e.EvalBool(a, env)
			if err != nil || !b {
				return false, err
			}
		}
		return true, nil
	case OpOr:
		for _, a := range t.args {
			b, err := e.EvalBool(a, env)
			if err != nil || b {
				return b, err
			}
		}
		return false, nil
	case OpNot:
		b, err := e.EvalBool(t.args[0], env)
		return !b, err
	case OpImplies:
		a, err := e.EvalBool(t.args[0], env)
		if err != nil || !a {
			return true, err
		}
		return e.EvalBool(t.args[1], env)
	case OpNeg:
		n, err := e.EvalInt(t.args[0], env)
		return -n, err
	case OpEq, OpDistinct:
		l, err := e.eval(t.args[0], env)
		if err != nil {
			return nil, err
		}
		r, err := e.eval(t.args[1], env)
		if err != nil {
			return nil, err
		}
		return (l == r) == (t.op == OpEq), nil
	}

	l, err := e.EvalInt(t.args[0], env)
	if err != nil {
		return nil, err
	}
	r, err := e.EvalInt(t.args[1], env)
	if err != nil {
		return nil, err
	}
	switch t.op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		return EuclidDiv(l, r), nil
	case OpLt:
		return l < r, nil
	case OpLe:
		return l <= r, nil
	case OpGt:
		return l > r, nil
	case OpGe:
		return l >= r, nil
	}
	return nil, errors.Errorf("unknown operator %q", t.op)
}

func (e *Evaluator) forAll(t *Term, env map[string]int64) (interface{}, error) {
	if len(e.Domain) == 0 {
		return nil, errors.New("cannot evaluate a quantifier without a domain")
	}
	inner := make(map[string]int64, len(env)+len(t.bound))
	for k, v := range env {
		inner[k] = v
	}
	idx := make([]int, len(t.bound))
	for {
		for i, name := range t.bound {
			inner[name] = e.Domain[idx[i]]
		}
		ok, err := e.EvalBool(t.args[0], inner)
		if err != nil || !ok {
			return false, err
		}
		// advance the odometer
		i := 0
		for ; i < len(idx); i++ {
			idx[i]++
			if idx[i] < len(e.Domain) {
				break
			}
			idx[i] = 0
		}
		if i == len(idx) {
			return true, nil
		}
	}
}
