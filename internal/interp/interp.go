// Package interp executes While programs on concrete integers.
package interp

import (
	"github.com/pkg/errors"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/lexer"
	"github.com/lhaig/whilesynth/internal/smt"
)

// DefaultMaxSteps bounds the statements executed by one Run.
const DefaultMaxSteps = 100000

var (
	ErrAssertionFailed = errors.New("assertion failed")
	ErrStepLimit       = errors.New("step limit exceeded")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrUnbound         = errors.New("variable has no value")
)

// State maps variables to values.
type State map[string]int64

// Clone returns a copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Options tunes a run.
type Options struct {
	MaxSteps int
}

type machine struct {
	state State
	steps int
	max   int
}

// Run executes stmt starting from a copy of in and returns the final state.
// Unrolled iterations behave like plain conditionals. Division follows the
// solver: the remainder is never negative.
func Run(stmt ast.Statement, in State, opts Options) (State, error) {
	max := opts.MaxSteps
	if max <= 0 {
		max = DefaultMaxSteps
	}
	m := &machine{state: in.Clone(), max: max}
	if err := m.exec(stmt); err != nil {
		return m.state, err
	}
	return m.state, nil
}

func (m *machine) tick() error {
	m.steps++
	if m.steps > m.max {
		return errors.Wrapf(ErrStepLimit, "after %d steps", m.max)
	}
	return nil
}

func (m *machine) exec(stmt ast.Statement) error {
	if err := m.tick(); err != nil {
		return err
	}
	switch s := stmt.(type) {
	case *ast.SkipStmt:
		return nil
	case *ast.AssignStmt:
		v, err := m.value(s.Value)
		if err != nil {
			return err
		}
		m.state[s.Name] = v
		return nil
	case *ast.SeqStmt:
		if err := m.exec(s.First); err != nil {
			return err
		}
		return m.exec(s.Second)
	case *ast.IfStmt:
		return m.branch(s.Cond, s.Then, s.Else)
	case *ast.IfUnrolledStmt:
		return m.branch(s.Cond, s.Then, s.Else)
	case *ast.WhileStmt:
		for {
			ok, err := m.truth(s.Cond)
			if err != nil || !ok {
				return err
			}
			if err := m.exec(s.Body); err != nil {
				return err
			}
		}
	case *ast.AssertStmt:
		ok, err := m.truth(s.Cond)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(ErrAssertionFailed, "line %d:%d: assert %s", s.Line, s.Column, ast.Text(s.Cond))
		}
		return nil
	}
	return errors.Errorf("unknown statement %T", stmt)
}

func (m *machine) branch(cond ast.Expression, then, els ast.Statement) error {
	ok, err := m.truth(cond)
	if err != nil {
		return err
	}
	if ok {
		return m.exec(then)
	}
	return m.exec(els)
}

func (m *machine) truth(expr ast.Expression) (bool, error) {
	v, err := m.eval(expr)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.Errorf("expected a condition, got %s", ast.Text(expr))
	}
	return b, nil
}

func (m *machine) value(expr ast.Expression) (int64, error) {
	v, err := m.eval(expr)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int64)
	if !ok {
		return 0, errors.Errorf("expected an integer, got %s", ast.Text(expr))
	}
	return n, nil
}

func (m *machine) eval(expr ast.Expression) (interface{}, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return e.Value, nil
	case *ast.Identifier:
		v, ok := m.state[e.Name]
		if !ok {
			return nil, errors.Wrap(ErrUnbound, e.Name)
		}
		return v, nil
	case *ast.Hole:
		return nil, errors.Errorf("line %d:%d: cannot execute a program with holes", e.Line, e.Column)
	case *ast.BinaryExpr:
		if e.Op == lexer.EQ || e.Op == lexer.NEQ {
			l, err := m.eval(e.Left)
			if err != nil {
				return nil, err
			}
			r, err := m.eval(e.Right)
			if err != nil {
				return nil, err
			}
			return (l == r) == (e.Op == lexer.EQ), nil
		}
		l, err := m.value(e.Left)
		if err != nil {
			return nil, err
		}
		r, err := m.value(e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case lexer.PLUS:
			return l + r, nil
		case lexer.MINUS:
			return l - r, nil
		case lexer.STAR:
			return l * r, nil
		case lexer.SLASH:
			if r == 0 {
				return nil, errors.Wrapf(ErrDivisionByZero, "line %d:%d", e.Line, e.Column)
			}
			return smt.EuclidDiv(l, r), nil
		case lexer.LT:
			return l < r, nil
		case lexer.GT:
			return l > r, nil
		case lexer.LEQ:
			return l <= r, nil
		case lexer.GEQ:
			return l >= r, nil
		}
	}
	return nil, errors.Errorf("cannot evaluate %s", ast.Text(expr))
}
