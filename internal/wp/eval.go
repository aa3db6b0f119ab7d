package wp

import (
	"fmt"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/lexer"
	"github.com/lhaig/whilesynth/internal/smt"
)

// Eval translates a program expression into a term over env. Every
// identifier must be bound in env: the environment is built from the
// variables of the same program, so a miss is a bug and panics.
func Eval(expr ast.Expression, env Env) *smt.Term {
	return evaluator{env: env, strict: true}.eval(expr)
}

// EvalCondition translates a condition-language expression. Names missing
// from env become free integer constants of the same name.
func EvalCondition(expr ast.Expression, env Env) *smt.Term {
	return evaluator{env: env}.eval(expr)
}

type evaluator struct {
	env    Env
	strict bool
}

func (e evaluator) eval(expr ast.Expression) *smt.Term {
	switch n := expr.(type) {
	case *ast.Identifier:
		if t, ok := e.env[n.Name]; ok {
			return t
		}
		if e.strict {
			panic(fmt.Sprintf("wp: variable %q is not in the environment", n.Name))
		}
		return smt.Int(n.Name)
	case *ast.IntLit:
		return smt.IntVal(n.Value)
	case *ast.BoolLit:
		return smt.Bool(n.Value)
	case *ast.UnaryExpr:
		operand := e.eval(n.Operand)
		if n.Op == lexer.NOT {
			return smt.Not(operand)
		}
		return smt.Neg(operand)
	case *ast.BinaryExpr:
		return binary(n.Op, e.eval(n.Left), e.eval(n.Right))
	case *ast.Hole:
		panic("wp: unnamed hole; run hole processing first")
	}
	panic(fmt.Sprintf("wp: unknown expression %T", expr))
}

func binary(op lexer.TokenType, l, r *smt.Term) *smt.Term {
	switch op {
	case lexer.PLUS:
		return smt.Add(l, r)
	case lexer.MINUS:
		return smt.Sub(l, r)
	case lexer.STAR:
		return smt.Mul(l, r)
	case lexer.SLASH:
		return smt.Div(l, r)
	case lexer.EQ:
		return smt.Eq(l, r)
	case lexer.NEQ:
		return smt.Distinct(l, r)
	case lexer.LT:
		return smt.Lt(l, r)
	case lexer.GT:
		return smt.Gt(l, r)
	case lexer.LEQ:
		return smt.Le(l, r)
	case lexer.GEQ:
		return smt.Ge(l, r)
	case lexer.AND:
		return smt.And(l, r)
	case lexer.OR:
		return smt.Or(l, r)
	case lexer.IMPLIES:
		return smt.Implies(l, r)
	}
	panic(fmt.Sprintf("wp: unknown operator %s", op))
}
