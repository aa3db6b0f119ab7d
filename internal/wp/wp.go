package wp

import (
	"fmt"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/smt"
)

// Transformer computes weakest preconditions for one program. Loops
// quantify over every variable of that program.
type Transformer struct {
	vars []string
}

// New creates a transformer for prog.
func New(prog ast.Statement) *Transformer {
	return &Transformer{vars: ast.Vars(prog)}
}

// Vars returns the program variables, sorted.
func (t *Transformer) Vars() []string { return t.vars }

// Env returns the identity environment over the program variables.
func (t *Transformer) Env() Env { return NewEnv(t.vars) }

// WP returns the weakest precondition of stmt with respect to q, using inv
// as the invariant of loops and unrolled loop iterations.
func (t *Transformer) WP(stmt ast.Statement, q, inv Predicate) Predicate {
	switch s := stmt.(type) {
	case *ast.SkipStmt:
		return q

	case *ast.AssignStmt:
		return Func(func(env Env) *smt.Term {
			return q.Apply(env.With(s.Name, Eval(s.Value, env)))
		})

	case *ast.SeqStmt:
		return t.WP(s.First, t.WP(s.Second, q, inv), inv)

	case *ast.IfStmt:
		then, els := t.WP(s.Then, q, inv), t.WP(s.Else, q, inv)
		return Func(func(env Env) *smt.Term {
			return branch(Eval(s.Cond, env), then.Apply(env), els.Apply(env))
		})

	case *ast.IfUnrolledStmt:
		then, els := t.WP(s.Then, q, inv), t.WP(s.Else, q, inv)
		return Func(func(env Env) *smt.Term {
			return smt.And(inv.Apply(env), branch(Eval(s.Cond, env), then.Apply(env), els.Apply(env)))
		})

	case *ast.WhileStmt:
		body := t.WP(s.Body, inv, inv)
		return Func(func(env Env) *smt.Term {
			base := NewEnv(t.vars)
			c := Eval(s.Cond, base)
			invBase := inv.Apply(base)
			step := smt.Implies(smt.And(invBase, c), body.Apply(base))
			exit := smt.Implies(smt.And(invBase, smt.Not(c)), q.Apply(base))
			return smt.And(inv.Apply(env), smt.ForAll(t.vars, smt.And(step, exit)))
		})

	case *ast.AssertStmt:
		return Func(func(env Env) *smt.Term {
			return smt.And(Eval(s.Cond, env), q.Apply(env))
		})
	}
	panic(fmt.Sprintf("wp: unknown statement %T", stmt))
}

func branch(c, then, els *smt.Term) *smt.Term {
	return smt.Or(smt.And(c, then), smt.And(smt.Not(c), els))
}
