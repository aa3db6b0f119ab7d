package wp

import (
	"fmt"
	"strings"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/parser"
	"github.com/lhaig/whilesynth/internal/smt"
)

// Predicate is a formula over program state: given the terms currently
// bound to the program variables it yields a boolean term.
type Predicate interface {
	Apply(env Env) *smt.Term
}

// Func adapts a function to Predicate.
type Func func(env Env) *smt.Term

func (f Func) Apply(env Env) *smt.Term { return f(env) }

// Const is a predicate that ignores the state.
type Const bool

func (c Const) Apply(Env) *smt.Term { return smt.Bool(bool(c)) }
func (c Const) String() string      { return fmt.Sprintf("%t", bool(c)) }

var (
	True  Predicate = Const(true)
	False Predicate = Const(false)
)

// And is the conjunction of its members; empty is true.
type And []Predicate

func (a And) Apply(env Env) *smt.Term {
	terms := make([]*smt.Term, len(a))
	for i, p := range a {
		terms[i] = p.Apply(env)
	}
	return smt.And(terms...)
}

func (a And) String() string { return join(a, " and ", "true") }

// Or is the disjunction of its members; empty is false.
type Or []Predicate

func (o Or) Apply(env Env) *smt.Term {
	terms := make([]*smt.Term, len(o))
	for i, p := range o {
		terms[i] = p.Apply(env)
	}
	return smt.Or(terms...)
}

func (o Or) String() string { return join(o, " or ", "false") }

// Not negates P.
type Not struct{ P Predicate }

func (n Not) Apply(env Env) *smt.Term { return smt.Not(n.P.Apply(env)) }
func (n Not) String() string          { return fmt.Sprintf("not (%v)", n.P) }

// Implies is If => Then.
type Implies struct{ If, Then Predicate }

func (i Implies) Apply(env Env) *smt.Term { return smt.Implies(i.If.Apply(env), i.Then.Apply(env)) }
func (i Implies) String() string          { return fmt.Sprintf("(%v) implies (%v)", i.If, i.Then) }

// Equals states Var = Value.
type Equals struct {
	Var   string
	Value int64
}

func (e Equals) Apply(env Env) *smt.Term { return smt.Eq(lookup(env, e.Var), smt.IntVal(e.Value)) }
func (e Equals) String() string          { return fmt.Sprintf("%s = %d", e.Var, e.Value) }

// Within states Lower <= Var <= Upper.
type Within struct {
	Var          string
	Lower, Upper int64
}

func (w Within) Apply(env Env) *smt.Term {
	v := lookup(env, w.Var)
	return smt.And(smt.Ge(v, smt.IntVal(w.Lower)), smt.Le(v, smt.IntVal(w.Upper)))
}

func (w Within) String() string { return fmt.Sprintf("%d <= %s <= %d", w.Lower, w.Var, w.Upper) }

// Condition is a predicate written in the condition language, such as
// "x >= 0 and y = x + 1".
type Condition struct {
	Text string
	Expr ast.Expression
}

// ParseCondition compiles condition text. Blank text means true.
func ParseCondition(text string) (*Condition, error) {
	if strings.TrimSpace(text) == "" {
		text = "true"
	}
	expr, err := parser.ParseCondition(text)
	if err != nil {
		return nil, err
	}
	return &Condition{Text: text, Expr: expr}, nil
}

// MustCondition is ParseCondition for literals known to be valid.
func MustCondition(text string) *Condition {
	c, err := ParseCondition(text)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Condition) Apply(env Env) *smt.Term { return EvalCondition(c.Expr, env) }
func (c *Condition) String() string          { return c.Text }

func lookup(env Env, name string) *smt.Term {
	if t, ok := env[name]; ok {
		return t
	}
	return smt.Int(name)
}

func join(preds []Predicate, sep, empty string) string {
	if len(preds) == 0 {
		return empty
	}
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = fmt.Sprintf("(%v)", p)
	}
	return strings.Join(parts, sep)
}
