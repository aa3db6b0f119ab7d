// Package smt builds integer/boolean formulas, renders them as SMT-LIB and
// evaluates them on concrete assignments.
package smt

import (
	"sort"
	"strconv"
	"strings"
)

// Kind classifies a term node.
type Kind int

const (
	KindVar Kind = iota
	KindInt
	KindBool
	KindApp
	KindForAll
)

// Sort is the SMT sort of a term.
type Sort int

const (
	SortInt Sort = iota
	SortBool
)

func (s Sort) String() string {
	if s == SortBool {
		return "Bool"
	}
	return "Int"
}

// Operators, spelled as in SMT-LIB
const (
	OpAdd      = "+"
	OpSub      = "-"
	OpNeg      = "neg"
	OpMul      = "*"
	OpDiv      = "div"
	OpEq       = "="
	OpDistinct = "distinct"
	OpLt       = "<"
	OpLe       = "<="
	OpGt       = ">"
	OpGe       = ">="
	OpNot      = "not"
	OpAnd      = "and"
	OpOr       = "or"
	OpImplies  = "=>"
)

// Term is an immutable formula node. Terms are built only through the
// constructors in this package and may be shared freely.
type Term struct {
	kind  Kind
	name  string
	value int64
	truth bool
	op    string
	args  []*Term
	bound []string
}

var (
	trueTerm  = &Term{kind: KindBool, truth: true}
	falseTerm = &Term{kind: KindBool, truth: false}
)

// Int returns an integer constant symbol.
func Int(name string) *Term { return &Term{kind: KindVar, name: name} }

// IntVal returns an integer literal.
func IntVal(v int64) *Term { return &Term{kind: KindInt, value: v} }

// Bool returns the boolean literal b.
func Bool(b bool) *Term {
	if b {
		return trueTerm
	}
	return falseTerm
}

// True and False are the boolean literals.
func True() *Term  { return trueTerm }
func False() *Term { return falseTerm }

func app(op string, args ...*Term) *Term {
	return &Term{kind: KindApp, op: op, args: args}
}

func Add(a, b *Term) *Term { return app(OpAdd, a, b) }
func Sub(a, b *Term) *Term { return app(OpSub, a, b) }
func Mul(a, b *Term) *Term { return app(OpMul, a, b) }

// Div is SMT-LIB integer division (see EuclidDiv).
func Div(a, b *Term) *Term { return app(OpDiv, a, b) }

// Neg is arithmetic negation.
func Neg(a *Term) *Term {
	if a.kind == KindInt {
		return IntVal(-a.value)
	}
	return app(OpNeg, a)
}

func Eq(a, b *Term) *Term       { return app(OpEq, a, b) }
func Distinct(a, b *Term) *Term { return app(OpDistinct, a, b) }
func Lt(a, b *Term) *Term       { return app(OpLt, a, b) }
func Le(a, b *Term) *Term       { return app(OpLe, a, b) }
func Gt(a, b *Term) *Term       { return app(OpGt, a, b) }
func Ge(a, b *Term) *Term       { return app(OpGe, a, b) }

// And conjoins terms, dropping true operands. An empty conjunction is true.
func And(terms ...*Term) *Term {
	kept := make([]*Term, 0, len(terms))
	for _, t := range terms {
		if t.kind == KindBool {
			if !t.truth {
				return falseTerm
			}
			continue
		}
		kept = append(kept, t)
	}
	switch len(kept) {
	case 0:
		return trueTerm
	case 1:
		return kept[0]
	}
	return app(OpAnd, kept...)
}

// Or disjoins terms, dropping false operands. An empty disjunction is false.
func Or(terms ...*Term) *Term {
	kept := make([]*Term, 0, len(terms))
	for _, t := range terms {
		if t.kind == KindBool {
			if t.truth {
				return trueTerm
			}
			continue
		}
		kept = append(kept, t)
	}
	switch len(kept) {
	case 0:
		return falseTerm
	case 1:
		return kept[0]
	}
	return app(OpOr, kept...)
}

// Not negates t.
func Not(t *Term) *Term {
	if t.kind == KindBool {
		return Bool(!t.truth)
	}
	if t.kind == KindApp && t.op == OpNot {
		return t.args[0]
	}
	return app(OpNot, t)
}

// Implies returns a => b.
func Implies(a, b *Term) *Term {
	switch {
	case a.kind == KindBool && a.truth:
		return b
	case a.kind == KindBool && !a.truth:
		return trueTerm
	case b.kind == KindBool && b.truth:
		return trueTerm
	}
	return app(OpImplies, a, b)
}

// ForAll universally quantifies body over the named integer variables.
// Occurrences of those names inside body refer to the bound variables.
func ForAll(vars []string, body *Term) *Term {
	if len(vars) == 0 || body.kind == KindBool {
		return body
	}
	bound := append([]string(nil), vars...)
	return &Term{kind: KindForAll, bound: bound, args: []*Term{body}}
}

// Kind returns the node kind.
func (t *Term) Kind() Kind { return t.kind }

// Name returns the symbol of a variable.
func (t *Term) Name() string { return t.name }

// Value returns the value of an integer literal.
func (t *Term) Value() int64 { return t.value }

// Truth returns the value of a boolean literal.
func (t *Term) Truth() bool { return t.truth }

// Op returns the operator of an application.
func (t *Term) Op() string { return t.op }

// Args returns the operands of an application, or the body of a quantifier.
func (t *Term) Args() []*Term { return t.args }

// Bound returns the variables bound by a quantifier.
func (t *Term) Bound() []string { return t.bound }

// Sort returns the sort of t.
func (t *Term) Sort() Sort {
	switch t.kind {
	case KindVar, KindInt:
		return SortInt
	case KindApp:
		switch t.op {
		case OpAdd, OpSub, OpNeg, OpMul, OpDiv:
			return SortInt
		}
	}
	return SortBool
}

// IsTrue reports whether t is the literal true.
func (t *Term) IsTrue() bool { return t.kind == KindBool && t.truth }

// IsFalse reports whether t is the literal false.
func (t *Term) IsFalse() bool { return t.kind == KindBool && !t.truth }

// FreeVars returns the sorted names of variables not bound by a quantifier.
func FreeVars(terms ...*Term) []string {
	seen := make(map[string]bool)
	for _, t := range terms {
		collectFree(t, nil, seen)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectFree(t *Term, bound map[string]bool, seen map[string]bool) {
	switch t.kind {
	case KindVar:
		if !bound[t.name] {
			seen[t.name] = true
		}
	case KindApp:
		for _, a := range t.args {
			collectFree(a, bound, seen)
		}
	case KindForAll:
		inner := make(map[string]bool, len(bound)+len(t.bound))
		for k := range bound {
			inner[k] = true
		}
		for _, v := range t.bound {
			inner[v] = true
		}
		collectFree(t.args[0], inner, seen)
	}
}

// String renders t in SMT-LIB syntax.
func (t *Term) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *Term) write(sb *strings.Builder) {
	switch t.kind {
	case KindVar:
		sb.WriteString(Symbol(t.name))
	case KindInt:
		if t.value < 0 {
			sb.WriteString("(- ")
			sb.WriteString(strconv.FormatUint(uint64(-(t.value+1))+1, 10))
			sb.WriteString(")")
		} else {
			sb.WriteString(strconv.FormatInt(t.value, 10))
		}
	case KindBool:
		if t.truth {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindApp:
		sb.WriteString("(")
		if t.op == OpNeg {
			sb.WriteString("-")
		} else {
			sb.WriteString(t.op)
		}
		for _, a := range t.args {
			sb.WriteString(" ")
			a.write(sb)
		}
		sb.WriteString(")")
	case KindForAll:
		sb.WriteString("(forall (")
		for i, v := range t.bound {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString("(")
			sb.WriteString(Symbol(v))
			sb.WriteString(" Int)")
		}
		sb.WriteString(") ")
		t.args[0].write(sb)
		sb.WriteString(")")
	}
}

// Symbol quotes name with |...| unless it is a simple SMT-LIB symbol.
func Symbol(name string) string {
	if isSimpleSymbol(name) {
		return name
	}
	return "|" + strings.ReplaceAll(name, "|", "") + "|"
}

// reserved holds SMT-LIB keywords and core functions a variable may not
// shadow unquoted.
var reserved = map[string]bool{
	"let": true, "forall": true, "exists": true, "match": true, "par": true,
	"as": true, "_": true, "!": true, "true": true, "false": true,
	"and": true, "or": true, "not": true, "xor": true, "ite": true,
	"distinct": true, "div": true, "mod": true, "abs": true,
	"Int": true, "Bool": true, "assert": true, "model": true,
}

func isSimpleSymbol(name string) bool {
	if name == "" || (name[0] >= '0' && name[0] <= '9') || reserved[name] {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.IndexByte("~!@$%^&*_-+=<>.?/", c) >= 0:
		default:
			return false
		}
	}
	return true
}
