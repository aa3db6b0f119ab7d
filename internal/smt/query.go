package smt

import (
	"strings"
)

// Query is a satisfiability question: are all assertions true together?
// Every free variable is declared as an Int constant.
type Query struct {
	Assertions []*Term
	Comment    string
}

// NewQuery builds a query, dropping literal true assertions.
func NewQuery(comment string, assertions ...*Term) *Query {
	q := &Query{Comment: comment}
	for _, a := range assertions {
		if !a.IsTrue() {
			q.Assertions = append(q.Assertions, a)
		}
	}
	return q
}

// FreeVars returns the constants the query declares.
func (q *Query) FreeVars() []string {
	return FreeVars(q.Assertions...)
}

// Formula returns the conjunction of all assertions.
func (q *Query) Formula() *Term {
	return And(q.Assertions...)
}

// Script renders the query as an SMT-LIB script ending in (check-sat)
// and (get-model).
func (q *Query) Script() string {
	var sb strings.Builder
	if q.Comment != "" {
		for _, line := range strings.Split(q.Comment, "\n") {
			sb.WriteString("; " + line + "\n")
		}
	}
	sb.WriteString("(set-option :produce-models true)\n")
	sb.WriteString("(set-logic ALL)\n")
	for _, name := range q.FreeVars() {
		sb.WriteString("(declare-const " + Symbol(name) + " Int)\n")
	}
	for _, a := range q.Assertions {
		sb.WriteString("(assert ")
		sb.WriteString(a.String())
		sb.WriteString(")\n")
	}
	sb.WriteString("(check-sat)\n")
	sb.WriteString("(get-model)\n")
	return sb.String()
}
