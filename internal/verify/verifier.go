// Package verify proves Hoare triples {P} S {Q} by reducing them to a
// single satisfiability query.
package verify

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/parser"
	"github.com/lhaig/whilesynth/internal/smt"
	"github.com/lhaig/whilesynth/internal/solver"
	"github.com/lhaig/whilesynth/internal/wp"
)

// Result holds the outcome of verifying one triple.
type Result struct {
	Verified bool
	// Counterexample is a model of P and not wp(S, Q). Set only when
	// Verified is false.
	Counterexample smt.Model
	// Query is the query that was sent to the solver.
	Query   *smt.Query
	Elapsed time.Duration
}

// Verifier checks triples with a solver.
type Verifier struct {
	solver solver.Solver
	log    logrus.FieldLogger
}

// New creates a verifier. A nil logger discards everything below warnings.
func New(s solver.Solver, log logrus.FieldLogger) *Verifier {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}
	return &Verifier{solver: s, log: log}
}

// VC builds the verification condition P(env) => wp(stmt, Q, inv)(env) over
// the identity environment of stmt.
func VC(pre wp.Predicate, stmt ast.Statement, post, inv wp.Predicate) *smt.Term {
	t := wp.New(stmt)
	env := t.Env()
	return smt.Implies(pre.Apply(env), t.WP(stmt, post, inv).Apply(env))
}

// Verify checks {pre} stmt {post} using inv for loops. A triple that does
// not hold is reported through the result, never as an error. Programs
// with unfilled ?? holes are rejected with an error wrapping
// parser.ErrInvalidProgram.
func (v *Verifier) Verify(ctx context.Context, pre wp.Predicate, stmt ast.Statement, post, inv wp.Predicate) (*Result, error) {
	if n := ast.CountHoles(stmt); n > 0 {
		return nil, errors.Wrapf(parser.ErrInvalidProgram, "program has %d unfilled hole(s), synthesize it first", n)
	}
	start := time.Now()
	q := smt.NewQuery("negated verification condition", smt.Not(VC(pre, stmt, post, inv)))

	out, err := v.solver.Check(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "verify")
	}

	res := &Result{Verified: out.Result == solver.Unsat, Query: q, Elapsed: time.Since(start)}
	if !res.Verified {
		res.Counterexample = out.Model
	}
	v.log.WithFields(logrus.Fields{
		"verified":       res.Verified,
		"counterexample": res.Counterexample,
		"elapsed":        res.Elapsed,
	}).Debug("verify")
	return res, nil
}

// Program parses text and verifies it.
func (v *Verifier) Program(ctx context.Context, text string, pre, post, inv wp.Predicate) (*Result, error) {
	stmt, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	return v.Verify(ctx, pre, stmt, post, inv)
}

// Verify checks {pre} stmt {post} with s.
func Verify(ctx context.Context, s solver.Solver, pre wp.Predicate, stmt ast.Statement, post, inv wp.Predicate) (*Result, error) {
	return New(s, nil).Verify(ctx, pre, stmt, post, inv)
}

// Program parses text and checks {pre} text {post} with s.
func Program(ctx context.Context, s solver.Solver, text string, pre, post, inv wp.Predicate) (*Result, error) {
	return New(s, nil).Program(ctx, text, pre, post, inv)
}
