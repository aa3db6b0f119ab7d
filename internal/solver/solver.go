// Package solver answers satisfiability queries.
package solver

import (
	"context"

	"github.com/pkg/errors"

	"github.com/lhaig/whilesynth/internal/smt"
)

// Result is the verdict of a satisfiability check.
type Result int

const (
	Unknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknown is returned when the solver gives up on a query.
	ErrUnknown = errors.New("solver returned unknown")
	// ErrNotFound is returned when no solver binary is available.
	ErrNotFound = errors.New("z3 not found on PATH")
)

// Outcome is the answer to one query. Model is set only when Result is Sat.
type Outcome struct {
	Result Result
	Model  smt.Model
}

// Solver checks whether a query is satisfiable. An Unknown verdict is
// reported as an error wrapping ErrUnknown, never as an Outcome.
type Solver interface {
	Check(ctx context.Context, q *smt.Query) (*Outcome, error)
}
