package synth

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lhaig/whilesynth/internal/holes"
	"github.com/lhaig/whilesynth/internal/smt"
	"github.com/lhaig/whilesynth/internal/solver"
	"github.com/lhaig/whilesynth/internal/wp"
)

// search looks for hole assignments. The bounds persist between calls and
// only ever widen.
type search struct {
	solver solver.Solver
	log    logrus.FieldLogger
	holes  []string

	lower, upper, step int64
}

func newSearch(names []string, opts Options, log logrus.FieldLogger) *search {
	return &search{
		solver: opts.Solver,
		log:    log,
		holes:  names,
		lower:  opts.Lower,
		upper:  opts.Upper,
		step:   opts.WidenStep,
	}
}

// bounds restricts every hole to [lower, upper].
func (s *search) bounds() wp.Predicate {
	out := make(wp.And, 0, len(s.holes))
	for _, h := range s.holes {
		out = append(out, wp.Within{Var: h, Lower: s.lower, Upper: s.upper})
	}
	return out
}

// find returns an assignment of every hole under which body is
// satisfiable. It first asks without bounds, and reports ok == false only
// when that query is unsat. Otherwise it retries the bounded query,
// widening the bounds until it succeeds.
func (s *search) find(ctx context.Context, body *smt.Term) (assignment smt.Model, ok bool, err error) {
	out, err := s.solver.Check(ctx, smt.NewQuery("hole search", body))
	if err != nil {
		return nil, false, errors.Wrap(err, "unbounded hole search")
	}
	if out.Result == solver.Unsat {
		s.log.Debug("no hole assignment exists")
		return nil, false, nil
	}

	env := wp.NewEnv(s.holes)
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		comment := fmt.Sprintf("hole search in [%d, %d]", s.lower, s.upper)
		out, err := s.solver.Check(ctx, smt.NewQuery(comment, body, s.bounds().Apply(env)))
		if err != nil {
			return nil, false, errors.Wrapf(err, "bounded hole search in [%d, %d]", s.lower, s.upper)
		}
		if out.Result == solver.Sat {
			found, _ := holes.Partition(out.Model)
			return holes.Complete(found, s.holes), true, nil
		}
		s.lower -= s.step
		s.upper += s.step
		s.log.WithFields(logrus.Fields{
			"lower": s.lower,
			"upper": s.upper,
		}).Debug("widening hole bounds")
	}
}
