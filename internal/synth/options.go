package synth

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lhaig/whilesynth/internal/solver"
)

// Defaults for Options.
const (
	DefaultUnrollBound = 10
	DefaultLower       = -100
	DefaultUpper       = 100
	DefaultWidenStep   = 100
)

// Options configure a synthesis run.
type Options struct {
	// UnrollBound is the number of copies each loop is unrolled into.
	UnrollBound int
	// Lower and Upper bound every hole in the bounded search. They widen
	// by WidenStep on each side whenever the bounded search fails.
	Lower     int64
	Upper     int64
	WidenStep int64

	Solver solver.Solver
	Logger logrus.FieldLogger
}

// DefaultOptions returns the default options using s.
func DefaultOptions(s solver.Solver) Options {
	return Options{
		UnrollBound: DefaultUnrollBound,
		Lower:       DefaultLower,
		Upper:       DefaultUpper,
		WidenStep:   DefaultWidenStep,
		Solver:      s,
	}
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	switch {
	case o.Solver == nil:
		return errors.New("no solver configured")
	case o.UnrollBound < 1:
		return errors.Errorf("unroll bound must be at least 1, got %d", o.UnrollBound)
	case o.Lower > o.Upper:
		return errors.Errorf("lower bound %d is above upper bound %d", o.Lower, o.Upper)
	case o.WidenStep <= 0:
		return errors.Errorf("widen step must be positive, got %d", o.WidenStep)
	}
	return nil
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}
