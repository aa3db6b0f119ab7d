// Package config loads synthesis and verification problems from YAML files.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/lhaig/whilesynth/internal/solver"
	"github.com/lhaig/whilesynth/internal/synth"
	"github.com/lhaig/whilesynth/internal/wp"
)

// ErrInvalidProblem is wrapped by every validation failure.
var ErrInvalidProblem = errors.New("invalid problem")

// Problem is one problem file.
type Problem struct {
	Program   string          `yaml:"program"`
	Pre       string          `yaml:"pre"`
	Post      string          `yaml:"post"`
	Invariant string          `yaml:"invariant"`
	Unroll    int             `yaml:"unroll"`
	Bounds    Bounds          `yaml:"bounds"`
	Examples  []synth.Example `yaml:"examples"`
	Solver    Solver          `yaml:"solver"`
}

// Bounds is the initial hole range and how far it widens per attempt.
type Bounds struct {
	Lower int64 `yaml:"lower"`
	Upper int64 `yaml:"upper"`
	Step  int64 `yaml:"step"`
}

// Solver selects the z3 binary. An empty path searches PATH.
type Solver struct {
	Path    string   `yaml:"path"`
	Timeout Duration `yaml:"timeout"`
}

// Duration accepts Go duration strings ("30s", "2m") or a plain number of
// seconds.
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var seconds int64
	if err := value.Decode(&seconds); err == nil {
		d.Duration = time.Duration(seconds) * time.Second
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return errors.Wrapf(err, "line %d: timeout", value.Line)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "line %d: timeout", value.Line)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Default returns a problem with every optional field set.
func Default() *Problem {
	return &Problem{
		Pre:       "true",
		Post:      "true",
		Invariant: "true",
		Unroll:    synth.DefaultUnrollBound,
		Bounds: Bounds{
			Lower: synth.DefaultLower,
			Upper: synth.DefaultUpper,
			Step:  synth.DefaultWidenStep,
		},
		Solver: Solver{Timeout: Duration{solver.DefaultTimeout}},
	}
}

// Load reads and validates a problem file.
func Load(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading problem")
	}
	p, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return p, nil
}

// Parse decodes a problem over the defaults and validates it. Unknown keys
// are rejected.
func Parse(data []byte) (*Problem, error) {
	p := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(ErrInvalidProblem, "empty problem file")
		}
		return nil, errors.Wrap(err, "decoding problem")
	}

	for _, cond := range []*string{&p.Pre, &p.Post, &p.Invariant} {
		if strings.TrimSpace(*cond) == "" {
			*cond = "true"
		}
	}
	if p.Solver.Timeout.Duration == 0 {
		p.Solver.Timeout.Duration = solver.DefaultTimeout
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate reports the first invalid field.
func (p *Problem) Validate() error {
	switch {
	case strings.TrimSpace(p.Program) == "":
		return errors.Wrap(ErrInvalidProblem, "program is empty")
	case p.Unroll < 1:
		return errors.Wrapf(ErrInvalidProblem, "unroll must be at least 1, got %d", p.Unroll)
	case p.Bounds.Lower > p.Bounds.Upper:
		return errors.Wrapf(ErrInvalidProblem, "bounds: lower %d is above upper %d", p.Bounds.Lower, p.Bounds.Upper)
	case p.Bounds.Step <= 0:
		return errors.Wrapf(ErrInvalidProblem, "bounds: step must be positive, got %d", p.Bounds.Step)
	case p.Solver.Timeout.Duration < 0:
		return errors.Wrapf(ErrInvalidProblem, "solver: negative timeout %s", p.Solver.Timeout)
	}
	for i, ex := range p.Examples {
		if len(ex.Inputs) == 0 && len(ex.Outputs) == 0 {
			return errors.Wrapf(ErrInvalidProblem, "example %d has neither inputs nor outputs", i)
		}
	}
	return nil
}

// Conditions compiles the precondition, postcondition and invariant.
func (p *Problem) Conditions() (pre, post, inv *wp.Condition, err error) {
	if pre, err = wp.ParseCondition(p.Pre); err != nil {
		return nil, nil, nil, errors.WithMessage(err, "pre")
	}
	if post, err = wp.ParseCondition(p.Post); err != nil {
		return nil, nil, nil, errors.WithMessage(err, "post")
	}
	if inv, err = wp.ParseCondition(p.Invariant); err != nil {
		return nil, nil, nil, errors.WithMessage(err, "invariant")
	}
	return pre, post, inv, nil
}

// NewSolver starts a z3 transport configured by the problem.
func (p *Problem) NewSolver(log logrus.FieldLogger) (*solver.Z3, error) {
	return solver.NewZ3(p.Solver.Path, p.Solver.Timeout.Duration, log)
}

// Options returns synthesis options for the problem.
func (p *Problem) Options(s solver.Solver, log logrus.FieldLogger) synth.Options {
	return synth.Options{
		UnrollBound: p.Unroll,
		Lower:       p.Bounds.Lower,
		Upper:       p.Bounds.Upper,
		WidenStep:   p.Bounds.Step,
		Solver:      s,
		Logger:      log,
	}
}
