// Package synth fills the holes of While programs, either so that the
// program verifies (CEGIS) or so that it agrees with input/output
// examples.
package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/holes"
	"github.com/lhaig/whilesynth/internal/parser"
	"github.com/lhaig/whilesynth/internal/smt"
	"github.com/lhaig/whilesynth/internal/unroll"
	"github.com/lhaig/whilesynth/internal/verify"
	"github.com/lhaig/whilesynth/internal/wp"
)

// State is a CEGIS session state. Each names what the last step did.
type State int

const (
	Init State = iota
	ReplaceHoles
	FillZeros
	TryVerify
	VerifiedSuccess
	VerifyFailed
	TryFindHoles
	NoNewHoles
	NewHolesFound
)

var stateNames = map[State]string{
	Init:            "Init",
	ReplaceHoles:    "ReplaceHoles",
	FillZeros:       "FillZeros",
	TryVerify:       "TryVerify",
	VerifiedSuccess: "VerifiedSuccess",
	VerifyFailed:    "VerifyFailed",
	TryFindHoles:    "TryFindHoles",
	NoNewHoles:      "NoNewHoles",
	NewHolesFound:   "NewHolesFound",
}

var stateDescriptions = map[State]string{
	Init:            "session created",
	ReplaceHoles:    "holes named in the sketch",
	FillZeros:       "every hole set to 0",
	TryVerify:       "candidate ready for verification",
	VerifiedSuccess: "candidate verified",
	VerifyFailed:    "candidate refuted by a counterexample",
	TryFindHoles:    "counterexample inputs fixed, candidate excluded",
	NoNewHoles:      "no hole assignment exists",
	NewHolesFound:   "new hole assignment found",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Description returns a short human-readable explanation of s.
func (s State) Description() string { return stateDescriptions[s] }

// Terminal reports whether no further step is possible from s.
func (s State) Terminal() bool { return s == VerifiedSuccess || s == NoNewHoles }

// Step is the payload of one transition.
type Step struct {
	State State
	// Program is the text the transition produced: the sketch, a
	// candidate, the candidate's sketch with concrete inputs, or the final
	// program.
	Program        string
	Holes          smt.Model
	Verified       bool
	Counterexample smt.Model
	Lower, Upper   int64
}

// Session is one CEGIS run. It is not safe for concurrent use.
type Session struct {
	ID uuid.UUID

	text           string
	pre, post, inv wp.Predicate
	opts           Options
	log            logrus.FieldLogger
	verifier       *verify.Verifier

	state          State
	sketch         *holes.Sketch
	unrolledText   string
	candidate      smt.Model
	candidateAST   ast.Statement
	counterexample smt.Model
	excluded       []smt.Model
	concreteAST    ast.Statement
	search         *search
	result         string
}

// NewSession prepares a CEGIS run for text. No work happens until Step.
func NewSession(text string, pre, post, inv wp.Predicate, opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	log := opts.logger().WithField("session", id.String())
	return &Session{
		ID:       id,
		text:     text,
		pre:      pre,
		post:     post,
		inv:      inv,
		opts:     opts,
		log:      log,
		verifier: verify.New(opts.Solver, log),
		state:    Init,
	}, nil
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Holes returns the hole names, or nil before ReplaceHoles.
func (s *Session) Holes() []string {
	if s.sketch == nil {
		return nil
	}
	return s.sketch.Holes
}

// Excluded returns the disjunction of every hole assignment refuted so far.
func (s *Session) Excluded() wp.Predicate {
	out := make(wp.Or, 0, len(s.excluded))
	for _, m := range s.excluded {
		out = append(out, assignmentPredicate(m))
	}
	return out
}

// Step advances the session by exactly one transition.
func (s *Session) Step(ctx context.Context) (*Step, error) {
	if s.state.Terminal() {
		return nil, errors.WithStack(ErrSessionFinished)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var step *Step
	var err error
	switch s.state {
	case Init:
		step, err = s.replaceHoles()
	case ReplaceHoles:
		step, err = s.fillZeros()
	case FillZeros, NewHolesFound:
		step, err = s.prepareCandidate()
	case TryVerify:
		step, err = s.tryVerify(ctx)
	case VerifyFailed:
		step, err = s.excludeCandidate()
	case TryFindHoles:
		step, err = s.findHoles(ctx)
	default:
		err = errors.Errorf("unexpected session state %s", s.state)
	}
	if err != nil {
		return nil, err
	}

	s.state = step.State
	s.log.WithFields(logrus.Fields{
		"state":          step.State,
		"holes":          step.Holes,
		"counterexample": step.Counterexample,
		"lower":          step.Lower,
		"upper":          step.Upper,
	}).Debug(step.State.Description())
	return step, nil
}

// Run steps the session until it finishes and returns the result.
func (s *Session) Run(ctx context.Context) (string, error) {
	for !s.state.Terminal() {
		if _, err := s.Step(ctx); err != nil {
			return "", err
		}
	}
	return s.Result()
}

// Result returns the synthesized program of a finished session.
func (s *Session) Result() (string, error) {
	switch s.state {
	case VerifiedSuccess:
		return s.result, nil
	case NoNewHoles:
		return "", errors.WithStack(ErrProgramNotVerified)
	}
	return "", errors.Errorf("session is in state %s, not finished", s.state)
}

func (s *Session) replaceHoles() (*Step, error) {
	sketch, err := holes.Process(s.text)
	if err != nil {
		return nil, err
	}
	s.sketch = sketch
	s.search = newSearch(sketch.Holes, s.opts, s.log)
	return &Step{State: ReplaceHoles, Program: sketch.Text}, nil
}

func (s *Session) fillZeros() (*Step, error) {
	s.unrolledText = ast.Text(unroll.Unroll(s.sketch.AST, s.opts.UnrollBound))
	s.candidate = holes.Complete(nil, s.sketch.Holes)
	return &Step{State: FillZeros, Holes: s.candidate.Clone(), Program: holes.Substitute(s.unrolledText, s.candidate)}, nil
}

func (s *Session) prepareCandidate() (*Step, error) {
	text := holes.Substitute(s.unrolledText, s.candidate)
	stmt, err := parser.Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, "candidate")
	}
	s.candidateAST = stmt
	return &Step{State: TryVerify, Holes: s.candidate.Clone(), Program: text}, nil
}

func (s *Session) tryVerify(ctx context.Context) (*Step, error) {
	res, err := s.verifier.Verify(ctx, s.pre, s.candidateAST, s.post, s.inv)
	if err != nil {
		return nil, err
	}
	if res.Verified {
		s.result = holes.Substitute(s.sketch.Text, s.candidate)
		s.log.WithField("holes", s.candidate).Info("program synthesized")
		return &Step{State: VerifiedSuccess, Verified: true, Holes: s.candidate.Clone(), Program: s.result}, nil
	}
	_, s.counterexample = holes.Partition(res.Counterexample)
	return &Step{State: VerifyFailed, Holes: s.candidate.Clone(), Counterexample: s.counterexample.Clone()}, nil
}

// excludeCandidate records the refuted candidate and fixes the
// counterexample inputs by prepending them as assignments.
func (s *Session) excludeCandidate() (*Step, error) {
	s.excluded = append(s.excluded, s.candidate.Clone())

	text := concreteInputs(s.counterexample) + s.unrolledText
	stmt, err := parser.Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, "sketch with concrete inputs")
	}
	s.concreteAST = stmt
	return &Step{
		State:          TryFindHoles,
		Holes:          s.candidate.Clone(),
		Counterexample: s.counterexample.Clone(),
		Program:        text,
	}, nil
}

func (s *Session) findHoles(ctx context.Context) (*Step, error) {
	t := wp.New(s.concreteAST)
	env := t.Env()
	body := smt.And(
		s.pre.Apply(env),
		smt.Not(s.Excluded().Apply(env)),
		t.WP(s.concreteAST, s.post, s.inv).Apply(env),
	)

	found, ok, err := s.search.find(ctx, body)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Step{State: NoNewHoles, Lower: s.search.lower, Upper: s.search.upper}, nil
	}
	s.candidate = found
	return &Step{
		State:   NewHolesFound,
		Holes:   found.Clone(),
		Program: holes.Substitute(s.unrolledText, found),
		Lower:   s.search.lower,
		Upper:   s.search.upper,
	}, nil
}

// concreteInputs renders a model as leading assignments, "x := 1 ; ".
func concreteInputs(m smt.Model) string {
	var sb strings.Builder
	for _, name := range m.Names() {
		fmt.Fprintf(&sb, "%s := %d ; ", name, m[name])
	}
	return sb.String()
}

func assignmentPredicate(m smt.Model) wp.Predicate {
	out := make(wp.And, 0, len(m))
	for _, name := range m.Names() {
		out = append(out, wp.Equals{Var: name, Value: m[name]})
	}
	return out
}

// Program synthesizes hole values for text so that {pre} text {post}
// verifies, with loops unrolled to opts.UnrollBound.
func Program(ctx context.Context, text string, pre, post, inv wp.Predicate, opts Options) (string, error) {
	s, err := NewSession(text, pre, post, inv, opts)
	if err != nil {
		return "", err
	}
	return s.Run(ctx)
}
