package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/config"
	"github.com/lhaig/whilesynth/internal/formatter"
	"github.com/lhaig/whilesynth/internal/linter"
	"github.com/lhaig/whilesynth/internal/parser"
	"github.com/lhaig/whilesynth/internal/solver"
	"github.com/lhaig/whilesynth/internal/synth"
	"github.com/lhaig/whilesynth/internal/testgen"
	"github.com/lhaig/whilesynth/internal/unroll"
	"github.com/lhaig/whilesynth/internal/verify"
)

const usage = `whilesynth - verification and synthesis for While programs

Usage:
  whilesynth verify <problem.yaml>            Prove {pre} program {post}
  whilesynth synth [--steps] <problem.yaml>   Fill the ?? holes of a sketch (CEGIS)
  whilesynth pbe [--strip-asserts] <problem.yaml>
                                              Fill holes from input/output examples
  whilesynth check <problem.yaml>             Spot-check a program on generated inputs
  whilesynth lint <problem.yaml>              Run lint checks on the program
  whilesynth fmt <problem.yaml>               Print the formatted program
  whilesynth unroll <problem.yaml>            Print the program with loops unrolled

Options:
  -v, --verbose      Log solver calls and synthesis steps
  -q, --quiet        Only log errors
  --z3 <path>        z3 binary (default: search PATH)
  --timeout <dur>    Per-query solver timeout, e.g. 30s
  --steps            Print every synthesis transition (synth only)
  --strip-asserts    Drop assert statements from the result (pbe only)

Problem files are YAML:

  program: "x := ?? ; assert x > 3"
  pre: "true"
  post: "true"
  invariant: "true"
  unroll: 10
  examples:
    - in: {x: 0}
      out: {y: 1}
`

// errFailed marks a command that ran correctly but whose answer is
// negative, such as a program that does not verify.
var errFailed = errors.New("failed")

// newSolver builds the solver for a problem. Tests replace it.
var newSolver = func(p *config.Problem, log logrus.FieldLogger) (solver.Solver, error) {
	return p.NewSolver(log)
}

type options struct {
	file         string
	steps        bool
	stripAsserts bool
	z3           string
	timeout      time.Duration
	level        logrus.Level
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 1
	}

	command := args[0]
	var handler func(context.Context, *app) error
	switch command {
	case "verify":
		handler = handleVerify
	case "synth":
		handler = handleSynth
	case "pbe":
		handler = handlePBE
	case "check":
		handler = handleCheck
	case "lint":
		handler = handleLint
	case "fmt":
		handler = handleFmt
	case "unroll":
		handler = handleUnroll
	case "help", "--help", "-h":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(stderr, usage)
		return 1
	}

	opts, err := parseArgs(args[1:])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(opts.level)

	a := &app{opts: opts, log: log, out: stdout}
	if err := handler(ctx, a); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(stderr, "Error: %s\n", err)
		}
		return 1
	}
	return 0
}

func parseArgs(args []string) (options, error) {
	opts := options{level: logrus.WarnLevel}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-v", "--verbose":
			opts.level = logrus.DebugLevel
		case "-q", "--quiet":
			opts.level = logrus.ErrorLevel
		case "--steps":
			opts.steps = true
		case "--strip-asserts":
			opts.stripAsserts = true
		case "--z3", "--timeout":
			if i+1 >= len(args) {
				return opts, errors.Errorf("%s needs a value", arg)
			}
			i++
			if arg == "--z3" {
				opts.z3 = args[i]
				continue
			}
			d, err := time.ParseDuration(args[i])
			if err != nil {
				return opts, errors.Wrap(err, "--timeout")
			}
			opts.timeout = d
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, errors.Errorf("unknown option: %s", arg)
			}
			if opts.file != "" {
				return opts, errors.Errorf("unexpected argument: %s", arg)
			}
			opts.file = arg
		}
	}
	if opts.file == "" {
		return opts, errors.New("no problem file specified")
	}
	return opts, nil
}

// app carries what every command needs.
type app struct {
	opts options
	log  *logrus.Logger
	out  io.Writer
}

func (a *app) problem() (*config.Problem, error) {
	p, err := config.Load(a.opts.file)
	if err != nil {
		return nil, err
	}
	if a.opts.z3 != "" {
		p.Solver.Path = a.opts.z3
	}
	if a.opts.timeout > 0 {
		p.Solver.Timeout.Duration = a.opts.timeout
	}
	return p, nil
}

func (a *app) synthOptions(p *config.Problem) (synth.Options, error) {
	s, err := newSolver(p, a.log)
	if err != nil {
		return synth.Options{}, err
	}
	return p.Options(s, a.log), nil
}

func handleVerify(ctx context.Context, a *app) error {
	p, err := a.problem()
	if err != nil {
		return err
	}
	pre, post, inv, err := p.Conditions()
	if err != nil {
		return err
	}
	s, err := newSolver(p, a.log)
	if err != nil {
		return err
	}

	result, err := verify.Program(ctx, s, p.Program, pre, post, inv)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, verify.FormatReport(&verify.Report{
		Program:   strings.TrimSpace(p.Program),
		Pre:       p.Pre,
		Post:      p.Post,
		Invariant: p.Invariant,
		Result:    result,
	}))
	if !result.Verified {
		return errFailed
	}
	return nil
}

func handleSynth(ctx context.Context, a *app) error {
	p, err := a.problem()
	if err != nil {
		return err
	}
	pre, post, inv, err := p.Conditions()
	if err != nil {
		return err
	}
	opts, err := a.synthOptions(p)
	if err != nil {
		return err
	}

	if !a.opts.steps {
		program, err := synth.Program(ctx, p.Program, pre, post, inv, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, program)
		return nil
	}

	session, err := synth.NewSession(p.Program, pre, post, inv, opts)
	if err != nil {
		return err
	}
	for n := 1; !session.State().Terminal(); n++ {
		step, err := session.Step(ctx)
		if err != nil {
			return err
		}
		printStep(a.out, n, step)
	}
	program, err := session.Result()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\n%s\n", program)
	return nil
}

func printStep(w io.Writer, n int, step *synth.Step) {
	fmt.Fprintf(w, "%3d. %s: %s\n", n, step.State, step.State.Description())
	switch step.State {
	case synth.ReplaceHoles, synth.TryVerify, synth.VerifiedSuccess:
		fmt.Fprintf(w, "     %s\n", step.Program)
	case synth.VerifyFailed:
		fmt.Fprintf(w, "     counterexample: %s\n", step.Counterexample)
	case synth.NewHolesFound:
		fmt.Fprintf(w, "     holes: %s (bounds %d..%d)\n", step.Holes, step.Lower, step.Upper)
	}
}

func handlePBE(ctx context.Context, a *app) error {
	p, err := a.problem()
	if err != nil {
		return err
	}
	pre, post, inv, err := p.Conditions()
	if err != nil {
		return err
	}
	opts, err := a.synthOptions(p)
	if err != nil {
		return err
	}

	program, err := synth.FromExamples(ctx, p.Program, p.Examples, pre, post, inv, opts)
	if err != nil {
		return err
	}
	if !a.opts.stripAsserts {
		fmt.Fprintln(a.out, program)
		return nil
	}
	stmt, err := parser.Parse(program)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, formatter.Format(ast.WithoutAsserts(stmt)))
	return nil
}

func handleCheck(_ context.Context, a *app) error {
	p, err := a.problem()
	if err != nil {
		return err
	}
	stmt, err := parser.Parse(p.Program)
	if err != nil {
		return err
	}
	pre, post, _, err := p.Conditions()
	if err != nil {
		return err
	}

	report, err := testgen.Check(stmt, pre.Expr, post.Expr, testgen.Options{})
	if err != nil {
		return err
	}
	if !report.Passed() {
		fmt.Fprintf(a.out, "FAIL: %s\n", report.Failure)
		return errFailed
	}
	fmt.Fprintf(a.out, "PASS: %d input(s) checked, %d skipped\n", report.Checked, report.Skipped)
	return nil
}

func handleLint(_ context.Context, a *app) error {
	p, err := a.problem()
	if err != nil {
		return err
	}
	stmt, err := parser.Parse(p.Program)
	if err != nil {
		return err
	}

	diag := linter.Lint(stmt)
	if diag.Count() == 0 {
		fmt.Fprintln(a.out, "No lint warnings.")
		return nil
	}

	fmt.Fprintln(a.out, diag.Format(a.opts.file))
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "%d warning(s) found.\n", diag.Count())
	return nil
}

func handleFmt(_ context.Context, a *app) error {
	p, err := a.problem()
	if err != nil {
		return err
	}
	stmt, err := parser.Parse(p.Program)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, formatter.Format(stmt))
	return nil
}

func handleUnroll(_ context.Context, a *app) error {
	p, err := a.problem()
	if err != nil {
		return err
	}
	stmt, err := parser.Parse(p.Program)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "# %d loop(s) unrolled %d time(s)\n", unroll.Loops(stmt), p.Unroll)
	fmt.Fprint(a.out, formatter.Format(unroll.Unroll(stmt, p.Unroll)))
	return nil
}
