package solver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lhaig/whilesynth/internal/smt"
)

// DefaultTimeout bounds a single z3 run.
const DefaultTimeout = 30 * time.Second

// Z3 runs the z3 binary once per query, feeding the script on stdin.
type Z3 struct {
	path    string
	timeout time.Duration
	logger  logrus.FieldLogger
}

// Find locates z3. An empty path searches PATH.
func Find(path string) (string, error) {
	if path == "" {
		path = "z3"
	}
	found, err := exec.LookPath(path)
	if err != nil {
		return "", errors.Wrap(ErrNotFound, err.Error())
	}
	return found, nil
}

// NewZ3 creates a z3 runner. A zero timeout means DefaultTimeout and a nil
// logger discards everything below warnings.
func NewZ3(path string, timeout time.Duration, logger logrus.FieldLogger) (*Z3, error) {
	found, err := Find(path)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		logger = l
	}
	return &Z3{path: found, timeout: timeout, logger: logger}, nil
}

// Check runs the query through z3.
func (z *Z3) Check(ctx context.Context, q *smt.Query) (*Outcome, error) {
	script := q.Script()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, z.timeout)
	defer cancel()

	secs := int(z.timeout / time.Second)
	if secs < 1 {
		secs = 1
	}
	cmd := exec.CommandContext(ctx, z.path, "-in", "-smt2", fmt.Sprintf("-T:%d", secs))
	cmd.Stdin = strings.NewReader(script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// (get-model) after unsat makes z3 print an error and exit non-zero, so
	// the exit status alone means nothing; the first output line decides.
	runErr := cmd.Run()

	log := z.logger.WithFields(logrus.Fields{
		"query":   q.Comment,
		"vars":    len(q.FreeVars()),
		"bytes":   len(script),
		"elapsed": time.Since(start).Round(time.Millisecond),
	})

	if ctx.Err() != nil {
		log.Debug("z3 interrupted")
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.Wrapf(ErrUnknown, "z3 timed out after %s", z.timeout)
		}
		return nil, errors.Wrap(ctx.Err(), "z3 interrupted")
	}

	outcome, err := parseOutput(&stdout)
	if err != nil {
		if runErr != nil {
			err = errors.Wrapf(err, "z3 failed (%v): %s", runErr, strings.TrimSpace(stderr.String()))
		}
		log.WithError(err).Debug("z3 failed")
		return nil, err
	}
	log.WithField("result", outcome.Result).Debug("z3 answered")
	return outcome, nil
}

// parseOutput interprets z3 stdout: a verdict line, then the model when the
// verdict is sat.
func parseOutput(r io.Reader) (*Outcome, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read z3 output")
	}
	text := strings.TrimSpace(string(data))
	verdict, rest := text, ""
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		verdict, rest = strings.TrimSpace(text[:i]), text[i+1:]
	}

	switch verdict {
	case "unsat":
		return &Outcome{Result: Unsat}, nil
	case "sat":
		model, err := smt.ParseModel(rest)
		if err != nil {
			return nil, err
		}
		return &Outcome{Result: Sat, Model: model}, nil
	case "unknown", "timeout":
		return nil, errors.Wrap(ErrUnknown, verdict)
	default:
		return nil, errors.Errorf("unexpected z3 output: %q", text)
	}
}
