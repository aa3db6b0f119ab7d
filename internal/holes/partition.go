package holes

import (
	"regexp"
	"strconv"

	"github.com/lhaig/whilesynth/internal/smt"
)

var token = regexp.MustCompile(`\bhole_\d+\b`)

// Partition splits a model into hole values and the remaining program
// inputs.
func Partition(m smt.Model) (assignment, counterexample smt.Model) {
	assignment, counterexample = smt.Model{}, smt.Model{}
	for name, v := range m {
		if IsHole(name) {
			assignment[name] = v
		} else {
			counterexample[name] = v
		}
	}
	return assignment, counterexample
}

// Complete returns the assignment with every listed hole bound, missing
// ones to 0.
func Complete(assignment smt.Model, names []string) smt.Model {
	out := make(smt.Model, len(names))
	for _, name := range names {
		out[name] = assignment[name]
	}
	return out
}

// Substitute replaces every hole token in text with its value. Matching is
// on whole tokens, so hole_1 never rewrites part of hole_10. Holes without
// a value become 0.
func Substitute(text string, assignment smt.Model) string {
	return token.ReplaceAllStringFunc(text, func(name string) string {
		return strconv.FormatInt(assignment[name], 10)
	})
}
