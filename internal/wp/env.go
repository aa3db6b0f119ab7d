// Package wp computes weakest preconditions of While programs as SMT terms.
package wp

import (
	"sort"

	"github.com/lhaig/whilesynth/internal/smt"
)

// Env maps program variables to the terms holding their current values.
// Envs are never mutated; With returns an updated copy.
type Env map[string]*smt.Term

// NewEnv binds every name to the integer constant of the same name.
func NewEnv(vars []string) Env {
	env := make(Env, len(vars))
	for _, v := range vars {
		env[v] = smt.Int(v)
	}
	return env
}

// RenamedEnv binds every name to the integer constant rename(name). Names
// for which keep returns true keep their own symbol.
func RenamedEnv(vars []string, rename func(string) string, keep func(string) bool) Env {
	env := make(Env, len(vars))
	for _, v := range vars {
		if keep != nil && keep(v) {
			env[v] = smt.Int(v)
		} else {
			env[v] = smt.Int(rename(v))
		}
	}
	return env
}

// With returns a copy of e with name bound to t.
func (e Env) With(name string, t *smt.Term) Env {
	out := make(Env, len(e)+1)
	for k, v := range e {
		out[k] = v
	}
	out[name] = t
	return out
}

// Lookup returns the term bound to name.
func (e Env) Lookup(name string) (*smt.Term, bool) {
	t, ok := e[name]
	return t, ok
}

// Names returns the bound names in sorted order.
func (e Env) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
