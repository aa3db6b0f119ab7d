package smt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Model is a solver assignment of integer constants.
type Model map[string]int64

// Names returns the bound names in sorted order.
func (m Model) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy of m.
func (m Model) Clone() Model {
	out := make(Model, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// String renders the model as [a = 1, b = -2] in name order.
func (m Model) String() string {
	parts := make([]string, 0, len(m))
	for _, name := range m.Names() {
		parts = append(parts, fmt.Sprintf("%s = %d", name, m[name]))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ParseModel reads the output of (get-model). Both the bare list form and
// the older (model ...) wrapper are accepted. Only nullary Int definitions
// are kept; function interpretations are ignored.
func ParseModel(text string) (Model, error) {
	r := &sexpReader{input: text}
	root, err := r.read()
	if err != nil {
		return nil, errors.Wrap(err, "parse model")
	}
	items, ok := root.([]interface{})
	if !ok {
		return nil, errors.Errorf("parse model: expected a list, got %v", root)
	}
	if len(items) > 0 && items[0] == "model" {
		items = items[1:]
	}

	model := make(Model)
	for _, item := range items {
		def, ok := item.([]interface{})
		if !ok || len(def) != 5 || def[0] != "define-fun" {
			continue
		}
		name, _ := def[1].(string)
		params, _ := def[2].([]interface{})
		if len(params) != 0 || def[3] != "Int" {
			continue
		}
		value, err := intValue(def[4])
		if err != nil {
			return nil, errors.Wrapf(err, "parse model: value of %s", name)
		}
		model[name] = value
	}
	return model, nil
}

func intValue(v interface{}) (int64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseInt(x, 10, 64)
	case []interface{}:
		if len(x) == 2 && x[0] == "-" {
			n, err := intValue(x[1])
			return -n, err
		}
	}
	return 0, errors.Errorf("unsupported integer value %v", v)
}

// sexpReader is a minimal reader for solver output: lists, atoms and
// |quoted| symbols. Atoms come back as strings, lists as []interface{}.
type sexpReader struct {
	input string
	pos   int
}

func (r *sexpReader) skipSpace() {
	for r.pos < len(r.input) {
		c := r.input[r.pos]
		if c == ';' {
			for r.pos < len(r.input) && r.input[r.pos] != '\n' {
				r.pos++
			}
			continue
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return
		}
		r.pos++
	}
}

func (r *sexpReader) read() (interface{}, error) {
	r.skipSpace()
	if r.pos >= len(r.input) {
		return nil, errors.New("unexpected end of input")
	}
	switch c := r.input[r.pos]; c {
	case '(':
		r.pos++
		list := []interface{}{}
		for {
			r.skipSpace()
			if r.pos >= len(r.input) {
				return nil, errors.New("unterminated list")
			}
			if r.input[r.pos] == ')' {
				r.pos++
				return list, nil
			}
			item, err := r.read()
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
	case ')':
		return nil, errors.Errorf("unexpected ')' at offset %d", r.pos)
	case '|':
		end := strings.IndexByte(r.input[r.pos+1:], '|')
		if end < 0 {
			return nil, errors.New("unterminated quoted symbol")
		}
		sym := r.input[r.pos+1 : r.pos+1+end]
		r.pos += end + 2
		return sym, nil
	default:
		start := r.pos
		for r.pos < len(r.input) && strings.IndexByte(" \t\n\r()|;", r.input[r.pos]) < 0 {
			r.pos++
		}
		return r.input[start:r.pos], nil
	}
}
