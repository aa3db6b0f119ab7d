// Package holes names the ?? placeholders of a program sketch and maps
// solver models back onto program text.
package holes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/lexer"
	"github.com/lhaig/whilesynth/internal/parser"
)

var (
	// ErrNoHoles is returned for a program without any ??.
	ErrNoHoles = errors.New("program has no holes")
	// ErrInvalidVarName is returned when a user variable looks like a hole.
	ErrInvalidVarName = errors.New("program has invalid var name")
)

var pattern = regexp.MustCompile(`^hole_\d+$`)

// IsHole reports whether name is reserved for holes.
func IsHole(name string) bool { return pattern.MatchString(name) }

// Name returns the name of the i-th hole.
func Name(i int) string { return fmt.Sprintf("hole_%d", i) }

// Sketch is a program whose holes have been named hole_0, hole_1, ... in
// textual order.
type Sketch struct {
	Original string
	Text     string
	Holes    []string
	AST      ast.Statement
}

// Process validates a program with holes and names them. Every failure
// happens here, before any solver work.
func Process(text string) (*Sketch, error) {
	orig, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	for _, v := range ast.Vars(orig) {
		if IsHole(v) {
			return nil, errors.Wrapf(ErrInvalidVarName, "variable %q is reserved for holes", v)
		}
	}

	var sb strings.Builder
	var names []string
	last := 0
	for _, tok := range lexer.New(text).Tokenize() {
		if tok.Type != lexer.HOLE {
			continue
		}
		name := Name(len(names))
		names = append(names, name)
		sb.WriteString(text[last:tok.Offset])
		sb.WriteString(name)
		last = tok.Offset + len(tok.Literal)
	}
	if len(names) == 0 {
		return nil, errors.WithStack(ErrNoHoles)
	}
	sb.WriteString(text[last:])

	sketch := sb.String()
	stmt, err := parser.Parse(sketch)
	if err != nil {
		return nil, errors.Wrap(err, "sketch")
	}
	return &Sketch{Original: text, Text: sketch, Holes: names, AST: stmt}, nil
}
