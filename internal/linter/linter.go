package linter

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/diagnostic"
	"github.com/lhaig/whilesynth/internal/holes"
	"github.com/lhaig/whilesynth/internal/lexer"
)

// Linter performs style and likely-mistake checks on a program.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	diag *diagnostic.Diagnostics
	seen map[string]bool // names already checked
}

// Lint runs all lint rules on the given program and returns diagnostics.
func Lint(prog ast.Statement) *diagnostic.Diagnostics {
	l := &Linter{
		diag: diagnostic.New(),
		seen: make(map[string]bool),
	}

	ast.Inspect(prog, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.AssignStmt:
			l.checkVariableName(n.Name, n.Line, n.Column)
			l.checkSelfAssignment(n)
		case *ast.Identifier:
			l.checkVariableName(n.Name, n.Line, n.Column)
		case *ast.IfStmt:
			l.checkConstantCondition("if", n.Cond)
		case *ast.IfUnrolledStmt:
			l.checkConstantCondition("if_unrolled", n.Cond)
		case *ast.WhileStmt:
			l.checkConstantCondition("while", n.Cond)
			l.checkLoopProgress(n)
		case *ast.AssertStmt:
			l.checkConstantCondition("assert", n.Cond)
		case *ast.BinaryExpr:
			l.checkDivisionByZero(n)
		}
		return true
	})

	return l.diag
}

// --- Lint rules ---

// checkVariableName warns once per name about reserved hole names and
// names that do not start with a lowercase letter.
func (l *Linter) checkVariableName(name string, line, col int) {
	if l.seen[name] {
		return
	}
	l.seen[name] = true

	if holes.IsHole(name) {
		l.diag.WarningWithHint(line, col,
			"variable '"+name+"' uses a name reserved for holes",
			"synthesis rejects programs with variables named hole_<n>")
		return
	}
	if r := []rune(name)[0]; !unicode.IsLower(r) {
		l.diag.Warningf(line, col, "variable '%s' should start with a lowercase letter", name)
	}
}

// checkSelfAssignment warns about x := x.
func (l *Linter) checkSelfAssignment(a *ast.AssignStmt) {
	if id, ok := a.Value.(*ast.Identifier); ok && id.Name == a.Name {
		l.diag.Warningf(a.Line, a.Column, "self-assignment of '%s' has no effect", a.Name)
	}
}

// checkConstantCondition warns when a comparison has the same value on
// every input.
func (l *Linter) checkConstantCondition(keyword string, cond ast.Expression) {
	value, ok := constantComparison(cond)
	if !ok {
		return
	}
	line, col := cond.Pos()
	if keyword == "assert" && value {
		l.diag.Warningf(line, col, "assertion '%s' always holds", ast.Text(cond))
		return
	}
	l.diag.Warningf(line, col, "condition of '%s' is always %t", keyword, value)
}

// constantComparison decides comparisons between two literals and between
// a variable and itself.
func constantComparison(expr ast.Expression) (value, ok bool) {
	b, isBin := expr.(*ast.BinaryExpr)
	if !isBin || !b.Op.IsComparison() {
		return false, false
	}

	if l, isLit := b.Left.(*ast.IntLit); isLit {
		if r, isLit := b.Right.(*ast.IntLit); isLit {
			return compare(b.Op, l.Value, r.Value), true
		}
	}
	if l, isID := b.Left.(*ast.Identifier); isID {
		if r, isID := b.Right.(*ast.Identifier); isID && l.Name == r.Name {
			return compare(b.Op, 0, 0), true
		}
	}
	return false, false
}

func compare(op lexer.TokenType, a, b int64) bool {
	switch op {
	case lexer.EQ:
		return a == b
	case lexer.NEQ:
		return a != b
	case lexer.LT:
		return a < b
	case lexer.GT:
		return a > b
	case lexer.LEQ:
		return a <= b
	case lexer.GEQ:
		return a >= b
	}
	return false
}

// checkDivisionByZero warns about division by the literal 0.
func (l *Linter) checkDivisionByZero(b *ast.BinaryExpr) {
	if b.Op != lexer.SLASH {
		return
	}
	if lit, ok := b.Right.(*ast.IntLit); ok && lit.Value == 0 {
		l.diag.WarningWithHint(b.Line, b.Column,
			"division by zero",
			"the solver treats x / 0 as an unconstrained value")
	}
}

// checkLoopProgress warns when a loop body never assigns any variable its
// condition reads: such a loop either never runs or never stops.
func (l *Linter) checkLoopProgress(w *ast.WhileStmt) {
	read := ast.Vars(w.Cond)
	if len(read) == 0 {
		return
	}
	assigned := make(map[string]bool)
	for _, name := range ast.Assigned(w.Body) {
		assigned[name] = true
	}
	for _, name := range read {
		if assigned[name] {
			return
		}
	}
	sort.Strings(read)
	l.diag.Warningf(w.Line, w.Column,
		"loop body never assigns %s, so the loop either never runs or never stops",
		quoteList(read))
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return strings.Join(quoted, ", ")
}
