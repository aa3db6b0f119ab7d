package formatter

import (
	"fmt"
	"strings"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/lexer"
)

// Format returns canonical multi-line source for a program. The output
// parses back to the same tree.
func Format(stmt ast.Statement) string {
	f := &formatter{}
	f.formatStmt(stmt)
	return strings.Join(f.lines, "\n") + "\n"
}

// FormatCondition returns canonical single-line source for a condition,
// using the fewest parentheses the condition grammar allows.
func FormatCondition(cond ast.Expression) string {
	f := &formatter{condition: true}
	return f.formatExpr(cond)
}

type formatter struct {
	lines     []string
	indent    int
	condition bool
}

// --- helpers ---

func (f *formatter) emitLine(s string) {
	f.lines = append(f.lines, f.indentStr()+s)
}

func (f *formatter) emitLinef(format string, args ...any) {
	f.emitLine(fmt.Sprintf(format, args...))
}

// appendLast extends the most recent line, used for separators and
// closing keywords.
func (f *formatter) appendLast(s string) {
	f.lines[len(f.lines)-1] += s
}

func (f *formatter) incIndent() { f.indent++ }
func (f *formatter) decIndent() { f.indent-- }

func (f *formatter) indentStr() string {
	return strings.Repeat("    ", f.indent)
}

// --- statements ---

func (f *formatter) formatStmt(s ast.Statement) {
	switch stmt := s.(type) {
	case *ast.SeqStmt:
		f.formatSeq(stmt)

	case *ast.SkipStmt:
		f.emitLine("skip")

	case *ast.AssignStmt:
		f.emitLinef("%s := %s", stmt.Name, f.formatExpr(stmt.Value))

	case *ast.AssertStmt:
		f.emitLinef("assert %s", f.formatExpr(stmt.Cond))

	case *ast.IfStmt:
		f.formatIf("if", stmt.Cond, stmt.Then, stmt.Else)

	case *ast.IfUnrolledStmt:
		f.formatIf("if_unrolled", stmt.Cond, stmt.Then, stmt.Else)

	case *ast.WhileStmt:
		f.emitLinef("while %s do (", f.formatExpr(stmt.Cond))
		f.formatBody(stmt.Body)
		f.emitLine(")")

	default:
		f.emitLinef("<unknown %T>", s)
	}
}

// formatSeq writes a chain of statements one per line. A left operand that
// is itself a sequence came from explicit parentheses and keeps them.
func (f *formatter) formatSeq(seq *ast.SeqStmt) {
	var s ast.Statement = seq
	for {
		next, ok := s.(*ast.SeqStmt)
		if !ok {
			f.formatStmt(s)
			return
		}
		if _, nested := next.First.(*ast.SeqStmt); nested {
			f.emitLine("(")
			f.formatBody(next.First)
			f.emitLine(")")
		} else {
			f.formatStmt(next.First)
		}
		f.appendLast(" ;")
		s = next.Second
	}
}

func (f *formatter) formatIf(keyword string, cond ast.Expression, then, els ast.Statement) {
	f.emitLinef("%s %s then (", keyword, f.formatExpr(cond))
	f.formatBody(then)
	f.emitLine(") else (")
	f.formatBody(els)
	f.emitLine(")")
}

func (f *formatter) formatBody(s ast.Statement) {
	f.incIndent()
	f.formatStmt(s)
	f.decIndent()
}

// --- expressions ---

func (f *formatter) formatExpr(e ast.Expression) string {
	return f.formatExprPrec(e, 0)
}

// formatExprPrec formats an expression, wrapping in parens if needed based
// on parent precedence. Program expressions allow one operator per level,
// so every nested operation there is parenthesised.
func (f *formatter) formatExprPrec(e ast.Expression, parentPrec int) string {
	switch expr := e.(type) {
	case *ast.BinaryExpr:
		prec := precedence(expr.Op)
		leftPrec, rightPrec := prec, prec+1 // left-associative
		switch {
		case expr.Op == lexer.IMPLIES:
			leftPrec, rightPrec = prec+1, prec
		case expr.Op.IsComparison():
			leftPrec = prec + 1
		}
		left := f.formatExprPrec(expr.Left, leftPrec)
		right := f.formatExprPrec(expr.Right, rightPrec)
		result := fmt.Sprintf("%s %s %s", left, ast.OpSymbol(expr.Op), right)
		if parentPrec > 0 && (!f.condition || prec < parentPrec) {
			return "(" + result + ")"
		}
		return result

	case *ast.UnaryExpr:
		if expr.Op == lexer.NOT {
			result := "not " + f.formatExprPrec(expr.Operand, precComparison)
			if parentPrec > precNot {
				return "(" + result + ")"
			}
			return result
		}
		return "-" + f.formatExprPrec(expr.Operand, precUnary)

	case *ast.Identifier:
		return expr.Name

	case *ast.IntLit:
		if expr.Value < 0 && parentPrec == precUnary {
			return fmt.Sprintf("(%d)", expr.Value)
		}
		return fmt.Sprintf("%d", expr.Value)

	case *ast.BoolLit:
		if expr.Value {
			return "true"
		}
		return "false"

	case *ast.Hole:
		return "??"

	default:
		return "<unknown>"
	}
}

// --- operator precedence ---

// Precedence levels (higher binds tighter), matching the condition parser.
const (
	precImplies = iota + 1
	precOr
	precAnd
	precNot
	precComparison
	precAdditive
	precMulti
	precUnary
)

func precedence(op lexer.TokenType) int {
	switch op {
	case lexer.IMPLIES:
		return precImplies
	case lexer.OR:
		return precOr
	case lexer.AND:
		return precAnd
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LEQ, lexer.GEQ:
		return precComparison
	case lexer.PLUS, lexer.MINUS:
		return precAdditive
	case lexer.STAR, lexer.SLASH:
		return precMulti
	default:
		return 0
	}
}
