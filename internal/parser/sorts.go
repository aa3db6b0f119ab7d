package parser

import (
	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/lexer"
)

type sort int

const (
	sortInvalid sort = iota
	sortInt
	sortBool
)

func (s sort) String() string {
	switch s {
	case sortInt:
		return "integer"
	case sortBool:
		return "boolean"
	}
	return "invalid"
}

// checkStatement verifies that assigned values are integers and that branch,
// loop and assertion conditions are boolean.
func (p *Parser) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		p.want(s.Value, sortInt, "value assigned to '"+s.Name+"'")
	case *ast.SeqStmt:
		p.checkStatement(s.First)
		p.checkStatement(s.Second)
	case *ast.IfStmt:
		p.want(s.Cond, sortBool, "if condition")
		p.checkStatement(s.Then)
		p.checkStatement(s.Else)
	case *ast.IfUnrolledStmt:
		p.want(s.Cond, sortBool, "if_unrolled condition")
		p.checkStatement(s.Then)
		p.checkStatement(s.Else)
	case *ast.WhileStmt:
		p.want(s.Cond, sortBool, "while condition")
		p.checkStatement(s.Body)
	case *ast.AssertStmt:
		p.want(s.Cond, sortBool, "assert condition")
	}
}

func (p *Parser) want(expr ast.Expression, want sort, what string) {
	got := p.sortOf(expr)
	if got != sortInvalid && got != want {
		line, col := expr.Pos()
		p.diags.Errorf(line, col, "%s must be %s, got %s", what, want, got)
	}
}

// sortOf computes the sort of an expression, reporting operand mismatches.
func (p *Parser) sortOf(expr ast.Expression) sort {
	switch e := expr.(type) {
	case *ast.Identifier, *ast.IntLit, *ast.Hole:
		return sortInt
	case *ast.BoolLit:
		return sortBool
	case *ast.UnaryExpr:
		operand := p.sortOf(e.Operand)
		want := sortInt
		if e.Op == lexer.NOT {
			want = sortBool
		}
		if operand != sortInvalid && operand != want {
			p.diags.Errorf(e.Line, e.Column, "operand of '%s' must be %s", ast.OpSymbol(e.Op), want)
			return sortInvalid
		}
		return want
	case *ast.BinaryExpr:
		left, right := p.sortOf(e.Left), p.sortOf(e.Right)
		if left == sortInvalid || right == sortInvalid {
			return sortInvalid
		}
		switch {
		case e.Op.IsArithmetic():
			if left != sortInt || right != sortInt {
				p.diags.Errorf(e.Line, e.Column, "operands of '%s' must be integers", ast.OpSymbol(e.Op))
				return sortInvalid
			}
			return sortInt
		case e.Op == lexer.EQ || e.Op == lexer.NEQ:
			if left != right {
				p.diags.Errorf(e.Line, e.Column, "cannot compare %s with %s", left, right)
				return sortInvalid
			}
			return sortBool
		case e.Op.IsComparison():
			if left != sortInt || right != sortInt {
				p.diags.Errorf(e.Line, e.Column, "operands of '%s' must be integers", ast.OpSymbol(e.Op))
				return sortInvalid
			}
			return sortBool
		default:
			if left != sortBool || right != sortBool {
				p.diags.Errorf(e.Line, e.Column, "operands of '%s' must be boolean", ast.OpSymbol(e.Op))
				return sortInvalid
			}
			return sortBool
		}
	}
	return sortInvalid
}
