package parser

import (
	"github.com/pkg/errors"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/lexer"
)

// Precedence levels for the condition language
const (
	precNone = iota
	precImplies
	precOr
	precAnd
	precNot
	precComparison
	precAdditive
	precMulti
)

// ParseCondition parses a precondition, postcondition or invariant. The
// returned error wraps ErrInvalidCondition.
func ParseCondition(text string) (ast.Expression, error) {
	p := New(text)
	expr := p.ParseCondition()
	if p.diags.HasErrors() {
		return nil, errors.WithStack(&Error{kind: ErrInvalidCondition, Source: "condition", Diags: p.diags})
	}
	return expr, nil
}

// ParseCondition parses the token stream as one boolean condition.
func (p *Parser) ParseCondition() ast.Expression {
	expr := p.parseCondExpr()
	if expr == nil {
		return nil
	}
	if !p.check(lexer.EOF) {
		p.errorAt(p.current(), "unexpected %s after end of condition", describe(p.current()))
		return nil
	}
	switch p.sortOf(expr) {
	case sortBool:
		return expr
	case sortInt:
		line, col := expr.Pos()
		p.diags.Errorf(line, col, "condition must be boolean, got an integer expression")
	}
	return nil
}

func tokenPrecedence(tt lexer.TokenType) int {
	switch tt {
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
		return precNone
	}
}

func (p *Parser) parseCondExpr() ast.Expression {
	return p.parsePrecedence(precImplies)
}

func (p *Parser) parsePrecedence(minPrec int) ast.Expression {
	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for {
		prec := tokenPrecedence(p.current().Type)
		if prec == precNone || prec < minPrec {
			break
		}

		op := p.advance()

		// Right-associative for implies
		nextPrec := prec + 1
		if op.Type == lexer.IMPLIES {
			nextPrec = prec
		}

		right := p.parsePrecedence(nextPrec)
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{
			Left:   left,
			Op:     op.Type,
			Right:  right,
			Line:   op.Line,
			Column: op.Column,
		}
	}

	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.check(lexer.NOT) {
		op := p.advance()
		operand := p.parsePrecedence(precComparison)
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{Op: op.Type, Operand: operand, Line: op.Line, Column: op.Column}
	}
	if p.check(lexer.MINUS) {
		op := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{Op: op.Type, Operand: operand, Line: op.Line, Column: op.Column}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.current()
	switch tok.Type {
	case lexer.IDENT:
		if p.peek().Type == lexer.LPAREN {
			return p.parseCall()
		}
		p.advance()
		return &ast.Identifier{Name: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.INT_LIT:
		p.advance()
		return p.intLit(tok)
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Value: tok.Type == lexer.TRUE, Line: tok.Line, Column: tok.Column}
	case lexer.LPAREN:
		p.advance()
		expr := p.parseCondExpr()
		if expr == nil {
			return nil
		}
		if p.expect(lexer.RPAREN).Type != lexer.RPAREN {
			return nil
		}
		return expr
	case lexer.HOLE:
		p.errorAt(tok, "holes are not allowed in conditions")
		return nil
	default:
		p.errorAt(tok, "expected expression, got %s", describe(tok))
		return nil
	}
}

// parseCall parses the function forms And(...), Or(...), Not(x) and
// Implies(a, b).
func (p *Parser) parseCall() ast.Expression {
	name := p.advance()
	p.advance() // consume '('

	var args []ast.Expression
	if !p.check(lexer.RPAREN) {
		for {
			arg := p.parseCondExpr()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	if p.expect(lexer.RPAREN).Type != lexer.RPAREN {
		return nil
	}

	switch name.Literal {
	case "And", "Or":
		op, unit := lexer.AND, true
		if name.Literal == "Or" {
			op, unit = lexer.OR, false
		}
		if len(args) == 0 {
			return &ast.BoolLit{Value: unit, Line: name.Line, Column: name.Column}
		}
		expr := args[0]
		for _, arg := range args[1:] {
			expr = &ast.BinaryExpr{Left: expr, Op: op, Right: arg, Line: name.Line, Column: name.Column}
		}
		return expr
	case "Not":
		if len(args) != 1 {
			p.errorAt(name, "Not takes 1 argument, got %d", len(args))
			return nil
		}
		return &ast.UnaryExpr{Op: lexer.NOT, Operand: args[0], Line: name.Line, Column: name.Column}
	case "Implies":
		if len(args) != 2 {
			p.errorAt(name, "Implies takes 2 arguments, got %d", len(args))
			return nil
		}
		return &ast.BinaryExpr{Left: args[0], Op: lexer.IMPLIES, Right: args[1], Line: name.Line, Column: name.Column}
	default:
		p.errorAt(name, "unknown function '%s'", name.Literal)
		return nil
	}
}
