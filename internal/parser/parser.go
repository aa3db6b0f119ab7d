package parser

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/diagnostic"
	"github.com/lhaig/whilesynth/internal/lexer"
)

// New creates a new parser
func New(source string) *Parser {
	l := lexer.New(source)
	tokens := l.Tokenize()
	return &Parser{
		tokens: tokens,
		pos:    0,
		diags:  diagnostic.New(),
	}
}

// Diagnostics returns the parser's diagnostics
func (p *Parser) Diagnostics() *diagnostic.Diagnostics {
	return p.diags
}

// Parse parses program text. The returned error wraps ErrInvalidProgram
// and lists every diagnostic.
func Parse(text string) (ast.Statement, error) {
	p := New(text)
	stmt := p.ParseProgram()
	if p.diags.HasErrors() {
		return nil, errors.WithStack(&Error{kind: ErrInvalidProgram, Source: "program", Diags: p.diags})
	}
	return stmt, nil
}

// ParseProgram parses the whole token stream as one statement.
//
//	S  -> S1 | S1 ; S
//	S1 -> skip | id := E | if E then S else S1 | if_unrolled E then S else S1
//	    | while E do S1 | assert E | ( S )
func (p *Parser) ParseProgram() ast.Statement {
	stmt := p.parseSeq()
	if !p.check(lexer.EOF) {
		p.errorAt(p.current(), "unexpected %s after end of program", describe(p.current()))
	}
	if stmt != nil {
		p.checkStatement(stmt)
	}
	return stmt
}

func (p *Parser) parseSeq() ast.Statement {
	first := p.parseStatement()
	if first == nil {
		return nil
	}
	if !p.check(lexer.SEMICOLON) {
		return first
	}
	tok := p.advance()
	second := p.parseSeq()
	if second == nil {
		return nil
	}
	return &ast.SeqStmt{First: first, Second: second, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) parseStatement() ast.Statement {
	tok := p.current()
	switch tok.Type {
	case lexer.SKIP:
		p.advance()
		return &ast.SkipStmt{Line: tok.Line, Column: tok.Column}
	case lexer.IDENT:
		return p.parseAssign()
	case lexer.IF, lexer.IF_UNROLLED:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.ASSERT:
		p.advance()
		cond := p.parseExpr()
		if cond == nil {
			return nil
		}
		return &ast.AssertStmt{Cond: cond, Line: tok.Line, Column: tok.Column}
	case lexer.LPAREN:
		p.advance()
		stmt := p.parseSeq()
		if stmt == nil {
			return nil
		}
		if p.expect(lexer.RPAREN).Type != lexer.RPAREN {
			return nil
		}
		return stmt
	default:
		p.errorAt(tok, "expected statement, got %s", describe(tok))
		return nil
	}
}

// parseAssign parses: id := E
func (p *Parser) parseAssign() ast.Statement {
	name := p.advance()
	if p.expect(lexer.ASSIGN).Type != lexer.ASSIGN {
		return nil
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	return &ast.AssignStmt{Name: name.Literal, Value: value, Line: name.Line, Column: name.Column}
}

// parseIf parses both if and if_unrolled
func (p *Parser) parseIf() ast.Statement {
	tok := p.advance()
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	if p.expect(lexer.THEN).Type != lexer.THEN {
		return nil
	}
	then := p.parseSeq()
	if then == nil {
		return nil
	}
	if p.expect(lexer.ELSE).Type != lexer.ELSE {
		return nil
	}
	els := p.parseStatement()
	if els == nil {
		return nil
	}
	if tok.Type == lexer.IF_UNROLLED {
		return &ast.IfUnrolledStmt{Cond: cond, Then: then, Else: els, Line: tok.Line, Column: tok.Column}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els, Line: tok.Line, Column: tok.Column}
}

// parseWhile parses: while E do S1
func (p *Parser) parseWhile() ast.Statement {
	tok := p.advance()
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	if p.expect(lexer.DO).Type != lexer.DO {
		return nil
	}
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Line: tok.Line, Column: tok.Column}
}

// parseExpr parses a program expression. Programs allow a single binary
// operator per level; deeper nesting needs parentheses.
//
//	E  -> E0 | E0 op E0
//	E0 -> id | num | ?? | ( E )
func (p *Parser) parseExpr() ast.Expression {
	left := p.parseOperand()
	if left == nil {
		return nil
	}
	op := p.current()
	if !op.Type.IsArithmetic() && !op.Type.IsComparison() {
		return left
	}
	if op.Type == lexer.EQ && op.Literal == "==" {
		p.diags.ErrorWithHint(op.Line, op.Column, "'==' is not an operator in programs", "use '=' for equality")
	}
	p.advance()
	right := p.parseOperand()
	if right == nil {
		return nil
	}
	return &ast.BinaryExpr{Left: left, Op: op.Type, Right: right, Line: op.Line, Column: op.Column}
}

func (p *Parser) parseOperand() ast.Expression {
	tok := p.current()
	switch tok.Type {
	case lexer.IDENT:
		p.advance()
		return &ast.Identifier{Name: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.INT_LIT:
		p.advance()
		return p.intLit(tok)
	case lexer.HOLE:
		p.advance()
		return &ast.Hole{Line: tok.Line, Column: tok.Column}
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		if p.expect(lexer.RPAREN).Type != lexer.RPAREN {
			return nil
		}
		return expr
	default:
		p.errorAt(tok, "expected expression, got %s", describe(tok))
		return nil
	}
}

func (p *Parser) intLit(tok lexer.Token) ast.Expression {
	value, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.errorAt(tok, "integer literal %s out of range", tok.Literal)
		return nil
	}
	return &ast.IntLit{Value: value, Line: tok.Line, Column: tok.Column}
}
