package parser

import (
	"github.com/pkg/errors"

	"github.com/lhaig/whilesynth/internal/diagnostic"
	"github.com/lhaig/whilesynth/internal/lexer"
)

var (
	// ErrInvalidProgram is the cause of every failed program parse.
	ErrInvalidProgram = errors.New("program not valid")
	// ErrInvalidCondition is the cause of every failed condition parse.
	ErrInvalidCondition = errors.New("condition not valid")
)

// Error carries the diagnostics of a failed parse. errors.Is matches it
// against ErrInvalidProgram or ErrInvalidCondition.
type Error struct {
	kind   error
	Source string
	Diags  *diagnostic.Diagnostics
}

func (e *Error) Error() string {
	return e.kind.Error() + ": " + e.Diags.Err(e.Source).Error()
}

func (e *Error) Unwrap() error { return e.kind }

// Parser holds the parser state
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Diagnostics
}

// current returns the current token
func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without consuming
func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token and returns the consumed token
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches the expected type,
// otherwise reports an error
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	tok := p.current()
	if tok.Type != tt {
		p.errorAt(tok, "expected %s, got %s", tt, describe(tok))
		return tok
	}
	return p.advance()
}

// check returns true if the current token is of the given type
func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

// match consumes the current token if it matches, returns true if consumed
func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

// errorAt records an error. Only the first error at a given position is
// kept so a single bad token does not cascade.
func (p *Parser) errorAt(tok lexer.Token, format string, args ...interface{}) {
	for _, d := range p.diags.Errors() {
		if d.Line == tok.Line && d.Column == tok.Column {
			return
		}
	}
	p.diags.Errorf(tok.Line, tok.Column, format, args...)
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.ILLEGAL:
		return "illegal character '" + tok.Literal + "'"
	}
	return "'" + tok.Literal + "'"
}
