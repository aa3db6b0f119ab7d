package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENT   // x, y, hole_0
	INT_LIT // 123, -4
	HOLE    // ??

	// Statement keywords
	SKIP
	IF
	IF_UNROLLED
	THEN
	ELSE
	WHILE
	DO
	ASSERT

	// Condition keywords
	AND
	OR
	NOT
	IMPLIES
	TRUE
	FALSE

	// Operators
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	EQ     // = or ==
	NEQ    // !=
	LT     // <
	GT     // >
	LEQ    // <=
	GEQ    // >=
	ASSIGN // :=

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	COMMA     // ,
	SEMICOLON // ;
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	Offset  int // byte offset of the first character
}

var tokenNames = map[TokenType]string{
	ILLEGAL:     "ILLEGAL",
	EOF:         "EOF",
	IDENT:       "IDENT",
	INT_LIT:     "INT_LIT",
	HOLE:        "HOLE",
	SKIP:        "SKIP",
	IF:          "IF",
	IF_UNROLLED: "IF_UNROLLED",
	THEN:        "THEN",
	ELSE:        "ELSE",
	WHILE:       "WHILE",
	DO:          "DO",
	ASSERT:      "ASSERT",
	AND:         "AND",
	OR:          "OR",
	NOT:         "NOT",
	IMPLIES:     "IMPLIES",
	TRUE:        "TRUE",
	FALSE:       "FALSE",
	PLUS:        "PLUS",
	MINUS:       "MINUS",
	STAR:        "STAR",
	SLASH:       "SLASH",
	EQ:          "EQ",
	NEQ:         "NEQ",
	LT:          "LT",
	GT:          "GT",
	LEQ:         "LEQ",
	GEQ:         "GEQ",
	ASSIGN:      "ASSIGN",
	LPAREN:      "LPAREN",
	RPAREN:      "RPAREN",
	COMMA:       "COMMA",
	SEMICOLON:   "SEMICOLON",
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsComparison reports whether the token is a relational operator.
func (t TokenType) IsComparison() bool {
	switch t {
	case EQ, NEQ, LT, GT, LEQ, GEQ:
		return true
	}
	return false
}

// IsArithmetic reports whether the token is one of + - * /.
func (t TokenType) IsArithmetic() bool {
	switch t {
	case PLUS, MINUS, STAR, SLASH:
		return true
	}
	return false
}

// keywords maps keyword strings to their token types
var keywords = map[string]TokenType{
	"skip":        SKIP,
	"if":          IF,
	"if_unrolled": IF_UNROLLED,
	"then":        THEN,
	"else":        ELSE,
	"while":       WHILE,
	"do":          DO,
	"assert":      ASSERT,
	"and":         AND,
	"or":          OR,
	"not":         NOT,
	"implies":     IMPLIES,
	"true":        TRUE,
	"false":       FALSE,
	"True":        TRUE,
	"False":       FALSE,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
