package ast

import "github.com/lhaig/whilesynth/internal/lexer"

// Node is the base interface for all AST nodes
type Node interface {
	Pos() (line, col int)
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// SkipStmt represents skip
type SkipStmt struct {
	Line   int
	Column int
}

func (s *SkipStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *SkipStmt) stmtNode()       {}

// AssignStmt represents name := value
type AssignStmt struct {
	Name   string
	Value  Expression
	Line   int
	Column int
}

func (a *AssignStmt) Pos() (int, int) { return a.Line, a.Column }
func (a *AssignStmt) stmtNode()       {}

// SeqStmt represents First ; Second
type SeqStmt struct {
	First  Statement
	Second Statement
	Line   int
	Column int
}

func (s *SeqStmt) Pos() (int, int) { return s.Line, s.Column }
func (s *SeqStmt) stmtNode()       {}

// IfStmt represents if Cond then Then else Else
type IfStmt struct {
	Cond   Expression
	Then   Statement
	Else   Statement
	Line   int
	Column int
}

func (i *IfStmt) Pos() (int, int) { return i.Line, i.Column }
func (i *IfStmt) stmtNode()       {}

// IfUnrolledStmt is one iteration of an unrolled loop. It executes like
// IfStmt but its weakest precondition also demands the loop invariant.
type IfUnrolledStmt struct {
	Cond   Expression
	Then   Statement
	Else   Statement
	Line   int
	Column int
}

func (i *IfUnrolledStmt) Pos() (int, int) { return i.Line, i.Column }
func (i *IfUnrolledStmt) stmtNode()       {}

// WhileStmt represents while Cond do Body
type WhileStmt struct {
	Cond   Expression
	Body   Statement
	Line   int
	Column int
}

func (w *WhileStmt) Pos() (int, int) { return w.Line, w.Column }
func (w *WhileStmt) stmtNode()       {}

// AssertStmt represents assert Cond
type AssertStmt struct {
	Cond   Expression
	Line   int
	Column int
}

func (a *AssertStmt) Pos() (int, int) { return a.Line, a.Column }
func (a *AssertStmt) stmtNode()       {}

// BinaryExpr represents a binary expression
type BinaryExpr struct {
	Left   Expression
	Op     lexer.TokenType
	Right  Expression
	Line   int
	Column int
}

func (b *BinaryExpr) Pos() (int, int) { return b.Line, b.Column }
func (b *BinaryExpr) exprNode()       {}

// UnaryExpr represents not or arithmetic negation. It only appears in
// conditions.
type UnaryExpr struct {
	Op      lexer.TokenType
	Operand Expression
	Line    int
	Column  int
}

func (u *UnaryExpr) Pos() (int, int) { return u.Line, u.Column }
func (u *UnaryExpr) exprNode()       {}

// Identifier represents a variable reference
type Identifier struct {
	Name   string
	Line   int
	Column int
}

func (i *Identifier) Pos() (int, int) { return i.Line, i.Column }
func (i *Identifier) exprNode()       {}

// IntLit represents an integer literal
type IntLit struct {
	Value  int64
	Line   int
	Column int
}

func (i *IntLit) Pos() (int, int) { return i.Line, i.Column }
func (i *IntLit) exprNode()       {}

// BoolLit represents true or false in a condition
type BoolLit struct {
	Value  bool
	Line   int
	Column int
}

func (b *BoolLit) Pos() (int, int) { return b.Line, b.Column }
func (b *BoolLit) exprNode()       {}

// Hole represents ?? before hole processing names it
type Hole struct {
	Line   int
	Column int
}

func (h *Hole) Pos() (int, int) { return h.Line, h.Column }
func (h *Hole) exprNode()       {}
