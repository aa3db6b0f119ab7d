// Package unroll replaces while loops by a fixed number of guarded
// iterations.
package unroll

import (
	"github.com/lhaig/whilesynth/internal/ast"
)

// Unroll rewrites every "while c do S" in stmt into a left-associated
// sequence of bound copies of "if_unrolled c then S else skip". Loops nested
// in a body are unrolled first. The input tree is not modified; bound must
// be at least 1.
func Unroll(stmt ast.Statement, bound int) ast.Statement {
	switch s := stmt.(type) {
	case *ast.SeqStmt:
		return &ast.SeqStmt{First: Unroll(s.First, bound), Second: Unroll(s.Second, bound), Line: s.Line, Column: s.Column}
	case *ast.IfStmt:
		return &ast.IfStmt{Cond: s.Cond, Then: Unroll(s.Then, bound), Else: Unroll(s.Else, bound), Line: s.Line, Column: s.Column}
	case *ast.IfUnrolledStmt:
		return &ast.IfUnrolledStmt{Cond: s.Cond, Then: Unroll(s.Then, bound), Else: Unroll(s.Else, bound), Line: s.Line, Column: s.Column}
	case *ast.WhileStmt:
		body := Unroll(s.Body, bound)
		iteration := func() ast.Statement {
			return &ast.IfUnrolledStmt{
				Cond:   s.Cond,
				Then:   body,
				Else:   &ast.SkipStmt{Line: s.Line, Column: s.Column},
				Line:   s.Line,
				Column: s.Column,
			}
		}
		var out ast.Statement = iteration()
		for i := 1; i < bound; i++ {
			out = &ast.SeqStmt{First: out, Second: iteration(), Line: s.Line, Column: s.Column}
		}
		return out
	}
	return stmt
}

// Loops counts the while loops in stmt.
func Loops(stmt ast.Statement) int {
	count := 0
	ast.Inspect(stmt, func(n ast.Node) bool {
		if _, ok := n.(*ast.WhileStmt); ok {
			count++
		}
		return true
	})
	return count
}
