package testgen

import (
	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/lexer"
)

// VarConstraint holds extracted bounds for a single variable.
type VarConstraint struct {
	Name     string
	Lower    *int64 // inclusive lower bound (nil = unbounded)
	Upper    *int64 // inclusive upper bound (nil = unbounded)
	NotEqual []int64
}

// AnalyzeConstraints extracts variable bounds from a precondition. Only
// top-level conjunctions of "variable op literal" are understood; anything
// else is ignored and left to the precondition filter.
func AnalyzeConstraints(vars []string, pre ast.Expression) map[string]*VarConstraint {
	constraints := make(map[string]*VarConstraint, len(vars))
	for _, v := range vars {
		constraints[v] = &VarConstraint{Name: v}
	}
	if pre != nil {
		extractFromExpr(pre, constraints)
	}
	return constraints
}

// extractFromExpr recursively extracts constraints from a single expression.
func extractFromExpr(expr ast.Expression, constraints map[string]*VarConstraint) {
	e, ok := expr.(*ast.BinaryExpr)
	if !ok {
		return
	}
	if e.Op == lexer.AND {
		extractFromExpr(e.Left, constraints)
		extractFromExpr(e.Right, constraints)
		return
	}
	extractComparison(e, constraints)
}

// extractComparison handles comparisons like `n >= 0`, `3 < n`, `n != 5`.
func extractComparison(e *ast.BinaryExpr, constraints map[string]*VarConstraint) {
	if ident, ok := e.Left.(*ast.Identifier); ok {
		if lit, ok := e.Right.(*ast.IntLit); ok {
			if c, exists := constraints[ident.Name]; exists {
				applyBound(c, e.Op, lit.Value)
			}
			return
		}
	}

	// reversed: 5 < n means n > 5
	if lit, ok := e.Left.(*ast.IntLit); ok {
		if ident, ok := e.Right.(*ast.Identifier); ok {
			if c, exists := constraints[ident.Name]; exists {
				applyBound(c, reverseOp(e.Op), lit.Value)
			}
		}
	}
}

// applyBound tightens c with one comparison.
func applyBound(c *VarConstraint, op lexer.TokenType, val int64) {
	switch op {
	case lexer.GEQ:
		c.raiseLower(val)
	case lexer.GT:
		c.raiseLower(val + 1)
	case lexer.LEQ:
		c.lowerUpper(val)
	case lexer.LT:
		c.lowerUpper(val - 1)
	case lexer.NEQ:
		c.NotEqual = append(c.NotEqual, val)
	case lexer.EQ:
		c.raiseLower(val)
		c.lowerUpper(val)
	}
}

func (c *VarConstraint) raiseLower(v int64) {
	if c.Lower == nil || v > *c.Lower {
		c.Lower = int64Ptr(v)
	}
}

func (c *VarConstraint) lowerUpper(v int64) {
	if c.Upper == nil || v < *c.Upper {
		c.Upper = int64Ptr(v)
	}
}

// reverseOp flips a comparison operator (for "intLit OP ident" -> "ident reverseOP intLit").
func reverseOp(op lexer.TokenType) lexer.TokenType {
	switch op {
	case lexer.GT:
		return lexer.LT
	case lexer.LT:
		return lexer.GT
	case lexer.GEQ:
		return lexer.LEQ
	case lexer.LEQ:
		return lexer.GEQ
	default:
		return op // =, != are symmetric
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
