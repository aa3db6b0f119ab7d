package ast

import (
	"fmt"
	"strings"

	"github.com/lhaig/whilesynth/internal/lexer"
)

// Print returns a tree-like string representation of the AST for debugging
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *SkipStmt:
		sb.WriteString(prefix + "Skip\n")

	case *AssignStmt:
		sb.WriteString(fmt.Sprintf("%sAssign: %s\n", prefix, n.Name))
		printNode(sb, n.Value, indent+1)

	case *SeqStmt:
		sb.WriteString(prefix + "Seq\n")
		printNode(sb, n.First, indent+1)
		printNode(sb, n.Second, indent+1)

	case *IfStmt:
		sb.WriteString(prefix + "If\n")
		printBranches(sb, prefix, indent, n.Cond, n.Then, n.Else)

	case *IfUnrolledStmt:
		sb.WriteString(prefix + "IfUnrolled\n")
		printBranches(sb, prefix, indent, n.Cond, n.Then, n.Else)

	case *WhileStmt:
		sb.WriteString(prefix + "While\n")
		sb.WriteString(fmt.Sprintf("%s  Condition:\n", prefix))
		printNode(sb, n.Cond, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
		printNode(sb, n.Body, indent+2)

	case *AssertStmt:
		sb.WriteString(prefix + "Assert\n")
		printNode(sb, n.Cond, indent+1)

	case *BinaryExpr:
		sb.WriteString(fmt.Sprintf("%sBinaryExpr: %s\n", prefix, OpSymbol(n.Op)))
		sb.WriteString(fmt.Sprintf("%s  Left:\n", prefix))
		printNode(sb, n.Left, indent+2)
		sb.WriteString(fmt.Sprintf("%s  Right:\n", prefix))
		printNode(sb, n.Right, indent+2)

	case *UnaryExpr:
		sb.WriteString(fmt.Sprintf("%sUnaryExpr: %s\n", prefix, OpSymbol(n.Op)))
		sb.WriteString(fmt.Sprintf("%s  Operand:\n", prefix))
		printNode(sb, n.Operand, indent+2)

	case *Identifier:
		sb.WriteString(fmt.Sprintf("%sIdentifier: %s\n", prefix, n.Name))

	case *IntLit:
		sb.WriteString(fmt.Sprintf("%sIntLit: %d\n", prefix, n.Value))

	case *BoolLit:
		sb.WriteString(fmt.Sprintf("%sBoolLit: %t\n", prefix, n.Value))

	case *Hole:
		sb.WriteString(prefix + "Hole\n")

	default:
		sb.WriteString(fmt.Sprintf("%sUnknown node: %T\n", prefix, node))
	}
}

func printBranches(sb *strings.Builder, prefix string, indent int, cond Expression, then, els Statement) {
	sb.WriteString(fmt.Sprintf("%s  Condition:\n", prefix))
	printNode(sb, cond, indent+2)
	sb.WriteString(fmt.Sprintf("%s  Then:\n", prefix))
	printNode(sb, then, indent+2)
	sb.WriteString(fmt.Sprintf("%s  Else:\n", prefix))
	printNode(sb, els, indent+2)
}

// OpSymbol returns the surface syntax of an operator token.
func OpSymbol(op lexer.TokenType) string {
	switch op {
	case lexer.PLUS:
		return "+"
	case lexer.MINUS:
		return "-"
	case lexer.STAR:
		return "*"
	case lexer.SLASH:
		return "/"
	case lexer.EQ:
		return "="
	case lexer.NEQ:
		return "!="
	case lexer.LT:
		return "<"
	case lexer.GT:
		return ">"
	case lexer.LEQ:
		return "<="
	case lexer.GEQ:
		return ">="
	case lexer.AND:
		return "and"
	case lexer.OR:
		return "or"
	case lexer.NOT:
		return "not"
	case lexer.IMPLIES:
		return "implies"
	default:
		return op.String()
	}
}

// Text renders a statement or expression as single-line program text that
// parses back to an equivalent tree. Binary operations and branch bodies
// are fully parenthesised.
func Text(node Node) string {
	var sb strings.Builder
	writeText(&sb, node)
	return sb.String()
}

func writeText(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		return
	case *SkipStmt:
		sb.WriteString("skip")
	case *AssignStmt:
		sb.WriteString(n.Name)
		sb.WriteString(" := ")
		writeText(sb, n.Value)
	case *SeqStmt:
		writeText(sb, n.First)
		sb.WriteString(" ; ")
		writeText(sb, n.Second)
	case *IfStmt:
		writeIf(sb, "if", n.Cond, n.Then, n.Else)
	case *IfUnrolledStmt:
		writeIf(sb, "if_unrolled", n.Cond, n.Then, n.Else)
	case *WhileStmt:
		sb.WriteString("while ")
		writeText(sb, n.Cond)
		sb.WriteString(" do (")
		writeText(sb, n.Body)
		sb.WriteString(")")
	case *AssertStmt:
		sb.WriteString("assert ")
		writeText(sb, n.Cond)
	case *BinaryExpr:
		sb.WriteString("(")
		writeText(sb, n.Left)
		sb.WriteString(" " + OpSymbol(n.Op) + " ")
		writeText(sb, n.Right)
		sb.WriteString(")")
	case *UnaryExpr:
		if n.Op == lexer.NOT {
			sb.WriteString("(not ")
		} else {
			sb.WriteString("(-")
		}
		writeText(sb, n.Operand)
		sb.WriteString(")")
	case *Identifier:
		sb.WriteString(n.Name)
	case *IntLit:
		sb.WriteString(fmt.Sprintf("%d", n.Value))
	case *BoolLit:
		sb.WriteString(fmt.Sprintf("%t", n.Value))
	case *Hole:
		sb.WriteString("??")
	}
}

func writeIf(sb *strings.Builder, keyword string, cond Expression, then, els Statement) {
	sb.WriteString(keyword + " ")
	writeText(sb, cond)
	sb.WriteString(" then (")
	writeText(sb, then)
	sb.WriteString(") else (")
	writeText(sb, els)
	sb.WriteString(")")
}
