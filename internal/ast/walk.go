package ast

import "sort"

// Inspect traverses the tree in depth-first order, calling f for each node.
// If f returns false the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *AssignStmt:
		Inspect(n.Value, f)
	case *SeqStmt:
		Inspect(n.First, f)
		Inspect(n.Second, f)
	case *IfStmt:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	case *IfUnrolledStmt:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	case *WhileStmt:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *AssertStmt:
		Inspect(n.Cond, f)
	case *BinaryExpr:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *UnaryExpr:
		Inspect(n.Operand, f)
	}
}

// Vars returns every variable name mentioned by the tree, assigned or read,
// sorted.
func Vars(node Node) []string {
	seen := make(map[string]bool)
	Inspect(node, func(n Node) bool {
		switch v := n.(type) {
		case *AssignStmt:
			seen[v.Name] = true
		case *Identifier:
			seen[v.Name] = true
		}
		return true
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Assigned returns the names written by assignments in the tree, sorted.
func Assigned(node Node) []string {
	seen := make(map[string]bool)
	Inspect(node, func(n Node) bool {
		if a, ok := n.(*AssignStmt); ok {
			seen[a.Name] = true
		}
		return true
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CountHoles returns the number of ?? placeholders left in the tree.
func CountHoles(node Node) int {
	count := 0
	Inspect(node, func(n Node) bool {
		if _, ok := n.(*Hole); ok {
			count++
		}
		return true
	})
	return count
}

// WithoutAsserts returns a copy of stmt with every assert removed. A
// sequence that loses one side collapses to the other; a statement left
// with nothing becomes skip. Expressions are shared with the input.
func WithoutAsserts(stmt Statement) Statement {
	if s := stripAsserts(stmt); s != nil {
		return s
	}
	line, col := stmt.Pos()
	return &SkipStmt{Line: line, Column: col}
}

func stripAsserts(stmt Statement) Statement {
	switch s := stmt.(type) {
	case *AssertStmt:
		return nil
	case *SeqStmt:
		first, second := stripAsserts(s.First), stripAsserts(s.Second)
		switch {
		case first == nil:
			return second
		case second == nil:
			return first
		}
		return &SeqStmt{First: first, Second: second, Line: s.Line, Column: s.Column}
	case *IfStmt:
		return &IfStmt{Cond: s.Cond, Then: WithoutAsserts(s.Then), Else: WithoutAsserts(s.Else), Line: s.Line, Column: s.Column}
	case *IfUnrolledStmt:
		return &IfUnrolledStmt{Cond: s.Cond, Then: WithoutAsserts(s.Then), Else: WithoutAsserts(s.Else), Line: s.Line, Column: s.Column}
	case *WhileStmt:
		return &WhileStmt{Cond: s.Cond, Body: WithoutAsserts(s.Body), Line: s.Line, Column: s.Column}
	}
	return stmt
}
