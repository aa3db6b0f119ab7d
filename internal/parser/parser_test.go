package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/lhaig/whilesynth/internal/ast"
	"github.com/lhaig/whilesynth/internal/lexer"
)

func TestParseAssign(t *testing.T) {
	p := New("x := 2 * ??")
	stmt := p.ParseProgram()

	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected errors: %s", p.Diagnostics().Format("test"))
	}
	assign, ok := stmt.(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected *ast.AssignStmt, got %T", stmt)
	}
	if assign.Name != "x" {
		t.Errorf("expected name 'x', got %q", assign.Name)
	}
	bin, ok := assign.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpr, got %T", assign.Value)
	}
	if bin.Op != lexer.STAR {
		t.Errorf("expected STAR, got %s", bin.Op)
	}
	if _, ok := bin.Right.(*ast.Hole); !ok {
		t.Errorf("expected hole on the right, got %T", bin.Right)
	}
}

func TestParseSequenceIsRightAssociative(t *testing.T) {
	p := New("a := 1 ; b := 2 ; c := 3")
	stmt := p.ParseProgram()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected errors: %s", p.Diagnostics().Format("test"))
	}

	seq, ok := stmt.(*ast.SeqStmt)
	if !ok {
		t.Fatalf("expected *ast.SeqStmt, got %T", stmt)
	}
	if _, ok := seq.First.(*ast.AssignStmt); !ok {
		t.Errorf("expected first to be an assignment, got %T", seq.First)
	}
	if _, ok := seq.Second.(*ast.SeqStmt); !ok {
		t.Errorf("expected second to be a sequence, got %T", seq.Second)
	}
}

func TestParseIfElseBinding(t *testing.T) {
	// The else branch takes a single S1, so the trailing assignment follows
	// the whole if statement.
	p := New("if x < 1 then a := 1 ; b := 2 else c := 3 ; d := 4")
	stmt := p.ParseProgram()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected errors: %s", p.Diagnostics().Format("test"))
	}

	seq, ok := stmt.(*ast.SeqStmt)
	if !ok {
		t.Fatalf("expected *ast.SeqStmt, got %T", stmt)
	}
	ifStmt, ok := seq.First.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", seq.First)
	}
	if _, ok := ifStmt.Then.(*ast.SeqStmt); !ok {
		t.Errorf("expected then branch to be a sequence, got %T", ifStmt.Then)
	}
	if _, ok := ifStmt.Else.(*ast.AssignStmt); !ok {
		t.Errorf("expected else branch to be an assignment, got %T", ifStmt.Else)
	}
}

func TestParseWhileBodyIsSingleStatement(t *testing.T) {
	p := New("while x < t do (y := y + 1 ; x := x + 1) ; assert y = 5")
	stmt := p.ParseProgram()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected errors: %s", p.Diagnostics().Format("test"))
	}

	seq := stmt.(*ast.SeqStmt)
	loop, ok := seq.First.(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected *ast.WhileStmt, got %T", seq.First)
	}
	if _, ok := loop.Body.(*ast.SeqStmt); !ok {
		t.Errorf("expected loop body to be a sequence, got %T", loop.Body)
	}
	if _, ok := seq.Second.(*ast.AssertStmt); !ok {
		t.Errorf("expected assert after the loop, got %T", seq.Second)
	}
}

func TestParseIfUnrolled(t *testing.T) {
	stmt, err := Parse("if_unrolled (x < 3) then (x := (x + 1)) else (skip)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := stmt.(*ast.IfUnrolledStmt); !ok {
		t.Fatalf("expected *ast.IfUnrolledStmt, got %T", stmt)
	}
}

func TestParseTextRoundTrip(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x := 1", "x := 1"},
		{"x := -1", "x := -1"},
		{"x := a - -1", "x := (a - -1)"},
		{"z:= x + 8;w := z - 1", "z := (x + 8) ; w := (z - 1)"},
		{"assert(a = c)", "assert (a = c)"},
		{"if a != c then skip else x := 2", "if (a != c) then (skip) else (x := 2)"},
		{"while x < t do (y := y + 1 ; x := x + 1)", "while (x < t) do (y := (y + 1) ; x := (x + 1))"},
		{"x := ?? ; y := ??", "x := ?? ; y := ??"},
		{"((skip))", "skip"},
		{"x := (a * (b + 1))", "x := (a * (b + 1))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := ast.Text(stmt)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}

			again, err := Parse(got)
			if err != nil {
				t.Fatalf("printed text does not parse: %v", err)
			}
			if ast.Text(again) != got {
				t.Errorf("round trip changed text: %q -> %q", got, ast.Text(again))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"trailing semicolon", "c1 := ?? ; c2 := ?? ;", "expected statement, got end of input"},
		{"missing then", "if x < 1 skip else skip", "expected THEN"},
		{"missing else", "if x < 1 then skip", "expected ELSE"},
		{"unclosed paren", "(x := 1", "expected RPAREN"},
		{"double operator", "x := a + b + c", "unexpected '+' after end of program"},
		{"double equals", "assert x == 1", "'==' is not an operator in programs"},
		{"integer condition", "if x then skip else skip", "if condition must be boolean"},
		{"boolean assignment", "x := a < b", "value assigned to 'x' must be integer"},
		{"integer assert", "assert x + 1", "assert condition must be boolean"},
		{"illegal character", "x := 1 $ 2", "illegal character '$'"},
		{"empty program", "", "expected statement, got end of input"},
		{"keyword as variable", "then := 1", "expected statement, got 'then'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("expected error, got %s", ast.Text(stmt))
			}
			if !errors.Is(err, ErrInvalidProgram) {
				t.Errorf("expected ErrInvalidProgram, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestParseErrorHint(t *testing.T) {
	p := New("assert x == 1")
	p.ParseProgram()
	out := p.Diagnostics().Format("program")
	if !strings.Contains(out, "hint: use '=' for equality") {
		t.Errorf("expected hint in %q", out)
	}
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"true", "true"},
		{"True", "true"},
		{"x = 1", "(x = 1)"},
		{"x == 1", "(x = 1)"},
		{"x >= 0 and x < 10", "((x >= 0) and (x < 10))"},
		{"a = 1 or b = 2 and c = 3", "((a = 1) or ((b = 2) and (c = 3)))"},
		{"not x = 1", "(not (x = 1))"},
		{"a > 0 implies b > 0 implies c > 0", "((a > 0) implies ((b > 0) implies (c > 0)))"},
		{"y = x + 2 * z", "(y = (x + (2 * z)))"},
		{"-x < 3", "((-x) < 3)"},
		{"x - 1 > 0", "((x - 1) > 0)"},
		{"And(x > 0, y > 0, z > 0)", "(((x > 0) and (y > 0)) and (z > 0))"},
		{"Or()", "false"},
		{"And()", "true"},
		{"Not(x = 1)", "(not (x = 1))"},
		{"Implies(x = 1, y = 2)", "((x = 1) implies (y = 2))"},
		{"(x = 1) = (y = 2)", "((x = 1) = (y = 2))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := ParseCondition(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := ast.Text(expr)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestParseConditionErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantMsg string
	}{
		{"x + 1", "condition must be boolean"},
		{"x = ??", "holes are not allowed in conditions"},
		{"Foo(x)", "unknown function 'Foo'"},
		{"Not(x = 1, y = 2)", "Not takes 1 argument, got 2"},
		{"x = 1 and y", "operands of 'and' must be boolean"},
		{"(x = 1) + 2", "operands of '+' must be integers"},
		{"x = (y < 2)", "cannot compare integer with boolean"},
		{"x = 1 )", "unexpected ')' after end of condition"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseCondition(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidCondition) {
				t.Errorf("expected ErrInvalidCondition, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}
