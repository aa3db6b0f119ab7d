package linter

import (
	"strings"
	"testing"

	"github.com/lhaig/whilesynth/internal/diagnostic"
	"github.com/lhaig/whilesynth/internal/parser"
)

func parseAndLint(t *testing.T, source string) []string {
	t.Helper()
	stmt, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("Parser errors: %v", err)
	}

	diag := Lint(stmt)
	var warnings []string
	for _, d := range diag.All() {
		if d.Severity != diagnostic.Warning {
			t.Errorf("Expected only warnings, got %s: %s", d.Severity, d.Message)
		}
		warnings = append(warnings, d.Message)
	}
	return warnings
}

func containsWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

// --- Clean program ---

func TestCleanProgramNoWarnings(t *testing.T) {
	source := `i := 0 ; s := 0 ;
while i < n do (s := s + i ; i := i + 1) ;
assert s >= 0`
	warnings := parseAndLint(t, source)
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got: %v", warnings)
	}
}

// --- Reserved hole names ---

func TestHoleNamedVariable(t *testing.T) {
	warnings := parseAndLint(t, "hole_0 := 1 ; x := hole_0 + 1")
	if !containsWarning(warnings, "reserved for holes") {
		t.Errorf("Expected reserved name warning, got: %v", warnings)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected one warning per name, got: %v", warnings)
	}
}

func TestHoleLikeNameNoWarning(t *testing.T) {
	warnings := parseAndLint(t, "hole_x := 1 ; myhole_1 := 2")
	if containsWarning(warnings, "reserved for holes") {
		t.Errorf("Did not expect reserved name warning, got: %v", warnings)
	}
}

// --- Variable naming ---

func TestUppercaseVariable(t *testing.T) {
	warnings := parseAndLint(t, "Total := 1")
	if !containsWarning(warnings, "should start with a lowercase letter") {
		t.Errorf("Expected naming warning, got: %v", warnings)
	}
}

// --- Self-assignment ---

func TestSelfAssignment(t *testing.T) {
	warnings := parseAndLint(t, "x := 1 ; x := x")
	if !containsWarning(warnings, "self-assignment of 'x'") {
		t.Errorf("Expected self-assignment warning, got: %v", warnings)
	}
}

func TestAssignmentFromOtherVariableNoWarning(t *testing.T) {
	warnings := parseAndLint(t, "x := y ; x := x + 0")
	if containsWarning(warnings, "self-assignment") {
		t.Errorf("Did not expect self-assignment warning, got: %v", warnings)
	}
}

// --- Constant conditions ---

func TestConstantConditions(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"if 1 < 2 then x := 1 else x := 2", "condition of 'if' is always true"},
		{"if x != x then x := 1 else x := 2", "condition of 'if' is always false"},
		{"while 0 > 1 do x := x + 1", "condition of 'while' is always false"},
		{"while x <= x do x := x + 1", "condition of 'while' is always true"},
		{"assert 3 = 3", "assertion '(3 = 3)' always holds"},
		{"assert y < y", "condition of 'assert' is always false"},
		{"if_unrolled 5 >= 5 then skip else skip", "condition of 'if_unrolled' is always true"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			warnings := parseAndLint(t, tt.source)
			if !containsWarning(warnings, tt.want) {
				t.Errorf("Expected %q, got: %v", tt.want, warnings)
			}
		})
	}
}

func TestVariableConditionNoWarning(t *testing.T) {
	warnings := parseAndLint(t, "if x < y then x := 1 else x := 2 ; assert x > 0")
	if containsWarning(warnings, "always") {
		t.Errorf("Did not expect constant condition warning, got: %v", warnings)
	}
}

// --- Division by zero ---

func TestDivisionByZero(t *testing.T) {
	warnings := parseAndLint(t, "x := y / 0")
	if !containsWarning(warnings, "division by zero") {
		t.Errorf("Expected division by zero warning, got: %v", warnings)
	}
}

func TestDivisionByVariableNoWarning(t *testing.T) {
	warnings := parseAndLint(t, "x := y / z ; w := 0 / y")
	if containsWarning(warnings, "division by zero") {
		t.Errorf("Did not expect division by zero warning, got: %v", warnings)
	}
}

// --- Loop progress ---

func TestLoopWithoutProgress(t *testing.T) {
	warnings := parseAndLint(t, "while i < n do s := s + 1")
	if !containsWarning(warnings, "loop body never assigns 'i', 'n'") {
		t.Errorf("Expected loop progress warning, got: %v", warnings)
	}
}

func TestLoopWithProgressNoWarning(t *testing.T) {
	warnings := parseAndLint(t, "while i < n do (if s > 0 then i := i + 1 else s := s + 1)")
	if containsWarning(warnings, "never assigns") {
		t.Errorf("Did not expect loop progress warning, got: %v", warnings)
	}
}

func TestWarningPositions(t *testing.T) {
	stmt, err := parser.Parse("x := 1 ;\nx := x")
	if err != nil {
		t.Fatalf("Parser errors: %v", err)
	}
	all := Lint(stmt).All()
	if len(all) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(all))
	}
	if all[0].Line != 2 || all[0].Column != 1 {
		t.Errorf("Expected warning at 2:1, got %d:%d", all[0].Line, all[0].Column)
	}
}
