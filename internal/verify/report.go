package verify

import (
	"fmt"
	"strings"

	"github.com/lhaig/whilesynth/internal/smt"
)

// Report describes one verified triple for display.
type Report struct {
	Program   string
	Pre       string
	Post      string
	Invariant string
	Result    *Result
}

// Status returns "verified" or "not verified".
func (r *Report) Status() string {
	if r.Result != nil && r.Result.Verified {
		return "verified"
	}
	return "not verified"
}

// FormatReport produces human-readable output for a verification report.
func FormatReport(r *Report) string {
	var sb strings.Builder

	sb.WriteString("Verification Report\n")
	sb.WriteString("===================\n\n")

	fmt.Fprintf(&sb, "  %-10s %s\n", "program:", r.Program)
	fmt.Fprintf(&sb, "  %-10s %s\n", "pre:", orTrue(r.Pre))
	fmt.Fprintf(&sb, "  %-10s %s\n", "post:", orTrue(r.Post))
	fmt.Fprintf(&sb, "  %-10s %s\n", "invariant:", orTrue(r.Invariant))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "  Status: %s\n", strings.ToUpper(r.Status()))
	if r.Result != nil && !r.Result.Verified {
		sb.WriteString(formatCounterexample(r.Result.Counterexample))
	}
	return sb.String()
}

func formatCounterexample(m smt.Model) string {
	if len(m) == 0 {
		return "  Counterexample: any input\n"
	}
	var sb strings.Builder
	sb.WriteString("  Counterexample:\n")
	for _, name := range m.Names() {
		fmt.Fprintf(&sb, "    %s = %d\n", name, m[name])
	}
	return sb.String()
}

func orTrue(s string) string {
	if strings.TrimSpace(s) == "" {
		return "true"
	}
	return s
}
