package lsp

import (
	"strings"
	"testing"

	"go.lsp.dev/protocol"

	"github.com/aisp-lang/aisp/internal/analyzer/semantic"
)

func diagnose(source string) []protocol.Diagnostic {
	s := NewServer(semantic.DefaultThresholds())
	return s.diagnosticsForSource(source)
}

func TestWellFormedSourceGetsTierInfo(t *testing.T) {
	diags := diagnose("≜ ∀ ⇒ ∧ ∈ ≤ ∪ ∃ λ ¬")

	var info *protocol.Diagnostic
	for i := range diags {
		if diags[i].Severity == protocol.DiagnosticSeverityInformation {
			info = &diags[i]
		}
		if strings.Contains(diags[i].Message, "undefined symbol") {
			t.Errorf("unexpected undefined-symbol diagnostic: %s", diags[i].Message)
		}
	}
	if info == nil {
		t.Fatal("expected a tier info diagnostic")
	}
	if !strings.Contains(info.Message, "tier ") {
		t.Errorf("info message = %q, want a tier summary", info.Message)
	}
}

func TestProseSourceRejected(t *testing.T) {
	diags := diagnose("plain prose carrying no formal symbols")

	found := false
	for _, d := range diags {
		if d.Severity == protocol.DiagnosticSeverityWarning && strings.Contains(d.Message, "rejected") {
			found = true
		}
	}
	if !found {
		t.Error("expected a rejection warning for symbol-free prose")
	}
}

func TestUndefinedSymbolPositions(t *testing.T) {
	// The heart on line 1 is not in the symbol registry.
	diags := undefinedSymbolDiagnostics("≜ ∀\nab♥")

	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	if d.Range.Start.Line != 1 || d.Range.Start.Character != 2 {
		t.Errorf("position = %d:%d, want 1:2", d.Range.Start.Line, d.Range.Start.Character)
	}
	if !strings.Contains(d.Message, "♥") {
		t.Errorf("message = %q, want the offending rune", d.Message)
	}
}

func TestRegisteredSymbolsNotFlagged(t *testing.T) {
	if diags := undefinedSymbolDiagnostics("∀x∈ℕ ⇒ λ"); len(diags) != 0 {
		t.Errorf("got %d diagnostics for registered symbols, want 0", len(diags))
	}
}

func TestFirstLineRangeCountsRunes(t *testing.T) {
	r := firstLineRange("≜∀⇒\nsecond line")
	if r.End.Character != 3 {
		t.Errorf("end character = %d, want 3 runes", r.End.Character)
	}
}
