package relational

import (
	"testing"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
)

func ref(name string) ast.TypeExpression {
	return &ast.ReferenceType{Name: name}
}

func analyzeDeps(t *testing.T, defs map[string]ast.TypeExpression) DependencyAnalysis {
	t.Helper()
	doc := typesDoc(defs)
	a := NewAnalyzer()
	a.reset(envOf(doc))
	return a.analyzeDependencies(doc)
}

func TestDependencyExtraction(t *testing.T) {
	deps := analyzeDeps(t, map[string]ast.TypeExpression{
		"A": basic(ast.Natural),
		"B": ref("A"),
		"C": &ast.TupleType{Elements: []ast.TypeExpression{ref("A"), ref("B")}},
	})

	if len(deps.Dependencies["A"]) != 0 {
		t.Errorf("A should have no dependencies, got %v", deps.Dependencies["A"])
	}
	if got := deps.Dependencies["B"]; len(got) != 1 || got[0] != "A" {
		t.Errorf("B deps = %v, want [A]", got)
	}
	if got := deps.Dependencies["C"]; len(got) != 2 {
		t.Errorf("C deps = %v, want [A B]", got)
	}
}

func TestTopologicalOrder(t *testing.T) {
	deps := analyzeDeps(t, map[string]ast.TypeExpression{
		"A": basic(ast.Natural),
		"B": ref("A"),
		"C": ref("B"),
	})

	pos := make(map[string]int)
	for i, name := range deps.TopologicalOrder {
		pos[name] = i
	}
	if !(pos["A"] < pos["B"] && pos["B"] < pos["C"]) {
		t.Errorf("order = %v, want A before B before C", deps.TopologicalOrder)
	}
}

func TestCircularDependencySeverities(t *testing.T) {
	deps := analyzeDeps(t, map[string]ast.TypeExpression{
		"P": ref("Q"),
		"Q": ref("P"),
	})

	if len(deps.CircularDeps) != 1 {
		t.Fatalf("expected one cycle, got %d", len(deps.CircularDeps))
	}
	if deps.CircularDeps[0].Severity != MinorCycle {
		t.Errorf("two-node cycle severity = %v, want minor", deps.CircularDeps[0].Severity)
	}

	deps = analyzeDeps(t, map[string]ast.TypeExpression{
		"A": ref("B"), "B": ref("C"), "C": ref("D"), "D": ref("A"),
	})
	if len(deps.CircularDeps) != 1 {
		t.Fatalf("expected one cycle, got %d", len(deps.CircularDeps))
	}
	if deps.CircularDeps[0].Severity != MajorCycle {
		t.Errorf("four-node cycle severity = %v, want major", deps.CircularDeps[0].Severity)
	}
}

func TestCycleSeverityThresholds(t *testing.T) {
	tests := []struct {
		length int
		want   CycleSeverity
	}{
		{2, MinorCycle},
		{3, MajorCycle},
		{5, MajorCycle},
		{6, CriticalCycle},
	}
	for _, tt := range tests {
		if got := cycleSeverity(tt.length); got != tt.want {
			t.Errorf("cycleSeverity(%d) = %v, want %v", tt.length, got, tt.want)
		}
	}
}

func TestUnreachableComponents(t *testing.T) {
	// B depends on A but nothing depends on B.
	deps := analyzeDeps(t, map[string]ast.TypeExpression{
		"A": basic(ast.Natural),
		"B": ref("A"),
	})

	if len(deps.Unreachable) != 1 || deps.Unreachable[0] != "B" {
		t.Errorf("unreachable = %v, want [B]", deps.Unreachable)
	}
	// A has no deps: a root, not unreachable.
	for _, name := range deps.Unreachable {
		if name == "A" {
			t.Error("leaf component A flagged unreachable")
		}
	}
}

func TestDependencyDepths(t *testing.T) {
	deps := analyzeDeps(t, map[string]ast.TypeExpression{
		"A": basic(ast.Natural),
		"B": ref("A"),
		"C": ref("B"),
	})

	if deps.DepthMap["A"] != 1 || deps.DepthMap["B"] != 2 || deps.DepthMap["C"] != 3 {
		t.Errorf("depths = %v, want A:1 B:2 C:3", deps.DepthMap)
	}
	if len(deps.LeafComponents) != 1 || deps.LeafComponents[0] != "A" {
		t.Errorf("leaves = %v, want [A]", deps.LeafComponents)
	}
}
