package relational

import (
	"math"
	"strings"
	"testing"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
)

func universalRule(variable, domain string) ast.LogicalRule {
	return ast.LogicalRule{
		Quantifier: &ast.Quantifier{Kind: ast.Universal, Variable: variable, Domain: domain},
		Expr:       &ast.Variable{Name: variable},
		Span:       ast.NewSpan(1, 1, 1, 20),
	}
}

func TestAnalyzeEmptyDocument(t *testing.T) {
	a := NewAnalyzer()
	analysis, err := a.Analyze(&ast.Document{}, map[string]ast.TypeExpression{})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if !analysis.Valid {
		t.Error("empty document should be relationally valid")
	}
	if analysis.ConsistencyScore != 1.0 {
		t.Errorf("consistency = %v, want 1.0", analysis.ConsistencyScore)
	}
	if len(analysis.Conflicts.Conflicts) != 0 {
		t.Errorf("conflicts = %v, want none", analysis.Conflicts.Conflicts)
	}
}

func TestConstraintExtraction(t *testing.T) {
	doc := &ast.Document{Blocks: []ast.Block{
		&ast.TypesBlock{Definitions: map[string]ast.TypeDefinition{
			"S": {Name: "S", Expr: enum("a", "b")},
		}},
		&ast.RulesBlock{Rules: []ast.LogicalRule{
			universalRule("x", "S"),
			{
				Quantifier: &ast.Quantifier{Kind: ast.Existential, Variable: "y", Domain: "S"},
				Expr:       &ast.Variable{Name: "y"},
				Span:       ast.NewSpan(2, 1, 2, 20),
			},
			{
				Expr: &ast.Binary{
					Op:    ast.Implication,
					Left:  &ast.Variable{Name: "p"},
					Right: &ast.Variable{Name: "q"},
				},
				Span: ast.NewSpan(3, 1, 3, 20),
			},
		}},
	}}

	a := NewAnalyzer()
	analysis, err := a.Analyze(doc, envOf(doc))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	constraints := analysis.Constraints.Constraints
	if len(constraints) != 3 {
		t.Fatalf("expected three constraints, got %d", len(constraints))
	}
	wantTypes := []ConstraintType{UniversalConstraint, ExistentialConstraint, Implication}
	for i, want := range wantTypes {
		if constraints[i].Type != want {
			t.Errorf("constraint %d type = %v, want %v", i, constraints[i].Type, want)
		}
		if constraints[i].Priority != High {
			t.Errorf("constraint %d priority = %v, want high", i, constraints[i].Priority)
		}
	}
	if got := constraints[0].Variables; len(got) != 1 || got[0] != "x" {
		t.Errorf("quantified variables = %v, want [x]", got)
	}
	if len(constraints[2].Variables) != 0 {
		t.Errorf("unquantified rule should bind no variables, got %v", constraints[2].Variables)
	}

	// Satisfaction is the extension-point default: everything holds.
	if len(analysis.Constraints.Satisfied) != 3 || len(analysis.Constraints.Unsatisfied) != 0 {
		t.Errorf("satisfied/unsatisfied = %d/%d, want 3/0",
			len(analysis.Constraints.Satisfied), len(analysis.Constraints.Unsatisfied))
	}
}

func TestMembershipChecksFromQuantifiers(t *testing.T) {
	doc := &ast.Document{Blocks: []ast.Block{
		&ast.TypesBlock{Definitions: map[string]ast.TypeDefinition{
			"S": {Name: "S", Expr: enum("a", "b")},
		}},
		&ast.RulesBlock{Rules: []ast.LogicalRule{
			universalRule("x", "S"),
			universalRule("y", "Missing"),
			universalRule("n", "ℕ"),
		}},
	}}

	a := NewAnalyzer()
	analysis, err := a.Analyze(doc, envOf(doc))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	checks := analysis.SetAnalysis.MembershipChecks
	if len(checks) != 3 {
		t.Fatalf("expected three checks, got %d", len(checks))
	}
	if !checks[0].Valid {
		t.Error("declared domain S should validate")
	}
	if checks[1].Valid {
		t.Error("unknown domain Missing should not validate")
	}
	if !checks[2].Valid {
		t.Error("built-in domain ℕ should validate")
	}

	// One failed check out of three.
	want := 2.0 / 3.0
	if math.Abs(analysis.SetAnalysis.ConsistencyScore-want) > 1e-12 {
		t.Errorf("set consistency = %v, want %v", analysis.SetAnalysis.ConsistencyScore, want)
	}
}

func TestBuiltinSets(t *testing.T) {
	a := NewAnalyzer()
	analysis, err := a.Analyze(&ast.Document{}, map[string]ast.TypeExpression{})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	sets := analysis.SetAnalysis.Sets
	for _, name := range []string{"ℕ", "ℤ", "ℚ", "ℝ", "𝔹", "∅"} {
		if _, ok := sets[name]; !ok {
			t.Errorf("built-in set %s missing", name)
		}
	}
	if card := sets["𝔹"].Properties.Cardinality; card == nil || *card != 2 {
		t.Error("𝔹 cardinality should be 2")
	}
	if !sets["∅"].Properties.Empty {
		t.Error("∅ should be empty")
	}
	if got := analysis.SetAnalysis.EmptySetRefs; len(got) != 1 || got[0] != "∅" {
		t.Errorf("empty set refs = %v, want [∅]", got)
	}
}

func TestInvalidMembershipLowersConsistency(t *testing.T) {
	doc := &ast.Document{Blocks: []ast.Block{
		&ast.RulesBlock{Rules: []ast.LogicalRule{
			universalRule("x", "Nowhere"),
		}},
	}}

	a := NewAnalyzer()
	analysis, err := a.Analyze(doc, map[string]ast.TypeExpression{})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	// The failed membership check produces a warning conflict (0.1
	// penalty) and the bound variable x, absent from the type graph,
	// an undefined-symbol error (0.5). type_score=1.0,
	// constraint_score=1.0: 1.0 - 0.6 = 0.4.
	want := 0.4
	if math.Abs(analysis.ConsistencyScore-want) > 1e-12 {
		t.Errorf("consistency = %v, want %v", analysis.ConsistencyScore, want)
	}
	if analysis.Valid {
		t.Error("analysis with an error conflict should be invalid")
	}
}

func TestValidityExcludesOnlyErrorSeverity(t *testing.T) {
	// A six-node dependency cycle maps to a Critical conflict. The
	// validity check tests for severity error only, so with a healthy
	// consistency score a critical conflict alone does not invalidate.
	graph := emptyGraph()
	deps := DependencyAnalysis{
		CircularDeps: []CircularDependency{
			{Cycle: []string{"A", "B", "C", "D", "E", "F"}, Severity: CriticalCycle},
		},
	}
	d := NewConflictDetector()
	report := d.Detect(&graph, &ConstraintAnalysis{}, &SetAnalysis{HierarchyValid: true}, &deps)

	for i := range report.Conflicts {
		if report.Conflicts[i].Severity == SeverityError {
			t.Fatal("expected no error-severity conflicts in this setup")
		}
	}
	// consistency = (1.0+1.0)/2 - 1.0 = 0.0 < 0.7, so the document is
	// still rejected, but through the score, not the severity check.
	score := consistencyScore(&graph, &ConstraintAnalysis{}, report.Conflicts)
	if score != 0.0 {
		t.Errorf("consistency = %v, want 0.0", score)
	}
}

func TestConsistencyScoreClampsAtZero(t *testing.T) {
	graph := emptyGraph()
	conflicts := []Conflict{
		{Severity: SeverityCritical},
		{Severity: SeverityCritical},
		{Severity: SeverityCritical},
	}
	if got := consistencyScore(&graph, &ConstraintAnalysis{}, conflicts); got != 0.0 {
		t.Errorf("score = %v, want clamp at 0", got)
	}
}

func TestTypeCycleInvalidatesAnalysis(t *testing.T) {
	graph := TypeGraph{
		Nodes:         map[string]TypeNode{},
		Cycles:        [][]string{{"A", "B"}},
		Compatibility: map[TypePair]CompatibilityLevel{},
	}
	// type_score drops to 0.5 and the cycle conflict carries a 0.5
	// error penalty: (0.5+1.0)/2 - 0.5 = 0.25.
	d := NewConflictDetector()
	report := d.Detect(&graph, &ConstraintAnalysis{}, &SetAnalysis{HierarchyValid: true}, &DependencyAnalysis{})
	score := consistencyScore(&graph, &ConstraintAnalysis{}, report.Conflicts)
	if math.Abs(score-0.25) > 1e-12 {
		t.Errorf("score = %v, want 0.25", score)
	}
}

func TestAnalyzerReuse(t *testing.T) {
	docA := typesDoc(map[string]ast.TypeExpression{
		"A": enum("x"),
		"B": enum("x", "y"),
	})
	docB := typesDoc(map[string]ast.TypeExpression{
		"C": basic(ast.Natural),
	})

	a := NewAnalyzer()
	first, err := a.Analyze(docA, envOf(docA))
	if err != nil {
		t.Fatalf("first Analyze() error: %v", err)
	}
	if len(first.TypeGraph.Edges) != 1 {
		t.Fatalf("first run edges = %d, want 1", len(first.TypeGraph.Edges))
	}

	second, err := a.Analyze(docB, envOf(docB))
	if err != nil {
		t.Fatalf("second Analyze() error: %v", err)
	}
	if len(second.TypeGraph.Edges) != 0 {
		t.Errorf("second run leaked edges from the first: %+v", second.TypeGraph.Edges)
	}
	if _, stale := second.TypeGraph.Compatibility[TypePair{"A", "B"}]; stale {
		t.Error("second run leaked compatibility entries from the first")
	}
}

func TestReport(t *testing.T) {
	doc := typesDoc(map[string]ast.TypeExpression{
		"A": enum("x"),
		"B": enum("x", "y"),
	})

	a := NewAnalyzer()
	analysis, err := a.Analyze(doc, envOf(doc))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	report := Report(analysis)
	for _, want := range []string{
		"Overall Status: VALID",
		"Types: 2",
		"Relationships: 1",
		"Consistency Score: 100.00%",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}
