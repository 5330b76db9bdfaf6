package semantic

import (
	"strings"
	"testing"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
	"github.com/aisp-lang/aisp/internal/analyzer/errors"
)

func typesBlock(defs map[string]ast.TypeExpression) *ast.TypesBlock {
	out := &ast.TypesBlock{Definitions: map[string]ast.TypeDefinition{}}
	for name, expr := range defs {
		out.Definitions[name] = ast.TypeDefinition{Name: name, Expr: expr}
	}
	return out
}

func analyze(t *testing.T, blocks []ast.Block, source string) *Analysis {
	t.Helper()
	a := NewAnalyzer(DefaultThresholds())
	result, err := a.Analyze(&ast.Document{Blocks: blocks}, source)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	return result
}

func TestAnalyzeEmptyDocument(t *testing.T) {
	result := analyze(t, nil, "")

	if result.BlockScore != 0 {
		t.Errorf("BlockScore = %v, want 0", result.BlockScore)
	}
	if result.Delta > 0.6 {
		t.Errorf("Delta = %v, want ≤ 0.6 for zero blocks", result.Delta)
	}
	if result.Tier != Reject {
		t.Errorf("Tier = %v, want Reject", result.Tier)
	}
	if result.Valid {
		t.Error("empty document should not be valid")
	}
	if result.PureDensity != 0 {
		t.Errorf("PureDensity = %v, want 0", result.PureDensity)
	}
}

func TestBlockScoreAllKinds(t *testing.T) {
	blocks := []ast.Block{
		&ast.MetaBlock{Entries: map[string]ast.MetaEntry{}},
		typesBlock(map[string]ast.TypeExpression{"Count": &ast.BasicType{Kind: ast.Natural}}),
		&ast.RulesBlock{},
		&ast.FunctionsBlock{Functions: map[string]ast.FunctionDefinition{}},
		&ast.EvidenceBlock{},
	}
	result := analyze(t, blocks, "≜∀⇒")

	if result.BlockScore != 1.0 {
		t.Errorf("BlockScore = %v, want 1.0", result.BlockScore)
	}
}

func TestEvidenceBounds(t *testing.T) {
	tests := []struct {
		name    string
		delta   *float64
		phi     *float64
		wantErr errors.ErrorCode
	}{
		{"phi over 100", nil, f(150), errors.ErrEvidencePhiOutOfRange},
		{"phi negative", nil, f(-1), errors.ErrEvidencePhiOutOfRange},
		{"delta over 1", f(1.5), nil, errors.ErrEvidenceDeltaOutOfRange},
		{"valid claims", f(0.5), f(50), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(DefaultThresholds())
			doc := &ast.Document{Blocks: []ast.Block{
				&ast.EvidenceBlock{Delta: tt.delta, Phi: tt.phi},
			}}
			_, err := a.Analyze(doc, "")

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			ae, ok := err.(*errors.AnalysisError)
			if !ok {
				t.Fatalf("error type = %T, want *AnalysisError", err)
			}
			if ae.Code != tt.wantErr {
				t.Errorf("error code = %v, want %v", ae.Code, tt.wantErr)
			}
		})
	}
}

func TestTypeExpressionHardErrors(t *testing.T) {
	tests := []struct {
		name string
		expr ast.TypeExpression
		code errors.ErrorCode
	}{
		{"empty enumeration", &ast.EnumerationType{}, errors.ErrEmptyEnumeration},
		{"zero array", &ast.ArrayType{Element: &ast.BasicType{Kind: ast.Real}, Size: intp(0)}, errors.ErrZeroSizedArray},
		{"undefined reference", &ast.ReferenceType{Name: "Missing"}, errors.ErrUndefinedTypeReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(DefaultThresholds())
			doc := &ast.Document{Blocks: []ast.Block{
				typesBlock(map[string]ast.TypeExpression{"T": tt.expr}),
			}}
			_, err := a.Analyze(doc, "")
			ae, ok := err.(*errors.AnalysisError)
			if !ok {
				t.Fatalf("error type = %T, want *AnalysisError", err)
			}
			if ae.Code != tt.code {
				t.Errorf("error code = %v, want %v", ae.Code, tt.code)
			}
		})
	}
}

func TestTypeRedefinitionFirstWins(t *testing.T) {
	first := typesBlock(map[string]ast.TypeExpression{
		"Status": &ast.EnumerationType{Labels: []string{"On"}},
	})
	second := typesBlock(map[string]ast.TypeExpression{
		"Status": &ast.EnumerationType{Labels: []string{"Off"}},
	})
	result := analyze(t, []ast.Block{first, second}, "")

	if !hasWarning(result.Warnings, errors.WarnTypeRedefinition) {
		t.Fatal("expected a redefinition warning")
	}
	kept := result.TypeAnalysis.TypeDefinitions["Status"].(*ast.EnumerationType)
	if kept.Labels[0] != "On" {
		t.Errorf("kept definition = %v, want the first one", kept.Labels)
	}
}

func TestMutuallyRecursiveTypesWarn(t *testing.T) {
	blocks := []ast.Block{typesBlock(map[string]ast.TypeExpression{
		"P": &ast.ReferenceType{Name: "Q"},
		"Q": &ast.ReferenceType{Name: "P"},
	})}
	result := analyze(t, blocks, "")

	if !hasWarning(result.Warnings, errors.WarnRecursiveType) {
		t.Error("expected a recursive-type warning for at least one of P, Q")
	}
}

func TestFunctionShadowsType(t *testing.T) {
	blocks := []ast.Block{
		typesBlock(map[string]ast.TypeExpression{"size": &ast.BasicType{Kind: ast.Natural}}),
		&ast.FunctionsBlock{Functions: map[string]ast.FunctionDefinition{
			"size": {Name: "size", Lambda: ast.LambdaExpression{
				Parameters: []string{"x"},
				Body:       &ast.Variable{Name: "x"},
			}},
		}},
	}
	result := analyze(t, blocks, "")

	if !hasWarning(result.Warnings, errors.WarnFunctionShadowsType) {
		t.Error("expected a shadowing warning")
	}
	if _, ok := result.TypeAnalysis.FunctionSignatures["size"]; !ok {
		t.Error("function signature not collected")
	}
}

func TestQuantifierDomain(t *testing.T) {
	rule := func(domain string) *ast.RulesBlock {
		return &ast.RulesBlock{Rules: []ast.LogicalRule{{
			Quantifier: &ast.Quantifier{Kind: ast.Universal, Variable: "x", Domain: domain},
			Expr:       &ast.Variable{Name: "x"},
		}}}
	}

	t.Run("unknown domain is a hard error", func(t *testing.T) {
		a := NewAnalyzer(DefaultThresholds())
		_, err := a.Analyze(&ast.Document{Blocks: []ast.Block{rule("Widgets")}}, "")
		ae, ok := err.(*errors.AnalysisError)
		if !ok || ae.Code != errors.ErrUnresolvedQuantifierDomain {
			t.Fatalf("got %v, want unresolved-domain error", err)
		}
	})

	t.Run("declared domain resolves", func(t *testing.T) {
		blocks := []ast.Block{
			typesBlock(map[string]ast.TypeExpression{"Status": &ast.EnumerationType{Labels: []string{"On", "Off"}}}),
			rule("Status"),
		}
		analyze(t, blocks, "")
	})

	t.Run("built-in domain resolves", func(t *testing.T) {
		analyze(t, []ast.Block{rule("ℝⁿ")}, "")
	})
}

func TestAmbiguityBounds(t *testing.T) {
	sources := []string{
		"",
		"plain prose with no symbols at all",
		"≜∀⇒∧∈≤∪∩",
		strings.Repeat("≜∀⇒∧∈ δφτ ", 10),
	}
	for _, src := range sources {
		result := analyze(t, nil, src)
		if result.Ambiguity < 0 || result.Ambiguity > 1 {
			t.Errorf("ambiguity %v out of [0,1] for %q", result.Ambiguity, src)
		}
	}
}

func TestWellFormedSourceReadsUnambiguous(t *testing.T) {
	// Seven formal symbols, no undefined runes.
	result := analyze(t, nil, "≜ ∀ ⇒ ∧ ∈ ≤ ∪")
	if result.Ambiguity >= 0.02 {
		t.Errorf("ambiguity = %v, want < 0.02 for a well-formed source", result.Ambiguity)
	}
}

func TestDerivedScores(t *testing.T) {
	blocks := []ast.Block{
		&ast.MetaBlock{Entries: map[string]ast.MetaEntry{}},
		typesBlock(map[string]ast.TypeExpression{"Count": &ast.BasicType{Kind: ast.Natural}}),
		&ast.RulesBlock{},
	}
	result := analyze(t, blocks, "≜∀⇒∧∈≤∪∩≔≡ ∃λ¬⊕⊆⊇ ∅𝒫≥≢ x")

	wantDelta := result.BlockScore*0.4 + result.BindingScore*0.6
	if diff := result.Delta - wantDelta; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("Delta = %v, want %v", result.Delta, wantDelta)
	}
	wantCompleteness := result.Delta*0.8 + (1.0-result.Ambiguity)*0.2
	if diff := result.Completeness - wantCompleteness; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("Completeness = %v, want %v", result.Completeness, wantCompleteness)
	}
	wantQuality := result.Delta*0.6 + (1.0-result.Ambiguity)*0.3 + float64(result.Tier.Value())*0.1
	if diff := result.QualityScore - wantQuality; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("QualityScore = %v, want %v", result.QualityScore, wantQuality)
	}
}

func TestAnalyzerReuse(t *testing.T) {
	a := NewAnalyzer(DefaultThresholds())

	doc1 := &ast.Document{Blocks: []ast.Block{
		typesBlock(map[string]ast.TypeExpression{"Only": &ast.BasicType{Kind: ast.Boolean}}),
	}}
	if _, err := a.Analyze(doc1, ""); err != nil {
		t.Fatal(err)
	}

	// Second call must not see the first call's environment.
	doc2 := &ast.Document{Blocks: []ast.Block{
		typesBlock(map[string]ast.TypeExpression{"T": &ast.ReferenceType{Name: "Only"}}),
	}}
	_, err := a.Analyze(doc2, "")
	ae, ok := err.(*errors.AnalysisError)
	if !ok || ae.Code != errors.ErrUndefinedTypeReference {
		t.Fatalf("got %v, want undefined-reference error after reset", err)
	}
}

func hasWarning(list errors.ErrorList, code errors.ErrorCode) bool {
	for _, w := range list {
		if w.Code == code {
			return true
		}
	}
	return false
}

func f(v float64) *float64 { return &v }
func intp(v int) *int      { return &v }
