package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
	"github.com/aisp-lang/aisp/internal/analyzer/errors"
	"github.com/aisp-lang/aisp/internal/analyzer/semantic"
)

// wellFormedSource carries enough formal symbols to stay under the
// ambiguity threshold and score a non-Reject tier.
const wellFormedSource = "≜ ∀ ⇒ ∧ ∈ ≤ ∪ ∃ λ ¬"

func typesBlock(defs map[string]ast.TypeExpression) *ast.TypesBlock {
	out := &ast.TypesBlock{Definitions: map[string]ast.TypeDefinition{}}
	for name, expr := range defs {
		out.Definitions[name] = ast.TypeDefinition{Name: name, Expr: expr}
	}
	return out
}

func threeBlocks() []ast.Block {
	return []ast.Block{
		&ast.MetaBlock{Entries: map[string]ast.MetaEntry{}},
		typesBlock(map[string]ast.TypeExpression{
			"Count":  &ast.BasicType{Kind: ast.Natural},
			"Status": &ast.EnumerationType{Labels: []string{"On", "Off"}},
		}),
		&ast.RulesBlock{},
	}
}

func TestValidateSmallDocumentSkipsRelational(t *testing.T) {
	v := Default()
	doc := &ast.Document{Blocks: []ast.Block{
		&ast.MetaBlock{Entries: map[string]ast.MetaEntry{}},
		typesBlock(map[string]ast.TypeExpression{"Count": &ast.BasicType{Kind: ast.Natural}}),
	}}

	result, err := v.Validate(doc, wellFormedSource)
	require.NoError(t, err)
	require.NotNil(t, result.Semantic)
	assert.Nil(t, result.Relational)
	assert.Equal(t, result.Semantic.Valid, result.Valid)
}

func TestValidateRunsRelationalAtThreeBlocks(t *testing.T) {
	v := Default()
	doc := &ast.Document{Blocks: threeBlocks()}

	result, err := v.Validate(doc, wellFormedSource)
	require.NoError(t, err)
	require.NotNil(t, result.Relational)
	assert.Contains(t, result.Relational.TypeGraph.Nodes, "Count")
	assert.Contains(t, result.Relational.TypeGraph.Nodes, "Status")
}

func TestValidityConjoinsRelationalVerdict(t *testing.T) {
	v := Default()
	blocks := threeBlocks()
	// A quantified rule whose bound variable names no declared type
	// produces an error-severity conflict in the relational pass.
	blocks[2] = &ast.RulesBlock{Rules: []ast.LogicalRule{{
		Quantifier: &ast.Quantifier{Kind: ast.Universal, Variable: "x", Domain: "Status"},
		Expr:       &ast.Variable{Name: "x"},
	}}}

	result, err := v.Validate(&ast.Document{Blocks: blocks}, wellFormedSource)
	require.NoError(t, err)
	require.NotNil(t, result.Relational)
	assert.True(t, result.Semantic.Valid)
	assert.False(t, result.Relational.Valid)
	assert.False(t, result.Valid)
}

func TestHardErrorAbortsValidation(t *testing.T) {
	v := Default()
	doc := &ast.Document{Blocks: []ast.Block{
		typesBlock(map[string]ast.TypeExpression{"T": &ast.EnumerationType{}}),
	}}

	result, err := v.Validate(doc, wellFormedSource)
	require.Error(t, err)
	assert.Nil(t, result)

	ae, ok := err.(*errors.AnalysisError)
	require.True(t, ok, "error type = %T", err)
	assert.Equal(t, errors.ErrEmptyEnumeration, ae.Code)
}

func TestAdvisoryDeadlineAppendsWarning(t *testing.T) {
	v := New(semantic.DefaultThresholds(), time.Nanosecond)

	result, err := v.Validate(&ast.Document{Blocks: threeBlocks()}, wellFormedSource)
	require.NoError(t, err)

	found := false
	for _, w := range result.Warnings {
		if w.Code == errors.WarnAnalysisDeadline {
			found = true
		}
	}
	assert.True(t, found, "expected a deadline warning")
	// Advisory only, the run still completes with full results.
	require.NotNil(t, result.Relational)
}

func TestZeroDeadlineDisablesWarning(t *testing.T) {
	v := New(semantic.DefaultThresholds(), 0)

	result, err := v.Validate(&ast.Document{Blocks: threeBlocks()}, wellFormedSource)
	require.NoError(t, err)
	for _, w := range result.Warnings {
		assert.NotEqual(t, errors.WarnAnalysisDeadline, w.Code)
	}
}

func TestWarningsMerged(t *testing.T) {
	v := Default()
	doc := &ast.Document{Blocks: []ast.Block{
		typesBlock(map[string]ast.TypeExpression{"Status": &ast.EnumerationType{Labels: []string{"On"}}}),
		typesBlock(map[string]ast.TypeExpression{"Status": &ast.EnumerationType{Labels: []string{"Off"}}}),
	}}

	result, err := v.Validate(doc, wellFormedSource)
	require.NoError(t, err)

	found := false
	for _, w := range result.Warnings {
		if w.Code == errors.WarnTypeRedefinition {
			found = true
		}
	}
	assert.True(t, found, "classifier warnings should surface on the result")
}

func TestResultIDsAreUnique(t *testing.T) {
	v := Default()
	doc := &ast.Document{Blocks: threeBlocks()}

	first, err := v.Validate(doc, wellFormedSource)
	require.NoError(t, err)
	second, err := v.Validate(doc, wellFormedSource)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestValidatorReuse(t *testing.T) {
	v := Default()

	doc1 := &ast.Document{Blocks: threeBlocks()}
	first, err := v.Validate(doc1, wellFormedSource)
	require.NoError(t, err)
	require.NotNil(t, first.Relational)

	// A later document must not see the earlier one's types.
	doc2 := &ast.Document{Blocks: []ast.Block{
		&ast.MetaBlock{Entries: map[string]ast.MetaEntry{}},
		typesBlock(map[string]ast.TypeExpression{"Other": &ast.BasicType{Kind: ast.Boolean}}),
		&ast.RulesBlock{},
	}}
	second, err := v.Validate(doc2, wellFormedSource)
	require.NoError(t, err)
	require.NotNil(t, second.Relational)
	assert.NotContains(t, second.Relational.TypeGraph.Nodes, "Count")
}
