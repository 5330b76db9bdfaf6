package errors

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
)

func TestErrorConstructors(t *testing.T) {
	span := ast.NewSpan(3, 5, 3, 20)

	e := NewEmptyEnumeration(span, "Status")
	assert.Equal(t, ErrEmptyEnumeration, e.Code)
	assert.Equal(t, CategorySemantic, e.Category)
	assert.Equal(t, SeverityError, e.Severity)
	assert.Contains(t, e.Message, "Status")
	assert.NotEmpty(t, e.Suggestion)

	w := NewTypeRedefinition(span, "User")
	assert.Equal(t, SeverityWarning, w.Severity)
	assert.Contains(t, w.Message, "first definition")

	d := NewEvidenceDeltaOutOfRange(span, 1.5)
	assert.Equal(t, "value in [0, 1]", d.Expected)
	assert.Equal(t, "1.500", d.Actual)
}

func TestErrorListCounts(t *testing.T) {
	span := ast.NewSpan(1, 1, 1, 1)
	list := ErrorList{
		NewZeroSizedArray(span, "Buf"),
		NewRecursiveType(span, "Tree"),
		NewFunctionShadowsType(span, "len"),
	}

	assert.True(t, list.HasErrors())
	assert.True(t, list.HasWarnings())

	errs, warns, info := list.Count()
	assert.Equal(t, 1, errs)
	assert.Equal(t, 2, warns)
	assert.Equal(t, 0, info)

	assert.Len(t, list.Errors(), 1)
	assert.Len(t, list.Warnings(), 2)
}

func TestErrorToJSON(t *testing.T) {
	e := NewUndefinedTypeReference(ast.NewSpan(2, 1, 2, 8), "Missing", "type 'Pair'")
	out, err := e.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "SEM202", decoded["code"])
	assert.Equal(t, "undefined_type_reference", decoded["type"])
}

func TestFormatError(t *testing.T) {
	e := NewUnresolvedQuantifierDomain(ast.NewSpan(7, 2, 7, 10), "Widgets")
	out := FormatError(e)
	assert.Contains(t, out, "Line 7, Column 2")
	assert.Contains(t, out, "SEM203")
	assert.Contains(t, out, "Widgets")
}
