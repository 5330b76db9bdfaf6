package ast

import (
	"fmt"
	"strings"
)

// TypeExpression is the interface implemented by all type expressions.
type TypeExpression interface {
	fmt.Stringer
	typeExpr()
}

// BasicKind enumerates the built-in mathematical types.
type BasicKind int

const (
	Natural BasicKind = iota // ℕ
	Integer                  // ℤ
	Real                     // ℝ
	Boolean                  // 𝔹
	String                   // 𝕊
)

// BasicType is one of the built-in number/boolean/string types.
type BasicType struct {
	Kind BasicKind
}

func (t *BasicType) typeExpr() {}

func (t *BasicType) String() string {
	switch t.Kind {
	case Natural:
		return "ℕ"
	case Integer:
		return "ℤ"
	case Real:
		return "ℝ"
	case Boolean:
		return "𝔹"
	default:
		return "𝕊"
	}
}

// EnumerationType is a finite set of labels, {A, B, C}.
type EnumerationType struct {
	Labels []string
}

func (t *EnumerationType) typeExpr() {}

func (t *EnumerationType) String() string {
	return "{" + strings.Join(t.Labels, ", ") + "}"
}

// ArrayType is Element[n]; Size nil means unsized.
type ArrayType struct {
	Element TypeExpression
	Size    *int
}

func (t *ArrayType) typeExpr() {}

func (t *ArrayType) String() string {
	if t.Size != nil {
		return fmt.Sprintf("%s[%d]", t.Element, *t.Size)
	}
	return t.Element.String() + "[]"
}

// TupleType is (A, B, C).
type TupleType struct {
	Elements []TypeExpression
}

func (t *TupleType) typeExpr() {}

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FunctionType is Input → Output.
type FunctionType struct {
	Input  TypeExpression
	Output TypeExpression
}

func (t *FunctionType) typeExpr() {}

func (t *FunctionType) String() string {
	return t.Input.String() + " → " + t.Output.String()
}

// GenericType is a named type applied to parameters.
type GenericType struct {
	Name       string
	Parameters []TypeExpression
}

func (t *GenericType) typeExpr() {}

func (t *GenericType) String() string {
	parts := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		parts[i] = p.String()
	}
	return t.Name + "⟨" + strings.Join(parts, ", ") + "⟩"
}

// ReferenceType names another declared type.
type ReferenceType struct {
	Name string
}

func (t *ReferenceType) typeExpr() {}

func (t *ReferenceType) String() string { return t.Name }
