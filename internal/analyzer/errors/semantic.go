package errors

import (
	"fmt"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
)

// Semantic error codes (SEM200-299)
const (
	// ErrEmptyEnumeration indicates an enumeration type with no labels
	ErrEmptyEnumeration ErrorCode = "SEM200"
	// ErrZeroSizedArray indicates an array type declared with size 0
	ErrZeroSizedArray ErrorCode = "SEM201"
	// ErrUndefinedTypeReference indicates a reference to an undeclared type
	ErrUndefinedTypeReference ErrorCode = "SEM202"
	// ErrUnresolvedQuantifierDomain indicates a quantifier over an unknown domain
	ErrUnresolvedQuantifierDomain ErrorCode = "SEM203"
	// ErrEvidenceDeltaOutOfRange indicates a δ claim outside [0,1]
	ErrEvidenceDeltaOutOfRange ErrorCode = "SEM204"
	// ErrEvidencePhiOutOfRange indicates a φ claim outside [0,100]
	ErrEvidencePhiOutOfRange ErrorCode = "SEM205"
	// WarnTypeRedefinition indicates a type declared more than once
	WarnTypeRedefinition ErrorCode = "SEM220"
	// WarnRecursiveType indicates a type that refers to itself
	WarnRecursiveType ErrorCode = "SEM221"
	// WarnFunctionShadowsType indicates a function sharing a type's name
	WarnFunctionShadowsType ErrorCode = "SEM222"
)

// Relational analysis codes (REL300-399)
const (
	// WarnRelationalDegraded indicates relational analysis failed and was skipped
	WarnRelationalDegraded ErrorCode = "REL300"
	// WarnAnalysisDeadline indicates the advisory analysis deadline was exceeded
	WarnAnalysisDeadline ErrorCode = "REL301"
)

// NewEmptyEnumeration creates a SEM200 error
func NewEmptyEnumeration(span ast.Span, typeName string) *AnalysisError {
	return newError(
		ErrEmptyEnumeration,
		"empty_enumeration",
		CategorySemantic,
		SeverityError,
		fmt.Sprintf("Type '%s' is an enumeration with no labels", typeName),
		span,
	).WithSuggestion("Add at least one label, e.g. {Active, Inactive}")
}

// NewZeroSizedArray creates a SEM201 error
func NewZeroSizedArray(span ast.Span, typeName string) *AnalysisError {
	return newError(
		ErrZeroSizedArray,
		"zero_sized_array",
		CategorySemantic,
		SeverityError,
		fmt.Sprintf("Type '%s' declares an array of size 0", typeName),
		span,
	).WithSuggestion("Use a positive size, or drop the size for an unsized array")
}

// NewUndefinedTypeReference creates a SEM202 error
func NewUndefinedTypeReference(span ast.Span, name, context string) *AnalysisError {
	return newError(
		ErrUndefinedTypeReference,
		"undefined_type_reference",
		CategorySemantic,
		SeverityError,
		fmt.Sprintf("Reference to undefined type '%s' in %s", name, context),
		span,
	).WithSuggestion(fmt.Sprintf("Declare '%s' in a types block before referring to it", name))
}

// NewUnresolvedQuantifierDomain creates a SEM203 error
func NewUnresolvedQuantifierDomain(span ast.Span, domain string) *AnalysisError {
	return newError(
		ErrUnresolvedQuantifierDomain,
		"unresolved_quantifier_domain",
		CategorySemantic,
		SeverityError,
		fmt.Sprintf("Quantifier domain '%s' does not resolve to a declared type or built-in set", domain),
		span,
	).WithSuggestion("Quantify over a declared type, a built-in set (ℕ, ℤ, ℝ), or omit the domain")
}

// NewEvidenceDeltaOutOfRange creates a SEM204 error
func NewEvidenceDeltaOutOfRange(span ast.Span, delta float64) *AnalysisError {
	return newError(
		ErrEvidenceDeltaOutOfRange,
		"evidence_delta_out_of_range",
		CategorySemantic,
		SeverityError,
		fmt.Sprintf("Evidence δ claim %.3f is outside [0, 1]", delta),
		span,
	).WithExpected("value in [0, 1]").WithActual(fmt.Sprintf("%.3f", delta))
}

// NewEvidencePhiOutOfRange creates a SEM205 error
func NewEvidencePhiOutOfRange(span ast.Span, phi float64) *AnalysisError {
	return newError(
		ErrEvidencePhiOutOfRange,
		"evidence_phi_out_of_range",
		CategorySemantic,
		SeverityError,
		fmt.Sprintf("Evidence φ claim %.3f is outside [0, 100]", phi),
		span,
	).WithExpected("value in [0, 100]").WithActual(fmt.Sprintf("%.3f", phi))
}

// NewTypeRedefinition creates a SEM220 warning. The first definition wins.
func NewTypeRedefinition(span ast.Span, name string) *AnalysisError {
	return newError(
		WarnTypeRedefinition,
		"type_redefinition",
		CategorySemantic,
		SeverityWarning,
		fmt.Sprintf("Type '%s' is defined more than once; keeping the first definition", name),
		span,
	)
}

// NewRecursiveType creates a SEM221 warning
func NewRecursiveType(span ast.Span, name string) *AnalysisError {
	return newError(
		WarnRecursiveType,
		"recursive_type",
		CategorySemantic,
		SeverityWarning,
		fmt.Sprintf("Type '%s' refers to itself", name),
		span,
	)
}

// NewFunctionShadowsType creates a SEM222 warning
func NewFunctionShadowsType(span ast.Span, name string) *AnalysisError {
	return newError(
		WarnFunctionShadowsType,
		"function_shadows_type",
		CategorySemantic,
		SeverityWarning,
		fmt.Sprintf("Function '%s' shadows a type of the same name", name),
		span,
	).WithSuggestion("Rename the function or the type to keep names unambiguous")
}

// NewRelationalDegraded creates a REL300 warning carrying the underlying cause
func NewRelationalDegraded(cause error) *AnalysisError {
	return newError(
		WarnRelationalDegraded,
		"relational_analysis_degraded",
		CategoryRelational,
		SeverityWarning,
		fmt.Sprintf("Relational analysis skipped: %v", cause),
		ast.Span{},
	)
}

// NewAnalysisDeadlineExceeded creates a REL301 warning
func NewAnalysisDeadlineExceeded(elapsed, budget string) *AnalysisError {
	return newError(
		WarnAnalysisDeadline,
		"analysis_deadline_exceeded",
		CategoryRelational,
		SeverityWarning,
		fmt.Sprintf("Analysis took %s, over the configured budget of %s", elapsed, budget),
		ast.Span{},
	)
}
