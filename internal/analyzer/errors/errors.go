// Package errors provides structured error handling for the AISP
// analyzer. It defines error codes, categories, and formatting for both
// human-readable terminal output and machine-parseable JSON.
package errors

import (
	"encoding/json"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
)

// ErrorCode is a unique analyzer error code
type ErrorCode string

// ErrorCategory groups analyzer errors
type ErrorCategory string

const (
	// CategoryValidation represents document validation errors (VAL001-099)
	CategoryValidation ErrorCategory = "validation"
	// CategorySemantic represents semantic analysis errors (SEM200-299)
	CategorySemantic ErrorCategory = "semantic"
	// CategoryRelational represents relational analysis errors (REL300-399)
	CategoryRelational ErrorCategory = "relational"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an error that invalidates the document
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a potential issue; analysis continues
	SeverityWarning ErrorSeverity = "warning"
	// SeverityInfo indicates informational messages
	SeverityInfo ErrorSeverity = "info"
)

// AnalysisError is a structured analyzer diagnostic
type AnalysisError struct {
	// Code is the unique error code (e.g., "SEM201")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Span is the source range of the offending construct
	Span ast.Span `json:"span"`
	// File is the source file name (optional)
	File string `json:"file,omitempty"`
	// Expected describes what was expected (optional)
	Expected string `json:"expected,omitempty"`
	// Actual describes what was actually found (optional)
	Actual string `json:"actual,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Examples provides example fixes (optional)
	Examples []string `json:"examples,omitempty"`
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	return FormatError(e)
}

// ToJSON returns the error as a JSON string
func (e *AnalysisError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithFile sets the source file name for the error
func (e *AnalysisError) WithFile(file string) *AnalysisError {
	e.File = file
	return e
}

// WithExpected sets the expected value for the error
func (e *AnalysisError) WithExpected(expected string) *AnalysisError {
	e.Expected = expected
	return e
}

// WithActual sets the actual value for the error
func (e *AnalysisError) WithActual(actual string) *AnalysisError {
	e.Actual = actual
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *AnalysisError) WithSuggestion(suggestion string) *AnalysisError {
	e.Suggestion = suggestion
	return e
}

// WithExamples sets example fixes for the error
func (e *AnalysisError) WithExamples(examples ...string) *AnalysisError {
	e.Examples = examples
	return e
}

func newError(code ErrorCode, typ string, category ErrorCategory, severity ErrorSeverity, message string, span ast.Span) *AnalysisError {
	return &AnalysisError{
		Code:     code,
		Type:     typ,
		Category: category,
		Severity: severity,
		Message:  message,
		Span:     span,
	}
}

// ErrorList is a collection of analyzer diagnostics
type ErrorList []*AnalysisError

// Error implements the error interface
func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	return FormatErrorList(el)
}

// HasErrors returns true if the list contains any errors (excludes warnings/info)
func (el ErrorList) HasErrors() bool {
	for _, err := range el {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if the list contains any warnings
func (el ErrorList) HasWarnings() bool {
	for _, err := range el {
		if err.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Errors returns only the hard errors in the list
func (el ErrorList) Errors() ErrorList {
	var out ErrorList
	for _, err := range el {
		if err.Severity == SeverityError {
			out = append(out, err)
		}
	}
	return out
}

// Warnings returns only the warnings in the list
func (el ErrorList) Warnings() ErrorList {
	var out ErrorList
	for _, err := range el {
		if err.Severity == SeverityWarning {
			out = append(out, err)
		}
	}
	return out
}

// ToJSON returns all diagnostics as a JSON array
func (el ErrorList) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Count returns the number of diagnostics by severity
func (el ErrorList) Count() (errors, warnings, info int) {
	for _, err := range el {
		switch err.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			info++
		}
	}
	return
}
