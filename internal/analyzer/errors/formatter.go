package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// FormatError returns a human-readable message for terminal output.
// Colors are dropped automatically when stdout is not a terminal.
func FormatError(e *AnalysisError) string {
	var b strings.Builder

	icon := severityIcon(e.Severity)

	file := e.File
	if file == "" {
		file = "<document>"
	}

	severityColor(e.Severity).Fprintf(&b, "%s %s %s in %s\n", icon, e.Category, e.Severity, file)

	if e.Span.Start.Line > 0 {
		fmt.Fprintf(&b, "Line %d, Column %d:\n", e.Span.Start.Line, e.Span.Start.Column)
	}
	fmt.Fprintf(&b, "  [%s] %s\n", e.Code, e.Message)

	if e.Expected != "" || e.Actual != "" {
		b.WriteString("\n")
		if e.Expected != "" {
			fmt.Fprintf(&b, "  Expected: %s\n", e.Expected)
		}
		if e.Actual != "" {
			fmt.Fprintf(&b, "  Actual:   %s\n", e.Actual)
		}
	}

	if e.Suggestion != "" {
		color.New(color.FgCyan).Fprintf(&b, "\n💡 %s\n", e.Suggestion)
	}

	if len(e.Examples) > 0 {
		b.WriteString("\nQuick Fixes:\n")
		for i, example := range e.Examples {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, example)
		}
	}

	return b.String()
}

// FormatErrorList returns a formatted string of all diagnostics
func FormatErrorList(errors ErrorList) string {
	if len(errors) == 0 {
		return "no errors"
	}

	var b strings.Builder

	errCount, warnCount, infoCount := errors.Count()
	fmt.Fprintf(&b, "Analysis produced %d error(s), %d warning(s), %d info\n\n",
		errCount, warnCount, infoCount)

	for i, err := range errors {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatError(err))
	}

	return b.String()
}

func severityIcon(s ErrorSeverity) string {
	switch s {
	case SeverityError:
		return "✗"
	case SeverityWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

func severityColor(s ErrorSeverity) *color.Color {
	switch s {
	case SeverityError:
		return color.New(color.FgRed, color.Bold)
	case SeverityWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}
