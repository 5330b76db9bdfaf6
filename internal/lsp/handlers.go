package lsp

import (
	"fmt"
	"strings"
	"unicode"

	"go.lsp.dev/protocol"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
	"github.com/aisp-lang/aisp/internal/analyzer/semantic"
	"github.com/aisp-lang/aisp/internal/analyzer/symbols"
)

const diagnosticSource = "aisp"

// diagnosticsForSource runs the classifier over the raw text and turns
// the verdict into LSP diagnostics. Without a document tree only the
// symbol-level analyses apply; structural diagnostics come from the
// CLI and HTTP surfaces.
func (s *Server) diagnosticsForSource(source string) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0)

	analyzer := semantic.NewAnalyzer(s.thresholds)
	analysis, err := analyzer.Analyze(&ast.Document{}, source)
	if err != nil {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    firstLineRange(source),
			Severity: protocol.DiagnosticSeverityError,
			Source:   diagnosticSource,
			Message:  err.Error(),
		})
		return diagnostics
	}

	diagnostics = append(diagnostics, undefinedSymbolDiagnostics(source)...)

	if analysis.Tier == semantic.Reject {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    firstLineRange(source),
			Severity: protocol.DiagnosticSeverityWarning,
			Source:   diagnosticSource,
			Message:  fmt.Sprintf("document rejected: density δ=%.2f is below the Bronze threshold", analysis.Delta),
		})
	} else {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    firstLineRange(source),
			Severity: protocol.DiagnosticSeverityInformation,
			Source:   diagnosticSource,
			Message:  fmt.Sprintf("tier %s %s (δ=%.2f, ambiguity %.3f)", analysis.Tier, analysis.Tier.Symbol(), analysis.Delta, analysis.Ambiguity),
		})
	}

	if analysis.Ambiguity >= 0.02 {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    firstLineRange(source),
			Severity: protocol.DiagnosticSeverityWarning,
			Source:   diagnosticSource,
			Message:  fmt.Sprintf("ambiguity %.3f exceeds the 0.02 validity bound", analysis.Ambiguity),
		})
	}

	return diagnostics
}

// undefinedSymbolDiagnostics flags every non-ASCII rune absent from the
// symbol registry at its exact position.
func undefinedSymbolDiagnostics(source string) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for lineNo, line := range strings.Split(source, "\n") {
		col := uint32(0)
		for _, r := range line {
			if r > unicode.MaxASCII && !unicode.IsSpace(r) {
				if _, ok := symbols.Lookup(r); !ok {
					out = append(out, protocol.Diagnostic{
						Range: protocol.Range{
							Start: protocol.Position{Line: uint32(lineNo), Character: col},
							End:   protocol.Position{Line: uint32(lineNo), Character: col + 1},
						},
						Severity: protocol.DiagnosticSeverityWarning,
						Source:   diagnosticSource,
						Message:  fmt.Sprintf("undefined symbol %q", r),
					})
				}
			}
			col++
		}
	}
	return out
}

func firstLineRange(source string) protocol.Range {
	line := strings.SplitN(source, "\n", 2)[0]
	end := uint32(0)
	for range line {
		end++
	}
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: end},
	}
}
