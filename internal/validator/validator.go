// Package validator runs the full analysis pipeline over a document:
// the quality/density classifier first, then relational consistency
// analysis for documents large enough to warrant it.
package validator

import (
	"time"

	"github.com/google/uuid"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
	"github.com/aisp-lang/aisp/internal/analyzer/errors"
	"github.com/aisp-lang/aisp/internal/analyzer/relational"
	"github.com/aisp-lang/aisp/internal/analyzer/semantic"
)

// minRelationalBlocks is the document size below which relational
// analysis is skipped. Trivial documents have nothing to cross-check.
const minRelationalBlocks = 3

// Result is one validation run over a document.
type Result struct {
	ID       uuid.UUID          `json:"id"`
	Valid    bool               `json:"valid"`
	Semantic *semantic.Analysis `json:"semantic"`
	// Relational is nil when the document was too small for relational
	// analysis or the analysis degraded to a warning.
	Relational *relational.Analysis `json:"relational,omitempty"`
	// Warnings merges the warnings of every analyzer that ran, plus
	// any pipeline-level warnings.
	Warnings errors.ErrorList `json:"warnings,omitempty"`
	Duration time.Duration    `json:"duration_ns"`
}

// Validator owns the analyzer instances. Like the analyzers it wraps,
// a Validator is not safe for concurrent use; concurrent validation of
// independent documents needs independent instances.
type Validator struct {
	semantic   *semantic.Analyzer
	relational *relational.Analyzer
	// maxAnalysisTime is advisory. It is checked after analysis
	// completes and never preempts work in flight.
	maxAnalysisTime time.Duration
}

// New builds a validator with the given tier thresholds and advisory
// analysis deadline. A zero deadline disables the deadline warning.
func New(thresholds semantic.Thresholds, maxAnalysisTime time.Duration) *Validator {
	return &Validator{
		semantic:        semantic.NewAnalyzer(thresholds),
		relational:      relational.NewAnalyzer(),
		maxAnalysisTime: maxAnalysisTime,
	}
}

// Default builds a validator with the standard thresholds and no
// advisory deadline.
func Default() *Validator {
	return New(semantic.DefaultThresholds(), 0)
}

// Validate runs the classifier and, for documents of three or more
// blocks, the relational analyzer. Hard classifier errors abort the
// run; a relational failure degrades to a warning on the result.
func (v *Validator) Validate(doc *ast.Document, source string) (*Result, error) {
	start := time.Now()

	sem, err := v.semantic.Analyze(doc, source)
	if err != nil {
		return nil, err
	}

	warnings := append(errors.ErrorList{}, sem.Warnings...)

	var rel *relational.Analysis
	if len(doc.Blocks) >= minRelationalBlocks {
		r, err := v.relational.Analyze(doc, sem.TypeAnalysis.TypeDefinitions)
		if err != nil {
			warnings = append(warnings, errors.NewRelationalDegraded(err))
		} else {
			rel = r
			warnings = append(warnings, r.Warnings...)
		}
	}

	elapsed := time.Since(start)
	if v.maxAnalysisTime > 0 && elapsed > v.maxAnalysisTime {
		warnings = append(warnings, errors.NewAnalysisDeadlineExceeded(
			elapsed.String(), v.maxAnalysisTime.String()))
	}

	valid := sem.Valid && (rel == nil || rel.Valid)

	return &Result{
		ID:         uuid.New(),
		Valid:      valid,
		Semantic:   sem,
		Relational: rel,
		Warnings:   warnings,
		Duration:   elapsed,
	}, nil
}
