// Package relational implements the consistency analyzer. It builds a
// relationship graph over declared types, extracts constraints from
// quantified rules, runs set and dependency analyses, and classifies
// every detected inconsistency into a severity-ranked conflict.
package relational

import (
	"github.com/aisp-lang/aisp/internal/analyzer/ast"
	"github.com/aisp-lang/aisp/internal/analyzer/errors"
)

// Analysis is the full relational result.
type Analysis struct {
	// Valid holds when no conflict carries severity error, the
	// consistency score reaches 0.7, and the type graph is acyclic.
	// Critical conflicts do not fail this check on their own; they
	// are expected to also depress the consistency score.
	Valid            bool               `json:"valid"`
	ConsistencyScore float64            `json:"consistency_score"`
	TypeGraph        TypeGraph          `json:"type_graph"`
	SetAnalysis      SetAnalysis        `json:"set_analysis"`
	Constraints      ConstraintAnalysis `json:"constraints"`
	Dependencies     DependencyAnalysis `json:"dependencies"`
	Conflicts        ConflictReport     `json:"conflicts"`
	Warnings         errors.ErrorList   `json:"warnings,omitempty"`
}

// Analyzer runs relational consistency analysis. Instances hold
// per-call caches and are not safe for concurrent use.
type Analyzer struct {
	typeEnv   map[string]ast.TypeExpression
	relations map[TypePair]RelationType
	detector  *ConflictDetector
	warnings  errors.ErrorList
}

// NewAnalyzer builds a relational analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		typeEnv:   make(map[string]ast.TypeExpression),
		relations: make(map[TypePair]RelationType),
		detector:  NewConflictDetector(),
	}
}

func (a *Analyzer) reset(typeEnv map[string]ast.TypeExpression) {
	a.typeEnv = make(map[string]ast.TypeExpression, len(typeEnv))
	for k, v := range typeEnv {
		a.typeEnv[k] = v
	}
	a.relations = make(map[TypePair]RelationType)
	a.warnings = nil
}

// Analyze runs the relational pipeline over a document and the type
// environment produced by the classifier.
func (a *Analyzer) Analyze(doc *ast.Document, typeEnv map[string]ast.TypeExpression) (*Analysis, error) {
	a.reset(typeEnv)

	graph := a.buildTypeGraph(doc)
	sets := a.analyzeSets(doc)
	constraints := a.analyzeConstraints(doc)
	deps := a.analyzeDependencies(doc)

	conflicts := a.detector.Detect(&graph, &constraints, &sets, &deps)
	score := consistencyScore(&graph, &constraints, conflicts.Conflicts)

	noErrorConflicts := true
	for i := range conflicts.Conflicts {
		if conflicts.Conflicts[i].Severity == SeverityError {
			noErrorConflicts = false
			break
		}
	}
	valid := noErrorConflicts && score >= 0.7 && len(graph.Cycles) == 0

	return &Analysis{
		Valid:            valid,
		ConsistencyScore: score,
		TypeGraph:        graph,
		SetAnalysis:      sets,
		Constraints:      constraints,
		Dependencies:     deps,
		Conflicts:        conflicts,
		Warnings:         a.warnings,
	}, nil
}

// consistencyScore averages type-graph health with the constraint
// satisfaction rate, then deducts a penalty per conflict, clamped
// at zero.
func consistencyScore(graph *TypeGraph, constraints *ConstraintAnalysis, conflicts []Conflict) float64 {
	typeScore := 1.0
	if len(graph.Cycles) > 0 {
		typeScore = 0.5
	}

	constraintScore := 1.0
	if len(constraints.Constraints) > 0 {
		constraintScore = float64(len(constraints.Satisfied)) / float64(len(constraints.Constraints))
	}

	penalty := 0.0
	for i := range conflicts {
		penalty += conflicts[i].Severity.consistencyPenalty()
	}

	score := (typeScore+constraintScore)/2.0 - penalty
	if score < 0.0 {
		return 0.0
	}
	return score
}
