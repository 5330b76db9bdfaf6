package relational

import (
	"fmt"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
)

// ConstraintType classifies a constraint implied by a logical rule.
type ConstraintType int

const (
	Equality ConstraintType = iota
	Inequality
	Ordering
	Membership
	TypeConstraint
	Implication
	Equivalence
	UniversalConstraint
	ExistentialConstraint
)

func (c ConstraintType) String() string {
	switch c {
	case Equality:
		return "equality"
	case Inequality:
		return "inequality"
	case Ordering:
		return "ordering"
	case Membership:
		return "membership"
	case TypeConstraint:
		return "type"
	case Implication:
		return "implication"
	case Equivalence:
		return "equivalence"
	case UniversalConstraint:
		return "universal"
	case ExistentialConstraint:
		return "existential"
	default:
		return "unknown"
	}
}

// MarshalText renders the constraint type for JSON output.
func (c ConstraintType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ConstraintPriority orders constraints by importance.
type ConstraintPriority int

const (
	Low ConstraintPriority = iota + 1
	Medium
	High
	Critical
)

func (p ConstraintPriority) String() string {
	switch p {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalText renders the priority for JSON output.
func (p ConstraintPriority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// RelationalConstraint is one constraint extracted from a logical rule.
type RelationalConstraint struct {
	ID        string             `json:"id"`
	Type      ConstraintType     `json:"type"`
	Variables []string           `json:"variables"`
	// Expression is a textual snapshot of the rule body, kept for
	// reporting only.
	Expression string             `json:"expression"`
	Priority   ConstraintPriority `json:"priority"`
	Span       ast.Span           `json:"span"`
}

// ConstraintConflict records a contradiction between two or more
// constraints, as reported by an external solver.
type ConstraintConflict struct {
	ConstraintIDs []string         `json:"constraint_ids"`
	Severity      ConflictSeverity `json:"severity"`
	Description   string           `json:"description"`
	Resolution    string           `json:"resolution,omitempty"`
}

// ConstraintAnalysis is the result of constraint extraction and the
// satisfaction check over it.
type ConstraintAnalysis struct {
	Constraints  []RelationalConstraint `json:"constraints"`
	Satisfied    []string               `json:"satisfied"`
	Unsatisfied  []string               `json:"unsatisfied"`
	Conflicts    []ConstraintConflict   `json:"conflicts"`
	Dependencies map[string][]string    `json:"dependencies"`
}

func (a *Analyzer) analyzeConstraints(doc *ast.Document) ConstraintAnalysis {
	var constraints []RelationalConstraint
	for _, rb := range doc.RulesBlocks() {
		for i := range rb.Rules {
			constraints = append(constraints, extractConstraintFromRule(&rb.Rules[i], len(constraints)))
		}
	}

	var satisfied, unsatisfied []string
	for i := range constraints {
		if a.constraintSatisfied(&constraints[i]) {
			satisfied = append(satisfied, constraints[i].ID)
		} else {
			unsatisfied = append(unsatisfied, constraints[i].ID)
		}
	}

	var conflicts []ConstraintConflict
	for i := 0; i < len(constraints); i++ {
		for j := i + 1; j < len(constraints); j++ {
			if a.constraintsConflict(&constraints[i], &constraints[j]) {
				conflicts = append(conflicts, ConstraintConflict{
					ConstraintIDs: []string{constraints[i].ID, constraints[j].ID},
					Severity:      SeverityError,
					Description: fmt.Sprintf("constraints %s and %s contradict",
						constraints[i].ID, constraints[j].ID),
				})
			}
		}
	}

	dependencies := make(map[string][]string, len(constraints))
	for i := range constraints {
		dependencies[constraints[i].ID] = a.constraintDependencies(&constraints[i], constraints)
	}

	return ConstraintAnalysis{
		Constraints:  constraints,
		Satisfied:    satisfied,
		Unsatisfied:  unsatisfied,
		Conflicts:    conflicts,
		Dependencies: dependencies,
	}
}

func extractConstraintFromRule(rule *ast.LogicalRule, index int) RelationalConstraint {
	constraintType := Implication
	var variables []string
	if q := rule.Quantifier; q != nil {
		if q.Kind == ast.Universal {
			constraintType = UniversalConstraint
		} else {
			constraintType = ExistentialConstraint
		}
		variables = append(variables, q.Variable)
	}

	return RelationalConstraint{
		ID:         fmt.Sprintf("rule_%d_L%d", index, rule.Span.Start.Line),
		Type:       constraintType,
		Variables:  variables,
		Expression: renderExpression(rule.Expr),
		Priority:   High,
		Span:       rule.Span,
	}
}

// constraintSatisfied is an extension point for symbolic satisfaction
// checking. Every constraint currently reads as satisfied.
func (a *Analyzer) constraintSatisfied(_ *RelationalConstraint) bool {
	return true
}

// constraintsConflict is an extension point for pairwise contradiction
// detection. No pair currently reads as conflicting.
func (a *Analyzer) constraintsConflict(_, _ *RelationalConstraint) bool {
	return false
}

// constraintDependencies is an extension point for cross-constraint
// dependency extraction.
func (a *Analyzer) constraintDependencies(_ *RelationalConstraint, _ []RelationalConstraint) []string {
	return nil
}

// renderExpression produces the textual snapshot stored on a
// constraint. It is not a parseable form.
func renderExpression(expr ast.LogicalExpression) string {
	switch e := expr.(type) {
	case *ast.Variable:
		return e.Name
	case *ast.Constant:
		switch e.Kind {
		case ast.NumberConstant:
			return fmt.Sprintf("%g", e.Num)
		case ast.StringConstant:
			return fmt.Sprintf("%q", e.Str)
		default:
			return fmt.Sprintf("%t", e.Bool)
		}
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", renderExpression(e.Left), e.Op, renderExpression(e.Right))
	case *ast.Unary:
		return fmt.Sprintf("%s%s", e.Op, renderExpression(e.Operand))
	case *ast.Application:
		args := ""
		for i, arg := range e.Arguments {
			if i > 0 {
				args += ", "
			}
			args += renderExpression(arg)
		}
		return fmt.Sprintf("%s(%s)", e.Function, args)
	case *ast.Membership:
		return fmt.Sprintf("%s ∈ %s", renderExpression(e.Element), renderExpression(e.Set))
	case *ast.Temporal:
		return fmt.Sprintf("%s(%s)", e.Op, renderExpression(e.Operand))
	default:
		return ""
	}
}
