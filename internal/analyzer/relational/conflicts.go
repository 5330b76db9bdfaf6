package relational

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
)

// ConflictType classifies a detected inconsistency.
type ConflictType string

const (
	TypeCycle               ConflictType = "type_cycle"
	TypeMismatch            ConflictType = "type_mismatch"
	ConstraintContradiction ConflictType = "constraint_conflict"
	UnreachableConstraint   ConflictType = "unreachable_constraint"
	SetViolation            ConflictType = "set_violation"
	DependencyCycle         ConflictType = "dependency_cycle"
	UndefinedSymbol         ConflictType = "undefined_symbol"
	AmbiguousReference      ConflictType = "ambiguous_reference"
	CardinalityInconsistent ConflictType = "cardinality_inconsistency"
)

// ConflictSeverity orders conflicts from informational to fatal.
type ConflictSeverity int

const (
	SeverityInfo ConflictSeverity = iota
	SeverityMinor
	SeverityWarning
	SeverityMajor
	SeverityError
	SeverityCritical
)

func (s ConflictSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityError:
		return "error"
	case SeverityMajor:
		return "major"
	case SeverityWarning:
		return "warning"
	case SeverityMinor:
		return "minor"
	default:
		return "info"
	}
}

// MarshalText renders the severity for JSON output.
func (s ConflictSeverity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// scoreWeight is the contribution of one conflict to the total
// conflict score.
func (s ConflictSeverity) scoreWeight() float64 {
	switch s {
	case SeverityCritical:
		return 10.0
	case SeverityError:
		return 5.0
	case SeverityMajor:
		return 3.0
	case SeverityWarning:
		return 1.0
	case SeverityMinor:
		return 0.2
	default:
		return 0.1
	}
}

// consistencyPenalty is the deduction one conflict applies to the
// consistency score.
func (s ConflictSeverity) consistencyPenalty() float64 {
	switch s {
	case SeverityCritical:
		return 1.0
	case SeverityError:
		return 0.5
	case SeverityMajor:
		return 0.3
	case SeverityWarning:
		return 0.1
	case SeverityMinor:
		return 0.05
	default:
		return 0.02
	}
}

// StrategyType names a class of resolution.
type StrategyType string

const (
	StrategyRemove         StrategyType = "remove"
	StrategyAdd            StrategyType = "add"
	StrategyRefactor       StrategyType = "refactor"
	StrategyTypeChange     StrategyType = "type_change"
	StrategyReorder        StrategyType = "reorder"
	StrategyUseComposition StrategyType = "use_composition"
)

// EffortLevel estimates how much work a strategy takes.
type EffortLevel int

const (
	EffortLow EffortLevel = iota
	EffortMedium
	EffortHigh
	EffortCritical
)

func (e EffortLevel) String() string {
	switch e {
	case EffortLow:
		return "low"
	case EffortMedium:
		return "medium"
	case EffortHigh:
		return "high"
	default:
		return "critical"
	}
}

// MarshalText renders the effort level for JSON output.
func (e EffortLevel) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// ResolutionStrategy is one suggested way to resolve a conflict.
type ResolutionStrategy struct {
	Type        StrategyType `json:"type"`
	Description string       `json:"description"`
	Confidence  float64      `json:"confidence"`
	Effort      EffortLevel  `json:"effort"`
	Actions     []string     `json:"actions"`
}

// EvidenceKind discriminates the payload of ConflictEvidence.
type EvidenceKind string

const (
	EvidenceCycle         EvidenceKind = "cycle"
	EvidenceIncompatible  EvidenceKind = "type_incompatibility"
	EvidenceConstraint    EvidenceKind = "constraint_violation"
	EvidenceSet           EvidenceKind = "set_inconsistency"
	EvidenceDependency    EvidenceKind = "dependency_issue"
)

// ConflictEvidence records the analysis facts behind a conflict. Only
// the fields matching Kind are populated.
type ConflictEvidence struct {
	Kind         EvidenceKind `json:"kind"`
	Cycle        []string     `json:"cycle,omitempty"`
	TypeA        string       `json:"type_a,omitempty"`
	TypeB        string       `json:"type_b,omitempty"`
	ConstraintID string       `json:"constraint_id,omitempty"`
	SetName      string       `json:"set_name,omitempty"`
	Component    string       `json:"component,omitempty"`
	Reason       string       `json:"reason,omitempty"`
}

// Conflict is one typed, severity-ranked inconsistency.
type Conflict struct {
	ID          string               `json:"id"`
	Type        ConflictType         `json:"type"`
	Severity    ConflictSeverity     `json:"severity"`
	Description string               `json:"description"`
	Components  []string             `json:"components"`
	Span        *ast.Span            `json:"span,omitempty"`
	Evidence    ConflictEvidence     `json:"evidence"`
	Strategies  []ResolutionStrategy `json:"strategies"`
}

// minEffort is the cheapest strategy attached to the conflict, used as
// the resolution-order tie-break.
func (c *Conflict) minEffort() EffortLevel {
	min := EffortCritical
	for _, s := range c.Strategies {
		if s.Effort < min {
			min = s.Effort
		}
	}
	return min
}

// ConflictReport aggregates every detected conflict.
type ConflictReport struct {
	Conflicts  []Conflict                    `json:"conflicts"`
	ByType     map[ConflictType][]string     `json:"by_type"`
	BySeverity map[ConflictSeverity][]string `json:"by_severity"`
	// TotalScore sums severity weights over all conflicts.
	TotalScore float64 `json:"total_score"`
	// Critical lists IDs of Error and Critical conflicts.
	Critical []string `json:"critical"`
	// ResolutionOrder ranks conflict IDs by severity descending, ties
	// broken by cheapest attached strategy.
	ResolutionOrder []string `json:"resolution_order"`
}

// ConflictDetector runs the detection passes over the analysis
// results. Instances are not safe for concurrent use.
type ConflictDetector struct {
	conflicts []Conflict
}

// NewConflictDetector builds an empty detector.
func NewConflictDetector() *ConflictDetector {
	return &ConflictDetector{}
}

// Detect runs every pass and aggregates the result. Detection never
// fails: absent collaborator data means nothing to report.
func (d *ConflictDetector) Detect(
	graph *TypeGraph,
	constraints *ConstraintAnalysis,
	sets *SetAnalysis,
	deps *DependencyAnalysis,
) ConflictReport {
	d.conflicts = nil

	d.detectTypeConflicts(graph)
	d.detectConstraintConflicts(constraints)
	d.detectSetConflicts(sets)
	d.detectDependencyConflicts(deps)
	d.detectUndefinedConstraintVariables(graph, constraints)

	return d.aggregate()
}

func (d *ConflictDetector) detectTypeConflicts(graph *TypeGraph) {
	for i, cycle := range graph.Cycles {
		d.conflicts = append(d.conflicts, Conflict{
			ID:          fmt.Sprintf("type_cycle_%d", i),
			Type:        TypeCycle,
			Severity:    SeverityError,
			Description: fmt.Sprintf("circular type inheritance detected: %s", strings.Join(cycle, " -> ")),
			Components:  cycle,
			Evidence:    ConflictEvidence{Kind: EvidenceCycle, Cycle: cycle},
			Strategies: []ResolutionStrategy{
				{
					Type:        StrategyUseComposition,
					Description: "replace inheritance with composition",
					Confidence:  0.8,
					Effort:      EffortMedium,
					Actions:     []string{"remove circular inheritance", "use composition pattern"},
				},
				{
					Type:        StrategyRefactor,
					Description: "introduce intermediate types to break the cycle",
					Confidence:  0.6,
					Effort:      EffortHigh,
					Actions:     []string{"add intermediate type", "split inheritance chain"},
				},
			},
		})
	}

	for _, pair := range sortedPairs(graph.Compatibility) {
		if graph.Compatibility[pair] != Incompatible {
			continue
		}
		if !d.typesUsedTogether(pair.From, pair.To) {
			continue
		}
		d.conflicts = append(d.conflicts, Conflict{
			ID:          fmt.Sprintf("type_mismatch_%s_%s", pair.From, pair.To),
			Type:        TypeMismatch,
			Severity:    SeverityWarning,
			Description: fmt.Sprintf("incompatible types %s and %s used together", pair.From, pair.To),
			Components:  []string{pair.From, pair.To},
			Evidence: ConflictEvidence{
				Kind:   EvidenceIncompatible,
				TypeA:  pair.From,
				TypeB:  pair.To,
				Reason: "types are structurally incompatible",
			},
			Strategies: []ResolutionStrategy{
				{
					Type:        StrategyTypeChange,
					Description: "use compatible types or add a conversion",
					Confidence:  0.7,
					Effort:      EffortLow,
					Actions:     []string{"change type declaration"},
				},
			},
		})
	}
}

// typesUsedTogether is an extension point for usage analysis over
// function signatures and rule bodies. No pair currently reads as
// used together, so the mismatch pass stays silent.
func (d *ConflictDetector) typesUsedTogether(_, _ string) bool {
	return false
}

func (d *ConflictDetector) detectConstraintConflicts(constraints *ConstraintAnalysis) {
	for _, cc := range constraints.Conflicts {
		resolution := cc.Resolution
		if resolution == "" {
			resolution = "remove one of the conflicting constraints"
		}
		d.conflicts = append(d.conflicts, Conflict{
			ID:          fmt.Sprintf("constraint_conflict_%s", strings.Join(cc.ConstraintIDs, "_")),
			Type:        ConstraintContradiction,
			Severity:    cc.Severity,
			Description: cc.Description,
			Components:  cc.ConstraintIDs,
			Evidence: ConflictEvidence{
				Kind:         EvidenceConstraint,
				ConstraintID: strings.Join(cc.ConstraintIDs, ", "),
				Reason:       cc.Description,
			},
			Strategies: []ResolutionStrategy{
				{
					Type:        StrategyRemove,
					Description: resolution,
					Confidence:  0.6,
					Effort:      EffortLow,
					Actions:     []string{"remove conflicting constraint"},
				},
			},
		})
	}

	for _, id := range constraints.Unsatisfied {
		if !d.constraintUnreachable(id, constraints) {
			continue
		}
		d.conflicts = append(d.conflicts, Conflict{
			ID:          fmt.Sprintf("unreachable_constraint_%s", id),
			Type:        UnreachableConstraint,
			Severity:    SeverityWarning,
			Description: fmt.Sprintf("constraint %s is unreachable", id),
			Components:  []string{id},
			Evidence: ConflictEvidence{
				Kind:         EvidenceConstraint,
				ConstraintID: id,
				Reason:       "constraint cannot be satisfied under the current definitions",
			},
			Strategies: []ResolutionStrategy{
				{
					Type:        StrategyRemove,
					Description: "remove unreachable constraint",
					Confidence:  0.8,
					Effort:      EffortLow,
					Actions:     []string{"remove constraint"},
				},
				{
					Type:        StrategyAdd,
					Description: "add the definitions that make the constraint reachable",
					Confidence:  0.5,
					Effort:      EffortMedium,
					Actions:     []string{"add missing type or function definitions"},
				},
			},
		})
	}
}

// constraintUnreachable is an extension point for reachability
// analysis. No constraint currently reads as unreachable.
func (d *ConflictDetector) constraintUnreachable(_ string, _ *ConstraintAnalysis) bool {
	return false
}

func (d *ConflictDetector) detectSetConflicts(sets *SetAnalysis) {
	if !sets.HierarchyValid {
		d.conflicts = append(d.conflicts, Conflict{
			ID:          "set_hierarchy_invalid",
			Type:        SetViolation,
			Severity:    SeverityError,
			Description: "set hierarchy is invalid",
			Components:  []string{"set_hierarchy"},
			Evidence: ConflictEvidence{
				Kind:    EvidenceSet,
				SetName: "hierarchy",
				Reason:  "set hierarchy contains inconsistencies",
			},
			Strategies: []ResolutionStrategy{
				{
					Type:        StrategyRefactor,
					Description: "restructure set definitions to fix the hierarchy",
					Confidence:  0.7,
					Effort:      EffortMedium,
					Actions:     []string{"review set definitions", "fix hierarchical issues"},
				},
			},
		})
	}

	for _, check := range sets.MembershipChecks {
		if check.Valid {
			continue
		}
		span := check.Span
		d.conflicts = append(d.conflicts, Conflict{
			ID:          fmt.Sprintf("membership_violation_%s_%s", check.Element, check.Set),
			Type:        SetViolation,
			Severity:    SeverityWarning,
			Description: fmt.Sprintf("invalid set membership: %s ∉ %s", check.Element, check.Set),
			Components:  []string{check.Element, check.Set},
			Span:        &span,
			Evidence: ConflictEvidence{
				Kind:    EvidenceSet,
				SetName: check.Set,
				Reason:  fmt.Sprintf("element %s is not a valid member", check.Element),
			},
			Strategies: []ResolutionStrategy{
				{
					Type:        StrategyTypeChange,
					Description: "ensure the element type matches the set type",
					Confidence:  0.8,
					Effort:      EffortLow,
					Actions:     []string{"fix type declaration"},
				},
			},
		})
	}
}

func (d *ConflictDetector) detectDependencyConflicts(deps *DependencyAnalysis) {
	for i, circ := range deps.CircularDeps {
		var severity ConflictSeverity
		switch circ.Severity {
		case MinorCycle:
			severity = SeverityWarning
		case MajorCycle:
			severity = SeverityError
		default:
			severity = SeverityCritical
		}

		resolution := circ.Resolution
		if resolution == "" {
			resolution = "break the circular dependency"
		}

		d.conflicts = append(d.conflicts, Conflict{
			ID:          fmt.Sprintf("dependency_cycle_%d", i),
			Type:        DependencyCycle,
			Severity:    severity,
			Description: fmt.Sprintf("circular dependency detected: %s", strings.Join(circ.Cycle, " -> ")),
			Components:  circ.Cycle,
			Evidence: ConflictEvidence{
				Kind:      EvidenceDependency,
				Component: strings.Join(circ.Cycle, ", "),
				Reason:    "circular dependency prevents a resolution order",
			},
			Strategies: []ResolutionStrategy{
				{
					Type:        StrategyReorder,
					Description: resolution,
					Confidence:  0.7,
					Effort:      EffortMedium,
					Actions:     []string{"remove circular reference", "use forward declarations"},
				},
			},
		})
	}

	for _, name := range deps.Unreachable {
		d.conflicts = append(d.conflicts, Conflict{
			ID:          fmt.Sprintf("unreachable_component_%s", name),
			Type:        UndefinedSymbol,
			Severity:    SeverityWarning,
			Description: fmt.Sprintf("component %s is unreachable", name),
			Components:  []string{name},
			Evidence: ConflictEvidence{
				Kind:      EvidenceDependency,
				Component: name,
				Reason:    "component has no incoming dependencies",
			},
			Strategies: []ResolutionStrategy{
				{
					Type:        StrategyRemove,
					Description: "remove unused component",
					Confidence:  0.9,
					Effort:      EffortLow,
					Actions:     []string{"delete unreachable component"},
				},
			},
		})
	}
}

// detectUndefinedConstraintVariables cross-checks constraint variables
// against the type graph.
func (d *ConflictDetector) detectUndefinedConstraintVariables(graph *TypeGraph, constraints *ConstraintAnalysis) {
	for i := range constraints.Constraints {
		c := &constraints.Constraints[i]
		for _, v := range c.Variables {
			if _, ok := graph.Nodes[v]; ok {
				continue
			}
			span := c.Span
			d.conflicts = append(d.conflicts, Conflict{
				ID:          fmt.Sprintf("undefined_type_%s", v),
				Type:        UndefinedSymbol,
				Severity:    SeverityError,
				Description: fmt.Sprintf("undefined type %s referenced in constraint", v),
				Components:  []string{v},
				Span:        &span,
				Evidence: ConflictEvidence{
					Kind:   EvidenceIncompatible,
					TypeA:  v,
					TypeB:  "undefined",
					Reason: "type not defined in the type system",
				},
				Strategies: []ResolutionStrategy{
					{
						Type:        StrategyAdd,
						Description: "define the missing type",
						Confidence:  0.8,
						Effort:      EffortLow,
						Actions:     []string{"add type definition"},
					},
				},
			})
		}
	}
}

func (d *ConflictDetector) aggregate() ConflictReport {
	byType := make(map[ConflictType][]string)
	bySeverity := make(map[ConflictSeverity][]string)
	var totalScore float64
	var critical []string

	for i := range d.conflicts {
		c := &d.conflicts[i]
		byType[c.Type] = append(byType[c.Type], c.ID)
		bySeverity[c.Severity] = append(bySeverity[c.Severity], c.ID)
		totalScore += c.Severity.scoreWeight()
		if c.Severity >= SeverityError {
			critical = append(critical, c.ID)
		}
	}

	ordered := make([]*Conflict, len(d.conflicts))
	for i := range d.conflicts {
		ordered[i] = &d.conflicts[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Severity != ordered[j].Severity {
			return ordered[i].Severity > ordered[j].Severity
		}
		return ordered[i].minEffort() < ordered[j].minEffort()
	})
	resolutionOrder := make([]string, len(ordered))
	for i, c := range ordered {
		resolutionOrder[i] = c.ID
	}

	return ConflictReport{
		Conflicts:       d.conflicts,
		ByType:          byType,
		BySeverity:      bySeverity,
		TotalScore:      totalScore,
		Critical:        critical,
		ResolutionOrder: resolutionOrder,
	}
}

func sortedPairs(m map[TypePair]CompatibilityLevel) []TypePair {
	pairs := make([]TypePair, 0, len(m))
	for p := range m {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].From != pairs[j].From {
			return pairs[i].From < pairs[j].From
		}
		return pairs[i].To < pairs[j].To
	})
	return pairs
}
