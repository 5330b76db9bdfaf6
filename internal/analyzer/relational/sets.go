package relational

import (
	"sort"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
)

// SetKind classifies a set definition.
type SetKind int

const (
	FiniteSet SetKind = iota
	InfiniteSet
	DerivedSet
)

func (k SetKind) String() string {
	switch k {
	case FiniteSet:
		return "finite"
	case InfiniteSet:
		return "infinite"
	default:
		return "derived"
	}
}

// MarshalText renders the set kind for JSON output.
func (k SetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SetProperties captures facts about a set usable in membership checks.
type SetProperties struct {
	Empty       bool `json:"empty"`
	Finite      bool `json:"finite"`
	Cardinality *int `json:"cardinality,omitempty"`
	WellOrdered bool `json:"well_ordered"`
}

// SetDefinition is a set derived from a type declaration or built in.
type SetDefinition struct {
	Name       string              `json:"name"`
	Kind       SetKind             `json:"kind"`
	Elements   map[string]struct{} `json:"-"`
	Properties SetProperties       `json:"properties"`
}

// MembershipCheck records one element-in-set validation.
type MembershipCheck struct {
	Element string   `json:"element"`
	Set     string   `json:"set"`
	Valid   bool     `json:"valid"`
	Reason  string   `json:"reason"`
	Span    ast.Span `json:"span"`
}

// SetAnalysis is the set-theory view of a document.
type SetAnalysis struct {
	Sets             map[string]SetDefinition `json:"sets"`
	MembershipChecks []MembershipCheck        `json:"membership_checks"`
	HierarchyValid   bool                     `json:"hierarchy_valid"`
	EmptySetRefs     []string                 `json:"empty_set_refs"`
	ConsistencyScore float64                  `json:"consistency_score"`
}

func (a *Analyzer) analyzeSets(doc *ast.Document) SetAnalysis {
	sets := make(map[string]SetDefinition)
	addBuiltinSets(sets)

	for _, tb := range doc.TypesBlocks() {
		for name, def := range tb.Definitions {
			if sd, ok := setFromType(name, def.Expr); ok {
				if _, seen := sets[name]; !seen {
					sets[name] = sd
				}
			}
		}
	}

	checks := a.membershipChecks(doc, sets)

	var emptyRefs []string
	for _, name := range sortedSetNames(sets) {
		if sets[name].Properties.Empty {
			emptyRefs = append(emptyRefs, name)
		}
	}

	return SetAnalysis{
		Sets:             sets,
		MembershipChecks: checks,
		HierarchyValid:   validateSetHierarchy(sets),
		EmptySetRefs:     emptyRefs,
		ConsistencyScore: membershipConsistency(checks),
	}
}

func setFromType(name string, expr ast.TypeExpression) (SetDefinition, bool) {
	switch t := expr.(type) {
	case *ast.EnumerationType:
		return SetDefinition{
			Name:     name,
			Kind:     FiniteSet,
			Elements: labelSet(t.Labels),
			Properties: SetProperties{
				Empty:       len(t.Labels) == 0,
				Finite:      true,
				Cardinality: intPtr(len(t.Labels)),
				WellOrdered: true,
			},
		}, true
	case *ast.BasicType:
		finite := t.Kind == ast.Boolean
		var cardinality *int
		if finite {
			cardinality = intPtr(2)
		}
		return SetDefinition{
			Name: name,
			Kind: basicSetKind(finite),
			Properties: SetProperties{
				Finite:      finite,
				Cardinality: cardinality,
				WellOrdered: t.Kind == ast.Natural || t.Kind == ast.Integer,
			},
		}, true
	default:
		return SetDefinition{}, false
	}
}

func basicSetKind(finite bool) SetKind {
	if finite {
		return FiniteSet
	}
	return InfiniteSet
}

func addBuiltinSets(sets map[string]SetDefinition) {
	infinite := func(name string, wellOrdered bool) SetDefinition {
		return SetDefinition{
			Name:       name,
			Kind:       InfiniteSet,
			Properties: SetProperties{WellOrdered: wellOrdered},
		}
	}

	sets["ℕ"] = infinite("ℕ", true)
	sets["ℤ"] = infinite("ℤ", true)
	sets["ℚ"] = infinite("ℚ", true)
	sets["ℝ"] = infinite("ℝ", false)
	sets["𝔹"] = SetDefinition{
		Name:     "𝔹",
		Kind:     FiniteSet,
		Elements: map[string]struct{}{"true": {}, "false": {}},
		Properties: SetProperties{
			Finite:      true,
			Cardinality: intPtr(2),
			WellOrdered: true,
		},
	}
	sets["∅"] = SetDefinition{
		Name: "∅",
		Kind: FiniteSet,
		Properties: SetProperties{
			Empty:       true,
			Finite:      true,
			Cardinality: intPtr(0),
		},
	}
}

// membershipChecks validates every quantifier domain: ∀x:S reads as a
// membership claim of x in S against the type environment.
func (a *Analyzer) membershipChecks(doc *ast.Document, sets map[string]SetDefinition) []MembershipCheck {
	var checks []MembershipCheck
	for _, rb := range doc.RulesBlocks() {
		for i := range rb.Rules {
			rule := &rb.Rules[i]
			q := rule.Quantifier
			if q == nil || q.Domain == "" {
				continue
			}

			_, inEnv := a.typeEnv[q.Domain]
			_, isSet := sets[q.Domain]
			valid := inEnv || isSet
			reason := "domain resolves to a declared or built-in set"
			if !valid {
				reason = "domain is not a declared type or built-in set"
			}

			checks = append(checks, MembershipCheck{
				Element: q.Variable,
				Set:     q.Domain,
				Valid:   valid,
				Reason:  reason,
				Span:    rule.Span,
			})
		}
	}
	return checks
}

// validateSetHierarchy is an extension point for subset-chain cycle
// checking; the hierarchy currently always reads as valid.
func validateSetHierarchy(_ map[string]SetDefinition) bool {
	return true
}

func membershipConsistency(checks []MembershipCheck) float64 {
	if len(checks) == 0 {
		return 1.0
	}
	valid := 0
	for _, c := range checks {
		if c.Valid {
			valid++
		}
	}
	return float64(valid) / float64(len(checks))
}

func sortedSetNames(sets map[string]SetDefinition) []string {
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
