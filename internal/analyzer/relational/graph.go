package relational

import (
	"sort"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
)

// RelationType classifies how two declared types relate structurally.
type RelationType int

const (
	Subtype RelationType = iota
	Supertype
	Equivalent
	Related
	Disjoint
	Overlapping
)

func (r RelationType) String() string {
	switch r {
	case Subtype:
		return "subtype"
	case Supertype:
		return "supertype"
	case Equivalent:
		return "equivalent"
	case Related:
		return "related"
	case Disjoint:
		return "disjoint"
	case Overlapping:
		return "overlapping"
	default:
		return "unknown"
	}
}

// MarshalText renders the relation for JSON output.
func (r RelationType) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// CompatibilityLevel grades an ordered pair of types for assignment.
type CompatibilityLevel int

const (
	Incompatible CompatibilityLevel = iota
	CompatRelated
	Compatible
	Identical
)

func (c CompatibilityLevel) String() string {
	switch c {
	case Identical:
		return "identical"
	case Compatible:
		return "compatible"
	case CompatRelated:
		return "related"
	default:
		return "incompatible"
	}
}

// MarshalText renders the level for JSON output.
func (c CompatibilityLevel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// TypeProperties captures structural facts inferred from a definition.
type TypeProperties struct {
	// Finite is nil when finiteness cannot be determined.
	Finite      *bool `json:"finite,omitempty"`
	Cardinality *int  `json:"cardinality,omitempty"`
	Ordered     bool  `json:"ordered"`
	Numeric     bool  `json:"numeric"`
	Enumerable  bool  `json:"enumerable"`
}

// TypeNode is one declared type in the relationship graph.
type TypeNode struct {
	Name       string             `json:"name"`
	Definition ast.TypeExpression `json:"-"`
	Properties TypeProperties     `json:"properties"`
}

// TypeRelation is a directed edge between two declared types.
type TypeRelation struct {
	From       string       `json:"from"`
	To         string       `json:"to"`
	Relation   RelationType `json:"relation"`
	Confidence float64      `json:"confidence"`
}

// TypePair keys the relation cache and the compatibility matrix.
type TypePair struct {
	From string
	To   string
}

// MarshalText renders the pair as a JSON map key.
func (p TypePair) MarshalText() ([]byte, error) {
	return []byte(p.From + "->" + p.To), nil
}

// TypeGraph is the full relationship graph over declared types.
type TypeGraph struct {
	Nodes map[string]TypeNode `json:"nodes"`
	Edges []TypeRelation      `json:"edges"`
	// Cycles found over the Subtype-only adjacency. Rotations of the
	// same cycle reached from different start nodes are not merged.
	Cycles [][]string `json:"cycles"`
	// Compatibility covers the full ordered cross-product of declared
	// names. Relations are cached in one direction only, so a (B,A)
	// lookup can report Incompatible while (A,B) is Compatible.
	Compatibility   map[TypePair]CompatibilityLevel `json:"compatibility"`
	HierarchyDepths map[string]int                  `json:"hierarchy_depths"`
	RootTypes       []string                        `json:"root_types"`
}

func (a *Analyzer) buildTypeGraph(doc *ast.Document) TypeGraph {
	nodes := make(map[string]TypeNode)
	var edges []TypeRelation

	for _, tb := range doc.TypesBlocks() {
		for name, def := range tb.Definitions {
			if _, seen := nodes[name]; seen {
				continue
			}
			nodes[name] = TypeNode{
				Name:       name,
				Definition: def.Expr,
				Properties: inferTypeProperties(def.Expr),
			}
		}
	}

	names := sortedNames(nodes)
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			defA, okA := a.typeEnv[names[i]]
			defB, okB := a.typeEnv[names[j]]
			if !okA || !okB {
				continue
			}
			relation := inferTypeRelationship(defA, defB)
			confidence := relationConfidence(relation)
			if relation != Disjoint || confidence > 0.5 {
				edges = append(edges, TypeRelation{
					From:       names[i],
					To:         names[j],
					Relation:   relation,
					Confidence: confidence,
				})
				a.relations[TypePair{names[i], names[j]}] = relation
			}
		}
	}

	cycles := detectTypeCycles(names, edges)

	return TypeGraph{
		Nodes:           nodes,
		Edges:           edges,
		Cycles:          cycles,
		Compatibility:   a.buildCompatibilityMatrix(names),
		HierarchyDepths: hierarchyDepths(names, edges),
		RootTypes:       rootTypes(names, edges),
	}
}

func inferTypeProperties(expr ast.TypeExpression) TypeProperties {
	switch t := expr.(type) {
	case *ast.BasicType:
		switch t.Kind {
		case ast.Natural, ast.Integer:
			return TypeProperties{Finite: boolPtr(false), Ordered: true, Numeric: true, Enumerable: true}
		case ast.Real:
			return TypeProperties{Finite: boolPtr(false), Ordered: true, Numeric: true}
		case ast.Boolean:
			return TypeProperties{Finite: boolPtr(true), Cardinality: intPtr(2), Enumerable: true}
		case ast.String:
			// Ordered lexicographically.
			return TypeProperties{Finite: boolPtr(false), Ordered: true, Enumerable: true}
		}
		return TypeProperties{}
	case *ast.EnumerationType:
		return TypeProperties{
			Finite:      boolPtr(true),
			Cardinality: intPtr(len(t.Labels)),
			Enumerable:  true,
		}
	case *ast.ArrayType:
		return TypeProperties{
			Finite:      boolPtr(t.Size != nil),
			Cardinality: t.Size,
			Ordered:     true,
			Enumerable:  true,
		}
	default:
		return TypeProperties{}
	}
}

// inferTypeRelationship is a structural decision table over one ordered
// pair of definitions. Function types compare contravariantly on input
// and covariantly on output.
func inferTypeRelationship(a, b ast.TypeExpression) RelationType {
	if typesEqual(a, b) {
		return Equivalent
	}

	if ba, ok := a.(*ast.BasicType); ok {
		if bb, ok := b.(*ast.BasicType); ok {
			switch {
			case ba.Kind == ast.Natural && bb.Kind == ast.Integer,
				ba.Kind == ast.Integer && bb.Kind == ast.Real,
				ba.Kind == ast.Natural && bb.Kind == ast.Real:
				return Subtype
			}
			return Disjoint
		}
	}

	if aa, ok := a.(*ast.ArrayType); ok {
		if ab, ok := b.(*ast.ArrayType); ok && aa.Size != nil && ab.Size == nil {
			if typesEqual(aa.Element, ab.Element) {
				return Subtype
			}
			return Disjoint
		}
	}

	if ea, ok := a.(*ast.EnumerationType); ok {
		if eb, ok := b.(*ast.EnumerationType); ok {
			setA := labelSet(ea.Labels)
			setB := labelSet(eb.Labels)
			switch {
			case setsEqual(setA, setB):
				return Equivalent
			case isSubset(setA, setB):
				return Subtype
			case isSubset(setB, setA):
				return Supertype
			case intersects(setA, setB):
				return Overlapping
			default:
				return Disjoint
			}
		}
	}

	if fa, ok := a.(*ast.FunctionType); ok {
		if fb, ok := b.(*ast.FunctionType); ok {
			inputRel := inferTypeRelationship(fb.Input, fa.Input)
			outputRel := inferTypeRelationship(fa.Output, fb.Output)
			switch {
			case inputRel == Subtype && outputRel == Subtype:
				return Subtype
			case inputRel == Equivalent && outputRel == Equivalent:
				return Equivalent
			default:
				return Related
			}
		}
	}

	return Disjoint
}

func relationConfidence(r RelationType) float64 {
	switch r {
	case Equivalent:
		return 1.0
	case Subtype, Supertype:
		return 0.9
	case Overlapping:
		return 0.7
	case Related:
		return 0.5
	default:
		return 0.3
	}
}

// typesEqual compares two type expressions structurally.
func typesEqual(a, b ast.TypeExpression) bool {
	switch ta := a.(type) {
	case *ast.BasicType:
		tb, ok := b.(*ast.BasicType)
		return ok && ta.Kind == tb.Kind
	case *ast.EnumerationType:
		tb, ok := b.(*ast.EnumerationType)
		if !ok || len(ta.Labels) != len(tb.Labels) {
			return false
		}
		for i := range ta.Labels {
			if ta.Labels[i] != tb.Labels[i] {
				return false
			}
		}
		return true
	case *ast.ArrayType:
		tb, ok := b.(*ast.ArrayType)
		if !ok || !typesEqual(ta.Element, tb.Element) {
			return false
		}
		if (ta.Size == nil) != (tb.Size == nil) {
			return false
		}
		return ta.Size == nil || *ta.Size == *tb.Size
	case *ast.TupleType:
		tb, ok := b.(*ast.TupleType)
		if !ok || len(ta.Elements) != len(tb.Elements) {
			return false
		}
		for i := range ta.Elements {
			if !typesEqual(ta.Elements[i], tb.Elements[i]) {
				return false
			}
		}
		return true
	case *ast.FunctionType:
		tb, ok := b.(*ast.FunctionType)
		return ok && typesEqual(ta.Input, tb.Input) && typesEqual(ta.Output, tb.Output)
	case *ast.GenericType:
		tb, ok := b.(*ast.GenericType)
		if !ok || ta.Name != tb.Name || len(ta.Parameters) != len(tb.Parameters) {
			return false
		}
		for i := range ta.Parameters {
			if !typesEqual(ta.Parameters[i], tb.Parameters[i]) {
				return false
			}
		}
		return true
	case *ast.ReferenceType:
		tb, ok := b.(*ast.ReferenceType)
		return ok && ta.Name == tb.Name
	default:
		return false
	}
}

// detectTypeCycles runs a DFS over the Subtype-only adjacency. A cycle
// is the path slice from the revisited node's first occurrence.
func detectTypeCycles(names []string, edges []TypeRelation) [][]string {
	adjacency := make(map[string][]string, len(names))
	for _, name := range names {
		adjacency[name] = nil
	}
	for _, e := range edges {
		if e.Relation == Subtype {
			adjacency[e.From] = append(adjacency[e.From], e.To)
		}
	}

	var cycles [][]string
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	var path []string

	var dfs func(node string)
	dfs = func(node string) {
		visited[node] = true
		recStack[node] = true
		path = append(path, node)

		for _, neighbor := range adjacency[node] {
			if !visited[neighbor] {
				dfs(neighbor)
			} else if recStack[neighbor] {
				for i, n := range path {
					if n == neighbor {
						cycle := make([]string, len(path)-i)
						copy(cycle, path[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}

		path = path[:len(path)-1]
		recStack[node] = false
	}

	for _, name := range names {
		if !visited[name] {
			dfs(name)
		}
	}
	return cycles
}

// buildCompatibilityMatrix covers the full ordered cross-product. The
// relation cache is keyed in one insertion order only, so the reverse
// pair falls through to the Incompatible default.
func (a *Analyzer) buildCompatibilityMatrix(names []string) map[TypePair]CompatibilityLevel {
	matrix := make(map[TypePair]CompatibilityLevel, len(names)*len(names))
	for _, from := range names {
		for _, to := range names {
			var level CompatibilityLevel
			if relation, ok := a.relations[TypePair{from, to}]; ok {
				switch relation {
				case Equivalent:
					level = Identical
				case Subtype, Supertype:
					level = Compatible
				case Related, Overlapping:
					level = CompatRelated
				default:
					level = Incompatible
				}
			} else if from == to {
				level = Identical
			} else {
				level = Incompatible
			}
			matrix[TypePair{from, to}] = level
		}
	}
	return matrix
}

// hierarchyDepths assigns each type 1 + the deepest chain of Subtype
// edges leaving it; types on a cycle contribute depth 0.
func hierarchyDepths(names []string, edges []TypeRelation) map[string]int {
	depths := make(map[string]int, len(names))
	inProgress := make(map[string]bool)

	var depthOf func(name string) int
	depthOf = func(name string) int {
		if d, ok := depths[name]; ok {
			return d
		}
		if inProgress[name] {
			return 0
		}
		inProgress[name] = true

		maxSuper := 0
		for _, e := range edges {
			if e.From == name && e.Relation == Subtype {
				if d := depthOf(e.To); d > maxSuper {
					maxSuper = d
				}
			}
		}

		delete(inProgress, name)
		depths[name] = maxSuper + 1
		return depths[name]
	}

	for _, name := range names {
		depthOf(name)
	}
	return depths
}

// rootTypes lists types with no outgoing Subtype edge.
func rootTypes(names []string, edges []TypeRelation) []string {
	var roots []string
	for _, name := range names {
		hasSupertype := false
		for _, e := range edges {
			if e.From == name && e.Relation == Subtype {
				hasSupertype = true
				break
			}
		}
		if !hasSupertype {
			roots = append(roots, name)
		}
	}
	return roots
}

func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

func setsEqual(a, b map[string]struct{}) bool {
	return len(a) == len(b) && isSubset(a, b)
}

func isSubset(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func sortedNames(nodes map[string]TypeNode) []string {
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }
