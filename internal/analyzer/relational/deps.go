package relational

import (
	"sort"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
)

// CycleSeverity grades a circular dependency by how hard it is to
// untangle.
type CycleSeverity int

const (
	MinorCycle CycleSeverity = iota
	MajorCycle
	CriticalCycle
)

func (s CycleSeverity) String() string {
	switch s {
	case MinorCycle:
		return "minor"
	case MajorCycle:
		return "major"
	default:
		return "critical"
	}
}

// MarshalText renders the cycle severity for JSON output.
func (s CycleSeverity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CircularDependency is one dependency cycle between components.
type CircularDependency struct {
	Cycle      []string      `json:"cycle"`
	Severity   CycleSeverity `json:"severity"`
	Resolution string        `json:"resolution,omitempty"`
}

// DependencyAnalysis maps how declared components reference each other.
type DependencyAnalysis struct {
	Dependencies     map[string][]string  `json:"dependencies"`
	CircularDeps     []CircularDependency `json:"circular_deps"`
	TopologicalOrder []string             `json:"topological_order"`
	// Unreachable components have dependencies but nothing depends
	// on them.
	Unreachable    []string       `json:"unreachable"`
	DepthMap       map[string]int `json:"depth_map"`
	LeafComponents []string       `json:"leaf_components"`
}

func (a *Analyzer) analyzeDependencies(doc *ast.Document) DependencyAnalysis {
	deps := make(map[string][]string)

	for _, tb := range doc.TypesBlocks() {
		for name, def := range tb.Definitions {
			if _, seen := deps[name]; seen {
				continue
			}
			deps[name] = typeExpressionDeps(def.Expr)
		}
	}
	for _, fb := range doc.FunctionsBlocks() {
		for name := range fb.Functions {
			if _, seen := deps[name]; !seen {
				deps[name] = nil
			}
		}
	}

	components := make([]string, 0, len(deps))
	for name := range deps {
		components = append(components, name)
	}
	sort.Strings(components)

	reverse := make(map[string][]string)
	for _, name := range components {
		for _, dep := range deps[name] {
			reverse[dep] = append(reverse[dep], name)
		}
	}

	return DependencyAnalysis{
		Dependencies:     deps,
		CircularDeps:     detectDependencyCycles(components, deps),
		TopologicalOrder: topologicalSort(components, deps),
		Unreachable:      unreachableComponents(components, deps, reverse),
		DepthMap:         dependencyDepths(components, deps),
		LeafComponents:   leafComponents(components, deps),
	}
}

func typeExpressionDeps(expr ast.TypeExpression) []string {
	var deps []string
	var walk func(e ast.TypeExpression)
	walk = func(e ast.TypeExpression) {
		switch t := e.(type) {
		case *ast.ReferenceType:
			deps = append(deps, t.Name)
		case *ast.ArrayType:
			walk(t.Element)
		case *ast.TupleType:
			for _, el := range t.Elements {
				walk(el)
			}
		case *ast.FunctionType:
			walk(t.Input)
			walk(t.Output)
		}
	}
	walk(expr)
	return deps
}

func detectDependencyCycles(components []string, deps map[string][]string) []CircularDependency {
	var cycles []CircularDependency
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	var path []string

	var dfs func(node string)
	dfs = func(node string) {
		visited[node] = true
		recStack[node] = true
		path = append(path, node)

		for _, dep := range deps[node] {
			if !visited[dep] {
				dfs(dep)
			} else if recStack[dep] {
				for i, n := range path {
					if n == dep {
						cycle := make([]string, len(path)-i)
						copy(cycle, path[i:])
						cycles = append(cycles, CircularDependency{
							Cycle:      cycle,
							Severity:   cycleSeverity(len(cycle)),
							Resolution: "break the cycle with a forward declaration or composition",
						})
						break
					}
				}
			}
		}

		path = path[:len(path)-1]
		recStack[node] = false
	}

	for _, name := range components {
		if !visited[name] {
			dfs(name)
		}
	}
	return cycles
}

// cycleSeverity grades cycles by length: a two-node cycle is usually a
// mechanical fix, longer chains need restructuring.
func cycleSeverity(length int) CycleSeverity {
	switch {
	case length == 2:
		return MinorCycle
	case length >= 3 && length <= 5:
		return MajorCycle
	default:
		return CriticalCycle
	}
}

// topologicalSort orders components so dependencies come before their
// dependents (Kahn's algorithm). Components on a cycle never reach
// in-degree zero and are absent from the result.
func topologicalSort(components []string, deps map[string][]string) []string {
	inDegree := make(map[string]int, len(components))
	for _, name := range components {
		inDegree[name] = len(deps[name])
	}

	var queue []string
	for _, name := range components {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, other := range components {
			for _, dep := range deps[other] {
				if dep == node {
					inDegree[other]--
					if inDegree[other] == 0 {
						queue = append(queue, other)
					}
				}
			}
		}
	}
	return order
}

func unreachableComponents(components []string, deps map[string][]string, reverse map[string][]string) []string {
	var unreachable []string
	for _, name := range components {
		if len(reverse[name]) == 0 && len(deps[name]) > 0 {
			unreachable = append(unreachable, name)
		}
	}
	return unreachable
}

// dependencyDepths assigns leaves depth 1 and dependents one more than
// their deepest dependency; nodes on a cycle read as 0.
func dependencyDepths(components []string, deps map[string][]string) map[string]int {
	depths := make(map[string]int, len(components))
	inProgress := make(map[string]bool)

	var depthOf func(name string) int
	depthOf = func(name string) int {
		if d, ok := depths[name]; ok {
			return d
		}
		if inProgress[name] {
			depths[name] = 0
			return 0
		}
		inProgress[name] = true

		depth := 1
		for _, dep := range deps[name] {
			if d := depthOf(dep); d+1 > depth {
				depth = d + 1
			}
		}

		delete(inProgress, name)
		depths[name] = depth
		return depth
	}

	for _, name := range components {
		depthOf(name)
	}
	return depths
}

func leafComponents(components []string, deps map[string][]string) []string {
	var leaves []string
	for _, name := range components {
		if len(deps[name]) == 0 {
			leaves = append(leaves, name)
		}
	}
	return leaves
}
