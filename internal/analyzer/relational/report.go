package relational

import (
	"fmt"
	"strings"
)

// Report renders a plain-text summary of a relational analysis.
func Report(analysis *Analysis) string {
	var b strings.Builder

	status := "INVALID"
	if analysis.Valid {
		status = "VALID"
	}
	fmt.Fprintf(&b, "=== Relational Analysis Report ===\n")
	fmt.Fprintf(&b, "Overall Status: %s\n", status)
	fmt.Fprintf(&b, "Consistency Score: %.2f%%\n\n", analysis.ConsistencyScore*100.0)

	fmt.Fprintf(&b, "Type Graph:\n")
	fmt.Fprintf(&b, "  - Types: %d\n", len(analysis.TypeGraph.Nodes))
	fmt.Fprintf(&b, "  - Relationships: %d\n", len(analysis.TypeGraph.Edges))
	fmt.Fprintf(&b, "  - Cycles: %d\n", len(analysis.TypeGraph.Cycles))
	fmt.Fprintf(&b, "  - Root Types: %d\n\n", len(analysis.TypeGraph.RootTypes))

	fmt.Fprintf(&b, "Set Theory:\n")
	fmt.Fprintf(&b, "  - Sets: %d\n", len(analysis.SetAnalysis.Sets))
	fmt.Fprintf(&b, "  - Membership Checks: %d\n", len(analysis.SetAnalysis.MembershipChecks))
	fmt.Fprintf(&b, "  - Hierarchy Valid: %t\n\n", analysis.SetAnalysis.HierarchyValid)

	fmt.Fprintf(&b, "Constraints:\n")
	fmt.Fprintf(&b, "  - Total: %d\n", len(analysis.Constraints.Constraints))
	fmt.Fprintf(&b, "  - Satisfied: %d\n", len(analysis.Constraints.Satisfied))
	fmt.Fprintf(&b, "  - Unsatisfied: %d\n", len(analysis.Constraints.Unsatisfied))
	fmt.Fprintf(&b, "  - Conflicts: %d\n\n", len(analysis.Constraints.Conflicts))

	fmt.Fprintf(&b, "Dependencies:\n")
	fmt.Fprintf(&b, "  - Components: %d\n", len(analysis.Dependencies.Dependencies))
	fmt.Fprintf(&b, "  - Circular: %d\n", len(analysis.Dependencies.CircularDeps))
	fmt.Fprintf(&b, "  - Unreachable: %d\n\n", len(analysis.Dependencies.Unreachable))

	fmt.Fprintf(&b, "Conflicts:\n")
	fmt.Fprintf(&b, "  - Total: %d\n", len(analysis.Conflicts.Conflicts))
	fmt.Fprintf(&b, "  - Critical: %d\n", len(analysis.Conflicts.Critical))
	fmt.Fprintf(&b, "  - Conflict Score: %.1f\n", analysis.Conflicts.TotalScore)

	if len(analysis.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(analysis.Warnings))
		for _, w := range analysis.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w.Message)
		}
	}

	return b.String()
}
