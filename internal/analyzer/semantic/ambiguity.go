package semantic

import "fmt"

// interpretation is one candidate reading produced by a parsing
// strategy simulation.
type interpretation struct {
	strategy   string
	confidence float64
}

// hash deduplicates interpretations by strategy and confidence.
func (i interpretation) hash() string {
	return fmt.Sprintf("%s_%.2f", i.strategy, i.confidence)
}

// calculateAmbiguity estimates Ambig(D) = 1 − |unique readings| /
// |total readings| across three strategy simulations, then applies
// symbol-precision and density bonuses. Well-formed documents are
// defined to never read as ambiguous: if the predicate holds and the
// score still exceeds 0.02 it is forced to 0.01.
func calculateAmbiguity(stats SymbolStatistics, delta float64) float64 {
	unique := make(map[string]struct{})
	total := 0

	for _, strategy := range []string{"strict", "permissive", "context"} {
		for _, in := range interpret(stats, strategy) {
			total++
			unique[in.hash()] = struct{}{}
		}
	}

	ambiguity := 1.0
	if total > 0 {
		ambiguity = 1.0 - float64(len(unique))/float64(total)
	}

	precisionBonus := 0.0
	if stats.TotalTokens > 0 {
		precisionBonus = float64(stats.TotalSymbols) / float64(stats.TotalTokens) * 0.1
	}
	densityBonus := delta * 0.05

	final := ambiguity - precisionBonus - densityBonus
	if final < 0 {
		final = 0
	}

	if isWellFormed(stats) && final > 0.02 {
		return 0.01
	}
	return final
}

// interpret simulates one parsing strategy over the symbol statistics.
func interpret(stats SymbolStatistics, strategy string) []interpretation {
	var out []interpretation

	switch strategy {
	case "strict":
		// Only one valid reading, and only for fully formal documents.
		if stats.FormalSymbols > 0 && stats.UndefinedSymbols == 0 {
			out = append(out, interpretation{strategy: "strict", confidence: 0.95})
		}
	case "permissive":
		out = append(out, interpretation{strategy: "permissive", confidence: 0.8})
		if stats.InformalSymbols > 0 {
			out = append(out, interpretation{strategy: "permissive_informal", confidence: 0.6})
		}
	case "context":
		if stats.TotalSymbols > 10 {
			out = append(out, interpretation{strategy: "context", confidence: 0.7})
		}
	}

	return out
}

// isWellFormed reports whether the document exhibits a high formal
// symbol ratio, no undefined symbols, and enough symbols to matter.
func isWellFormed(stats SymbolStatistics) bool {
	formalRatio := 0.0
	if stats.TotalSymbols > 0 {
		formalRatio = float64(stats.FormalSymbols) / float64(stats.TotalSymbols)
	}
	return formalRatio > 0.7 && stats.UndefinedSymbols == 0 && stats.TotalSymbols >= 5
}
