package semantic

import (
	"unicode"

	"github.com/aisp-lang/aisp/internal/analyzer/symbols"
)

// SymbolStatistics summarizes one pass over the raw source text.
type SymbolStatistics struct {
	// CategoryCounts is the number of recognized symbols per category.
	CategoryCounts map[symbols.Category]int `json:"category_counts"`
	// TotalSymbols is the count of recognized symbols.
	TotalSymbols int `json:"total_symbols"`
	// TotalTokens is the count of non-whitespace runes.
	TotalTokens int `json:"total_tokens"`
	// WeightedScore is the category-weighted symbol density.
	WeightedScore float64 `json:"weighted_score"`
	// FormalSymbols counts recognized symbols outside the Greek
	// variable-letter category.
	FormalSymbols int `json:"formal_symbols"`
	// InformalSymbols counts Greek variable letters.
	InformalSymbols int `json:"informal_symbols"`
	// UndefinedSymbols counts non-ASCII runes absent from the registry.
	UndefinedSymbols int `json:"undefined_symbols"`
}

// ComputeSymbolStatistics scans the source rune-by-rune against the
// symbol registry, ignoring whitespace.
func ComputeSymbolStatistics(source string) SymbolStatistics {
	stats := SymbolStatistics{
		CategoryCounts: make(map[symbols.Category]int),
	}

	for _, r := range source {
		if unicode.IsSpace(r) {
			continue
		}
		stats.TotalTokens++

		if s, ok := symbols.Lookup(r); ok {
			stats.TotalSymbols++
			stats.CategoryCounts[s.Category]++
			if s.Category == symbols.Greek {
				stats.InformalSymbols++
			} else {
				stats.FormalSymbols++
			}
			continue
		}
		if r > unicode.MaxASCII {
			stats.UndefinedSymbols++
		}
	}

	stats.WeightedScore = symbols.WeightedDensity(source)
	return stats
}

// PureDensity is the plain symbols-per-token ratio.
func (s SymbolStatistics) PureDensity() float64 {
	if s.TotalTokens == 0 {
		return 0
	}
	return float64(s.TotalSymbols) / float64(s.TotalTokens)
}

// bindingScore measures binding-construct usage, saturating at 20
// binding symbols for a full score.
func (s SymbolStatistics) bindingScore() float64 {
	total := s.CategoryCounts[symbols.Definition] +
		s.CategoryCounts[symbols.Quantifier] +
		s.CategoryCounts[symbols.Lambda] +
		s.CategoryCounts[symbols.Logic] +
		s.CategoryCounts[symbols.Set]
	if total > 20 {
		total = 20
	}
	return float64(total) / 20.0
}
