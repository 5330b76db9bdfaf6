// Package symbols defines the AISP mathematical symbol set with fast
// rune lookup, ASCII alternatives, and density calculations over raw
// document text.
package symbols

import "unicode"

// Category groups symbols for density weighting.
type Category int

const (
	BlockDelimiter Category = iota // ⟦ ⟧
	Definition                     // ≜ ≔ ≡ ≢
	Quantifier                     // ∀ ∃
	Lambda                         // λ
	Logic                          // ⇒ ⇔ → ↔ ∧ ∨ ¬ ⊕
	Set                            // ∈ ∉ ⊆ ⊇ ∩ ∪ ∅ 𝒫
	Relation                       // ≤ ≥
	Type                           // ℕ ℤ ℝ 𝔹 𝕊
	Document                       // 𝔸
	Tier                           // ◊ ⊘
	Tuple                          // ⟨ ⟩
	Temporal                       // □ X U
	Greek                          // variable letters
)

func (c Category) String() string {
	names := [...]string{
		"BlockDelimiter", "Definition", "Quantifier", "Lambda", "Logic",
		"Set", "Relation", "Type", "Document", "Tier", "Tuple", "Temporal",
		"Greek",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// MarshalText renders the category name, used for JSON map keys.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Symbol is one entry of the symbol table.
type Symbol struct {
	Rune     rune
	Category Category
	Name     string
	ASCIIAlt string // empty when the symbol has no ASCII spelling
}

// table is the complete symbol set (the Σ_512 subset in active use).
var table = []Symbol{
	{'⟦', BlockDelimiter, "LEFT_DOUBLE_BRACKET", "(("},
	{'⟧', BlockDelimiter, "RIGHT_DOUBLE_BRACKET", "))"},

	{'≜', Definition, "DEFINED_AS", "::="},
	{'≔', Definition, "ASSIGNMENT", ":="},
	{'≡', Definition, "EQUIVALENT", "==="},
	{'≢', Definition, "NOT_EQUIVALENT", "!=="},

	{'∀', Quantifier, "FOR_ALL", "forall"},
	{'∃', Quantifier, "EXISTS", "exists"},

	{'λ', Lambda, "LAMBDA", "lambda"},

	{'⇒', Logic, "IMPLIES", "=>"},
	{'⇔', Logic, "IFF", "<=>"},
	{'→', Logic, "ARROW", "->"},
	{'↔', Logic, "BICONDITIONAL", "<->"},
	{'∧', Logic, "AND", `/\`},
	{'∨', Logic, "OR", `\/`},
	{'¬', Logic, "NOT", "~"},
	{'⊕', Logic, "XOR", "xor"},

	{'∈', Set, "ELEMENT_OF", "in"},
	{'∉', Set, "NOT_ELEMENT_OF", "notin"},
	{'⊆', Set, "SUBSET", "subset"},
	{'⊇', Set, "SUPERSET", "superset"},
	{'∩', Set, "INTERSECTION", "intersect"},
	{'∪', Set, "UNION", "union"},
	{'∅', Set, "EMPTY_SET", "emptyset"},
	{'𝒫', Set, "POWER_SET", "powerset"},

	{'≤', Relation, "LESS_EQUAL", "<="},
	{'≥', Relation, "GREATER_EQUAL", ">="},

	{'ℕ', Type, "NATURALS", "Nat"},
	{'ℤ', Type, "INTEGERS", "Int"},
	{'ℝ', Type, "REALS", "Real"},
	{'𝔹', Type, "BOOLEANS", "Bool"},
	{'𝕊', Type, "STRINGS", "String"},

	{'𝔸', Document, "AISP_HEADER", "AISP"},

	{'◊', Tier, "DIAMOND", "diamond"},
	{'⊘', Tier, "REJECT", "reject"},

	{'⟨', Tuple, "LEFT_ANGLE", "<"},
	{'⟩', Tuple, "RIGHT_ANGLE", ">"},

	{'□', Temporal, "ALWAYS", "[]"},
	{'X', Temporal, "NEXT", ""},
	{'U', Temporal, "UNTIL", ""},

	{'α', Greek, "ALPHA", "alpha"},
	{'β', Greek, "BETA", "beta"},
	{'γ', Greek, "GAMMA", "gamma"},
	{'δ', Greek, "DELTA", "delta"},
	{'ε', Greek, "EPSILON", "epsilon"},
	{'φ', Greek, "PHI", "phi"},
	{'τ', Greek, "TAU", "tau"},
	{'ρ', Greek, "RHO", "rho"},
	{'Ω', Greek, "OMEGA", "Omega"},
	{'Σ', Greek, "SIGMA", "Sigma"},
	{'Γ', Greek, "GAMMA_UPPER", "Gamma"},
	{'Λ', Greek, "LAMBDA_UPPER", "Lambda"},
	{'Ε', Greek, "EPSILON_UPPER", "Epsilon"},
	{'Θ', Greek, "THETA", "Theta"},
	{'Χ', Greek, "CHI", "Chi"},
	{'Δ', Greek, "DELTA_UPPER", "Delta"},
	{'Π', Greek, "PI", "Pi"},
}

var (
	runeMap  = make(map[rune]*Symbol, len(table))
	asciiMap = make(map[string]*Symbol, len(table))
)

func init() {
	for i := range table {
		s := &table[i]
		runeMap[s.Rune] = s
		if s.ASCIIAlt != "" {
			asciiMap[s.ASCIIAlt] = s
		}
	}
}

// Lookup returns the symbol for a rune.
func Lookup(r rune) (*Symbol, bool) {
	s, ok := runeMap[r]
	return s, ok
}

// LookupASCII returns the symbol for an ASCII alternative spelling.
func LookupASCII(alt string) (*Symbol, bool) {
	s, ok := asciiMap[alt]
	return s, ok
}

// Is reports whether the rune is in the symbol table.
func Is(r rune) bool {
	_, ok := runeMap[r]
	return ok
}

// InCategory returns all symbols of one category, in table order.
func InCategory(c Category) []Symbol {
	var out []Symbol
	for _, s := range table {
		if s.Category == c {
			out = append(out, s)
		}
	}
	return out
}

// Density is the fraction of non-whitespace runes that are symbols.
func Density(text string) float64 {
	total, count := 0, 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if Is(r) {
			count++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// categoryWeights rank how much semantic content each category carries.
var categoryWeights = map[Category]float64{
	Definition: 3.0,
	Temporal:   3.0,
	Logic:      2.5,
	Quantifier: 2.5,
	Lambda:     2.0,
	Set:        2.0,
	Type:       1.5,
	Greek:      1.0,
}

// WeightedDensity scores symbols by category weight per non-whitespace
// rune. Categories without an explicit weight count 1.0.
func WeightedDensity(text string) float64 {
	total := 0
	score := 0.0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if s, ok := runeMap[r]; ok {
			w, ok := categoryWeights[s.Category]
			if !ok {
				w = 1.0
			}
			score += w
		}
	}
	if total == 0 {
		return 0
	}
	return score / float64(total)
}
