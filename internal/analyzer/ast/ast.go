// Package ast defines the document tree for AISP specifications.
// It provides structures for the five block kinds (meta, types, rules,
// functions, evidence) along with type and logical expressions.
package ast

// Position is a point in the source text (1-indexed line and column).
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Span tracks the source range of a node.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewSpan builds a span from line/column pairs. Offsets are unknown at
// this level and left zero.
func NewSpan(startLine, startCol, endLine, endCol int) Span {
	return Span{
		Start: Position{Line: startLine, Column: startCol},
		End:   Position{Line: endLine, Column: endCol},
	}
}

// Document is the root of a parsed AISP document.
type Document struct {
	Header   Header
	Metadata Metadata
	Blocks   []Block
	Span     Span
}

// Header carries the 𝔸<version>.<name>@<date> document header.
type Header struct {
	Version  string
	Name     string
	Date     string
	Metadata string
}

// Metadata holds document-level classification fields.
type Metadata struct {
	Domain   string // γ
	Protocol string // ρ
}

// Block is one top-level document block.
type Block interface {
	// Kind returns the block kind name ("Meta", "Types", ...).
	Kind() string
	block()
}

// MetaBlock is the ⟦Ω:Meta⟧ block.
type MetaBlock struct {
	Entries map[string]MetaEntry
	Span    Span
}

func (b *MetaBlock) Kind() string { return "Meta" }
func (b *MetaBlock) block()       {}

// MetaEntry is a single key/value entry of a meta block.
type MetaEntry struct {
	Key   string
	Value MetaValue
	Span  Span
}

// MetaValueKind discriminates the value held by a MetaEntry.
type MetaValueKind int

const (
	MetaString MetaValueKind = iota
	MetaNumber
	MetaBoolean
	MetaConstraint
)

// MetaValue holds one meta entry value. Exactly one of the payload
// fields is meaningful, selected by Kind.
type MetaValue struct {
	Kind       MetaValueKind
	Str        string
	Num        float64
	Bool       bool
	Constraint LogicalExpression
}

// TypesBlock is the ⟦Σ:Types⟧ block.
type TypesBlock struct {
	Definitions map[string]TypeDefinition
	Span        Span
}

func (b *TypesBlock) Kind() string { return "Types" }
func (b *TypesBlock) block()       {}

// TypeDefinition binds a name to a type expression.
type TypeDefinition struct {
	Name string
	Expr TypeExpression
	Span Span
}

// RulesBlock is the ⟦Γ:Rules⟧ block.
type RulesBlock struct {
	Rules []LogicalRule
	Span  Span
}

func (b *RulesBlock) Kind() string { return "Rules" }
func (b *RulesBlock) block()       {}

// LogicalRule is one rule, optionally quantified.
type LogicalRule struct {
	Quantifier *Quantifier
	Expr       LogicalExpression
	Span       Span
}

// QuantifierKind distinguishes ∀ from ∃.
type QuantifierKind int

const (
	Universal QuantifierKind = iota
	Existential
)

func (k QuantifierKind) String() string {
	if k == Existential {
		return "∃"
	}
	return "∀"
}

// Quantifier binds a variable, optionally over a named domain.
type Quantifier struct {
	Kind     QuantifierKind
	Variable string
	Domain   string // empty when the quantifier has no stated domain
	Span     Span
}

// FunctionsBlock is the ⟦Λ:Funcs⟧ block.
type FunctionsBlock struct {
	Functions map[string]FunctionDefinition
	Span      Span
}

func (b *FunctionsBlock) Kind() string { return "Functions" }
func (b *FunctionsBlock) block()       {}

// FunctionDefinition binds a name to a lambda.
type FunctionDefinition struct {
	Name   string
	Lambda LambdaExpression
	Span   Span
}

// LambdaExpression is a parameter list with a logical body.
type LambdaExpression struct {
	Parameters []string
	Body       LogicalExpression
	Span       Span
}

// EvidenceBlock is the ⟦Ε⟧ block carrying self-reported quality claims.
type EvidenceBlock struct {
	Delta   *float64 // δ, semantic density claim in [0,1]
	Phi     *float64 // φ, completeness claim in [0,100]
	Tau     string   // τ, claimed tier
	Metrics map[string]float64
	Span    Span
}

func (b *EvidenceBlock) Kind() string { return "Evidence" }
func (b *EvidenceBlock) block()       {}

// BlocksByKind returns the document's blocks of one kind, in order.
func (d *Document) BlocksByKind(kind string) []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.Kind() == kind {
			out = append(out, b)
		}
	}
	return out
}

// TypesBlocks returns all type blocks in document order.
func (d *Document) TypesBlocks() []*TypesBlock {
	var out []*TypesBlock
	for _, b := range d.Blocks {
		if tb, ok := b.(*TypesBlock); ok {
			out = append(out, tb)
		}
	}
	return out
}

// RulesBlocks returns all rule blocks in document order.
func (d *Document) RulesBlocks() []*RulesBlock {
	var out []*RulesBlock
	for _, b := range d.Blocks {
		if rb, ok := b.(*RulesBlock); ok {
			out = append(out, rb)
		}
	}
	return out
}

// FunctionsBlocks returns all function blocks in document order.
func (d *Document) FunctionsBlocks() []*FunctionsBlock {
	var out []*FunctionsBlock
	for _, b := range d.Blocks {
		if fb, ok := b.(*FunctionsBlock); ok {
			out = append(out, fb)
		}
	}
	return out
}
