package ast

import "fmt"

// LogicalExpression is the interface implemented by all rule expressions.
type LogicalExpression interface {
	logicalExpr()
}

// Variable references a bound or free name.
type Variable struct {
	Name string
}

func (e *Variable) logicalExpr() {}

// ConstantKind discriminates the payload of a Constant.
type ConstantKind int

const (
	NumberConstant ConstantKind = iota
	StringConstant
	BooleanConstant
)

// Constant is a literal value.
type Constant struct {
	Kind ConstantKind
	Num  float64
	Str  string
	Bool bool
}

func (e *Constant) logicalExpr() {}

// BinaryOperator enumerates the binary connectives and relations.
type BinaryOperator int

const (
	Definition    BinaryOperator = iota // ≜
	Assignment                          // ≔
	Equivalence                         // ≡
	Implication                         // ⇒
	Biconditional                       // ⇔
	And                                 // ∧
	Or                                  // ∨
	Xor                                 // ⊕
	Equals                              // =
	NotEquals                           // ≠
	LessThan                            // <
	LessEqual                           // ≤
	GreaterThan                         // >
	GreaterEqual                        // ≥
	Union                               // ∪
	Intersection                        // ∩
)

func (op BinaryOperator) String() string {
	symbols := [...]string{
		"≜", "≔", "≡", "⇒", "⇔", "∧", "∨", "⊕",
		"=", "≠", "<", "≤", ">", "≥", "∪", "∩",
	}
	if int(op) < len(symbols) {
		return symbols[op]
	}
	return fmt.Sprintf("BinaryOperator(%d)", int(op))
}

// Binary applies a binary operator.
type Binary struct {
	Op    BinaryOperator
	Left  LogicalExpression
	Right LogicalExpression
}

func (e *Binary) logicalExpr() {}

// UnaryOperator enumerates the unary operators.
type UnaryOperator int

const (
	Not      UnaryOperator = iota // ¬
	PowerSet                      // 𝒫
)

func (op UnaryOperator) String() string {
	if op == PowerSet {
		return "𝒫"
	}
	return "¬"
}

// Unary applies a unary operator.
type Unary struct {
	Op      UnaryOperator
	Operand LogicalExpression
}

func (e *Unary) logicalExpr() {}

// Application applies a named function to arguments.
type Application struct {
	Function  string
	Arguments []LogicalExpression
}

func (e *Application) logicalExpr() {}

// Membership is element ∈ set.
type Membership struct {
	Element LogicalExpression
	Set     LogicalExpression
}

func (e *Membership) logicalExpr() {}

// TemporalOperator enumerates the temporal-logic operators.
type TemporalOperator int

const (
	Always     TemporalOperator = iota // □
	Eventually                         // ◊
	Next                               // X
	Until                              // U
	WeakUntil                          // W
	Release                            // R
)

func (op TemporalOperator) String() string {
	symbols := [...]string{"□", "◊", "X", "U", "W", "R"}
	if int(op) < len(symbols) {
		return symbols[op]
	}
	return fmt.Sprintf("TemporalOperator(%d)", int(op))
}

// Temporal applies a temporal operator.
type Temporal struct {
	Op      TemporalOperator
	Operand LogicalExpression
}

func (e *Temporal) logicalExpr() {}
