package ast

import (
	"encoding/json"
	"fmt"
)

// JSON encoding of documents uses explicit mirror structs with a "kind"
// discriminator on the union types, so the wire format stays stable if
// the in-memory tree changes.

type documentJSON struct {
	Header   headerJSON   `json:"header"`
	Metadata metadataJSON `json:"metadata"`
	Blocks   []blockJSON  `json:"blocks"`
	Span     Span         `json:"span"`
}

type headerJSON struct {
	Version  string `json:"version"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Metadata string `json:"metadata,omitempty"`
}

type metadataJSON struct {
	Domain   string `json:"domain,omitempty"`
	Protocol string `json:"protocol,omitempty"`
}

type blockJSON struct {
	Kind        string                     `json:"kind"`
	Entries     map[string]metaEntryJSON   `json:"entries,omitempty"`
	Definitions map[string]typeExprJSON    `json:"definitions,omitempty"`
	Rules       []ruleJSON                 `json:"rules,omitempty"`
	Functions   map[string]lambdaJSON      `json:"functions,omitempty"`
	Delta       *float64                   `json:"delta,omitempty"`
	Phi         *float64                   `json:"phi,omitempty"`
	Tau         string                     `json:"tau,omitempty"`
	Metrics     map[string]float64         `json:"metrics,omitempty"`
	Span        Span                       `json:"span"`
}

type metaEntryJSON struct {
	Kind       string           `json:"kind"` // string|number|boolean|constraint
	Str        string           `json:"str,omitempty"`
	Num        float64          `json:"num,omitempty"`
	Bool       bool             `json:"bool,omitempty"`
	Constraint *logicalExprJSON `json:"constraint,omitempty"`
}

type typeExprJSON struct {
	Kind       string         `json:"kind"` // basic|enum|array|tuple|function|generic|reference
	Basic      string         `json:"basic,omitempty"`
	Labels     []string       `json:"labels,omitempty"`
	Element    *typeExprJSON  `json:"element,omitempty"`
	Size       *int           `json:"size,omitempty"`
	Elements   []typeExprJSON `json:"elements,omitempty"`
	Input      *typeExprJSON  `json:"input,omitempty"`
	Output     *typeExprJSON  `json:"output,omitempty"`
	Name       string         `json:"name,omitempty"`
	Parameters []typeExprJSON `json:"parameters,omitempty"`
}

type ruleJSON struct {
	Quantifier *quantifierJSON `json:"quantifier,omitempty"`
	Expr       logicalExprJSON `json:"expr"`
	Span       Span            `json:"span"`
}

type quantifierJSON struct {
	Kind     string `json:"kind"` // universal|existential
	Variable string `json:"variable"`
	Domain   string `json:"domain,omitempty"`
}

type lambdaJSON struct {
	Parameters []string        `json:"parameters"`
	Body       logicalExprJSON `json:"body"`
}

type logicalExprJSON struct {
	Kind      string            `json:"kind"` // variable|constant|binary|unary|application|membership|temporal
	Name      string            `json:"name,omitempty"`
	Const     *constantJSON     `json:"const,omitempty"`
	Op        string            `json:"op,omitempty"`
	Left      *logicalExprJSON  `json:"left,omitempty"`
	Right     *logicalExprJSON  `json:"right,omitempty"`
	Operand   *logicalExprJSON  `json:"operand,omitempty"`
	Function  string            `json:"function,omitempty"`
	Arguments []logicalExprJSON `json:"arguments,omitempty"`
	Element   *logicalExprJSON  `json:"element,omitempty"`
	Set       *logicalExprJSON  `json:"set,omitempty"`
}

type constantJSON struct {
	Kind string  `json:"kind"` // number|string|boolean
	Num  float64 `json:"num,omitempty"`
	Str  string  `json:"str,omitempty"`
	Bool bool    `json:"bool,omitempty"`
}

var basicNames = map[BasicKind]string{
	Natural: "natural",
	Integer: "integer",
	Real:    "real",
	Boolean: "boolean",
	String:  "string",
}

var basicKinds = map[string]BasicKind{
	"natural": Natural,
	"integer": Integer,
	"real":    Real,
	"boolean": Boolean,
	"string":  String,
}

var binaryNames = map[BinaryOperator]string{
	Definition:    "definition",
	Assignment:    "assignment",
	Equivalence:   "equivalence",
	Implication:   "implication",
	Biconditional: "biconditional",
	And:           "and",
	Or:            "or",
	Xor:           "xor",
	Equals:        "eq",
	NotEquals:     "neq",
	LessThan:      "lt",
	LessEqual:     "le",
	GreaterThan:   "gt",
	GreaterEqual:  "ge",
	Union:         "union",
	Intersection:  "intersection",
}

var temporalNames = map[TemporalOperator]string{
	Always:     "always",
	Eventually: "eventually",
	Next:       "next",
	Until:      "until",
	WeakUntil:  "weak_until",
	Release:    "release",
}

var binaryOps = invert(binaryNames)
var temporalOps = invert(temporalNames)

func invert[K comparable, V comparable](m map[K]V) map[V]K {
	out := make(map[V]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// EncodeDocument serializes a document to its JSON wire form.
func EncodeDocument(doc *Document) ([]byte, error) {
	dj := documentJSON{
		Header: headerJSON{
			Version:  doc.Header.Version,
			Name:     doc.Header.Name,
			Date:     doc.Header.Date,
			Metadata: doc.Header.Metadata,
		},
		Metadata: metadataJSON{Domain: doc.Metadata.Domain, Protocol: doc.Metadata.Protocol},
		Span:     doc.Span,
	}
	for _, b := range doc.Blocks {
		bj, err := encodeBlock(b)
		if err != nil {
			return nil, err
		}
		dj.Blocks = append(dj.Blocks, bj)
	}
	return json.MarshalIndent(dj, "", "  ")
}

// DecodeDocument parses the JSON wire form of a document.
func DecodeDocument(data []byte) (*Document, error) {
	var dj documentJSON
	if err := json.Unmarshal(data, &dj); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	doc := &Document{
		Header: Header{
			Version:  dj.Header.Version,
			Name:     dj.Header.Name,
			Date:     dj.Header.Date,
			Metadata: dj.Header.Metadata,
		},
		Metadata: Metadata{Domain: dj.Metadata.Domain, Protocol: dj.Metadata.Protocol},
		Span:     dj.Span,
	}
	for i, bj := range dj.Blocks {
		b, err := decodeBlock(bj)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		doc.Blocks = append(doc.Blocks, b)
	}
	return doc, nil
}

func encodeBlock(b Block) (blockJSON, error) {
	switch blk := b.(type) {
	case *MetaBlock:
		bj := blockJSON{Kind: "meta", Span: blk.Span}
		if len(blk.Entries) > 0 {
			bj.Entries = make(map[string]metaEntryJSON, len(blk.Entries))
			for k, e := range blk.Entries {
				ej, err := encodeMetaEntry(e)
				if err != nil {
					return blockJSON{}, err
				}
				bj.Entries[k] = ej
			}
		}
		return bj, nil
	case *TypesBlock:
		bj := blockJSON{Kind: "types", Span: blk.Span}
		if len(blk.Definitions) > 0 {
			bj.Definitions = make(map[string]typeExprJSON, len(blk.Definitions))
			for k, def := range blk.Definitions {
				tj, err := encodeTypeExpr(def.Expr)
				if err != nil {
					return blockJSON{}, err
				}
				bj.Definitions[k] = tj
			}
		}
		return bj, nil
	case *RulesBlock:
		bj := blockJSON{Kind: "rules", Span: blk.Span}
		for _, r := range blk.Rules {
			ej, err := encodeLogicalExpr(r.Expr)
			if err != nil {
				return blockJSON{}, err
			}
			rj := ruleJSON{Expr: ej, Span: r.Span}
			if r.Quantifier != nil {
				kind := "universal"
				if r.Quantifier.Kind == Existential {
					kind = "existential"
				}
				rj.Quantifier = &quantifierJSON{
					Kind:     kind,
					Variable: r.Quantifier.Variable,
					Domain:   r.Quantifier.Domain,
				}
			}
			bj.Rules = append(bj.Rules, rj)
		}
		return bj, nil
	case *FunctionsBlock:
		bj := blockJSON{Kind: "functions", Span: blk.Span}
		if len(blk.Functions) > 0 {
			bj.Functions = make(map[string]lambdaJSON, len(blk.Functions))
			for k, fn := range blk.Functions {
				body, err := encodeLogicalExpr(fn.Lambda.Body)
				if err != nil {
					return blockJSON{}, err
				}
				bj.Functions[k] = lambdaJSON{Parameters: fn.Lambda.Parameters, Body: body}
			}
		}
		return bj, nil
	case *EvidenceBlock:
		return blockJSON{
			Kind:    "evidence",
			Delta:   blk.Delta,
			Phi:     blk.Phi,
			Tau:     blk.Tau,
			Metrics: blk.Metrics,
			Span:    blk.Span,
		}, nil
	default:
		return blockJSON{}, fmt.Errorf("unknown block type %T", b)
	}
}

func decodeBlock(bj blockJSON) (Block, error) {
	switch bj.Kind {
	case "meta":
		blk := &MetaBlock{Entries: map[string]MetaEntry{}, Span: bj.Span}
		for k, ej := range bj.Entries {
			e, err := decodeMetaEntry(k, ej)
			if err != nil {
				return nil, err
			}
			blk.Entries[k] = e
		}
		return blk, nil
	case "types":
		blk := &TypesBlock{Definitions: map[string]TypeDefinition{}, Span: bj.Span}
		for k, tj := range bj.Definitions {
			expr, err := decodeTypeExpr(&tj)
			if err != nil {
				return nil, fmt.Errorf("type %q: %w", k, err)
			}
			blk.Definitions[k] = TypeDefinition{Name: k, Expr: expr}
		}
		return blk, nil
	case "rules":
		blk := &RulesBlock{Span: bj.Span}
		for i, rj := range bj.Rules {
			expr, err := decodeLogicalExpr(&rj.Expr)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			rule := LogicalRule{Expr: expr, Span: rj.Span}
			if rj.Quantifier != nil {
				kind := Universal
				if rj.Quantifier.Kind == "existential" {
					kind = Existential
				}
				rule.Quantifier = &Quantifier{
					Kind:     kind,
					Variable: rj.Quantifier.Variable,
					Domain:   rj.Quantifier.Domain,
				}
			}
			blk.Rules = append(blk.Rules, rule)
		}
		return blk, nil
	case "functions":
		blk := &FunctionsBlock{Functions: map[string]FunctionDefinition{}, Span: bj.Span}
		for k, fj := range bj.Functions {
			body, err := decodeLogicalExpr(&fj.Body)
			if err != nil {
				return nil, fmt.Errorf("function %q: %w", k, err)
			}
			blk.Functions[k] = FunctionDefinition{
				Name:   k,
				Lambda: LambdaExpression{Parameters: fj.Parameters, Body: body},
			}
		}
		return blk, nil
	case "evidence":
		return &EvidenceBlock{
			Delta:   bj.Delta,
			Phi:     bj.Phi,
			Tau:     bj.Tau,
			Metrics: bj.Metrics,
			Span:    bj.Span,
		}, nil
	default:
		return nil, fmt.Errorf("unknown block kind %q", bj.Kind)
	}
}

func encodeMetaEntry(e MetaEntry) (metaEntryJSON, error) {
	switch e.Value.Kind {
	case MetaString:
		return metaEntryJSON{Kind: "string", Str: e.Value.Str}, nil
	case MetaNumber:
		return metaEntryJSON{Kind: "number", Num: e.Value.Num}, nil
	case MetaBoolean:
		return metaEntryJSON{Kind: "boolean", Bool: e.Value.Bool}, nil
	case MetaConstraint:
		cj, err := encodeLogicalExpr(e.Value.Constraint)
		if err != nil {
			return metaEntryJSON{}, err
		}
		return metaEntryJSON{Kind: "constraint", Constraint: &cj}, nil
	default:
		return metaEntryJSON{}, fmt.Errorf("unknown meta value kind %d", e.Value.Kind)
	}
}

func decodeMetaEntry(key string, ej metaEntryJSON) (MetaEntry, error) {
	e := MetaEntry{Key: key}
	switch ej.Kind {
	case "string":
		e.Value = MetaValue{Kind: MetaString, Str: ej.Str}
	case "number":
		e.Value = MetaValue{Kind: MetaNumber, Num: ej.Num}
	case "boolean":
		e.Value = MetaValue{Kind: MetaBoolean, Bool: ej.Bool}
	case "constraint":
		if ej.Constraint == nil {
			return e, fmt.Errorf("meta entry %q: constraint payload missing", key)
		}
		expr, err := decodeLogicalExpr(ej.Constraint)
		if err != nil {
			return e, fmt.Errorf("meta entry %q: %w", key, err)
		}
		e.Value = MetaValue{Kind: MetaConstraint, Constraint: expr}
	default:
		return e, fmt.Errorf("meta entry %q: unknown kind %q", key, ej.Kind)
	}
	return e, nil
}

func encodeTypeExpr(t TypeExpression) (typeExprJSON, error) {
	switch te := t.(type) {
	case *BasicType:
		return typeExprJSON{Kind: "basic", Basic: basicNames[te.Kind]}, nil
	case *EnumerationType:
		return typeExprJSON{Kind: "enum", Labels: te.Labels}, nil
	case *ArrayType:
		el, err := encodeTypeExpr(te.Element)
		if err != nil {
			return typeExprJSON{}, err
		}
		return typeExprJSON{Kind: "array", Element: &el, Size: te.Size}, nil
	case *TupleType:
		tj := typeExprJSON{Kind: "tuple"}
		for _, e := range te.Elements {
			ej, err := encodeTypeExpr(e)
			if err != nil {
				return typeExprJSON{}, err
			}
			tj.Elements = append(tj.Elements, ej)
		}
		return tj, nil
	case *FunctionType:
		in, err := encodeTypeExpr(te.Input)
		if err != nil {
			return typeExprJSON{}, err
		}
		out, err := encodeTypeExpr(te.Output)
		if err != nil {
			return typeExprJSON{}, err
		}
		return typeExprJSON{Kind: "function", Input: &in, Output: &out}, nil
	case *GenericType:
		tj := typeExprJSON{Kind: "generic", Name: te.Name}
		for _, p := range te.Parameters {
			pj, err := encodeTypeExpr(p)
			if err != nil {
				return typeExprJSON{}, err
			}
			tj.Parameters = append(tj.Parameters, pj)
		}
		return tj, nil
	case *ReferenceType:
		return typeExprJSON{Kind: "reference", Name: te.Name}, nil
	default:
		return typeExprJSON{}, fmt.Errorf("unknown type expression %T", t)
	}
}

func decodeTypeExpr(tj *typeExprJSON) (TypeExpression, error) {
	switch tj.Kind {
	case "basic":
		kind, ok := basicKinds[tj.Basic]
		if !ok {
			return nil, fmt.Errorf("unknown basic type %q", tj.Basic)
		}
		return &BasicType{Kind: kind}, nil
	case "enum":
		return &EnumerationType{Labels: tj.Labels}, nil
	case "array":
		if tj.Element == nil {
			return nil, fmt.Errorf("array type missing element")
		}
		el, err := decodeTypeExpr(tj.Element)
		if err != nil {
			return nil, err
		}
		return &ArrayType{Element: el, Size: tj.Size}, nil
	case "tuple":
		tt := &TupleType{}
		for _, ej := range tj.Elements {
			e, err := decodeTypeExpr(&ej)
			if err != nil {
				return nil, err
			}
			tt.Elements = append(tt.Elements, e)
		}
		return tt, nil
	case "function":
		if tj.Input == nil || tj.Output == nil {
			return nil, fmt.Errorf("function type missing input or output")
		}
		in, err := decodeTypeExpr(tj.Input)
		if err != nil {
			return nil, err
		}
		out, err := decodeTypeExpr(tj.Output)
		if err != nil {
			return nil, err
		}
		return &FunctionType{Input: in, Output: out}, nil
	case "generic":
		gt := &GenericType{Name: tj.Name}
		for _, pj := range tj.Parameters {
			p, err := decodeTypeExpr(&pj)
			if err != nil {
				return nil, err
			}
			gt.Parameters = append(gt.Parameters, p)
		}
		return gt, nil
	case "reference":
		return &ReferenceType{Name: tj.Name}, nil
	default:
		return nil, fmt.Errorf("unknown type expression kind %q", tj.Kind)
	}
}

func encodeLogicalExpr(e LogicalExpression) (logicalExprJSON, error) {
	switch le := e.(type) {
	case *Variable:
		return logicalExprJSON{Kind: "variable", Name: le.Name}, nil
	case *Constant:
		cj := &constantJSON{}
		switch le.Kind {
		case NumberConstant:
			cj.Kind, cj.Num = "number", le.Num
		case StringConstant:
			cj.Kind, cj.Str = "string", le.Str
		default:
			cj.Kind, cj.Bool = "boolean", le.Bool
		}
		return logicalExprJSON{Kind: "constant", Const: cj}, nil
	case *Binary:
		left, err := encodeLogicalExpr(le.Left)
		if err != nil {
			return logicalExprJSON{}, err
		}
		right, err := encodeLogicalExpr(le.Right)
		if err != nil {
			return logicalExprJSON{}, err
		}
		return logicalExprJSON{Kind: "binary", Op: binaryNames[le.Op], Left: &left, Right: &right}, nil
	case *Unary:
		operand, err := encodeLogicalExpr(le.Operand)
		if err != nil {
			return logicalExprJSON{}, err
		}
		op := "not"
		if le.Op == PowerSet {
			op = "powerset"
		}
		return logicalExprJSON{Kind: "unary", Op: op, Operand: &operand}, nil
	case *Application:
		aj := logicalExprJSON{Kind: "application", Function: le.Function}
		for _, arg := range le.Arguments {
			ej, err := encodeLogicalExpr(arg)
			if err != nil {
				return logicalExprJSON{}, err
			}
			aj.Arguments = append(aj.Arguments, ej)
		}
		return aj, nil
	case *Membership:
		el, err := encodeLogicalExpr(le.Element)
		if err != nil {
			return logicalExprJSON{}, err
		}
		set, err := encodeLogicalExpr(le.Set)
		if err != nil {
			return logicalExprJSON{}, err
		}
		return logicalExprJSON{Kind: "membership", Element: &el, Set: &set}, nil
	case *Temporal:
		operand, err := encodeLogicalExpr(le.Operand)
		if err != nil {
			return logicalExprJSON{}, err
		}
		return logicalExprJSON{Kind: "temporal", Op: temporalNames[le.Op], Operand: &operand}, nil
	default:
		return logicalExprJSON{}, fmt.Errorf("unknown logical expression %T", e)
	}
}

func decodeLogicalExpr(ej *logicalExprJSON) (LogicalExpression, error) {
	switch ej.Kind {
	case "variable":
		return &Variable{Name: ej.Name}, nil
	case "constant":
		if ej.Const == nil {
			return nil, fmt.Errorf("constant missing payload")
		}
		switch ej.Const.Kind {
		case "number":
			return &Constant{Kind: NumberConstant, Num: ej.Const.Num}, nil
		case "string":
			return &Constant{Kind: StringConstant, Str: ej.Const.Str}, nil
		case "boolean":
			return &Constant{Kind: BooleanConstant, Bool: ej.Const.Bool}, nil
		default:
			return nil, fmt.Errorf("unknown constant kind %q", ej.Const.Kind)
		}
	case "binary":
		op, ok := binaryOps[ej.Op]
		if !ok {
			return nil, fmt.Errorf("unknown binary operator %q", ej.Op)
		}
		if ej.Left == nil || ej.Right == nil {
			return nil, fmt.Errorf("binary %q missing operand", ej.Op)
		}
		left, err := decodeLogicalExpr(ej.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeLogicalExpr(ej.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: op, Left: left, Right: right}, nil
	case "unary":
		if ej.Operand == nil {
			return nil, fmt.Errorf("unary %q missing operand", ej.Op)
		}
		operand, err := decodeLogicalExpr(ej.Operand)
		if err != nil {
			return nil, err
		}
		op := Not
		if ej.Op == "powerset" {
			op = PowerSet
		}
		return &Unary{Op: op, Operand: operand}, nil
	case "application":
		ap := &Application{Function: ej.Function}
		for _, aj := range ej.Arguments {
			arg, err := decodeLogicalExpr(&aj)
			if err != nil {
				return nil, err
			}
			ap.Arguments = append(ap.Arguments, arg)
		}
		return ap, nil
	case "membership":
		if ej.Element == nil || ej.Set == nil {
			return nil, fmt.Errorf("membership missing element or set")
		}
		el, err := decodeLogicalExpr(ej.Element)
		if err != nil {
			return nil, err
		}
		set, err := decodeLogicalExpr(ej.Set)
		if err != nil {
			return nil, err
		}
		return &Membership{Element: el, Set: set}, nil
	case "temporal":
		op, ok := temporalOps[ej.Op]
		if !ok {
			return nil, fmt.Errorf("unknown temporal operator %q", ej.Op)
		}
		if ej.Operand == nil {
			return nil, fmt.Errorf("temporal %q missing operand", ej.Op)
		}
		operand, err := decodeLogicalExpr(ej.Operand)
		if err != nil {
			return nil, err
		}
		return &Temporal{Op: op, Operand: operand}, nil
	default:
		return nil, fmt.Errorf("unknown logical expression kind %q", ej.Kind)
	}
}
