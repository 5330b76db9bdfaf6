// Package semantic implements the quality/density classifier. It scans
// the raw source for mathematical symbol usage, scores block coverage
// and binding density into δ, estimates ambiguity, grades the document
// into a tier, and validates every block against the structural rules.
package semantic

import (
	"fmt"
	"sort"

	"github.com/aisp-lang/aisp/internal/analyzer/ast"
	"github.com/aisp-lang/aisp/internal/analyzer/errors"
)

// FunctionSignature records what is known about a declared function.
type FunctionSignature struct {
	Name       string
	Parameters []ast.TypeExpression
	ReturnType ast.TypeExpression // nil until inference exists
}

// TypeAnalysis is the type environment produced by a classifier run.
type TypeAnalysis struct {
	// TypeDefinitions maps every resolved name, built-ins included,
	// to its expression.
	TypeDefinitions map[string]ast.TypeExpression `json:"-"`
	// UndefinedTypes lists referenced but undeclared names.
	UndefinedTypes map[string]struct{} `json:"undefined_types,omitempty"`
	// FunctionSignatures maps declared function names.
	FunctionSignatures map[string]FunctionSignature `json:"-"`
}

// Analysis is the classifier result.
type Analysis struct {
	// Valid is the classifier-level verdict: tier above Reject,
	// ambiguity under 0.02, and no undefined type references. Callers
	// running relational analysis conjoin its verdict separately.
	Valid        bool             `json:"valid"`
	Tier         QualityTier      `json:"tier"`
	Delta        float64          `json:"delta"`
	PureDensity  float64          `json:"pure_density"`
	Ambiguity    float64          `json:"ambiguity"`
	BlockScore   float64          `json:"block_score"`
	BindingScore float64          `json:"binding_score"`
	Completeness float64          `json:"completeness"`
	QualityScore float64          `json:"quality_score"`
	TypeAnalysis TypeAnalysis     `json:"type_analysis"`
	SymbolStats  SymbolStatistics `json:"symbol_stats"`
	Warnings     errors.ErrorList `json:"warnings,omitempty"`
}

// Analyzer is the classifier. Instances hold transient environments
// that are reset at the start of every Analyze call; they are not safe
// for concurrent use.
type Analyzer struct {
	thresholds Thresholds
	typeEnv    map[string]ast.TypeExpression
	funcEnv    map[string]FunctionSignature
	varScopes  []map[string]ast.TypeExpression
	warnings   errors.ErrorList
}

// NewAnalyzer builds a classifier with the given tier thresholds.
func NewAnalyzer(thresholds Thresholds) *Analyzer {
	return &Analyzer{
		thresholds: thresholds,
		typeEnv:    make(map[string]ast.TypeExpression),
		funcEnv:    make(map[string]FunctionSignature),
		varScopes:  []map[string]ast.TypeExpression{{}},
	}
}

func (a *Analyzer) reset() {
	a.typeEnv = make(map[string]ast.TypeExpression)
	a.funcEnv = make(map[string]FunctionSignature)
	a.varScopes = []map[string]ast.TypeExpression{{}}
	a.warnings = nil
}

// builtinTypeNames are registered before user types and are exempt
// from redefinition warnings.
var builtinTypeNames = map[string]bool{
	"VectorSpace768": true, "VectorSpace512": true, "VectorSpace256": true,
	"RealVector": true, "DirectSum": true, "Structure": true, "Composite": true,
	"ℝ7": true, "ℝ8": true, "ℝ256": true, "ℝ512": true, "ℝ768": true, "ℝⁿ": true,
}

func realVector(n int) ast.TypeExpression {
	size := n
	return &ast.ArrayType{Element: &ast.BasicType{Kind: ast.Real}, Size: &size}
}

func (a *Analyzer) addBuiltinTypes() {
	a.typeEnv["VectorSpace768"] = realVector(768)
	a.typeEnv["VectorSpace512"] = realVector(512)
	a.typeEnv["VectorSpace256"] = realVector(256)

	a.typeEnv["RealVector"] = &ast.ArrayType{Element: &ast.BasicType{Kind: ast.Real}}
	a.typeEnv["DirectSum"] = &ast.GenericType{Name: "DirectSum"}
	a.typeEnv["Structure"] = &ast.GenericType{Name: "Structure"}
	a.typeEnv["Composite"] = &ast.GenericType{Name: "Composite"}

	for _, n := range []int{7, 8, 256, 512, 768} {
		a.typeEnv[fmt.Sprintf("ℝ%d", n)] = realVector(n)
	}
	a.typeEnv["ℝⁿ"] = &ast.ArrayType{Element: &ast.BasicType{Kind: ast.Real}}
}

func (a *Analyzer) isUserDefinedType(name string) bool {
	if builtinTypeNames[name] {
		return false
	}
	_, ok := a.typeEnv[name]
	return ok
}

// Analyze runs the full classifier over a document and its raw source.
// Hard validation errors (empty enumerations, zero-size arrays,
// unresolved references or domains, out-of-range evidence claims)
// abort analysis and are returned; everything else degrades to a
// warning on the result.
func (a *Analyzer) Analyze(doc *ast.Document, source string) (*Analysis, error) {
	a.reset()
	a.addBuiltinTypes()

	// First pass: collect type definitions. The first definition of a
	// name wins; later ones warn.
	for _, tb := range doc.TypesBlocks() {
		for _, name := range sortedKeys(tb.Definitions) {
			def := tb.Definitions[name]
			if a.isUserDefinedType(name) {
				a.warnings = append(a.warnings, errors.NewTypeRedefinition(def.Span, name))
				continue
			}
			a.typeEnv[name] = def.Expr
		}
	}

	// Second pass: collect function signatures.
	for _, fb := range doc.FunctionsBlocks() {
		for _, name := range sortedKeys(fb.Functions) {
			fn := fb.Functions[name]
			a.funcEnv[name] = inferFunctionSignature(fn)
		}
	}

	for _, block := range doc.Blocks {
		if err := a.validateBlock(block); err != nil {
			return nil, err
		}
	}

	stats := ComputeSymbolStatistics(source)
	blockScore := calculateBlockScore(doc.Blocks)
	bindingScore := stats.bindingScore()
	delta := blockScore*0.4 + bindingScore*0.6
	tier := a.thresholds.TierFromDelta(delta)
	ambiguity := calculateAmbiguity(stats, delta)

	typeAnalysis := TypeAnalysis{
		TypeDefinitions:    cloneTypeEnv(a.typeEnv),
		UndefinedTypes:     a.findUndefinedTypes(doc),
		FunctionSignatures: cloneFuncEnv(a.funcEnv),
	}

	valid := tier != Reject &&
		ambiguity < 0.02 &&
		len(typeAnalysis.UndefinedTypes) == 0

	return &Analysis{
		Valid:        valid,
		Tier:         tier,
		Delta:        delta,
		PureDensity:  stats.PureDensity(),
		Ambiguity:    ambiguity,
		BlockScore:   blockScore,
		BindingScore: bindingScore,
		Completeness: delta*0.8 + (1.0-ambiguity)*0.2,
		QualityScore: delta*0.6 + (1.0-ambiguity)*0.3 + float64(tier.Value())*0.1,
		TypeAnalysis: typeAnalysis,
		SymbolStats:  stats,
		Warnings:     a.warnings,
	}, nil
}

func calculateBlockScore(blocks []ast.Block) float64 {
	found := make(map[string]struct{})
	for _, b := range blocks {
		found[b.Kind()] = struct{}{}
	}
	// Five block kinds exist: Meta, Types, Rules, Functions, Evidence.
	return float64(len(found)) / 5.0
}

func (a *Analyzer) validateBlock(block ast.Block) error {
	switch b := block.(type) {
	case *ast.MetaBlock:
		return nil
	case *ast.TypesBlock:
		return a.validateTypesBlock(b)
	case *ast.RulesBlock:
		return a.validateRulesBlock(b)
	case *ast.FunctionsBlock:
		return a.validateFunctionsBlock(b)
	case *ast.EvidenceBlock:
		return a.validateEvidenceBlock(b)
	default:
		return fmt.Errorf("unknown block kind %q", block.Kind())
	}
}

func (a *Analyzer) validateTypesBlock(tb *ast.TypesBlock) error {
	for _, name := range sortedKeys(tb.Definitions) {
		def := tb.Definitions[name]
		if err := a.validateTypeExpression(name, def.Expr, def.Span); err != nil {
			return err
		}
		if a.isRecursiveType(name, def.Expr) {
			a.warnings = append(a.warnings, errors.NewRecursiveType(def.Span, name))
		}
	}
	return nil
}

func (a *Analyzer) validateTypeExpression(owner string, expr ast.TypeExpression, span ast.Span) error {
	switch t := expr.(type) {
	case *ast.BasicType:
		return nil
	case *ast.EnumerationType:
		if len(t.Labels) == 0 {
			return errors.NewEmptyEnumeration(span, owner)
		}
		return nil
	case *ast.ArrayType:
		if err := a.validateTypeExpression(owner, t.Element, span); err != nil {
			return err
		}
		if t.Size != nil && *t.Size == 0 {
			return errors.NewZeroSizedArray(span, owner)
		}
		return nil
	case *ast.TupleType:
		for _, e := range t.Elements {
			if err := a.validateTypeExpression(owner, e, span); err != nil {
				return err
			}
		}
		return nil
	case *ast.FunctionType:
		if err := a.validateTypeExpression(owner, t.Input, span); err != nil {
			return err
		}
		return a.validateTypeExpression(owner, t.Output, span)
	case *ast.GenericType:
		for _, p := range t.Parameters {
			if err := a.validateTypeExpression(owner, p, span); err != nil {
				return err
			}
		}
		return nil
	case *ast.ReferenceType:
		if _, ok := a.typeEnv[t.Name]; !ok {
			return errors.NewUndefinedTypeReference(span, t.Name, fmt.Sprintf("type '%s'", owner))
		}
		return nil
	default:
		return fmt.Errorf("unknown type expression %T", expr)
	}
}

func (a *Analyzer) validateRulesBlock(rb *ast.RulesBlock) error {
	for i := range rb.Rules {
		if err := a.validateLogicalRule(&rb.Rules[i]); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) validateLogicalRule(rule *ast.LogicalRule) error {
	if q := rule.Quantifier; q != nil {
		a.pushScope()
		defer a.popScope()

		if q.Domain != "" {
			domainType, ok := a.typeEnv[q.Domain]
			if !ok {
				return errors.NewUnresolvedQuantifierDomain(rule.Span, q.Domain)
			}
			a.bind(q.Variable, domainType)
		}
	}
	return a.validateLogicalExpression(rule.Expr)
}

// validateLogicalExpression is a placeholder for expression-level type
// checking; rule bodies are accepted as-is today.
func (a *Analyzer) validateLogicalExpression(_ ast.LogicalExpression) error {
	return nil
}

func (a *Analyzer) validateFunctionsBlock(fb *ast.FunctionsBlock) error {
	for _, name := range sortedKeys(fb.Functions) {
		fn := fb.Functions[name]
		if err := a.validateLambdaExpression(&fn.Lambda); err != nil {
			return err
		}
		if _, ok := a.typeEnv[name]; ok {
			a.warnings = append(a.warnings, errors.NewFunctionShadowsType(fn.Span, name))
		}
	}
	return nil
}

func (a *Analyzer) validateLambdaExpression(lambda *ast.LambdaExpression) error {
	a.pushScope()
	defer a.popScope()

	// Parameter types are unknown until inference exists.
	for _, param := range lambda.Parameters {
		a.bind(param, &ast.ReferenceType{Name: "Unknown"})
	}
	return a.validateLogicalExpression(lambda.Body)
}

func (a *Analyzer) validateEvidenceBlock(eb *ast.EvidenceBlock) error {
	if eb.Delta != nil && (*eb.Delta < 0.0 || *eb.Delta > 1.0) {
		return errors.NewEvidenceDeltaOutOfRange(eb.Span, *eb.Delta)
	}
	if eb.Phi != nil && (*eb.Phi < 0.0 || *eb.Phi > 100.0) {
		return errors.NewEvidencePhiOutOfRange(eb.Span, *eb.Phi)
	}
	return nil
}

func inferFunctionSignature(fn ast.FunctionDefinition) FunctionSignature {
	params := make([]ast.TypeExpression, len(fn.Lambda.Parameters))
	for i := range params {
		params[i] = &ast.ReferenceType{Name: "Unknown"}
	}
	return FunctionSignature{Name: fn.Name, Parameters: params}
}

// isRecursiveType reports whether a type expression refers back to its
// own name, directly or transitively through other declared types.
func (a *Analyzer) isRecursiveType(name string, expr ast.TypeExpression) bool {
	return a.refersTo(name, expr, map[string]bool{})
}

func (a *Analyzer) refersTo(name string, expr ast.TypeExpression, visited map[string]bool) bool {
	switch t := expr.(type) {
	case *ast.ReferenceType:
		if t.Name == name {
			return true
		}
		if visited[t.Name] {
			return false
		}
		visited[t.Name] = true
		if target, ok := a.typeEnv[t.Name]; ok {
			return a.refersTo(name, target, visited)
		}
		return false
	case *ast.ArrayType:
		return a.refersTo(name, t.Element, visited)
	case *ast.TupleType:
		for _, e := range t.Elements {
			if a.refersTo(name, e, visited) {
				return true
			}
		}
		return false
	case *ast.FunctionType:
		return a.refersTo(name, t.Input, visited) || a.refersTo(name, t.Output, visited)
	case *ast.GenericType:
		for _, p := range t.Parameters {
			if a.refersTo(name, p, visited) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// findUndefinedTypes walks every type reference and quantifier domain
// in the document against the resolved environment.
func (a *Analyzer) findUndefinedTypes(doc *ast.Document) map[string]struct{} {
	undefined := make(map[string]struct{})

	var walk func(expr ast.TypeExpression)
	walk = func(expr ast.TypeExpression) {
		switch t := expr.(type) {
		case *ast.ReferenceType:
			if _, ok := a.typeEnv[t.Name]; !ok {
				undefined[t.Name] = struct{}{}
			}
		case *ast.ArrayType:
			walk(t.Element)
		case *ast.TupleType:
			for _, e := range t.Elements {
				walk(e)
			}
		case *ast.FunctionType:
			walk(t.Input)
			walk(t.Output)
		case *ast.GenericType:
			for _, p := range t.Parameters {
				walk(p)
			}
		}
	}

	for _, tb := range doc.TypesBlocks() {
		for _, def := range tb.Definitions {
			walk(def.Expr)
		}
	}
	for _, rb := range doc.RulesBlocks() {
		for _, rule := range rb.Rules {
			if q := rule.Quantifier; q != nil && q.Domain != "" {
				if _, ok := a.typeEnv[q.Domain]; !ok {
					undefined[q.Domain] = struct{}{}
				}
			}
		}
	}
	return undefined
}

func (a *Analyzer) pushScope() {
	a.varScopes = append(a.varScopes, map[string]ast.TypeExpression{})
}

func (a *Analyzer) popScope() {
	if len(a.varScopes) > 1 {
		a.varScopes = a.varScopes[:len(a.varScopes)-1]
	}
}

func (a *Analyzer) bind(name string, t ast.TypeExpression) {
	a.varScopes[len(a.varScopes)-1][name] = t
}

func cloneTypeEnv(env map[string]ast.TypeExpression) map[string]ast.TypeExpression {
	out := make(map[string]ast.TypeExpression, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}

func cloneFuncEnv(env map[string]FunctionSignature) map[string]FunctionSignature {
	out := make(map[string]FunctionSignature, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
