package rules

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/semantic"
)

// ConvertNumericLiteralRule offers the other radix spellings of an
// integer literal.
type ConvertNumericLiteralRule struct {
	quickfix.BaseRule
}

// NewConvertNumericLiteralRule creates a new convert-numeric-literal rule.
func NewConvertNumericLiteralRule() *ConvertNumericLiteralRule {
	return &ConvertNumericLiteralRule{
		BaseRule: quickfix.NewBaseRule(
			"QF004",
			"convert-numeric-literal",
			"Convert an integer literal to hexadecimal, octal, decimal or binary",
			[]string{"literals"},
		),
	}
}

// Radix is a spelling of an integer literal.
type Radix int

// Integer literal radixes.
const (
	RadixDecimal Radix = iota
	RadixHex
	RadixOctal
	RadixBinary
)

// IntegerLiteral is a parsed integer literal. Digits is the spelling
// without the type suffix.
type IntegerLiteral struct {
	Value  uint64
	Radix  Radix
	Digits string
}

// ParseIntegerLiteral parses the spelling of an integer literal, ignoring
// a type suffix such as `u` or `LL`. Floating point literals and digit
// separators are rejected.
func ParseIntegerLiteral(spelling string) (IntegerLiteral, bool) {
	n := len(spelling)
	for n > 0 && !isHexDigit(spelling[n-1]) {
		n--
	}
	if n == 0 {
		return IntegerLiteral{}, false
	}
	digits := spelling[:n]

	var (
		value uint64
		err   error
		radix Radix
	)
	switch {
	case len(digits) > 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X'):
		radix = RadixHex
		value, err = strconv.ParseUint(digits[2:], 16, 64)
	case len(digits) > 2 && digits[0] == '0' && (digits[1] == 'b' || digits[1] == 'B'):
		radix = RadixBinary
		value, err = strconv.ParseUint(digits[2:], 2, 64)
	case len(digits) >= 2 && digits[0] == '0':
		radix = RadixOctal
		value, err = strconv.ParseUint(digits[1:], 8, 64)
	default:
		radix = RadixDecimal
		value, err = strconv.ParseUint(digits, 10, 64)
	}
	if err != nil {
		return IntegerLiteral{}, false
	}
	return IntegerLiteral{Value: value, Radix: radix, Digits: digits}, true
}

// Format spells value in the given radix.
func (r Radix) Format(value uint64) string {
	switch r {
	case RadixHex:
		return fmt.Sprintf("0x%X", value)
	case RadixOctal:
		return fmt.Sprintf("0%o", value)
	case RadixBinary:
		return "0b" + strconv.FormatUint(value, 2)
	default:
		return strconv.FormatUint(value, 10)
	}
}

var radixConversions = []struct {
	radix Radix
	desc  string
}{
	{RadixHex, "Convert to Hexadecimal"},
	{RadixOctal, "Convert to Octal"},
	{RadixDecimal, "Convert to Decimal"},
	{RadixBinary, "Convert to Binary"},
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Match offers one operation per radix other than the literal's own. The
// operations have the highest priority of the path since a literal under
// the cursor is the most specific match there is.
func (r *ConvertNumericLiteralRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	doc := mctx.Doc
	tree := doc.Tree
	lit := last(mctx.Path)
	if !lit.Valid() {
		return nil, nil
	}
	la := cppast.As[*cppast.LiteralAttrs](tree, lit)
	if la == nil || la.Kind != cppast.LiteralNumeric {
		return nil, nil
	}
	tok := doc.Tokens[tree.Node(lit).FirstToken]
	if tok.IsFloat {
		return nil, nil
	}
	parsed, ok := ParseIntegerLiteral(tok.Text)
	if !ok {
		return nil, nil
	}

	priority := len(mctx.Path) - 1
	start := tok.Start
	end := start + len(parsed.Digits)

	var ops []quickfix.Operation
	for _, conv := range radixConversions {
		if conv.radix == parsed.Radix {
			continue
		}
		replacement := conv.radix.Format(parsed.Value)
		ops = append(ops, newEditOperation(r, priority, conv.desc, doc, func(cs *fix.ChangeSet) {
			cs.Replace(start, end, replacement)
		}))
	}
	return ops, nil
}

// ExtractLiteralRule turns a literal in a function body into a new
// parameter of the function whose default value is the literal.
type ExtractLiteralRule struct {
	quickfix.BaseRule
}

// NewExtractLiteralRule creates a new extract-literal-as-parameter rule.
func NewExtractLiteralRule() *ExtractLiteralRule {
	return &ExtractLiteralRule{
		BaseRule: quickfix.NewBaseRule(
			"QF007",
			"extract-literal-as-parameter",
			"Replace a literal with a new function parameter defaulting to it",
			[]string{"literals", "functions", "refactoring"},
		).WithOptions(map[string]any{
			"name": "newParameter",
		}),
	}
}

// Match offers the extraction for numeric, character, string and boolean
// literals inside a function definition. Literals inside lambdas and
// functions taking an ellipsis are not handled.
func (r *ExtractLiteralRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	if len(mctx.Path) < 2 || mctx.Semantics == nil {
		return nil, nil
	}
	doc := mctx.Doc
	tree := doc.Tree

	lit := last(mctx.Path)
	la := cppast.As[*cppast.LiteralAttrs](tree, lit)
	if la == nil || la.Kind == cppast.LiteralNullptr {
		return nil, nil
	}

	fnDef := cppast.NoNode
	for i := len(mctx.Path) - 2; i >= 0; i-- {
		kind := tree.Kind(mctx.Path[i])
		if kind == cppast.KindLambdaExpr {
			return nil, nil
		}
		if kind == cppast.KindFunctionDef {
			fnDef = mctx.Path[i]
			break
		}
	}
	if !fnDef.Valid() {
		return nil, nil
	}

	fa := cppast.As[*cppast.FunctionDefAttrs](tree, fnDef)
	params := paramClause(tree, fa.Declarator)
	if params == nil || params.Ellipsis >= 0 {
		return nil, nil
	}

	name := mctx.OptionString("name", "newParameter")
	if !isIdentifier(name) {
		return nil, nil
	}

	op := &extractLiteralOperation{
		BaseOperation: quickfix.NewBaseOperation(r, len(mctx.Path)-1, "Extract Constant as Function Parameter"),
		doc:           doc,
		sem:           mctx.Semantics,
		literal:       lit,
		fnDef:         fnDef,
		name:          name,
	}
	return []quickfix.Operation{op}, nil
}

type extractLiteralOperation struct {
	quickfix.BaseOperation
	doc     *cppast.Document
	sem     quickfix.Semantics
	literal cppast.NodeID
	fnDef   cppast.NodeID
	name    string
}

// Perform replaces the literal and every identical literal of the same
// kind in the body, then appends the parameter to the definition and to
// its separate declaration, if there is one. The default value goes on
// the declaration when there is one and on the definition otherwise.
func (o *extractLiteralOperation) Perform(ctx context.Context) ([]*fix.ChangeSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", o.RuleID(), err)
	}
	doc := o.doc
	tree := doc.Tree

	typ, ok := o.sem.TypeOf(doc, o.literal)
	if !ok {
		typ = semantic.LiteralType(doc, o.literal)
	}
	literalText := doc.TextOf(o.literal)
	kind := literalClass(cppast.As[*cppast.LiteralAttrs](tree, o.literal).Kind)

	current := fix.NewChangeSet(doc.Path)
	fa := cppast.As[*cppast.FunctionDefAttrs](tree, o.fnDef)
	tree.Walk(fa.Body, func(id cppast.NodeID) bool {
		la := cppast.As[*cppast.LiteralAttrs](tree, id)
		if la == nil {
			return true
		}
		if literalClass(la.Kind) == kind && doc.TextOf(id) == literalText {
			r := nodeRange(doc, id)
			current.Replace(r.Start, r.End, o.name)
		}
		return false
	})

	defParams := paramClause(tree, fa.Declarator)
	insertion := ""
	if len(defParams.Params) > 0 {
		insertion = ", "
	}
	insertion += typ.Spelling
	if !strings.HasSuffix(typ.Spelling, "*") {
		insertion += " "
	}
	insertion += o.name
	withDefault := insertion + " = " + literalText

	var decl *semantic.Function
	if def := o.sem.FunctionOf(doc, o.fnDef); def != nil {
		if decls := o.sem.Declarations(def); len(decls) > 0 {
			decl = decls[0]
		}
	}

	if decl == nil {
		current.Insert(doc.Tokens[defParams.RParen].Start, withDefault)
		return []*fix.ChangeSet{current}, nil
	}
	current.Insert(doc.Tokens[defParams.RParen].Start, insertion)

	declParams := paramClause(decl.Doc.Tree, decl.Declarator)
	if declParams == nil {
		return []*fix.ChangeSet{current}, nil
	}
	declPos := decl.Doc.Tokens[declParams.RParen].Start
	if decl.Doc == doc {
		current.Insert(declPos, withDefault)
		return []*fix.ChangeSet{current}, nil
	}
	other := fix.NewChangeSet(decl.Doc.Path)
	other.Insert(declPos, withDefault)
	return []*fix.ChangeSet{current, other}, nil
}

// literalClass groups literal kinds that replace each other: character
// literals count as numeric.
func literalClass(k cppast.LiteralKind) cppast.LiteralKind {
	if k == cppast.LiteralChar {
		return cppast.LiteralNumeric
	}
	return k
}

// paramClause returns the parameter clause of a function declarator.
func paramClause(tree *cppast.Tree, declarator cppast.NodeID) *cppast.ParamClauseAttrs {
	da := cppast.As[*cppast.DeclaratorAttrs](tree, declarator)
	if da == nil {
		return nil
	}
	return cppast.As[*cppast.ParamClauseAttrs](tree, da.Params)
}

// isIdentifier reports whether name can be used as a C++ identifier.
func isIdentifier(name string) bool {
	if name == "" || cppast.IsKeyword(name) {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
