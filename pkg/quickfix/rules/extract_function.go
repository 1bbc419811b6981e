package rules

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/semantic"
)

// ExtractFunctionRule moves the statements covered by the selection into
// a new function and replaces them with a call.
type ExtractFunctionRule struct {
	quickfix.BaseRule
}

// NewExtractFunctionRule creates a new extract-function rule.
func NewExtractFunctionRule() *ExtractFunctionRule {
	return &ExtractFunctionRule{
		BaseRule: quickfix.NewBaseRule(
			"QF006",
			"extract-function",
			"Extract the selected statements into a new function",
			[]string{"functions", "refactoring"},
		).WithOptions(map[string]any{
			"name":   "extracted",
			"access": "public",
		}),
	}
}

var headerExtensions = map[string]bool{
	".h": true, ".hh": true, ".hpp": true, ".hxx": true, ".h++": true,
}

// Match requires a selection inside the body of a non-template function.
// It declines when the selected statements contain a return statement or
// when more than one local would have to be returned.
func (r *ExtractFunctionRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	if !mctx.HasSelection() || mctx.Semantics == nil {
		return nil, nil
	}
	doc := mctx.Doc
	tree := doc.Tree

	fnDef, index := innermost(tree, mctx.Path, cppast.KindFunctionDef)
	if index < 0 || tree.Is(tree.Parent(fnDef), cppast.KindTemplateDecl) {
		return nil, nil
	}
	fa := cppast.As[*cppast.FunctionDefAttrs](tree, fnDef)
	body := cppast.As[*cppast.CompoundAttrs](tree, fa.Body)
	if body == nil || len(body.Stmts) == 0 {
		return nil, nil
	}
	fn := mctx.Semantics.FunctionOf(doc, fnDef)
	if fn == nil || fn.Name == "" {
		return nil, nil
	}

	name := mctx.OptionString("name", "extracted")
	if !isIdentifier(name) {
		return nil, nil
	}

	an := &extractionAnalyser{doc: doc, selStart: mctx.SelectionStart, selEnd: mctx.SelectionEnd, start: -1}
	an.statements(body.Stmts)
	if an.failed || an.start < 0 || an.end <= an.start {
		return nil, nil
	}

	var (
		ret    *semantic.Local
		params []*semantic.Local
	)
	for _, l := range mctx.Semantics.LocalUses(doc, fnDef) {
		before := lo.ContainsBy(l.Uses, func(p int) bool { return p < an.start })
		after := lo.ContainsBy(l.Uses, func(p int) bool { return p >= an.end })
		inside := lo.ContainsBy(l.Uses, func(p int) bool { return p >= an.start && p < an.end })

		if (before && inside) || (inside && l.Param) {
			params = append(params, l)
		}
		if inside && after && !before {
			if ret != nil {
				return nil, nil
			}
			ret = l
		}
	}

	op := &extractFunctionOperation{
		BaseOperation: quickfix.NewBaseOperation(r, index, "Extract Function"),
		doc:           doc,
		fnDef:         fnDef,
		fn:            fn,
		start:         an.start,
		end:           an.end,
		ret:           ret,
		params:        params,
		name:          name,
		access:        mctx.OptionString("access", "public"),
	}
	return []quickfix.Operation{op}, nil
}

// extractionAnalyser finds the statements to extract: the first statement
// starting inside the selection and the following statements of the same
// statement list that end inside it.
type extractionAnalyser struct {
	doc      *cppast.Document
	selStart int
	selEnd   int
	start    int
	end      int
	failed   bool
}

// statements scans one statement list and reports whether the scan is
// complete.
func (a *extractionAnalyser) statements(stmts []cppast.NodeID) bool {
	for _, s := range stmts {
		if !s.Valid() {
			continue
		}
		sStart, sEnd := a.doc.StartOf(s), a.doc.EndOf(s)
		if sStart >= a.selEnd || (a.start >= 0 && sEnd > a.selEnd) {
			return true
		}

		if a.start < 0 {
			if sStart < a.selStart {
				if sEnd > a.selStart {
					for _, list := range nestedStatements(a.doc.Tree, s) {
						if a.statements(list) || a.start >= 0 {
							return true
						}
					}
				}
				continue
			}
			a.start = sStart
		}

		a.end = max(a.end, sEnd)
		if containsReturn(a.doc.Tree, s) {
			a.failed = true
			return true
		}
	}
	return false
}

// nestedStatements returns the statement lists directly nested in s.
func nestedStatements(tree *cppast.Tree, s cppast.NodeID) [][]cppast.NodeID {
	single := func(ids ...cppast.NodeID) [][]cppast.NodeID {
		var lists [][]cppast.NodeID
		for _, id := range ids {
			if id.Valid() {
				lists = append(lists, []cppast.NodeID{id})
			}
		}
		return lists
	}

	switch a := tree.Node(s).Attrs.(type) {
	case *cppast.CompoundAttrs:
		return [][]cppast.NodeID{a.Stmts}
	case *cppast.IfAttrs:
		return single(a.Then, a.Else)
	case *cppast.WhileAttrs:
		return single(a.Body)
	case *cppast.DoAttrs:
		return single(a.Body)
	case *cppast.ForAttrs:
		return single(a.Init, a.Body)
	case *cppast.RangeForAttrs:
		return single(a.Body)
	case *cppast.SwitchAttrs:
		return single(a.Body)
	case *cppast.CaseAttrs:
		return single(a.Stmt)
	case *cppast.DefaultAttrs:
		return single(a.Stmt)
	}
	if tree.Kind(s) == cppast.KindUnknown {
		return single(tree.Children(s)...)
	}
	return nil
}

// containsReturn reports whether s contains a return statement outside of
// lambda bodies.
func containsReturn(tree *cppast.Tree, s cppast.NodeID) bool {
	found := false
	tree.Walk(s, func(id cppast.NodeID) bool {
		switch tree.Kind(id) {
		case cppast.KindReturnStmt:
			found = true
		case cppast.KindLambdaExpr:
			return false
		}
		return !found
	})
	return found
}

type extractFunctionOperation struct {
	quickfix.BaseOperation
	doc    *cppast.Document
	fnDef  cppast.NodeID
	fn     *semantic.Function
	start  int
	end    int
	ret    *semantic.Local
	params []*semantic.Local
	name   string
	access string
}

// Perform inserts the new function in front of the function the
// statements are extracted from, above its leading comments, and replaces
// the statements with a call. For an out-of-line member function a
// declaration is added to the class as well.
func (o *extractFunctionOperation) Perform(ctx context.Context) ([]*fix.ChangeSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", o.RuleID(), err)
	}
	doc := o.doc
	tree := doc.Tree

	inClass := tree.Ancestor(o.fnDef, cppast.KindClassSpecifier).Valid()
	outOfLine := o.fn.Class != nil && !inClass

	retType := "void"
	if o.ret != nil {
		retType = o.returnType()
	}
	paramList := strings.Join(lo.Map(o.params, func(l *semantic.Local, _ int) string {
		return declarationText(doc, l)
	}), ", ")
	args := strings.Join(lo.Map(o.params, func(l *semantic.Local, _ int) string {
		return l.Name
	}), ", ")
	constSuffix := ""
	if o.fn.Const {
		constSuffix = " const"
	}

	var def strings.Builder
	if headerExtensions[strings.ToLower(filepath.Ext(doc.Path))] && !inClass {
		def.WriteString("inline ")
	}
	def.WriteString(retType + " ")
	if outOfLine {
		def.WriteString(o.qualifier())
	}
	def.WriteString(o.name + "(" + paramList + ")" + constSuffix + "\n{\n")
	extract := doc.Text(o.start, o.end)
	def.WriteString(extract)
	if o.ret != nil {
		if !strings.HasSuffix(extract, "\n") {
			def.WriteString("\n")
		}
		def.WriteString("\nreturn " + o.ret.Name + ";")
	}
	def.WriteString("\n}\n\n")

	call := o.name + "(" + args + ");"
	if o.ret != nil {
		call = declarationText(doc, o.ret) + " = " + call
	}

	current := fix.NewChangeSet(doc.Path)
	current.Insert(doc.LeadingCommentStart(o.fnDef), def.String())
	current.Replace(o.start, o.end, call)

	if !outOfLine {
		return []*fix.ChangeSet{current}, nil
	}

	cls := o.fn.Class
	declPos, decl, ok := classInsertion(cls, o.access, retType+" "+o.name+"("+paramList+")"+constSuffix+";\n")
	if !ok {
		return []*fix.ChangeSet{current}, nil
	}

	if cls.Doc == doc {
		current.Insert(declPos, decl)
		return []*fix.ChangeSet{current}, nil
	}
	other := fix.NewChangeSet(cls.Doc.Path)
	other.Insert(declPos, decl)
	return []*fix.ChangeSet{current, other}, nil
}

// returnType spells the type of the returned local.
func (o *extractFunctionOperation) returnType() string {
	if o.ret.Type.Valid() {
		return o.ret.Type.Spelling
	}
	decl := declarationText(o.doc, o.ret)
	return strings.TrimSpace(strings.TrimSuffix(decl, o.ret.Name))
}

// qualifier returns the class qualification of the reference function's
// name as written, e.g. "Shape::".
func (o *extractFunctionOperation) qualifier() string {
	da := cppast.As[*cppast.DeclaratorAttrs](o.doc.Tree, o.fn.Declarator)
	if da == nil || da.NameFirst < 0 {
		return ""
	}
	full := semantic.NameText(o.doc, da.NameFirst, da.NameLast)
	i := strings.LastIndex(full, "::")
	if i < 0 {
		return ""
	}
	return full[:i+2]
}

// declarationText rebuilds the declaration of a local from its specifiers
// and its declarator up to the name, e.g. "const int *p".
func declarationText(doc *cppast.Document, l *semantic.Local) string {
	specifiers := doc.Text(doc.StartOf(l.Decl), doc.EndOf(l.Specifier))
	da := cppast.As[*cppast.DeclaratorAttrs](doc.Tree, l.Declarator)
	declarator := doc.Text(doc.StartOf(l.Declarator), doc.Tokens[da.NameLast].End)
	if strings.Contains(declarator, " ") {
		return specifiers + declarator
	}
	return specifiers + " " + declarator
}

// classInsertion returns where a member declaration goes in cls, in
// front of the closing brace, and the text to insert there: decl at the
// indent of the last member, preceded by an access specifier when the
// access in effect differs.
func classInsertion(cls *semantic.Class, access, decl string) (int, string, bool) {
	doc := cls.Doc
	ca := cppast.As[*cppast.ClassAttrs](doc.Tree, cls.Node)
	if ca == nil || ca.RBrace < 0 {
		return 0, "", false
	}
	label := ""
	if accessAtEnd(doc, ca) != access {
		label = access + ":\n"
	}

	pos := doc.Tokens[ca.RBrace].Start
	start := lineStart(doc, pos)
	if strings.TrimSpace(doc.Text(start, pos)) != "" {
		return pos, label + decl, true
	}
	classIndent := doc.Text(start, pos)
	memberIndent := classIndent
	if last := ca.RBrace - 1; last > ca.LBrace && lineStart(doc, doc.Tokens[last].Start) != lineStart(doc, doc.Tokens[ca.LBrace].Start) {
		memberIndent = doc.IndentOf(doc.Tokens[last].Start)
	}
	if label != "" {
		label = classIndent + label
	}
	return start, label + memberIndent + decl, true
}

// accessAtEnd returns the access level in effect at the closing brace of
// a class body.
func accessAtEnd(doc *cppast.Document, ca *cppast.ClassAttrs) string {
	access := "private"
	if ca.KeyToken >= 0 && doc.TokenText(ca.KeyToken) != "class" {
		access = "public"
	}
	depth := 0
	for i := ca.LBrace + 1; i < ca.RBrace; i++ {
		tk := doc.Tokens[i]
		switch {
		case tk.Is("{") || tk.Is("("):
			depth++
		case tk.Is("}") || tk.Is(")"):
			depth--
		case depth == 0 && i+1 < ca.RBrace && doc.Tokens[i+1].Is(":") &&
			(tk.Is("public") || tk.Is("protected") || tk.Is("private")):
			access = tk.Text
		}
	}
	return access
}
