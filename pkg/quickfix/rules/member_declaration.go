package rules

import (
	"github.com/samber/lo"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// InsertDeclarationRule declares an out-of-line member function in its
// class when the class lacks a matching declaration.
type InsertDeclarationRule struct {
	quickfix.BaseRule
}

// NewInsertDeclarationRule creates a new insert-declaration rule.
func NewInsertDeclarationRule() *InsertDeclarationRule {
	return &InsertDeclarationRule{
		BaseRule: quickfix.NewBaseRule(
			"QF015",
			"insert-declaration",
			"Add the missing class declaration of an out-of-line member function definition",
			[]string{"declarations", "functions"},
		),
	}
}

var memberAccess = []string{"public", "protected", "private"}

// Match offers one operation per access level when the cursor is on the
// name of an out-of-line member function definition. Public comes first.
func (r *InsertDeclarationRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	if mctx.Semantics == nil {
		return nil, nil
	}
	doc := mctx.Doc
	tree := doc.Tree

	def, index := innermost(tree, mctx.Path, cppast.KindFunctionDef)
	if index < 0 || tree.Ancestor(def, cppast.KindClassSpecifier).Valid() ||
		tree.Is(tree.Parent(def), cppast.KindTemplateDecl) {
		return nil, nil
	}
	fa := cppast.As[*cppast.FunctionDefAttrs](tree, def)
	da := cppast.As[*cppast.DeclaratorAttrs](tree, fa.Declarator)
	if da == nil || da.NameFirst < 0 || !cursorIn(mctx, nameRange(doc, da)) {
		return nil, nil
	}

	fn := mctx.Semantics.FunctionOf(doc, def)
	if fn == nil || fn.Class == nil || len(mctx.Semantics.Declarations(fn)) > 0 {
		return nil, nil
	}

	name := nameRange(doc, da)
	decl := doc.Text(doc.StartOf(def), name.Start) + fn.Name +
		doc.Text(name.End, doc.EndOf(fa.Declarator)) + ";\n"

	cls := fn.Class
	ops := make([]quickfix.Operation, 0, len(memberAccess))
	for i, access := range memberAccess {
		pos, text, ok := classInsertion(cls, access, decl)
		if !ok {
			return nil, nil
		}
		desc := "Add " + lo.Capitalize(access) + " Declaration"
		ops = append(ops, newEditOperation(r, index+len(memberAccess)-1-i, desc, cls.Doc, func(cs *fix.ChangeSet) {
			cs.Insert(pos, text)
		}))
	}
	return ops, nil
}
