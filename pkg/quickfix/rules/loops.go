package rules

import (
	"strings"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/semantic"
)

// OptimizeForLoopRule rewrites postfix increments of a for loop to prefix
// form and hoists a computed loop bound into the initializer.
type OptimizeForLoopRule struct {
	quickfix.BaseRule
}

// NewOptimizeForLoopRule creates a new optimize-for-loop rule.
func NewOptimizeForLoopRule() *OptimizeForLoopRule {
	return &OptimizeForLoopRule{
		BaseRule: quickfix.NewBaseRule(
			"QF012",
			"optimize-for-loop",
			"Use prefix increment and evaluate the loop bound once",
			[]string{"statements", "loops"},
		).WithOptions(map[string]any{
			"name": "total",
		}),
	}
}

// Match requires the cursor to be directly on a for statement.
func (r *OptimizeForLoopRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	doc := mctx.Doc
	tree := doc.Tree

	stmt := last(mctx.Path)
	fa := cppast.As[*cppast.ForAttrs](tree, stmt)
	if fa == nil || !mctx.IsCursorOnNode(stmt) {
		return nil, nil
	}

	var postfix *cppast.PostfixAttrs
	if pa := cppast.As[*cppast.PostfixAttrs](tree, fa.Expr); pa != nil {
		if op := doc.TokenText(pa.OpToken); op == "++" || op == "--" {
			postfix = pa
		}
	}

	bound, boundType := r.hoistableBound(mctx, fa)
	if postfix == nil && !bound.Valid() {
		return nil, nil
	}

	varName := mctx.OptionString("name", "total")
	if !isIdentifier(varName) {
		varName = "total"
	}

	return []quickfix.Operation{
		newEditOperation(r, len(mctx.Path)-1, "Optimize for-Loop", doc, func(cs *fix.ChangeSet) {
			if postfix != nil {
				cs.Flip(nodeRange(doc, postfix.Operand), tokenRange(doc, postfix.OpToken))
			}
			if bound.Valid() {
				hoistBound(doc, fa, bound, boundType, varName, cs)
			}
		}),
	}, nil
}

// hoistableBound returns the non-trivial side of a comparison between a
// name and an expression in the loop condition, with the type of the
// name. The bound is hoisted only when the initializer is empty or
// declares variables of that same type.
func (r *OptimizeForLoopRule) hoistableBound(mctx *quickfix.MatchContext, fa *cppast.ForAttrs) (cppast.NodeID, semantic.Type) {
	doc := mctx.Doc
	tree := doc.Tree
	if mctx.Semantics == nil || !fa.Init.Valid() || !fa.Cond.Valid() {
		return cppast.NoNode, semantic.Type{}
	}
	bin := cppast.As[*cppast.BinaryAttrs](tree, fa.Cond)
	if bin == nil {
		return cppast.NoNode, semantic.Type{}
	}

	id, bound := bin.Left, bin.Right
	if !tree.Is(id, cppast.KindIdExpr) {
		id, bound = bin.Right, bin.Left
		if !tree.Is(id, cppast.KindIdExpr) {
			return cppast.NoNode, semantic.Type{}
		}
	}
	switch tree.Kind(bound) {
	case cppast.KindLiteral, cppast.KindIdExpr, cppast.KindUnaryExpr:
		return cppast.NoNode, semantic.Type{}
	}

	condType, ok := mctx.Semantics.TypeOf(doc, id)
	if !ok {
		return cppast.NoNode, semantic.Type{}
	}
	if doc.TextOf(fa.Init) == ";" {
		return bound, condType
	}
	decl := forInitDecl(tree, fa.Init)
	if decl == nil {
		return cppast.NoNode, semantic.Type{}
	}
	initType := declaredLocalType(mctx, decl.Declarators[0])
	if !initType.Valid() || initType.Spelling != condType.Spelling {
		return cppast.NoNode, semantic.Type{}
	}
	return bound, condType
}

// declaredLocalType returns the declared type of a local variable of the
// function the cursor is in.
func declaredLocalType(mctx *quickfix.MatchContext, declarator cppast.NodeID) semantic.Type {
	fn := mctx.Doc.Tree.Ancestor(declarator, cppast.KindFunctionDef)
	if !fn.Valid() {
		return semantic.Type{}
	}
	for _, l := range mctx.Semantics.LocalUses(mctx.Doc, fn) {
		if l.Declarator == declarator {
			return l.Type
		}
	}
	return semantic.Type{}
}

// forInitDecl returns the declaration of a for initializer, or nil when
// the initializer is an expression.
func forInitDecl(tree *cppast.Tree, init cppast.NodeID) *cppast.SimpleDeclAttrs {
	ds := cppast.As[*cppast.DeclStmtAttrs](tree, init)
	if ds == nil {
		return nil
	}
	decl := cppast.As[*cppast.SimpleDeclAttrs](tree, ds.Decl)
	if decl == nil || len(decl.Declarators) == 0 {
		return nil
	}
	return decl
}

// hoistBound declares a variable holding the bound in the initializer and
// uses it in the condition. The name gets an `X` appended while it clashes
// with a variable the initializer declares.
func hoistBound(doc *cppast.Document, fa *cppast.ForAttrs, bound cppast.NodeID, typ semantic.Type,
	varName string, cs *fix.ChangeSet,
) {
	tree := doc.Tree
	// The initializer ends with its semicolon.
	insertPos := doc.EndOf(fa.Init) - 1
	boundText := doc.TextOf(bound)

	if doc.TextOf(fa.Init) == ";" {
		typeAndName := typ.Spelling
		if !strings.HasSuffix(typeAndName, "*") {
			typeAndName += " "
		}
		cs.Insert(insertPos, typeAndName+varName+" = "+boundText)
	} else {
		if decl := forInitDecl(tree, fa.Init); decl != nil {
			for declaresName(doc, decl, varName) {
				varName += "X"
			}
		}
		cs.Insert(insertPos, ", "+varName+" = "+boundText)
	}

	r := nodeRange(doc, bound)
	cs.Replace(r.Start, r.End, varName)
}

func declaresName(doc *cppast.Document, decl *cppast.SimpleDeclAttrs, name string) bool {
	for _, d := range decl.Declarators {
		da := cppast.As[*cppast.DeclaratorAttrs](doc.Tree, d)
		if da != nil && da.NameFirst >= 0 && semantic.NameText(doc, da.NameFirst, da.NameLast) == name {
			return true
		}
	}
	return false
}
