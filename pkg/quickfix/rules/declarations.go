package rules

import (
	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// SplitDeclarationRule splits a declaration with several declarators into
// one declaration per declarator.
type SplitDeclarationRule struct {
	quickfix.BaseRule
}

// NewSplitDeclarationRule creates a new split-declaration rule.
func NewSplitDeclarationRule() *SplitDeclarationRule {
	return &SplitDeclarationRule{
		BaseRule: quickfix.NewBaseRule(
			"QF001",
			"split-declaration",
			"Split a declaration of several variables into one declaration per variable",
			[]string{"declarations"},
		),
	}
}

// Match offers the split when the cursor is on the specifiers or on the
// name of one of the declarators.
func (r *SplitDeclarationRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	doc := mctx.Doc
	tree := doc.Tree
	core := cppast.NoNode

	for i := len(mctx.Path) - 1; i >= 0; i-- {
		id := mctx.Path[i]
		switch tree.Kind(id) {
		case cppast.KindDeclarator:
			core = id
		case cppast.KindSimpleDecl:
			decl := cppast.As[*cppast.SimpleDeclAttrs](tree, id)
			if !splittable(tree, id, decl) {
				return nil, nil
			}
			onSpecifier := cursorIn(mctx, nodeRange(doc, decl.Specifier))
			onName := false
			if da := cppast.As[*cppast.DeclaratorAttrs](tree, core); da != nil && da.NameFirst >= 0 {
				onName = cursorIn(mctx, nameRange(doc, da))
			}
			if !onSpecifier && !onName {
				return nil, nil
			}
			return []quickfix.Operation{
				newEditOperation(r, i, "Split Declaration", doc, func(cs *fix.ChangeSet) {
					splitDeclaration(doc, decl, doc.IndentOf(doc.StartOf(id)), cs)
				}),
			}, nil
		}
	}
	return nil, nil
}

// splittable reports whether decl has a semicolon, specifiers without an
// inline class or enum, and at least two declarators. Declarations in a
// for-loop initializer cannot be split into statements.
func splittable(tree *cppast.Tree, id cppast.NodeID, decl *cppast.SimpleDeclAttrs) bool {
	if decl.Semicolon < 0 || !decl.Specifier.Valid() || len(decl.Declarators) < 2 {
		return false
	}
	if spec := cppast.As[*cppast.DeclSpecifierAttrs](tree, decl.Specifier); spec == nil || spec.Nested.Valid() {
		return false
	}
	if stmt := tree.Parent(id); tree.Is(stmt, cppast.KindDeclStmt) {
		if fa := cppast.As[*cppast.ForAttrs](tree, tree.Parent(stmt)); fa != nil && fa.Init == stmt {
			return false
		}
	}
	return true
}

// splitDeclaration starts each new declaration on its own line at the
// indent of the original one.
func splitDeclaration(doc *cppast.Document, decl *cppast.SimpleDeclAttrs, indent string, cs *fix.ChangeSet) {
	spec := nodeRange(doc, decl.Specifier)
	insertPos := doc.Tokens[decl.Semicolon].End

	prev := decl.Declarators[0]
	for _, d := range decl.Declarators[1:] {
		cs.Insert(insertPos, "\n"+indent)
		cs.Copy(spec.Start, spec.End, insertPos)
		cs.Insert(insertPos, " ")
		cs.Move(doc.StartOf(d), doc.EndOf(d), insertPos)
		cs.Insert(insertPos, ";")
		cs.Remove(doc.EndOf(prev), doc.StartOf(d))
		prev = d
	}
}

// MoveDeclarationOutOfIfRule turns `if (T x = e)` into a declaration
// followed by `if (x)`.
type MoveDeclarationOutOfIfRule struct {
	quickfix.BaseRule
}

// NewMoveDeclarationOutOfIfRule creates a new move-declaration-out-of-if rule.
func NewMoveDeclarationOutOfIfRule() *MoveDeclarationOutOfIfRule {
	return &MoveDeclarationOutOfIfRule{
		BaseRule: quickfix.NewBaseRule(
			"QF008",
			"move-declaration-out-of-if",
			"Move the declaration in an if condition in front of the if statement",
			[]string{"declarations", "conditions"},
		),
	}
}

// Match offers the move when the cursor is on the declared name.
func (r *MoveDeclarationOutOfIfRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	doc := mctx.Doc
	tree := doc.Tree

	for i := len(mctx.Path) - 1; i >= 0; i-- {
		stmt := mctx.Path[i]
		ia := cppast.As[*cppast.IfAttrs](tree, stmt)
		if ia == nil {
			continue
		}
		cond := cppast.As[*cppast.ConditionAttrs](tree, ia.Cond)
		if cond == nil {
			continue
		}
		da := cppast.As[*cppast.DeclaratorAttrs](tree, cond.Declarator)
		if da == nil || da.NameFirst < 0 {
			return nil, nil
		}
		core := nameRange(doc, da)
		if !cursorIn(mctx, core) {
			continue
		}

		condRange := nodeRange(doc, ia.Cond)
		return []quickfix.Operation{
			newEditOperation(r, i, "Move Declaration out of Condition", doc, func(cs *fix.ChangeSet) {
				insertPos := doc.StartOf(stmt)
				cs.Copy(core.Start, core.End, condRange.Start)
				cs.Move(condRange.Start, condRange.End, insertPos)
				cs.Insert(insertPos, ";\n")
			}),
		}, nil
	}
	return nil, nil
}

// MoveDeclarationOutOfWhileRule turns `while (T x = e)` into a
// declaration followed by `while ((x = e) != 0)`.
type MoveDeclarationOutOfWhileRule struct {
	quickfix.BaseRule
}

// NewMoveDeclarationOutOfWhileRule creates a new move-declaration-out-of-while rule.
func NewMoveDeclarationOutOfWhileRule() *MoveDeclarationOutOfWhileRule {
	return &MoveDeclarationOutOfWhileRule{
		BaseRule: quickfix.NewBaseRule(
			"QF009",
			"move-declaration-out-of-while",
			"Move the declaration in a while condition in front of the loop",
			[]string{"declarations", "conditions"},
		),
	}
}

// Match offers the move when the cursor is on the declared name and the
// declaration is initialized with `=`.
func (r *MoveDeclarationOutOfWhileRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	doc := mctx.Doc
	tree := doc.Tree

	for i := len(mctx.Path) - 1; i >= 0; i-- {
		stmt := mctx.Path[i]
		wa := cppast.As[*cppast.WhileAttrs](tree, stmt)
		if wa == nil {
			continue
		}
		cond := cppast.As[*cppast.ConditionAttrs](tree, wa.Cond)
		if cond == nil {
			continue
		}
		da := cppast.As[*cppast.DeclaratorAttrs](tree, cond.Declarator)
		if da == nil || da.NameFirst < 0 || da.EqualToken < 0 || !da.Initializer.Valid() {
			return nil, nil
		}
		core := nameRange(doc, da)
		if !cursorIn(mctx, core) {
			continue
		}

		condRange := nodeRange(doc, wa.Cond)
		return []quickfix.Operation{
			newEditOperation(r, i, "Move Declaration out of Condition", doc, func(cs *fix.ChangeSet) {
				insertPos := doc.StartOf(stmt)
				cs.Insert(condRange.Start, "(")
				cs.Insert(condRange.End, ") != 0")
				cs.Move(condRange.Start, core.Start, insertPos)
				cs.Copy(core.Start, core.End, insertPos)
				cs.Insert(insertPos, ";\n")
			}),
		}, nil
	}
	return nil, nil
}
