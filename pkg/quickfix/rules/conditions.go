package rules

import (
	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// SplitIfRule splits an if statement whose condition is a chain of `&&`
// or of `||` at the operator under the cursor.
type SplitIfRule struct {
	quickfix.BaseRule
}

// NewSplitIfRule creates a new split-if rule.
func NewSplitIfRule() *SplitIfRule {
	return &SplitIfRule{
		BaseRule: quickfix.NewBaseRule(
			"QF003",
			"split-if",
			"Split an if statement on a logical operator of its condition",
			[]string{"statements", "conditions"},
		),
	}
}

// Match requires every node between the if statement and the cursor to be
// a binary expression with the same logical operator. A `&&` chain is
// not split when the if statement has an else branch.
func (r *SplitIfRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	doc := mctx.Doc
	tree := doc.Tree

	stmt, index := innermost(tree, mctx.Path, cppast.KindIfStmt)
	if index < 0 {
		return nil, nil
	}
	ifAttrs := cppast.As[*cppast.IfAttrs](tree, stmt)
	if !ifAttrs.Then.Valid() {
		return nil, nil
	}

	splitKind := ""
	for i := index + 1; i < len(mctx.Path); i++ {
		cond := mctx.Path[i]
		bin := cppast.As[*cppast.BinaryAttrs](tree, cond)
		if bin == nil {
			return nil, nil
		}

		op := doc.TokenText(bin.OpToken)
		if splitKind == "" {
			if op != "&&" && op != "||" {
				return nil, nil
			}
			if op == "&&" && ifAttrs.Else.Valid() {
				return nil, nil
			}
			splitKind = op
		} else if op != splitKind {
			return nil, nil
		}

		if mctx.IsCursorOnToken(bin.OpToken) {
			build := func(cs *fix.ChangeSet) { splitOr(doc, ifAttrs, bin, cs) }
			if op == "&&" {
				build = func(cs *fix.ChangeSet) { splitAnd(doc, stmt, bin, cs) }
			}
			return []quickfix.Operation{
				newEditOperation(r, i, "Split if Statement", doc, build),
			}, nil
		}
	}
	return nil, nil
}

// splitAnd nests the statement in a new if testing the left operand.
func splitAnd(doc *cppast.Document, stmt cppast.NodeID, bin *cppast.BinaryAttrs, cs *fix.ChangeSet) {
	startPos := doc.StartOf(stmt)
	left := nodeRange(doc, bin.Left)

	cs.Insert(startPos, "if (")
	cs.Move(left.Start, left.End, startPos)
	cs.Insert(startPos, ") {\n")

	cs.Remove(left.End, doc.StartOf(bin.Right))
	cs.Insert(doc.EndOf(stmt), "\n}")
}

// splitOr adds an else-if branch testing the right operand with a copy of
// the then-branch.
func splitOr(doc *cppast.Document, a *cppast.IfAttrs, bin *cppast.BinaryAttrs, cs *fix.ChangeSet) {
	then := a.Then
	insertPos := doc.EndOf(then)
	if isCompound(doc.Tree, then) {
		cs.Insert(insertPos, " ")
	} else {
		cs.Insert(insertPos, "\n")
	}
	cs.Insert(insertPos, "else if (")

	rightStart := doc.StartOf(bin.Right)
	cs.Move(rightStart, doc.Tokens[a.RParen].Start, insertPos)
	cs.Insert(insertPos, ")")

	cs.Copy(doc.Tokens[a.RParen].End, insertPos, insertPos)

	cs.Remove(doc.EndOf(bin.Left), rightStart)
}
