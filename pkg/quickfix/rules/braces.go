package rules

import (
	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// AddBracesRule wraps the single-statement bodies of control statements
// in braces.
type AddBracesRule struct {
	quickfix.BaseRule
}

// NewAddBracesRule creates a new add-braces rule.
func NewAddBracesRule() *AddBracesRule {
	return &AddBracesRule{
		BaseRule: quickfix.NewBaseRule(
			"QF002",
			"add-braces",
			"Add curly braces around the body of a control statement",
			[]string{"statements", "style"},
		),
	}
}

// braceTarget is one body to wrap. open is the offset the opening brace
// goes after; close is where the closing brace goes and closeText what
// is inserted there.
type braceTarget struct {
	open      int
	close     int
	closeText string
}

// Match inspects the control statement the cursor is directly on. The
// statement's own body is wrapped only when the cursor is on its keyword;
// an if statement's else-if chain and trailing else are always checked.
func (r *AddBracesRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	if len(mctx.Path) == 0 {
		return nil, nil
	}
	doc := mctx.Doc
	tree := doc.Tree
	stmt := last(mctx.Path)

	var targets []braceTarget
	addBody := func(keyword, openAfter int, body cppast.NodeID) {
		if mctx.IsCursorOnToken(keyword) && body.Valid() && !isCompound(tree, body) {
			targets = append(targets, braceTarget{
				open:      doc.Tokens[openAfter].End,
				close:     doc.EndOf(body),
				closeText: "\n}",
			})
		}
	}

	switch a := tree.Node(stmt).Attrs.(type) {
	case *cppast.IfAttrs:
		if mctx.IsCursorOnToken(a.IfToken) && a.Then.Valid() && !isCompound(tree, a.Then) {
			targets = append(targets, ifTarget(doc, a))
		}
		targets = append(targets, elseChainTargets(doc, a)...)
	case *cppast.WhileAttrs:
		addBody(a.WhileToken, a.RParen, a.Body)
	case *cppast.ForAttrs:
		addBody(a.ForToken, a.RParen, a.Body)
	case *cppast.RangeForAttrs:
		addBody(a.ForToken, a.RParen, a.Body)
	case *cppast.DoAttrs:
		if mctx.IsCursorOnToken(a.DoToken) && a.Body.Valid() && !isCompound(tree, a.Body) {
			targets = append(targets, braceTarget{
				open:      doc.Tokens[a.DoToken].End,
				close:     doc.Tokens[a.WhileToken].Start,
				closeText: "} ",
			})
		}
	default:
		return nil, nil
	}

	if len(targets) == 0 {
		return nil, nil
	}

	return []quickfix.Operation{
		newEditOperation(r, len(mctx.Path)-1, "Add Curly Braces", doc, func(cs *fix.ChangeSet) {
			for _, t := range targets {
				cs.Insert(t.open, " {")
				cs.Insert(t.close, t.closeText)
			}
		}),
	}, nil
}

// ifTarget wraps the then-branch of a; the closing brace goes in front of
// the else keyword when there is one.
func ifTarget(doc *cppast.Document, a *cppast.IfAttrs) braceTarget {
	t := braceTarget{open: doc.Tokens[a.RParen].End}
	if a.Else.Valid() {
		t.close = doc.Tokens[a.ElseToken].Start
		t.closeText = "} "
	} else {
		t.close = doc.EndOf(a.Then)
		t.closeText = "\n}"
	}
	return t
}

// elseChainTargets walks the else-if chain of a and returns the branches
// to wrap, followed by a trailing plain else if it is not compound.
func elseChainTargets(doc *cppast.Document, a *cppast.IfAttrs) []braceTarget {
	tree := doc.Tree
	var targets []braceTarget

	elseStmt, elseToken := a.Else, a.ElseToken
	for elseStmt.Valid() {
		next := cppast.As[*cppast.IfAttrs](tree, elseStmt)
		if next == nil {
			break
		}
		if next.Then.Valid() && !isCompound(tree, next.Then) {
			targets = append(targets, ifTarget(doc, next))
		}
		elseStmt, elseToken = next.Else, next.ElseToken
	}

	if elseStmt.Valid() && !isCompound(tree, elseStmt) {
		targets = append(targets, braceTarget{
			open:      doc.Tokens[elseToken].End,
			close:     doc.EndOf(elseStmt),
			closeText: "\n}",
		})
	}
	return targets
}
