package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// editOperation is an operation whose edits all target the document it
// was matched in.
type editOperation struct {
	quickfix.BaseOperation
	doc   *cppast.Document
	build func(cs *fix.ChangeSet)
}

func newEditOperation(rule quickfix.Rule, priority int, desc string, doc *cppast.Document,
	build func(cs *fix.ChangeSet),
) *editOperation {
	return &editOperation{
		BaseOperation: quickfix.NewBaseOperation(rule, priority, desc),
		doc:           doc,
		build:         build,
	}
}

// Perform records the edits in a change set for the matched document.
func (o *editOperation) Perform(ctx context.Context) ([]*fix.ChangeSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", o.RuleID(), err)
	}
	cs := fix.NewChangeSet(o.doc.Path)
	o.build(cs)
	return []*fix.ChangeSet{cs}, nil
}

// innermost returns the deepest node in path with the given kind and its
// index in path, or (NoNode, -1).
func innermost(tree *cppast.Tree, path []cppast.NodeID, kind cppast.NodeKind) (cppast.NodeID, int) {
	for i := len(path) - 1; i >= 0; i-- {
		if tree.Kind(path[i]) == kind {
			return path[i], i
		}
	}
	return cppast.NoNode, -1
}

// last returns the innermost node of path.
func last(path []cppast.NodeID) cppast.NodeID {
	if len(path) == 0 {
		return cppast.NoNode
	}
	return path[len(path)-1]
}

// nodeRange returns the byte range covered by id.
func nodeRange(doc *cppast.Document, id cppast.NodeID) fix.Range {
	return fix.Range{Start: doc.StartOf(id), End: doc.EndOf(id)}
}

// tokenRange returns the byte range of token i.
func tokenRange(doc *cppast.Document, i int) fix.Range {
	return fix.Range{Start: doc.Tokens[i].Start, End: doc.Tokens[i].End}
}

// nameRange returns the byte range of a declarator's core name.
func nameRange(doc *cppast.Document, da *cppast.DeclaratorAttrs) fix.Range {
	return fix.Range{Start: doc.Tokens[da.NameFirst].Start, End: doc.Tokens[da.NameLast].End}
}

// cursorIn reports whether the selection start lies within r, ends
// included.
func cursorIn(mctx *quickfix.MatchContext, r fix.Range) bool {
	return mctx.SelectionStart >= r.Start && mctx.SelectionStart <= r.End
}

// isCompound reports whether id is a compound statement.
func isCompound(tree *cppast.Tree, id cppast.NodeID) bool {
	return tree.Is(id, cppast.KindCompoundStmt)
}

// indentUnit guesses one level of indentation from the indent of the
// statement id and the number of blocks around it, falling back to a tab
// or four spaces.
func indentUnit(doc *cppast.Document, id cppast.NodeID) string {
	indent := doc.IndentOf(doc.StartOf(id))
	depth := 0
	for p := doc.Tree.Parent(id); p.Valid(); p = doc.Tree.Parent(p) {
		if isCompound(doc.Tree, p) {
			depth++
		}
	}
	if depth > 0 && indent != "" && len(indent)%depth == 0 {
		if unit := indent[:len(indent)/depth]; strings.Repeat(unit, depth) == indent {
			return unit
		}
	}
	if strings.HasPrefix(indent, "\t") {
		return "\t"
	}
	return "    "
}
