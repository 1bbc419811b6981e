package rules

import (
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/semantic"
)

// CompleteSwitchRule adds the missing enumerators of an enum-typed switch
// as case labels.
type CompleteSwitchRule struct {
	quickfix.BaseRule
}

// NewCompleteSwitchRule creates a new complete-switch rule.
func NewCompleteSwitchRule() *CompleteSwitchRule {
	return &CompleteSwitchRule{
		BaseRule: quickfix.NewBaseRule(
			"QF005",
			"complete-switch",
			"Add case labels for the enumerators a switch over an enum does not handle",
			[]string{"statements", "enums"},
		),
	}
}

// Match resolves the condition of the innermost switch statement to an
// enum and offers the enumerators not yet used as case labels, in
// declaration order. Labels are compared by qualified name. New labels
// line up with the switch and their break statements one level deeper.
func (r *CompleteSwitchRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	if mctx.Semantics == nil {
		return nil, nil
	}
	doc := mctx.Doc
	tree := doc.Tree

	stmt, index := innermost(tree, mctx.Path, cppast.KindSwitchStmt)
	if index < 0 {
		return nil, nil
	}
	sa := cppast.As[*cppast.SwitchAttrs](tree, stmt)
	body := cppast.As[*cppast.CompoundAttrs](tree, sa.Body)
	if body == nil || !sa.Cond.Valid() {
		return nil, nil
	}

	enum, ok := mctx.Semantics.EnumOf(doc, sa.Cond)
	if !ok {
		return nil, nil
	}

	values := lo.Map(enum.Members, func(e *semantic.Enumerator, _ int) string {
		return e.QualifiedName
	})
	values = lo.Without(values, usedCaseValues(mctx.Semantics, doc, sa.Body)...)
	if len(values) == 0 {
		return nil, nil
	}

	insertPos := doc.Tokens[body.LBrace].End
	indent := doc.IndentOf(doc.StartOf(stmt))
	unit := indentUnit(doc, stmt)
	var text strings.Builder
	for _, v := range values {
		text.WriteString("\n" + indent + "case " + v + ":\n" + indent + unit + "break;")
	}
	return []quickfix.Operation{
		newEditOperation(r, index, "Complete Switch Statement", doc, func(cs *fix.ChangeSet) {
			cs.Insert(insertPos, text.String())
		}),
	}, nil
}

// usedCaseValues returns the qualified names of the enumerators used as
// case labels of the switch body, ignoring nested switch statements.
func usedCaseValues(sem quickfix.Semantics, doc *cppast.Document, body cppast.NodeID) []string {
	tree := doc.Tree
	var used []string
	tree.Walk(body, func(id cppast.NodeID) bool {
		switch tree.Kind(id) {
		case cppast.KindSwitchStmt, cppast.KindLambdaExpr:
			return false
		case cppast.KindCaseStmt:
			ca := cppast.As[*cppast.CaseAttrs](tree, id)
			if e, ok := sem.EnumeratorOf(doc, ca.Expr); ok {
				used = append(used, e.QualifiedName)
			}
		}
		return true
	})
	return used
}
