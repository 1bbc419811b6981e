package rules

import (
	"slices"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// RearrangeParametersRule swaps a parameter declaration with its
// neighbour.
type RearrangeParametersRule struct {
	quickfix.BaseRule
}

// NewRearrangeParametersRule creates a new rearrange-parameters rule.
func NewRearrangeParametersRule() *RearrangeParametersRule {
	return &RearrangeParametersRule{
		BaseRule: quickfix.NewBaseRule(
			"QF011",
			"rearrange-parameters",
			"Switch a parameter with the previous or next one",
			[]string{"functions"},
		),
	}
}

// Match offers a swap with the previous and with the next parameter of
// the innermost parameter declaration under the cursor.
func (r *RearrangeParametersRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	doc := mctx.Doc
	tree := doc.Tree

	param, index := innermost(tree, mctx.Path, cppast.KindParamDecl)
	if index < 1 {
		return nil, nil
	}
	clause := cppast.As[*cppast.ParamClauseAttrs](tree, mctx.Path[index-1])
	if clause == nil {
		return nil, nil
	}
	pos := slices.Index(clause.Params, param)
	if pos < 0 {
		return nil, nil
	}

	current := nodeRange(doc, param)
	swap := func(target cppast.NodeID, desc string) quickfix.Operation {
		other := nodeRange(doc, target)
		return newEditOperation(r, index, desc, doc, func(cs *fix.ChangeSet) {
			cs.Flip(current, other)
		})
	}

	var ops []quickfix.Operation
	if pos > 0 {
		ops = append(ops, swap(clause.Params[pos-1], "Switch with Previous Parameter"))
	}
	if pos < len(clause.Params)-1 {
		ops = append(ops, swap(clause.Params[pos+1], "Switch with Next Parameter"))
	}
	return ops, nil
}
