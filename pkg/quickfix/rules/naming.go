package rules

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/semantic"
)

// ConvertToCamelCaseRule renames an identifier written with underscores
// to camel case.
type ConvertToCamelCaseRule struct {
	quickfix.BaseRule
}

// NewConvertToCamelCaseRule creates a new convert-to-camel-case rule.
func NewConvertToCamelCaseRule() *ConvertToCamelCaseRule {
	return &ConvertToCamelCaseRule{
		BaseRule: quickfix.NewBaseRule(
			"QF010",
			"convert-to-camel-case",
			"Rename an identifier containing underscores to camel case",
			[]string{"naming"},
		),
	}
}

// nameBearing lists the node kinds whose name the cursor can be on.
var nameBearing = map[cppast.NodeKind]bool{
	cppast.KindIdExpr:         true,
	cppast.KindDeclarator:     true,
	cppast.KindNamespace:      true,
	cppast.KindMemberExpr:     true,
	cppast.KindClassSpecifier: true,
	cppast.KindEnumSpecifier:  true,
	cppast.KindEnumerator:     true,
}

// Match offers the rename for an identifier of at least three characters
// with an underscore followed by a letter. A leading `m_` is kept. Only
// the spellings that resolve to the symbol under the cursor are renamed,
// in the current document and in the related ones.
func (r *ConvertToCamelCaseRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	if mctx.Semantics == nil {
		return nil, nil
	}
	doc := mctx.Doc
	node := last(mctx.Path)
	if !node.Valid() || !nameBearing[doc.Tree.Kind(node)] {
		return nil, nil
	}

	tok := doc.TokenAt(mctx.SelectionStart)
	if tok < 0 || doc.Tokens[tok].Kind != cppast.TokenIdent {
		return nil, nil
	}
	n := doc.Tree.Node(node)
	if tok < n.FirstToken || tok > n.LastToken {
		return nil, nil
	}

	name := doc.Tokens[tok].Text
	if !HasConvertibleUnderscore(name) {
		return nil, nil
	}

	visible := make(map[*cppast.Document]bool)
	for _, d := range mctx.Documents() {
		visible[d] = true
	}
	occurrences := lo.Filter(mctx.Semantics.Occurrences(doc, tok), func(o semantic.Occurrence, _ int) bool {
		return visible[o.Doc]
	})
	if len(occurrences) == 0 {
		return nil, nil
	}

	return []quickfix.Operation{&renameOperation{
		BaseOperation: quickfix.NewBaseOperation(r, len(mctx.Path)-1, "Convert to Camel Case"),
		docs:          mctx.Documents(),
		occurrences:   occurrences,
		newName:       ToCamelCase(name),
	}}, nil
}

// renameOperation replaces every occurrence of a symbol, with one change
// set per document that mentions it.
type renameOperation struct {
	quickfix.BaseOperation
	docs        []*cppast.Document
	occurrences []semantic.Occurrence
	newName     string
}

func (o *renameOperation) Perform(ctx context.Context) ([]*fix.ChangeSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", o.RuleID(), err)
	}
	byDoc := lo.GroupBy(o.occurrences, func(occ semantic.Occurrence) *cppast.Document {
		return occ.Doc
	})

	var sets []*fix.ChangeSet
	for _, doc := range o.docs {
		occs := byDoc[doc]
		if len(occs) == 0 {
			continue
		}
		cs := fix.NewChangeSet(doc.Path)
		for _, occ := range occs {
			cs.Replace(occ.Start, occ.End, o.newName)
		}
		sets = append(sets, cs)
	}
	return sets, nil
}

// HasConvertibleUnderscore reports whether ToCamelCase would change name.
func HasConvertibleUnderscore(name string) bool {
	runes := []rune(name)
	if len(runes) < 3 {
		return false
	}
	for i := 1; i < len(runes)-1; i++ {
		if isConvertibleUnderscore(runes, i) {
			return true
		}
	}
	return false
}

// ToCamelCase removes each underscore that is followed by a letter and
// upper-cases that letter. All-upper-case names are lowered first. The
// underscore of an `m_` member prefix is kept.
func ToCamelCase(name string) string {
	allUpper := strings.ToUpper(name) == name
	runes := []rune(name)
	if allUpper {
		runes = []rune(strings.ToLower(name))
	}
	for i := 1; i < len(runes); i++ {
		if i < len(runes)-1 && isConvertibleUnderscore(runes, i) {
			runes = append(runes[:i], runes[i+1:]...)
			runes[i] = unicode.ToUpper(runes[i])
		}
	}
	return string(runes)
}

func isConvertibleUnderscore(name []rune, pos int) bool {
	return name[pos] == '_' && unicode.IsLetter(name[pos+1]) && !(pos == 1 && name[0] == 'm')
}
