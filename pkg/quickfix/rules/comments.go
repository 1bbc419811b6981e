package rules

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/semantic"
)

// commentStyle classifies a comment by its delimiters. Doxygen comments
// keep their marker across conversions.
type commentStyle uint8

const (
	styleLine commentStyle = iota
	styleLineDoxygen
	styleBlock
	styleBlockDoxygen
)

func styleOf(text string) commentStyle {
	switch {
	case strings.HasPrefix(text, "//!"):
		return styleLineDoxygen
	case strings.HasPrefix(text, "//"):
		return styleLine
	case strings.HasPrefix(text, "/*!"),
		strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***") && text != "/**/":
		return styleBlockDoxygen
	}
	return styleBlock
}

// ConvertCommentStyleRule converts between `//` and `/* */` comments.
type ConvertCommentStyleRule struct {
	quickfix.BaseRule
}

// NewConvertCommentStyleRule creates a new convert-comment-style rule.
func NewConvertCommentStyleRule() *ConvertCommentStyleRule {
	return &ConvertCommentStyleRule{
		BaseRule: quickfix.NewBaseRule(
			"QF013",
			"convert-comment-style",
			"Convert comments between C-style and C++-style",
			[]string{"comments"},
		),
	}
}

// Match offers the conversion for the comment under the cursor, or for
// the comments a selection touches when it covers no code and all of
// them have the same style.
func (r *ConvertCommentStyleRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	doc := mctx.Doc
	start, end := mctx.SelectionStart, mctx.SelectionEnd

	var comments []cppast.Trivia
	if mctx.HasSelection() {
		if lo.ContainsBy(doc.Tokens, func(tk cppast.Token) bool { return tk.Start < end && tk.End > start }) {
			return nil, nil
		}
		comments = lo.Filter(doc.Trivia, func(tr cppast.Trivia, _ int) bool {
			return !tr.Directive && tr.Start < end && tr.End > start
		})
	} else {
		comments = lo.Filter(doc.Trivia, func(tr cppast.Trivia, _ int) bool {
			return !tr.Directive && start >= tr.Start && start <= tr.End
		})
	}
	if len(comments) == 0 {
		return nil, nil
	}

	style := styleOf(doc.Text(comments[0].Start, comments[0].End))
	for _, c := range comments {
		text := doc.Text(c.Start, c.End)
		if styleOf(text) != style {
			return nil, nil
		}
		switch style {
		case styleLine, styleLineDoxygen:
			if strings.Contains(text, "*/") {
				return nil, nil
			}
		default:
			if strings.TrimSpace(restOfLine(doc, c.End)) != "" {
				return nil, nil
			}
		}
	}

	switch style {
	case styleLine:
		return []quickfix.Operation{
			newEditOperation(r, 0, "Convert Comment to C-Style", doc, func(cs *fix.ChangeSet) {
				for _, c := range comments {
					cs.Replace(c.Start, c.End, lineToBlock(doc.Text(c.Start, c.End)))
				}
			}),
		}, nil
	case styleLineDoxygen:
		first, last := comments[0], comments[len(comments)-1]
		indent := doc.IndentOf(first.Start)
		return []quickfix.Operation{
			newEditOperation(r, 0, "Convert Comment to C-Style", doc, func(cs *fix.ChangeSet) {
				cs.Insert(first.Start, "/*!\n"+indent)
				for _, c := range comments {
					cs.Replace(c.Start, c.Start+len("//!"), "   ")
				}
				cs.Insert(last.End, "\n"+indent+"*/")
			}),
		}, nil
	}
	return []quickfix.Operation{
		newEditOperation(r, 0, "Convert Comment to C++-Style", doc, func(cs *fix.ChangeSet) {
			for _, c := range comments {
				text := doc.Text(c.Start, c.End)
				cs.Replace(c.Start, c.End, blockToLines(text, doc.IndentOf(c.Start), style == styleBlockDoxygen))
			}
		}),
	}, nil
}

// lineToBlock rewrites one `//` comment as a `/* */` comment. A line of
// slashes becomes a line of stars.
func lineToBlock(text string) string {
	cr := ""
	if strings.HasSuffix(text, "\r") {
		text, cr = text[:len(text)-1], "\r"
	}
	if len(text) > 2 && strings.Trim(text, "/") == "" {
		return "/" + strings.Repeat("*", max(len(text)-2, 2)) + "/" + cr
	}
	body := strings.TrimRight(strings.TrimLeft(text[2:], "/"), " \t")
	return "/*" + body + " */" + cr
}

// blockToLines rewrites one `/* */` comment as `//` lines at indent,
// dropping the star decoration of continuation lines and empty first and
// last lines.
func blockToLines(text, indent string, doxygen bool) string {
	prefix := "//"
	body := text[2 : len(text)-2]
	if doxygen {
		prefix, body = "//!", body[1:]
	}

	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if i > 0 {
			line = strings.TrimLeft(line, " \t")
		}
		if len(line) >= 3 && strings.Trim(line, "*") == "" {
			out = append(out, strings.Repeat("/", len(line)+2))
			continue
		}
		if i > 0 && strings.HasPrefix(line, "*") {
			line = strings.TrimPrefix(line[1:], " ")
		} else {
			line = strings.TrimLeft(line, " \t")
		}
		if line == "" {
			out = append(out, prefix)
			continue
		}
		out = append(out, prefix+" "+line)
	}
	if len(out) > 1 && out[0] == prefix {
		out = out[1:]
	}
	if len(out) > 1 && out[len(out)-1] == prefix {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n"+indent)
}

// restOfLine returns the text from offset up to the end of its line.
func restOfLine(doc *cppast.Document, offset int) string {
	rest := doc.Content[offset:]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return string(rest)
}

// lineStart returns the offset of the first byte of the line containing
// offset.
func lineStart(doc *cppast.Document, offset int) int {
	return bytes.LastIndexByte(doc.Content[:offset], '\n') + 1
}

// leadingComments returns the comment block in front of declaration id
// that starts on a line of its own. The range is empty at the start of
// id when there is none.
func leadingComments(doc *cppast.Document, id cppast.NodeID) fix.Range {
	end := doc.StartOf(id)
	from := doc.LeadingCommentStart(id)
	for _, tr := range doc.Trivia {
		if tr.Directive || tr.Start < from || tr.End > end {
			continue
		}
		if strings.TrimSpace(doc.Text(lineStart(doc, tr.Start), tr.Start)) == "" {
			last, _, _ := lo.FindLastIndexOf(doc.Trivia, func(c cppast.Trivia) bool { return c.End <= end })
			return fix.Range{Start: tr.Start, End: last.End}
		}
	}
	return fix.Range{Start: end, End: end}
}

// declarationAnchor returns the node a function's comments attach to:
// its template declaration when it has one.
func declarationAnchor(tree *cppast.Tree, id cppast.NodeID) cppast.NodeID {
	if p := tree.Parent(id); tree.Is(p, cppast.KindTemplateDecl) {
		return p
	}
	return id
}

// MoveFunctionCommentsRule moves the comments documenting a function
// between its declaration and its definition.
type MoveFunctionCommentsRule struct {
	quickfix.BaseRule
}

// NewMoveFunctionCommentsRule creates a new move-function-comments rule.
func NewMoveFunctionCommentsRule() *MoveFunctionCommentsRule {
	return &MoveFunctionCommentsRule{
		BaseRule: quickfix.NewBaseRule(
			"QF014",
			"move-function-comments",
			"Move the comments of a function from its definition to its declaration or back",
			[]string{"comments", "functions"},
		),
	}
}

// Match offers the move when the cursor is on the signature of a
// commented function definition with a separate declaration, or on a
// commented declaration with a definition. Cursors inside the body are
// ignored.
func (r *MoveFunctionCommentsRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	if mctx.Semantics == nil {
		return nil, nil
	}
	doc := mctx.Doc
	tree := doc.Tree

	for i := len(mctx.Path) - 1; i >= 0; i-- {
		id := mctx.Path[i]
		switch tree.Kind(id) {
		case cppast.KindFunctionDef:
			fa := cppast.As[*cppast.FunctionDefAttrs](tree, id)
			if fa.Body.Valid() && mctx.SelectionStart >= doc.StartOf(fa.Body) {
				return nil, nil
			}
			def := mctx.Semantics.FunctionOf(doc, id)
			if def == nil {
				return nil, nil
			}
			decls := mctx.Semantics.Declarations(def)
			if len(decls) == 0 {
				return nil, nil
			}
			return r.offer(i, def, decls[0], "Move Function Documentation to Declaration"), nil

		case cppast.KindSimpleDecl:
			sd := cppast.As[*cppast.SimpleDeclAttrs](tree, id)
			decl := mctx.Semantics.FunctionOf(doc, id)
			if decl == nil || len(sd.Declarators) != 1 {
				continue
			}
			def := mctx.Semantics.DefinitionOf(decl)
			if def == nil {
				return nil, nil
			}
			return r.offer(i, decl, def, "Move Function Documentation to Definition"), nil
		}
	}
	return nil, nil
}

func (r *MoveFunctionCommentsRule) offer(priority int, from, to *semantic.Function, desc string) []quickfix.Operation {
	comments := leadingComments(from.Doc, declarationAnchor(from.Doc.Tree, from.Node))
	if comments.Start == comments.End {
		return nil
	}
	return []quickfix.Operation{&moveCommentsOperation{
		BaseOperation: quickfix.NewBaseOperation(r, priority, desc),
		from:          from.Doc,
		comments:      comments,
		to:            to.Doc,
		target:        to.Doc.StartOf(declarationAnchor(to.Doc.Tree, to.Node)),
	}}
}

type moveCommentsOperation struct {
	quickfix.BaseOperation
	from     *cppast.Document
	comments fix.Range
	to       *cppast.Document
	target   int
}

// Perform removes the comment lines at the source and inserts the
// comments in front of the target, reindented to its column.
func (o *moveCommentsOperation) Perform(ctx context.Context) ([]*fix.ChangeSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", o.RuleID(), err)
	}
	oldIndent := o.from.IndentOf(o.comments.Start)
	newIndent := o.to.IndentOf(o.target)

	lines := strings.Split(o.from.Text(o.comments.Start, o.comments.End), "\n")
	for i := 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], oldIndent) {
			lines[i] = newIndent + lines[i][len(oldIndent):]
		}
	}
	text := strings.Join(lines, "\n") + "\n" + newIndent

	src := fix.NewChangeSet(o.from.Path)
	src.Remove(o.removal())
	if o.to == o.from {
		src.Insert(o.target, text)
		return []*fix.ChangeSet{src}, nil
	}
	dst := fix.NewChangeSet(o.to.Path)
	dst.Insert(o.target, text)
	return []*fix.ChangeSet{src, dst}, nil
}

// removal extends the comment range to whole lines: the indent in front
// and the trailing whitespace up to and including the newline.
func (o *moveCommentsOperation) removal() (int, int) {
	content := o.from.Content
	start := lineStart(o.from, o.comments.Start)
	end := o.comments.End
	for end < len(content) && (content[end] == ' ' || content[end] == '\t' || content[end] == '\r') {
		end++
	}
	if end < len(content) && content[end] == '\n' {
		end++
	}
	return start, end
}
