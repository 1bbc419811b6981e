// Package cppast tokenizes and parses a practical subset of C++ into an
// arena syntax tree, and answers the positional queries quick-fix rules
// need: the ancestor path at a cursor, token and node ranges, and
// comments attached to declarations.
package cppast

import (
	"context"
	"sort"
	"strings"
)

// Document is an immutable parsed snapshot of one buffer.
type Document struct {
	Path    string
	Content []byte
	Tokens  []Token
	Trivia  []Trivia
	Tree    *Tree
	Lines   []LineInfo

	// Diagnostics lists the syntax errors the parser recovered from. The
	// affected regions appear as KindUnknown nodes.
	Diagnostics []*SyntaxError
}

// Parse tokenizes and parses content. Lexical errors are fatal and
// returned as *SyntaxError; grammatical errors are recovered and recorded
// in Diagnostics.
func Parse(ctx context.Context, path string, content []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &Document{Path: path, Content: content, Lines: BuildLines(content)}

	toks, trivia, err := Lex(content)
	if err != nil {
		if se, ok := err.(*SyntaxError); ok {
			doc.locate(se)
		}
		return nil, err
	}
	doc.Tokens = toks
	doc.Trivia = trivia

	p := newParser(ctx, toks)
	p.parseTranslationUnit()
	doc.Tree = p.tree
	for _, d := range p.diags {
		doc.locate(d)
	}
	doc.Diagnostics = p.diags

	return doc, nil
}

func (d *Document) locate(e *SyntaxError) {
	e.Path = d.Path
	e.Line, e.Column = d.LineCol(e.Offset)
}

// StartOf returns the byte offset where node id begins.
func (d *Document) StartOf(id NodeID) int {
	return d.Tokens[d.Tree.nodes[id].FirstToken].Start
}

// EndOf returns the byte offset just past node id.
func (d *Document) EndOf(id NodeID) int {
	return d.Tokens[d.Tree.nodes[id].LastToken].End
}

// TextOf returns the source text of node id.
func (d *Document) TextOf(id NodeID) string {
	return string(d.Content[d.StartOf(id):d.EndOf(id)])
}

// TokenText returns the spelling of token i.
func (d *Document) TokenText(i int) string {
	return d.Tokens[i].Text
}

// SpanText returns the source text from the start of token first to the
// end of token last.
func (d *Document) SpanText(first, last int) string {
	if first < 0 || last < first {
		return ""
	}
	return string(d.Content[d.Tokens[first].Start:d.Tokens[last].End])
}

// Text returns the source text of a byte range.
func (d *Document) Text(start, end int) string {
	return string(d.Content[start:end])
}

// TokenAt returns the index of the token containing offset, or of the
// token ending exactly at offset. It returns -1 between tokens.
func (d *Document) TokenAt(offset int) int {
	i := sort.Search(len(d.Tokens), func(i int) bool {
		return d.Tokens[i].End >= offset
	})
	if i < len(d.Tokens) && d.Tokens[i].Kind != TokenEOF && d.Tokens[i].Start <= offset {
		// Prefer the token starting at offset over one ending there.
		if d.Tokens[i].End == offset && i+1 < len(d.Tokens) && d.Tokens[i+1].Start == offset && d.Tokens[i+1].Kind != TokenEOF {
			return i + 1
		}
		return i
	}
	return -1
}

// PathAt returns the nodes containing offset, ordered from the translation
// unit to the innermost node. A node contains offset when it lies between
// its start and end, both inclusive; when two siblings touch at offset the
// one starting there wins.
func (d *Document) PathAt(offset int) []NodeID {
	path := []NodeID{d.Tree.Root()}
	cur := d.Tree.Root()
	for {
		next := NoNode
		for _, child := range d.Tree.nodes[cur].Children {
			start, end := d.StartOf(child), d.EndOf(child)
			if start <= offset && offset < end {
				next = child
				break
			}
			if offset == end && !next.Valid() {
				next = child
			}
		}
		if !next.Valid() {
			return path
		}
		path = append(path, next)
		cur = next
	}
}

// IsCursorOnToken reports whether the selection start lies within token i,
// ends included.
func (d *Document) IsCursorOnToken(selStart, i int) bool {
	if i < 0 || i >= len(d.Tokens) {
		return false
	}
	return selStart >= d.Tokens[i].Start && selStart <= d.Tokens[i].End
}

// IsCursorOnNode reports whether the selection start lies within node id,
// ends included.
func (d *Document) IsCursorOnNode(selStart int, id NodeID) bool {
	if !id.Valid() {
		return false
	}
	return selStart >= d.StartOf(id) && selStart <= d.EndOf(id)
}

// LeadingCommentStart returns the offset of the first comment in the
// block of comments directly preceding node id, separated from it and
// from each other by whitespace only. Without such comments it returns
// the start of the node.
func (d *Document) LeadingCommentStart(id NodeID) int {
	pos := d.StartOf(id)
	i := sort.Search(len(d.Trivia), func(i int) bool {
		return d.Trivia[i].Start >= pos
	}) - 1
	for ; i >= 0; i-- {
		tr := d.Trivia[i]
		if tr.Directive || strings.TrimSpace(string(d.Content[tr.End:pos])) != "" {
			break
		}
		pos = tr.Start
	}
	return pos
}

// IndentOf returns the leading whitespace of the line containing offset.
func (d *Document) IndentOf(offset int) string {
	line, _ := d.LineCol(offset)
	text := d.LineText(line)
	return text[:len(text)-len(strings.TrimLeft(text, " \t"))]
}
