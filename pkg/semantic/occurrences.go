package semantic

import (
	"strings"

	"github.com/yaklabco/quickfix/pkg/cppast"
)

// SymbolKind classifies what a name refers to.
type SymbolKind uint8

// Symbol kinds.
const (
	SymbolNone SymbolKind = iota
	SymbolLocal
	SymbolParameter
	SymbolVariable
	SymbolFunction
	SymbolClass
	SymbolEnum
	SymbolEnumerator
	SymbolTypedef
	SymbolNamespace
)

// Symbol identifies the entity a name refers to. Two names refer to the
// same entity when their symbols are equal.
type Symbol struct {
	Kind SymbolKind

	// QualifiedName names the entity from the global scope. It is empty
	// for locals and for parameters of function declarations.
	QualifiedName string

	// Local is set for locals of a function definition.
	Local *Local

	// doc and offset locate a parameter of a function declaration,
	// which nothing else can refer to.
	doc    *cppast.Document
	offset int
}

// Valid reports whether the name was resolved.
func (s Symbol) Valid() bool {
	return s.Kind != SymbolNone
}

// Occurrence is one spelling of a symbol's name.
type Occurrence struct {
	Doc   *cppast.Document
	Start int
	End   int
}

// SymbolAt resolves the identifier token tok of doc. It returns the zero
// Symbol for tokens that are not identifiers or do not resolve.
func (ix *Index) SymbolAt(doc *cppast.Document, tok int) Symbol {
	if tok < 0 || tok >= len(doc.Tokens) || doc.Tokens[tok].Kind != cppast.TokenIdent {
		return Symbol{}
	}
	path := doc.PathAt(doc.Tokens[tok].Start)
	node := path[len(path)-1]
	t := doc.Tree

	switch a := t.Node(node).Attrs.(type) {
	case *cppast.IdExprAttrs:
		switch {
		case tok < a.NameToken:
			return ix.scopeSymbol(NameText(doc, a.NameFirst, tok), ScopeOf(doc, node))
		case tok > a.NameToken:
			return ix.typeRunSymbol(doc, node, tok)
		}
		return ix.valueSymbol(doc, node, a)

	case *cppast.MemberAttrs:
		if tok != a.NameToken {
			return Symbol{}
		}
		cls := ix.classOfExpr(doc, a.Base, 0)
		if cls == nil {
			return Symbol{}
		}
		return memberSymbol(cls, doc.TokenText(tok))

	case *cppast.DeclaratorAttrs:
		if tok < a.NameFirst || tok > a.NameLast {
			return Symbol{}
		}
		if tok != a.NameLast {
			return ix.scopeSymbol(NameText(doc, a.NameFirst, tok), ScopeOf(doc, node))
		}
		return ix.declaratorSymbol(doc, node, tok)

	case *cppast.ClassAttrs:
		if tok != a.NameToken {
			return ix.typeRunSymbol(doc, node, tok)
		}
		if c := ix.classByNode[nodeKey{doc, node}]; c != nil {
			return Symbol{Kind: SymbolClass, QualifiedName: c.QualifiedName}
		}
		return Symbol{Kind: SymbolClass, QualifiedName: qualify(ScopeOf(doc, node), doc.TokenText(tok))}

	case *cppast.EnumAttrs:
		if tok != a.NameToken {
			return ix.typeRunSymbol(doc, node, tok)
		}
		if e := ix.enumByNode[nodeKey{doc, node}]; e != nil && e.QualifiedName != "" {
			return Symbol{Kind: SymbolEnum, QualifiedName: e.QualifiedName}
		}
		return Symbol{Kind: SymbolEnum, QualifiedName: qualify(ScopeOf(doc, node), doc.TokenText(tok))}

	case *cppast.EnumeratorAttrs:
		if tok != a.NameToken {
			return Symbol{}
		}
		if e := ix.enumByNode[nodeKey{doc, t.Parent(node)}]; e != nil {
			for _, m := range e.Members {
				if m.Name == doc.TokenText(tok) {
					return Symbol{Kind: SymbolEnumerator, QualifiedName: m.QualifiedName}
				}
			}
		}
		return Symbol{}

	case *cppast.NamespaceAttrs:
		if tok != a.NameToken {
			return Symbol{}
		}
		return Symbol{Kind: SymbolNamespace, QualifiedName: qualify(ScopeOf(doc, node), doc.TokenText(tok))}

	case *cppast.DeclSpecifierAttrs, *cppast.CastAttrs:
		return ix.typeRunSymbol(doc, node, tok)
	}
	return Symbol{}
}

// valueSymbol resolves a name expression the way TypeOf does: locals,
// then members of the enclosing class, then names visible from the
// enclosing scopes.
func (ix *Index) valueSymbol(doc *cppast.Document, id cppast.NodeID, a *cppast.IdExprAttrs) Symbol {
	name := NameText(doc, a.NameFirst, a.NameToken)
	if a.NameFirst == a.NameToken {
		if fn := doc.Tree.Ancestor(id, cppast.KindFunctionDef); fn.Valid() {
			if l := ix.LocalAt(doc, fn, doc.Tokens[a.NameToken].Start); l != nil {
				return Symbol{Kind: SymbolLocal, Local: l}
			}
		}
		if cls := ix.EnclosingClass(doc, id); cls != nil {
			if s := memberSymbol(cls, name); s.Valid() {
				return s
			}
		}
	}

	scope := ScopeOf(doc, id)
	if v := ix.lookupVariable(name, scope); v != nil {
		return Symbol{Kind: SymbolVariable, QualifiedName: v.QualifiedName}
	}
	if e := ix.lookupEnumerator(name, scope); e != nil {
		return Symbol{Kind: SymbolEnumerator, QualifiedName: e.QualifiedName}
	}
	if fns := ix.lookupFunctions(name, scope); len(fns) > 0 {
		return functionSymbol(fns[0])
	}
	return ix.scopeSymbol(name, scope)
}

func memberSymbol(cls *Class, name string) Symbol {
	if f := cls.Fields[name]; f != nil {
		return Symbol{Kind: SymbolVariable, QualifiedName: f.QualifiedName}
	}
	if ms := cls.Methods[name]; len(ms) > 0 {
		return functionSymbol(ms[0])
	}
	return Symbol{}
}

// functionSymbol maps constructors and destructors to their class, whose
// name they share.
func functionSymbol(fn *Function) Symbol {
	if fn.Class != nil && strings.TrimPrefix(fn.Name, "~") == fn.Class.Name {
		return Symbol{Kind: SymbolClass, QualifiedName: fn.Class.QualifiedName}
	}
	return Symbol{Kind: SymbolFunction, QualifiedName: fn.QualifiedName}
}

// declaratorSymbol resolves the core name of a declarator.
func (ix *Index) declaratorSymbol(doc *cppast.Document, d cppast.NodeID, tok int) Symbol {
	t := doc.Tree
	for t.Is(t.Parent(d), cppast.KindDeclarator) {
		d = t.Parent(d)
	}
	owner := t.Parent(d)

	if fn := t.Ancestor(d, cppast.KindFunctionDef); fn.Valid() {
		if l := ix.LocalAt(doc, fn, doc.Tokens[tok].Start); l != nil {
			return Symbol{Kind: SymbolLocal, Local: l}
		}
	}

	switch t.Kind(owner) {
	case cppast.KindFunctionDef, cppast.KindSimpleDecl:
		if fn := ix.functionByNode[nodeKey{doc, owner}]; fn != nil && fn.Declarator == d {
			return functionSymbol(fn)
		}
	case cppast.KindParamDecl:
		return Symbol{Kind: SymbolParameter, doc: doc, offset: doc.Tokens[tok].Start}
	}

	da := cppast.As[*cppast.DeclaratorAttrs](t, d)
	qname := qualify(ScopeOf(doc, d), strings.Join(NameParts(doc, da.NameFirst, da.NameLast), "::"))
	if t.Is(owner, cppast.KindSimpleDecl) && doc.Tokens[t.Node(owner).FirstToken].Is("typedef") {
		return Symbol{Kind: SymbolTypedef, QualifiedName: qname}
	}
	return Symbol{Kind: SymbolVariable, QualifiedName: qname}
}

// typeRunSymbol resolves an identifier inside a written type, such as
// `ns::Shape` in a declaration's specifiers, from its qualifiers up to
// tok.
func (ix *Index) typeRunSymbol(doc *cppast.Document, node cppast.NodeID, tok int) Symbol {
	first := tok
	for first >= 2 && doc.Tokens[first-1].Is("::") && doc.Tokens[first-2].Kind == cppast.TokenIdent {
		first -= 2
	}
	if first >= 1 && doc.Tokens[first-1].Is("::") {
		first--
	}
	return ix.scopeSymbol(NameText(doc, first, tok), ScopeOf(doc, node))
}

// scopeSymbol resolves name as a class, enum, typedef or namespace.
// Typedefs are not followed, so a typedef name and the type it aliases
// stay distinct.
func (ix *Index) scopeSymbol(name, scope string) Symbol {
	for _, c := range candidates(name, scope) {
		switch {
		case ix.classes[c] != nil:
			return Symbol{Kind: SymbolClass, QualifiedName: c}
		case ix.enums[c] != nil:
			return Symbol{Kind: SymbolEnum, QualifiedName: c}
		case ix.namespaces[c]:
			return Symbol{Kind: SymbolNamespace, QualifiedName: c}
		}
		if _, ok := ix.typedefs[c]; ok {
			return Symbol{Kind: SymbolTypedef, QualifiedName: c}
		}
	}
	return Symbol{}
}

// Occurrences returns every spelling of the symbol named by identifier
// token tok across the indexed documents, in document and source order.
// It returns nil when the token does not resolve.
func (ix *Index) Occurrences(doc *cppast.Document, tok int) []Occurrence {
	sym := ix.SymbolAt(doc, tok)
	if !sym.Valid() {
		return nil
	}
	name := doc.TokenText(tok)

	switch sym.Kind {
	case SymbolLocal:
		out := make([]Occurrence, 0, len(sym.Local.Uses))
		for _, start := range sym.Local.Uses {
			out = append(out, Occurrence{Doc: doc, Start: start, End: start + len(name)})
		}
		return out
	case SymbolParameter:
		tk := doc.Tokens[tok]
		return []Occurrence{{Doc: doc, Start: tk.Start, End: tk.End}}
	}

	var out []Occurrence
	for _, d := range ix.docs {
		if d == nil || d.Tree == nil {
			continue
		}
		for i, tk := range d.Tokens {
			if tk.Kind != cppast.TokenIdent || tk.Text != name {
				continue
			}
			if ix.SymbolAt(d, i) == sym {
				out = append(out, Occurrence{Doc: d, Start: tk.Start, End: tk.End})
			}
		}
	}
	return out
}
