package semantic

import (
	"strings"

	"github.com/yaklabco/quickfix/pkg/cppast"
)

// Type is the static type of a declaration or expression, as written.
type Type struct {
	// Spelling is the type without storage class specifiers, e.g.
	// "const char *".
	Spelling string

	// Name is the named type without cv-qualifiers or pointer operators,
	// e.g. "char" or "ns::Color".
	Name string

	// Pointer counts pointer operators.
	Pointer int

	// Scope is the qualified scope the type was written in; Name is
	// resolved from there.
	Scope string

	// enum is set for types that are unnamed enums.
	enum *Enum
}

// Valid reports whether the type has a spelling.
func (t Type) Valid() bool {
	return t.Spelling != ""
}

// Deref returns the type t points to.
func (t Type) Deref() Type {
	if t.Pointer == 0 {
		return t
	}
	i := strings.LastIndexByte(t.Spelling, '*')
	t.Spelling = strings.TrimSpace(t.Spelling[:i] + t.Spelling[i+1:])
	t.Pointer--
	return t
}

// AddressOf returns a pointer to t.
func (t Type) AddressOf() Type {
	if t.Pointer == 0 {
		t.Spelling += " *"
	} else {
		t.Spelling += "*"
	}
	t.Pointer++
	return t
}

var (
	storageKeywords = map[string]bool{
		"static": true, "extern": true, "inline": true, "constexpr": true, "consteval": true,
		"mutable": true, "register": true, "thread_local": true, "virtual": true,
		"explicit": true, "friend": true, "typename": true, "typedef": true,
	}
	nameSkipKeywords = map[string]bool{
		"const": true, "volatile": true, "class": true, "struct": true, "union": true, "enum": true,
	}
)

func isWord(tk cppast.Token) bool {
	switch tk.Kind {
	case cppast.TokenIdent, cppast.TokenKeyword, cppast.TokenNumber:
		return true
	}
	return false
}

// spell joins token texts, separating words with a space.
func spell(toks []cppast.Token) string {
	var sb strings.Builder
	for i, tk := range toks {
		if i > 0 && (isWord(toks[i-1]) && isWord(tk) || toks[i-1].Is(",")) {
			sb.WriteByte(' ')
		}
		sb.WriteString(tk.Text)
	}
	return sb.String()
}

// DeclaredType returns the type of the entity declared by declarator d
// with specifier spec. For functions this is the return type.
func (ix *Index) DeclaredType(doc *cppast.Document, spec, d cppast.NodeID) Type {
	typ := Type{Scope: ScopeOf(doc, firstValid(spec, d))}
	if !spec.Valid() {
		return typ
	}

	t := doc.Tree
	nested := cppast.NoNode
	if sa := cppast.As[*cppast.DeclSpecifierAttrs](t, spec); sa != nil {
		nested = sa.Nested
	}

	var all, named []cppast.Token
	n := t.Node(spec)
	for i := n.FirstToken; i <= n.LastToken; i++ {
		if nested.Valid() && i == t.Node(nested).FirstToken {
			i = t.Node(nested).LastToken
			name := ix.nestedName(doc, nested)
			if name == "" {
				typ.enum = ix.enumByNode[nodeKey{doc, nested}]
				name = "enum"
			}
			tk := cppast.Token{Kind: cppast.TokenIdent, Text: name}
			all = append(all, tk)
			named = append(named, tk)
			continue
		}
		tk := doc.Tokens[i]
		if tk.Kind == cppast.TokenKeyword && storageKeywords[tk.Text] {
			continue
		}
		all = append(all, tk)
		if tk.Kind != cppast.TokenKeyword || !nameSkipKeywords[tk.Text] {
			named = append(named, tk)
		}
	}
	typ.Spelling = spell(all)
	typ.Name = strings.TrimPrefix(spell(named), "::")

	if ops := pointerOps(doc, d); ops != "" {
		typ.Spelling += " " + ops
		typ.Pointer = strings.Count(ops, "*")
	}
	return typ
}

func firstValid(ids ...cppast.NodeID) cppast.NodeID {
	for _, id := range ids {
		if id.Valid() {
			return id
		}
	}
	return cppast.NoNode
}

func (ix *Index) nestedName(doc *cppast.Document, nested cppast.NodeID) string {
	switch a := doc.Tree.Node(nested).Attrs.(type) {
	case *cppast.ClassAttrs:
		if a.NameToken >= 0 {
			return doc.TokenText(a.NameToken)
		}
	case *cppast.EnumAttrs:
		if a.NameToken >= 0 {
			return doc.TokenText(a.NameToken)
		}
	}
	return ""
}

// pointerOps returns the pointer and reference operators written before
// the declarator's name.
func pointerOps(doc *cppast.Document, d cppast.NodeID) string {
	if !d.Valid() {
		return ""
	}
	n := doc.Tree.Node(d)
	end := n.LastToken
	if da := cppast.As[*cppast.DeclaratorAttrs](doc.Tree, d); da != nil && da.NameFirst >= 0 {
		end = da.NameFirst - 1
	}
	var sb strings.Builder
	for i := n.FirstToken; i <= end; i++ {
		tk := doc.Tokens[i]
		switch {
		case tk.Is("*") || tk.Is("&") || tk.Is("&&"):
			sb.WriteString(tk.Text)
		case tk.Is("const") && sb.Len() > 0:
			sb.WriteString(" const ")
		case tk.Is("("), tk.Is("["):
			return strings.TrimSpace(sb.String())
		}
	}
	return strings.TrimSpace(sb.String())
}

// typeFromTokens builds a type from an abstract type-id such as the
// target of a cast.
func typeFromTokens(doc *cppast.Document, first, last int, scope string) Type {
	typ := Type{Scope: scope}
	var base, named []cppast.Token
	var ops strings.Builder
	for i := first; i <= last && i >= 0; i++ {
		tk := doc.Tokens[i]
		switch {
		case tk.Is("*"):
			ops.WriteString("*")
			typ.Pointer++
		case tk.Is("&") || tk.Is("&&"):
			ops.WriteString(tk.Text)
		default:
			base = append(base, tk)
			if tk.Kind != cppast.TokenKeyword || !nameSkipKeywords[tk.Text] {
				named = append(named, tk)
			}
		}
	}
	typ.Spelling = spell(base)
	typ.Name = strings.TrimPrefix(spell(named), "::")
	if ops.Len() > 0 {
		typ.Spelling += " " + ops.String()
	}
	return typ
}

func builtin(spelling string) Type {
	typ := Type{Spelling: spelling}
	typ.Name = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(spelling, "const "), "*"))
	typ.Pointer = strings.Count(spelling, "*")
	return typ
}

// LiteralType returns the type of a literal node.
func LiteralType(doc *cppast.Document, lit cppast.NodeID) Type {
	la := cppast.As[*cppast.LiteralAttrs](doc.Tree, lit)
	if la == nil {
		return Type{}
	}
	tk := doc.Tokens[doc.Tree.Node(lit).FirstToken]
	switch la.Kind {
	case cppast.LiteralBool:
		return builtin("bool")
	case cppast.LiteralNullptr:
		return builtin("std::nullptr_t")
	case cppast.LiteralChar:
		return builtin(charType(tk.Text))
	case cppast.LiteralString:
		return builtin("const " + charType(tk.Text) + " *")
	}
	return builtin(numericType(tk))
}

func charType(text string) string {
	switch {
	case strings.HasPrefix(text, "u8"):
		return "char"
	case strings.HasPrefix(text, "L"):
		return "wchar_t"
	case strings.HasPrefix(text, "u"):
		return "char16_t"
	case strings.HasPrefix(text, "U"):
		return "char32_t"
	}
	return "char"
}

func numericType(tk cppast.Token) string {
	text := strings.ToLower(tk.Text)
	if tk.IsFloat {
		switch {
		case strings.HasSuffix(text, "f") && !tk.IsHex:
			return "float"
		case strings.HasSuffix(text, "l"):
			return "long double"
		}
		return "double"
	}

	suffix := text[len(strings.TrimRight(text, "ulz")):]
	name := "int"
	switch strings.Count(suffix, "l") {
	case 1:
		name = "long"
	case 2:
		name = "long long"
	}
	if strings.Contains(suffix, "u") {
		name = "unsigned " + name
	}
	return name
}
