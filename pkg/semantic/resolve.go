package semantic

import (
	"strings"

	"github.com/yaklabco/quickfix/pkg/cppast"
)

// maxResolveDepth bounds recursion through auto initializers, typedefs
// and nested expressions.
const maxResolveDepth = 16

var boolOperators = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
	"&&": true, "||": true,
}

// TypeOf returns the static type of expression node expr.
func (ix *Index) TypeOf(doc *cppast.Document, expr cppast.NodeID) (Type, bool) {
	if !expr.Valid() {
		return Type{}, false
	}
	key := nodeKey{doc, expr}
	if r, ok := ix.types.Get(key); ok {
		return r.typ, r.ok
	}
	typ, ok := ix.typeOf(doc, expr, 0)
	ix.types.Add(key, typeResult{typ, ok})
	return typ, ok
}

func (ix *Index) typeOf(doc *cppast.Document, id cppast.NodeID, depth int) (Type, bool) {
	if !id.Valid() || depth > maxResolveDepth {
		return Type{}, false
	}
	t := doc.Tree
	switch a := t.Node(id).Attrs.(type) {
	case *cppast.IdExprAttrs:
		return ix.nameType(doc, id, a, depth)
	case *cppast.LiteralAttrs:
		typ := LiteralType(doc, id)
		return typ, typ.Valid()
	case *cppast.ParenAttrs:
		return ix.typeOf(doc, a.Inner, depth+1)
	case *cppast.CastAttrs:
		typ := typeFromTokens(doc, a.TypeFirst, a.TypeLast, ScopeOf(doc, id))
		return typ, typ.Valid()
	case *cppast.MemberAttrs:
		cls := ix.classOfExpr(doc, a.Base, depth)
		if cls == nil {
			return Type{}, false
		}
		if f := cls.Fields[doc.TokenText(a.NameToken)]; f != nil {
			return f.Type, true
		}
	case *cppast.CallAttrs:
		return ix.callType(doc, id, a, depth)
	case *cppast.UnaryAttrs:
		op := doc.TokenText(a.OpToken)
		switch op {
		case "!":
			return builtin("bool"), true
		case "sizeof", "alignof":
			return builtin("unsigned long"), true
		}
		typ, ok := ix.typeOf(doc, a.Operand, depth+1)
		switch {
		case !ok:
			return typ, ok
		case op == "*":
			return typ.Deref(), true
		case op == "&":
			return typ.AddressOf(), true
		}
		return typ, true
	case *cppast.PostfixAttrs:
		return ix.typeOf(doc, a.Operand, depth+1)
	case *cppast.BinaryAttrs:
		if boolOperators[doc.TokenText(a.OpToken)] {
			return builtin("bool"), true
		}
		if typ, ok := ix.typeOf(doc, a.Left, depth+1); ok {
			return typ, true
		}
		return ix.typeOf(doc, a.Right, depth+1)
	case *cppast.ConditionalAttrs:
		return ix.typeOf(doc, a.Then, depth+1)
	case *cppast.SubscriptAttrs:
		typ, ok := ix.typeOf(doc, a.Base, depth+1)
		if !ok || typ.Pointer == 0 {
			return Type{}, false
		}
		return typ.Deref(), true
	}
	return Type{}, false
}

// NameText returns the qualified name spanning tokens first..last without
// whitespace.
func NameText(doc *cppast.Document, first, last int) string {
	var sb strings.Builder
	for i := first; i <= last; i++ {
		sb.WriteString(doc.Tokens[i].Text)
	}
	return sb.String()
}

func (ix *Index) nameType(doc *cppast.Document, id cppast.NodeID, a *cppast.IdExprAttrs, depth int) (Type, bool) {
	name := NameText(doc, a.NameFirst, a.NameLast)
	if name == "this" {
		cls := ix.EnclosingClass(doc, id)
		if cls == nil {
			return Type{}, false
		}
		return Type{Spelling: cls.Name + " *", Name: cls.QualifiedName, Pointer: 1}, true
	}

	if a.NameFirst == a.NameLast {
		if fn := doc.Tree.Ancestor(id, cppast.KindFunctionDef); fn.Valid() {
			if l := ix.LocalAt(doc, fn, doc.Tokens[a.NameFirst].Start); l != nil {
				return ix.localType(doc, l, depth)
			}
		}
		if cls := ix.EnclosingClass(doc, id); cls != nil {
			if f := cls.Fields[name]; f != nil {
				return f.Type, true
			}
		}
	}

	scope := ScopeOf(doc, id)
	if v := ix.lookupVariable(name, scope); v != nil {
		return v.Type, true
	}
	if e := ix.lookupEnumerator(name, scope); e != nil {
		return e.Enum.asType(), true
	}
	return Type{}, false
}

// localType resolves auto from the initializer.
func (ix *Index) localType(doc *cppast.Document, l *Local, depth int) (Type, bool) {
	if l.Type.Name != "auto" {
		return l.Type, l.Type.Valid()
	}
	da := cppast.As[*cppast.DeclaratorAttrs](doc.Tree, l.Declarator)
	if da == nil || !da.Initializer.Valid() {
		return Type{}, false
	}
	init := da.Initializer
	if ba := cppast.As[*cppast.BracedInitAttrs](doc.Tree, init); ba != nil {
		if len(ba.Elems) != 1 {
			return Type{}, false
		}
		init = ba.Elems[0]
	}
	typ, ok := ix.typeOf(doc, init, depth+1)
	if ok && l.Type.Pointer > typ.Pointer {
		typ = typ.AddressOf()
	}
	return typ, ok
}

func (ix *Index) classOfExpr(doc *cppast.Document, expr cppast.NodeID, depth int) *Class {
	typ, ok := ix.typeOf(doc, expr, depth+1)
	if !ok || typ.Pointer > 1 {
		return nil
	}
	return ix.lookupClass(typ.Name, typ.Scope)
}

func (ix *Index) callType(doc *cppast.Document, id cppast.NodeID, a *cppast.CallAttrs, depth int) (Type, bool) {
	t := doc.Tree
	switch ca := t.Node(a.Callee).Attrs.(type) {
	case *cppast.IdExprAttrs:
		name := NameText(doc, ca.NameFirst, ca.NameLast)
		if ca.NameFirst == ca.NameLast {
			if cls := ix.EnclosingClass(doc, id); cls != nil {
				if ms := cls.Methods[name]; len(ms) > 0 {
					return ms[0].Return, ms[0].Return.Valid()
				}
			}
		}
		scope := ScopeOf(doc, id)
		if fns := ix.lookupFunctions(name, scope); len(fns) > 0 {
			return fns[0].Return, fns[0].Return.Valid()
		}
		if cls := ix.lookupClass(name, scope); cls != nil {
			return Type{Spelling: name, Name: cls.QualifiedName}, true
		}
		if e := ix.lookupEnum(name, scope); e != nil {
			return e.asType(), true
		}
	case *cppast.MemberAttrs:
		cls := ix.classOfExpr(doc, ca.Base, depth)
		if cls == nil {
			return Type{}, false
		}
		if ms := cls.Methods[doc.TokenText(ca.NameToken)]; len(ms) > 0 {
			return ms[0].Return, ms[0].Return.Valid()
		}
	}
	return Type{}, false
}

func (e *Enum) asType() Type {
	if e.Name == "" {
		return Type{Spelling: "enum", Name: "enum", enum: e}
	}
	return Type{Spelling: e.QualifiedName, Name: e.QualifiedName, enum: e}
}

// EnumOf resolves the type of expr to an enum.
func (ix *Index) EnumOf(doc *cppast.Document, expr cppast.NodeID) (*Enum, bool) {
	typ, ok := ix.TypeOf(doc, expr)
	if !ok || typ.Pointer > 0 {
		return nil, false
	}
	if typ.enum != nil {
		return typ.enum, true
	}
	e := ix.lookupEnum(typ.Name, typ.Scope)
	return e, e != nil
}

// EnumeratorOf resolves a name expression, such as a case label, to an
// enumerator.
func (ix *Index) EnumeratorOf(doc *cppast.Document, expr cppast.NodeID) (*Enumerator, bool) {
	a := cppast.As[*cppast.IdExprAttrs](doc.Tree, expr)
	if a == nil {
		return nil, false
	}
	e := ix.lookupEnumerator(NameText(doc, a.NameFirst, a.NameLast), ScopeOf(doc, expr))
	return e, e != nil
}
