// Package semantic resolves names and types over a set of parsed C++
// documents.
//
// Resolution is name based. Scopes are namespaces, classes and function
// bodies; a name used inside a scope is looked up in that scope and then
// in each enclosing one, the way unqualified lookup works for the common
// cases. Overloads, templates and argument-dependent lookup are not
// modelled.
//
// Query results are memoised in LRU caches, so an Index can be shared by
// every rule that runs against the same documents.
package semantic

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yaklabco/quickfix/pkg/cppast"
)

// DefaultCacheSize bounds each query cache of an Index.
const DefaultCacheSize = 4096

// Enum is an enumeration type.
type Enum struct {
	Name          string
	QualifiedName string
	Scoped        bool
	Members       []*Enumerator
	Doc           *cppast.Document
	Node          cppast.NodeID
}

// Enumerator is one member of an enum. QualifiedName is the name used to
// refer to it from the global scope: scoped enumerators are qualified by
// their enum, unscoped ones by the enum's enclosing scope.
type Enumerator struct {
	Name          string
	QualifiedName string
	Enum          *Enum
}

// Class is a class, struct or union with a body.
type Class struct {
	Name          string
	QualifiedName string
	Doc           *cppast.Document
	Node          cppast.NodeID
	Fields        map[string]*Variable
	Methods       map[string][]*Function
}

// Function is a function declaration or definition.
type Function struct {
	Name          string
	QualifiedName string
	Return        Type
	Params        []Type
	Const         bool
	Definition    bool

	// Class is the class the function is a member of, nil for free
	// functions.
	Class *Class

	// Scope is the qualified scope the function was declared in.
	Scope string

	Doc *cppast.Document
	// Node is the FunctionDef or SimpleDecl node.
	Node       cppast.NodeID
	Declarator cppast.NodeID
}

// Variable is a namespace-scope variable or a class field.
type Variable struct {
	Name          string
	QualifiedName string
	Type          Type
	Doc           *cppast.Document
	Declarator    cppast.NodeID
}

type nodeKey struct {
	doc *cppast.Document
	id  cppast.NodeID
}

type typeResult struct {
	typ Type
	ok  bool
}

// Index holds the declarations of a set of documents. It is safe for
// concurrent use once built.
type Index struct {
	docs []*cppast.Document

	enums       map[string]*Enum
	enumerators map[string]*Enumerator
	classes     map[string]*Class
	functions   map[string][]*Function
	variables   map[string]*Variable
	typedefs    map[string]Type
	namespaces  map[string]bool

	enumByNode     map[nodeKey]*Enum
	classByNode    map[nodeKey]*Class
	functionByNode map[nodeKey]*Function

	locals *lru.Cache[nodeKey, []*Local]
	types  *lru.Cache[nodeKey, typeResult]
}

// NewIndex collects the declarations of docs.
func NewIndex(docs ...*cppast.Document) *Index {
	ix := &Index{
		docs:           docs,
		enums:          make(map[string]*Enum),
		enumerators:    make(map[string]*Enumerator),
		classes:        make(map[string]*Class),
		functions:      make(map[string][]*Function),
		variables:      make(map[string]*Variable),
		typedefs:       make(map[string]Type),
		namespaces:     make(map[string]bool),
		enumByNode:     make(map[nodeKey]*Enum),
		classByNode:    make(map[nodeKey]*Class),
		functionByNode: make(map[nodeKey]*Function),
		locals:         newCache[[]*Local](),
		types:          newCache[typeResult](),
	}
	for _, doc := range docs {
		if doc != nil && doc.Tree != nil {
			ix.collect(doc, doc.Tree.Root(), "", nil)
		}
	}
	ix.linkMembers()
	return ix
}

func newCache[V any]() *lru.Cache[nodeKey, V] {
	c, err := lru.New[nodeKey, V](DefaultCacheSize)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return c
}

// Documents returns the indexed documents in the order given to NewIndex.
func (ix *Index) Documents() []*cppast.Document {
	return ix.docs
}

func (ix *Index) collect(doc *cppast.Document, id cppast.NodeID, scope string, cls *Class) {
	t := doc.Tree
	switch a := t.Node(id).Attrs.(type) {
	case nil:
		if t.Kind(id) == cppast.KindTranslationUnit {
			for _, child := range t.Children(id) {
				ix.collect(doc, child, scope, nil)
			}
		}

	case *cppast.NamespaceAttrs:
		inner := scope
		if a.NameToken >= 0 {
			inner = qualify(scope, doc.TokenText(a.NameToken))
			ix.namespaces[inner] = true
		}
		for _, d := range a.Decls {
			ix.collect(doc, d, inner, nil)
		}

	case *cppast.TemplateAttrs:
		ix.collect(doc, a.Decl, scope, cls)

	case *cppast.SimpleDeclAttrs:
		ix.collectSpecifier(doc, a.Specifier, scope, cls)
		typedef := doc.Tokens[t.Node(id).FirstToken].Is("typedef")
		for _, d := range a.Declarators {
			ix.collectDeclarator(doc, id, a.Specifier, d, scope, cls, typedef)
		}

	case *cppast.FunctionDefAttrs:
		ix.addFunction(doc, id, a.Specifier, a.Declarator, scope, cls, true)
		// Types declared inside a body are visible under the function's
		// enclosing scope.
		t.Walk(a.Body, func(n cppast.NodeID) bool {
			if t.Kind(n) == cppast.KindDeclSpecifier {
				ix.collectSpecifier(doc, n, scope, nil)
				return false
			}
			return true
		})
	}
}

func (ix *Index) collectSpecifier(doc *cppast.Document, spec cppast.NodeID, scope string, cls *Class) {
	sa := cppast.As[*cppast.DeclSpecifierAttrs](doc.Tree, spec)
	if sa == nil || !sa.Nested.Valid() {
		return
	}
	switch doc.Tree.Kind(sa.Nested) {
	case cppast.KindClassSpecifier:
		ix.addClass(doc, sa.Nested, scope, cls)
	case cppast.KindEnumSpecifier:
		ix.addEnum(doc, sa.Nested, scope)
	}
}

func (ix *Index) addClass(doc *cppast.Document, id cppast.NodeID, scope string, outer *Class) {
	ca := cppast.As[*cppast.ClassAttrs](doc.Tree, id)
	if ca == nil || ca.LBrace < 0 {
		return
	}
	if ca.NameToken < 0 {
		// Members of an anonymous class land in the enclosing one.
		for _, m := range ca.Members {
			ix.collect(doc, m, scope, outer)
		}
		return
	}

	name := doc.TokenText(ca.NameToken)
	qname := qualify(scope, name)
	c := ix.classes[qname]
	if c == nil {
		c = &Class{
			Name:          name,
			QualifiedName: qname,
			Fields:        make(map[string]*Variable),
			Methods:       make(map[string][]*Function),
		}
		ix.classes[qname] = c
	}
	c.Doc, c.Node = doc, id
	ix.classByNode[nodeKey{doc, id}] = c

	for _, m := range ca.Members {
		ix.collect(doc, m, qname, c)
	}
}

func (ix *Index) addEnum(doc *cppast.Document, id cppast.NodeID, scope string) {
	ea := cppast.As[*cppast.EnumAttrs](doc.Tree, id)
	if ea == nil || ea.LBrace < 0 {
		return
	}

	e := &Enum{Scoped: ea.Scoped, Doc: doc, Node: id}
	if ea.NameToken >= 0 {
		e.Name = doc.TokenText(ea.NameToken)
		e.QualifiedName = qualify(scope, e.Name)
		ix.enums[e.QualifiedName] = e
	}
	ix.enumByNode[nodeKey{doc, id}] = e

	memberScope := scope
	if e.Scoped {
		memberScope = e.QualifiedName
	}
	for _, en := range ea.Enumerators {
		name := doc.TokenText(cppast.As[*cppast.EnumeratorAttrs](doc.Tree, en).NameToken)
		m := &Enumerator{Name: name, QualifiedName: qualify(memberScope, name), Enum: e}
		e.Members = append(e.Members, m)
		ix.enumerators[m.QualifiedName] = m
		if !e.Scoped && e.Name != "" {
			ix.enumerators[qualify(e.QualifiedName, name)] = m
		}
	}
}

func (ix *Index) collectDeclarator(doc *cppast.Document, decl, spec, d cppast.NodeID, scope string, cls *Class, typedef bool) {
	da := cppast.As[*cppast.DeclaratorAttrs](doc.Tree, d)
	if da == nil || da.NameLast < 0 {
		return
	}
	parts := NameParts(doc, da.NameFirst, da.NameLast)
	if len(parts) == 0 {
		return
	}
	name := parts[len(parts)-1]
	qname := qualify(scope, strings.Join(parts, "::"))

	switch {
	case typedef:
		ix.typedefs[qname] = ix.DeclaredType(doc, spec, d)
	case da.Params.Valid():
		ix.addFunction(doc, decl, spec, d, scope, cls, false)
	case cls != nil && len(parts) == 1:
		cls.Fields[name] = &Variable{
			Name: name, QualifiedName: qname,
			Type: ix.DeclaredType(doc, spec, d), Doc: doc, Declarator: d,
		}
	default:
		ix.variables[qname] = &Variable{
			Name: name, QualifiedName: qname,
			Type: ix.DeclaredType(doc, spec, d), Doc: doc, Declarator: d,
		}
	}
}

func (ix *Index) addFunction(doc *cppast.Document, node, spec, d cppast.NodeID, scope string, cls *Class, def bool) {
	da := cppast.As[*cppast.DeclaratorAttrs](doc.Tree, d)
	if da == nil || da.NameLast < 0 {
		return
	}
	parts := NameParts(doc, da.NameFirst, da.NameLast)
	if len(parts) == 0 {
		return
	}

	fn := &Function{
		Name:          parts[len(parts)-1],
		QualifiedName: qualify(scope, strings.Join(parts, "::")),
		Return:        ix.DeclaredType(doc, spec, d),
		Const:         da.ConstToken >= 0,
		Definition:    def,
		Class:         cls,
		Scope:         scope,
		Doc:           doc,
		Node:          node,
		Declarator:    d,
	}
	if pc := cppast.As[*cppast.ParamClauseAttrs](doc.Tree, da.Params); pc != nil {
		for _, p := range pc.Params {
			pa := cppast.As[*cppast.ParamDeclAttrs](doc.Tree, p)
			fn.Params = append(fn.Params, ix.DeclaredType(doc, pa.Specifier, pa.Declarator))
		}
	}

	ix.functionByNode[nodeKey{doc, node}] = fn
	if cls != nil && len(parts) == 1 {
		cls.Methods[fn.Name] = append(cls.Methods[fn.Name], fn)
	}
	ix.functions[fn.QualifiedName] = append(ix.functions[fn.QualifiedName], fn)
}

// linkMembers attaches out-of-line member definitions to their class.
// It runs after every document is collected because the class usually
// lives in another one.
func (ix *Index) linkMembers() {
	var pending []*Function
	for _, fns := range ix.functions {
		for _, fn := range fns {
			if fn.Class == nil {
				pending = append(pending, fn)
			}
		}
	}
	for _, fn := range pending {
		da := cppast.As[*cppast.DeclaratorAttrs](fn.Doc.Tree, fn.Declarator)
		parts := NameParts(fn.Doc, da.NameFirst, da.NameLast)
		if len(parts) < 2 {
			continue
		}
		cls := ix.lookupClass(strings.Join(parts[:len(parts)-1], "::"), fn.Scope)
		if cls == nil {
			continue
		}
		old := fn.QualifiedName
		fn.Class = cls
		fn.QualifiedName = qualify(cls.QualifiedName, fn.Name)
		cls.Methods[fn.Name] = append(cls.Methods[fn.Name], fn)
		if old != fn.QualifiedName {
			ix.functions[old] = removeFunction(ix.functions[old], fn)
			ix.functions[fn.QualifiedName] = append(ix.functions[fn.QualifiedName], fn)
		}
	}
}

func removeFunction(fns []*Function, fn *Function) []*Function {
	out := fns[:0]
	for _, f := range fns {
		if f != fn {
			out = append(out, f)
		}
	}
	return out
}

// FunctionOf returns the function declared or defined by node, which is a
// FunctionDef or SimpleDecl of doc.
func (ix *Index) FunctionOf(doc *cppast.Document, node cppast.NodeID) *Function {
	return ix.functionByNode[nodeKey{doc, node}]
}

// ClassOf returns the class defined by a ClassSpecifier node.
func (ix *Index) ClassOf(doc *cppast.Document, node cppast.NodeID) *Class {
	return ix.classByNode[nodeKey{doc, node}]
}

// Class returns the class with the given fully qualified name.
func (ix *Index) Class(qualifiedName string) *Class {
	return ix.classes[strings.TrimPrefix(qualifiedName, "::")]
}

// Enum returns the enum with the given fully qualified name.
func (ix *Index) Enum(qualifiedName string) *Enum {
	return ix.enums[strings.TrimPrefix(qualifiedName, "::")]
}

// Declarations returns the non-defining declarations matching def: same
// qualified name and parameter types. Documents are searched in index
// order.
func (ix *Index) Declarations(def *Function) []*Function {
	var out []*Function
	for _, fn := range ix.functions[def.QualifiedName] {
		if fn.Definition || fn == def || !sameParams(fn.Params, def.Params) {
			continue
		}
		out = append(out, fn)
	}
	return out
}

// DefinitionOf returns the definition matching the declaration decl, or
// nil when no indexed document defines it.
func (ix *Index) DefinitionOf(decl *Function) *Function {
	for _, fn := range ix.functions[decl.QualifiedName] {
		if fn.Definition && fn != decl && sameParams(fn.Params, decl.Params) {
			return fn
		}
	}
	return nil
}

func sameParams(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Spelling != b[i].Spelling {
			return false
		}
	}
	return true
}

// EnclosingClass returns the class whose scope contains node: the class
// being defined around it, or the class of the member function whose body
// contains it.
func (ix *Index) EnclosingClass(doc *cppast.Document, node cppast.NodeID) *Class {
	t := doc.Tree
	for id := t.Parent(node); id.Valid(); id = t.Parent(id) {
		switch t.Kind(id) {
		case cppast.KindClassSpecifier:
			if c := ix.classByNode[nodeKey{doc, id}]; c != nil {
				return c
			}
		case cppast.KindFunctionDef:
			if fn := ix.functionByNode[nodeKey{doc, id}]; fn != nil && fn.Class != nil {
				return fn.Class
			}
		}
	}
	return nil
}

// ScopeOf returns the qualified scope node appears in. The body of an
// out-of-line member function is inside its class's scope.
func ScopeOf(doc *cppast.Document, node cppast.NodeID) string {
	t := doc.Tree
	var parts []string
	for id := t.Parent(node); id.Valid(); id = t.Parent(id) {
		switch a := t.Node(id).Attrs.(type) {
		case *cppast.NamespaceAttrs:
			if a.NameToken >= 0 {
				parts = append(parts, doc.TokenText(a.NameToken))
			}
		case *cppast.ClassAttrs:
			if a.NameToken >= 0 {
				parts = append(parts, doc.TokenText(a.NameToken))
			}
		case *cppast.FunctionDefAttrs:
			da := cppast.As[*cppast.DeclaratorAttrs](t, a.Declarator)
			if da == nil || da.NameLast < 0 {
				continue
			}
			names := NameParts(doc, da.NameFirst, da.NameLast)
			for i := len(names) - 2; i >= 0; i-- {
				parts = append(parts, names[i])
			}
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "::")
}

// NameParts splits the qualified name spanning tokens first..last into its
// components, dropping template arguments and a leading global qualifier.
func NameParts(doc *cppast.Document, first, last int) []string {
	var parts []string
	depth := 0
	cur := ""
	for i := first; i <= last; i++ {
		tk := doc.Tokens[i]
		switch {
		case tk.Is("<"):
			depth++
		case tk.Is(">"):
			depth--
		case tk.Is(">>"):
			depth -= 2
		case depth > 0:
		case tk.Is("::"):
			if cur != "" {
				parts = append(parts, cur)
			}
			cur = ""
		default:
			cur += tk.Text
		}
	}
	if cur != "" {
		parts = append(parts, cur)
	}
	return parts
}

func qualify(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "::" + name
}

// candidates lists the names name could refer to from scope, innermost
// first.
func candidates(name, scope string) []string {
	if rest, ok := strings.CutPrefix(name, "::"); ok {
		return []string{rest}
	}
	out := []string{qualify(scope, name)}
	for scope != "" {
		if i := strings.LastIndex(scope, "::"); i >= 0 {
			scope = scope[:i]
		} else {
			scope = ""
		}
		out = append(out, qualify(scope, name))
	}
	return out
}

func (ix *Index) lookupClass(name, scope string) *Class {
	return lookupType(ix, name, scope, ix.classes, func(t Type) *Class {
		return ix.lookupClass(t.Name, t.Scope)
	})
}

func (ix *Index) lookupEnum(name, scope string) *Enum {
	return lookupType(ix, name, scope, ix.enums, func(t Type) *Enum {
		if t.enum != nil {
			return t.enum
		}
		return ix.lookupEnum(t.Name, t.Scope)
	})
}

// lookupType resolves name in table, following typedefs. A typedef that
// names itself is not followed.
func lookupType[T any](ix *Index, name, scope string, table map[string]*T, viaTypedef func(Type) *T) *T {
	for _, c := range candidates(name, scope) {
		if v := table[c]; v != nil {
			return v
		}
		if td, ok := ix.typedefs[c]; ok && td.Name != name {
			return viaTypedef(td)
		}
	}
	return nil
}

func (ix *Index) lookupFunctions(name, scope string) []*Function {
	for _, c := range candidates(name, scope) {
		if fns := ix.functions[c]; len(fns) > 0 {
			return fns
		}
	}
	return nil
}

func (ix *Index) lookupVariable(name, scope string) *Variable {
	for _, c := range candidates(name, scope) {
		if v := ix.variables[c]; v != nil {
			return v
		}
		if i := strings.LastIndex(c, "::"); i >= 0 {
			if cls := ix.classes[c[:i]]; cls != nil {
				if f := cls.Fields[c[i+2:]]; f != nil {
					return f
				}
			}
		}
	}
	return nil
}

func (ix *Index) lookupEnumerator(name, scope string) *Enumerator {
	for _, c := range candidates(name, scope) {
		if e := ix.enumerators[c]; e != nil {
			return e
		}
	}
	return nil
}
