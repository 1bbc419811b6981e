package semantic

import (
	"slices"

	"github.com/yaklabco/quickfix/pkg/cppast"
)

// Local is a parameter or block-scope variable of a function definition.
type Local struct {
	Name string

	// Decl owns the declarator: a SimpleDecl, ParamDecl or Condition.
	Decl       cppast.NodeID
	Specifier  cppast.NodeID
	Declarator cppast.NodeID

	// Param is set for the parameters of the function itself, not for
	// those of lambdas inside it.
	Param bool

	// Uses holds the start offset of every occurrence of the name that
	// refers to this local, the declaration included, in source order.
	Uses []int

	Type Type
}

// LocalUses returns the locals of the function definition fnDef in
// declaration order, each with the occurrences that refer to it.
func (ix *Index) LocalUses(doc *cppast.Document, fnDef cppast.NodeID) []*Local {
	key := nodeKey{doc, fnDef}
	if locals, ok := ix.locals.Get(key); ok {
		return locals
	}

	fa := cppast.As[*cppast.FunctionDefAttrs](doc.Tree, fnDef)
	if fa == nil {
		return nil
	}

	c := &localCollector{ix: ix, doc: doc}
	c.push()
	if da := cppast.As[*cppast.DeclaratorAttrs](doc.Tree, fa.Declarator); da != nil {
		if pc := cppast.As[*cppast.ParamClauseAttrs](doc.Tree, da.Params); pc != nil {
			for _, p := range pc.Params {
				pa := cppast.As[*cppast.ParamDeclAttrs](doc.Tree, p)
				c.declare(p, pa.Specifier, pa.Declarator, true)
			}
		}
	}
	c.visit(fa.Body)

	ix.locals.Add(key, c.locals)
	return c.locals
}

// LocalAt returns the local of fnDef that the name starting at offset
// refers to, or nil.
func (ix *Index) LocalAt(doc *cppast.Document, fnDef cppast.NodeID, offset int) *Local {
	for _, l := range ix.LocalUses(doc, fnDef) {
		if _, found := slices.BinarySearch(l.Uses, offset); found {
			return l
		}
	}
	return nil
}

type localCollector struct {
	ix     *Index
	doc    *cppast.Document
	scopes []map[string]*Local
	locals []*Local
}

func (c *localCollector) push() {
	c.scopes = append(c.scopes, make(map[string]*Local))
}

func (c *localCollector) pop() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *localCollector) declare(decl, spec, d cppast.NodeID, param bool) {
	da := cppast.As[*cppast.DeclaratorAttrs](c.doc.Tree, d)
	if da == nil || da.NameLast < 0 || da.NameFirst != da.NameLast {
		return
	}
	tk := c.doc.Tokens[da.NameLast]
	if tk.Kind != cppast.TokenIdent {
		return
	}
	l := &Local{
		Name:       tk.Text,
		Decl:       decl,
		Specifier:  spec,
		Declarator: d,
		Param:      param,
		Uses:       []int{tk.Start},
		Type:       c.ix.DeclaredType(c.doc, spec, d),
	}
	c.scopes[len(c.scopes)-1][l.Name] = l
	c.locals = append(c.locals, l)
}

func (c *localCollector) use(tok int) {
	tk := c.doc.Tokens[tok]
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if l := c.scopes[i][tk.Text]; l != nil {
			l.Uses = append(l.Uses, tk.Start)
			return
		}
	}
}

func opensScope(k cppast.NodeKind) bool {
	switch k {
	case cppast.KindCompoundStmt, cppast.KindForStmt, cppast.KindRangeForStmt,
		cppast.KindIfStmt, cppast.KindWhileStmt, cppast.KindSwitchStmt, cppast.KindLambdaExpr:
		return true
	}
	return false
}

func (c *localCollector) visit(id cppast.NodeID) {
	if !id.Valid() {
		return
	}
	t := c.doc.Tree
	switch a := t.Node(id).Attrs.(type) {
	case *cppast.SimpleDeclAttrs:
		for _, d := range a.Declarators {
			c.declare(id, a.Specifier, d, false)
			c.visitDeclarator(d)
		}
		return
	case *cppast.ConditionAttrs:
		c.declare(id, a.Specifier, a.Declarator, false)
		c.visitDeclarator(a.Declarator)
		return
	case *cppast.ParamDeclAttrs:
		c.declare(id, a.Specifier, a.Declarator, false)
		c.visitDeclarator(a.Declarator)
		return
	case *cppast.IdExprAttrs:
		if a.NameFirst == a.NameLast && c.doc.Tokens[a.NameFirst].Kind == cppast.TokenIdent {
			c.use(a.NameFirst)
		}
		return
	case *cppast.MemberAttrs:
		c.visit(a.Base)
		return
	}

	if opensScope(t.Kind(id)) {
		c.push()
		defer c.pop()
	}
	for _, child := range t.Children(id) {
		c.visit(child)
	}
}

// visitDeclarator visits the initializer and bit-field width of a
// declarator. Parameter names of function declarators are not locals.
func (c *localCollector) visitDeclarator(d cppast.NodeID) {
	if !d.Valid() {
		return
	}
	t := c.doc.Tree
	for _, child := range t.Children(d) {
		switch t.Kind(child) {
		case cppast.KindParamClause, cppast.KindDeclarator:
			continue
		}
		c.visit(child)
	}
}
