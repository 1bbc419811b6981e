package cppast

import (
	"context"
	"fmt"
)

type scopeKind uint8

const (
	scopeNamespace scopeKind = iota
	scopeClass
	scopeBlock
	scopeParam
)

// bailout unwinds the parser to the nearest recovery point.
type bailout struct {
	err *SyntaxError
}

type parser struct {
	ctx   context.Context
	toks  []Token
	pos   int
	tree  *Tree
	diags []*SyntaxError

	// typeNames holds every class, enum, typedef, alias and template
	// parameter name seen so far; it drives declaration/expression
	// disambiguation.
	typeNames map[string]bool

	// className is the innermost class being parsed, for constructors.
	className string
}

func newParser(ctx context.Context, toks []Token) *parser {
	tree := &Tree{nodes: make([]Node, 1, len(toks)/2+1)}
	return &parser{ctx: ctx, toks: toks, tree: tree, typeNames: make(map[string]bool)}
}

func (p *parser) tok() Token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) atEOF() bool {
	return p.toks[p.pos].Kind == TokenEOF
}

func (p *parser) is(text string) bool {
	return p.toks[p.pos].Is(text)
}

func (p *parser) isAt(n int, text string) bool {
	return p.peekAt(n).Is(text)
}

func (p *parser) next() int {
	i := p.pos
	if !p.atEOF() {
		p.pos++
	}
	return i
}

func (p *parser) accept(text string) int {
	if p.is(text) {
		return p.next()
	}
	return -1
}

func (p *parser) expect(text string) int {
	if !p.is(text) {
		p.failf("expected %q, found %q", text, p.tok().Text)
	}
	return p.next()
}

func (p *parser) last() int {
	return p.pos - 1
}

func (p *parser) failf(format string, args ...any) {
	panic(bailout{&SyntaxError{Offset: p.tok().Start, Message: fmt.Sprintf(format, args...)}})
}

// skipBalanced consumes an opening bracket and everything up to and
// including its matching closer.
func (p *parser) skipBalanced(open, closer string) {
	p.expect(open)
	depth := 1
	for depth > 0 {
		if p.atEOF() {
			p.failf("unbalanced %q", open)
		}
		switch {
		case p.is(open):
			depth++
		case p.is(closer):
			depth--
		}
		p.next()
	}
}

// skipAngles consumes a template argument list. Nested parentheses and
// brackets are skipped whole so that comparison operators inside them do
// not end the list.
func (p *parser) skipAngles() {
	p.expect("<")
	depth := 1
	for depth > 0 {
		switch {
		case p.atEOF() || p.is(";") || p.is("{") || p.is("}"):
			p.failf("unterminated template argument list")
		case p.is("("):
			p.skipBalanced("(", ")")
			continue
		case p.is("["):
			p.skipBalanced("[", "]")
			continue
		case p.is("<"):
			depth++
		case p.is(">"):
			depth--
		case p.is(">>"):
			depth -= 2
		}
		p.next()
	}
}

// anglesEnd returns the token index just past a template argument list
// starting at i, or -1 if the tokens do not form one.
func (p *parser) anglesEnd(i int) int {
	if !p.toks[i].Is("<") {
		return -1
	}
	depth := 0
	for ; i < len(p.toks); i++ {
		t := p.toks[i]
		switch {
		case t.Kind == TokenEOF || t.Is(";") || t.Is("{") || t.Is("}") || t.Is("&&") || t.Is("||"):
			return -1
		case t.Is("<"):
			depth++
		case t.Is(">"):
			depth--
		case t.Is(">>"):
			depth -= 2
		}
		if depth <= 0 {
			if depth < 0 {
				return -1
			}
			return i + 1
		}
	}
	return -1
}

// recoverTo runs fn and converts a bailout into a diagnostic plus an
// Unknown node that swallows tokens up to the next statement boundary.
func (p *parser) recoverTo(fn func() NodeID) (id NodeID) {
	start := p.pos
	mark := len(p.tree.nodes)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		p.diags = append(p.diags, b.err)
		p.tree.nodes = p.tree.nodes[:mark]
		p.pos = start
		p.syncStatement()
		if p.pos == start {
			p.next()
		}
		id = p.tree.add(KindUnknown, start, p.last(), nil)
	}()
	return fn()
}

// syncStatement skips to just after the next top-level semicolon or
// balanced block, stopping before a closing brace of an enclosing block.
func (p *parser) syncStatement() {
	depth := 0
	for !p.atEOF() {
		switch {
		case p.is("{") || p.is("(") || p.is("["):
			depth++
		case p.is("}") || p.is(")") || p.is("]"):
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 && p.is("}") {
				p.next()
				p.accept(";")
				return
			}
		case p.is(";") && depth == 0:
			p.next()
			return
		}
		p.next()
	}
}

func (p *parser) parseTranslationUnit() {
	var decls []NodeID
	for !p.atEOF() {
		if p.ctx.Err() != nil {
			p.diags = append(p.diags, &SyntaxError{Offset: p.tok().Start, Message: p.ctx.Err().Error()})
			break
		}
		if p.is("}") {
			p.diags = append(p.diags, &SyntaxError{Offset: p.tok().Start, Message: "unexpected \"}\""})
			p.next()
			continue
		}
		decls = append(decls, p.recoverTo(func() NodeID { return p.parseDeclaration(scopeNamespace) }))
	}
	p.tree.setRoot(0, len(p.toks)-1, decls)
}

// parseDeclarationList parses declarations up to a closing brace, which is
// left for the caller.
func (p *parser) parseDeclarationList(scope scopeKind) []NodeID {
	var decls []NodeID
	for !p.is("}") {
		if p.atEOF() {
			p.failf("unexpected end of file")
		}
		decls = append(decls, p.recoverTo(func() NodeID { return p.parseDeclaration(scope) }))
	}
	return decls
}

func (p *parser) parseDeclaration(scope scopeKind) NodeID {
	start := p.pos
	switch {
	case p.is(";"):
		p.next()
		return p.tree.add(KindOpaqueDecl, start, start, nil)

	case p.is("namespace") || (p.is("inline") && p.isAt(1, "namespace")):
		return p.parseNamespace()

	case p.is("extern") && p.peekAt(1).Kind == TokenString && p.isAt(2, "{"):
		p.next()
		p.next()
		lbrace := p.expect("{")
		decls := p.parseDeclarationList(scope)
		rbrace := p.expect("}")
		return p.tree.add(KindNamespace, start, rbrace,
			&NamespaceAttrs{NameToken: -1, LBrace: lbrace, RBrace: rbrace, Decls: decls}, decls...)

	case p.is("template"):
		tmpl := p.next()
		if p.is("<") {
			p.parseTemplateParams()
		}
		decl := p.parseDeclaration(scope)
		return p.tree.add(KindTemplateDecl, start, p.last(), &TemplateAttrs{TemplateToken: tmpl, Decl: decl}, decl)

	case p.is("using"):
		p.next()
		if p.tok().Kind == TokenIdent && p.isAt(1, "=") {
			p.typeNames[p.tok().Text] = true
		}
		return p.skipOpaque(start)

	case p.is("static_assert") || (p.is("friend") && p.isAt(1, "class")):
		return p.skipOpaque(start)

	case scope == scopeClass && (p.is("public") || p.is("private") || p.is("protected")) && p.isAt(1, ":"):
		p.next()
		p.next()
		return p.tree.add(KindOpaqueDecl, start, p.last(), nil)
	}

	return p.parseSimpleDeclaration(scope)
}

func (p *parser) skipOpaque(start int) NodeID {
	for !p.is(";") {
		switch {
		case p.atEOF():
			p.failf("unexpected end of file")
		case p.is("{"):
			p.skipBalanced("{", "}")
		case p.is("("):
			p.skipBalanced("(", ")")
		default:
			p.next()
		}
	}
	semi := p.next()
	return p.tree.add(KindOpaqueDecl, start, semi, nil)
}

func (p *parser) parseNamespace() NodeID {
	start := p.pos
	p.accept("inline")
	p.expect("namespace")
	name := -1
	for p.tok().Kind == TokenIdent || p.is("::") {
		if p.tok().Kind == TokenIdent {
			name = p.pos
		}
		p.next()
	}
	if p.is("=") {
		return p.skipOpaque(start)
	}
	lbrace := p.expect("{")
	decls := p.parseDeclarationList(scopeNamespace)
	rbrace := p.expect("}")
	return p.tree.add(KindNamespace, start, rbrace,
		&NamespaceAttrs{NameToken: name, LBrace: lbrace, RBrace: rbrace, Decls: decls}, decls...)
}

// parseTemplateParams skips a template parameter list and records the
// parameter names as type names.
func (p *parser) parseTemplateParams() {
	p.expect("<")
	depth := 1
	for depth > 0 {
		switch {
		case p.atEOF():
			p.failf("unterminated template parameter list")
		case p.is("<"):
			depth++
		case p.is(">"):
			depth--
		case p.is(">>"):
			depth -= 2
		case (p.is("typename") || p.is("class")) && p.peekAt(1).Kind == TokenIdent:
			p.typeNames[p.peekAt(1).Text] = true
		case p.is("("):
			p.skipBalanced("(", ")")
			continue
		}
		p.next()
	}
}

// parseSimpleDeclaration parses a simple declaration or a function
// definition.
func (p *parser) parseSimpleDeclaration(scope scopeKind) NodeID {
	start := p.pos
	isTypedef := p.accept("typedef") >= 0
	spec := p.parseDeclSpecifier(scope)

	if p.is(";") {
		semi := p.next()
		return p.tree.add(KindSimpleDecl, start, semi,
			&SimpleDeclAttrs{Specifier: spec, Semicolon: semi}, spec)
	}

	var decls []NodeID
	for {
		d := p.parseDeclarator(scope, false)
		decls = append(decls, d)
		if isTypedef {
			if da := As[*DeclaratorAttrs](p.tree, d); da != nil && da.NameLast >= 0 {
				p.typeNames[p.toks[da.NameLast].Text] = true
			}
		}

		if len(decls) == 1 && scope != scopeBlock && p.startsFunctionBody(d) {
			body := p.parseFunctionBody()
			return p.tree.add(KindFunctionDef, start, p.last(),
				&FunctionDefAttrs{Specifier: spec, Declarator: d, Body: body}, spec, d, body)
		}
		if p.accept(",") < 0 {
			break
		}
	}

	semi := p.expect(";")
	children := append([]NodeID{spec}, decls...)
	return p.tree.add(KindSimpleDecl, start, semi,
		&SimpleDeclAttrs{Specifier: spec, Declarators: decls, Semicolon: semi}, children...)
}

func (p *parser) startsFunctionBody(decl NodeID) bool {
	da := As[*DeclaratorAttrs](p.tree, decl)
	if da == nil || !da.Params.Valid() || da.EqualToken >= 0 {
		return false
	}
	return p.is("{") || p.is(":") || p.is("try")
}

// parseFunctionBody skips a constructor initializer list and parses the
// body. A function-try-block keeps only its main block.
func (p *parser) parseFunctionBody() NodeID {
	p.accept("try")
	if p.accept(":") >= 0 {
		// Member initializers may be braced; they follow a name, while the
		// body follows ')' or '}'.
		for !p.is("{") || p.toks[p.pos-1].Kind == TokenIdent || p.toks[p.pos-1].Is(">") {
			switch {
			case p.atEOF() || p.is(";"):
				p.failf("malformed constructor initializer")
			case p.is("("):
				p.skipBalanced("(", ")")
			case p.is("{"):
				p.skipBalanced("{", "}")
			default:
				p.next()
			}
		}
	}
	body := p.parseCompound()
	for p.is("catch") {
		p.next()
		p.skipBalanced("(", ")")
		p.parseCompound()
	}
	return body
}

var (
	cvStorageKeywords = map[string]bool{
		"const": true, "volatile": true, "static": true, "extern": true, "inline": true,
		"constexpr": true, "mutable": true, "register": true, "thread_local": true,
		"virtual": true, "explicit": true, "friend": true, "typename": true,
	}
	builtinTypeKeywords = map[string]bool{
		"void": true, "bool": true, "char": true, "wchar_t": true, "char8_t": true,
		"char16_t": true, "char32_t": true, "short": true, "int": true, "long": true,
		"signed": true, "unsigned": true, "float": true, "double": true, "auto": true,
	}
)

// parseDeclSpecifier parses the specifier list of a declaration. It
// returns NoNode for declarations without specifiers, such as
// constructors.
func (p *parser) parseDeclSpecifier(scope scopeKind) NodeID {
	start := p.pos
	nested := NoNode
	sawType := false

	for {
		t := p.tok()
		switch {
		case t.Kind == TokenKeyword && cvStorageKeywords[t.Text]:
			p.next()
		case t.Kind == TokenKeyword && builtinTypeKeywords[t.Text]:
			sawType = true
			p.next()
		case t.Is("decltype"):
			p.next()
			p.skipBalanced("(", ")")
			sawType = true
		case !sawType && (t.Is("class") || t.Is("struct") || t.Is("union")):
			nested = p.parseClassSpecifier()
			sawType = true
		case !sawType && t.Is("enum"):
			nested = p.parseEnumSpecifier()
			sawType = true
		case !sawType && (t.Kind == TokenIdent || t.Is("::")):
			if scope != scopeBlock && p.isConstructorName() {
				return p.finishSpecifier(start, nested)
			}
			p.parseTypeName()
			sawType = true
		default:
			return p.finishSpecifier(start, nested)
		}
	}
}

func (p *parser) finishSpecifier(start int, nested NodeID) NodeID {
	if p.pos == start {
		return NoNode
	}
	return p.tree.add(KindDeclSpecifier, start, p.last(), &DeclSpecifierAttrs{Nested: nested}, nested)
}

// isConstructorName reports whether the qualified name at the cursor is
// directly followed by '(' and names a constructor or destructor.
func (p *parser) isConstructorName() bool {
	i := p.pos
	lastName := ""
	if p.toks[i].Is("::") {
		i++
	}
	for {
		if p.toks[i].Is("~") {
			i++
		}
		if p.toks[i].Kind != TokenIdent {
			return false
		}
		prevName := lastName
		lastName = p.toks[i].Text
		i++
		if end := p.anglesEnd(i); end > 0 && p.typeNames[lastName] {
			i = end
		}
		if !p.toks[i].Is("::") {
			if !p.toks[i].Is("(") {
				return false
			}
			return lastName == p.className || lastName == prevName
		}
		i++
	}
}

// parseTypeName consumes a qualified type name with template arguments.
func (p *parser) parseTypeName() {
	p.accept("::")
	for {
		p.accept("template")
		if p.tok().Kind != TokenIdent {
			p.failf("expected type name, found %q", p.tok().Text)
		}
		p.next()
		if p.is("<") {
			p.skipAngles()
		}
		if !p.is("::") || p.peekAt(1).Kind != TokenIdent && !p.isAt(1, "template") {
			return
		}
		p.next()
	}
}

func (p *parser) parseClassSpecifier() NodeID {
	start := p.pos
	key := p.next()
	name := -1
	for p.tok().Kind == TokenIdent || p.is("::") {
		if p.tok().Kind == TokenIdent {
			name = p.pos
		}
		p.next()
		if p.is("<") && name >= 0 && p.anglesEnd(p.pos) > 0 {
			p.skipAngles()
		}
	}
	p.accept("final")
	if name >= 0 {
		p.typeNames[p.toks[name].Text] = true
	}

	if p.is(":") {
		for !p.is("{") {
			if p.atEOF() || p.is(";") {
				p.failf("malformed base clause")
			}
			if p.is("<") {
				p.skipAngles()
				continue
			}
			p.next()
		}
	}
	if !p.is("{") {
		return p.tree.add(KindClassSpecifier, start, p.last(),
			&ClassAttrs{KeyToken: key, NameToken: name, LBrace: -1, RBrace: -1})
	}

	outer := p.className
	if name >= 0 {
		p.className = p.toks[name].Text
	}
	lbrace := p.next()
	members := p.parseDeclarationList(scopeClass)
	rbrace := p.expect("}")
	p.className = outer

	return p.tree.add(KindClassSpecifier, start, rbrace,
		&ClassAttrs{KeyToken: key, NameToken: name, LBrace: lbrace, RBrace: rbrace, Members: members}, members...)
}

func (p *parser) parseEnumSpecifier() NodeID {
	start := p.pos
	enumTok := p.expect("enum")
	scoped := p.accept("class") >= 0 || p.accept("struct") >= 0
	name := -1
	for p.tok().Kind == TokenIdent || p.is("::") {
		if p.tok().Kind == TokenIdent {
			name = p.pos
		}
		p.next()
	}
	if name >= 0 {
		p.typeNames[p.toks[name].Text] = true
	}
	if p.accept(":") >= 0 {
		for !p.is("{") && !p.is(";") && !p.atEOF() {
			p.next()
		}
	}
	if !p.is("{") {
		return p.tree.add(KindEnumSpecifier, start, p.last(),
			&EnumAttrs{EnumToken: enumTok, NameToken: name, Scoped: scoped, LBrace: -1, RBrace: -1})
	}

	lbrace := p.next()
	var enumerators []NodeID
	for !p.is("}") {
		if p.tok().Kind != TokenIdent {
			p.failf("expected enumerator, found %q", p.tok().Text)
		}
		first := p.next()
		value := NoNode
		if p.accept("=") >= 0 {
			value = p.parseConditional()
		}
		enumerators = append(enumerators, p.tree.add(KindEnumerator, first, p.last(),
			&EnumeratorAttrs{NameToken: first, Value: value}, value))
		if p.accept(",") < 0 {
			break
		}
	}
	rbrace := p.expect("}")
	return p.tree.add(KindEnumSpecifier, start, rbrace,
		&EnumAttrs{EnumToken: enumTok, NameToken: name, Scoped: scoped, LBrace: lbrace, RBrace: rbrace, Enumerators: enumerators},
		enumerators...)
}

// parseDeclarator parses pointer operators, the core name, array bounds,
// parameters, trailing qualifiers and an optional initializer. With
// abstract set the name may be omitted; NoNode is returned when nothing
// was consumed.
func (p *parser) parseDeclarator(scope scopeKind, abstract bool) NodeID {
	start := p.pos
	attrs := &DeclaratorAttrs{NameFirst: -1, NameLast: -1, Params: NoNode, ConstToken: -1, EqualToken: -1, Initializer: NoNode}
	var children []NodeID

	for p.is("*") || p.is("&") || p.is("&&") || p.is("const") || p.is("volatile") {
		p.next()
	}

	switch {
	case p.is("(") && (p.isAt(1, "*") || p.isAt(1, "&") || p.isAt(1, "^")):
		// Function pointer or reference: ( *name ) ( params )
		p.next()
		inner := p.parseDeclarator(scope, true)
		p.expect(")")
		if ia := As[*DeclaratorAttrs](p.tree, inner); ia != nil {
			attrs.NameFirst, attrs.NameLast = ia.NameFirst, ia.NameLast
		}
		children = append(children, inner)
	case p.tok().Kind == TokenIdent || p.is("::") || p.is("~") || p.is("operator"):
		attrs.NameFirst, attrs.NameLast = p.parseDeclaratorName()
	case !abstract:
		p.failf("expected declarator, found %q", p.tok().Text)
	}

	for p.is("[") {
		p.skipBalanced("[", "]")
	}

	if p.is("(") && (scope != scopeBlock || p.looksLikeParams()) {
		attrs.Params = p.parseParamClause()
		children = append(children, attrs.Params)
		p.parseTrailingQualifiers(attrs)
	} else if p.is("(") {
		attrs.Initializer = p.parseParenInit()
		children = append(children, attrs.Initializer)
	}

	switch {
	case scope == scopeClass && p.is(":") && !attrs.Params.Valid():
		p.next()
		children = append(children, p.parseConditional())
	case p.is("="):
		attrs.EqualToken = p.next()
		switch {
		case p.is("default") || p.is("delete"):
			p.next()
		case p.is("{"):
			attrs.Initializer = p.parseBracedInit()
			children = append(children, attrs.Initializer)
		default:
			attrs.Initializer = p.parseAssignment()
			children = append(children, attrs.Initializer)
		}
	case p.is("{") && !attrs.Params.Valid() && !attrs.Initializer.Valid():
		attrs.Initializer = p.parseBracedInit()
		children = append(children, attrs.Initializer)
	}

	if p.pos == start {
		return NoNode
	}
	return p.tree.add(KindDeclarator, start, p.last(), attrs, children...)
}

func (p *parser) parseDeclaratorName() (int, int) {
	first := p.pos
	p.accept("::")
	for {
		p.accept("~")
		if p.is("operator") {
			p.next()
			switch {
			case p.is("("):
				p.next()
				p.expect(")")
			case p.is("["):
				p.next()
				p.expect("]")
			default:
				for !p.is("(") && !p.atEOF() {
					p.next()
				}
			}
			return first, p.last()
		}
		if p.tok().Kind != TokenIdent {
			p.failf("expected name, found %q", p.tok().Text)
		}
		name := p.next()
		if p.is("<") && p.typeNames[p.toks[name].Text] && p.anglesEnd(p.pos) > 0 {
			p.skipAngles()
		}
		if !p.is("::") {
			return first, p.last()
		}
		p.next()
	}
}

func (p *parser) parseTrailingQualifiers(attrs *DeclaratorAttrs) {
	for {
		switch {
		case p.is("const"):
			attrs.ConstToken = p.next()
		case p.is("volatile") || p.is("&") || p.is("&&"):
			p.next()
		case p.is("noexcept") || p.is("throw"):
			p.next()
			if p.is("(") {
				p.skipBalanced("(", ")")
			}
		case p.is("override") || p.is("final"):
			p.next()
		case p.is("->"):
			p.next()
			p.parseDeclSpecifier(scopeParam)
			p.parseDeclarator(scopeParam, true)
		default:
			return
		}
	}
}

// looksLikeParams decides whether a parenthesis after a block-scope
// declarator name opens a parameter list rather than a direct initializer.
func (p *parser) looksLikeParams() bool {
	if p.isAt(1, ")") {
		return true
	}
	t := p.peekAt(1)
	if t.Kind == TokenKeyword && (builtinTypeKeywords[t.Text] || cvStorageKeywords[t.Text]) {
		return true
	}
	return t.Kind == TokenIdent && p.typeNames[t.Text] && (p.peekAt(2).Kind == TokenIdent || p.isAt(2, "*") || p.isAt(2, "&"))
}

func (p *parser) parseParamClause() NodeID {
	lparen := p.expect("(")
	attrs := &ParamClauseAttrs{LParen: lparen, Ellipsis: -1}
	if p.is("void") && p.isAt(1, ")") {
		p.next()
	}
	for !p.is(")") {
		if p.is("...") {
			attrs.Ellipsis = p.next()
			break
		}
		start := p.pos
		spec := p.parseDeclSpecifier(scopeParam)
		decl := p.parseDeclarator(scopeParam, true)
		if p.pos == start {
			p.failf("expected parameter, found %q", p.tok().Text)
		}
		attrs.Params = append(attrs.Params, p.tree.add(KindParamDecl, start, p.last(),
			&ParamDeclAttrs{Specifier: spec, Declarator: decl}, spec, decl))
		if p.accept(",") < 0 {
			if p.is("...") {
				attrs.Ellipsis = p.next()
			}
			break
		}
	}
	attrs.RParen = p.expect(")")
	return p.tree.add(KindParamClause, lparen, attrs.RParen, attrs, attrs.Params...)
}

// parseParenInit parses `( args )` used as a direct initializer.
func (p *parser) parseParenInit() NodeID {
	lparen := p.expect("(")
	args := p.parseArgs(")")
	rparen := p.expect(")")
	return p.tree.add(KindBracedInit, lparen, rparen, &BracedInitAttrs{LBrace: lparen, RBrace: rparen, Elems: args}, args...)
}

// looksLikeDeclaration decides whether the tokens at the cursor start a
// declaration rather than an expression. terminators lists the tokens
// that may follow the first declarator name.
func (p *parser) looksLikeDeclaration(terminators ...string) bool {
	t := p.tok()
	if t.Kind == TokenKeyword {
		switch {
		case builtinTypeKeywords[t.Text], cvStorageKeywords[t.Text]:
			return true
		case t.Text == "class", t.Text == "struct", t.Text == "union", t.Text == "enum",
			t.Text == "typedef", t.Text == "decltype":
			return true
		}
		return false
	}
	if t.Kind != TokenIdent && !t.Is("::") {
		return false
	}

	i := p.pos
	if p.toks[i].Is("::") {
		i++
	}
	known := false
	for {
		if p.toks[i].Kind != TokenIdent {
			return false
		}
		known = p.typeNames[p.toks[i].Text]
		i++
		if end := p.anglesEnd(i); end > 0 {
			after := p.toks[end]
			if after.Kind == TokenIdent || after.Is("::") || after.Is("*") || after.Is("&") || after.Is("&&") {
				i = end
				known = true
			}
		}
		if !p.toks[i].Is("::") {
			break
		}
		i++
	}

	if p.toks[i].Kind == TokenIdent {
		return true
	}
	sawPtr := false
	for p.toks[i].Is("*") || p.toks[i].Is("&") || p.toks[i].Is("&&") || p.toks[i].Is("const") {
		sawPtr = true
		i++
	}
	if !sawPtr || p.toks[i].Kind != TokenIdent {
		return false
	}
	if known {
		return true
	}
	after := p.toks[i+1]
	for _, term := range terminators {
		if after.Is(term) {
			return true
		}
	}
	return false
}
