package cppast

var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<=>": 8,
	"<<":  9, ">>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
	".*": 12, "->*": 12,
}

var assignmentOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

var castKeywords = map[string]bool{
	"static_cast": true, "dynamic_cast": true, "const_cast": true, "reinterpret_cast": true,
}

// parseExpression parses a comma expression.
func (p *parser) parseExpression() NodeID {
	start := p.pos
	left := p.parseAssignment()
	for p.is(",") {
		op := p.next()
		right := p.parseAssignment()
		left = p.tree.add(KindBinaryExpr, start, p.last(), &BinaryAttrs{Left: left, OpToken: op, Right: right}, left, right)
	}
	return left
}

func (p *parser) parseAssignment() NodeID {
	start := p.pos
	if p.is("throw") {
		op := p.next()
		operand := NoNode
		if !p.is(";") && !p.is(")") && !p.is(",") {
			operand = p.parseAssignment()
		}
		return p.tree.add(KindUnaryExpr, start, p.last(), &UnaryAttrs{OpToken: op, Operand: operand}, operand)
	}

	left := p.parseConditional()
	if p.tok().Kind == TokenPunct && assignmentOps[p.tok().Text] {
		op := p.next()
		var right NodeID
		if p.is("{") {
			right = p.parseBracedInit()
		} else {
			right = p.parseAssignment()
		}
		return p.tree.add(KindBinaryExpr, start, p.last(), &BinaryAttrs{Left: left, OpToken: op, Right: right}, left, right)
	}
	return left
}

func (p *parser) parseConditional() NodeID {
	start := p.pos
	cond := p.parseBinary(1)
	if !p.is("?") {
		return cond
	}
	question := p.next()
	then := p.parseExpression()
	colon := p.expect(":")
	els := p.parseAssignment()
	return p.tree.add(KindConditionalExpr, start, p.last(),
		&ConditionalAttrs{Cond: cond, Question: question, Then: then, Colon: colon, Else: els}, cond, then, els)
}

func (p *parser) parseBinary(minPrec int) NodeID {
	start := p.pos
	left := p.parseUnary()
	for {
		t := p.tok()
		prec, ok := binaryPrecedence[t.Text]
		if t.Kind != TokenPunct || !ok || prec < minPrec {
			return left
		}
		op := p.next()
		right := p.parseBinary(prec + 1)
		left = p.tree.add(KindBinaryExpr, start, p.last(), &BinaryAttrs{Left: left, OpToken: op, Right: right}, left, right)
	}
}

func (p *parser) parseUnary() NodeID {
	start := p.pos
	t := p.tok()
	switch {
	case t.Is("++") || t.Is("--") || t.Is("+") || t.Is("-") || t.Is("!") || t.Is("~") || t.Is("*") || t.Is("&"):
		op := p.next()
		operand := p.parseUnary()
		return p.tree.add(KindUnaryExpr, start, p.last(), &UnaryAttrs{OpToken: op, Operand: operand}, operand)

	case t.Is("sizeof") || t.Is("alignof"):
		op := p.next()
		p.accept("...")
		if p.is("(") && p.isTypeInParens() {
			p.skipBalanced("(", ")")
			return p.tree.add(KindUnaryExpr, start, p.last(), &UnaryAttrs{OpToken: op, Operand: NoNode})
		}
		operand := p.parseUnary()
		return p.tree.add(KindUnaryExpr, start, p.last(), &UnaryAttrs{OpToken: op, Operand: operand}, operand)

	case t.Is("new"):
		return p.parseNew()

	case t.Is("delete"):
		op := p.next()
		if p.is("[") {
			p.next()
			p.expect("]")
		}
		operand := p.parseUnary()
		return p.tree.add(KindUnaryExpr, start, p.last(), &UnaryAttrs{OpToken: op, Operand: operand}, operand)

	case t.Is("(") && p.isTypeInParens() && p.castFollows():
		typeFirst := p.pos + 1
		p.skipBalanced("(", ")")
		typeLast := p.last() - 1
		operand := p.parseUnary()
		return p.tree.add(KindCastExpr, start, p.last(),
			&CastAttrs{KeywordToken: -1, TypeFirst: typeFirst, TypeLast: typeLast, Operand: operand}, operand)
	}
	return p.parsePostfix()
}

// isTypeInParens reports whether the parenthesis at the cursor encloses a
// type name.
func (p *parser) isTypeInParens() bool {
	t := p.peekAt(1)
	switch {
	case t.Kind == TokenKeyword:
		return builtinTypeKeywords[t.Text] || t.Text == "const" || t.Text == "volatile" ||
			t.Text == "struct" || t.Text == "class" || t.Text == "enum" || t.Text == "typename"
	case t.Kind == TokenIdent:
		if !p.typeNames[t.Text] {
			return false
		}
		i := p.pos + 2
		for p.toks[i].Is("::") || p.toks[i].Kind == TokenIdent || p.toks[i].Is("*") || p.toks[i].Is("&") || p.toks[i].Is("const") {
			i++
		}
		if end := p.anglesEnd(i); end > 0 {
			i = end
			for p.toks[i].Is("*") || p.toks[i].Is("&") || p.toks[i].Is("const") {
				i++
			}
		}
		return p.toks[i].Is(")")
	}
	return false
}

// castFollows reports whether the token after the closing parenthesis at
// the cursor can start a cast operand.
func (p *parser) castFollows() bool {
	depth := 0
	i := p.pos
	for ; i < len(p.toks); i++ {
		if p.toks[i].Is("(") {
			depth++
		} else if p.toks[i].Is(")") {
			depth--
			if depth == 0 {
				break
			}
		}
	}
	if i+1 >= len(p.toks) {
		return false
	}
	next := p.toks[i+1]
	switch next.Kind {
	case TokenIdent, TokenNumber, TokenString, TokenChar:
		return true
	case TokenKeyword:
		return next.Text == "this" || next.Text == "true" || next.Text == "false" ||
			next.Text == "nullptr" || next.Text == "sizeof" || castKeywords[next.Text]
	case TokenPunct:
		return next.Text == "(" || next.Text == "!" || next.Text == "~" || next.Text == "::"
	}
	return false
}

// parseNew parses a new-expression as a unary node whose operand is the
// constructed type, wrapped in a call when arguments are given.
func (p *parser) parseNew() NodeID {
	start := p.pos
	op := p.next()
	if p.is("(") {
		p.skipBalanced("(", ")")
	}
	typeStart := p.pos
	for p.tok().Kind == TokenIdent || p.is("::") || (p.tok().Kind == TokenKeyword && (builtinTypeKeywords[p.tok().Text] || p.is("const"))) {
		p.next()
		if p.is("<") && p.anglesEnd(p.pos) > 0 {
			p.skipAngles()
		}
	}
	if p.pos == typeStart {
		p.failf("expected type after new")
	}
	operand := p.tree.add(KindIdExpr, typeStart, p.last(), &IdExprAttrs{NameFirst: typeStart, NameLast: p.last(), NameToken: p.lastNameToken(typeStart)})
	for p.is("*") {
		p.next()
	}
	for p.is("[") {
		lb := p.next()
		idx := p.parseExpression()
		rb := p.expect("]")
		operand = p.tree.add(KindSubscriptExpr, typeStart, rb,
			&SubscriptAttrs{Base: operand, LBracket: lb, Index: idx, RBracket: rb}, operand, idx)
	}
	if p.is("(") || p.is("{") {
		operand = p.parseCallArgs(typeStart, operand)
	}
	return p.tree.add(KindUnaryExpr, start, p.last(), &UnaryAttrs{OpToken: op, Operand: operand}, operand)
}

func (p *parser) parsePostfix() NodeID {
	start := p.pos
	expr := p.parsePrimary()
	for {
		switch {
		case p.is("("):
			expr = p.parseCallArgs(start, expr)
		case p.is("{") && p.tree.Kind(expr) == KindIdExpr && p.isTypeExpr(expr):
			expr = p.parseCallArgs(start, expr)
		case p.is("["):
			lb := p.next()
			idx := p.parseExpression()
			rb := p.expect("]")
			expr = p.tree.add(KindSubscriptExpr, start, rb,
				&SubscriptAttrs{Base: expr, LBracket: lb, Index: idx, RBracket: rb}, expr, idx)
		case p.is(".") || p.is("->"):
			op := p.next()
			p.accept("template")
			p.accept("~")
			if p.tok().Kind != TokenIdent && !p.is("operator") {
				p.failf("expected member name, found %q", p.tok().Text)
			}
			name := p.next()
			if p.is("<") && p.typeNames[p.toks[name].Text] {
				p.skipAngles()
			}
			expr = p.tree.add(KindMemberExpr, start, p.last(),
				&MemberAttrs{Base: expr, OpToken: op, NameToken: name}, expr)
		case p.is("++") || p.is("--"):
			op := p.next()
			expr = p.tree.add(KindPostfixExpr, start, op, &PostfixAttrs{Operand: expr, OpToken: op}, expr)
		default:
			return expr
		}
	}
}

func (p *parser) isTypeExpr(id NodeID) bool {
	a := As[*IdExprAttrs](p.tree, id)
	if a == nil {
		return false
	}
	t := p.toks[a.NameLast]
	if t.Is(">") || t.Is(">>") {
		return true
	}
	return p.typeNames[t.Text] || (t.Kind == TokenKeyword && builtinTypeKeywords[t.Text])
}

// parseCallArgs parses `( args )` or `{ args }` applied to callee.
func (p *parser) parseCallArgs(start int, callee NodeID) NodeID {
	closer := ")"
	if p.is("{") {
		closer = "}"
	}
	open := p.next()
	args := p.parseArgs(closer)
	closeTok := p.expect(closer)
	children := append([]NodeID{callee}, args...)
	return p.tree.add(KindCallExpr, start, closeTok,
		&CallAttrs{Callee: callee, LParen: open, RParen: closeTok, Args: args}, children...)
}

func (p *parser) parseArgs(closer string) []NodeID {
	var args []NodeID
	for !p.is(closer) {
		if p.is("{") {
			args = append(args, p.parseBracedInit())
		} else {
			args = append(args, p.parseAssignment())
		}
		p.accept("...")
		if p.accept(",") < 0 {
			break
		}
	}
	return args
}

func (p *parser) parseBracedInit() NodeID {
	lbrace := p.expect("{")
	elems := p.parseArgs("}")
	rbrace := p.expect("}")
	return p.tree.add(KindBracedInit, lbrace, rbrace, &BracedInitAttrs{LBrace: lbrace, RBrace: rbrace, Elems: elems}, elems...)
}

func (p *parser) parsePrimary() NodeID {
	start := p.pos
	t := p.tok()
	switch {
	case t.Kind == TokenNumber:
		p.next()
		return p.tree.add(KindLiteral, start, start, &LiteralAttrs{Kind: LiteralNumeric})
	case t.Kind == TokenString:
		for p.tok().Kind == TokenString {
			p.next()
		}
		return p.tree.add(KindLiteral, start, p.last(), &LiteralAttrs{Kind: LiteralString})
	case t.Kind == TokenChar:
		p.next()
		return p.tree.add(KindLiteral, start, start, &LiteralAttrs{Kind: LiteralChar})
	case t.Is("true") || t.Is("false"):
		p.next()
		return p.tree.add(KindLiteral, start, start, &LiteralAttrs{Kind: LiteralBool})
	case t.Is("nullptr"):
		p.next()
		return p.tree.add(KindLiteral, start, start, &LiteralAttrs{Kind: LiteralNullptr})
	case t.Is("this"):
		p.next()
		return p.tree.add(KindIdExpr, start, start, &IdExprAttrs{NameFirst: start, NameLast: start, NameToken: start})
	case t.Kind == TokenIdent || t.Is("::") || t.Is("~") || t.Is("operator"):
		return p.parseIdExpr()
	case t.Kind == TokenKeyword && builtinTypeKeywords[t.Text]:
		for p.tok().Kind == TokenKeyword && builtinTypeKeywords[p.tok().Text] {
			p.next()
		}
		return p.tree.add(KindIdExpr, start, p.last(), &IdExprAttrs{NameFirst: start, NameLast: p.last(), NameToken: p.last()})
	case t.Kind == TokenKeyword && castKeywords[t.Text]:
		kw := p.next()
		typeFirst := p.pos + 1
		p.skipAngles()
		typeLast := p.last() - 1
		p.expect("(")
		operand := p.parseExpression()
		p.expect(")")
		return p.tree.add(KindCastExpr, start, p.last(),
			&CastAttrs{KeywordToken: kw, TypeFirst: typeFirst, TypeLast: typeLast, Operand: operand}, operand)
	case t.Is("typeid") || t.Is("decltype") || t.Is("noexcept"):
		p.next()
		p.skipBalanced("(", ")")
		return p.tree.add(KindUnknown, start, p.last(), nil)
	case t.Is("("):
		lparen := p.next()
		inner := p.parseExpression()
		rparen := p.expect(")")
		return p.tree.add(KindParenExpr, start, rparen, &ParenAttrs{LParen: lparen, Inner: inner, RParen: rparen}, inner)
	case t.Is("["):
		return p.parseLambda()
	case t.Is("{"):
		return p.parseBracedInit()
	}
	p.failf("unexpected %q in expression", t.Text)
	return NoNode
}

func (p *parser) parseIdExpr() NodeID {
	start := p.pos
	p.accept("::")
	for {
		p.accept("template")
		p.accept("~")
		if p.is("operator") {
			p.next()
			if p.is("(") && p.isAt(1, ")") {
				p.next()
			}
			p.next()
			break
		}
		if p.tok().Kind != TokenIdent {
			p.failf("expected name, found %q", p.tok().Text)
		}
		name := p.next()
		if p.is("<") && p.typeNames[p.toks[name].Text] && p.anglesEnd(p.pos) > 0 {
			p.skipAngles()
		}
		if !p.is("::") {
			break
		}
		p.next()
	}
	return p.tree.add(KindIdExpr, start, p.last(), &IdExprAttrs{NameFirst: start, NameLast: p.last(), NameToken: p.lastNameToken(start)})
}

// lastNameToken returns the last identifier or keyword token between from
// and the cursor, skipping template arguments.
func (p *parser) lastNameToken(from int) int {
	depth := 0
	name := from
	for i := from; i < p.pos; i++ {
		t := p.toks[i]
		switch {
		case t.Is("<"):
			depth++
		case t.Is(">"):
			depth--
		case t.Is(">>"):
			depth -= 2
		case depth == 0 && (t.Kind == TokenIdent || t.Kind == TokenKeyword):
			name = i
		}
	}
	return name
}

func (p *parser) parseLambda() NodeID {
	start := p.pos
	lbracket := p.pos
	p.skipBalanced("[", "]")
	rbracket := p.last()
	params := NoNode
	if p.is("(") {
		params = p.parseParamClause()
	}
	for !p.is("{") {
		switch {
		case p.atEOF() || p.is(";"):
			p.failf("malformed lambda")
		case p.is("("):
			p.skipBalanced("(", ")")
		default:
			p.next()
		}
	}
	body := p.parseCompound()
	return p.tree.add(KindLambdaExpr, start, p.last(),
		&LambdaAttrs{LBracket: lbracket, RBracket: rbracket, Params: params, Body: body}, params, body)
}
