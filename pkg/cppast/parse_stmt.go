package cppast

func (p *parser) parseCompound() NodeID {
	lbrace := p.expect("{")
	var stmts []NodeID
	for !p.is("}") {
		if p.atEOF() {
			p.failf("unexpected end of file in block")
		}
		stmts = append(stmts, p.recoverTo(p.parseStatement))
	}
	rbrace := p.next()
	return p.tree.add(KindCompoundStmt, lbrace, rbrace,
		&CompoundAttrs{LBrace: lbrace, RBrace: rbrace, Stmts: stmts}, stmts...)
}

func (p *parser) parseStatement() NodeID {
	start := p.pos
	switch {
	case p.is("{"):
		return p.parseCompound()
	case p.is("if"):
		return p.parseIf()
	case p.is("while"):
		return p.parseWhile()
	case p.is("do"):
		return p.parseDo()
	case p.is("for"):
		return p.parseFor()
	case p.is("switch"):
		return p.parseSwitch()
	case p.is("case"):
		caseTok := p.next()
		expr := p.parseConditional()
		colon := p.expect(":")
		stmt := p.parseLabeledBody()
		return p.tree.add(KindCaseStmt, start, p.last(),
			&CaseAttrs{CaseToken: caseTok, Colon: colon, Expr: expr, Stmt: stmt}, expr, stmt)
	case p.is("default") && p.isAt(1, ":"):
		defTok := p.next()
		colon := p.next()
		stmt := p.parseLabeledBody()
		return p.tree.add(KindDefaultStmt, start, p.last(),
			&DefaultAttrs{DefaultToken: defTok, Colon: colon, Stmt: stmt}, stmt)
	case p.is("return"):
		ret := p.next()
		expr := NoNode
		if !p.is(";") {
			if p.is("{") {
				expr = p.parseBracedInit()
			} else {
				expr = p.parseExpression()
			}
		}
		p.expect(";")
		return p.tree.add(KindReturnStmt, start, p.last(), &ReturnAttrs{ReturnToken: ret, Expr: expr}, expr)
	case p.is("break"):
		p.next()
		p.expect(";")
		return p.tree.add(KindBreakStmt, start, p.last(), nil)
	case p.is("continue"):
		p.next()
		p.expect(";")
		return p.tree.add(KindContinueStmt, start, p.last(), nil)
	case p.is("goto"):
		return p.skipOpaque(start)
	case p.is("try"):
		p.next()
		blocks := []NodeID{p.parseCompound()}
		for p.is("catch") {
			p.next()
			p.skipBalanced("(", ")")
			blocks = append(blocks, p.parseCompound())
		}
		return p.tree.add(KindUnknown, start, p.last(), nil, blocks...)
	case p.is(";"):
		semi := p.next()
		return p.tree.add(KindExprStmt, semi, semi, &ExprStmtAttrs{Expr: NoNode, Semicolon: semi})
	case p.tok().Kind == TokenIdent && p.isAt(1, ":"):
		// Labels carry no meaning for the rules; the labelled statement
		// stands in for the whole.
		p.next()
		p.next()
		return p.parseStatement()
	case p.is("using") || p.is("static_assert"):
		return p.skipOpaque(start)
	case p.is("template") || p.is("namespace"):
		p.failf("unexpected %q in block", p.tok().Text)
	case p.looksLikeDeclaration("=", ";", ",", "[", "{"):
		decl := p.parseSimpleDeclaration(scopeBlock)
		return p.tree.add(KindDeclStmt, start, p.last(), &DeclStmtAttrs{Decl: decl}, decl)
	}

	expr := p.parseExpression()
	semi := p.expect(";")
	return p.tree.add(KindExprStmt, start, semi, &ExprStmtAttrs{Expr: expr, Semicolon: semi}, expr)
}

// parseLabeledBody parses the statement after a case or default label. A
// label directly before the closing brace has no statement.
func (p *parser) parseLabeledBody() NodeID {
	if p.is("}") {
		return NoNode
	}
	return p.parseStatement()
}

// parseCondition parses the condition of if, while and switch, which is
// either an expression or a declaration with an initializer.
func (p *parser) parseCondition() NodeID {
	start := p.pos
	if p.looksLikeDeclaration("=", "{") {
		spec := p.parseDeclSpecifier(scopeBlock)
		decl := p.parseDeclarator(scopeBlock, false)
		return p.tree.add(KindCondition, start, p.last(),
			&ConditionAttrs{Specifier: spec, Declarator: decl}, spec, decl)
	}
	return p.parseExpression()
}

func (p *parser) parseIf() NodeID {
	start := p.pos
	attrs := &IfAttrs{IfToken: p.next(), ElseToken: -1, Else: NoNode}
	p.accept("constexpr")
	attrs.LParen = p.expect("(")
	attrs.Cond = p.parseCondition()
	attrs.RParen = p.expect(")")
	attrs.Then = p.parseStatement()
	if p.is("else") {
		attrs.ElseToken = p.next()
		attrs.Else = p.parseStatement()
	}
	return p.tree.add(KindIfStmt, start, p.last(), attrs, attrs.Cond, attrs.Then, attrs.Else)
}

func (p *parser) parseWhile() NodeID {
	start := p.pos
	attrs := &WhileAttrs{WhileToken: p.next()}
	attrs.LParen = p.expect("(")
	attrs.Cond = p.parseCondition()
	attrs.RParen = p.expect(")")
	attrs.Body = p.parseStatement()
	return p.tree.add(KindWhileStmt, start, p.last(), attrs, attrs.Cond, attrs.Body)
}

func (p *parser) parseDo() NodeID {
	start := p.pos
	attrs := &DoAttrs{DoToken: p.next()}
	attrs.Body = p.parseStatement()
	attrs.WhileToken = p.expect("while")
	attrs.LParen = p.expect("(")
	attrs.Cond = p.parseExpression()
	attrs.RParen = p.expect(")")
	attrs.Semicolon = p.expect(";")
	return p.tree.add(KindDoStmt, start, p.last(), attrs, attrs.Body, attrs.Cond)
}

func (p *parser) parseSwitch() NodeID {
	start := p.pos
	attrs := &SwitchAttrs{SwitchToken: p.next()}
	attrs.LParen = p.expect("(")
	attrs.Cond = p.parseCondition()
	attrs.RParen = p.expect(")")
	attrs.Body = p.parseStatement()
	return p.tree.add(KindSwitchStmt, start, p.last(), attrs, attrs.Cond, attrs.Body)
}

func (p *parser) parseFor() NodeID {
	start := p.pos
	forTok := p.next()
	lparen := p.expect("(")

	initStart := p.pos
	mark := len(p.tree.nodes)
	if !p.is(";") && p.looksLikeDeclaration("=", ";", ",", "[", "{", ":") {
		spec := p.parseDeclSpecifier(scopeBlock)
		first := p.parseDeclarator(scopeBlock, false)
		if p.is(":") {
			decl := p.tree.add(KindCondition, initStart, p.last(),
				&ConditionAttrs{Specifier: spec, Declarator: first}, spec, first)
			colon := p.next()
			rng := p.parseExpression()
			if p.is("{") {
				rng = p.parseBracedInit()
			}
			rparen := p.expect(")")
			body := p.parseStatement()
			return p.tree.add(KindRangeForStmt, start, p.last(),
				&RangeForAttrs{ForToken: forTok, LParen: lparen, Colon: colon, RParen: rparen, Decl: decl, Range: rng, Body: body},
				decl, rng, body)
		}
		// Not a range-based for: reparse the init statement.
		p.pos = initStart
		p.tree.nodes = p.tree.nodes[:mark]
	}

	attrs := &ForAttrs{ForToken: forTok, LParen: lparen, Cond: NoNode, Expr: NoNode}
	switch {
	case p.is(";"):
		semi := p.next()
		attrs.Init = p.tree.add(KindExprStmt, semi, semi, &ExprStmtAttrs{Expr: NoNode, Semicolon: semi})
	case p.looksLikeDeclaration("=", ";", ",", "[", "{"):
		decl := p.parseSimpleDeclaration(scopeBlock)
		attrs.Init = p.tree.add(KindDeclStmt, initStart, p.last(), &DeclStmtAttrs{Decl: decl}, decl)
	default:
		expr := p.parseExpression()
		semi := p.expect(";")
		attrs.Init = p.tree.add(KindExprStmt, initStart, semi, &ExprStmtAttrs{Expr: expr, Semicolon: semi}, expr)
	}
	if !p.is(";") {
		attrs.Cond = p.parseCondition()
	}
	p.expect(";")
	if !p.is(")") {
		attrs.Expr = p.parseExpression()
	}
	attrs.RParen = p.expect(")")
	attrs.Body = p.parseStatement()
	return p.tree.add(KindForStmt, start, p.last(), attrs, attrs.Init, attrs.Cond, attrs.Expr, attrs.Body)
}
