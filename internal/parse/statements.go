package parse

import (
	"github.com/emberlang/emberc/internal/psi"
	"github.com/emberlang/emberc/internal/token"
)

// tryParseBlock matches a `{ statement* }` block, assuming the cursor is
// at the opening brace. It reports only whether a block was present —
// callers that need the node reach it through the enclosing Done call.
func (p *Parser) tryParseBlock() bool {
	if !p.at(token.CurlyBraceOpen) {
		return false
	}
	m := p.b.Mark()
	if !p.b.TryGetDelimitedSubStream(token.CurlyBraceOpen, token.CurlyBraceClose) {
		p.b.Rollback(m)
		return false
	}
	stuck := 0
	for !p.b.AtEnd() {
		before := p.b.TokenIndex()
		if !p.tryParseStatement() {
			p.recoverAt(statementAnchors, "expected a statement")
		}
		if p.progressed(before) {
			stuck = 0
		} else {
			stuck++
			if stuck >= maxStuckIterations {
				p.forceAdvance("parser stuck")
				stuck = 0
			}
		}
	}
	p.b.PopStream()
	p.b.Done(m, psi.Block)
	return true
}

// tryParseStatement matches anything that can appear inside a block: a
// local declaration, or any embedded statement.
func (p *Parser) tryParseStatement() bool {
	if p.tryParseLocalDeclarationStatement() {
		return true
	}
	return p.tryParseEmbeddedStatement()
}

// tryParseEmbeddedStatement matches the body of an if/for/while/etc: a
// block, or one of the simple statement forms, or (falling through) an
// expression statement. Declarations may not appear as a bare
// if/for/while body without an enclosing block, per the grammar's
// embedded_statement production.
func (p *Parser) tryParseEmbeddedStatement() bool {
	if p.at(token.SemiColon) {
		m := p.b.Mark()
		p.b.Advance()
		p.b.Done(m, psi.ExpressionStatement)
		return true
	}
	if p.tryParseBlock() {
		return true
	}
	if p.b.Current().Kind == token.KeywordOrIdentifier {
		switch p.b.Current().Keyword {
		case token.KeywordIf:
			return p.tryParseIfStatement()
		case token.KeywordSwitch:
			return p.tryParseSwitchStatement()
		case token.KeywordWhile:
			return p.tryParseWhileStatement()
		case token.KeywordDo:
			return p.tryParseDoWhileStatement()
		case token.KeywordFor:
			return p.tryParseForStatement()
		case token.KeywordForeach:
			return p.tryParseForeachStatement()
		case token.KeywordTry:
			return p.tryParseTryStatement()
		case token.KeywordWith:
			return p.tryParseWithStatement()
		case token.KeywordUsing:
			return p.tryParseUsingStatement()
		case token.KeywordBreak:
			return p.tryParseJumpStatement(psi.BreakStatement)
		case token.KeywordContinue:
			return p.tryParseJumpStatement(psi.ContinueStatement)
		case token.KeywordReturn:
			return p.tryParseReturnStatement()
		case token.KeywordThrow:
			return p.tryParseThrowStatement()
		}
	}
	return p.tryParseExpressionStatement()
}

func (p *Parser) tryParseExpressionStatement() bool {
	m := p.b.Mark()
	var recovery bool
	if !p.tryParseExpression(&recovery) {
		p.b.Rollback(m)
		return false
	}
	if !recovery {
		p.expect(token.SemiColon, "';'")
	}
	p.b.Done(m, psi.ExpressionStatement)
	return true
}

// tryParseLocalDeclarationStatement matches `storage-class? const? ref?
// (var | TypePath) identifier (= ref? expression)? ;`. Any storage-class,
// const, or ref prefix commits the parse (a recovery error node is
// produced on failure rather than a rollback); with none of those, a
// failure to find `(var|TypePath) identifier` rolls back so the caller
// can retry as an expression statement instead.
func (p *Parser) tryParseLocalDeclarationStatement() bool {
	m := p.b.Mark()
	committed := false
	for {
		cur := p.b.Current()
		if cur.Kind != token.KeywordOrIdentifier {
			break
		}
		if cur.Keyword == token.KeywordTemp || cur.Keyword == token.KeywordScoped {
			p.b.Advance()
			committed = true
			continue
		}
		break
	}
	if p.atKeyword(token.KeywordConst) {
		p.b.Advance()
		committed = true
	}
	if p.atKeyword(token.KeywordRef) {
		p.b.Advance()
		committed = true
	}

	if p.atKeyword(token.KeywordVar) {
		p.b.Advance()
	} else if _, ok := p.tryParseTypePath(); !ok {
		if !committed {
			p.b.Rollback(m)
			return false
		}
		p.b.InlineError("expected a type")
		p.b.Done(m, psi.ErrorNode)
		return true
	}

	if !p.at(token.KeywordOrIdentifier) {
		if !committed {
			p.b.Rollback(m)
			return false
		}
		p.b.InlineError("expected a variable name")
		p.b.Done(m, psi.ErrorNode)
		return true
	}
	p.b.Advance() // name

	if p.at(token.Assign) {
		p.b.Advance()
		if p.atKeyword(token.KeywordRef) {
			p.b.Advance()
		}
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected an initializer expression")
		}
	}
	p.expect(token.SemiColon, "';'")
	p.b.Done(m, psi.LocalDeclarationStatement)
	return true
}

// tryParseIfStatement matches `if ( expr ) embedded-statement ('else'
// embedded-statement)?`.
func (p *Parser) tryParseIfStatement() bool {
	m := p.b.Mark()
	p.b.Advance() // if
	if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected a condition expression")
		}
		p.b.PopStream()
	} else {
		p.b.InlineError("expected '(' after 'if'")
	}
	if !p.tryParseEmbeddedStatement() {
		p.b.InlineError("expected a statement after 'if' header")
	}
	if p.atKeyword(token.KeywordElse) {
		p.b.Advance()
		if !p.tryParseEmbeddedStatement() {
			p.b.InlineError("expected a statement after 'else'")
		}
	}
	p.b.Done(m, psi.IfStatement)
	return true
}

// tryParseWhileStatement matches `while ( expr ) embedded-statement`.
func (p *Parser) tryParseWhileStatement() bool {
	m := p.b.Mark()
	p.b.Advance() // while
	if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected a condition expression")
		}
		p.b.PopStream()
	} else {
		p.b.InlineError("expected '(' after 'while'")
	}
	if !p.tryParseEmbeddedStatement() {
		p.b.InlineError("expected a statement after 'while' header")
	}
	p.b.Done(m, psi.WhileStatement)
	return true
}

// tryParseDoWhileStatement matches `do embedded-statement 'while' ( expr )
// ;`.
func (p *Parser) tryParseDoWhileStatement() bool {
	m := p.b.Mark()
	p.b.Advance() // do
	if !p.tryParseEmbeddedStatement() {
		p.b.InlineError("expected a statement after 'do'")
	}
	if p.atKeyword(token.KeywordWhile) {
		p.b.Advance()
	} else {
		p.b.InlineError("expected 'while'")
	}
	if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected a condition expression")
		}
		p.b.PopStream()
	} else {
		p.b.InlineError("expected '(' after 'while'")
	}
	p.expect(token.SemiColon, "';'")
	p.b.Done(m, psi.DoStatement)
	return true
}

// tryParseForStatement matches `for ( init? ; cond? ; iter? )
// embedded-statement`, where init is either a local declaration (sans
// trailing `;`, reusing the declaration parser's body) or a
// comma-separated expression list.
func (p *Parser) tryParseForStatement() bool {
	m := p.b.Mark()
	p.b.Advance() // for
	if !p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		p.b.InlineError("expected '(' after 'for'")
		p.b.Done(m, psi.ForStatement)
		return true
	}
	if p.at(token.SemiColon) {
		p.b.Advance()
	} else if !p.tryParseLocalDeclarationStatement() {
		p.parseCommaSeparatedList(false, func() bool {
			_, ok := p.tryParseExpressionNode(new(bool))
			return ok
		})
		p.expect(token.SemiColon, "';'")
	}
	if !p.at(token.SemiColon) {
		var recovery bool
		p.tryParseExpression(&recovery)
	}
	p.expect(token.SemiColon, "';'")
	if !p.b.AtEnd() {
		p.parseCommaSeparatedList(false, func() bool {
			_, ok := p.tryParseExpressionNode(new(bool))
			return ok
		})
	}
	p.b.PopStream()
	if !p.tryParseEmbeddedStatement() {
		p.b.InlineError("expected a statement after 'for' header")
	}
	p.b.Done(m, psi.ForStatement)
	return true
}

// tryParseForeachStatement matches `foreach ( [var|TypePath] identifier
// 'in' expr ) embedded-statement`.
func (p *Parser) tryParseForeachStatement() bool {
	m := p.b.Mark()
	p.b.Advance() // foreach
	if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		if p.atKeyword(token.KeywordVar) {
			p.b.Advance()
		} else {
			p.tryParseTypePath()
		}
		p.expect(token.KeywordOrIdentifier, "a loop variable name")
		if p.atKeyword(token.KeywordIn) {
			p.b.Advance()
		} else {
			p.b.InlineError("expected 'in'")
		}
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected a sequence expression")
		}
		p.b.PopStream()
	} else {
		p.b.InlineError("expected '(' after 'foreach'")
	}
	if !p.tryParseEmbeddedStatement() {
		p.b.InlineError("expected a statement after 'foreach' header")
	}
	p.b.Done(m, psi.ForeachStatement)
	return true
}

// tryParseSwitchStatement matches `switch ( expr ) { section* }` where
// each section is one or more `case expr [when guard] :` / `default :`
// labels followed by a statement list.
func (p *Parser) tryParseSwitchStatement() bool {
	m := p.b.Mark()
	p.b.Advance() // switch
	if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected a switch value")
		}
		p.b.PopStream()
	} else {
		p.b.InlineError("expected '(' after 'switch'")
	}
	if p.b.TryGetDelimitedSubStream(token.CurlyBraceOpen, token.CurlyBraceClose) {
		stuck := 0
		for !p.b.AtEnd() {
			before := p.b.TokenIndex()
			if !p.tryParseSwitchSection() {
				p.recoverAt(anchors([]token.Kind{token.CurlyBraceClose}, []token.Keyword{token.KeywordCase, token.KeywordDefault}), "expected a switch section")
			}
			if p.progressed(before) {
				stuck = 0
			} else {
				stuck++
				if stuck >= maxStuckIterations {
					p.forceAdvance("parser stuck")
					stuck = 0
				}
			}
		}
		p.b.PopStream()
	} else {
		p.b.InlineError("expected '{' after switch header")
	}
	p.b.Done(m, psi.SwitchStatement)
	return true
}

// tryParseSwitchSection matches one or more labels (`case expr [when
// guard] :` or `default :`) followed by the statements they guard.
func (p *Parser) tryParseSwitchSection() bool {
	if !p.atKeyword(token.KeywordCase) && !p.atKeyword(token.KeywordDefault) {
		return false
	}
	m := p.b.Mark()
	for p.atKeyword(token.KeywordCase) || p.atKeyword(token.KeywordDefault) {
		p.tryParseSwitchLabel()
	}
	stuck := 0
	for !p.b.AtEnd() && !p.atKeyword(token.KeywordCase) && !p.atKeyword(token.KeywordDefault) && !p.at(token.CurlyBraceClose) {
		before := p.b.TokenIndex()
		if !p.tryParseStatement() {
			p.recoverAt(statementAnchors, "expected a statement")
		}
		if p.progressed(before) {
			stuck = 0
		} else {
			stuck++
			if stuck >= maxStuckIterations {
				p.forceAdvance("parser stuck")
				stuck = 0
			}
		}
	}
	p.b.Done(m, psi.SwitchSection)
	return true
}

func (p *Parser) tryParseSwitchLabel() {
	if p.atKeyword(token.KeywordDefault) {
		p.b.Advance()
		p.expect(token.Colon, "':'")
		return
	}
	p.b.Advance() // case
	var recovery bool
	if !p.tryParseNonAssignmentExpression(&recovery) {
		p.b.InlineError("expected an expression after 'case'")
	}
	if p.atKeyword(token.KeywordWhen) {
		p.b.Advance()
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected an expression following 'when'")
		}
	}
	p.expect(token.Colon, "':'")
}

// tryParseTryStatement matches `try block catch-clause* ('finally'
// block)?`.
func (p *Parser) tryParseTryStatement() bool {
	m := p.b.Mark()
	p.b.Advance() // try
	if !p.tryParseBlock() {
		p.b.InlineError("expected a block after 'try'")
	}
	for p.atKeyword(token.KeywordCatch) {
		cm := p.b.Mark()
		p.b.Advance()
		if p.at(token.OpenParen) {
			p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen)
			if !p.b.AtEnd() {
				p.tryParseTypePath()
				if p.at(token.KeywordOrIdentifier) {
					p.b.Advance()
				}
			}
			p.b.PopStream()
		}
		if !p.tryParseBlock() {
			p.b.InlineError("expected a block after 'catch'")
		}
		p.b.Done(cm, psi.CatchClause)
	}
	if p.atKeyword(token.KeywordFinally) {
		fm := p.b.Mark()
		p.b.Advance()
		if !p.tryParseBlock() {
			p.b.InlineError("expected a block after 'finally'")
		}
		p.b.Done(fm, psi.FinallyClause)
	}
	p.b.Done(m, psi.TryStatement)
	return true
}

// tryParseWithStatement matches `with expr-list block`.
func (p *Parser) tryParseWithStatement() bool {
	m := p.b.Mark()
	p.b.Advance() // with
	if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		if !p.b.AtEnd() {
			p.parseCommaSeparatedList(false, func() bool {
				_, ok := p.tryParseExpressionNode(new(bool))
				return ok
			})
		}
		p.b.PopStream()
	} else {
		p.b.InlineError("expected '(' after 'with'")
	}
	if !p.tryParseBlock() {
		p.b.InlineError("expected a block after 'with' statement")
	}
	p.b.Done(m, psi.WithStatement)
	return true
}

// tryParseUsingStatement matches either `using ( expr-list ) block` or
// `using expr ;` (the scoped-declaration form).
func (p *Parser) tryParseUsingStatement() bool {
	m := p.b.Mark()
	p.b.Advance() // using
	if p.at(token.OpenParen) {
		p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen)
		if !p.b.AtEnd() {
			p.parseCommaSeparatedList(false, func() bool {
				_, ok := p.tryParseExpressionNode(new(bool))
				return ok
			})
		}
		p.b.PopStream()
		if !p.tryParseBlock() {
			p.b.InlineError("expected a block after 'using' statement")
		}
		p.b.Done(m, psi.UsingStatement)
		return true
	}
	var recovery bool
	if !p.tryParseExpression(&recovery) {
		p.b.InlineError("expected an expression")
	}
	p.expect(token.SemiColon, "';'")
	p.b.Done(m, psi.UsingStatement)
	return true
}

func (p *Parser) tryParseJumpStatement(kind psi.Kind) bool {
	m := p.b.Mark()
	p.b.Advance()
	p.expect(token.SemiColon, "';'")
	p.b.Done(m, kind)
	return true
}

// tryParseReturnStatement matches `return expression? ;`.
func (p *Parser) tryParseReturnStatement() bool {
	m := p.b.Mark()
	p.b.Advance() // return
	if !p.at(token.SemiColon) {
		var recovery bool
		p.tryParseExpression(&recovery)
	}
	p.expect(token.SemiColon, "';'")
	p.b.Done(m, psi.ReturnStatement)
	return true
}

// tryParseThrowStatement matches `throw expression ;`.
func (p *Parser) tryParseThrowStatement() bool {
	m := p.b.Mark()
	p.b.Advance() // throw
	var recovery bool
	if !p.tryParseExpression(&recovery) {
		p.b.InlineError("expected an expression following 'throw'")
	}
	p.expect(token.SemiColon, "';'")
	p.b.Done(m, psi.ThrowStatement)
	return true
}
