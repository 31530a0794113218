package parse

import (
	"github.com/emberlang/emberc/internal/psi"
	"github.com/emberlang/emberc/internal/token"
)

// tryParseFormalParameter matches `[modifiers] Type identifier [= default]`
// inside a parameter-list sub-stream.
func (p *Parser) tryParseFormalParameter() bool {
	if !p.at(token.KeywordOrIdentifier) {
		return false
	}
	m := p.b.Mark()
	for {
		cur := p.b.Current()
		if cur.Kind != token.KeywordOrIdentifier {
			break
		}
		switch cur.Keyword {
		case token.KeywordRef, token.KeywordOut, token.KeywordParams, token.KeywordThis, token.KeywordScoped:
			p.b.Advance()
			continue
		}
		break
	}
	if _, ok := p.tryParseTypePath(); !ok {
		p.b.Error(m, "expected a parameter type")
		return true
	}
	p.expect(token.KeywordOrIdentifier, "a parameter name")
	if p.at(token.Assign) {
		p.b.Advance()
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected a default value expression")
		}
	}
	p.b.Done(m, psi.Parameter)
	return true
}

// tryParseMember dispatches on lookahead to the field/property/indexer/
// constructor/method/constant productions, all of which share the
// `[modifiers] Type name` prefix (constructors are instead introduced by
// the `constructor` keyword, with no return type or name).
func (p *Parser) tryParseMember() bool {
	m := p.b.Mark()
	p.tryParseModifierList()

	if p.atKeyword(token.KeywordConst) {
		p.b.Advance()
		if _, ok := p.tryParseTypePath(); !ok {
			p.b.Error(m, "expected a constant type")
			return true
		}
		p.parseCommaSeparatedList(false, p.tryParseConstantDeclarator)
		p.expect(token.SemiColon, "';'")
		p.b.Done(m, psi.ConstantDeclaration)
		return true
	}

	if p.atKeyword(token.KeywordConstructor) {
		p.b.Advance()
		if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
			if !p.b.AtEnd() {
				p.parseCommaSeparatedList(false, p.tryParseFormalParameter)
			}
			p.b.PopStream()
		}
		if !p.tryParseBlock() {
			p.expect(token.SemiColon, "';' or a constructor body")
		}
		p.b.Done(m, psi.ConstructorDeclaration)
		return true
	}

	if _, ok := p.tryParseTypePath(); !ok {
		p.b.Rollback(m)
		return false
	}

	if !p.expect(token.KeywordOrIdentifier, "a member name") {
		p.b.Done(m, psi.ErrorNode)
		return true
	}

	switch {
	case p.at(token.OpenParen):
		if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
			if !p.b.AtEnd() {
				p.parseCommaSeparatedList(false, p.tryParseFormalParameter)
			}
			p.b.PopStream()
		}
		if !p.tryParseBlock() {
			p.expect(token.SemiColon, "';' or a method body")
		}
		p.b.Done(m, psi.MethodDeclaration)
		return true

	case p.at(token.CurlyBraceOpen), p.at(token.FatArrow):
		p.tryParsePropertyBody()
		p.b.Done(m, psi.PropertyDeclaration)
		return true

	case p.at(token.SquareBraceOpen):
		if p.b.TryGetDelimitedSubStream(token.SquareBraceOpen, token.SquareBraceClose) {
			if !p.b.AtEnd() {
				p.parseCommaSeparatedList(false, p.tryParseFormalParameter)
			}
			p.b.PopStream()
		}
		p.tryParsePropertyBody()
		p.b.Done(m, psi.IndexerDeclaration)
		return true

	default:
		p.parseCommaSeparatedList(false, p.tryParseFieldDeclarator)
		p.expect(token.SemiColon, "';'")
		p.b.Done(m, psi.FieldDeclaration)
		return true
	}
}

func (p *Parser) tryParseConstantDeclarator() bool {
	if !p.at(token.KeywordOrIdentifier) {
		return false
	}
	p.b.Advance()
	if p.expect(token.Assign, "'='") {
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected a constant value")
		}
	}
	return true
}

func (p *Parser) tryParseFieldDeclarator() bool {
	if !p.at(token.KeywordOrIdentifier) {
		return false
	}
	p.b.Advance()
	if p.at(token.Assign) {
		p.b.Advance()
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected an initializer expression")
		}
	}
	return true
}

// tryParsePropertyBody matches `{ get; set; }`-shaped accessor lists,
// `{ get => expr; }`-shaped expression accessors, or a bare `=> expr ;`
// expression-bodied property/indexer.
func (p *Parser) tryParsePropertyBody() {
	if p.at(token.FatArrow) {
		p.b.Advance()
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected an expression")
		}
		p.expect(token.SemiColon, "';'")
		return
	}
	if !p.b.TryGetDelimitedSubStream(token.CurlyBraceOpen, token.CurlyBraceClose) {
		p.b.InlineError("expected an accessor list")
		return
	}
	stuck := 0
	for !p.b.AtEnd() {
		before := p.b.TokenIndex()
		p.tryParseAccessorModifiers()
		switch {
		case p.atKeyword(token.KeywordGet):
			p.tryParseAccessor(psi.AccessorDeclaration)
		case p.atKeyword(token.KeywordSet):
			p.tryParseAccessor(psi.AccessorDeclaration)
		default:
			p.recoverAt(anchors([]token.Kind{token.CurlyBraceClose}, nil), "expected 'get' or 'set'")
		}
		if !p.progressed(before) {
			stuck++
			if stuck >= maxStuckIterations {
				p.forceAdvance("parser stuck")
				stuck = 0
			}
		}
	}
	p.b.PopStream()
}

func (p *Parser) tryParseAccessorModifiers() {
	for {
		cur := p.b.Current()
		if cur.Kind != token.KeywordOrIdentifier {
			return
		}
		switch cur.Keyword {
		case token.KeywordPublic, token.KeywordPrivate, token.KeywordProtected, token.KeywordInternal:
			p.b.Advance()
		default:
			return
		}
	}
}

func (p *Parser) tryParseAccessor(kind psi.Kind) bool {
	m := p.b.Mark()
	p.b.Advance() // get/set keyword
	switch {
	case p.at(token.FatArrow):
		p.b.Advance()
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected an expression")
		}
		p.expect(token.SemiColon, "';'")
	case p.tryParseBlock():
	default:
		p.expect(token.SemiColon, "';'")
	}
	p.b.Done(m, kind)
	return true
}
