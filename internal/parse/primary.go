package parse

import (
	"github.com/emberlang/emberc/internal/psi"
	"github.com/emberlang/emberc/internal/token"
)

// tryParsePostfixExpression parses a primary expression, then chains
// `.member`, `?.member`, `(args)`, `[index]`, `++`, `--` onto it.
func (p *Parser) tryParsePostfixExpression(needsRecovery *bool) (psi.NodeIndex, bool) {
	lhs, ok := p.tryParsePrimaryExpression(needsRecovery)
	if !ok {
		return psi.InvalidNodeIndex, false
	}
	for {
		switch {
		case p.at(token.Dot), p.at(token.ConditionalAccess):
			p.b.Advance()
			m := p.b.PrecedeNode(lhs)
			p.expect(token.KeywordOrIdentifier, "a member name")
			lhs = p.b.Done(m, psi.MemberAccessExpression)
		case p.at(token.OpenParen):
			m := p.b.PrecedeNode(lhs)
			p.tryParseArgumentList()
			lhs = p.b.Done(m, psi.InvocationExpression)
		case p.at(token.SquareBraceOpen):
			m := p.b.PrecedeNode(lhs)
			if p.b.TryGetDelimitedSubStream(token.SquareBraceOpen, token.SquareBraceClose) {
				if !p.b.AtEnd() {
					p.parseCommaSeparatedList(false, func() bool {
						_, ok := p.tryParseExpressionNode(needsRecovery)
						return ok
					})
				}
				p.b.PopStream()
			}
			lhs = p.b.Done(m, psi.ElementAccessExpression)
		case p.at(token.Increment), p.at(token.Decrement):
			p.b.Advance()
			m := p.b.PrecedeNode(lhs)
			lhs = p.b.Done(m, psi.PostfixExpression)
		default:
			return lhs, true
		}
	}
}

// tryParseArgumentList matches a `(args)` call's parenthesized argument
// list, assuming the cursor is at the opening paren.
func (p *Parser) tryParseArgumentList() psi.NodeIndex {
	m := p.b.Mark()
	if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		if !p.b.AtEnd() {
			p.parseCommaSeparatedList(false, p.tryParseArgument)
		}
		p.b.PopStream()
	}
	return p.b.Done(m, psi.ArgumentList)
}

func (p *Parser) tryParseArgument() bool {
	m := p.b.Mark()
	switch {
	case p.atKeyword(token.KeywordRef), p.atKeyword(token.KeywordOut):
		p.b.Advance()
	}
	var recovery bool
	if !p.tryParseExpression(&recovery) {
		p.b.Rollback(m)
		return false
	}
	p.b.Done(m, psi.Argument)
	return true
}

var literalKinds = map[token.Kind]bool{
	token.Int32Literal: true, token.Int64Literal: true, token.UInt32Literal: true,
	token.UInt64Literal: true, token.FloatLiteral: true, token.DoubleLiteral: true,
	token.HexLiteral: true, token.BinaryNumberLiteral: true,
}

// tryParsePrimaryExpression matches the grammar's terminal expression
// forms: literals, identifiers/generic names, parenthesized expressions,
// `new`, `typeof`, `default`, `nameof`, `sizeof`, and interpolated
// strings. Switch-expressions are parsed by tryParseSwitchExpression.
func (p *Parser) tryParsePrimaryExpression(needsRecovery *bool) (psi.NodeIndex, bool) {
	cur := p.b.Current()

	if literalKinds[cur.Kind] {
		m := p.b.Mark()
		p.b.Advance()
		return p.b.Done(m, psi.LiteralExpression), true
	}

	if cur.Kind == token.KeywordOrIdentifier {
		switch cur.Keyword {
		case token.KeywordTrue, token.KeywordFalse, token.KeywordNull, token.KeywordThis, token.KeywordBase:
			m := p.b.Mark()
			p.b.Advance()
			return p.b.Done(m, psi.LiteralExpression), true
		case token.KeywordNew:
			return p.tryParseObjectCreationExpression(needsRecovery)
		case token.KeywordTypeof:
			return p.tryParseKeywordParenType(psi.TypeofExpression)
		case token.KeywordDefault:
			return p.tryParseDefaultExpression(needsRecovery)
		case token.KeywordNameof:
			return p.tryParseKeywordParenExpression(psi.NameofExpression, needsRecovery)
		case token.KeywordSizeof:
			return p.tryParseKeywordParenType(psi.SizeofExpression)
		case token.KeywordNone:
			return p.tryParseNameExpression()
		}
		return psi.InvalidNodeIndex, false
	}

	if cur.Kind == token.StringStart || cur.Kind == token.MultiLineStringStart {
		return p.tryParseInterpolatedString(), true
	}

	if cur.Kind == token.OpenCharacter || cur.Kind == token.OpenStyle {
		return p.tryParseOpaqueLiteral(), true
	}

	if cur.Kind == token.OpenParen {
		return p.tryParseParenthesizedExpression(needsRecovery)
	}

	return psi.InvalidNodeIndex, false
}

// tryParseOpaqueLiteral consumes a character or style literal: an
// Open.../RegularPart/Close... triple with no interpolation, per the
// tokenizer's Character/Style states.
func (p *Parser) tryParseOpaqueLiteral() psi.NodeIndex {
	m := p.b.Mark()
	closeKind := token.CloseCharacter
	if p.b.CurrentKind() == token.OpenStyle {
		closeKind = token.CloseStyle
	}
	p.b.Advance()
	for !p.b.AtEnd() && p.b.CurrentKind() != closeKind {
		p.b.Advance()
	}
	if !p.b.AtEnd() {
		p.b.Advance()
	} else {
		p.b.InlineError("unterminated literal")
	}
	return p.b.Done(m, psi.LiteralExpression)
}

// tryParseInterpolatedString consumes a StringStart/MultiLineStringStart
// run through its matching end token, threading each RegularStringPart
// and $identifier/${expr} interpolation into its own InterpolatedStringPart
// child, per spec §4.C's string/interpolation token shapes.
func (p *Parser) tryParseInterpolatedString() psi.NodeIndex {
	m := p.b.Mark()
	endKind := token.StringEnd
	if p.b.CurrentKind() == token.MultiLineStringStart {
		endKind = token.MultiLineStringEnd
	}
	p.b.Advance()

	stuck := 0
	for !p.b.AtEnd() && p.b.CurrentKind() != endKind {
		before := p.b.TokenIndex()
		switch p.b.CurrentKind() {
		case token.LongStringInterpolationStart:
			pm := p.b.Mark()
			p.b.Advance()
			var recovery bool
			if !p.tryParseExpression(&recovery) {
				p.b.InlineError("expected an expression inside string interpolation")
			}
			if p.at(token.LongStringInterpolationEnd) {
				p.b.Advance()
			} else {
				p.b.InlineError("expected '}' to close string interpolation")
			}
			p.b.Done(pm, psi.InterpolatedStringPart)
		case token.RegularStringPart, token.ShortStringInterpolation:
			pm := p.b.Mark()
			p.b.Advance()
			p.b.Done(pm, psi.InterpolatedStringPart)
		default:
			p.b.Advance()
		}
		if p.progressed(before) {
			stuck = 0
		} else {
			stuck++
			if stuck >= maxStuckIterations {
				p.forceAdvance("parser stuck inside string interpolation")
				stuck = 0
			}
		}
	}
	if !p.b.AtEnd() {
		p.b.Advance()
	} else {
		p.b.InlineError("unterminated string")
	}
	return p.b.Done(m, psi.InterpolatedStringExpression)
}

// tryParseNameExpression matches a plain identifier, optionally generic
// (`Foo<Bar>`), as an IdentifierName/GenericName leaf.
func (p *Parser) tryParseNameExpression() (psi.NodeIndex, bool) {
	if !p.at(token.KeywordOrIdentifier) {
		return psi.InvalidNodeIndex, false
	}
	m := p.b.Mark()
	p.b.Advance()
	if p.tryGetAngleBracketSubStream() {
		args := p.b.Mark()
		p.parseCommaSeparatedList(false, func() bool {
			_, ok := p.tryParseTypePath()
			return ok
		})
		p.b.PopStream()
		p.b.Done(args, psi.TypeArgumentList)
		return p.b.Done(m, psi.GenericName), true
	}
	return p.b.Done(m, psi.IdentifierName), true
}

func (p *Parser) tryParseParenthesizedExpression(needsRecovery *bool) (psi.NodeIndex, bool) {
	m := p.b.Mark()
	if !p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		p.b.Rollback(m)
		return psi.InvalidNodeIndex, false
	}
	if !p.tryParseExpression(needsRecovery) {
		*needsRecovery = true
		p.b.InlineError("expected an expression")
	}
	p.b.PopStream()
	return p.b.Done(m, psi.ParenthesizedExpression), true
}

// tryParseKeywordParenType matches `keyword ( TypePath )`, used by
// `typeof`/`sizeof`.
func (p *Parser) tryParseKeywordParenType(kind psi.Kind) (psi.NodeIndex, bool) {
	m := p.b.Mark()
	p.b.Advance()
	if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		if _, ok := p.tryParseTypePath(); !ok {
			p.b.InlineError("expected a type")
		}
		p.b.PopStream()
	} else {
		p.b.InlineError("expected '('")
	}
	return p.b.Done(m, kind), true
}

// tryParseKeywordParenExpression matches `keyword ( expr )`, used by
// `nameof`.
func (p *Parser) tryParseKeywordParenExpression(kind psi.Kind, needsRecovery *bool) (psi.NodeIndex, bool) {
	m := p.b.Mark()
	p.b.Advance()
	if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		if !p.tryParseExpression(needsRecovery) {
			p.b.InlineError("expected an expression")
		}
		p.b.PopStream()
	} else {
		p.b.InlineError("expected '('")
	}
	return p.b.Done(m, kind), true
}

// tryParseDefaultExpression matches bare `default` or `default(T)`.
func (p *Parser) tryParseDefaultExpression(needsRecovery *bool) (psi.NodeIndex, bool) {
	m := p.b.Mark()
	p.b.Advance()
	if p.at(token.OpenParen) {
		if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
			if !p.b.AtEnd() {
				if _, ok := p.tryParseTypePath(); !ok {
					*needsRecovery = true
					p.b.InlineError("expected a type")
				}
			}
			p.b.PopStream()
		}
	}
	return p.b.Done(m, psi.DefaultExpression), true
}

var allocatorKeywords = map[token.Keyword]bool{
	token.KeywordTempAlloc: true, token.KeywordScopeAlloc: true, token.KeywordStackAlloc: true,
}

// tryParseObjectCreationExpression matches `new [allocator] Type (args)
// [initializer]`, `new Type [ … ] [initializer]` (array creation), and the
// dynamic object/array literal forms `new dynamic { … }` / `new dynamic [
// … ]`.
func (p *Parser) tryParseObjectCreationExpression(needsRecovery *bool) (psi.NodeIndex, bool) {
	m := p.b.Mark()
	p.b.Advance() // new

	if p.atKeyword(token.KeywordDynamic) {
		p.b.Advance()
		switch {
		case p.at(token.CurlyBraceOpen):
			p.tryParseInitializer(needsRecovery)
			return p.b.Done(m, psi.ObjectCreationExpression), true
		case p.at(token.SquareBraceOpen):
			p.tryParseArrayInitializerBracketed(needsRecovery)
			return p.b.Done(m, psi.ArrayCreationExpression), true
		}
		p.b.InlineError("expected '{' or '[' after 'new dynamic'")
		return p.b.Done(m, psi.ObjectCreationExpression), true
	}

	for allocatorKeywords[p.b.Current().Keyword] {
		p.b.Advance()
	}

	if _, ok := p.tryParseTypePath(); !ok {
		*needsRecovery = true
		p.b.InlineError("expected a type after 'new'")
		return p.b.Done(m, psi.ErrorNode), true
	}

	kind := psi.ObjectCreationExpression
	if p.at(token.OpenParen) {
		p.tryParseArgumentList()
	}
	if p.at(token.SquareBraceOpen) {
		kind = psi.ArrayCreationExpression
		p.tryParseArrayInitializerBracketed(needsRecovery)
	}
	if p.at(token.CurlyBraceOpen) {
		p.tryParseInitializer(needsRecovery)
	}
	return p.b.Done(m, kind), true
}

// tryParseArrayInitializerBracketed matches `[ size-or-elements ]`, used
// for both array-size specs (`new int[3]`) and indexed-element
// initializers (`new dynamic [ 1, 2, 3 ]`) — both are just a
// comma-separated expression list inside square brackets.
func (p *Parser) tryParseArrayInitializerBracketed(needsRecovery *bool) {
	if !p.b.TryGetDelimitedSubStream(token.SquareBraceOpen, token.SquareBraceClose) {
		return
	}
	if !p.b.AtEnd() {
		p.parseCommaSeparatedList(true, func() bool {
			_, ok := p.tryParseExpressionNode(needsRecovery)
			return ok
		})
	}
	p.b.PopStream()
}

// tryParseInitializer matches a `{ … }` object/collection initializer: a
// comma-separated list of either plain expressions (collection
// initializer elements) or `identifier = expression` (object initializer
// members).
func (p *Parser) tryParseInitializer(needsRecovery *bool) psi.NodeIndex {
	m := p.b.Mark()
	if p.b.TryGetDelimitedSubStream(token.CurlyBraceOpen, token.CurlyBraceClose) {
		if !p.b.AtEnd() {
			p.parseCommaSeparatedList(true, func() bool {
				return p.tryParseInitializerMember(needsRecovery)
			})
		}
		p.b.PopStream()
	}
	return p.b.Done(m, psi.InitializerExpression)
}

func (p *Parser) tryParseInitializerMember(needsRecovery *bool) bool {
	if p.at(token.KeywordOrIdentifier) {
		save := p.b.Mark()
		p.b.Advance()
		if p.at(token.Assign) {
			p.b.Advance()
			if !p.tryParseExpression(needsRecovery) {
				p.b.InlineError("expected an initializer value")
			}
			p.b.Done(save, psi.Argument)
			return true
		}
		p.b.Rollback(save)
	}
	if p.at(token.CurlyBraceOpen) {
		p.tryParseInitializer(needsRecovery)
		return true
	}
	_, ok := p.tryParseExpressionNode(needsRecovery)
	return ok
}
