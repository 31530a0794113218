package parse

import (
	"github.com/emberlang/emberc/internal/psi"
	"github.com/emberlang/emberc/internal/token"
)

// tryParseUsingDirective matches `using Qualified.Name ;` at file scope.
func (p *Parser) tryParseUsingDirective() bool {
	if !p.atKeyword(token.KeywordUsing) {
		return false
	}
	m := p.b.Mark()
	p.b.Advance()
	if _, ok := p.tryParseQualifiedName(); !ok {
		p.recoverAt(statementAnchors, "expected a namespace path")
	}
	p.expect(token.SemiColon, "';'")
	p.b.Done(m, psi.UsingDirective)
	return true
}

// tryParseNamespaceDeclaration matches `namespace Qualified.Name { … }`.
func (p *Parser) tryParseNamespaceDeclaration() bool {
	if !p.atKeyword(token.KeywordNamespace) {
		return false
	}
	m := p.b.Mark()
	p.b.Advance()
	if _, ok := p.tryParseQualifiedName(); !ok {
		p.recoverAt(topLevelAnchors, "expected a namespace name")
	}
	if p.b.TryGetDelimitedSubStream(token.CurlyBraceOpen, token.CurlyBraceClose) {
		for !p.b.AtEnd() {
			before := p.b.TokenIndex()
			if p.tryParseUsingDirective() || p.tryParseNamespaceDeclaration() {
				continue
			}
			if _, _, matched := p.tryParseTypeDeclaration(); matched {
				continue
			}
			p.recoverAt(topLevelAnchors, "expected a declaration")
			if !p.progressed(before) {
				p.forceAdvance("parser stuck")
			}
		}
		p.b.PopStream()
	} else {
		p.expect(token.SemiColon, "';' or '{'")
	}
	p.b.Done(m, psi.NamespaceDeclaration)
	return true
}

var typeDeclKeywords = map[token.Keyword]psi.Kind{
	token.KeywordClass:     psi.ClassDeclaration,
	token.KeywordStruct:    psi.StructDeclaration,
	token.KeywordEnum:      psi.EnumDeclaration,
	token.KeywordInterface: psi.InterfaceDeclaration,
	token.KeywordDelegate:  psi.DelegateDeclaration,
}

var modifierKeywords = map[token.Keyword]bool{
	token.KeywordPublic: true, token.KeywordPrivate: true, token.KeywordProtected: true,
	token.KeywordInternal: true, token.KeywordStatic: true, token.KeywordAbstract: true,
	token.KeywordVirtual: true, token.KeywordOverride: true, token.KeywordSealed: true,
	token.KeywordExtern: true, token.KeywordReadonly: true,
	token.KeywordExport: true,
}

// tryParseModifierList consumes zero or more modifier keywords, always
// producing a ModifierList node (possibly empty) so callers can treat it
// uniformly.
func (p *Parser) tryParseModifierList() psi.NodeIndex {
	m := p.b.Mark()
	for {
		cur := p.b.Current()
		if cur.Kind != token.KeywordOrIdentifier || !modifierKeywords[cur.Keyword] {
			break
		}
		p.b.Advance()
	}
	return p.b.Done(m, psi.ModifierList)
}

// tryParseTypeDeclaration matches a class/struct/enum/interface/delegate
// declaration, including its leading modifier list: the callers'
// scope (top-level/namespace/member) loops leave modifiers unconsumed,
// and each call here parses its own, since modifiers always immediately
// precede the introducing keyword.
func (p *Parser) tryParseTypeDeclaration() (psi.NodeIndex, bool, bool) {
	// Peek past any modifiers to see whether a type-introducing keyword
	// follows, then roll back — the real parse below reconsumes them
	// inside the node it opens.
	scan := p.b.Mark()
	for {
		cur := p.b.Current()
		if cur.Kind != token.KeywordOrIdentifier || !modifierKeywords[cur.Keyword] {
			break
		}
		p.b.Advance()
	}
	cur := p.b.Current()
	kind, isType := typeDeclKeywords[cur.Keyword]
	p.b.Rollback(scan)
	if cur.Kind != token.KeywordOrIdentifier || !isType {
		return psi.InvalidNodeIndex, false, false
	}

	m := p.b.Mark()
	p.tryParseModifierList()
	introducer := p.b.Current().Keyword
	p.b.Advance()

	needsRecovery := false
	if !p.expect(token.KeywordOrIdentifier, "a type name") {
		needsRecovery = true
	}

	p.tryParseGenericParameterList()

	if introducer == token.KeywordDelegate {
		if p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
			if !p.b.AtEnd() {
				p.parseCommaSeparatedList(false, p.tryParseFormalParameter)
			}
			p.b.PopStream()
		}
		p.expect(token.SemiColon, "';'")
		idx := p.b.Done(m, kind)
		return idx, true, needsRecovery
	}

	if p.at(token.Colon) {
		p.b.Advance()
		p.tryParseBaseList()
	}

	p.tryParseWhereClauseList()

	if introducer == token.KeywordEnum {
		if p.b.TryGetDelimitedSubStream(token.CurlyBraceOpen, token.CurlyBraceClose) {
			if !p.b.AtEnd() {
				p.parseCommaSeparatedList(true, p.tryParseEnumMember)
			}
			p.b.PopStream()
		} else {
			needsRecovery = true
			p.recoverAt(memberAnchors, "expected '{'")
		}
		idx := p.b.Done(m, kind)
		return idx, true, needsRecovery
	}

	if introducer == token.KeywordInterface {
		// Per the original's TryParseInterfaceDeclaration (left permanently
		// unimplemented — "interface not implemented"), interface member
		// lists are not parsed: a bare `{}` is accepted, but anything inside
		// attaches a single "unsupported interface body" error node instead
		// of recursing into tryParseMember.
		if p.b.TryGetDelimitedSubStream(token.CurlyBraceOpen, token.CurlyBraceClose) {
			if !p.b.AtEnd() {
				em := p.b.Mark()
				for !p.b.AtEnd() {
					p.b.Advance()
				}
				p.b.Error(em, "unsupported interface body")
			}
			p.b.PopStream()
		} else {
			needsRecovery = true
			p.recoverAt(memberAnchors, "expected '{'")
		}
		idx := p.b.Done(m, kind)
		return idx, true, needsRecovery
	}

	if p.b.TryGetDelimitedSubStream(token.CurlyBraceOpen, token.CurlyBraceClose) {
		for !p.b.AtEnd() {
			before := p.b.TokenIndex()
			if p.tryParseMember() {
				continue
			}
			p.recoverAt(memberAnchors, "expected a member declaration")
			if !p.progressed(before) {
				p.forceAdvance("parser stuck")
			}
		}
		p.b.PopStream()
	} else {
		needsRecovery = true
		p.recoverAt(memberAnchors, "expected '{'")
	}

	idx := p.b.Done(m, kind)
	return idx, true, needsRecovery
}

func (p *Parser) tryParseEnumMember() bool {
	if !p.at(token.KeywordOrIdentifier) {
		return false
	}
	m := p.b.Mark()
	p.b.Advance()
	if p.at(token.Assign) {
		p.b.Advance()
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.recoverAt(anchors([]token.Kind{token.Comma, token.CurlyBraceClose}, nil), "expected a constant value")
		}
	}
	p.b.Done(m, psi.EnumMember)
	return true
}

// tryParseBaseList matches a comma-separated list of type paths after a
// base-list colon.
func (p *Parser) tryParseBaseList() psi.NodeIndex {
	m := p.b.Mark()
	p.parseCommaSeparatedList(false, func() bool {
		_, ok := p.tryParseTypePath()
		return ok
	})
	return p.b.Done(m, psi.BaseList)
}

// tryParseGenericParameterList matches `< T, U, … >` after a type or
// method name, if present.
func (p *Parser) tryParseGenericParameterList() (psi.NodeIndex, bool) {
	if !p.tryGetAngleBracketSubStream() {
		return psi.InvalidNodeIndex, false
	}
	m := p.b.Mark()
	p.parseCommaSeparatedList(false, p.tryParseGenericParameter)
	p.b.PopStream()
	return p.b.Done(m, psi.GenericParameterList), true
}

func (p *Parser) tryParseGenericParameter() bool {
	if !p.at(token.KeywordOrIdentifier) {
		return false
	}
	m := p.b.Mark()
	p.b.Advance()
	p.b.Done(m, psi.GenericParameter)
	return true
}

// tryParseWhereClauseList matches zero or more `where T : constraint, …`
// clauses; it is not represented as its own node kind, only as its effect
// of consuming tokens, matching the teacher's convention of not emitting
// nodes for constructs outside the spec's grammar-highlights list.
func (p *Parser) tryParseWhereClauseList() {
	for p.atKeyword(token.KeywordWhere) {
		p.b.Advance()
		p.expect(token.KeywordOrIdentifier, "a type parameter name")
		if p.expect(token.Colon, "':'") {
			p.parseCommaSeparatedList(false, func() bool {
				_, ok := p.tryParseTypePath()
				return ok
			})
		}
	}
}

// tryGetAngleBracketSubStream scans forward for a balanced `< … >` run
// that doesn't cross a statement/block boundary, without the pre-match
// psi.Builder does for (){}[] at Initialize time (angle brackets are
// ambiguous with comparison operators, so they can only be resolved by
// the parser itself, per spec §4.E's `>` disambiguation note). On success
// it pushes a sub-stream scoped to the contents, exactly like
// TryGetDelimitedSubStream.
func (p *Parser) tryGetAngleBracketSubStream() bool {
	if !p.at(token.AngleBracketOpen) {
		return false
	}
	start := p.b.TokenIndex()
	scan := p.b.Mark()
	depth := 0
	matched := int32(-1)
loop:
	for !p.b.AtEnd() {
		switch p.b.CurrentKind() {
		case token.AngleBracketOpen:
			depth++
			p.b.Advance()
		case token.AngleBracketClose:
			depth--
			idx := p.b.TokenIndex()
			p.b.Advance()
			if depth == 0 {
				matched = idx
				break loop
			}
			if depth < 0 {
				break loop
			}
		case token.SemiColon, token.CurlyBraceOpen, token.CurlyBraceClose:
			break loop
		default:
			p.b.Advance()
		}
	}
	p.b.Rollback(scan)
	if matched < 0 {
		return false
	}
	p.b.PushStream(start+1, matched)
	return true
}
