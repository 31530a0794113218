package parse

import (
	"github.com/emberlang/emberc/internal/psi"
	"github.com/emberlang/emberc/internal/token"
)

// tryParseQualifiedName matches `identifier (. identifier)*`, used by
// using-directives and namespace declarations (names there are never
// generic, unlike type paths).
func (p *Parser) tryParseQualifiedName() (psi.NodeIndex, bool) {
	if !p.at(token.KeywordOrIdentifier) {
		return psi.InvalidNodeIndex, false
	}
	m := p.b.Mark()
	p.b.Advance()
	kind := psi.IdentifierName
	for p.at(token.Dot) {
		p.b.Advance()
		if !p.expect(token.KeywordOrIdentifier, "an identifier") {
			break
		}
		kind = psi.QualifiedName
	}
	return p.b.Done(m, kind), true
}

// tryParseTypePath matches a (possibly qualified, possibly generic,
// possibly array/nullable) type reference: `A.B<C, D>[]?`.
func (p *Parser) tryParseTypePath() (psi.NodeIndex, bool) {
	if !p.at(token.KeywordOrIdentifier) {
		return psi.InvalidNodeIndex, false
	}
	m := p.b.Mark()
	p.b.Advance()
	for p.at(token.Dot) {
		p.b.Advance()
		if !p.expect(token.KeywordOrIdentifier, "an identifier") {
			break
		}
	}
	if p.tryGetAngleBracketSubStream() {
		args := p.b.Mark()
		p.parseCommaSeparatedList(false, func() bool {
			_, ok := p.tryParseTypePath()
			return ok
		})
		p.b.PopStream()
		p.b.Done(args, psi.TypeArgumentList)
	}
	result := p.b.Done(m, psi.TypePath)

	// `[]` and a single trailing `?` wrap the whole path just parsed, via
	// Precede — the node they wrap is already closed, so each wrap only
	// needs the NodeIndex, not the original Marker.
	for p.at(token.SquareBraceOpen) {
		// A `[` holding anything but a rank specifier (`[]`, `[,]`, …) is
		// not part of the type: `new int[3]` leaves `[3]` to the
		// array-creation expression.
		save := p.b.TokenIndex()
		p.b.Advance()
		sized := !p.at(token.SquareBraceClose) && !p.at(token.Comma)
		p.b.SetTokenIndex(save)
		if sized {
			break
		}
		if !p.b.TryGetDelimitedSubStream(token.SquareBraceOpen, token.SquareBraceClose) {
			break
		}
		// A comma immediately inside `[...]` is the C#-family rank
		// specifier for a multi-dimensional array (`[,]`, `[,,]`, …).
		// Multi-dimensional array syntax itself is out of scope (spec
		// Non-goals), but the rank specifier is still recognized well
		// enough to diagnose rather than silently consuming it.
		if !p.b.AtEnd() && p.b.CurrentKind() == token.Comma {
			em := p.b.Mark()
			for !p.b.AtEnd() {
				p.b.Advance()
			}
			p.b.Error(em, "unsupported multi-dimensional array rank")
		}
		p.b.PopStream()
		wrap := p.b.PrecedeNode(result)
		result = p.b.Done(wrap, psi.ArrayType)
	}
	if p.at(token.QuestionMark) {
		p.b.Advance()
		wrap := p.b.PrecedeNode(result)
		result = p.b.Done(wrap, psi.NullableType)
	}
	return result, true
}
