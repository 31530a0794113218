// Package parse implements the recursive-descent parser from spec §4.E
// over an internal/psi.Builder: every tryParse… production reports
// whether it matched (some also return the NodeIndex they produced), and
// the expression productions additionally take a needsRecovery flag, so
// a caller can tell apart "nothing here", "clean match", and "matched
// but had to recover" without inspecting the builder's error list.
package parse

import (
	"fmt"

	"github.com/emberlang/emberc/internal/psi"
	"github.com/emberlang/emberc/internal/token"
)

// maxStuckIterations bounds how many consecutive zero-progress outer-loop
// iterations a list/block parser tolerates before forcing a one-token
// advance, per spec §4.E's recovery policy.
const maxStuckIterations = 3

// Parser drives a psi.Builder through the grammar. It holds no state of
// its own beyond the builder; the list and block parsers keep their
// stuck counters in local variables to guarantee forward progress.
type Parser struct {
	b *psi.Builder
}

// New creates a Parser over an already-tokenized, delimiter-matched
// builder.
func New(b *psi.Builder) *Parser {
	return &Parser{b: b}
}

// ParseFile parses using/namespace directives followed by top-level type
// declarations until the stream is exhausted. It does not close the file
// root node opened by psi.NewBuilder.
func (p *Parser) ParseFile() {
	for !p.b.AtEnd() {
		if p.tryParseUsingDirective() {
			continue
		}
		if p.tryParseNamespaceDeclaration() {
			continue
		}
		if _, _, matched := p.tryParseTypeDeclaration() ; matched {
			continue
		}
		p.recoverAt(topLevelAnchors, "expected a using directive, namespace, or type declaration")
	}
}

// --- token helpers -------------------------------------------------

func (p *Parser) at(k token.Kind) bool { return p.b.CurrentKind() == k }

func (p *Parser) atKeyword(kw token.Keyword) bool {
	cur := p.b.Current()
	return cur.Kind == token.KeywordOrIdentifier && cur.Keyword == kw
}

// tokenText returns the source text of the token at the cursor without
// consuming it.
func (p *Parser) tokenText() []byte {
	start := p.b.TokenIndex()
	return p.b.TokenText(start, start+1)
}

// expect consumes the current token if it matches k, reporting an inline
// error and leaving the cursor untouched otherwise.
func (p *Parser) expect(k token.Kind, what string) bool {
	if p.at(k) {
		p.b.Advance()
		return true
	}
	p.b.InlineError(fmt.Sprintf("expected %s", what))
	return false
}

// --- recovery --------------------------------------------------------

type anchorSet struct {
	kinds    map[token.Kind]bool
	keywords map[token.Keyword]bool
}

func anchors(kinds []token.Kind, keywords []token.Keyword) anchorSet {
	a := anchorSet{kinds: map[token.Kind]bool{}, keywords: map[token.Keyword]bool{}}
	for _, k := range kinds {
		a.kinds[k] = true
	}
	for _, k := range keywords {
		a.keywords[k] = true
	}
	return a
}

func (a anchorSet) matches(b *psi.Builder) bool {
	if b.AtEnd() {
		return true
	}
	cur := b.Current()
	if a.kinds[cur.Kind] {
		return true
	}
	if cur.Kind == token.KeywordOrIdentifier && a.keywords[cur.Keyword] {
		return true
	}
	return false
}

var statementAnchors = anchors(
	[]token.Kind{token.SemiColon, token.CurlyBraceClose},
	[]token.Keyword{token.KeywordIf, token.KeywordFor, token.KeywordForeach, token.KeywordWhile, token.KeywordDo,
		token.KeywordSwitch, token.KeywordTry, token.KeywordUsing, token.KeywordWith, token.KeywordReturn,
		token.KeywordBreak, token.KeywordContinue, token.KeywordThrow},
)

var topLevelAnchors = anchors(
	[]token.Kind{},
	[]token.Keyword{token.KeywordUsing, token.KeywordNamespace, token.KeywordClass, token.KeywordStruct,
		token.KeywordEnum, token.KeywordInterface, token.KeywordDelegate},
)

var memberAnchors = anchors(
	[]token.Kind{token.CurlyBraceClose},
	[]token.Keyword{token.KeywordPublic, token.KeywordPrivate, token.KeywordProtected, token.KeywordInternal,
		token.KeywordStatic, token.KeywordConst, token.KeywordClass, token.KeywordStruct, token.KeywordEnum,
		token.KeywordInterface, token.KeywordDelegate},
)

// recoverAt consumes tokens up to (not including) the first token
// matching anchor, emitting a single error node spanning the skipped
// region. It always advances at least one token so callers never loop
// forever on a token no anchor set recognizes.
func (p *Parser) recoverAt(anchor anchorSet, message string) {
	m := p.b.Mark()
	consumed := 0
	for !anchor.matches(p.b) {
		p.b.Advance()
		consumed++
	}
	if consumed == 0 {
		if !p.b.AtEnd() {
			p.b.Advance()
		}
	}
	p.b.Error(m, message)
}

// forceAdvance emits an error node over a single token and consumes it
// unconditionally — the last-resort progress guarantee for a parser that
// has made zero progress for maxStuckIterations in a row (spec §4.E).
func (p *Parser) forceAdvance(message string) {
	m := p.b.Mark()
	if !p.b.AtEnd() {
		p.b.Advance()
	}
	p.b.Error(m, message)
}

// progressed reports whether the cursor moved since before — callers use
// this to detect a zero-width "successful" match and feed a stuck
// counter so an outer loop still terminates.
func (p *Parser) progressed(before int32) bool {
	return p.b.TokenIndex() != before
}
