package parse

import "github.com/emberlang/emberc/internal/token"

// parseCommaSeparatedList is the comma-list helper from spec §4.E: it
// alternates element/comma until the current sub-stream is exhausted,
// skipping with an error to the next comma over any element that fails
// to parse. An already-exhausted sub-stream yields no elements and no
// error. allowTrailingComma controls whether a
// bare trailing comma right before the stream end is accepted silently.
func (p *Parser) parseCommaSeparatedList(allowTrailingComma bool, tryElement func() bool) {
	stuck := 0
	for !p.b.AtEnd() {
		before := p.b.TokenIndex()
		if tryElement() {
			stuck = 0
		} else {
			p.recoverToCommaOrEnd("unexpected token in list")
		}
		if !p.progressed(before) {
			stuck++
			if stuck >= maxStuckIterations {
				p.forceAdvance("parser stuck")
				stuck = 0
			}
		}
		if p.b.AtEnd() {
			return
		}
		if !p.at(token.Comma) {
			p.b.InlineError("expected ',' or end of list")
			return
		}
		p.b.Advance()
		if p.b.AtEnd() {
			if !allowTrailingComma {
				p.b.InlineError("trailing comma not allowed here")
			}
			return
		}
	}
}

// recoverToCommaOrEnd consumes tokens up to (not including) the next
// comma or the sub-stream end, emitting a single error node.
func (p *Parser) recoverToCommaOrEnd(message string) {
	m := p.b.Mark()
	for !p.b.AtEnd() && !p.at(token.Comma) {
		p.b.Advance()
	}
	p.b.Error(m, message)
}
