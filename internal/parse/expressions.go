package parse

import (
	"github.com/emberlang/emberc/internal/psi"
	"github.com/emberlang/emberc/internal/token"
)

// tryParseExpression is the public entrypoint: assignment has the lowest
// precedence, so it tries a non-assignment expression first and, if an
// assignment operator follows, retroactively wraps it as the left side
// of an assignment.
func (p *Parser) tryParseExpression(needsRecovery *bool) bool {
	_, ok := p.tryParseExpressionNode(needsRecovery)
	return ok
}

func (p *Parser) tryParseExpressionNode(needsRecovery *bool) (psi.NodeIndex, bool) {
	lhs, ok := p.tryParseNonAssignmentExpression(needsRecovery)
	if !ok {
		return psi.InvalidNodeIndex, false
	}
	if assignmentOperators[p.b.CurrentKind()] {
		p.b.Advance()
		m := p.b.PrecedeNode(lhs)
		if _, rok := p.tryParseExpressionNode(needsRecovery); !rok {
			*needsRecovery = true
			p.b.InlineError("expected an expression after assignment operator")
		}
		return p.b.Done(m, psi.BinaryExpression), true
	}
	return lhs, true
}

var assignmentOperators = map[token.Kind]bool{
	token.Assign: true, token.PlusAssign: true, token.MinusAssign: true,
	token.MultiplyAssign: true, token.DivideAssign: true, token.ModulusAssign: true,
	token.AndAssign: true, token.OrAssign: true, token.XorAssign: true,
	token.CoalesceAssign: true,
}

// tryParseNonAssignmentExpression tries a lambda first (it needs
// unbounded lookahead through a parenthesized parameter list), then falls
// back to the ternary/binary ladder.
func (p *Parser) tryParseNonAssignmentExpression(needsRecovery *bool) (psi.NodeIndex, bool) {
	if idx, ok := p.tryParseLambdaExpression(needsRecovery); ok {
		return idx, true
	}
	return p.tryParseTernaryExpression(needsRecovery)
}

func (p *Parser) tryParseTernaryExpression(needsRecovery *bool) (psi.NodeIndex, bool) {
	cond, ok := p.tryParseSwitchOrCoalesceExpression(needsRecovery)
	if !ok {
		return psi.InvalidNodeIndex, false
	}
	if !p.at(token.QuestionMark) {
		return cond, true
	}
	p.b.Advance()
	m := p.b.PrecedeNode(cond)
	if _, ok := p.tryParseExpressionNode(needsRecovery); !ok {
		*needsRecovery = true
		p.b.InlineError("expected the 'true' branch of a ternary expression")
	}
	if p.expect(token.Colon, "':'") {
		if _, ok := p.tryParseExpressionNode(needsRecovery); !ok {
			*needsRecovery = true
			p.b.InlineError("expected the 'false' branch of a ternary expression")
		}
	}
	return p.b.Done(m, psi.TernaryExpression), true
}

// precedenceLevel is one entry in the binary-operator ladder: the set of
// operator kinds recognized at that level. tryParseLadder recurses by
// index to reach the next-tighter level, so the level only needs to name
// its own operators.
type precedenceLevel struct {
	kinds []token.Kind
}

var precedenceLadder = []precedenceLevel{
	{[]token.Kind{token.ConditionalOr}},
	{[]token.Kind{token.ConditionalAnd}},
	{[]token.Kind{token.BinaryOr}},
	{[]token.Kind{token.BinaryXor}},
	{[]token.Kind{token.BinaryAnd}},
	{[]token.Kind{token.ConditionalEquals, token.ConditionalNotEquals}},
}

// tryParseSwitchOrCoalesceExpression handles `??` (right-associative,
// outside the left-associative ladder) and delegates to the ladder for
// everything tighter.
func (p *Parser) tryParseSwitchOrCoalesceExpression(needsRecovery *bool) (psi.NodeIndex, bool) {
	lhs, ok := p.tryParseLadder(0, needsRecovery)
	if !ok {
		return psi.InvalidNodeIndex, false
	}
	if p.at(token.Coalesce) {
		p.b.Advance()
		m := p.b.PrecedeNode(lhs)
		if _, rok := p.tryParseSwitchOrCoalesceExpression(needsRecovery); !rok {
			*needsRecovery = true
			p.b.InlineError("expected an expression after '??'")
		}
		return p.b.Done(m, psi.BinaryExpression), true
	}
	return lhs, true
}

// tryParseLadder runs one left-associative precedence level: `while
// (current is this level's op) { consume; parse next level; wrap via
// precede }`, per spec §4.E.
func (p *Parser) tryParseLadder(level int, needsRecovery *bool) (psi.NodeIndex, bool) {
	if level >= len(precedenceLadder) {
		return p.tryParseRelational(needsRecovery)
	}
	lvl := precedenceLadder[level]
	lhs, ok := p.tryParseLadder(level+1, needsRecovery)
	if !ok {
		return psi.InvalidNodeIndex, false
	}
	for containsKind(lvl.kinds, p.b.CurrentKind()) {
		p.b.Advance()
		m := p.b.PrecedeNode(lhs)
		if _, rok := p.tryParseLadder(level+1, needsRecovery); !rok {
			*needsRecovery = true
			p.b.InlineError("expected an operand")
		}
		lhs = p.b.Done(m, psi.BinaryExpression)
	}
	return lhs, true
}

func containsKind(kinds []token.Kind, k token.Kind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

// tryParseRelational handles `<`, `<=`, `>`, `>=`, `is`, `as`, `as!` —
// kept out of the generic ladder since `is`/`as` take a type-path rhs,
// not a recursive expression, and `<`/`>` need the generics-vs-comparison
// disambiguation from spec §4.E instead of a plain kind match.
func (p *Parser) tryParseRelational(needsRecovery *bool) (psi.NodeIndex, bool) {
	lhs, ok := p.tryParseShift(needsRecovery)
	if !ok {
		return psi.InvalidNodeIndex, false
	}
	for {
		switch {
		case p.atKeyword(token.KeywordIs):
			p.b.Advance()
			m := p.b.PrecedeNode(lhs)
			if _, tok := p.tryParseTypePath(); !tok {
				*needsRecovery = true
				p.b.InlineError("expected a type after 'is'")
			} else if p.at(token.KeywordOrIdentifier) {
				p.b.Advance() // optional binding identifier: `is T id`
			}
			lhs = p.b.Done(m, psi.IsExpression)
		case p.atKeyword(token.KeywordAs):
			p.b.Advance()
			if p.at(token.Not) {
				p.b.Advance()
			}
			m := p.b.PrecedeNode(lhs)
			if _, tok := p.tryParseTypePath(); !tok {
				*needsRecovery = true
				p.b.InlineError("expected a type after 'as'")
			}
			lhs = p.b.Done(m, psi.AsExpression)
		case p.at(token.LessThanEqualTo), p.at(token.GreaterThanEqualTo):
			p.b.Advance()
			m := p.b.PrecedeNode(lhs)
			if _, rok := p.tryParseShift(needsRecovery); !rok {
				*needsRecovery = true
				p.b.InlineError("expected an operand")
			}
			lhs = p.b.Done(m, psi.BinaryExpression)
		case p.isComparisonAngleBracket():
			p.b.Advance()
			m := p.b.PrecedeNode(lhs)
			if _, rok := p.tryParseShift(needsRecovery); !rok {
				*needsRecovery = true
				p.b.InlineError("expected an operand")
			}
			lhs = p.b.Done(m, psi.BinaryExpression)
		default:
			return lhs, true
		}
	}
}

// isComparisonAngleBracket reports whether the current `<`/`>` should be
// read as a relational operator rather than the start/end of a generic
// argument list. Since generic argument lists are only attempted inside
// tryParseTypePath/primary-expression parsing (via
// tryGetAngleBracketSubStream, which is speculative and rolls back on
// failure), by the time control reaches here any `<`/`>` still at the
// cursor was not consumed as part of a generic name and is therefore a
// plain comparison.
func (p *Parser) isComparisonAngleBracket() bool {
	return p.at(token.AngleBracketOpen) || p.at(token.AngleBracketClose)
}

// tryParseShift handles `<<`/`>>`, each really two adjacent `<`/`>` (or
// `>`/`>`) tokens with nothing between them — the FollowedByWhitespaceOrComment
// flag from spec §4.D tells them apart from two separate comparisons or a
// generic-close-of-generic-close.
func (p *Parser) tryParseShift(needsRecovery *bool) (psi.NodeIndex, bool) {
	lhs, ok := p.tryParseAdditive(needsRecovery)
	if !ok {
		return psi.InvalidNodeIndex, false
	}
	for p.atShiftOperator() {
		p.b.Advance()
		p.b.Advance()
		m := p.b.PrecedeNode(lhs)
		if _, rok := p.tryParseAdditive(needsRecovery); !rok {
			*needsRecovery = true
			p.b.InlineError("expected an operand")
		}
		lhs = p.b.Done(m, psi.BinaryExpression)
	}
	return lhs, true
}

// atShiftOperator reports whether the cursor is at two adjacent `<`/`<`
// or `>`/`>` tokens with no intervening trivia — a real shift operator,
// not two separate comparisons/generic closes.
func (p *Parser) atShiftOperator() bool {
	first := p.b.Current()
	if first.HasFlag(token.FollowedByWhitespaceOrComment) {
		return false
	}
	if first.Kind != token.AngleBracketOpen && first.Kind != token.AngleBracketClose {
		return false
	}
	m := p.b.Mark()
	p.b.Advance()
	second := p.b.CurrentKind()
	p.b.Rollback(m)
	return second == first.Kind
}

func (p *Parser) tryParseAdditive(needsRecovery *bool) (psi.NodeIndex, bool) {
	lhs, ok := p.tryParseMultiplicative(needsRecovery)
	if !ok {
		return psi.InvalidNodeIndex, false
	}
	for p.at(token.Plus) || p.at(token.Minus) {
		p.b.Advance()
		m := p.b.PrecedeNode(lhs)
		if _, rok := p.tryParseMultiplicative(needsRecovery); !rok {
			*needsRecovery = true
			p.b.InlineError("expected an operand")
		}
		lhs = p.b.Done(m, psi.BinaryExpression)
	}
	return lhs, true
}

func (p *Parser) tryParseMultiplicative(needsRecovery *bool) (psi.NodeIndex, bool) {
	lhs, ok := p.tryParseSwitchExpression(needsRecovery)
	if !ok {
		return psi.InvalidNodeIndex, false
	}
	for p.at(token.Multiply) || p.at(token.Divide) || p.at(token.Modulus) {
		p.b.Advance()
		m := p.b.PrecedeNode(lhs)
		if _, rok := p.tryParseSwitchExpression(needsRecovery); !rok {
			*needsRecovery = true
			p.b.InlineError("expected an operand")
		}
		lhs = p.b.Done(m, psi.BinaryExpression)
	}
	return lhs, true
}

// tryParseSwitchExpression matches `unary-expr ('switch' '{' arms '}')?` —
// the postfix switch-expression sits directly above unary in precedence,
// below multiplicative.
func (p *Parser) tryParseSwitchExpression(needsRecovery *bool) (psi.NodeIndex, bool) {
	value, ok := p.tryParseUnary(needsRecovery)
	if !ok {
		return psi.InvalidNodeIndex, false
	}
	if *needsRecovery || !p.atKeyword(token.KeywordSwitch) {
		return value, true
	}
	m := p.b.PrecedeNode(value)
	p.b.Advance()
	if p.b.TryGetDelimitedSubStream(token.CurlyBraceOpen, token.CurlyBraceClose) {
		if p.b.AtEnd() {
			p.b.InlineError("expected a set of switch expression arms")
		} else {
			p.parseCommaSeparatedList(true, p.tryParseSwitchExpressionArm)
		}
		p.b.PopStream()
	} else {
		p.b.InlineError("expected '{' after 'switch'")
		*needsRecovery = true
	}
	return p.b.Done(m, psi.SwitchExpression), true
}

// tryParseSwitchExpressionArm matches `pattern [when guard] => expr`. The
// pattern slot accepts any non-assignment expression — literal, type
// name, or discard identifier — since the grammar does not define a
// separate pattern production.
func (p *Parser) tryParseSwitchExpressionArm() bool {
	m := p.b.Mark()
	if _, ok := p.tryParseTernaryExpression(new(bool)); !ok {
		p.b.Rollback(m)
		return false
	}
	if p.atKeyword(token.KeywordWhen) {
		p.b.Advance()
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected an expression following 'when'")
		}
	}
	if p.expect(token.FatArrow, "'=>'") {
		var recovery bool
		if !p.tryParseExpression(&recovery) {
			p.b.InlineError("expected an expression following '=>' in a switch arm")
		}
	}
	p.b.Done(m, psi.SwitchExpressionArm)
	return true
}

var unaryOperators = map[token.Kind]bool{
	token.Plus: true, token.Minus: true, token.Not: true, token.BinaryNot: true,
	token.Increment: true, token.Decrement: true,
}

func (p *Parser) tryParseUnary(needsRecovery *bool) (psi.NodeIndex, bool) {
	if unaryOperators[p.b.CurrentKind()] {
		m := p.b.Mark()
		p.b.Advance()
		if _, ok := p.tryParseUnary(needsRecovery); !ok {
			*needsRecovery = true
			p.b.InlineError("expected an operand")
		}
		return p.b.Done(m, psi.UnaryExpression), true
	}
	if idx, ok := p.tryParseCastExpression(needsRecovery); ok {
		return idx, true
	}
	return p.tryParsePostfixExpression(needsRecovery)
}

// tryParseCastExpression implements the cast branch of spec §4.E's
// "lambda vs. parenthesized expression" disambiguation: `(` is
// speculatively read as `( TypePath )` followed by a unary expression; if
// that fails anywhere, roll back and let the caller fall through to
// parenthesized-expression/primary parsing instead.
func (p *Parser) tryParseCastExpression(needsRecovery *bool) (psi.NodeIndex, bool) {
	if !p.at(token.OpenParen) {
		return psi.InvalidNodeIndex, false
	}
	attempt := p.b.Mark()
	if !p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		p.b.Rollback(attempt)
		return psi.InvalidNodeIndex, false
	}
	_, typeOK := p.tryParseTypePath()
	innerDone := p.b.AtEnd()
	p.b.PopStream()
	if !typeOK || !innerDone || !canStartUnary(p.b.CurrentKind()) {
		p.b.Rollback(attempt)
		return psi.InvalidNodeIndex, false
	}
	if _, ok := p.tryParseUnary(needsRecovery); !ok {
		*needsRecovery = true
		p.b.InlineError("expected an expression after a cast")
	}
	return p.b.Done(attempt, psi.CastExpression), true
}

// canStartUnary is a conservative check for "does this look like the
// start of a unary-expr", used to reject `(a)` (parenthesized expr, not a
// cast of `a`) unless what follows can only be an operand.
func canStartUnary(k token.Kind) bool {
	switch k {
	case token.KeywordOrIdentifier, token.OpenParen, token.Not, token.BinaryNot,
		token.Increment, token.Decrement,
		token.StringStart, token.MultiLineStringStart,
		token.Int32Literal, token.Int64Literal, token.UInt32Literal, token.UInt64Literal,
		token.FloatLiteral, token.DoubleLiteral, token.HexLiteral, token.BinaryNumberLiteral:
		return true
	}
	return false
}

// tryParseLambdaExpression implements spec §4.E's lambda disambiguation:
// a bare identifier followed by `=>` is always a lambda; `(` requires the
// paren sub-stream to fully reduce to a formal-parameter list followed by
// `=>` outside it.
func (p *Parser) tryParseLambdaExpression(needsRecovery *bool) (psi.NodeIndex, bool) {
	if p.at(token.KeywordOrIdentifier) && !p.b.Current().HasFlag(token.InvalidMatch) {
		attempt := p.b.Mark()
		idMarker := p.b.Mark()
		p.b.Advance()
		idNode := p.b.Done(idMarker, psi.Parameter)
		if p.at(token.FatArrow) {
			params := p.b.PrecedeNode(idNode)
			p.b.Done(params, psi.ParameterList)
			return p.finishLambda(attempt, needsRecovery), true
		}
		p.b.Rollback(attempt)
	}
	if !p.at(token.OpenParen) {
		return psi.InvalidNodeIndex, false
	}
	attempt := p.b.Mark()
	if !p.b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen) {
		p.b.Rollback(attempt)
		return psi.InvalidNodeIndex, false
	}
	params := p.b.Mark()
	if !p.b.AtEnd() {
		p.parseCommaSeparatedList(false, p.tryParseLambdaParameter)
	}
	ok := p.b.AtEnd()
	p.b.Done(params, psi.ParameterList)
	p.b.PopStream()
	if !ok || !p.at(token.FatArrow) {
		p.b.Rollback(attempt)
		return psi.InvalidNodeIndex, false
	}
	return p.finishLambda(attempt, needsRecovery), true
}

func (p *Parser) tryParseLambdaParameter() bool {
	if !p.at(token.KeywordOrIdentifier) {
		return false
	}
	m := p.b.Mark()
	// A typed lambda parameter looks like `Type name`; an untyped one is
	// just `name`. Both are only distinguishable by whether a second
	// identifier follows, since both start the same way.
	first := p.b.Mark()
	if _, ok := p.tryParseTypePath(); ok && p.at(token.KeywordOrIdentifier) {
		p.b.Advance()
	} else {
		p.b.Rollback(first)
		p.b.Advance()
	}
	p.b.Done(m, psi.Parameter)
	return true
}

// finishLambda consumes `=>` and the lambda body (a block or an
// expression), closing the LambdaExpression node opened at m.
func (p *Parser) finishLambda(m psi.Marker, needsRecovery *bool) psi.NodeIndex {
	p.b.Advance() // =>
	if !p.tryParseBlock() {
		if !p.tryParseExpression(needsRecovery) {
			*needsRecovery = true
			p.b.InlineError("expected a lambda body")
		}
	}
	return p.b.Done(m, psi.LambdaExpression)
}
