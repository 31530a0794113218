package psi

import (
	"fmt"

	"github.com/emberlang/emberc/internal/alloc"
	"github.com/emberlang/emberc/internal/collections"
	"github.com/emberlang/emberc/internal/token"
)

const maxTokens = 65536

// nonTrivialToken is a non-trivia token plus a back-reference to its index
// in the full token vector, so the parser can recover exact source
// positions (and trivia flags) without re-scanning.
type nonTrivialToken struct {
	token.Token
	tokenIndex int32
}

type streamFrame struct {
	start, end, cursor int
}

// ParseError is a single diagnostic attached to a token range, ready for
// line/column rendering by the tree builder (spec §4.F).
type ParseError struct {
	Message     string
	TokenStart  int32
	TokenEnd    int32
	SourceStart int32
	SourceEnd   int32
	NodeIndex   NodeIndex
}

// Result is the builder's final output: the full token vector, the
// production stream, the node arena, and any errors, plus the summary
// flags from spec §4.D.
type Result struct {
	Tokens     []token.Token
	Production []int32
	Nodes      []Node
	Errors     []ParseError

	// NonTrivialRawIndex maps a non-trivial cursor position (the space
	// Node.TokenStart/TokenEnd and ParseError.TokenStart/TokenEnd are
	// expressed in) to its index in Tokens. Consumers that need the
	// trivia a node's range skips over — internal/tree's lossless
	// concrete tree, in particular — recover it by walking Tokens between
	// two mapped raw indices rather than the non-trivial projection.
	NonTrivialRawIndex []int32

	HasTooManyTokens       bool
	HasBadCharacters       bool
	HasUnmatchedDelimiters bool
	HasNonTrivialContent   bool
	Valid                  bool
}

// endOfStream terminates the production stream. Node ids start at 1 (slot
// 0 is the invalid sentinel), so 0 can never collide with a real open or
// close entry — unlike the C++ original, which reuses -1 for both "close
// the file root" and "end of stream" and relies on the root always being
// closed immediately beforehand.
const endOfStream int32 = 0

// Builder is the marker/production engine from spec §4.D. It owns the
// token vector, the non-trivial projection, the node arena, the
// production stream, and the active sub-stream stack.
type Builder struct {
	src []byte

	tokens     []token.Token
	nonTrivial []nonTrivialToken
	cursor     int

	nodes    []Node
	freeList []int32

	production []int32

	// errArena is a small LinearArena dedicated to error diagnostics,
	// kept separate from node storage: the spec's error-message bytes are
	// copied into this arena during Finalize, not co-mingled with
	// whatever owns the node/production state.
	errArena *alloc.LinearArena
	errors   *collections.PagedList[ParseError]

	streamStack []streamFrame
	streamStart int
	streamEnd   int

	hasBadCharacters       bool
	hasTooManyTokens       bool
	hasUnmatchedDelimiters bool
	hasNonTrivialContent   bool
}

// NewBuilder tokenizes src and runs delimiter pre-matching. The returned
// bool is false iff the file has bad characters, too many tokens, or
// unmatched delimiters — in which case the builder still exists (callers
// may inspect Finalize's error list) but no productions should be parsed
// from it.
func NewBuilder(src []byte) (*Builder, bool) {
	b := &Builder{src: src, errArena: alloc.NewLinearArena(64*1024, 4096)}
	b.errors = collections.NewPagedList[ParseError](b.errArena)

	toks, tokenizeOK := token.Tokenize(src)
	b.tokens = toks
	b.hasBadCharacters = !tokenizeOK
	b.hasTooManyTokens = len(toks) >= maxTokens

	// The tokenizer always appends a trailing EndOfInput sentinel; it is
	// a real stored token (so TokenText/offset math works uniformly) but
	// it is neither trivia nor "content" — AtEnd()/CurrentKind() already
	// synthesize an EndOfInput Kind once the cursor passes the last real
	// token, so it is excluded from the non-trivial projection itself.
	content := toks
	if n := len(toks); n > 0 && toks[n-1].Kind == token.EndOfInput {
		content = toks[:n-1]
	}

	firstNonTrivial := -1
	for i, tk := range content {
		if !tk.Kind.IsTrivia() {
			firstNonTrivial = i
			break
		}
	}
	b.hasNonTrivialContent = firstNonTrivial != -1

	if firstNonTrivial != -1 {
		for i := firstNonTrivial; i < len(content); i++ {
			tk := content[i]
			if tk.Kind.IsTrivia() {
				if n := len(b.nonTrivial); n > 0 {
					b.nonTrivial[n-1].Flags |= token.FollowedByWhitespaceOrComment
				}
				continue
			}
			b.nonTrivial = append(b.nonTrivial, nonTrivialToken{Token: tk, tokenIndex: int32(i)})
		}
		b.matchDelimiters()
	}

	// Reflect nonTrivial flags (InvalidMatch in particular) back onto the
	// canonical token vector, and surface unmatched-delimiter errors.
	for _, nt := range b.nonTrivial {
		b.tokens[nt.tokenIndex].Flags = nt.Flags
		if nt.HasFlag(token.InvalidMatch) {
			b.hasUnmatchedDelimiters = true
		}
	}
	if b.hasUnmatchedDelimiters {
		b.emitUnmatchedDelimiterErrors()
	}
	if b.hasBadCharacters {
		b.emitBadCharacterErrors()
	}
	if b.hasTooManyTokens {
		b.emitTooManyTokensError()
	}

	// Slot 0 is the invalid sentinel; slot 1 is the file root.
	b.nodes = append(b.nodes, Node{Kind: Invalid})
	b.nodes = append(b.nodes, Node{Kind: File, TokenStart: 0, TokenEnd: int32(len(b.nonTrivial))})
	b.production = append(b.production, int32(RootNodeIndex))

	b.streamStart = 0
	b.streamEnd = len(b.nonTrivial)

	valid := !b.hasUnmatchedDelimiters && !b.hasBadCharacters && !b.hasTooManyTokens
	return b, valid
}

// matchDelimiters pre-matches (), [], {} over the non-trivial projection
// using a scan stack, flagging unmatched openers/closers InvalidMatch. The
// stack can hold at most one entry per non-trivial token (each push
// consumes a distinct opener index), so it is bounded up front rather than
// grown on demand.
func (b *Builder) matchDelimiters() {
	stack := collections.NewFixedPodList[int](len(b.nonTrivial))
	for i := range b.nonTrivial {
		kind := b.nonTrivial[i].Kind
		switch kind {
		case token.OpenParen, token.CurlyBraceOpen, token.SquareBraceOpen:
			stack.Append(i)
		case token.CloseParen, token.CurlyBraceClose, token.SquareBraceClose:
			want := matchingOpen(kind)
			matchAt := -1
			for x := stack.Len() - 1; x >= 0; x-- {
				idx, _ := stack.Peek(x)
				if b.nonTrivial[idx].Kind == want {
					matchAt = x
					break
				}
			}
			if matchAt == -1 {
				b.nonTrivial[i].Flags |= token.InvalidMatch
				continue
			}
			for x := stack.Len() - 1; x > matchAt; x-- {
				idx, _ := stack.Peek(x)
				b.nonTrivial[idx].Flags |= token.InvalidMatch
				stack.Pop()
			}
			stack.Pop()
		}
	}
	for i := 0; i < stack.Len(); i++ {
		idx, _ := stack.Peek(i)
		b.nonTrivial[idx].Flags |= token.InvalidMatch
	}
}

func matchingOpen(close token.Kind) token.Kind {
	switch close {
	case token.CloseParen:
		return token.OpenParen
	case token.CurlyBraceClose:
		return token.CurlyBraceOpen
	case token.SquareBraceClose:
		return token.SquareBraceOpen
	}
	return token.EndOfInput
}

func delimiterErrorMessage(k token.Kind) string {
	switch k {
	case token.OpenParen:
		return "unmatched paren open ("
	case token.CloseParen:
		return "unmatched paren close )"
	case token.CurlyBraceOpen:
		return "unmatched curly bracket open {"
	case token.CurlyBraceClose:
		return "unmatched curly bracket close }"
	case token.SquareBraceOpen:
		return "unmatched square brace open ["
	case token.SquareBraceClose:
		return "unmatched square brace close ]"
	case token.StringStart:
		return "unclosed string literal"
	default:
		return "unmatched delimiter"
	}
}

func (b *Builder) emitUnmatchedDelimiterErrors() {
	for i, tk := range b.tokens {
		if !tk.HasFlag(token.InvalidMatch) {
			continue
		}
		b.errors.Append(ParseError{
			Message:     delimiterErrorMessage(tk.Kind),
			TokenStart:  int32(i),
			TokenEnd:    int32(i + 1),
			SourceStart: tk.Offset,
			SourceEnd:   tk.Offset + 1,
			NodeIndex:   InvalidNodeIndex,
		})
	}
}

func (b *Builder) emitBadCharacterErrors() {
	for i := 0; i < len(b.tokens); i++ {
		if b.tokens[i].Kind != token.BadCharacter {
			continue
		}
		end := i + 1
		for end < len(b.tokens) && b.tokens[end].Kind == token.BadCharacter {
			end++
		}
		b.errors.Append(ParseError{
			Message:     "bad character",
			TokenStart:  int32(i),
			TokenEnd:    int32(end),
			SourceStart: b.tokens[i].Offset,
			SourceEnd:   b.tokens[end-1].Offset + 1,
			NodeIndex:   InvalidNodeIndex,
		})
		i = end - 1
	}
}

func (b *Builder) emitTooManyTokensError() {
	b.errors.Append(ParseError{
		Message:     fmt.Sprintf("the file contains too many tokens, for performance reasons only %d tokens are supported", maxTokens),
		TokenStart:  0,
		TokenEnd:    int32(len(b.tokens)),
		SourceStart: b.tokens[0].Offset,
		SourceEnd:   b.tokens[len(b.tokens)-1].Offset,
		NodeIndex:   InvalidNodeIndex,
	})
}

// --- cursor / lookahead -----------------------------------------------

// AtEnd reports whether the cursor has reached the end of the current
// (sub-)stream.
func (b *Builder) AtEnd() bool {
	return b.cursor >= b.streamEnd
}

// CurrentKind returns the token kind at the cursor, or EndOfInput if the
// stream is exhausted.
func (b *Builder) CurrentKind() token.Kind {
	if b.AtEnd() {
		return token.EndOfInput
	}
	return b.nonTrivial[b.cursor].Kind
}

// Current returns the full token at the cursor.
func (b *Builder) Current() token.Token {
	if b.AtEnd() {
		return token.Token{Kind: token.EndOfInput}
	}
	return b.nonTrivial[b.cursor].Token
}

// TokenIndex returns the cursor position within the non-trivial stream.
func (b *Builder) TokenIndex() int32 { return int32(b.cursor) }

// SetTokenIndex clamps and sets the cursor, mirroring the original's
// SetTokenIndex bounds behavior.
func (b *Builder) SetTokenIndex(i int32) {
	idx := int(i)
	if idx < 0 {
		idx = 0
	}
	if idx > len(b.nonTrivial) {
		idx = len(b.nonTrivial)
	}
	b.cursor = idx
}

// Advance consumes and returns the current token, moving the cursor
// forward by one. Calling Advance at end of stream is a no-op that
// returns the EndOfInput sentinel.
func (b *Builder) Advance() token.Token {
	tk := b.Current()
	if !b.AtEnd() {
		b.cursor++
	}
	return tk
}

// TokenText returns the raw source bytes spanned by the non-trivial
// tokens in [start, end).
func (b *Builder) TokenText(start, end int32) []byte {
	if start >= end || int(end) > len(b.nonTrivial) {
		return nil
	}
	from := b.tokens[b.nonTrivial[start].tokenIndex].Offset
	var to int32
	if int(end) < len(b.nonTrivial) {
		to = b.tokens[b.nonTrivial[end].tokenIndex].Offset
	} else {
		to = int32(len(b.src))
	}
	return b.src[from:to]
}

// --- node/marker/production engine -------------------------------------

func (b *Builder) allocate(tokenStart int32) Marker {
	var id int32
	if n := len(b.freeList); n > 0 {
		id = b.freeList[n-1]
		b.freeList = b.freeList[:n-1]
		b.nodes[id] = Node{TokenStart: tokenStart}
	} else {
		id = int32(len(b.nodes))
		b.nodes = append(b.nodes, Node{TokenStart: tokenStart})
	}
	return Marker{id: id}
}

func (b *Builder) free(id int32) {
	b.freeList = append(b.freeList, id)
}

func (b *Builder) lastIndexOf(v int32) int {
	for i := len(b.production) - 1; i >= 0; i-- {
		if b.production[i] == v {
			return i
		}
	}
	return -1
}

// Mark allocates a fresh node slot bound to the current cursor and
// appends its open entry to the production stream.
func (b *Builder) Mark() Marker {
	m := b.allocate(int32(b.cursor))
	b.production = append(b.production, m.id)
	return m
}

// Done writes kind into the marker's slot, closes its token range at the
// current cursor, and appends the close entry.
func (b *Builder) Done(m Marker, kind Kind) NodeIndex {
	b.nodes[m.id].Kind = kind
	b.nodes[m.id].TokenEnd = int32(b.cursor)
	b.production = append(b.production, -m.id)
	return NodeIndex(m.id)
}

// Error marks an error node at the marker's position with the given
// message and closes it immediately (errors never have children).
func (b *Builder) Error(m Marker, message string) NodeIndex {
	b.nodes[m.id].Message = message
	return b.Done(m, ErrorNode)
}

// InlineError records an error node at the current cursor without
// consuming any tokens — the common case for "expected X" diagnostics.
func (b *Builder) InlineError(message string) NodeIndex {
	return b.Error(b.Mark(), message)
}

// Drop erases the marker's production entries and returns its slot to
// the free-list. Only valid for markers with no completed children —
// callers must not have opened and closed anything while m was open that
// the caller intends to keep.
func (b *Builder) Drop(m Marker) {
	if b.nodes[m.id].TokenEnd != 0 {
		if i := b.lastIndexOf(-m.id); i != -1 {
			b.production = append(b.production[:i], b.production[i+1:]...)
		}
	}
	if i := b.lastIndexOf(m.id); i != -1 {
		b.production = append(b.production[:i], b.production[i+1:]...)
	}
	b.free(m.id)
}

// Precede allocates a new marker and inserts it immediately before the
// existing marker's current last appearance, copying tokenStart from it.
// This is how a parsed prefix is retroactively wrapped by an outer node,
// e.g. promoting a primary expression into a binary expression.
func (b *Builder) Precede(existing Marker) Marker {
	tokenStart := b.nodes[existing.id].TokenStart
	m := b.allocate(tokenStart)
	at := b.lastIndexOf(existing.id)
	if at == -1 {
		at = len(b.production)
	}
	b.production = append(b.production, 0)
	copy(b.production[at+1:], b.production[at:])
	b.production[at] = m.id
	return m
}

// PrecedeNode is Precede for a node already closed via Done, when the
// caller only has its NodeIndex (not the original Marker) at hand.
func (b *Builder) PrecedeNode(existing NodeIndex) Marker {
	return b.Precede(Marker{id: int32(existing)})
}

// Rollback discards everything emitted at or after m's open: production
// entries are truncated, opened slots are freed, and the cursor rewinds
// to m's tokenStart.
func (b *Builder) Rollback(m Marker) {
	at := b.lastIndexOf(m.id)
	if at == -1 {
		return
	}
	for _, v := range b.production[at:] {
		if v > 0 {
			b.free(v)
		}
	}
	b.production = b.production[:at]
	b.cursor = int(b.nodes[m.id].TokenStart)
}

// --- sub-streams ---------------------------------------------------

// PushStream saves the current (streamStart, streamEnd, cursor) and
// restricts the visible token range to [start, end), positioning the
// cursor at start.
func (b *Builder) PushStream(start, end int32) {
	b.streamStack = append(b.streamStack, streamFrame{start: b.streamStart, end: b.streamEnd, cursor: b.cursor})
	b.streamStart = int(start)
	b.streamEnd = int(end)
	b.cursor = int(start)
}

// PopStream restores the previous frame. If the inner parse left
// unconsumed tokens, it records an "invalid content" error covering the
// remainder. The outer cursor then resumes just past the sub-stream's
// closing delimiter — the inner streamEnd, since sub-streams are always
// acquired via TryGetDelimitedSubStream with end set to the closer's own
// index.
func (b *Builder) PopStream() {
	if !b.AtEnd() {
		m := b.Mark()
		b.cursor = b.streamEnd
		b.Error(m, "unexpected trailing content")
	}
	closerIndex := b.streamEnd
	if n := len(b.streamStack); n > 0 {
		frame := b.streamStack[n-1]
		b.streamStack = b.streamStack[:n-1]
		b.streamStart = frame.start
		b.streamEnd = frame.end
	}
	b.cursor = closerIndex + 1
}

// TryGetDelimitedSubStream looks for a pre-matched open/close pair
// starting at the cursor (already pre-validated at Initialize time — an
// InvalidMatch-flagged opener never yields a sub-stream here) and, on
// success, pushes a stream scoped to the tokens strictly between the
// delimiters. Callers parse the sub-stream's contents and then call
// PopStream, which leaves the outer cursor positioned just after the
// closer.
func (b *Builder) TryGetDelimitedSubStream(open, close token.Kind) bool {
	start := b.cursor
	if b.AtEnd() || b.CurrentKind() != open || b.Current().HasFlag(token.InvalidMatch) {
		return false
	}

	level := 1
	cursor := start + 1
	for cursor < b.streamEnd {
		kind := b.nonTrivial[cursor].Kind
		if kind == open {
			level++
		} else if kind == close {
			level--
			if level == 0 {
				b.PushStream(int32(start+1), int32(cursor))
				return true
			}
		}
		cursor++
	}
	b.cursor = start
	return false
}

// --- finalize -----------------------------------------------------

// Finalize appends the end-of-stream sentinel, copies error-node
// payloads into the diagnostic list (attaching zero-width inline errors
// to the nearest preceding non-trivial token so they render next to it),
// and returns the completed Result. It returns true iff no errors were
// produced.
func (b *Builder) Finalize() (*Result, bool) {
	b.production = append(b.production, endOfStream)

	for _, idx := range b.production {
		if idx <= 0 {
			continue
		}
		n := &b.nodes[idx]
		if n.Kind != ErrorNode {
			continue
		}
		tokenStart, tokenEnd := n.TokenStart, n.TokenEnd
		if int(tokenEnd) >= len(b.nonTrivial) {
			tokenEnd = int32(len(b.nonTrivial)) - 1
		}
		sourceStart, sourceEnd := b.sourceRange(tokenStart, tokenEnd)
		if tokenStart == tokenEnd {
			// Inline error: attach to the previous token. The non-trivial
			// projection already excludes whitespace/comments, so (unlike
			// the original, which walks raw tokens to skip trivia) a
			// single step back is always the previous real token.
			if tokenStart > 0 {
				tokenStart--
				tokenEnd--
			}
			sourceStart, sourceEnd = b.sourceRange(tokenStart, tokenEnd+1)
		}
		b.errors.Append(ParseError{
			Message:     n.Message,
			TokenStart:  tokenStart,
			TokenEnd:    tokenEnd,
			SourceStart: sourceStart,
			SourceEnd:   sourceEnd,
			NodeIndex:   NodeIndex(idx),
		})
	}

	// Flatten the paged error list into the public, randomly-indexable
	// slice callers expect, copying each message's bytes into the
	// dedicated error arena along the way (spec: error message bytes are
	// copied into the parse-result arena during finalization).
	errs := make([]ParseError, 0, b.errors.Len())
	b.errors.Each(func(_ int, e ParseError) bool {
		owned := b.errArena.AllocateBytes(len(e.Message), 1)
		copy(owned, e.Message)
		e.Message = string(owned)
		errs = append(errs, e)
		return true
	})

	rawIdx := make([]int32, len(b.nonTrivial))
	for i, nt := range b.nonTrivial {
		rawIdx[i] = nt.tokenIndex
	}

	result := &Result{
		Tokens:                 b.tokens,
		Production:             b.production,
		Nodes:                  b.nodes,
		Errors:                 errs,
		NonTrivialRawIndex:     rawIdx,
		HasTooManyTokens:       b.hasTooManyTokens,
		HasBadCharacters:       b.hasBadCharacters,
		HasUnmatchedDelimiters: b.hasUnmatchedDelimiters,
		HasNonTrivialContent:   b.hasNonTrivialContent,
		Valid:                  len(errs) == 0,
	}
	return result, result.Valid
}

func (b *Builder) sourceRange(tokenStart, tokenEnd int32) (int32, int32) {
	if len(b.nonTrivial) == 0 {
		return 0, 0
	}
	clamp := func(i int32) int32 {
		if i < 0 {
			return 0
		}
		if int(i) >= len(b.nonTrivial) {
			return int32(len(b.nonTrivial)) - 1
		}
		return i
	}
	start := b.tokens[b.nonTrivial[clamp(tokenStart)].tokenIndex].Offset
	end := b.tokens[b.nonTrivial[clamp(tokenEnd)].tokenIndex].Offset
	return start, end
}
