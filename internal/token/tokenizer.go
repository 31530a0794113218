package token

import (
	"unicode/utf8"

	"github.com/emberlang/emberc/internal/collections"
)

// lexState is the tokenizer's string/interpolation state, distinct from
// Kind — it tracks what the byte stream currently means, not what the
// last token was.
type lexState uint8

const (
	stateDefault lexState = iota
	stateString
	stateMultiLineString
	stateCharacter
	stateStyle
	stateInterpolation
)

type stateFrame struct {
	state      lexState
	braceDepth int // only meaningful for stateInterpolation
}

// Tokenizer is a single-threaded, deterministic, allocation-light lexer
// over a UTF-8 byte buffer. It performs no I/O and never suspends (spec
// §4.C, §5): Tokenize consumes the whole buffer synchronously.
type Tokenizer struct {
	src    []byte
	pos    int
	stack  *collections.FixedPodList[stateFrame]
	tokens []Token
	ok     bool
}

// NewTokenizer creates a tokenizer over src. The string/interpolation
// state stack can push at most once per byte consumed (every push enters
// a string, char, style, or interpolation context by consuming at least
// one delimiter byte), so len(src)+1 is a safe fixed capacity — Append
// below can never fail.
func NewTokenizer(src []byte) *Tokenizer {
	return &Tokenizer{src: src, ok: true, stack: collections.NewFixedPodList[stateFrame](len(src) + 1)}
}

// Tokenize runs the full state machine over src and returns the token
// stream (including trivia) and whether no bad-character tokens were
// produced.
func Tokenize(src []byte) ([]Token, bool) {
	t := NewTokenizer(src)
	t.run()
	return t.tokens, t.ok
}

func (t *Tokenizer) current() lexState {
	frame, ok := t.stack.Peek(t.stack.Len() - 1)
	if !ok {
		return stateDefault
	}
	return frame.state
}

func (t *Tokenizer) push(s lexState) {
	t.stack.Append(stateFrame{state: s})
}

func (t *Tokenizer) pop() {
	t.stack.Pop()
}

func (t *Tokenizer) emit(kind Kind, start int) {
	t.tokens = append(t.tokens, Token{Kind: kind, Offset: int32(start)})
}

func (t *Tokenizer) emitKeywordOrIdentifier(start int) {
	text := t.src[start:t.pos]
	kw := ClassifyKeyword(text)
	t.tokens = append(t.tokens, Token{Kind: KeywordOrIdentifier, Keyword: kw, Offset: int32(start)})
}

func (t *Tokenizer) byteAt(i int) byte {
	if i < 0 || i >= len(t.src) {
		return 0
	}
	return t.src[i]
}

func isNewlineStart(b byte) bool {
	return b == '\n' || b == '\r'
}

func (t *Tokenizer) consumeNewline() {
	if t.byteAt(t.pos) == '\r' && t.byteAt(t.pos+1) == '\n' {
		t.pos += 2
		return
	}
	t.pos++
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r >= utf8.RuneSelf
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// run drives the whole tokenization loop, dispatching to the active
// lexState, and always terminates with an EndOfInput sentinel.
func (t *Tokenizer) run() {
	for t.pos < len(t.src) {
		switch t.current() {
		case stateDefault, stateInterpolation:
			t.lexDefaultOrInterpolation()
		case stateString:
			t.lexStringBody(false)
		case stateMultiLineString:
			t.lexStringBody(true)
		case stateCharacter:
			t.lexOpaqueDelimited('\'', CloseCharacter, RegularCharacterPart)
		case stateStyle:
			t.lexOpaqueDelimited('`', CloseStyle, RegularStylePart)
		}
	}
	t.emit(EndOfInput, len(t.src))
}

// lexDefaultOrInterpolation handles the Default and StringInterpolation
// states, which share the full operator/keyword/literal grammar — the
// only difference is that StringInterpolation additionally tracks brace
// depth to find its own closing `}`.
func (t *Tokenizer) lexDefaultOrInterpolation() {
	start := t.pos
	b := t.src[t.pos]

	switch {
	case b == ' ' || b == '\t' || isNewlineStart(b):
		t.lexWhitespace()
		return
	case b == '/' && t.byteAt(t.pos+1) == '/':
		t.lexLineComment()
		return
	case b == '"' && t.byteAt(t.pos+1) == '"' && t.byteAt(t.pos+2) == '"':
		t.pos += 3
		t.emit(MultiLineStringStart, start)
		t.push(stateMultiLineString)
		return
	case b == '"':
		t.pos++
		t.emit(StringStart, start)
		t.push(stateString)
		return
	case b == '`':
		t.pos++
		t.emit(OpenStyle, start)
		t.push(stateStyle)
		return
	case b == '\'':
		t.pos++
		t.emit(OpenCharacter, start)
		t.push(stateCharacter)
		return
	case isDigit(b):
		t.lexNumber()
		return
	}

	r, size := utf8.DecodeRune(t.src[t.pos:])
	if size > 0 && isIdentStart(r) {
		t.pos += size
		for t.pos < len(t.src) {
			r2, size2 := utf8.DecodeRune(t.src[t.pos:])
			if size2 == 0 || !isIdentContinue(r2) {
				break
			}
			t.pos += size2
		}
		t.emitKeywordOrIdentifier(start)
		return
	}

	if t.lexOperator() {
		if t.current() == stateInterpolation {
			t.trackInterpolationBraces(t.tokens[len(t.tokens)-1].Kind)
		}
		return
	}

	// Unrecognized byte.
	t.pos += size
	if size == 0 {
		t.pos++
	}
	t.emit(BadCharacter, start)
	t.ok = false
}

// trackInterpolationBraces maintains the local brace counter for the
// innermost StringInterpolation frame: `{` increments it, `}` decrements
// it and, on reaching zero, pops the state and rewrites the just-emitted
// CurlyBraceClose into a LongStringInterpolationEnd (spec §4.C).
func (t *Tokenizer) trackInterpolationBraces(kind Kind) {
	raw := t.stack.Raw()
	frame := &raw[len(raw)-1]
	switch kind {
	case CurlyBraceOpen:
		frame.braceDepth++
	case CurlyBraceClose:
		if frame.braceDepth == 0 {
			last := len(t.tokens) - 1
			t.tokens[last].Kind = LongStringInterpolationEnd
			t.pop()
			return
		}
		frame.braceDepth--
	}
}

func (t *Tokenizer) lexWhitespace() {
	start := t.pos
	for t.pos < len(t.src) {
		b := t.src[t.pos]
		if b == ' ' || b == '\t' {
			t.pos++
		} else if isNewlineStart(b) {
			t.consumeNewline()
		} else {
			break
		}
	}
	t.emit(Whitespace, start)
}

func (t *Tokenizer) lexLineComment() {
	start := t.pos
	t.pos += 2
	for t.pos < len(t.src) && !isNewlineStart(t.src[t.pos]) {
		t.pos++
	}
	t.emit(Comment, start)
}

// lexNumber scans a decimal, hex, or binary numeric literal, including
// `_` digit separators and the `L`/`U`/`UL`/`f`/`d` suffixes from spec
// §4.C. It does not validate the literal (overflow, trailing separator),
// and neither does the parser, so malformed literals are not diagnosed;
// the tokenizer always emits a best-effort literal token so a single bad
// number doesn't desynchronize the rest of the file.
func (t *Tokenizer) lexNumber() {
	start := t.pos

	if t.src[t.pos] == '0' && (t.byteAt(t.pos+1) == 'x' || t.byteAt(t.pos+1) == 'X') {
		t.pos += 2
		for t.pos < len(t.src) && (isHexDigit(t.src[t.pos]) || t.src[t.pos] == '_') {
			t.pos++
		}
		t.emit(HexLiteral, start)
		return
	}
	if t.src[t.pos] == '0' && (t.byteAt(t.pos+1) == 'b' || t.byteAt(t.pos+1) == 'B') {
		t.pos += 2
		for t.pos < len(t.src) && (t.src[t.pos] == '0' || t.src[t.pos] == '1' || t.src[t.pos] == '_') {
			t.pos++
		}
		t.emit(BinaryNumberLiteral, start)
		return
	}

	for t.pos < len(t.src) && (isDigit(t.src[t.pos]) || t.src[t.pos] == '_') {
		t.pos++
	}

	isFloatingPoint := false
	if t.byteAt(t.pos) == '.' && isDigit(t.byteAt(t.pos+1)) {
		isFloatingPoint = true
		t.pos++
		for t.pos < len(t.src) && (isDigit(t.src[t.pos]) || t.src[t.pos] == '_') {
			t.pos++
		}
	}
	if b := t.byteAt(t.pos); b == 'e' || b == 'E' {
		peek := t.pos + 1
		if t.byteAt(peek) == '+' || t.byteAt(peek) == '-' {
			peek++
		}
		if isDigit(t.byteAt(peek)) {
			isFloatingPoint = true
			t.pos = peek
			for t.pos < len(t.src) && isDigit(t.src[t.pos]) {
				t.pos++
			}
		}
	}

	switch t.byteAt(t.pos) {
	case 'f', 'F':
		t.pos++
		t.emit(FloatLiteral, start)
		return
	case 'd', 'D':
		t.pos++
		t.emit(DoubleLiteral, start)
		return
	}
	if isFloatingPoint {
		t.emit(DoubleLiteral, start)
		return
	}

	switch {
	case (t.byteAt(t.pos) == 'u' || t.byteAt(t.pos) == 'U') && (t.byteAt(t.pos+1) == 'l' || t.byteAt(t.pos+1) == 'L'):
		t.pos += 2
		t.emit(UInt64Literal, start)
	case t.byteAt(t.pos) == 'u' || t.byteAt(t.pos) == 'U':
		t.pos++
		t.emit(UInt32Literal, start)
	case t.byteAt(t.pos) == 'l' || t.byteAt(t.pos) == 'L':
		t.pos++
		t.emit(Int64Literal, start)
	default:
		t.emit(Int32Literal, start)
	}
}

// lexStringBody handles the String and MultiLineString states: regular
// text runs, `$identifier` short interpolation, `${` long interpolation,
// and closing delimiters. multiLine selects between a three-quote and a
// one-quote closer.
func (t *Tokenizer) lexStringBody(multiLine bool) {
	if t.tryCloseString(multiLine) {
		return
	}
	if !multiLine && isNewlineStart(t.byteAt(t.pos)) {
		t.markOpenerInvalid()
		t.emit(StringEnd, t.pos)
		t.pop()
		return
	}
	if t.byteAt(t.pos) == '$' && t.byteAt(t.pos-1) != '\\' {
		if t.lexShortInterpolation() {
			return
		}
		if t.byteAt(t.pos+1) == '{' {
			start := t.pos
			t.pos += 2
			t.emit(LongStringInterpolationStart, start)
			t.push(stateInterpolation)
			return
		}
	}

	start := t.pos
	for t.pos < len(t.src) {
		if t.tryCloseStringLookahead(multiLine) {
			break
		}
		if !multiLine && isNewlineStart(t.src[t.pos]) {
			break
		}
		// A '$' only breaks the text run once some text has already been
		// accumulated — a bare '$' that matched neither interpolation form
		// above is ordinary text and must still advance, or the state
		// machine would spin without consuming it.
		if t.pos > start && t.src[t.pos] == '$' && t.src[t.pos-1] != '\\' {
			break
		}
		if t.src[t.pos] == '\\' && t.pos+1 < len(t.src) {
			t.pos += 2
			continue
		}
		t.pos++
	}
	if t.pos > start {
		t.emit(RegularStringPart, start)
	}
}

func (t *Tokenizer) tryCloseStringLookahead(multiLine bool) bool {
	if multiLine {
		return t.byteAt(t.pos) == '"' && t.byteAt(t.pos+1) == '"' && t.byteAt(t.pos+2) == '"'
	}
	return t.byteAt(t.pos) == '"'
}

func (t *Tokenizer) tryCloseString(multiLine bool) bool {
	if !t.tryCloseStringLookahead(multiLine) {
		return false
	}
	start := t.pos
	if multiLine {
		t.pos += 3
		t.emit(MultiLineStringEnd, start)
	} else {
		t.pos++
		t.emit(StringEnd, start)
	}
	t.pop()
	return true
}

func (t *Tokenizer) markOpenerInvalid() {
	for i := len(t.tokens) - 1; i >= 0; i-- {
		if t.tokens[i].Kind == StringStart {
			t.tokens[i].Flags |= InvalidMatch
			return
		}
	}
}

// lexShortInterpolation recognizes `$identifier` and emits a single
// ShortStringInterpolation token naming the identifier.
func (t *Tokenizer) lexShortInterpolation() bool {
	save := t.pos
	t.pos++ // '$'
	r, size := utf8.DecodeRune(t.src[t.pos:])
	if size == 0 || !isIdentStart(r) {
		t.pos = save
		return false
	}
	start := save
	t.pos += size
	for t.pos < len(t.src) {
		r2, size2 := utf8.DecodeRune(t.src[t.pos:])
		if size2 == 0 || !isIdentContinue(r2) {
			break
		}
		t.pos += size2
	}
	t.emit(ShortStringInterpolation, start)
	return true
}

// lexOpaqueDelimited handles Character and Style states: the body is
// opaque text up to the closing delimiter or an unterminating newline.
func (t *Tokenizer) lexOpaqueDelimited(closer byte, closeKind, partKind Kind) {
	start := t.pos
	for t.pos < len(t.src) {
		b := t.src[t.pos]
		if b == closer {
			break
		}
		if isNewlineStart(b) {
			break
		}
		if b == '\\' && t.pos+1 < len(t.src) {
			t.pos += 2
			continue
		}
		t.pos++
	}
	if t.pos > start {
		t.emit(partKind, start)
	}
	if t.byteAt(t.pos) == closer {
		closeStart := t.pos
		t.pos++
		t.emit(closeKind, closeStart)
	}
	t.pop()
}

// operatorTable is ordered longest-match-first so e.g. "??=" is tried
// before "??" and "?".
var operatorTable = []struct {
	text string
	kind Kind
}{
	{"??=", CoalesceAssign},
	{"<<=", ShiftLeftAssign},
	{">>=", ShiftRightAssign},
	{"...", Splat},
	{"??", Coalesce},
	{"?.", ConditionalAccess},
	{"&&", ConditionalAnd},
	{"||", ConditionalOr},
	{"=>", FatArrow},
	{"->", ThinArrow},
	{"==", ConditionalEquals},
	{"!=", ConditionalNotEquals},
	{"++", Increment},
	{"--", Decrement},
	{"+=", PlusAssign},
	{"-=", MinusAssign},
	{"*=", MultiplyAssign},
	{"/=", DivideAssign},
	{"%=", ModulusAssign},
	{"&=", AndAssign},
	{"|=", OrAssign},
	{"^=", XorAssign},
	{">=", GreaterThanEqualTo},
	{"<=", LessThanEqualTo},
	{"::", DoubleColon},
	{"=", Assign},
	{"<", AngleBracketOpen},
	{">", AngleBracketClose},
	{"!", Not},
	{"+", Plus},
	{"-", Minus},
	{"/", Divide},
	{"*", Multiply},
	{"%", Modulus},
	{"~", BinaryNot},
	{"|", BinaryOr},
	{"&", BinaryAnd},
	{"^", BinaryXor},
	{"?", QuestionMark},
	{":", Colon},
	{";", SemiColon},
	{".", Dot},
	{"@", At},
	{",", Comma},
	{"(", OpenParen},
	{")", CloseParen},
	{"[", SquareBraceOpen},
	{"]", SquareBraceClose},
	{"{", CurlyBraceOpen},
	{"}", CurlyBraceClose},
	{"#", HashTag},
}

func (t *Tokenizer) lexOperator() bool {
	start := t.pos
	remaining := t.src[t.pos:]
	for _, op := range operatorTable {
		n := len(op.text)
		if n <= len(remaining) && string(remaining[:n]) == op.text {
			t.pos += n
			t.emit(op.kind, start)
			return true
		}
	}
	return false
}
