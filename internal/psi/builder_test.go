package psi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/emberc/internal/token"
)

func TestNewBuilder_SimpleValidSource(t *testing.T) {
	b, ok := NewBuilder([]byte("x"))
	require.True(t, ok)
	assert.False(t, b.hasBadCharacters)
	assert.False(t, b.hasUnmatchedDelimiters)
	assert.True(t, b.hasNonTrivialContent)
}

func TestNewBuilder_UnmatchedDelimiterProducesError(t *testing.T) {
	b, ok := NewBuilder([]byte("foo("))
	require.False(t, ok)
	assert.True(t, b.hasUnmatchedDelimiters)
	require.Equal(t, 1, b.errors.Len())
	first, _ := b.errors.At(0)
	assert.Contains(t, first.Message, "unmatched paren open")
}

func TestNewBuilder_BadCharacterFlagged(t *testing.T) {
	b, ok := NewBuilder([]byte("a \x01 b"))
	require.False(t, ok)
	assert.True(t, b.hasBadCharacters)
	require.Equal(t, 1, b.errors.Len())
	first, _ := b.errors.At(0)
	assert.Equal(t, "bad character", first.Message)
}

func TestBuilder_MarkDoneProducesProduction(t *testing.T) {
	b, ok := NewBuilder([]byte("x"))
	require.True(t, ok)

	m := b.Mark()
	b.Advance() // consume "x"
	idx := b.Done(m, IdentifierName)

	result, _ := b.Finalize()
	assert.Equal(t, IdentifierName, result.Nodes[idx].Kind)
	assert.Contains(t, result.Production, int32(idx))
	assert.Contains(t, result.Production, -int32(idx))
}

func TestBuilder_DropRemovesUnclosedMarker(t *testing.T) {
	b, ok := NewBuilder([]byte("x"))
	require.True(t, ok)

	before := len(b.production)
	m := b.Mark()
	assert.Len(t, b.production, before+1)
	b.Drop(m)
	assert.Len(t, b.production, before)
}

func TestBuilder_PrecedeWrapsPriorNode(t *testing.T) {
	b, ok := NewBuilder([]byte("a+b"))
	require.True(t, ok)

	left := b.Mark()
	b.Advance() // "a"
	leftIdx := b.Done(left, IdentifierName)

	outer := b.Precede(Marker{id: int32(leftIdx)})
	b.Advance() // "+"
	b.Advance() // "b"
	outerIdx := b.Done(outer, BinaryExpression)

	result, _ := b.Finalize()
	assert.Equal(t, BinaryExpression, result.Nodes[outerIdx].Kind)
	assert.Equal(t, IdentifierName, result.Nodes[leftIdx].Kind)
	// outer's open must appear before left's open in the production stream.
	outerPos := indexOf(result.Production, int32(outerIdx))
	leftPos := indexOf(result.Production, int32(leftIdx))
	assert.Less(t, outerPos, leftPos)
}

func TestBuilder_RollbackRewindsCursorAndProduction(t *testing.T) {
	b, ok := NewBuilder([]byte("a b"))
	require.True(t, ok)

	m := b.Mark()
	b.Advance()
	b.Advance()
	beforeRollback := len(b.production)
	_ = beforeRollback
	b.Rollback(m)

	assert.Equal(t, int32(0), b.TokenIndex())
	assert.Empty(t, b.production[1:]) // only the root's open entry survives
}

func TestBuilder_SubStreamScoping(t *testing.T) {
	b, ok := NewBuilder([]byte("f(a, b)"))
	require.True(t, ok)

	// Advance past "f".
	b.Advance()
	require.True(t, b.TryGetDelimitedSubStream(token.OpenParen, token.CloseParen))

	var names []token.Kind
	for !b.AtEnd() {
		names = append(names, b.CurrentKind())
		b.Advance()
	}
	b.PopStream()

	assert.Equal(t, []token.Kind{
		token.KeywordOrIdentifier, token.Comma, token.KeywordOrIdentifier,
	}, names)
	assert.Equal(t, token.EndOfInput, b.CurrentKind()) // resumed past ")" at file end
}

func TestBuilder_Finalize_InlineErrorAttachesToPrecedingToken(t *testing.T) {
	b, ok := NewBuilder([]byte("a b"))
	require.True(t, ok)

	b.Advance() // consume "a"
	b.InlineError("expected semicolon")

	result, valid := b.Finalize()
	assert.False(t, valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, int32(0), result.Errors[0].TokenStart)
}

func indexOf(s []int32, v int32) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
