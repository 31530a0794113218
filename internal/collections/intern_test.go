package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/emberc/internal/alloc"
)

func TestInternTable_InternReturnsSameSpanForEqualBytes(t *testing.T) {
	table := NewInternTable(alloc.NewLinearArena(1<<16, 4096))

	a := table.Intern([]byte("hello"))
	b := table.Intern([]byte("hello"))
	require.Equal(t, 1, table.Len())
	assert.Equal(t, &a[0], &b[0], "equal byte spans must intern to the same backing storage")
}

func TestInternTable_DistinctBytesGetDistinctSpans(t *testing.T) {
	table := NewInternTable(alloc.NewLinearArena(1<<16, 4096))

	a := table.Intern([]byte("foo"))
	b := table.Intern([]byte("bar"))
	assert.Equal(t, 2, table.Len())
	assert.NotEqual(t, string(a), string(b))
}

func TestInternTable_PreservesContentAcrossRehash(t *testing.T) {
	table := NewInternTable(alloc.NewLinearArena(1<<20, 4096))

	var want []string
	for i := 0; i < 200; i++ {
		s := string(rune('a'+(i%26))) + string(rune('A'+(i/26)%26))
		want = append(want, s)
		table.Intern([]byte(s))
	}

	for _, s := range want {
		span := table.Intern([]byte(s))
		assert.Equal(t, s, string(span))
	}
}

func TestInternTable_Len(t *testing.T) {
	table := NewInternTable(alloc.NewLinearArena(1<<16, 4096))
	assert.Equal(t, 0, table.Len())
	table.Intern([]byte("x"))
	table.Intern([]byte("x"))
	table.Intern([]byte("y"))
	assert.Equal(t, 2, table.Len())
}
