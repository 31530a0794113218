package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedPodList_AppendUntilFull(t *testing.T) {
	l := NewFixedPodList[int](2)
	assert.True(t, l.Append(1))
	assert.True(t, l.Append(2))
	assert.False(t, l.Append(3))
	assert.Equal(t, 2, l.Len())
	assert.True(t, l.Full())
}

func TestFixedPodList_PopReturnsLIFOOrder(t *testing.T) {
	l := NewFixedPodList[string](4)
	l.Append("a")
	l.Append("b")
	l.Append("c")

	v, ok := l.Pop()
	require.True(t, ok)
	assert.Equal(t, "c", v)
	assert.Equal(t, 2, l.Len())

	_, _ = l.Pop()
	_, _ = l.Pop()
	_, ok = l.Pop()
	assert.False(t, ok)
}

func TestFixedPodList_SwapRemove(t *testing.T) {
	l := NewFixedPodList[int](4)
	l.Append(10)
	l.Append(20)
	l.Append(30)

	ok := l.SwapRemove(0)
	require.True(t, ok)
	assert.Equal(t, 2, l.Len())
	v, _ := l.Peek(0)
	assert.Equal(t, 30, v)

	assert.False(t, l.SwapRemove(5))
}

func TestFixedPodList_Peek(t *testing.T) {
	l := NewFixedPodList[int](2)
	_, ok := l.Peek(0)
	assert.False(t, ok)

	l.Append(7)
	v, ok := l.Peek(0)
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestFixedPodList_ReserveN(t *testing.T) {
	l := NewFixedPodList[int](4)
	l.Append(1)

	reserved := l.ReserveN(2)
	require.Len(t, reserved, 2)
	reserved[0] = 100
	reserved[1] = 200

	assert.Equal(t, 3, l.Len())
	v, _ := l.Peek(1)
	assert.Equal(t, 100, v)

	assert.Nil(t, l.ReserveN(10))
}

func TestFixedPodList_SetAll(t *testing.T) {
	l := NewFixedPodList[int](3)
	l.Append(1)
	l.Append(2)
	l.SetAll(9)
	v0, _ := l.Peek(0)
	v1, _ := l.Peek(1)
	assert.Equal(t, 9, v0)
	assert.Equal(t, 9, v1)
}

func TestFixedPodList_Clear(t *testing.T) {
	l := NewFixedPodList[int](3)
	l.Append(1)
	l.Append(2)
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 3, l.Cap())
}

func TestFixedPodList_SliceAndRaw(t *testing.T) {
	l := NewFixedPodList[int](3)
	l.Append(1)
	l.Append(2)

	view := l.Slice()
	assert.Equal(t, 2, view.Len())
	assert.Equal(t, 1, view.At(0))

	raw := l.Raw()
	require.Len(t, raw, 2)
	raw[0] = 42
	v, _ := l.Peek(0)
	assert.Equal(t, 42, v)
}

func TestNewFixedPodListOver_RespectsExistingLength(t *testing.T) {
	buf := make([]int, 2, 5)
	buf[0], buf[1] = 1, 2
	l := NewFixedPodListOver(buf)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 5, l.Cap())
	assert.True(t, l.Append(3))
}
