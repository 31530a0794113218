package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLongBoolMap_SetGetUnset(t *testing.T) {
	m := NewLongBoolMap(10)
	assert.False(t, m.Get(3))
	m.Set(3)
	assert.True(t, m.Get(3))
	m.Unset(3)
	assert.False(t, m.Get(3))
}

func TestLongBoolMap_GrowsPastInitialSize(t *testing.T) {
	m := NewLongBoolMap(4)
	m.Set(200)
	assert.True(t, m.Get(200))
	assert.False(t, m.Get(199))
}

func TestLongBoolMap_TrySetReportsTransition(t *testing.T) {
	m := NewLongBoolMap(10)
	assert.True(t, m.TrySet(5))
	assert.False(t, m.TrySet(5))
	assert.True(t, m.TryUnset(5))
	assert.False(t, m.TryUnset(5))
}

func TestLongBoolMap_PopCount(t *testing.T) {
	m := NewLongBoolMap(128)
	for _, i := range []int{0, 1, 63, 64, 127} {
		m.Set(i)
	}
	assert.Equal(t, 5, m.PopCount())
}

func TestLongBoolMap_Clear(t *testing.T) {
	m := NewLongBoolMap(64)
	m.Set(10)
	m.Set(20)
	m.Clear()
	assert.Equal(t, 0, m.PopCount())
}

func TestLongBoolMap_Combine(t *testing.T) {
	a := NewLongBoolMap(64)
	a.Set(1)
	b := NewLongBoolMap(128)
	b.Set(1)
	b.Set(100)
	a.Combine(b)
	assert.True(t, a.Get(1))
	assert.True(t, a.Get(100))
}

func TestLongBoolMap_ContainsAny(t *testing.T) {
	a := NewLongBoolMap(64)
	a.Set(5)
	b := NewLongBoolMap(64)
	assert.False(t, a.ContainsAny(b))
	b.Set(5)
	assert.True(t, a.ContainsAny(b))
}

func TestLongBoolMap_Enumerate(t *testing.T) {
	m := NewLongBoolMap(128)
	want := []int{2, 64, 90, 127}
	for _, i := range want {
		m.Set(i)
	}

	var got []int
	m.Enumerate(func(i int) bool {
		got = append(got, i)
		return true
	})
	assert.Equal(t, want, got)
}

func TestLongBoolMap_EnumerateStopsEarly(t *testing.T) {
	m := NewLongBoolMap(64)
	m.Set(1)
	m.Set(2)
	m.Set(3)

	var got []int
	m.Enumerate(func(i int) bool {
		got = append(got, i)
		return false
	})
	assert.Equal(t, []int{1}, got)
}

func TestMapSizeForCount(t *testing.T) {
	assert.Equal(t, 0, MapSizeForCount(0))
	assert.Equal(t, 1, MapSizeForCount(1))
	assert.Equal(t, 1, MapSizeForCount(64))
	assert.Equal(t, 2, MapSizeForCount(65))
}
