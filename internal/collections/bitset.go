package collections

import "math/bits"

const wordBits = 64

// LongBoolMap is a dense bitset backed by 64-bit words, ported from the
// C++ original's LongBoolMap (Collections/LongBoolMap.h/.cpp).
type LongBoolMap struct {
	words []uint64
}

// MapSizeForCount returns ceil(n / 64), the number of words needed to
// represent n bits.
func MapSizeForCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + wordBits - 1) / wordBits
}

// NewLongBoolMap creates a bitset with room for at least n bits.
func NewLongBoolMap(n int) *LongBoolMap {
	return &LongBoolMap{words: make([]uint64, MapSizeForCount(n))}
}

func (m *LongBoolMap) ensure(word int) {
	if word < len(m.words) {
		return
	}
	grown := make([]uint64, word+1)
	copy(grown, m.words)
	m.words = grown
}

// Get reports whether bit i is set.
func (m *LongBoolMap) Get(i int) bool {
	word := i / wordBits
	if word >= len(m.words) {
		return false
	}
	return m.words[word]&(uint64(1)<<uint(i%wordBits)) != 0
}

// Set unconditionally sets bit i, growing the backing storage if needed.
func (m *LongBoolMap) Set(i int) {
	word := i / wordBits
	m.ensure(word)
	m.words[word] |= uint64(1) << uint(i%wordBits)
}

// Unset unconditionally clears bit i.
func (m *LongBoolMap) Unset(i int) {
	word := i / wordBits
	if word >= len(m.words) {
		return
	}
	m.words[word] &^= uint64(1) << uint(i%wordBits)
}

// TrySet sets bit i and returns true iff that was a 0→1 transition.
func (m *LongBoolMap) TrySet(i int) bool {
	if m.Get(i) {
		return false
	}
	m.Set(i)
	return true
}

// TryUnset clears bit i and returns true iff that was a 1→0 transition.
func (m *LongBoolMap) TryUnset(i int) bool {
	if !m.Get(i) {
		return false
	}
	m.Unset(i)
	return true
}

// PopCount returns the total number of set bits.
func (m *LongBoolMap) PopCount() int {
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clear unsets every bit without releasing backing storage.
func (m *LongBoolMap) Clear() {
	for i := range m.words {
		m.words[i] = 0
	}
}

// Combine unions other into m in place (the receiver grows if other is
// wider).
func (m *LongBoolMap) Combine(other *LongBoolMap) {
	if len(other.words) > len(m.words) {
		m.ensure(len(other.words) - 1)
	}
	for i, w := range other.words {
		m.words[i] |= w
	}
}

// ContainsAny reports whether m and other have any bit in common.
func (m *LongBoolMap) ContainsAny(other *LongBoolMap) bool {
	n := len(m.words)
	if len(other.words) < n {
		n = len(other.words)
	}
	for i := 0; i < n; i++ {
		if m.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

// Enumerate calls fn with the index of every set bit in ascending order,
// using TrailingZeros64 to skip runs of zero words, stopping early if fn
// returns false.
func (m *LongBoolMap) Enumerate(fn func(i int) bool) {
	for wi, w := range m.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			idx := wi*wordBits + tz
			if !fn(idx) {
				return
			}
			w &= w - 1 // clear lowest set bit
		}
	}
}
