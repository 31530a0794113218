// Package collections provides the bounds-checked, allocation-conscious
// data structures the parsing pipeline is built from: a non-owning array
// view, a bounded in-place list, a paged append-only list, a dense bitset,
// and a byte-span intern table.
package collections

import "fmt"

// CheckedArray is a non-owning view over a slice with explicit bounds
// checking on every access, mirroring the C++ original's CheckedArray<T>
// (a raw pointer + size pair with no ownership semantics). In Go this adds
// little over a slice for safety (slices already bounds-check), but it
// preserves the spec's distinction between an owning collection and a
// view callers must not assume outlives its backing arena.
type CheckedArray[T any] struct {
	data []T
}

// NewCheckedArray wraps s as a non-owning view.
func NewCheckedArray[T any](s []T) CheckedArray[T] {
	return CheckedArray[T]{data: s}
}

// Len returns the number of elements in the view.
func (c CheckedArray[T]) Len() int {
	return len(c.data)
}

// At returns the element at index i, panicking with an index-range message
// if out of bounds (bounds-checked per spec §4.B, rather than silently
// corrupting memory as an out-of-bounds C++ pointer access would).
func (c CheckedArray[T]) At(i int) T {
	if i < 0 || i >= len(c.data) {
		panic(fmt.Sprintf("collections: CheckedArray index %d out of range [0,%d)", i, len(c.data)))
	}
	return c.data[i]
}

// Set assigns the element at index i.
func (c CheckedArray[T]) Set(i int, v T) {
	if i < 0 || i >= len(c.data) {
		panic(fmt.Sprintf("collections: CheckedArray index %d out of range [0,%d)", i, len(c.data)))
	}
	c.data[i] = v
}

// Slice returns a sub-view [start, end), bounds-checked against this view.
func (c CheckedArray[T]) Slice(start, end int) CheckedArray[T] {
	if start < 0 || end > len(c.data) || start > end {
		panic(fmt.Sprintf("collections: CheckedArray slice [%d:%d) out of range [0,%d)", start, end, len(c.data)))
	}
	return CheckedArray[T]{data: c.data[start:end]}
}

// Raw returns the backing slice. Callers MUST NOT retain it beyond the
// lifetime of the arena that owns the underlying storage.
func (c CheckedArray[T]) Raw() []T {
	return c.data
}
