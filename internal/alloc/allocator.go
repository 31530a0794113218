package alloc

// Allocator is the abstract allocation capability components receive
// instead of a concrete arena, so that callers MUST NOT assume which
// backing store is in play (spec §4.A). It is the Go-native replacement
// for the C++ original's cookie + function-pointer pair.
type Allocator interface {
	// AllocateBytes returns a zeroed region of the given size and alignment.
	AllocateBytes(size, align int) []byte
	// Free returns a region to the allocator. A no-op for allocators that
	// only bulk-free (e.g. an arena-backed allocator).
	Free(b []byte)
}

// ArenaAllocator delegates to a LinearArena. Free is a no-op: arena memory
// is reclaimed in bulk by Reset, never per-allocation.
type ArenaAllocator struct {
	arena *LinearArena
}

// NewArenaAllocator wraps a LinearArena as an Allocator.
func NewArenaAllocator(arena *LinearArena) *ArenaAllocator {
	return &ArenaAllocator{arena: arena}
}

func (a *ArenaAllocator) AllocateBytes(size, align int) []byte {
	return a.arena.AllocateBytes(size, align)
}

func (a *ArenaAllocator) Free([]byte) {}

// HeapAllocator delegates to the Go process allocator (make/GC). Free is a
// no-op as well — Go has no manual free; it exists purely so code written
// against the Allocator interface behaves identically whether plugged
// into an arena or the heap.
type HeapAllocator struct{}

// NewHeapAllocator returns the process-heap-backed Allocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{}
}

func (h *HeapAllocator) AllocateBytes(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	return make([]byte, size)
}

func (h *HeapAllocator) Free([]byte) {}
