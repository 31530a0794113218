package alloc

// blockSizeClasses are the fixed size classes the block pool serves.
// Allocations larger than the last class bypass the pool entirely and are
// leaked into the backing arena (acceptable because the arena is bulk-freed
// on Reset) — ported directly from BytePoolAllocator.cpp's switch ladder.
var blockSizeClasses = [8]int{32, 64, 128, 256, 512, 1024, 2048, 4096}

const maxBlockClass = 4096

// BlockPool is a size-classed free-list allocator backed by a LinearArena.
// It trades a small amount of internal fragmentation (every request is
// rounded up to the next class) for O(1) allocate/free of short-lived,
// variously-sized structures the parser and PSI builder churn through.
type BlockPool struct {
	arena     *LinearArena
	freeLists [8][][]byte
}

// NewBlockPool creates a block pool over the given backing arena.
func NewBlockPool(arena *LinearArena) *BlockPool {
	return &BlockPool{arena: arena}
}

// ceilPow2 rounds n up to the next power of two (ported from
// BytePoolAllocator.cpp's CeilPow2).
func ceilPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

func classIndexFor(bytes int) (int, bool) {
	size := ceilPow2(bytes)
	if size < 32 {
		size = 32
	}
	for i, c := range blockSizeClasses {
		if size == c {
			return i, true
		}
	}
	return -1, false
}

// Allocate returns a zeroed block of at least the requested size. Requests
// larger than 4096 bytes are served directly from the arena and cannot be
// returned to the pool via Free.
func (p *BlockPool) Allocate(bytes int) []byte {
	idx, ok := classIndexFor(bytes)
	if !ok {
		return p.arena.AllocateBytes(bytes, 8)
	}
	class := blockSizeClasses[idx]
	list := p.freeLists[idx]
	if n := len(list); n > 0 {
		blk := list[n-1]
		p.freeLists[idx] = list[:n-1]
		for i := range blk {
			blk[i] = 0
		}
		return blk
	}
	return p.arena.AllocateBytes(class, 8)
}

// Free returns a block to the pool for the given class derived from bytes
// (the size originally requested, not necessarily cap(blk)). Blocks larger
// than the largest class are silently discarded, matching the original's
// "anything bigger we just leak into the allocator."
func (p *BlockPool) Free(blk []byte, bytes int) {
	idx, ok := classIndexFor(bytes)
	if !ok {
		return
	}
	p.freeLists[idx] = append(p.freeLists[idx], blk[:blockSizeClasses[idx]])
}
