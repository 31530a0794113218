package collections

import "sync"

// fnv1aOffset and fnv1aPrime are the 64-bit FNV-1a constants. The probing
// recurrence in spec §4.B is pinned to this hash's bit width (W = 64), so
// a different hash function cannot be substituted without changing the
// shift amount below.
const (
	fnv1aOffset uint64 = 14695981039346656037
	fnv1aPrime  uint64 = 1099511628211
	hashWidth          = 64
)

func fnv1a(b []byte) uint64 {
	h := fnv1aOffset
	for _, c := range b {
		h ^= uint64(c)
		h *= fnv1aPrime
	}
	return h
}

// Span identifies a canonical, interned byte sequence by its position in
// the table's backing store, not by a Go string header — this is what
// lets the table report "the" canonical span for repeated insertions of
// equal bytes without retaining every caller's original allocation.
type Span struct {
	Bytes []byte
}

// InternTable is an open-addressed table keyed by byte-spans, using an
// FNV-1a hash and the MSI ("multiplicative, shift, increment") probing
// recurrence from spec §4.B:
//
//	idx = (idx + ((hash >> (W - exp)) | 1)) & ((1 << exp) - 1)
//
// exp is the table's size exponent (capacity == 1<<exp); probing always
// visits every slot before repeating because the step is always odd.
type InternTable struct {
	mu      sync.RWMutex
	exp     uint
	slots   []internSlot
	count   int
	backing Allocator
}

type internSlot struct {
	occupied bool
	hash     uint64
	span     []byte
}

// Allocator is the minimal capability InternTable needs to own copies of
// interned bytes: a single-method seam so the intern table can be backed
// by either alloc.ArenaAllocator or alloc.HeapAllocator without importing
// the full alloc package's interface (avoids an import cycle risk as
// alloc grows independent of collections).
type Allocator interface {
	AllocateBytes(size, align int) []byte
}

const initialExp = 6 // 64 slots

// NewInternTable creates an intern table backed by the given allocator for
// copies of interned byte spans.
func NewInternTable(backing Allocator) *InternTable {
	t := &InternTable{exp: initialExp, backing: backing}
	t.slots = make([]internSlot, 1<<t.exp)
	return t
}

func (t *InternTable) capacity() int {
	return 1 << t.exp
}

func (t *InternTable) probe(hash uint64, exp uint) int {
	return int((hash >> (hashWidth - exp)) | 1)
}

// Intern returns the canonical stored span equal to b, copying b into the
// backing allocator and installing it if no equal span exists yet.
func (t *InternTable) Intern(b []byte) []byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	hash := fnv1a(b)
	if span, ok := t.find(hash, b); ok {
		return span
	}

	if (t.count+1)*2 > t.capacity() {
		t.rehash(t.exp + 1)
	}

	return t.insert(hash, b)
}

// find returns the canonical span for b if present, without mutating the
// table (hit path, per spec: "On hit, return the canonical stored span").
func (t *InternTable) find(hash uint64, b []byte) ([]byte, bool) {
	mask := uint64(t.capacity() - 1)
	idx := hash & mask
	step := t.probe(hash, t.exp)
	for i := 0; i < t.capacity(); i++ {
		slot := &t.slots[idx]
		if !slot.occupied {
			return nil, false
		}
		if slot.hash == hash && bytesEqual(slot.span, b) {
			return slot.span, true
		}
		idx = (idx + uint64(step)) & mask
	}
	return nil, false
}

// insert copies b into the backing allocator (NUL-terminated to match the
// original's C-string storage convention, though Go callers should use the
// returned length-bound slice rather than scanning for the terminator) and
// installs it at its probe position.
func (t *InternTable) insert(hash uint64, b []byte) []byte {
	owned := t.backing.AllocateBytes(len(b)+1, 1)
	copy(owned, b)
	owned[len(b)] = 0
	span := owned[:len(b)]

	mask := uint64(t.capacity() - 1)
	idx := hash & mask
	step := t.probe(hash, t.exp)
	for t.slots[idx].occupied {
		idx = (idx + uint64(step)) & mask
	}
	t.slots[idx] = internSlot{occupied: true, hash: hash, span: span}
	t.count++
	return span
}

func (t *InternTable) rehash(newExp uint) {
	old := t.slots
	t.exp = newExp
	t.slots = make([]internSlot, 1<<newExp)
	mask := uint64(t.capacity() - 1)
	for _, slot := range old {
		if !slot.occupied {
			continue
		}
		idx := slot.hash & mask
		step := t.probe(slot.hash, t.exp)
		for t.slots[idx].occupied {
			idx = (idx + uint64(step)) & mask
		}
		t.slots[idx] = slot
	}
}

// Len returns the number of interned spans.
func (t *InternTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
