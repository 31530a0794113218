package alloc

// TempArena is a LinearArena extended with scoped rollback: callers mark
// a position, do scratch work, and roll back to free everything allocated
// since, without touching anything allocated before the mark.
type TempArena struct {
	LinearArena
}

// NewTempArena creates a TempArena with the given reserve and commit-step
// sizes (see NewLinearArena).
func NewTempArena(reserveSize, minCommitStep int) *TempArena {
	return &TempArena{LinearArena: *NewLinearArena(reserveSize, minCommitStep)}
}

// Marker is an opaque offset captured by Mark.
type Marker struct {
	offset int
}

// Mark captures the current allocation position.
func (a *TempArena) Mark() Marker {
	return Marker{offset: a.offset}
}

// RollbackTo rewinds the arena to a previously captured marker. Anything
// allocated after the marker is logically freed; callers MUST NOT retain
// slices obtained after the marker once rolled back.
func (a *TempArena) RollbackTo(m Marker) {
	if m.offset > a.offset {
		return
	}
	a.offset = m.offset
	a.failed = false
}

// ScopedMarker guarantees rollback on every exit path from a scope:
//
//	sm := arena.Scoped()
//	defer sm.Release()
type ScopedMarker struct {
	arena *TempArena
	mark  Marker
	done  bool
}

// Scoped marks the current position and returns a handle whose Release
// rolls back to it. Safe to call Release more than once.
func (a *TempArena) Scoped() *ScopedMarker {
	return &ScopedMarker{arena: a, mark: a.Mark()}
}

// Release rolls the owning arena back to the mark taken by Scoped.
func (sm *ScopedMarker) Release() {
	if sm.done {
		return
	}
	sm.arena.RollbackTo(sm.mark)
	sm.done = true
}
