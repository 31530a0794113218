package psi

// Node is a single arena slot. TokenStart/TokenEnd are non-trivial token
// cursor positions (half-open), not byte offsets. Message is populated
// only for ErrorNode.
type Node struct {
	Kind       Kind
	TokenStart int32
	TokenEnd   int32
	Message    string
}

// NodeIndex identifies a slot in the builder's node arena. 0 is the
// invalid sentinel; 1 is always the file root once initialization has
// run.
type NodeIndex int32

const (
	InvalidNodeIndex NodeIndex = 0
	RootNodeIndex    NodeIndex = 1
)

// Marker is a handle to an open (not-yet-done) node slot, returned by
// Mark and consumed by Done/Drop/Precede/Rollback.
type Marker struct {
	id int32
}

// Index returns the marker's underlying node slot.
func (m Marker) Index() NodeIndex { return NodeIndex(m.id) }
