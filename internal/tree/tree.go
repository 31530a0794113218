// Package tree derives two read-only views from a finished psi.Result's
// production stream — an abstract tree (nodes only) and a concrete,
// lossless tree (nodes plus every token leaf) — without re-parsing, per
// spec §4.F.
package tree

import (
	"strings"

	"github.com/emberlang/emberc/internal/psi"
	"github.com/emberlang/emberc/internal/token"
)

// AbstractNode is one entry in the abstract tree: a node plus its
// position among its siblings, reconstructed purely from production
// stream nesting.
type AbstractNode struct {
	NodeIndex   psi.NodeIndex
	Kind        psi.Kind
	Depth       int32
	Parent      int32 // index into Abstract.Nodes, -1 for the root
	FirstChild  int32
	NextSibling int32
	TokenStart  int32
	TokenEnd    int32
}

// Abstract is the whole abstract tree: one AbstractNode per production
// stream entry, in pre-order.
type Abstract struct {
	Nodes []AbstractNode
}

// BuildAbstract walks the production stream once. A positive entry opens
// a child of the current node (push); a negative entry closes it (pop);
// the end-of-stream sentinel (0) terminates the walk. Leaves (tokens)
// are not represented here — see BuildConcrete.
func BuildAbstract(result *psi.Result) *Abstract {
	a := &Abstract{}
	var stack []int32 // indices into a.Nodes
	var depth int32

	for _, entry := range result.Production {
		if entry == 0 {
			break
		}
		if entry > 0 {
			nodeIdx := psi.NodeIndex(entry)
			node := result.Nodes[nodeIdx]
			parent := int32(-1)
			if n := len(stack); n > 0 {
				parent = stack[n-1]
			}
			selfIdx := int32(len(a.Nodes))
			a.Nodes = append(a.Nodes, AbstractNode{
				NodeIndex:  nodeIdx,
				Kind:       node.Kind,
				Depth:      depth,
				Parent:     parent,
				FirstChild: -1,
				NextSibling: -1,
				TokenStart: node.TokenStart,
				TokenEnd:   node.TokenEnd,
			})
			if parent != -1 {
				linkChild(a, parent, selfIdx)
			}
			stack = append(stack, selfIdx)
			depth++
		} else {
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
			depth--
		}
	}
	return a
}

// linkChild appends child as a new last child of parent, maintaining
// FirstChild/NextSibling as a singly linked list.
func linkChild(a *Abstract, parent, child int32) {
	p := &a.Nodes[parent]
	if p.FirstChild == -1 {
		p.FirstChild = child
		return
	}
	cur := p.FirstChild
	for a.Nodes[cur].NextSibling != -1 {
		cur = a.Nodes[cur].NextSibling
	}
	a.Nodes[cur].NextSibling = child
}

// Children returns the indices (into a.Nodes) of node i's children, in
// order.
func (a *Abstract) Children(i int32) []int32 {
	var out []int32
	for c := a.Nodes[i].FirstChild; c != -1; c = a.Nodes[c].NextSibling {
		out = append(out, c)
	}
	return out
}

// ConcreteLeaf is a single token leaf in the concrete (lossless) tree.
type ConcreteLeaf struct {
	TokenIndex int32 // index into the full token stream (Result.Tokens)
}

// ConcreteEntry is either a node boundary or a leaf, emitted in the
// pre-order walk that BuildConcrete performs.
type ConcreteEntry struct {
	IsLeaf bool
	Node   AbstractNode // valid when !IsLeaf (Open) or on the matching Close
	Leaf   ConcreteLeaf // valid when IsLeaf
	Close  bool         // valid when !IsLeaf: true on a node's closing entry
}

// rawTokenIndex translates a non-trivial cursor position — the space
// Node.TokenStart/TokenEnd are expressed in — into the corresponding
// index in the full token vector. ntIdx one past the last non-trivial
// token (as seen on the file root's TokenEnd) maps to the raw index of
// the trailing EndOfInput sentinel if present, or one past the end of
// Tokens otherwise, so trailing trivia before end-of-file is still
// reachable.
func rawTokenIndex(result *psi.Result, ntIdx int32) int32 {
	raw := result.NonTrivialRawIndex
	if int(ntIdx) < len(raw) {
		return raw[ntIdx]
	}
	n := len(result.Tokens)
	if n > 0 && result.Tokens[n-1].Kind == token.EndOfInput {
		return int32(n - 1)
	}
	return int32(n)
}

// BuildConcrete walks the abstract tree and, for every node, emits every
// raw token in its range not already covered by a child — first before
// its first child, then between consecutive children, finally after the
// last child — walking the full token vector (Result.Tokens) rather than
// the non-trivial projection, so whitespace and comments (including any
// leading trivia before the file's first non-trivial token) are emitted
// too. Concatenated in pre-order and resolved to source bytes via
// LeafBytes/Reconstruct, the leaves reproduce the original source
// byte-exactly (spec §4.F, §8 invariant 3).
func BuildConcrete(a *Abstract, result *psi.Result) []ConcreteEntry {
	var out []ConcreteEntry
	if len(a.Nodes) == 0 {
		return out
	}
	var walk func(i int32)
	walk = func(i int32) {
		node := a.Nodes[i]
		out = append(out, ConcreteEntry{Node: node})

		var cursor int32
		if i == 0 {
			// The file root has no parent to have already claimed any
			// leading trivia before the first non-trivial token, so its
			// walk starts at the very first raw token rather than at
			// rawTokenIndex(node.TokenStart).
			cursor = 0
		} else {
			cursor = rawTokenIndex(result, node.TokenStart)
		}
		for _, child := range childList(a, i) {
			emitLeaves(&out, cursor, rawTokenIndex(result, a.Nodes[child].TokenStart))
			walk(child)
			cursor = rawTokenIndex(result, a.Nodes[child].TokenEnd)
		}
		emitLeaves(&out, cursor, rawTokenIndex(result, node.TokenEnd))

		out = append(out, ConcreteEntry{Node: node, Close: true})
	}
	walk(0)
	return out
}

func childList(a *Abstract, i int32) []int32 {
	return a.Children(i)
}

func emitLeaves(out *[]ConcreteEntry, from, to int32) {
	for t := from; t < to; t++ {
		*out = append(*out, ConcreteEntry{IsLeaf: true, Leaf: ConcreteLeaf{TokenIndex: t}})
	}
}

// LeafBytes returns the exact source bytes spanned by a single concrete
// leaf. Token has no Length field: tokens are emitted contiguously over
// the source (every byte belongs to exactly one token, trivia included),
// so a leaf's end boundary is simply the next token's offset, or the end
// of src for the last token.
func LeafBytes(result *psi.Result, src []byte, leaf ConcreteLeaf) []byte {
	idx := int(leaf.TokenIndex)
	start := result.Tokens[idx].Offset
	end := int32(len(src))
	if idx+1 < len(result.Tokens) {
		end = result.Tokens[idx+1].Offset
	}
	return src[start:end]
}

// Reconstruct concatenates every leaf's source bytes in pre-order. Given
// entries from a BuildConcrete walk that covers the whole file, the
// result is byte-for-byte identical to src (spec §4.F's round-trip
// guarantee).
func Reconstruct(entries []ConcreteEntry, result *psi.Result, src []byte) []byte {
	var out []byte
	for _, e := range entries {
		if !e.IsLeaf {
			continue
		}
		out = append(out, LeafBytes(result, src, e.Leaf)...)
	}
	return out
}

// DumpAbstract renders the abstract tree as indented "Kind [start,end)"
// lines, one per node, in pre-order — the two-pass size-then-fill
// structure of the original is unnecessary in Go, where strings.Builder
// already owns its own growth.
func DumpAbstract(a *Abstract) string {
	var sb strings.Builder
	if len(a.Nodes) == 0 {
		return ""
	}
	var walk func(i int32)
	walk = func(i int32) {
		n := a.Nodes[i]
		sb.WriteString(strings.Repeat("  ", int(n.Depth)))
		sb.WriteString(n.Kind.String())
		sb.WriteString("\n")
		for _, c := range a.Children(i) {
			walk(c)
		}
	}
	walk(0)
	return sb.String()
}
