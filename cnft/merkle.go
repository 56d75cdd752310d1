package cnft

import (
	"bytes"
	"fmt"
)

// MaxDepth is the deepest tree this package builds. It matches the depth
// limit of Bubblegum trees.
const MaxDepth = 30

// HashPair combines two nodes in canonical order: the lexicographically
// smaller (or equal) node comes first. Proofs therefore carry no direction
// bits.
func HashPair(a, b [32]byte) [32]byte {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return Hashv(a[:], b[:])
	}
	return Hashv(b[:], a[:])
}

// ComputeRoot folds proof into leaf, bottom-up.
func ComputeRoot(leaf [32]byte, proof [][32]byte) [32]byte {
	node := leaf
	for _, sibling := range proof {
		node = HashPair(node, sibling)
	}
	return node
}

// ValidateProof reports whether proof leads from leaf to root. An empty
// proof is valid only when leaf equals root.
func ValidateProof(root, leaf [32]byte, proof [][32]byte) bool {
	return ComputeRoot(leaf, proof) == root
}

// VerifyLeaf is ValidateProof returning ErrBadMerkleVerification on failure.
func VerifyLeaf(root, leaf [32]byte, proof [][32]byte) error {
	if !ValidateProof(root, leaf, proof) {
		return ErrBadMerkleVerification
	}
	return nil
}

// Tree is a fixed-depth sorted-pair merkle tree. Only non-empty nodes are
// held in memory; unset leaves are all-zero.
type Tree struct {
	depth  int
	empty  [][32]byte
	levels []map[uint32][32]byte
	next   uint32
}

// NewTree creates a tree of the given depth holding leaves at indices
// 0..len(leaves)-1.
func NewTree(depth int, leaves ...[32]byte) (*Tree, error) {
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidDepth, depth, MaxDepth)
	}
	if uint64(len(leaves)) > uint64(1)<<depth {
		return nil, fmt.Errorf("%w: %d leaves for depth %d", ErrLeafIndexOutOfRange, len(leaves), depth)
	}

	t := &Tree{
		depth:  depth,
		empty:  make([][32]byte, depth+1),
		levels: make([]map[uint32][32]byte, depth+1),
	}
	for i := 1; i <= depth; i++ {
		t.empty[i] = HashPair(t.empty[i-1], t.empty[i-1])
	}
	for i := range t.levels {
		t.levels[i] = make(map[uint32][32]byte)
	}
	for i, leaf := range leaves {
		t.set(uint32(i), leaf)
	}
	t.next = uint32(len(leaves))
	return t, nil
}

// Depth returns the tree depth.
func (t *Tree) Depth() int { return t.depth }

// Capacity returns the number of leaf slots.
func (t *Tree) Capacity() uint64 { return uint64(1) << t.depth }

// Root returns the current root.
func (t *Tree) Root() [32]byte { return t.node(t.depth, 0) }

// Leaf returns the leaf at index.
func (t *Tree) Leaf(index uint32) ([32]byte, error) {
	if err := t.checkIndex(index); err != nil {
		return [32]byte{}, err
	}
	return t.node(0, index), nil
}

// Proof returns the sibling path for index, bottom-up.
func (t *Tree) Proof(index uint32) ([][32]byte, error) {
	if err := t.checkIndex(index); err != nil {
		return nil, err
	}
	proof := make([][32]byte, t.depth)
	idx := index
	for level := 0; level < t.depth; level++ {
		proof[level] = t.node(level, idx^1)
		idx >>= 1
	}
	return proof, nil
}

// Update replaces the leaf at index and recomputes the path to the root.
func (t *Tree) Update(index uint32, leaf [32]byte) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	t.set(index, leaf)
	if index >= t.next {
		t.next = index + 1
	}
	return nil
}

// Append writes leaf to the first slot after the highest written index and
// returns that index.
func (t *Tree) Append(leaf [32]byte) (uint32, error) {
	if uint64(t.next) >= t.Capacity() {
		return 0, fmt.Errorf("%w: tree is full", ErrLeafIndexOutOfRange)
	}
	index := t.next
	t.set(index, leaf)
	t.next++
	return index, nil
}

func (t *Tree) checkIndex(index uint32) error {
	if uint64(index) >= t.Capacity() {
		return fmt.Errorf("%w: %d >= %d", ErrLeafIndexOutOfRange, index, t.Capacity())
	}
	return nil
}

func (t *Tree) node(level int, idx uint32) [32]byte {
	if n, ok := t.levels[level][idx]; ok {
		return n
	}
	return t.empty[level]
}

func (t *Tree) set(index uint32, leaf [32]byte) {
	idx := index
	t.levels[0][idx] = leaf
	for level := 0; level < t.depth; level++ {
		parent := HashPair(t.node(level, idx&^1), t.node(level, idx|1))
		idx >>= 1
		t.levels[level+1][idx] = parent
	}
}
