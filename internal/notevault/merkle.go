// merkle.go - Fixed-depth MiMC Merkle tree over note commitments.

package notevault

import (
	"bytes"
	"fmt"
)

// Tree is an immutable Merkle tree of commitments, padded to 2^depth leaves
// with a fixed default value. Level 0 stores MiMC(commitment) for each leaf
// and interior nodes store MiMC(left || right), the same convention the
// in-circuit verifier applies.
type Tree struct {
	depth    int
	hash     HashFunc
	zeroLeaf []byte
	leaves   [][]byte   // commitments, insertion order
	zeros    [][]byte   // zeros[k] roots an all-default subtree of height k
	levels   [][][]byte // levels[k] holds the populated digests at height k
}

// AuthPath authenticates one leaf: the commitment itself, one sibling digest
// per level (leaf level first) and the leaf index. Bit k of Index says
// whether the walked node is the right child at level k.
type AuthPath struct {
	Leaf     []byte
	Siblings [][]byte
	Index    int
}

// GenerateZeroHashes returns the padding ladder for a tree of the given
// depth: element 0 hashes the raw default leaf and element k+1 hashes two
// copies of element k.
func GenerateZeroHashes(h HashFunc, depth int, zeroLeaf []byte) [][]byte {
	zeros := make([][]byte, depth+1)
	zeros[0] = h(zeroLeaf)
	for k := 0; k < depth; k++ {
		zeros[k+1] = h(zeros[k], zeros[k])
	}
	return zeros
}

// NewTree builds the tree over the given commitments in order. It rejects
// more than 2^depth leaves and leaves that are not exactly one digest wide.
func NewTree(p *Params, leaves [][]byte) (*Tree, error) {
	depth := p.TreeDepth
	if uint64(len(leaves)) > uint64(1)<<uint(depth) {
		return nil, fmt.Errorf("%w: %d leaves exceed a depth-%d tree", ErrConstruction, len(leaves), depth)
	}
	bs := p.digestSize()
	for i, leaf := range leaves {
		if len(leaf) != bs {
			return nil, fmt.Errorf("%w: leaf %d is %d bytes, want %d", ErrConstruction, i, len(leaf), bs)
		}
	}

	h := p.hasher()
	zeros := GenerateZeroHashes(h, depth, p.zeroLeaf())

	levels := make([][][]byte, depth+1)
	cur := make([][]byte, len(leaves))
	for i, leaf := range leaves {
		cur[i] = h(leaf)
	}
	for k := 0; k < depth; k++ {
		if len(cur)%2 == 1 {
			cur = append(cur, zeros[k])
		}
		levels[k] = cur
		next := make([][]byte, len(cur)/2)
		for i := range next {
			next[i] = h(cur[2*i], cur[2*i+1])
		}
		cur = next
	}
	levels[depth] = cur

	return &Tree{
		depth:    depth,
		hash:     h,
		zeroLeaf: p.zeroLeaf(),
		leaves:   leaves,
		zeros:    zeros,
		levels:   levels,
	}, nil
}

// Root returns the tree root. A tree with no populated leaves roots at the
// top of the padding ladder.
func (t *Tree) Root() []byte {
	if len(t.levels[t.depth]) == 0 {
		return t.zeros[t.depth]
	}
	return t.levels[t.depth][0]
}

// Depth returns the fixed tree depth.
func (t *Tree) Depth() int { return t.depth }

// NumLeaves returns the number of populated leaves.
func (t *Tree) NumLeaves() int { return len(t.leaves) }

// PathFor returns the authentication path for the leaf at index. Indices
// past the populated leaves are structurally valid and authenticate the
// padding value; proving possession of padding is the caller's mistake.
func (t *Tree) PathFor(index int) (*AuthPath, error) {
	if index < 0 || uint64(index) >= uint64(1)<<uint(t.depth) {
		return nil, fmt.Errorf("%w: leaf index %d outside a depth-%d tree", ErrConstruction, index, t.depth)
	}
	siblings := make([][]byte, t.depth)
	pos := index
	for k := 0; k < t.depth; k++ {
		sib := pos ^ 1
		if sib < len(t.levels[k]) {
			siblings[k] = t.levels[k][sib]
		} else {
			siblings[k] = t.zeros[k]
		}
		pos >>= 1
	}
	leaf := t.zeroLeaf
	if index < len(t.leaves) {
		leaf = t.leaves[index]
	}
	return &AuthPath{Leaf: leaf, Siblings: siblings, Index: index}, nil
}

// VerifyAuthPath walks the path natively and reports whether it reaches
// root. It is the out-of-circuit twin of the membership constraint.
func VerifyAuthPath(p *Params, path *AuthPath, root []byte) bool {
	if path == nil || path.Index < 0 || len(path.Siblings) == 0 {
		return false
	}
	bs := p.digestSize()
	if len(path.Leaf) > bs {
		return false
	}
	h := p.hasher()
	cur := h(path.Leaf)
	pos := path.Index
	for _, sib := range path.Siblings {
		if len(sib) > bs {
			return false
		}
		if pos&1 == 1 {
			cur = h(sib, cur)
		} else {
			cur = h(cur, sib)
		}
		pos >>= 1
	}
	return bytes.Equal(cur, root)
}
