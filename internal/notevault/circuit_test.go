// circuit_test.go - Constraint-level tests for the possession relation.

package notevault

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"
)

// buildInstance mints count notes and commits them into a fresh tree.
func buildInstance(t *testing.T, p *Params, count int) ([]*Note, *Tree) {
	t.Helper()
	notes := make([]*Note, count)
	leaves := make([][]byte, count)
	for i := range notes {
		n, err := NewNote(p, big.NewInt(int64(100+i)))
		if err != nil {
			t.Fatal(err)
		}
		notes[i] = n
		leaves[i] = n.Commitment()
	}
	tree, err := NewTree(p, leaves)
	if err != nil {
		t.Fatal(err)
	}
	return notes, tree
}

func TestPossessionCircuit(t *testing.T) {
	assert := test.NewAssert(t)
	p := testParams(t, 2, false)
	rel := p.Relation()
	notes, tree := buildInstance(t, p, 4)

	path, err := tree.PathFor(1)
	assert.NoError(err)
	valid, err := rel.assignment(notes[1], path, tree.Root())
	assert.NoError(err)

	// Same witness pointed at a foreign root.
	_, otherTree := buildInstance(t, p, 4)
	invalid, err := rel.assignment(notes[1], path, otherTree.Root())
	assert.NoError(err)

	assert.CheckCircuit(rel.blank(),
		test.WithValidAssignment(valid),
		test.WithInvalidAssignment(invalid),
		test.WithCurves(ecc.BN254),
		test.WithBackends(backend.GROTH16),
	)
}

func TestPossessionCircuitSoundness(t *testing.T) {
	p := testParams(t, 2, false)
	rel := p.Relation()
	notes, tree := buildInstance(t, p, 4)
	field := p.CurveID().ScalarField()

	path, err := tree.PathFor(2)
	require.NoError(t, err)
	good, err := rel.assignment(notes[2], path, tree.Root())
	require.NoError(t, err)
	require.NoError(t, test.IsSolved(rel.blank(), good, field))

	t.Run("TamperedAmount", func(t *testing.T) {
		forged, err := NoteFromValues(p, new(big.Int).Add(notes[2].Amount, big.NewInt(1)), notes[2].Serial, notes[2].Nonce)
		require.NoError(t, err)
		a, err := rel.assignment(forged, path, tree.Root())
		require.NoError(t, err)
		require.Error(t, test.IsSolved(rel.blank(), a, field))
	})

	t.Run("TamperedSibling", func(t *testing.T) {
		bad, err := tree.PathFor(2)
		require.NoError(t, err)
		bad.Siblings[0] = append([]byte(nil), bad.Siblings[0]...)
		bad.Siblings[0][len(bad.Siblings[0])-1] ^= 1
		a, err := rel.assignment(notes[2], bad, tree.Root())
		require.NoError(t, err)
		require.Error(t, test.IsSolved(rel.blank(), a, field))
	})

	t.Run("WrongIndex", func(t *testing.T) {
		bad, err := tree.PathFor(2)
		require.NoError(t, err)
		bad.Index = 3
		a, err := rel.assignment(notes[2], bad, tree.Root())
		require.NoError(t, err)
		require.Error(t, test.IsSolved(rel.blank(), a, field))
	})

	t.Run("ForeignLeafInPathSlot", func(t *testing.T) {
		// Valid membership for leaf 3, but the note fields derive leaf 2's
		// commitment, so the opening check must reject it.
		bad, err := tree.PathFor(3)
		require.NoError(t, err)
		a, err := rel.assignment(notes[2], bad, tree.Root())
		require.NoError(t, err)
		require.Error(t, test.IsSolved(rel.blank(), a, field))
	})
}

func TestDisclosedAmountCircuit(t *testing.T) {
	assert := test.NewAssert(t)
	p := testParams(t, 2, true)
	rel := p.Relation()
	notes, tree := buildInstance(t, p, 3)

	path, err := tree.PathFor(0)
	assert.NoError(err)
	valid, err := rel.assignment(notes[0], path, tree.Root())
	assert.NoError(err)

	forged, err := NoteFromValues(p, new(big.Int).Add(notes[0].Amount, big.NewInt(5)), notes[0].Serial, notes[0].Nonce)
	assert.NoError(err)
	invalid, err := rel.assignment(forged, path, tree.Root())
	assert.NoError(err)

	assert.CheckCircuit(rel.blank(),
		test.WithValidAssignment(valid),
		test.WithInvalidAssignment(invalid),
		test.WithCurves(ecc.BN254),
		test.WithBackends(backend.GROTH16),
	)
}
