// ledger_test.go - The commitment log and the consumed-serial registry.

package notevault

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLedgerAppendAssignsLeafIndexes(t *testing.T) {
	p := testParams(t, 3, false)
	ledger := NewLedger()
	leaves := testCommitments(p, 3)

	for i, cm := range leaves {
		idx, err := ledger.Append(p, cm)
		require.NoError(t, err)
		require.Equal(t, i, idx)
	}
	for i, cm := range leaves {
		idx, ok := ledger.IndexOfCommitment(cm)
		require.True(t, ok)
		require.Equal(t, i, idx)
		require.True(t, ledger.HasCommitment(cm))
	}
	_, ok := ledger.IndexOfCommitment(testCommitments(p, 4)[3])
	require.False(t, ok)
}

func TestLedgerRejectsBadAppends(t *testing.T) {
	p := testParams(t, 1, false)
	ledger := NewLedger()
	leaves := testCommitments(p, 3)

	_, err := ledger.Append(p, []byte{0x01})
	require.ErrorIs(t, err, ErrConstruction)

	_, err = ledger.Append(p, leaves[0])
	require.NoError(t, err)
	_, err = ledger.Append(p, leaves[0])
	require.ErrorIs(t, err, ErrConstruction)

	// Depth 1 holds two leaves; the third overflows.
	_, err = ledger.Append(p, leaves[1])
	require.NoError(t, err)
	_, err = ledger.Append(p, leaves[2])
	require.ErrorIs(t, err, ErrConstruction)
}

func TestLedgerSerialRegistry(t *testing.T) {
	ledger := NewLedger()
	sn := big.NewInt(424242)

	require.False(t, ledger.HasSerialNumber(sn))
	require.NoError(t, ledger.RecordSerialNumber(sn))
	require.True(t, ledger.HasSerialNumber(sn))

	err := ledger.RecordSerialNumber(sn)
	require.ErrorIs(t, err, ErrSerialConsumed)
}

func TestLedgerBuildsTheSameTree(t *testing.T) {
	p := testParams(t, 2, false)
	leaves := testCommitments(p, 3)
	ledger := NewLedger()
	for _, cm := range leaves {
		_, err := ledger.Append(p, cm)
		require.NoError(t, err)
	}

	fromLedger, err := ledger.BuildTree(p)
	require.NoError(t, err)
	direct, err := NewTree(p, leaves)
	require.NoError(t, err)
	require.Equal(t, direct.Root(), fromLedger.Root())
}

func TestLedgerRoundTripThroughDisk(t *testing.T) {
	p := testParams(t, 2, false)
	ledger := NewLedger()
	for _, cm := range testCommitments(p, 2) {
		_, err := ledger.Append(p, cm)
		require.NoError(t, err)
	}
	require.NoError(t, ledger.RecordSerialNumber(big.NewInt(7)))

	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, ledger.SaveToFile(path))
	loaded, err := LoadLedgerFromFile(path)
	require.NoError(t, err)
	require.Equal(t, ledger.Leaves, loaded.Leaves)
	require.Equal(t, ledger.Consumed, loaded.Consumed)

	require.NoError(t, os.WriteFile(path, []byte("]["), 0644))
	_, err = LoadLedgerFromFile(path)
	require.ErrorIs(t, err, ErrSerialization)
}
