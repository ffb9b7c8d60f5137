// ledger.go - The shared commitment log and consumed-serial registry.

package notevault

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/pkg/errors"
)

// Ledger is the public record both sides agree on: note commitments in
// insertion order (a commitment's position is its Merkle leaf index) and the
// serial numbers already presented to a verifier. Both lists only ever grow.
type Ledger struct {
	Leaves   []string `json:"leaves"`
	Consumed []string `json:"consumed"`
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{Leaves: []string{}, Consumed: []string{}}
}

// Append adds a commitment and returns its leaf index. Duplicates and
// commitments that would overflow the configured tree are rejected.
func (l *Ledger) Append(p *Params, cm []byte) (int, error) {
	if len(cm) != p.digestSize() {
		return 0, fmt.Errorf("%w: commitment is %d bytes, want %d", ErrConstruction, len(cm), p.digestSize())
	}
	if uint64(len(l.Leaves)) >= uint64(1)<<uint(p.TreeDepth) {
		return 0, fmt.Errorf("%w: ledger already holds 2^%d commitments", ErrConstruction, p.TreeDepth)
	}
	if l.HasCommitment(cm) {
		return 0, fmt.Errorf("%w: commitment already committed", ErrConstruction)
	}
	l.Leaves = append(l.Leaves, hex.EncodeToString(cm))
	return len(l.Leaves) - 1, nil
}

// HasCommitment reports whether cm already appears in the ledger.
func (l *Ledger) HasCommitment(cm []byte) bool {
	_, ok := l.IndexOfCommitment(cm)
	return ok
}

// IndexOfCommitment returns the leaf index of cm.
func (l *Ledger) IndexOfCommitment(cm []byte) (int, bool) {
	want := hex.EncodeToString(cm)
	for i, leaf := range l.Leaves {
		if leaf == want {
			return i, true
		}
	}
	return 0, false
}

// HasSerialNumber reports whether sn was already consumed.
func (l *Ledger) HasSerialNumber(sn *big.Int) bool {
	want := sn.String()
	for _, s := range l.Consumed {
		if s == want {
			return true
		}
	}
	return false
}

// RecordSerialNumber marks sn as consumed. Recording the same serial twice
// fails with ErrSerialConsumed; this is the double-submission check.
func (l *Ledger) RecordSerialNumber(sn *big.Int) error {
	if l.HasSerialNumber(sn) {
		return fmt.Errorf("%w: %s", ErrSerialConsumed, sn)
	}
	l.Consumed = append(l.Consumed, sn.String())
	return nil
}

// Commitments decodes the leaf list back into raw digests.
func (l *Ledger) Commitments() ([][]byte, error) {
	cms := make([][]byte, len(l.Leaves))
	for i, leaf := range l.Leaves {
		cm, err := hex.DecodeString(leaf)
		if err != nil {
			return nil, fmt.Errorf("%w: ledger leaf %d is not hex", ErrSerialization, i)
		}
		cms[i] = cm
	}
	return cms, nil
}

// BuildTree materializes the Merkle tree currently described by the ledger.
func (l *Ledger) BuildTree(p *Params) (*Tree, error) {
	cms, err := l.Commitments()
	if err != nil {
		return nil, err
	}
	return NewTree(p, cms)
}

// SaveToFile writes the ledger as indented JSON.
func (l *Ledger) SaveToFile(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding ledger")
	}
	return os.WriteFile(path, data, 0644)
}

// LoadLedgerFromFile reads a ledger written by SaveToFile.
func LoadLedgerFromFile(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading ledger")
	}
	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: ledger %s: %v", ErrSerialization, path, err)
	}
	return &l, nil
}
