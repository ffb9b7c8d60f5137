// wallet.go - Holder-side persistence for minted notes.

package notevault

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// Wallet is the holder's local store of minted notes. Spent flags mirror the
// ledger's consumed-serial list after a SyncWithLedger.
type Wallet struct {
	notes []*Note
	spent []bool
}

// NewWallet returns an empty wallet.
func NewWallet() *Wallet {
	return &Wallet{}
}

// AddNote appends a note and returns its index in the wallet.
func (w *Wallet) AddNote(n *Note) int {
	w.notes = append(w.notes, n)
	w.spent = append(w.spent, false)
	return len(w.notes) - 1
}

// Len returns the number of stored notes.
func (w *Wallet) Len() int { return len(w.notes) }

// Note returns the note at index.
func (w *Wallet) Note(i int) (*Note, error) {
	if i < 0 || i >= len(w.notes) {
		return nil, fmt.Errorf("%w: wallet holds no note %d", ErrConstruction, i)
	}
	return w.notes[i], nil
}

// UnspentNotes returns the notes not yet marked spent.
func (w *Wallet) UnspentNotes() []*Note {
	var out []*Note
	for i, n := range w.notes {
		if !w.spent[i] {
			out = append(out, n)
		}
	}
	return out
}

// MarkNoteAsSpent flags the note at index as consumed.
func (w *Wallet) MarkNoteAsSpent(i int) error {
	if i < 0 || i >= len(w.notes) {
		return fmt.Errorf("%w: wallet holds no note %d", ErrConstruction, i)
	}
	w.spent[i] = true
	return nil
}

// SyncWithLedger marks as spent every note whose serial number already
// appears in the ledger's consumed list and returns how many flipped.
func (w *Wallet) SyncWithLedger(l *Ledger) int {
	flipped := 0
	for i, n := range w.notes {
		if !w.spent[i] && l.HasSerialNumber(n.Serial) {
			w.spent[i] = true
			flipped++
		}
	}
	return flipped
}

type walletJSON struct {
	Notes []noteJSON `json:"notes"`
	Spent []bool     `json:"spent"`
}

// Save writes the wallet as indented JSON.
func (w *Wallet) Save(path string) error {
	j := walletJSON{Notes: make([]noteJSON, len(w.notes)), Spent: w.spent}
	for i, n := range w.notes {
		j.Notes[i] = n.toJSON()
	}
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding wallet")
	}
	return os.WriteFile(path, data, 0600)
}

// LoadWallet reads a wallet and recomputes every note's commitment under p,
// cross-checking against the stored one.
func LoadWallet(p *Params, path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading wallet")
	}
	var j walletJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("%w: wallet %s: %v", ErrSerialization, path, err)
	}
	w := NewWallet()
	for i, nj := range j.Notes {
		n, err := noteFromJSON(p, nj)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i, err)
		}
		w.AddNote(n)
	}
	for i, s := range j.Spent {
		if i < len(w.spent) && s {
			w.spent[i] = true
		}
	}
	return w, nil
}
