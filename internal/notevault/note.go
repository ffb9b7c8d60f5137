// note.go - Notes and their commitments.

package notevault

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Note is the private object whose possession gets proven: an amount, the
// serial number disclosed at proof time, and the nonce hiding both inside
// the commitment.
type Note struct {
	Amount *big.Int
	Serial *big.Int
	Nonce  *big.Int

	cm []byte
}

// NewNote mints a note for amount with a fresh random serial number and
// nonce.
func NewNote(p *Params, amount *big.Int) (*Note, error) {
	mod := p.FieldModulus()
	if err := checkFieldElement("amount", amount, mod); err != nil {
		return nil, err
	}
	serial, err := randomFieldElement(mod)
	if err != nil {
		return nil, err
	}
	nonce, err := randomFieldElement(mod)
	if err != nil {
		return nil, err
	}
	return &Note{Amount: amount, Serial: serial, Nonce: nonce, cm: commit(p, nonce, amount, serial)}, nil
}

// NoteFromValues rebuilds a note from explicit field values, range-checking
// each one against the scalar field.
func NoteFromValues(p *Params, amount, serial, nonce *big.Int) (*Note, error) {
	mod := p.FieldModulus()
	for _, f := range []struct {
		name string
		v    *big.Int
	}{
		{"amount", amount},
		{"serial number", serial},
		{"nonce", nonce},
	} {
		if err := checkFieldElement(f.name, f.v, mod); err != nil {
			return nil, err
		}
	}
	return &Note{Amount: amount, Serial: serial, Nonce: nonce, cm: commit(p, nonce, amount, serial)}, nil
}

// commit derives the note commitment. The nonce is absorbed first,
// mirroring the in-circuit derivation.
func commit(p *Params, nonce, amount, serial *big.Int) []byte {
	h := p.hasher()
	return h(nonce.Bytes(), amount.Bytes(), serial.Bytes())
}

// Commitment returns the MiMC commitment to the note's fields.
func (n *Note) Commitment() []byte { return n.cm }

type noteJSON struct {
	Amount     string `json:"amount"`
	Serial     string `json:"serial_number"`
	Nonce      string `json:"nonce"`
	Commitment string `json:"commitment,omitempty"`
}

func (n *Note) toJSON() noteJSON {
	return noteJSON{
		Amount:     n.Amount.String(),
		Serial:     n.Serial.String(),
		Nonce:      n.Nonce.String(),
		Commitment: hex.EncodeToString(n.cm),
	}
}

// noteFromJSON rebuilds a note and cross-checks the stored commitment, when
// present, against the one derived from the fields.
func noteFromJSON(p *Params, j noteJSON) (*Note, error) {
	amount, err := parseDecimal("amount", j.Amount)
	if err != nil {
		return nil, err
	}
	serial, err := parseDecimal("serial number", j.Serial)
	if err != nil {
		return nil, err
	}
	nonce, err := parseDecimal("nonce", j.Nonce)
	if err != nil {
		return nil, err
	}
	n, err := NoteFromValues(p, amount, serial, nonce)
	if err != nil {
		return nil, err
	}
	if j.Commitment != "" {
		want, err := hex.DecodeString(j.Commitment)
		if err != nil || !bytes.Equal(want, n.cm) {
			return nil, fmt.Errorf("%w: note commitment does not match its fields", ErrSerialization)
		}
	}
	return n, nil
}

func parseDecimal(name, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q is not a decimal integer", ErrSerialization, name, s)
	}
	return v, nil
}
