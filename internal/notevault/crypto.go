// crypto.go - Field-element hashing and sampling shared by notes and trees.

package notevault

import (
	"crypto/rand"
	"fmt"
	"math/big"

	gchash "github.com/consensys/gnark-crypto/hash"
)

// HashFunc compresses a sequence of byte chunks with a fixed field hash.
// Chunks must never exceed the block size of the underlying hash; every
// chunk is left-padded to one block before absorption.
type HashFunc func(chunks ...[]byte) []byte

// fieldHasher adapts a gnark-crypto MiMC instance to HashFunc. MiMC consumes
// whole field elements, so sub-block chunks are left-padded to stay
// canonical.
func fieldHasher(h gchash.Hash) HashFunc {
	return func(chunks ...[]byte) []byte {
		d := h.New()
		bs := d.BlockSize()
		buf := make([]byte, bs)
		for _, c := range chunks {
			for i := range buf {
				buf[i] = 0
			}
			copy(buf[bs-len(c):], c)
			d.Write(buf)
		}
		return d.Sum(nil)
	}
}

// randomFieldElement samples uniformly from [0, mod).
func randomFieldElement(mod *big.Int) (*big.Int, error) {
	v, err := rand.Int(rand.Reader, mod)
	if err != nil {
		return nil, fmt.Errorf("sampling field element: %w", err)
	}
	return v, nil
}

// checkFieldElement rejects values outside [0, mod) before they reach the
// hash or the circuit.
func checkFieldElement(name string, v *big.Int, mod *big.Int) error {
	if v == nil || v.Sign() < 0 || v.Cmp(mod) >= 0 {
		return fmt.Errorf("%w: %s outside the scalar field", ErrConstruction, name)
	}
	return nil
}
