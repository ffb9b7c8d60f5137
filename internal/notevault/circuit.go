// circuit.go - The in-circuit possession relation.

package notevault

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/accumulator/merkle"
	"github.com/consensys/gnark/std/hash/mimc"
)

// possessionCircuit proves knowledge of a note opening one leaf of the
// committed tree. Path holds the leaf commitment at position 0 followed by
// one sibling per level, the layout VerifyProof expects.
type possessionCircuit struct {
	Root   frontend.Variable `gnark:",public"`
	Serial frontend.Variable `gnark:",public"`

	Amount frontend.Variable
	Nonce  frontend.Variable
	Index  frontend.Variable
	Path   []frontend.Variable
}

func (c *possessionCircuit) Define(api frontend.API) error {
	return defineNotePossession(api, c.Root, c.Serial, c.Amount, c.Nonce, c.Index, c.Path)
}

// disclosedAmountCircuit additionally publishes the amount. Same constraint
// body, different visibility split, therefore different keys.
type disclosedAmountCircuit struct {
	Root   frontend.Variable `gnark:",public"`
	Serial frontend.Variable `gnark:",public"`
	Amount frontend.Variable `gnark:",public"`

	Nonce frontend.Variable
	Index frontend.Variable
	Path  []frontend.Variable
}

func (c *disclosedAmountCircuit) Define(api frontend.API) error {
	return defineNotePossession(api, c.Root, c.Serial, c.Amount, c.Nonce, c.Index, c.Path)
}

// defineNotePossession enforces the two checks of the relation: the first
// path element must equal the commitment derived from the note fields, and
// the path must hash up to the public root at the witnessed index. The
// commitment entering the membership check is therefore never free.
func defineNotePossession(api frontend.API, root, serial, amount, nonce, index frontend.Variable, path []frontend.Variable) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	h.Write(nonce, amount, serial)
	api.AssertIsEqual(path[0], h.Sum())

	h.Reset()
	mp := merkle.MerkleProof{RootHash: root, Path: path}
	mp.VerifyProof(api, &h, index)
	return nil
}
