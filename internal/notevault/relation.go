// relation.go - Relation shapes, witness assembly and the native pre-check.

package notevault

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// Relation identifies one compile shape of the possession circuit. Trees of
// different depth, and the two visibility variants, are distinct relations
// with incompatible keys.
type Relation struct {
	TreeDepth      int
	DiscloseAmount bool
}

// Name returns the relation's artifact prefix.
func (r Relation) Name() string {
	if r.DiscloseAmount {
		return fmt.Sprintf("possession_amount_d%d", r.TreeDepth)
	}
	return fmt.Sprintf("possession_d%d", r.TreeDepth)
}

// blank returns an empty circuit of the right shape for compilation.
func (r Relation) blank() frontend.Circuit {
	path := make([]frontend.Variable, r.TreeDepth+1)
	if r.DiscloseAmount {
		return &disclosedAmountCircuit{Path: path}
	}
	return &possessionCircuit{Path: path}
}

// Compile builds the constraint system over the given curve's scalar field.
func (r Relation) Compile(curve ecc.ID) (constraint.ConstraintSystem, error) {
	ccs, err := frontend.Compile(curve.ScalarField(), r1cs.NewBuilder, r.blank())
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", r.Name(), err)
	}
	return ccs, nil
}

// assignment returns the fully assigned circuit for proving.
func (r Relation) assignment(note *Note, path *AuthPath, root []byte) (frontend.Circuit, error) {
	if len(path.Siblings) != r.TreeDepth {
		return nil, fmt.Errorf("%w: path has %d siblings, relation wants %d", ErrConstruction, len(path.Siblings), r.TreeDepth)
	}
	vars := make([]frontend.Variable, r.TreeDepth+1)
	vars[0] = new(big.Int).SetBytes(path.Leaf)
	for i, sib := range path.Siblings {
		vars[i+1] = new(big.Int).SetBytes(sib)
	}
	rootV := new(big.Int).SetBytes(root)
	if r.DiscloseAmount {
		return &disclosedAmountCircuit{
			Root:   rootV,
			Serial: note.Serial,
			Amount: note.Amount,
			Nonce:  note.Nonce,
			Index:  path.Index,
			Path:   vars,
		}, nil
	}
	return &possessionCircuit{
		Root:   rootV,
		Serial: note.Serial,
		Amount: note.Amount,
		Nonce:  note.Nonce,
		Index:  path.Index,
		Path:   vars,
	}, nil
}

// claimAssignment returns the public-only circuit used for verification.
// Private fields stay unset; the witness builder never visits them.
func (r Relation) claimAssignment(c *Claim) (frontend.Circuit, error) {
	if c == nil || c.Serial == nil || len(c.Root) == 0 {
		return nil, fmt.Errorf("%w: claim missing root or serial number", ErrConstruction)
	}
	rootV := new(big.Int).SetBytes(c.Root)
	if r.DiscloseAmount {
		if c.Amount == nil {
			return nil, fmt.Errorf("%w: claim missing the disclosed amount", ErrConstruction)
		}
		return &disclosedAmountCircuit{Root: rootV, Serial: c.Serial, Amount: c.Amount}, nil
	}
	return &possessionCircuit{Root: rootV, Serial: c.Serial}, nil
}

// Satisfied evaluates the relation natively. Prove calls this before running
// the backend, so an unsatisfiable witness gets rejected with a concrete
// reason instead of a generic solver failure.
func (r Relation) Satisfied(p *Params, note *Note, path *AuthPath, root []byte) error {
	if note == nil || path == nil {
		return fmt.Errorf("%w: nil note or path", ErrConstruction)
	}
	if !bytes.Equal(note.Commitment(), path.Leaf) {
		return fmt.Errorf("%w: leaf does not open to the note's commitment", ErrUnsatisfiedRelation)
	}
	if !VerifyAuthPath(p, path, root) {
		return fmt.Errorf("%w: authentication path does not reach the root", ErrUnsatisfiedRelation)
	}
	return nil
}
