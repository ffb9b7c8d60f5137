// params.go - Deployment parameters shared by setup, proving and verification.

package notevault

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	gchash "github.com/consensys/gnark-crypto/hash"
	_ "github.com/consensys/gnark-crypto/hash/all" // registers the native MiMC implementations
	"github.com/pkg/errors"
)

// ParamsVersion identifies the on-disk parameter format.
const ParamsVersion = 1

// DefaultTreeDepth gives room for 65536 notes.
const DefaultTreeDepth = 16

// Params pins everything the three proof phases must agree on: the pairing
// curve (which fixes the MiMC round constants), the Merkle tree depth, the
// value padding unfilled leaves and whether the amount is disclosed. Params
// are treated as immutable once validated; changing any field defines a
// different relation with incompatible keys.
type Params struct {
	Version        int    `json:"version"`
	Curve          string `json:"curve"`
	TreeDepth      int    `json:"tree_depth"`
	ZeroLeaf       string `json:"zero_leaf"`
	DiscloseAmount bool   `json:"disclose_amount"`
}

// DefaultParams returns the parameters used when none exist on disk yet.
func DefaultParams() *Params {
	return &Params{
		Version:   ParamsVersion,
		Curve:     "bn254",
		TreeDepth: DefaultTreeDepth,
		ZeroLeaf:  "00",
	}
}

// Curves with MiMC constants available both natively and in-circuit.
var curveIDs = map[string]ecc.ID{
	"bn254":     ecc.BN254,
	"bls12-377": ecc.BLS12_377,
	"bls12-381": ecc.BLS12_381,
	"bw6-761":   ecc.BW6_761,
}

var curveHashes = map[ecc.ID]gchash.Hash{
	ecc.BN254:     gchash.MIMC_BN254,
	ecc.BLS12_377: gchash.MIMC_BLS12_377,
	ecc.BLS12_381: gchash.MIMC_BLS12_381,
	ecc.BW6_761:   gchash.MIMC_BW6_761,
}

// Validate checks the parameters for internal consistency. Every other
// method assumes Validate has passed.
func (p *Params) Validate() error {
	if p.Version != ParamsVersion {
		return fmt.Errorf("%w: unsupported params version %d", ErrConstruction, p.Version)
	}
	id, ok := curveIDs[p.Curve]
	if !ok {
		return fmt.Errorf("%w: unsupported curve %q", ErrConstruction, p.Curve)
	}
	if p.TreeDepth < 1 || p.TreeDepth > 32 {
		return fmt.Errorf("%w: tree depth %d outside [1, 32]", ErrConstruction, p.TreeDepth)
	}
	zero, err := hex.DecodeString(p.ZeroLeaf)
	if err != nil || len(zero) == 0 {
		return fmt.Errorf("%w: zero leaf must be non-empty hex", ErrConstruction)
	}
	if len(zero) > curveHashes[id].New().BlockSize() {
		return fmt.Errorf("%w: zero leaf wider than one field element", ErrConstruction)
	}
	if new(big.Int).SetBytes(zero).Cmp(id.ScalarField()) >= 0 {
		return fmt.Errorf("%w: zero leaf outside the scalar field", ErrConstruction)
	}
	return nil
}

// CurveID returns the pairing curve named by the parameters.
func (p *Params) CurveID() ecc.ID { return curveIDs[p.Curve] }

// FieldModulus returns the scalar field order every note field must lie in.
func (p *Params) FieldModulus() *big.Int { return p.CurveID().ScalarField() }

// Relation returns the constraint relation these parameters define.
func (p *Params) Relation() Relation {
	return Relation{TreeDepth: p.TreeDepth, DiscloseAmount: p.DiscloseAmount}
}

func (p *Params) hasher() HashFunc { return fieldHasher(curveHashes[p.CurveID()]) }

func (p *Params) digestSize() int { return curveHashes[p.CurveID()].New().Size() }

func (p *Params) zeroLeaf() []byte {
	zero, _ := hex.DecodeString(p.ZeroLeaf)
	return zero
}

// LoadParams reads and validates parameters from path.
func LoadParams(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading params")
	}
	var p Params
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: params %s: %v", ErrSerialization, path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes the parameters as indented JSON.
func (p *Params) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding params")
	}
	return os.WriteFile(path, data, 0644)
}
