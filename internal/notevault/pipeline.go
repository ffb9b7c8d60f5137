// pipeline.go - Setup, proving and verification plus key persistence.

package notevault

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Setup compiles the relation defined by p and runs the Groth16 trusted
// setup. The sampled toxic waste never leaves the backend.
func Setup(p *Params) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	rel := p.Relation()
	start := time.Now()
	ccs, err := rel.Compile(p.CurveID())
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info().
		Str("relation", rel.Name()).
		Int("constraints", ccs.GetNbConstraints()).
		Dur("took", time.Since(start)).
		Msg("circuit compiled")

	start = time.Now()
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("groth16 setup: %w", err)
	}
	log.Info().Str("relation", rel.Name()).Dur("took", time.Since(start)).Msg("keys generated")
	return ccs, pk, vk, nil
}

// Prove produces a possession proof for note sitting at path in the tree
// rooted at root, together with the claim a verifier needs. The relation is
// evaluated natively first; an unsatisfied witness never reaches the
// backend.
func Prove(p *Params, ccs constraint.ConstraintSystem, pk groth16.ProvingKey, note *Note, path *AuthPath, root []byte) (groth16.Proof, *Claim, error) {
	rel := p.Relation()
	if err := rel.Satisfied(p, note, path, root); err != nil {
		return nil, nil, err
	}
	assignment, err := rel.assignment(note, path, root)
	if err != nil {
		return nil, nil, err
	}
	w, err := frontend.NewWitness(assignment, p.CurveID().ScalarField())
	if err != nil {
		return nil, nil, fmt.Errorf("building witness: %w", err)
	}
	start := time.Now()
	proof, err := groth16.Prove(ccs, pk, w)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16 prove: %w", err)
	}
	log.Debug().Str("relation", rel.Name()).Dur("took", time.Since(start)).Msg("proof generated")

	claim := &Claim{Root: append([]byte(nil), root...), Serial: note.Serial}
	if rel.DiscloseAmount {
		claim.Amount = note.Amount
	}
	return proof, claim, nil
}

// Verify checks proof against claim under vk. Any failure, from a forged
// proof to a claim built for different keys, reports false rather than an
// error.
func Verify(p *Params, vk groth16.VerifyingKey, claim *Claim, proof groth16.Proof) bool {
	rel := p.Relation()
	assignment, err := rel.claimAssignment(claim)
	if err != nil {
		log.Debug().Err(err).Msg("claim rejected")
		return false
	}
	w, err := frontend.NewWitness(assignment, p.CurveID().ScalarField(), frontend.PublicOnly())
	if err != nil {
		log.Debug().Err(err).Msg("public witness rejected")
		return false
	}
	if err := groth16.Verify(proof, vk, w); err != nil {
		log.Debug().Err(err).Msg("proof rejected")
		return false
	}
	return true
}

const (
	r1csSuffix = "_r1cs.bin"
	pkSuffix   = "_pk.bin"
	vkSuffix   = "_vk.bin"
)

// KeyPaths returns the on-disk locations of the relation's setup artifacts
// under dir.
func KeyPaths(dir string, rel Relation) (r1csPath, pkPath, vkPath string) {
	return filepath.Join(dir, rel.Name()+r1csSuffix),
		filepath.Join(dir, rel.Name()+pkSuffix),
		filepath.Join(dir, rel.Name()+vkSuffix)
}

func writeArtifact(path string, wt io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if _, err := wt.WriteTo(bw); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return bw.Flush()
}

func readArtifact(path string, rf io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	if _, err := rf.ReadFrom(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSerialization, path, err)
	}
	return nil
}

// SaveKeys persists the compiled system and key pair under dir.
func SaveKeys(dir string, rel Relation, ccs constraint.ConstraintSystem, pk groth16.ProvingKey, vk groth16.VerifyingKey) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	r1csPath, pkPath, vkPath := KeyPaths(dir, rel)
	if err := writeArtifact(r1csPath, ccs); err != nil {
		return err
	}
	if err := writeArtifact(pkPath, pk); err != nil {
		return err
	}
	return writeArtifact(vkPath, vk)
}

// LoadKeys reads a previously generated compiled system and key pair.
func LoadKeys(dir string, curve ecc.ID, rel Relation) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	r1csPath, pkPath, vkPath := KeyPaths(dir, rel)
	ccs := groth16.NewCS(curve)
	if err := readArtifact(r1csPath, ccs); err != nil {
		return nil, nil, nil, err
	}
	pk := groth16.NewProvingKey(curve)
	if err := readArtifact(pkPath, pk); err != nil {
		return nil, nil, nil, err
	}
	vk := groth16.NewVerifyingKey(curve)
	if err := readArtifact(vkPath, vk); err != nil {
		return nil, nil, nil, err
	}
	return ccs, pk, vk, nil
}

// LoadVerifyingKey reads only the verifying key, all a verifier needs.
func LoadVerifyingKey(dir string, curve ecc.ID, rel Relation) (groth16.VerifyingKey, error) {
	_, _, vkPath := KeyPaths(dir, rel)
	vk := groth16.NewVerifyingKey(curve)
	if err := readArtifact(vkPath, vk); err != nil {
		return nil, err
	}
	return vk, nil
}

// SetupOrLoadKeys loads the cached artifacts for p's relation when all three
// files exist and generates plus persists them otherwise.
func SetupOrLoadKeys(p *Params, dir string) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	rel := p.Relation()
	r1csPath, pkPath, vkPath := KeyPaths(dir, rel)
	if fileExists(r1csPath) && fileExists(pkPath) && fileExists(vkPath) {
		log.Info().Str("pkFile", pkPath).Str("vkFile", vkPath).Msg("loading keys from disk")
		return LoadKeys(dir, p.CurveID(), rel)
	}
	log.Info().Str("pkFile", pkPath).Str("vkFile", vkPath).Msg("generating keys")
	ccs, pk, vk, err := Setup(p)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := SaveKeys(dir, rel, ccs, pk, vk); err != nil {
		return nil, nil, nil, err
	}
	return ccs, pk, vk, nil
}

// SaveProof persists a single proof blob.
func SaveProof(proof groth16.Proof, path string) error {
	return writeArtifact(path, proof)
}

// LoadProof reads a proof written by SaveProof.
func LoadProof(curve ecc.ID, path string) (groth16.Proof, error) {
	proof := groth16.NewProof(curve)
	if err := readArtifact(path, proof); err != nil {
		return nil, err
	}
	return proof, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
