// claim.go - The public-input blob carried next to a proof.

package notevault

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/pkg/errors"
)

// Claim carries the public inputs of one possession proof: the tree root the
// proof speaks about, the disclosed serial number and, under the disclosed
// variant, the amount.
type Claim struct {
	Root   []byte
	Serial *big.Int
	Amount *big.Int // nil unless the relation discloses it
}

type claimJSON struct {
	Root   string `json:"root"`
	Serial string `json:"serial_number"`
	Amount string `json:"amount,omitempty"`
}

// MarshalJSON encodes the root as hex and field values as decimal strings.
func (c *Claim) MarshalJSON() ([]byte, error) {
	j := claimJSON{Root: hex.EncodeToString(c.Root), Serial: c.Serial.String()}
	if c.Amount != nil {
		j.Amount = c.Amount.String()
	}
	return json.Marshal(j)
}

func (c *Claim) UnmarshalJSON(data []byte) error {
	var j claimJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	root, err := hex.DecodeString(j.Root)
	if err != nil {
		return fmt.Errorf("%w: claim root is not hex", ErrSerialization)
	}
	serial, err := parseDecimal("serial number", j.Serial)
	if err != nil {
		return err
	}
	c.Root, c.Serial, c.Amount = root, serial, nil
	if j.Amount != "" {
		if c.Amount, err = parseDecimal("amount", j.Amount); err != nil {
			return err
		}
	}
	return nil
}

// SaveClaim writes the claim as indented JSON.
func SaveClaim(c *Claim, path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding claim")
	}
	return os.WriteFile(path, data, 0644)
}

// LoadClaim reads a claim written by SaveClaim.
func LoadClaim(path string) (*Claim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading claim")
	}
	var c Claim
	if err := json.Unmarshal(data, &c); err != nil {
		if errors.Is(err, ErrSerialization) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: claim %s: %v", ErrSerialization, path, err)
	}
	return &c, nil
}
