// params_test.go - Parameter validation and persistence.

package notevault

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParamsValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Params)
	}{
		{"UnknownVersion", func(p *Params) { p.Version = 99 }},
		{"UnknownCurve", func(p *Params) { p.Curve = "secp256k1" }},
		{"DepthTooSmall", func(p *Params) { p.TreeDepth = 0 }},
		{"DepthTooLarge", func(p *Params) { p.TreeDepth = 33 }},
		{"ZeroLeafNotHex", func(p *Params) { p.ZeroLeaf = "zz" }},
		{"ZeroLeafEmpty", func(p *Params) { p.ZeroLeaf = "" }},
		{"ZeroLeafTooWide", func(p *Params) { p.ZeroLeaf = hex.EncodeToString(make([]byte, 33)) }},
		{"ZeroLeafOutsideField", func(p *Params) {
			mod := p.FieldModulus()
			p.ZeroLeaf = hex.EncodeToString(mod.Bytes())
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(p)
			require.ErrorIs(t, p.Validate(), ErrConstruction)
		})
	}

	require.NoError(t, DefaultParams().Validate())
}

func TestParamsSupportedCurves(t *testing.T) {
	for _, curve := range []string{"bn254", "bls12-377", "bls12-381", "bw6-761"} {
		p := DefaultParams()
		p.Curve = curve
		require.NoError(t, p.Validate(), curve)
		require.Equal(t, p.CurveID().ScalarField(), p.FieldModulus())
	}
}

func TestParamsRoundTripThroughDisk(t *testing.T) {
	p := testParams(t, 4, true)
	path := filepath.Join(t.TempDir(), "params.json")
	require.NoError(t, p.Save(path))

	loaded, err := LoadParams(path)
	require.NoError(t, err)
	require.Equal(t, p, loaded)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = LoadParams(path)
	require.ErrorIs(t, err, ErrSerialization)

	_, err = LoadParams(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

// Relation names pin both the depth and the visibility split, so key files
// for one shape can never be confused with another's.
func TestRelationNames(t *testing.T) {
	base := Relation{TreeDepth: 16}
	disclosed := Relation{TreeDepth: 16, DiscloseAmount: true}
	require.Equal(t, "possession_d16", base.Name())
	require.Equal(t, "possession_amount_d16", disclosed.Name())
	require.NotEqual(t, base.Name(), Relation{TreeDepth: 8}.Name())
}
