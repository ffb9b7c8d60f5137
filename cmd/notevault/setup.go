// setup.go - One-time parameter and key generation.

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"notevault/internal/notevault"
)

var (
	setupDepth    int
	setupCurve    string
	setupDisclose bool
	setupForce    bool
)

func init() {
	setupCmd.Flags().IntVar(&setupDepth, "depth", notevault.DefaultTreeDepth, "merkle tree depth baked into the relation")
	setupCmd.Flags().StringVar(&setupCurve, "curve", "bn254", "pairing curve: bn254, bls12-377, bls12-381 or bw6-761")
	setupCmd.Flags().BoolVar(&setupDisclose, "disclose-amount", false, "compile the variant that also publishes the amount")
	setupCmd.Flags().BoolVar(&setupForce, "force", false, "regenerate params and keys, invalidating every proof issued so far")
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write deployment parameters and generate the Groth16 key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}

		paramsPath := dataPath(paramsFile)
		var p *notevault.Params
		if _, err := os.Stat(paramsPath); err == nil && !setupForce {
			if p, err = notevault.LoadParams(paramsPath); err != nil {
				return err
			}
			log.Info().Str("file", paramsPath).Msg("reusing existing parameters")
		} else {
			p = notevault.DefaultParams()
			p.Curve = setupCurve
			p.TreeDepth = setupDepth
			p.DiscloseAmount = setupDisclose
			if err := p.Validate(); err != nil {
				return err
			}
			if err := p.Save(paramsPath); err != nil {
				return err
			}
			log.Info().Str("file", paramsPath).Msg("parameters written")
		}

		rel := p.Relation()
		var nbConstraints int
		if setupForce {
			ccs, pk, vk, err := notevault.Setup(p)
			if err != nil {
				return err
			}
			if err := notevault.SaveKeys(dataDir, rel, ccs, pk, vk); err != nil {
				return err
			}
			nbConstraints = ccs.GetNbConstraints()
		} else {
			ccs, _, _, err := notevault.SetupOrLoadKeys(p, dataDir)
			if err != nil {
				return err
			}
			nbConstraints = ccs.GetNbConstraints()
		}

		r1csPath, pkPath, vkPath := notevault.KeyPaths(dataDir, rel)
		fmt.Printf("relation %s ready (%d constraints)\n", rel.Name(), nbConstraints)
		fmt.Printf("  constraint system: %s\n", r1csPath)
		fmt.Printf("  proving key:       %s\n", pkPath)
		fmt.Printf("  verifying key:     %s\n", vkPath)
		return nil
	},
}
