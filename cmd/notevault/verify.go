// verify.go - Verifier-side: check a proof against its claim.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notevault/internal/notevault"
)

var verifyRecord bool

func init() {
	verifyCmd.Flags().BoolVar(&verifyRecord, "record", false, "reject already-consumed serial numbers and record this one on success")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a possession proof; exit code reports the outcome",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams()
		if err != nil {
			return err
		}
		vk, err := notevault.LoadVerifyingKey(dataDir, p.CurveID(), p.Relation())
		if err != nil {
			return fmt.Errorf("loading verifying key (run setup first): %w", err)
		}
		claim, err := notevault.LoadClaim(dataPath(claimFile))
		if err != nil {
			return err
		}
		proof, err := notevault.LoadProof(p.CurveID(), dataPath(proofFile))
		if err != nil {
			return err
		}

		var ledger *notevault.Ledger
		if verifyRecord {
			if ledger, err = loadOrNewLedger(dataPath(ledgerFile)); err != nil {
				return err
			}
			if ledger.HasSerialNumber(claim.Serial) {
				fmt.Println("possession proof: REJECTED")
				return fmt.Errorf("serial number %s: %w", claim.Serial, notevault.ErrSerialConsumed)
			}
		}

		if !notevault.Verify(p, vk, claim, proof) {
			fmt.Println("possession proof: INVALID")
			return fmt.Errorf("proof rejected for serial number %s", claim.Serial)
		}

		if verifyRecord {
			if err := ledger.RecordSerialNumber(claim.Serial); err != nil {
				return err
			}
			if err := ledger.SaveToFile(dataPath(ledgerFile)); err != nil {
				return err
			}
		}

		fmt.Println("possession proof: VALID")
		fmt.Printf("  serial number: %s\n", claim.Serial)
		if claim.Amount != nil {
			fmt.Printf("  amount:        %s\n", claim.Amount)
		}
		return nil
	},
}
