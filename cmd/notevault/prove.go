// prove.go - Holder-side: prove possession of a committed note.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notevault/internal/notevault"
)

var (
	proveNote   int
	proveIndex  int
	proveWallet string
)

func init() {
	proveCmd.Flags().IntVar(&proveNote, "note", 0, "wallet index of the note to prove")
	proveCmd.Flags().IntVar(&proveIndex, "index", -1, "leaf index override (default: locate the commitment in the ledger)")
	proveCmd.Flags().StringVar(&proveWallet, "wallet", "", "wallet file (default <data>/wallet.json)")
}

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Produce a possession proof and its claim for one wallet note",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams()
		if err != nil {
			return err
		}
		ccs, pk, _, err := notevault.LoadKeys(dataDir, p.CurveID(), p.Relation())
		if err != nil {
			return fmt.Errorf("loading keys (run setup first): %w", err)
		}

		walletPath := proveWallet
		if walletPath == "" {
			walletPath = dataPath(walletFile)
		}
		wallet, err := notevault.LoadWallet(p, walletPath)
		if err != nil {
			return err
		}
		note, err := wallet.Note(proveNote)
		if err != nil {
			return err
		}

		ledger, err := notevault.LoadLedgerFromFile(dataPath(ledgerFile))
		if err != nil {
			return err
		}
		leafIndex := proveIndex
		if leafIndex < 0 {
			idx, ok := ledger.IndexOfCommitment(note.Commitment())
			if !ok {
				return fmt.Errorf("note %d is not committed to the ledger", proveNote)
			}
			leafIndex = idx
		}

		tree, err := ledger.BuildTree(p)
		if err != nil {
			return err
		}
		path, err := tree.PathFor(leafIndex)
		if err != nil {
			return err
		}

		proof, claim, err := notevault.Prove(p, ccs, pk, note, path, tree.Root())
		if err != nil {
			return err
		}
		if err := notevault.SaveProof(proof, dataPath(proofFile)); err != nil {
			return err
		}
		if err := notevault.SaveClaim(claim, dataPath(claimFile)); err != nil {
			return err
		}

		fmt.Printf("possession proven for leaf %d\n", leafIndex)
		fmt.Printf("  proof: %s\n", dataPath(proofFile))
		fmt.Printf("  claim: %s\n", dataPath(claimFile))
		fmt.Printf("  serial number: %s\n", claim.Serial)
		return nil
	},
}
