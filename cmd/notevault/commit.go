// commit.go - Maintainer-side: append a commitment to the ledger snapshot.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"notevault/internal/notevault"
)

var (
	commitHex    string
	commitNote   int
	commitFrom   string
	commitLedger string
)

func init() {
	commitCmd.Flags().StringVar(&commitHex, "commitment", "", "commitment to append, hex encoded")
	commitCmd.Flags().IntVar(&commitNote, "note", -1, "wallet index of a local note to commit instead")
	commitCmd.Flags().StringVar(&commitFrom, "wallet", "", "wallet file (default <data>/wallet.json)")
	commitCmd.Flags().StringVar(&commitLedger, "ledger", "", "ledger file (default <data>/ledger.json)")
}

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Append a note commitment to the public ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams()
		if err != nil {
			return err
		}

		var cm []byte
		switch {
		case commitHex != "":
			if cm, err = hex.DecodeString(commitHex); err != nil {
				return fmt.Errorf("--commitment is not hex: %w", err)
			}
		case commitNote >= 0:
			walletPath := commitFrom
			if walletPath == "" {
				walletPath = dataPath(walletFile)
			}
			wallet, err := notevault.LoadWallet(p, walletPath)
			if err != nil {
				return err
			}
			note, err := wallet.Note(commitNote)
			if err != nil {
				return err
			}
			cm = note.Commitment()
		default:
			return fmt.Errorf("either --commitment or --note is required")
		}

		ledgerPath := commitLedger
		if ledgerPath == "" {
			ledgerPath = dataPath(ledgerFile)
		}
		ledger, err := loadOrNewLedger(ledgerPath)
		if err != nil {
			return err
		}
		idx, err := ledger.Append(p, cm)
		if err != nil {
			return err
		}
		tree, err := ledger.BuildTree(p)
		if err != nil {
			return err
		}
		if err := ledger.SaveToFile(ledgerPath); err != nil {
			return err
		}

		fmt.Printf("commitment appended at leaf %d\n", idx)
		fmt.Printf("  root: %x\n", tree.Root())
		return nil
	},
}
