// mint.go - Create a note and store it in the holder's wallet.

package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"notevault/internal/notevault"
)

var (
	mintAmount string
	mintWallet string
)

func init() {
	mintCmd.Flags().StringVar(&mintAmount, "amount", "", "note amount as a decimal integer")
	mintCmd.Flags().StringVar(&mintWallet, "wallet", "", "wallet file (default <data>/wallet.json)")
	mintCmd.MarkFlagRequired("amount")
}

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a note with a fresh serial number and nonce",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams()
		if err != nil {
			return err
		}
		amount, ok := new(big.Int).SetString(mintAmount, 10)
		if !ok {
			return fmt.Errorf("--amount %q is not a decimal integer", mintAmount)
		}

		walletPath := mintWallet
		if walletPath == "" {
			walletPath = dataPath(walletFile)
		}
		wallet := notevault.NewWallet()
		if _, err := os.Stat(walletPath); err == nil {
			if wallet, err = notevault.LoadWallet(p, walletPath); err != nil {
				return err
			}
		}

		note, err := notevault.NewNote(p, amount)
		if err != nil {
			return err
		}
		idx := wallet.AddNote(note)
		if err := wallet.Save(walletPath); err != nil {
			return err
		}

		fmt.Printf("note %d minted into %s\n", idx, walletPath)
		fmt.Printf("  amount:        %s\n", note.Amount)
		fmt.Printf("  serial number: %s\n", note.Serial)
		fmt.Printf("  commitment:    %x\n", note.Commitment())
		fmt.Println("hand the commitment to the ledger maintainer for inclusion")
		return nil
	},
}
