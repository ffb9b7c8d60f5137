// main.go - The notevault command line: setup, mint, commit, prove, verify.
//
// All artifacts live under one --data directory: deployment parameters, the
// Groth16 key material, the shared ledger snapshot, the holder's wallet and
// the proof/claim pair produced by prove. Progress is logged to stderr;
// command results go to stdout.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"notevault/internal/notevault"
)

// Fixed artifact names under the --data directory. Key files carry the
// relation name and depth instead, see notevault.KeyPaths.
const (
	paramsFile = "params.json"
	ledgerFile = "ledger.json"
	walletFile = "wallet.json"
	proofFile  = "possession_proof.bin"
	claimFile  = "possession_claim.json"
)

var (
	dataDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "notevault",
	Short:         "Anonymous possession proofs over a tree of committed notes",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "data", "directory holding params, keys and proof artifacts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(setupCmd, mintCmd, commitCmd, proveCmd, verifyCmd)
}

func dataPath(name string) string { return filepath.Join(dataDir, name) }

// loadParams reads the deployment parameters every subcommand after setup
// depends on.
func loadParams() (*notevault.Params, error) {
	p, err := notevault.LoadParams(dataPath(paramsFile))
	if err != nil {
		return nil, fmt.Errorf("loading %s (run setup first): %w", paramsFile, err)
	}
	return p, nil
}

// loadOrNewLedger returns the ledger snapshot at path, or an empty one when
// none exists yet.
func loadOrNewLedger(path string) (*notevault.Ledger, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return notevault.NewLedger(), nil
	}
	return notevault.LoadLedgerFromFile(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
