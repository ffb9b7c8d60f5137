// cli_test.go - Full command-line walkthrough: setup, mint, commit, prove,
// verify, replay rejection.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"notevault/internal/notevault"
)

// resetFlags restores every flag to its default so consecutive invocations
// in one test process behave like separate runs of the binary.
func resetFlags() {
	cmds := append([]*cobra.Command{rootCmd}, rootCmd.Commands()...)
	for _, cmd := range cmds {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			}
		})
	}
}

// run executes one notevault invocation and fails the test on error.
func run(t *testing.T, args ...string) {
	t.Helper()
	resetFlags()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("notevault %s: %v", strings.Join(args, " "), err)
	}
}

// runErr executes one invocation expected to fail and returns the error.
func runErr(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		t.Fatalf("notevault %s: expected failure", strings.Join(args, " "))
	}
	return err
}

func TestCommandLineWalkthrough(t *testing.T) {
	if testing.Short() {
		t.Skip("walkthrough runs a trusted setup")
	}
	dir := t.TempDir()

	// Maintainer initializes a small deployment.
	run(t, "setup", "--data", dir, "--depth", "3")
	for _, name := range []string{"params.json", "possession_d3_pk.bin", "possession_d3_vk.bin"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("setup did not write %s: %v", name, err)
		}
	}

	// Holder mints two notes; maintainer commits both.
	run(t, "mint", "--data", dir, "--amount", "250")
	run(t, "mint", "--data", dir, "--amount", "90")
	run(t, "commit", "--data", dir, "--note", "0")
	run(t, "commit", "--data", dir, "--note", "1")

	// Holder proves possession of the second note.
	run(t, "prove", "--data", dir, "--note", "1")
	if _, err := os.Stat(filepath.Join(dir, proofFile)); err != nil {
		t.Fatalf("prove did not write the proof: %v", err)
	}

	// Verifier accepts the proof and records the serial number.
	run(t, "verify", "--data", dir, "--record")

	// The same serial number presented again must be rejected.
	err := runErr(t, "verify", "--data", dir, "--record")
	if !errors.Is(err, notevault.ErrSerialConsumed) {
		t.Fatalf("replay should fail with ErrSerialConsumed, got %v", err)
	}

	// Without the registry the proof itself still verifies.
	run(t, "verify", "--data", dir)
}

func TestProveRejectsUncommittedNote(t *testing.T) {
	if testing.Short() {
		t.Skip("requires a trusted setup")
	}
	dir := t.TempDir()

	run(t, "setup", "--data", dir, "--depth", "2")
	run(t, "mint", "--data", dir, "--amount", "10")
	run(t, "mint", "--data", dir, "--amount", "20")
	run(t, "commit", "--data", dir, "--note", "0")

	// Note 1 was never committed, so there is no leaf to prove.
	err := runErr(t, "prove", "--data", dir, "--note", "1", "--index=-1")
	if !strings.Contains(err.Error(), "not committed") {
		t.Fatalf("expected a not-committed error, got %v", err)
	}
}
