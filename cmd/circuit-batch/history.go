// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/circuit-batch/internal/journal"
	"github.com/pdiddy/circuit-batch/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent extractor invocations from the journal",
	Long: `History reads the invocation journal written by "run --journal" and
prints the most recent invocations, newest first.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := stringSetting(cmd, "journal", "journal")
	if path == "" {
		return fmt.Errorf("journal path required: pass --journal or set the journal config key")
	}

	store, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	invs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(invs, jsonOutput)
}

func formatHistory(invs []types.Invocation, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(invs)
	}

	if len(invs) == 0 {
		fmt.Println("No invocations recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-24s  %-5s  %8s  %9s  %10s  %s\n",
		"Started", "Profile", "Split", "Token", "Threshold", "Duration", "Outcome")

	for _, inv := range invs {
		fmt.Fprintf(os.Stdout, "%-20s  %-24s  %-5s  %8d  %9g  %10s  %s\n",
			inv.StartedAt.Local().Format("2006-01-02 15:04:05"),
			inv.Profile, inv.Split, inv.TokenID, inv.Threshold,
			inv.Duration.Round(time.Second), outcome(inv))
	}
	return nil
}

func outcome(inv types.Invocation) string {
	switch {
	case inv.TimedOut:
		return "timed out"
	case inv.ExitCode == 0:
		return "ok"
	default:
		return fmt.Sprintf("exit %d", inv.ExitCode)
	}
}

func init() {
	historyCmd.Flags().String("journal", "", "SQLite journal path")
	historyCmd.Flags().Int("limit", 20, "maximum number of invocations to show")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}
