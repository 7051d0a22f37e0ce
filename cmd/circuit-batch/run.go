// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/circuit-batch/internal/batch"
	"github.com/pdiddy/circuit-batch/internal/journal"
	"github.com/pdiddy/circuit-batch/internal/profile"
	"github.com/pdiddy/circuit-batch/internal/timeouttool"
)

// defaultBudget is the per-invocation wall-clock limit.
const defaultBudget = 180 * time.Minute

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the extraction batch for a profile",
	Long: `Run launches the extractor once per token id in the selected profile,
train split first, then val. Each invocation is wrapped in the wall-clock
budget by the resolved timeout command and receives four positional
arguments: tag, split, token id, threshold.

A failed or timed-out extraction is counted and the batch continues;
--strict aborts on the first failure instead.`,
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	profiles := profile.Builtin()
	if path := stringSetting(cmd, "profiles-file", "profiles_file"); path != "" {
		if err := profiles.LoadFile(path); err != nil {
			return err
		}
	}

	selected, err := profiles.Select(stringSetting(cmd, "profile", "profile"))
	if err != nil {
		return err
	}

	tool, err := resolveTool(cmd)
	if err != nil {
		return err
	}

	runner := &batch.Runner{
		Tool:      tool,
		Extractor: stringSetting(cmd, "extractor", "extractor"),
		Budget:    durationSetting(cmd, "budget", "budget"),
		Profile:   selected,
		Out:       os.Stdout,
		Errw:      os.Stderr,
	}
	runner.Strict, _ = cmd.Flags().GetBool("strict")

	if path := stringSetting(cmd, "journal", "journal"); path != "" {
		store, err := journal.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		runner.Journal = store
	}

	sum, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Batch complete: %d launched, %d failed (%d timed out)\n",
		sum.Launched, sum.Failed, sum.TimedOut)
	return nil
}

// resolveTool honors an explicit timeout command when configured and
// falls back to PATH detection otherwise.
func resolveTool(cmd *cobra.Command) (timeouttool.Tool, error) {
	if name := stringSetting(cmd, "timeout-command", "timeout_command"); name != "" {
		return timeouttool.Named(name)
	}
	return timeouttool.Detect()
}

// --- shared helpers ---

// stringSetting reads a flag, falling back to the viper key when the flag
// was not set on the command line.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func durationSetting(cmd *cobra.Command, flag, key string) time.Duration {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	v, _ := cmd.Flags().GetDuration(flag)
	return v
}

func init() {
	runCmd.Flags().String("profile", profile.DefaultName, "configuration profile to run")
	runCmd.Flags().String("profiles-file", "", "YAML file with additional profiles")
	runCmd.Flags().String("extractor", "scripts/extract.sh", "path of the extraction script")
	runCmd.Flags().Duration("budget", defaultBudget, "wall-clock limit per invocation")
	runCmd.Flags().String("timeout-command", "", "timeout command to use instead of PATH detection")
	runCmd.Flags().Bool("strict", false, "abort the batch on the first failed invocation")
	runCmd.Flags().String("journal", "", "SQLite journal path; empty disables journaling")

	rootCmd.AddCommand(runCmd)
}
