// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the circuit-batch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the circuit-batch CLI.
var rootCmd = &cobra.Command{
	Use:   "circuit-batch",
	Short: "Batch driver for circuit extraction runs",
	Long: `circuit-batch drives batch runs of the circuit extraction script. For
each token id configured in the selected profile it launches the extractor
once, wrapped in a wall-clock timeout, train split first, then val.

The extractor and the timeout command are external: circuit-batch resolves
the timeout tool from PATH (timeout, then gtimeout) and fires the
extractor without interpreting its output.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./circuit-batch.yaml or ~/.config/circuit-batch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("circuit-batch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "circuit-batch"))
		}
	}

	viper.SetEnvPrefix("CIRCUIT_BATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
