package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of circuit-batch",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("circuit-batch %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
