// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/circuit-batch/internal/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the available configuration profiles",
	Long: `Profiles lists the builtin configuration profiles plus any loaded from
a profiles file. Each profile names the checkpoint tag, the token ids per
split, and the per-split thresholds.`,
	RunE: runProfilesList,
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	set, err := profileSet(cmd)
	if err != nil {
		return err
	}

	for _, name := range set.Names() {
		p, _ := set.Select(name)
		fmt.Printf("%-28s tag=%s train=%d val=%d\n",
			name, p.Tag, len(p.TrainTokenIDs), len(p.ValTokenIDs))
	}
	return nil
}

var profilesShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print one profile as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := profileSet(cmd)
		if err != nil {
			return err
		}

		p, err := set.Select(args[0])
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(p)
	},
}

func profileSet(cmd *cobra.Command) (*profile.Set, error) {
	set := profile.Builtin()
	if path := stringSetting(cmd, "profiles-file", "profiles_file"); path != "" {
		if err := set.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func init() {
	profilesCmd.PersistentFlags().String("profiles-file", "", "YAML file with additional profiles")

	profilesCmd.AddCommand(profilesShowCmd)
	rootCmd.AddCommand(profilesCmd)
}
