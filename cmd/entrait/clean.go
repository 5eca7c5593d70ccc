package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/entrait/internal/cli"
)

func newCleanCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [targets...]",
		Short: "Delete expanded files",
		Long:  "Delete every file ending in the configured suffix (.entrait.rs by default) under the targets.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := root.loadConfig(cmd, args, map[string]string{"suffix": "output_suffix"})
			if err != nil {
				return err
			}
			diagnostics := root.diagnostics(cmd, false)

			removed, err := cli.NewCleaner(config.OutputSuffix).CleanGeneratedFiles(config.Targets)
			for _, file := range removed {
				diagnostics.Verbose("Removed %s", file)
			}
			if err != nil {
				reportError(diagnostics, err)
				return reported{err}
			}
			diagnostics.Success("Removed %d generated file(s)", len(removed))
			return nil
		},
	}
	cmd.Flags().String("suffix", ".entrait.rs", "Suffix of the expanded files")
	return cmd
}
