package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/probe/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [paths...]",
	Short: "Check scenario files without running them",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.Validate(args, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Scenarios are valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
