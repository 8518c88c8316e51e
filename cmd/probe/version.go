package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/probe"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of probe",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "probe version %s\n", strings.TrimSpace(probe.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
