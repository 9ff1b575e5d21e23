package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/exitintent"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of exitintent",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "exitintent version %s\n", strings.TrimSpace(exitintent.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
