package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "exitintent",
	Short: "exitintent detects when a visitor is about to leave a page",
	Long: `exitintent replays scripted page visits against the exit-intent engine
and serves remote sessions over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or JSON options file")
	rootCmd.PersistentFlags().String("log-level", "off", "Log level: debug, info, warn, error or off")
}
