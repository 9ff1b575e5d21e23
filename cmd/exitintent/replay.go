package main

import (
	"github.com/aretw0/exitintent/internal/cli"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.yaml>",
	Short: "Replay a scripted page visit",
	Long: `Runs a scenario of resize, pointer, scroll, hide, show, wait and remount steps
against a simulated browser and prints every trigger and title change.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		logLevel, _ := cmd.Flags().GetString("log-level")
		redisAddr, _ := cmd.Flags().GetString("redis")
		sessionID, _ := cmd.Flags().GetString("session")
		asJSON, _ := cmd.Flags().GetBool("json")

		return cli.RunReplay(cmd.Context(), args[0], cli.ReplayFlags{
			ConfigPath: configPath,
			RedisAddr:  redisAddr,
			SessionID:  sessionID,
			JSON:       asJSON,
			LogLevel:   logLevel,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().String("redis", "", "Redis address for the session store (default: in-memory)")
	replayCmd.Flags().String("session", "replay", "Session ID used with --redis")
	replayCmd.Flags().Bool("json", false, "Print NDJSON even on a terminal")
}
