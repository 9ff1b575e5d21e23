package main

import (
	"time"

	"github.com/aretw0/exitintent/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP session server",
	Long:  `Hosts one engine per remote session and exposes it as a JSON API over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		logLevel, _ := cmd.Flags().GetString("log-level")
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisTTL, _ := cmd.Flags().GetDuration("redis-ttl")

		if !cmd.Flags().Changed("log-level") {
			logLevel = "info"
		}

		return cli.RunServe(cmd.Context(), cli.ServeFlags{
			Addr:       ":" + port,
			ConfigPath: configPath,
			RedisAddr:  redisAddr,
			RedisTTL:   redisTTL,
			LogLevel:   logLevel,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for session markers (default: in-memory)")
	serveCmd.Flags().Duration("redis-ttl", 24*time.Hour, "Expiry of a session's markers in Redis, 0 to keep forever")
}
