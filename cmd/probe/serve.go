package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/probe/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts an HTTP server that validates and runs posted scenarios (POST /validate,
POST /runs), streams progress as server-sent events (GET /events) and serves
Prometheus metrics (GET /metrics).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		port, _ := flags.GetString("port")

		opts := cli.RunOptions{}
		opts.Config, _ = flags.GetStringArray("config")
		opts.ConfigFile, _ = flags.GetString("config-file")
		opts.RedisURL, _ = flags.GetString("redis-url")
		opts.LockTTL, _ = flags.GetDuration("lock-ttl")
		opts.Sink, _ = flags.GetString("sink")
		opts.LogLevel, _ = flags.GetString("log-level")
		opts.LogJSON, _ = flags.GetBool("log-json")
		opts.Debug, _ = flags.GetBool("debug")
		opts.Stdout = cmd.OutOrStdout()
		opts.Stderr = cmd.ErrOrStderr()

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()
		return cli.Serve(sigCtx, opts, ":"+port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := serveCmd.Flags()
	f.StringP("port", "p", "8080", "Port to listen on")
	f.StringArrayP("config", "c", nil, "Configuration value as key=value (repeatable)")
	f.String("config-file", "", "YAML file of configuration values")
	f.String("redis-url", "", "Redis URL for shared configuration and driver locks")
	f.Duration("lock-ttl", 0, "Expiry of driver locks held in redis (default 5m)")
	f.String("sink", cli.SinkNone, "Progress output: console, slog, zerolog or none")
	f.String("log-level", "info", "Log level: debug, info, warn or error")
	f.Bool("log-json", false, "Write logs as JSON")
	f.Bool("debug", false, "Enable debug logging")
}
