package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/probe/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Run scenarios",
	Long: `Runs every scenario file given, or every *.yaml and *.yml file under the given
directories. Exits with status 1 when any scenario fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.RunOptions{Paths: args}
		opts.Drivers, _ = flags.GetStringSlice("driver")
		opts.Config, _ = flags.GetStringArray("config")
		opts.ConfigFile, _ = flags.GetString("config-file")
		opts.RedisURL, _ = flags.GetString("redis-url")
		opts.LockTTL, _ = flags.GetDuration("lock-ttl")
		opts.Wait, _ = flags.GetDuration("wait")
		opts.Interval, _ = flags.GetDuration("interval")
		opts.Format, _ = flags.GetString("format")
		opts.Output, _ = flags.GetString("output")
		opts.Sink, _ = flags.GetString("sink")
		opts.MetricsAddr, _ = flags.GetString("metrics-addr")
		opts.LogLevel, _ = flags.GetString("log-level")
		opts.LogJSON, _ = flags.GetBool("log-json")
		opts.Debug, _ = flags.GetBool("debug")
		opts.Quiet, _ = flags.GetBool("quiet")
		opts.Watch, _ = flags.GetBool("watch")
		opts.Stdout = cmd.OutOrStdout()
		opts.Stderr = cmd.ErrOrStderr()

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()
		return cli.Execute(sigCtx, opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringSliceP("driver", "d", nil, "Drivers to run every scenario on, replacing the ones it declares")
	f.StringArrayP("config", "c", nil, "Configuration value as key=value (repeatable)")
	f.String("config-file", "", "YAML file of configuration values")
	f.String("redis-url", "", "Redis URL for shared configuration and driver locks")
	f.Duration("lock-ttl", 0, "Expiry of driver locks held in redis (default 5m)")
	f.Duration("wait", 0, "Default deadline of waiting steps (default 10s)")
	f.Duration("interval", 0, "Default polling interval of waiting steps (default 500ms)")
	f.StringP("format", "f", "text", "Report format: text, markdown, json or mermaid")
	f.StringP("output", "o", "", "Write reports to this file instead of stdout")
	f.String("sink", cli.SinkConsole, "Progress output: console, slog, zerolog or none")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	f.String("log-level", "", "Log level: debug, info, warn or error")
	f.Bool("log-json", false, "Write logs as JSON")
	f.Bool("debug", false, "Enable debug logging")
	f.BoolP("quiet", "q", false, "Only print reports")
	f.BoolP("watch", "w", false, "Rerun when scenarios or the config file change")
}
