package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/probe"
	"github.com/aretw0/probe/pkg/domain"
	"github.com/aretw0/probe/pkg/report"
	"github.com/aretw0/probe/pkg/scenario"
)

// ErrScenarioFailed is returned when at least one scenario recorded failures.
var ErrScenarioFailed = errors.New("one or more scenarios failed")

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Paths       []string
	Drivers     []string // Replace the drivers every scenario declares
	Config      []string // key=value pairs
	ConfigFile  string
	RedisURL    string
	LockTTL     time.Duration
	Wait        time.Duration
	Interval    time.Duration
	Format      string
	Output      string
	Sink        string
	MetricsAddr string
	LogLevel    string
	LogJSON     bool
	Debug       bool
	Quiet       bool
	Watch       bool

	Stdout io.Writer
	Stderr io.Writer

	// extraSink also receives every record, whatever Sink selects.
	extraSink domain.LogSink
}

func (o *RunOptions) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Format == "" {
		o.Format = string(report.FormatText)
	}
	if o.Sink == "" {
		o.Sink = SinkConsole
	}
}

// Execute handles the run command, dispatching to watch mode when asked.
func Execute(ctx context.Context, opts RunOptions) error {
	opts.defaults()

	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	logger, err := createLogger(opts)
	if err != nil {
		return err
	}

	env, err := createEngine(opts, logger)
	if err != nil {
		return err
	}
	defer env.Close()

	if opts.MetricsAddr != "" {
		srv, err := startMetricsServer(opts.MetricsAddr, env.metrics, logger)
		if err != nil {
			return err
		}
		defer srv.Close()
		if !opts.Quiet {
			printSystemMessage(opts.Stderr, "Serving metrics on http://%s/metrics", srv.Addr())
		}
	}

	if opts.Watch {
		return RunWatch(ctx, opts, env, format, logger)
	}
	return runOnce(ctx, opts, env, format, logger)
}

// runOnce loads and runs every scenario under opts.Paths, reporting each.
func runOnce(ctx context.Context, opts RunOptions, env *engineEnv, format report.Format, logger *slog.Logger) error {
	files, err := discoverScenarios(opts.Paths)
	if err != nil {
		return err
	}

	scenarios := make([]*scenario.Scenario, 0, len(files))
	var loadErrs []error
	for _, path := range files {
		sc, err := scenario.LoadFile(path)
		if err != nil {
			loadErrs = append(loadErrs, err)
			continue
		}
		if len(opts.Drivers) > 0 {
			sc.Drivers = opts.Drivers
		}
		scenarios = append(scenarios, sc)
	}
	if len(loadErrs) > 0 {
		return errors.Join(loadErrs...)
	}

	out, closeOut, err := openOutput(opts)
	if err != nil {
		return err
	}
	defer closeOut()

	failed := 0
	for _, sc := range scenarios {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Debug("Running scenario", "name", sc.Name, "steps", sc.StepCount(), "drivers", sc.Drivers)

		res, err := probe.Run(ctx, env.engine, sc.Action())
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		summary := report.FromState(sc.Name, res.RunID, res.Duration, res.State)
		if !summary.Passed() {
			failed++
		}
		if err := writeReport(out, format, summary); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrScenarioFailed, failed, len(scenarios))
	}
	return nil
}
