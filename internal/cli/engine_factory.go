package cli

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aretw0/probe"
	"github.com/aretw0/probe/pkg/adapters/file"
	"github.com/aretw0/probe/pkg/adapters/htmldriver"
	"github.com/aretw0/probe/pkg/adapters/memory"
	redisadapter "github.com/aretw0/probe/pkg/adapters/redis"
	"github.com/aretw0/probe/pkg/domain"
	"github.com/aretw0/probe/pkg/drivers"
	"github.com/aretw0/probe/pkg/observability"
	"github.com/aretw0/probe/pkg/ports"
	"github.com/aretw0/probe/pkg/sink"
)

// Sink names accepted by --sink.
const (
	SinkConsole = "console"
	SinkSlog    = "slog"
	SinkZerolog = "zerolog"
	SinkNone    = "none"
)

// engineEnv is an engine together with the resources it holds.
type engineEnv struct {
	engine  *probe.Engine
	metrics *observability.Metrics
	closers []func() error
}

// Close releases the resources of the engine.
func (e *engineEnv) Close() error {
	var first error
	for _, c := range slices.Backward(e.closers) {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// newRegistry registers the built-in drivers.
func newRegistry() *drivers.Registry {
	registry := drivers.NewRegistry()
	registry.Register("html", htmldriver.Constructor())
	registry.Register("html-mobile", htmldriver.Constructor(htmldriver.WithUserAgent(MobileUserAgent)))
	_ = registry.Alias("default", "html")
	return registry
}

// MobileUserAgent is sent by the html-mobile driver.
const MobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) probe"

// createEngine initializes an engine with standard CLI conventions.
func createEngine(opts RunOptions, logger *slog.Logger) (*engineEnv, error) {
	env := &engineEnv{metrics: observability.NewMetrics("probe")}

	cfg, err := parseKeyValues(opts.Config)
	if err != nil {
		return nil, err
	}

	logSink, err := createSink(opts, logger)
	if err != nil {
		return nil, err
	}
	if opts.extraSink != nil {
		logSink = sink.Multi(logSink, opts.extraSink)
	}

	// 1. Logger, Hooks & Sink
	engineOpts := []probe.Option{
		probe.WithName("probe"),
		probe.WithLogger(logger),
		probe.WithLifecycleHooks(env.metrics.Hooks()),
		probe.WithSettings(domain.Settings{Wait: opts.Wait, Interval: opts.Interval}),
		probe.WithSink(env.metrics.Sink(logSink)),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, probe.WithLifecycleHooks(createDebugHooks(logger)))
	}

	// 2. Configuration: file, then redis, then flags
	if opts.ConfigFile != "" {
		engineOpts = append(engineOpts, probe.WithConfigSource(file.NewConfigStore(opts.ConfigFile)))
	}

	// 3. Drivers, one session per driver name: across processes with redis,
	// within this process otherwise
	var locker ports.DistributedLocker = memory.NewLocker()
	if opts.RedisURL != "" {
		redisOpts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(redisOpts)
		env.closers = append(env.closers, client.Close)

		engineOpts = append(engineOpts, probe.WithConfigSource(redisadapter.NewConfigStore(client)))
		locker = redisadapter.NewLocker(client)
	}
	engineOpts = append(engineOpts, probe.WithDriverFactory(drivers.Locked(newRegistry(), locker, opts.LockTTL)))

	// Flags are loaded last so they win.
	if len(cfg) > 0 {
		engineOpts = append(engineOpts, probe.WithConfigSource(memory.NewConfigStore(cfg)))
	}

	// 4. Initialize
	eng, err := probe.New(engineOpts...)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	env.engine = eng
	return env, nil
}

// createSink selects where progress records go.
func createSink(opts RunOptions, logger *slog.Logger) (domain.LogSink, error) {
	switch opts.Sink {
	case SinkConsole:
		if opts.Quiet {
			return domain.DiscardSink, nil
		}
		return sink.NewConsole(opts.Stderr), nil
	case SinkSlog:
		return sink.NewSlog(logger), nil
	case SinkZerolog:
		return sink.NewZerolog(zerolog.New(opts.Stderr).With().Timestamp().Logger()), nil
	case SinkNone:
		return domain.DiscardSink, nil
	}
	return nil, fmt.Errorf("unknown sink %q (supported: %s, %s, %s, %s)", opts.Sink, SinkConsole, SinkSlog, SinkZerolog, SinkNone)
}

// parseKeyValues turns "key=value" pairs into a map.
func parseKeyValues(pairs []string) (map[string]string, error) {
	cfg := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid config %q: expected key=value", pair)
		}
		cfg[strings.TrimSpace(key)] = value
	}
	return cfg, nil
}
