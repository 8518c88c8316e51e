package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/probe/pkg/domain"
	"github.com/aretw0/probe/pkg/ports"
)

// Engine is the high-level entry point for running steps. It prepares the
// initial run state from its settings and configuration, fires lifecycle
// hooks and logs each run.
type Engine struct {
	settings domain.Settings
	config   map[string]string
	sources  []ports.ConfigSource
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	newID    func() string
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Hooks registered by
// several options are all called, in order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSettings replaces the run settings. Sink, driver factory and clock set
// by other options are kept when the given settings leave them nil.
func WithSettings(settings domain.Settings) Option {
	return func(e *Engine) {
		if settings.Sink == nil {
			settings.Sink = e.settings.Sink
		}
		if settings.Drivers == nil {
			settings.Drivers = e.settings.Drivers
		}
		if settings.Clock == nil {
			settings.Clock = e.settings.Clock
		}
		e.settings = settings
	}
}

// WithSink sets where log records go while a run progresses.
func WithSink(sink domain.LogSink) Option {
	return func(e *Engine) {
		e.settings.Sink = sink
	}
}

// WithDriverFactory sets the factory used to create drivers by name.
func WithDriverFactory(factory domain.DriverFactory) Option {
	return func(e *Engine) {
		e.settings.Drivers = factory
	}
}

// WithClock sets the time source of waiting steps.
func WithClock(clock domain.Clock) Option {
	return func(e *Engine) {
		e.settings.Clock = clock
	}
}

// WithConfig seeds the configuration of every run. Later calls override
// earlier keys.
func WithConfig(cfg map[string]string) Option {
	return func(e *Engine) {
		if e.config == nil {
			e.config = make(map[string]string, len(cfg))
		}
		maps.Copy(e.config, cfg)
	}
}

// WithConfigSource adds a source read at the start of every run. Sources
// override the static configuration, later sources overriding earlier ones.
func WithConfigSource(src ports.ConfigSource) Option {
	return func(e *Engine) {
		e.sources = append(e.sources, src)
	}
}

// WithRunIDGenerator replaces how run identifiers are generated.
func WithRunIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		e.newID = gen
	}
}

// WithName labels the engine in its logs.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New initializes an Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.settings.Wait < 0 || eng.settings.Interval < 0 {
		return nil, fmt.Errorf("invalid settings: wait and interval must not be negative")
	}
	eng.settings = eng.settings.WithDefaults()

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("engine", eng.Name)
	}
	if eng.newID == nil {
		eng.newID = uuid.NewString
	}
	return eng, nil
}

// Settings returns the settings every run starts with.
func (e *Engine) Settings() domain.Settings {
	return e.settings
}

// NewState builds the initial state of a run, reading the config sources.
func (e *Engine) NewState(ctx context.Context) (domain.RunState, error) {
	cfg := make(map[string]string, len(e.config))
	maps.Copy(cfg, e.config)
	for _, src := range e.sources {
		loaded, err := src.Load(ctx)
		if err != nil {
			return domain.RunState{}, fmt.Errorf("failed to load configuration: %w", err)
		}
		maps.Copy(cfg, loaded)
	}
	return domain.NewRunState(e.settings).WithConfig(cfg), nil
}

// Report is the outcome of a run.
type Report[A any] struct {
	RunID    string
	Value    A
	State    domain.RunState
	Started  time.Time
	Duration time.Duration
}

// Err joins the failures of the run, nil when it succeeded.
func (r *Report[A]) Err() error {
	return r.State.Err()
}

// Result returns the value of the run, or its failures.
func (r *Report[A]) Result() domain.Result[A] {
	if err := r.Err(); err != nil {
		return domain.Fail[A](err)
	}
	return domain.Ok(r.Value)
}

// RunEnv executes m under env from a fresh state. The returned error covers
// preparing the run only; failures of the run itself are in the report.
func RunEnv[E, A any](ctx context.Context, e *Engine, env E, m Step[E, A]) (*Report[A], error) {
	s, err := e.NewState(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report[A]{RunID: e.newID(), Started: time.Now()}
	logger := e.logger.With("run_id", report.RunID)
	logger.Debug("run started")
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{Timestamp: report.Started, RunID: report.RunID})
	}

	report.Value, report.State = m.Invoke(ctx, env, s)
	report.Duration = time.Since(report.Started)

	if report.State.IsFaulted() {
		logger.Warn("run failed", "errors", len(report.State.Errors), "duration", report.Duration, "error", report.Err())
	} else {
		logger.Info("run finished", "duration", report.Duration)
	}
	if e.hooks.OnRunEnd != nil {
		e.hooks.OnRunEnd(ctx, &domain.RunEvent{
			Timestamp: time.Now(),
			RunID:     report.RunID,
			Duration:  report.Duration,
			Errors:    report.State.Errors,
		})
	}
	return report, nil
}

// Run executes an Action from a fresh state.
func Run[A any](ctx context.Context, e *Engine, m Action[A]) (*Report[A], error) {
	return RunEnv(ctx, e, NoEnv{}, m)
}

// Exec runs m against an explicit state, without hooks or logging.
func Exec[E, A any](ctx context.Context, env E, s domain.RunState, m Step[E, A]) (domain.Result[A], domain.RunState) {
	v, next := m.Invoke(ctx, env, s)
	if err := next.Err(); err != nil {
		return domain.Fail[A](err), next
	}
	return domain.Ok(v), next
}
