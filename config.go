package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/probe/pkg/domain"
	"github.com/aretw0/probe/pkg/ports"
)

// InitConfig replaces the configuration with cfg.
func InitConfig[E any](cfg map[string]string) Step[E, Unit] {
	return Modify[E](func(s domain.RunState) domain.RunState { return s.WithConfig(cfg) })
}

// MergeConfig overrides configuration keys with those of cfg.
func MergeConfig[E any](cfg map[string]string) Step[E, Unit] {
	return Modify[E](func(s domain.RunState) domain.RunState { return s.MergeConfig(cfg) })
}

// LoadConfig merges the configuration read from src.
func LoadConfig[E any](src ports.ConfigSource) Step[E, Unit] {
	load := TryLabel[E]("Failed to load configuration", func(ctx context.Context) (map[string]string, error) {
		return src.Load(ctx)
	})
	return AndThen(load, MergeConfig[E])
}

// Config looks up key, faulting the state when it is missing.
func Config[E any](key string) Step[E, string] {
	return func(_ context.Context, _ E, s domain.RunState) (string, domain.RunState) {
		if v, ok := s.ConfigValue(key); ok {
			return v, s
		}
		return "", raise(s, fmt.Sprintf("Configuration key not found: %s", key), domain.ErrConfigKeyNotFound)
	}
}

// ConfigOr looks up key, producing fallback when it is missing.
func ConfigOr[E any](key, fallback string) Step[E, string] {
	return Gets[E](func(s domain.RunState) string {
		if v, ok := s.ConfigValue(key); ok {
			return v
		}
		return fallback
	})
}

// InitSettings replaces the settings. Zero fields take their defaults.
func InitSettings[E any](settings domain.Settings) Step[E, Unit] {
	return Modify[E](func(s domain.RunState) domain.RunState { return s.WithSettings(settings) })
}

// WithTimeouts overrides the default wait and interval, leaving the rest of
// the settings alone. Zero durations keep the current values.
func WithTimeouts[E any](wait, interval time.Duration) Step[E, Unit] {
	return Modify[E](func(s domain.RunState) domain.RunState {
		settings := s.Settings
		if wait > 0 {
			settings.Wait = wait
		}
		if interval > 0 {
			settings.Interval = interval
		}
		return s.WithSettings(settings)
	})
}

// DefaultWait produces the configured default wait.
func DefaultWait[E any]() Step[E, time.Duration] {
	return Gets[E](func(s domain.RunState) time.Duration { return s.Settings.Wait })
}

// DefaultInterval produces the configured default interval.
func DefaultInterval[E any]() Step[E, time.Duration] {
	return Gets[E](func(s domain.RunState) time.Duration { return s.Settings.Interval })
}
