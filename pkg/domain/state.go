package domain

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// TrailSeparator joins context labels when a trail is rendered.
const TrailSeparator = " → "

// RunState is the record threaded through every step of a run.
//
// A RunState is never mutated in place. Every With* helper returns a modified
// copy, and slices and maps are copied before they are extended.
type RunState struct {
	// Trail is the stack of context labels currently open, outermost first.
	Trail []string

	// Log is the root of the structured log tree for the current scope.
	Log Log

	// Errors are the failures accumulated so far. A state with at least one
	// error is faulted.
	Errors []error

	// Driver is the browser driver in scope, nil when none is.
	Driver Driver

	// Settings carry timing defaults, the log sink and the driver factory.
	Settings Settings

	// Config holds string configuration looked up by key.
	Config map[string]string
}

// NewRunState creates an empty, non-faulted state with the given settings.
func NewRunState(settings Settings) RunState {
	return RunState{
		Log:      EmptyLog(),
		Settings: settings.WithDefaults(),
		Config:   map[string]string{},
	}
}

// IsFaulted reports whether at least one error has been recorded.
func (s RunState) IsFaulted() bool {
	return len(s.Errors) > 0
}

// Err joins the recorded errors, or returns nil when the state is not faulted.
func (s RunState) Err() error {
	if !s.IsFaulted() {
		return nil
	}
	return errors.Join(s.Errors...)
}

// AddError returns a copy of s with err appended to its errors.
func (s RunState) AddError(err error) RunState {
	if err == nil {
		return s
	}
	return s.AddErrors(err)
}

// AddErrors returns a copy of s with every non-nil error appended.
func (s RunState) AddErrors(errs ...error) RunState {
	next := slices.Clip(s.Errors)
	for _, err := range errs {
		if err != nil {
			next = append(next, err)
		}
	}
	s.Errors = next
	return s
}

// WithErrors returns a copy of s whose error list is replaced by errs.
func (s RunState) WithErrors(errs []error) RunState {
	s.Errors = slices.Clone(errs)
	return s
}

// PushContext returns a copy of s with label appended to the trail.
func (s RunState) PushContext(label string) RunState {
	s.Trail = append(slices.Clip(s.Trail), label)
	return s
}

// WithTrail returns a copy of s with the trail replaced.
func (s RunState) WithTrail(trail []string) RunState {
	s.Trail = slices.Clip(trail)
	return s
}

// TrailString renders the trail, outermost label first.
func (s RunState) TrailString() string {
	return strings.Join(s.Trail, TrailSeparator)
}

// WithLog returns a copy of s with the log tree replaced.
func (s RunState) WithLog(l Log) RunState {
	s.Log = l
	return s
}

// WithDriver returns a copy of s with d as the driver in scope.
func (s RunState) WithDriver(d Driver) RunState {
	s.Driver = d
	return s
}

// WithSettings returns a copy of s with the settings replaced.
func (s RunState) WithSettings(settings Settings) RunState {
	s.Settings = settings.WithDefaults()
	return s
}

// WithConfig returns a copy of s holding a copy of cfg.
func (s RunState) WithConfig(cfg map[string]string) RunState {
	next := make(map[string]string, len(cfg))
	maps.Copy(next, cfg)
	s.Config = next
	return s
}

// MergeConfig returns a copy of s where cfg overrides existing keys.
func (s RunState) MergeConfig(cfg map[string]string) RunState {
	next := make(map[string]string, len(s.Config)+len(cfg))
	maps.Copy(next, s.Config)
	maps.Copy(next, cfg)
	s.Config = next
	return s
}

// ConfigValue looks up key in the configuration.
func (s RunState) ConfigValue(key string) (string, bool) {
	v, ok := s.Config[key]
	return v, ok
}
