package domain

import (
	"context"
	"time"
)

const (
	// DefaultWait is the deadline used by waiting steps when none is given.
	DefaultWait = 10 * time.Second

	// DefaultInterval is the polling interval used when none is given.
	DefaultInterval = 500 * time.Millisecond
)

// Settings carry the ambient knobs of a run.
type Settings struct {
	// Wait is the default deadline for polling steps.
	Wait time.Duration

	// Interval is the default delay between polling attempts.
	Interval time.Duration

	// Sink receives every log record as it is produced.
	Sink LogSink

	// Drivers creates drivers by name for multi-driver runs.
	Drivers DriverFactory

	// Clock is the time source used by waiting steps.
	Clock Clock
}

// DefaultSettings returns settings with every default filled in.
func DefaultSettings() Settings {
	return Settings{}.WithDefaults()
}

// WithDefaults fills zero fields with defaults.
func (s Settings) WithDefaults() Settings {
	if s.Wait <= 0 {
		s.Wait = DefaultWait
	}
	if s.Interval <= 0 {
		s.Interval = DefaultInterval
	}
	if s.Sink == nil {
		s.Sink = DiscardSink
	}
	if s.Clock == nil {
		s.Clock = SystemClock{}
	}
	return s
}

// Clock abstracts time so that waiting steps can be tested.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
