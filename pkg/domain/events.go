package domain

import (
	"context"
	"time"
)

// RunEvent describes the start or the end of a run.
type RunEvent struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`

	// Duration and Errors are only set when the run has finished.
	Duration time.Duration `json:"duration,omitempty"`
	Errors   []error       `json:"-"`
}

// Faulted reports whether the run ended with errors.
func (e *RunEvent) Faulted() bool {
	return len(e.Errors) > 0
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnRunEnd   func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: chain(h.OnRunStart, other.OnRunStart),
		OnRunEnd:   chain(h.OnRunEnd, other.OnRunEnd),
	}
}

func chain(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
