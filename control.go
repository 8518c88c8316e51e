package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/probe/pkg/domain"
)

const (
	// DefaultMaxRepeats is the usual limit passed to DoWhile and DoWhileOrFail.
	DefaultMaxRepeats = 100

	// DefaultPollRepeats is the usual limit passed to DoWhileOrFailEvery.
	DefaultPollRepeats = 1000
)

// holds evaluates cond on v. A panic in cond faults the state and counts as false.
func holds[A any](s domain.RunState, cond func(A) bool, v A) (bool, domain.RunState) {
	ok, next := capture(s, func() (bool, error) { return cond(v), nil })
	return ok, next
}

// WaitUntil repeats m while keepWaiting holds for its value, sleeping
// interval between attempts, until wait has elapsed since the first attempt.
// It produces the last value. Running out of time is not a failure; callers
// inspect the value. An attempt that faults the state ends the wait. Zero durations fall back to the settings' defaults.
func WaitUntil[E, A any](m Step[E, A], keepWaiting func(A) bool, interval, wait time.Duration) Step[E, A] {
	return func(ctx context.Context, env E, s domain.RunState) (A, domain.RunState) {
		every, limit := interval, wait
		if every <= 0 {
			every = s.Settings.Interval
		}
		if limit <= 0 {
			limit = s.Settings.Wait
		}
		clock := clockOf(s)
		deadline := clock.Now().Add(limit)

		cur := s
		for {
			v, next := m.Invoke(ctx, env, cur)
			if len(next.Errors) > len(cur.Errors) {
				return v, next
			}
			again, next := holds(next, keepWaiting, v)
			cur = next
			if !again || !clock.Now().Before(deadline) {
				return v, cur
			}
			if err := clock.Sleep(ctx, every); err != nil {
				return v, raise(cur, err.Error(), err)
			}
		}
	}
}

// DoWhile runs m at most maxRepeats times, stopping at the first value for
// which again is false and producing it. When the limit is reached the zero
// value is produced silently. An attempt that faults the state ends the
// loop. With a non-positive limit m never runs and the zero value is produced.
func DoWhile[E, A any](m Step[E, A], again func(A) bool, maxRepeats int) Step[E, A] {
	return repeat(m, again, maxRepeats, 0, nil)
}

// DoWhileOrFail is DoWhile that fails with message when the limit is reached.
// A non-positive limit fails at once without running m.
func DoWhileOrFail[E, A any](m Step[E, A], again func(A) bool, message string, maxRepeats int) Step[E, A] {
	return repeat(m, again, maxRepeats, 0, &message)
}

// DoWhileOrFailEvery is DoWhileOrFail with a pause between attempts.
func DoWhileOrFailEvery[E, A any](m Step[E, A], again func(A) bool, message string, interval time.Duration, maxRepeats int) Step[E, A] {
	return repeat(m, again, maxRepeats, interval, &message)
}

func repeat[E, A any](m Step[E, A], again func(A) bool, maxRepeats int, interval time.Duration, failure *string) Step[E, A] {
	return func(ctx context.Context, env E, s domain.RunState) (A, domain.RunState) {
		var zero A
		cur := s
		for i := 0; i < maxRepeats; i++ {
			v, next := m.Invoke(ctx, env, cur)
			if len(next.Errors) > len(cur.Errors) {
				return zero, next
			}
			cont, next := holds(next, again, v)
			cur = next
			if !cont {
				return v, cur
			}
			if interval > 0 && i < maxRepeats-1 {
				if err := clockOf(cur).Sleep(ctx, interval); err != nil {
					return zero, raise(cur, err.Error(), err)
				}
			}
		}
		if failure != nil {
			return zero, raise(cur, *failure, nil)
		}
		return zero, cur
	}
}

// Pause sleeps for d. Cancellation of the context faults the state.
func Pause[E any](d time.Duration) Step[E, Unit] {
	return func(ctx context.Context, _ E, s domain.RunState) (Unit, domain.RunState) {
		if err := clockOf(s).Sleep(ctx, d); err != nil {
			return Unit{}, raise(s, fmt.Sprintf("Pause interrupted: %v", err), err)
		}
		return Unit{}, s
	}
}

func clockOf(s domain.RunState) domain.Clock {
	if s.Settings.Clock == nil {
		return domain.SystemClock{}
	}
	return s.Settings.Clock
}
