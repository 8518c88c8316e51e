package probe

import (
	"context"

	"github.com/aretw0/probe/pkg/domain"
)

// Sequence runs steps in order and produces their values. It stops at the
// first step that leaves the state faulted; later steps never run.
func Sequence[E, A any](steps ...Step[E, A]) Step[E, []A] {
	return func(ctx context.Context, env E, s domain.RunState) ([]A, domain.RunState) {
		values := make([]A, 0, len(steps))
		cur := s
		for _, m := range steps {
			v, next := m.Invoke(ctx, env, cur)
			if next.IsFaulted() {
				return nil, next
			}
			values = append(values, v)
			cur = next
		}
		return values, cur
	}
}

// Collect runs every step regardless of failures and produces one value per
// step, the zero value for steps that faulted. An already faulted input does
// not stop it: every step still runs, and each starts from a clean error list,
// so no step sees the input's faults or those of earlier steps. The result
// carries the input's errors followed by those of every step, in order. Log entries produced by the steps are gathered under
// the enclosing log node.
func Collect[E, A any](steps ...Step[E, A]) Step[E, []A] {
	return func(ctx context.Context, env E, s domain.RunState) ([]A, domain.RunState) {
		values := make([]A, len(steps))
		errs := append([]error(nil), s.Errors...)
		cur := s.WithLog(s.Log.Cleared()).WithErrors(nil)

		for i, m := range steps {
			v, next := m.Invoke(ctx, env, cur)
			if next.IsFaulted() {
				errs = append(errs, next.Errors...)
				next = next.WithErrors(nil)
			} else {
				values[i] = v
			}
			cur = next
		}
		return values, cur.WithErrors(errs).WithLog(s.Log.Add(cur.Log.Children...))
	}
}
