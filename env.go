package probe

import (
	"context"

	"github.com/aretw0/probe/pkg/domain"
)

// Ask produces the environment.
func Ask[E any]() Step[E, E] {
	return func(_ context.Context, env E, s domain.RunState) (E, domain.RunState) {
		return env, s
	}
}

// Asks produces a projection of the environment.
func Asks[E, A any](f func(E) A) Step[E, A] {
	return func(_ context.Context, env E, s domain.RunState) (A, domain.RunState) {
		return capture(s, func() (A, error) { return f(env), nil })
	}
}

// Local runs m under the environment f derives from the current one.
func Local[E1, E2, A any](f func(E1) E2, m Step[E2, A]) Step[E1, A] {
	return func(ctx context.Context, env E1, s domain.RunState) (A, domain.RunState) {
		inner, next := capture(s, func() (E2, error) { return f(env), nil })
		if len(next.Errors) > len(s.Errors) {
			var zero A
			return zero, next
		}
		return m.Invoke(ctx, inner, next)
	}
}

// WithEnv fixes the environment of m, turning it into an Action.
func WithEnv[E, A any](env E, m Step[E, A]) Action[A] {
	return Local(func(NoEnv) E { return env }, m)
}
