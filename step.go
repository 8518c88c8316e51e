package probe

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/probe/pkg/domain"
)

// NoEnv is the environment of steps that do not read one.
type NoEnv struct{}

// Unit is the value of steps run only for their effect on the state.
type Unit = struct{}

// Step is a deferred computation. Given a context, an environment and a run
// state it produces a value and the next state. Building a Step has no
// effect; it only runs when invoked, and may be invoked any number of times.
//
// A step never panics past its boundary and never returns a Go error: failures
// are recorded in the returned state, which is then faulted, and the value is
// the zero value.
type Step[E, A any] func(ctx context.Context, env E, s domain.RunState) (A, domain.RunState)

// Action is a step that does not read an environment.
type Action[A any] = Step[NoEnv, A]

var errNilStep = errors.New("nil step")

// Invoke runs m, converting a panic into a failure on the input state.
func (m Step[E, A]) Invoke(ctx context.Context, env E, s domain.RunState) (a A, out domain.RunState) {
	if m == nil {
		return a, raise(s, errNilStep.Error(), errNilStep)
	}
	defer func() {
		if r := recover(); r != nil {
			var zero A
			a, out = zero, raisePanic(s, r)
		}
	}()
	return m(ctx, env, s)
}

// raise logs message as an error entry and records a Failure annotated with
// the current trail.
func raise(s domain.RunState, message string, cause error) domain.RunState {
	s = emit(s, domain.LogError, message)
	return s.AddError(domain.NewFailure(message, s.Trail, cause))
}

func raisePanic(s domain.RunState, r any) domain.RunState {
	pe := &domain.PanicError{Value: r}
	return raise(s, pe.Error(), pe)
}

// capture runs fn, turning a returned error or a panic into a failure.
func capture[A any](s domain.RunState, fn func() (A, error)) (a A, out domain.RunState) {
	defer func() {
		if r := recover(); r != nil {
			var zero A
			a, out = zero, raisePanic(s, r)
		}
	}()
	v, err := fn()
	if err != nil {
		var zero A
		return zero, raise(s, err.Error(), err)
	}
	return v, s
}

// Pure produces v and leaves the state untouched.
func Pure[E, A any](v A) Step[E, A] {
	return func(_ context.Context, _ E, s domain.RunState) (A, domain.RunState) {
		return v, s
	}
}

// Fail logs message as an error and faults the state.
func Fail[E, A any](message string) Step[E, A] {
	return func(_ context.Context, _ E, s domain.RunState) (A, domain.RunState) {
		var zero A
		return zero, raise(s, message, nil)
	}
}

// Failf is Fail with a format string.
func Failf[E, A any](format string, args ...any) Step[E, A] {
	return Fail[E, A](fmt.Sprintf(format, args...))
}

// FailErr faults the state with err as the cause.
func FailErr[E, A any](err error) Step[E, A] {
	return func(_ context.Context, _ E, s domain.RunState) (A, domain.RunState) {
		var zero A
		if err == nil {
			err = domain.ErrMissingCause
		}
		return zero, raise(s, err.Error(), err)
	}
}

// Func lifts a plain function. A panic in f faults the state.
func Func[E, A any](f func() A) Step[E, A] {
	return func(_ context.Context, _ E, s domain.RunState) (A, domain.RunState) {
		return capture(s, func() (A, error) { return f(), nil })
	}
}

// Try lifts a fallible function. A returned error or a panic faults the state.
func Try[E, A any](f func(ctx context.Context) (A, error)) Step[E, A] {
	return func(ctx context.Context, _ E, s domain.RunState) (A, domain.RunState) {
		return capture(s, func() (A, error) { return f(ctx) })
	}
}

// TryLabel is Try where a failure is reported under label, keeping the
// original error as its cause.
func TryLabel[E, A any](label string, f func(ctx context.Context) (A, error)) Step[E, A] {
	return func(ctx context.Context, _ E, s domain.RunState) (A, domain.RunState) {
		v, err := captureErr(f, ctx)
		if err != nil {
			var zero A
			return zero, raise(s, label, err)
		}
		return v, s
	}
}

func captureErr[A any](f func(context.Context) (A, error), ctx context.Context) (a A, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.PanicError{Value: r}
		}
	}()
	return f(ctx)
}

// FromResult lifts a Result: a value is produced, an error faults the state.
func FromResult[E, A any](r domain.Result[A]) Step[E, A] {
	return func(_ context.Context, _ E, s domain.RunState) (A, domain.RunState) {
		if r.IsOK() {
			return r.Value(), s
		}
		var zero A
		return zero, raise(s, r.Err().Error(), r.Err())
	}
}

// Get produces the current state.
func Get[E any]() Step[E, domain.RunState] {
	return func(_ context.Context, _ E, s domain.RunState) (domain.RunState, domain.RunState) {
		return s, s
	}
}

// Gets produces a projection of the current state.
func Gets[E, A any](f func(domain.RunState) A) Step[E, A] {
	return func(_ context.Context, _ E, s domain.RunState) (A, domain.RunState) {
		return capture(s, func() (A, error) { return f(s), nil })
	}
}

// Put replaces the state.
func Put[E any](next domain.RunState) Step[E, Unit] {
	return func(context.Context, E, domain.RunState) (Unit, domain.RunState) {
		return Unit{}, next
	}
}

// Modify replaces the state with f applied to it.
func Modify[E any](f func(domain.RunState) domain.RunState) Step[E, Unit] {
	return func(_ context.Context, _ E, s domain.RunState) (Unit, domain.RunState) {
		next, out := capture(s, func() (domain.RunState, error) { return f(s), nil })
		if len(out.Errors) > len(s.Errors) {
			return Unit{}, out
		}
		return Unit{}, next
	}
}

// IsFaulted produces whether the state carries errors.
func IsFaulted[E any]() Step[E, bool] {
	return Gets[E](domain.RunState.IsFaulted)
}

// Map transforms the value produced by m. On a faulted state f is not
// called and the zero value is produced.
func Map[E, A, B any](m Step[E, A], f func(A) B) Step[E, B] {
	return func(ctx context.Context, env E, s domain.RunState) (B, domain.RunState) {
		a, next := m.Invoke(ctx, env, s)
		if next.IsFaulted() {
			var zero B
			return zero, next
		}
		return capture(next, func() (B, error) { return f(a), nil })
	}
}

// Bind runs m, then the step f builds from its value, threading the state.
//
// Bind does not short-circuit: the continuation runs even when m faulted the
// state, receiving the zero value. Use AndThen to skip it instead.
func Bind[E, A, B any](m Step[E, A], f func(A) Step[E, B]) Step[E, B] {
	return func(ctx context.Context, env E, s domain.RunState) (B, domain.RunState) {
		a, next := m.Invoke(ctx, env, s)
		if next.IsFaulted() {
			var zero A
			a = zero
		}
		cont, next := capture(next, func() (Step[E, B], error) { return f(a), nil })
		if cont == nil {
			var zero B
			return zero, next
		}
		return cont.Invoke(ctx, env, next)
	}
}

// AndThen is Bind that skips the continuation once the state is faulted.
func AndThen[E, A, B any](m Step[E, A], f func(A) Step[E, B]) Step[E, B] {
	return func(ctx context.Context, env E, s domain.RunState) (B, domain.RunState) {
		a, next := m.Invoke(ctx, env, s)
		if next.IsFaulted() {
			var zero B
			return zero, next
		}
		cont, next := capture(next, func() (Step[E, B], error) { return f(a), nil })
		if cont == nil {
			var zero B
			return zero, next
		}
		return cont.Invoke(ctx, env, next)
	}
}

// Then runs m and then n, producing n's value.
func Then[E, A, B any](m Step[E, A], n Step[E, B]) Step[E, B] {
	return Bind(m, func(A) Step[E, B] { return n })
}

// Discard runs m and produces Unit.
func Discard[E, A any](m Step[E, A]) Step[E, Unit] {
	return func(ctx context.Context, env E, s domain.RunState) (Unit, domain.RunState) {
		_, next := m.Invoke(ctx, env, s)
		return Unit{}, next
	}
}

// Or runs a; if that leaves the state faulted, the state is restored to what
// it was before a ran and b runs instead. b is never run when a succeeds.
func Or[E, A any](a, b Step[E, A]) Step[E, A] {
	return func(ctx context.Context, env E, s domain.RunState) (A, domain.RunState) {
		v, next := a.Invoke(ctx, env, s)
		if !next.IsFaulted() {
			return v, next
		}
		return b.Invoke(ctx, env, s)
	}
}

// OrElse is Or with a value fallback.
func OrElse[E, A any](m Step[E, A], fallback A) Step[E, A] {
	return Or(m, Pure[E](fallback))
}

// MapFail rewrites the errors m adds into a single error built by f.
func MapFail[E, A any](m Step[E, A], f func(error) error) Step[E, A] {
	return func(ctx context.Context, env E, s domain.RunState) (A, domain.RunState) {
		v, next := m.Invoke(ctx, env, s)
		if len(next.Errors) <= len(s.Errors) {
			return v, next
		}
		added := errors.Join(next.Errors[len(s.Errors):]...)
		mapped := f(added)
		if mapped == nil {
			mapped = added
		}
		return v, next.WithErrors(append(s.Errors[:len(s.Errors):len(s.Errors)], mapped))
	}
}
