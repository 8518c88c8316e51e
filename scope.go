package probe

import (
	"context"
	"fmt"

	"github.com/aretw0/probe/pkg/domain"
)

// Context runs m inside a named scope. The label is pushed on the trail and
// a log node is opened for it; both are closed when m returns, whether or
// not it faulted, and the node is merged under the enclosing log.
func Context[E, A any](label string, m Step[E, A]) Step[E, A] {
	return func(ctx context.Context, env E, s domain.RunState) (A, domain.RunState) {
		opened := s.PushContext(label).WithLog(s.Log.Open(label))
		sinkOf(opened).Accept(domain.LogRecord{Message: label, Kind: domain.LogContext, Indent: opened.Log.Indent})

		v, inner := m.Invoke(ctx, env, opened)
		return v, inner.WithTrail(s.Trail).WithLog(s.Log.Add(inner.Log))
	}
}

// Use runs the step f builds from resource and disposes of the resource
// exactly once afterwards, on success, on failure and on cancellation.
// A dispose error faults the state.
func Use[E, R, A any](resource R, dispose func(R) error, f func(R) Step[E, A]) Step[E, A] {
	return func(ctx context.Context, env E, s domain.RunState) (a A, out domain.RunState) {
		out = s
		defer func() {
			if err := release(dispose, resource); err != nil {
				out = raise(out, fmt.Sprintf("Failed to release resource: %v", err), err)
			}
		}()

		m, next := capture(s, func() (Step[E, A], error) { return f(resource), nil })
		if m == nil {
			return a, next
		}
		return m.Invoke(ctx, env, next)
	}
}

func release[R any](dispose func(R) error, resource R) (err error) {
	if dispose == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &domain.PanicError{Value: r}
		}
	}()
	return dispose(resource)
}

func quit(d domain.Driver) error {
	if d == nil {
		return nil
	}
	return d.Quit()
}

// WithDriver runs m with d as the driver in scope. The previous driver is
// restored afterwards and d is quit exactly once.
func WithDriver[E, A any](d domain.Driver, m Step[E, A]) Step[E, A] {
	return Use(d, quit, func(d domain.Driver) Step[E, A] {
		return func(ctx context.Context, env E, s domain.RunState) (A, domain.RunState) {
			prev := s.Driver
			v, next := m.Invoke(ctx, env, s.WithDriver(d))
			return v, next.WithDriver(prev)
		}
	})
}

// WithNamedDriver creates the named driver from the settings' factory and
// runs m with it inside a context of the same name.
func WithNamedDriver[E, A any](name string, m Step[E, A]) Step[E, A] {
	return Context(name, AndThen(newDriver[E](name), func(d domain.Driver) Step[E, A] {
		return WithDriver(d, m)
	}))
}

func newDriver[E any](name string) Step[E, domain.Driver] {
	return func(ctx context.Context, _ E, s domain.RunState) (domain.Driver, domain.RunState) {
		factory := s.Settings.Drivers
		if factory == nil {
			return nil, raise(s, "No driver factory configured", domain.ErrDriverNotSupported)
		}
		var created domain.Driver
		d, next := capture(s, func() (domain.Driver, error) {
			d, err := factory.NewDriver(ctx, name)
			created = d
			return d, err
		})
		if len(next.Errors) > len(s.Errors) {
			// A driver returned alongside an error still holds resources.
			_ = release(quit, created)
			return nil, next
		}
		if d == nil {
			return nil, raise(s, fmt.Sprintf("Driver factory returned no driver for: %s", name), domain.ErrDriverNotSupported)
		}
		return d, next
	}
}

// WithDrivers runs m once per named driver, in order, each inside a context
// named after the driver. A failing driver does not stop the others: every
// run starts from a clean error list and the errors of all runs are reported
// together.
func WithDrivers[E, A any](m Step[E, A], names ...string) Step[E, Unit] {
	return func(ctx context.Context, env E, s domain.RunState) (Unit, domain.RunState) {
		errs := append([]error(nil), s.Errors...)
		cur := s.WithErrors(nil)
		for _, name := range names {
			_, next := WithNamedDriver(name, m).Invoke(ctx, env, cur)
			errs = append(errs, next.Errors...)
			cur = next.WithErrors(nil)
		}
		return Unit{}, cur.WithErrors(errs)
	}
}
