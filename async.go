package probe

import (
	"context"
	"errors"

	"github.com/aretw0/probe/pkg/domain"
)

var errNoResult = errors.New("awaited operation produced no result")

// Await suspends on the channel f returns until a result arrives or ctx is
// done. A failed result or a cancelled context faults the state.
func Await[E, A any](f func(ctx context.Context) <-chan domain.Result[A]) Step[E, A] {
	return func(ctx context.Context, _ E, s domain.RunState) (A, domain.RunState) {
		var zero A
		ch, next := capture(s, func() (<-chan domain.Result[A], error) { return f(ctx), nil })
		if len(next.Errors) > len(s.Errors) {
			return zero, next
		}
		if ch == nil {
			return zero, raise(s, errNoResult.Error(), errNoResult)
		}

		select {
		case r, ok := <-ch:
			if !ok {
				return zero, raise(s, errNoResult.Error(), errNoResult)
			}
			if err := r.Err(); err != nil {
				return zero, raise(s, err.Error(), err)
			}
			return r.Value(), s
		case <-ctx.Done():
			return zero, raise(s, ctx.Err().Error(), ctx.Err())
		}
	}
}

// Async runs f on its own goroutine and awaits it. The goroutine receives
// the step's context and is expected to stop when it is cancelled.
func Async[E, A any](f func(ctx context.Context) (A, error)) Step[E, A] {
	return Await[E](func(ctx context.Context) <-chan domain.Result[A] {
		ch := make(chan domain.Result[A], 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					ch <- domain.Fail[A](&domain.PanicError{Value: r})
				}
			}()
			v, err := f(ctx)
			if err != nil {
				ch <- domain.Fail[A](err)
				return
			}
			ch <- domain.Ok(v)
		}()
		return ch
	})
}
