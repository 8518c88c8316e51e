package domain

import "errors"

// ErrMissingCause stands in for a nil error handed to Fail.
var ErrMissingCause = errors.New("failure without cause")

// Result holds either a value or an error, never both.
type Result[A any] struct {
	value A
	err   error
}

// Ok wraps a successful value.
func Ok[A any](v A) Result[A] {
	return Result[A]{value: v}
}

// Fail wraps an error. A nil err is replaced by ErrMissingCause.
func Fail[A any](err error) Result[A] {
	if err == nil {
		err = ErrMissingCause
	}
	return Result[A]{err: err}
}

// IsOK reports whether r holds a value.
func (r Result[A]) IsOK() bool { return r.err == nil }

// Value returns the held value, or the zero value on failure.
func (r Result[A]) Value() A { return r.value }

// Err returns the held error, nil on success.
func (r Result[A]) Err() error { return r.err }

// Get unpacks r into the usual Go pair.
func (r Result[A]) Get() (A, error) { return r.value, r.err }
