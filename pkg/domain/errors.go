package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDriver is returned when a browser step runs with no driver in scope.
var ErrNoDriver = errors.New("no driver in scope")

// ErrConfigKeyNotFound is returned when a configuration key is missing.
var ErrConfigKeyNotFound = errors.New("configuration key not found")

// ErrNoElements is returned when a selector matches nothing.
var ErrNoElements = errors.New("no elements match selector")

// ErrDriverNotSupported is returned when a driver factory does not know a driver name.
var ErrDriverNotSupported = errors.New("driver not supported")

// ErrDriverClosed is returned by drivers used after Quit.
var ErrDriverClosed = errors.New("driver closed")

// Failure is an error raised inside a run, annotated with the context trail
// that was open when it was raised.
type Failure struct {
	Message string
	Trail   []string
	Cause   error
}

// NewFailure builds a Failure. The trail is copied.
func NewFailure(message string, trail []string, cause error) *Failure {
	return &Failure{
		Message: message,
		Trail:   append([]string(nil), trail...),
		Cause:   cause,
	}
}

func (f *Failure) Error() string {
	if len(f.Trail) == 0 {
		return f.Message
	}
	return fmt.Sprintf("%s (%s)", f.Message, strings.Join(f.Trail, TrailSeparator))
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// PanicError wraps a value recovered from a panic inside a step.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the recovered value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Messages returns the bare failure message of every error, without trails.
func Messages(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		var f *Failure
		if errors.As(err, &f) {
			out = append(out, f.Message)
			continue
		}
		out = append(out, err.Error())
	}
	return out
}
