package probe

import (
	"context"
	"fmt"

	"github.com/aretw0/probe/pkg/domain"
)

// emit appends a leaf to the current log node and forwards it to the sink.
func emit(s domain.RunState, kind domain.LogKind, message string) domain.RunState {
	s = s.WithLog(s.Log.Entry(kind, message))
	sinkOf(s).Accept(domain.LogRecord{Message: message, Kind: kind, Indent: s.Log.Indent})
	return s
}

func sinkOf(s domain.RunState) domain.LogSink {
	if s.Settings.Sink == nil {
		return domain.DiscardSink
	}
	return s.Settings.Sink
}

func logStep[E any](kind domain.LogKind, message string) Step[E, Unit] {
	return func(_ context.Context, _ E, s domain.RunState) (Unit, domain.RunState) {
		return Unit{}, emit(s, kind, message)
	}
}

// Info logs message at the current indent.
func Info[E any](message string) Step[E, Unit] { return logStep[E](domain.LogInfo, message) }

// Infof is Info with a format string.
func Infof[E any](format string, args ...any) Step[E, Unit] {
	return Info[E](fmt.Sprintf(format, args...))
}

// Warn logs a warning. Warnings do not fault the state.
func Warn[E any](message string) Step[E, Unit] { return logStep[E](domain.LogWarn, message) }

// Error logs an error entry without faulting the state. Use Fail to fault it.
func Error[E any](message string) Step[E, Unit] { return logStep[E](domain.LogError, message) }
