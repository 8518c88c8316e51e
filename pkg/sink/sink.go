// Package sink provides domain.LogSink implementations: structured loggers,
// a colored console, fan-out and an in-memory recorder.
package sink

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aretw0/probe/pkg/domain"
)

// Slog forwards records to a slog logger. Errors are logged at error level,
// warnings at warn, the rest at info.
type Slog struct {
	logger *slog.Logger
}

// NewSlog creates a sink writing to logger.
func NewSlog(logger *slog.Logger) *Slog {
	return &Slog{logger: logger}
}

func (s *Slog) Accept(rec domain.LogRecord) {
	level := slog.LevelInfo
	switch rec.Kind {
	case domain.LogWarn:
		level = slog.LevelWarn
	case domain.LogError:
		level = slog.LevelError
	}
	s.logger.Log(context.Background(), level, rec.Message, "kind", string(rec.Kind), "indent", rec.Indent)
}

// Zerolog forwards records to a zerolog logger.
type Zerolog struct {
	logger zerolog.Logger
}

// NewZerolog creates a sink writing to logger.
func NewZerolog(logger zerolog.Logger) *Zerolog {
	return &Zerolog{logger: logger}
}

func (z *Zerolog) Accept(rec domain.LogRecord) {
	var ev *zerolog.Event
	switch rec.Kind {
	case domain.LogWarn:
		ev = z.logger.Warn()
	case domain.LogError:
		ev = z.logger.Error()
	default:
		ev = z.logger.Info()
	}
	ev.Str("kind", string(rec.Kind)).Int("indent", rec.Indent).Msg(rec.Message)
}

// Multi forwards every record to each sink in order.
func Multi(sinks ...domain.LogSink) domain.LogSink {
	out := make([]domain.LogSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return domain.LogSinkFunc(func(rec domain.LogRecord) {
		for _, s := range out {
			s.Accept(rec)
		}
	})
}

// Recorder keeps every record in memory. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	records []domain.LogRecord
}

func (r *Recorder) Accept(rec domain.LogRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// Records returns a copy of what was recorded so far.
func (r *Recorder) Records() []domain.LogRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LogRecord(nil), r.records...)
}

// Reset forgets every record.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}
