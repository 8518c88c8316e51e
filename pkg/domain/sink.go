package domain

// LogRecord is what a sink receives for every log entry and opened context.
type LogRecord struct {
	Message string
	Kind    LogKind
	Indent  int
}

// LogSink consumes log records as they are produced. Sinks are called
// synchronously from the running step and must not block for long.
type LogSink interface {
	Accept(rec LogRecord)
}

// LogSinkFunc adapts a function to LogSink.
type LogSinkFunc func(rec LogRecord)

func (f LogSinkFunc) Accept(rec LogRecord) { f(rec) }

type discardSink struct{}

func (discardSink) Accept(LogRecord) {}

// DiscardSink drops every record.
var DiscardSink LogSink = discardSink{}
