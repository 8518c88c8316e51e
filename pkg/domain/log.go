package domain

import "slices"

// LogKind classifies a log entry.
type LogKind string

const (
	LogContext LogKind = "context"
	LogInfo    LogKind = "info"
	LogWarn    LogKind = "warn"
	LogError   LogKind = "error"
)

// Log is a node of the structured log tree. Context nodes carry children,
// the other kinds are leaves.
type Log struct {
	Indent   int
	Kind     LogKind
	Message  string
	Children []Log
}

// EmptyLog returns the root of an empty tree.
func EmptyLog() Log {
	return Log{Kind: LogContext}
}

// Add returns a copy of l with children appended.
func (l Log) Add(children ...Log) Log {
	l.Children = append(slices.Clip(l.Children), children...)
	return l
}

// Entry returns a copy of l with a leaf of the given kind appended. The leaf
// shares the indent of l.
func (l Log) Entry(kind LogKind, message string) Log {
	return l.Add(Log{Indent: l.Indent, Kind: kind, Message: message})
}

// Info appends an info leaf.
func (l Log) Info(message string) Log { return l.Entry(LogInfo, message) }

// Warn appends a warning leaf.
func (l Log) Warn(message string) Log { return l.Entry(LogWarn, message) }

// Error appends an error leaf.
func (l Log) Error(message string) Log { return l.Entry(LogError, message) }

// Open returns a fresh context node one level deeper than l. It is not
// attached to l; the caller merges it back once the scope closes.
func (l Log) Open(label string) Log {
	return Log{Indent: l.Indent + 1, Kind: LogContext, Message: label}
}

// Cleared returns l without its children.
func (l Log) Cleared() Log {
	l.Children = nil
	return l
}

// IsEmpty reports whether l has no children.
func (l Log) IsEmpty() bool {
	return len(l.Children) == 0
}

// Walk visits every descendant of l depth-first. depth is 0 for the direct
// children of l.
func (l Log) Walk(fn func(depth int, node Log)) {
	var walk func(n Log, depth int)
	walk = func(n Log, depth int) {
		for _, c := range n.Children {
			fn(depth, c)
			walk(c, depth+1)
		}
	}
	walk(l, 0)
}

// Count returns the number of descendants of l with the given kind.
func (l Log) Count(kind LogKind) int {
	n := 0
	l.Walk(func(_ int, node Log) {
		if node.Kind == kind {
			n++
		}
	})
	return n
}
