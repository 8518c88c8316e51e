package sink

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/muesli/termenv"

	"github.com/aretw0/probe/pkg/domain"
)

// Console prints records as an indented, colored outline as they arrive.
type Console struct {
	mu  sync.Mutex
	out *termenv.Output
}

// NewConsole creates a console sink on w. The color profile is detected from
// w unless opts override it.
func NewConsole(w io.Writer, opts ...termenv.OutputOption) *Console {
	return &Console{out: termenv.NewOutput(w, opts...)}
}

var markers = map[domain.LogKind]string{
	domain.LogContext: "▸",
	domain.LogInfo:    "·",
	domain.LogWarn:    "!",
	domain.LogError:   "✗",
}

var colors = map[domain.LogKind]string{
	domain.LogContext: "#818cf8",
	domain.LogInfo:    "#a3a3a3",
	domain.LogWarn:    "#facc15",
	domain.LogError:   "#f87171",
}

func (c *Console) Accept(rec domain.LogRecord) {
	depth := rec.Indent
	if rec.Kind == domain.LogContext {
		depth--
	}
	pad := strings.Repeat("  ", max(depth, 0))

	line := c.out.String(markers[rec.Kind] + " " + rec.Message).Foreground(c.out.Color(colors[rec.Kind]))
	if rec.Kind == domain.LogContext || rec.Kind == domain.LogError {
		line = line.Bold()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, pad+line.String())
}
