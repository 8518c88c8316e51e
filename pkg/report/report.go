// Package report renders the outcome of a run for people and machines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/probe/internal/presentation/graph"
	"github.com/aretw0/probe/pkg/domain"
)

// Format selects a renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatMermaid  Format = "mermaid"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatMermaid}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q", name)
}

// Summary is the renderable outcome of one run.
type Summary struct {
	Name     string
	RunID    string
	Duration time.Duration
	Log      domain.Log
	Errors   []error
}

// FromState builds a summary from the final state of a run.
func FromState(name, runID string, duration time.Duration, s domain.RunState) Summary {
	return Summary{
		Name:     name,
		RunID:    runID,
		Duration: duration,
		Log:      s.Log,
		Errors:   s.Errors,
	}
}

// Passed reports whether the run recorded no failures.
func (s Summary) Passed() bool {
	return len(s.Errors) == 0
}

// Render writes s to w in the given format.
func Render(w io.Writer, format Format, s Summary) error {
	switch format {
	case FormatText:
		return Text(w, s)
	case FormatMarkdown:
		return Markdown(w, s)
	case FormatJSON:
		return JSON(w, s)
	case FormatMermaid:
		_, err := io.WriteString(w, graph.GenerateMermaid(s.Name, s.Log))
		return err
	}
	return fmt.Errorf("unknown report format %q", format)
}

var textMarkers = map[domain.LogKind]string{
	domain.LogContext: "▸",
	domain.LogInfo:    "·",
	domain.LogWarn:    "!",
	domain.LogError:   "✗",
}

// Text renders a plain outline of the log followed by the failures.
func Text(w io.Writer, s Summary) error {
	var sb strings.Builder

	status := "PASS"
	if !s.Passed() {
		status = "FAIL"
	}
	sb.WriteString(fmt.Sprintf("%s %s [%s] %s\n", status, s.Name, s.RunID, s.Duration))

	if !s.Log.IsEmpty() {
		sb.WriteString("\n")
		s.Log.Walk(func(depth int, node domain.Log) {
			sb.WriteString(fmt.Sprintf("%s%s %s\n", strings.Repeat("  ", depth), textMarkers[node.Kind], node.Message))
		})
	}

	if !s.Passed() {
		sb.WriteString(fmt.Sprintf("\n%d failure(s):\n", len(s.Errors)))
		for i, err := range s.Errors {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

var markdownMarkers = map[domain.LogKind]string{
	domain.LogWarn:  "⚠️ ",
	domain.LogError: "❌ ",
}

// Markdown renders a document suitable for a terminal renderer or a CI
// summary page.
func Markdown(w io.Writer, s Summary) error {
	var sb strings.Builder

	icon := "✅"
	if !s.Passed() {
		icon = "❌"
	}
	sb.WriteString(fmt.Sprintf("# %s %s\n\n", icon, s.Name))
	sb.WriteString("| Run | Duration | Failures |\n")
	sb.WriteString("| --- | --- | --- |\n")
	sb.WriteString(fmt.Sprintf("| %s | %s | %d |\n", s.RunID, s.Duration, len(s.Errors)))

	if !s.Log.IsEmpty() {
		sb.WriteString("\n## Log\n\n")
		s.Log.Walk(func(depth int, node domain.Log) {
			text := node.Message
			if node.Kind == domain.LogContext {
				text = "**" + text + "**"
			}
			sb.WriteString(fmt.Sprintf("%s- %s%s\n", strings.Repeat("  ", depth), markdownMarkers[node.Kind], text))
		})
	}

	if !s.Passed() {
		sb.WriteString("\n## Failures\n\n")
		for i, err := range s.Errors {
			message, trail := split(err)
			if trail == "" {
				sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, message))
				continue
			}
			sb.WriteString(fmt.Sprintf("%d. %s `%s`\n", i+1, message, trail))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

type jsonEntry struct {
	Kind     domain.LogKind `json:"kind"`
	Message  string         `json:"message"`
	Children []jsonEntry    `json:"children,omitempty"`
}

type jsonFailure struct {
	Message string   `json:"message"`
	Trail   []string `json:"trail,omitempty"`
}

type jsonReport struct {
	Name       string        `json:"name"`
	RunID      string        `json:"run_id"`
	Passed     bool          `json:"passed"`
	DurationMS int64         `json:"duration_ms"`
	Log        []jsonEntry   `json:"log"`
	Failures   []jsonFailure `json:"failures"`
}

// JSON renders the summary as an indented JSON document.
func JSON(w io.Writer, s Summary) error {
	out := jsonReport{
		Name:       s.Name,
		RunID:      s.RunID,
		Passed:     s.Passed(),
		DurationMS: s.Duration.Milliseconds(),
		Log:        entries(s.Log),
		Failures:   make([]jsonFailure, 0, len(s.Errors)),
	}
	for _, err := range s.Errors {
		var f *domain.Failure
		if errors.As(err, &f) {
			out.Failures = append(out.Failures, jsonFailure{Message: f.Message, Trail: f.Trail})
			continue
		}
		out.Failures = append(out.Failures, jsonFailure{Message: err.Error()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func entries(l domain.Log) []jsonEntry {
	out := make([]jsonEntry, 0, len(l.Children))
	for _, c := range l.Children {
		out = append(out, jsonEntry{Kind: c.Kind, Message: c.Message, Children: entries(c)})
	}
	return out
}

// split separates a failure's message from its trail.
func split(err error) (message, trail string) {
	var f *domain.Failure
	if errors.As(err, &f) {
		return f.Message, strings.Join(f.Trail, domain.TrailSeparator)
	}
	return err.Error(), ""
}
