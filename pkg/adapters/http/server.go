// Package http exposes scenario validation and runs over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/probe"
	"github.com/aretw0/probe/pkg/domain"
	"github.com/aretw0/probe/pkg/report"
	"github.com/aretw0/probe/pkg/scenario"
)

// MaxScenarioBytes bounds the size of a posted scenario.
const MaxScenarioBytes = 1 << 20

// Engine runs parsed scenarios.
type Engine interface {
	Run(ctx context.Context, sc *scenario.Scenario) (report.Summary, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, sc *scenario.Scenario) (report.Summary, error)

func (f EngineFunc) Run(ctx context.Context, sc *scenario.Scenario) (report.Summary, error) {
	return f(ctx, sc)
}

// NewEngine runs scenarios on a probe engine.
func NewEngine(e *probe.Engine) Engine {
	return EngineFunc(func(ctx context.Context, sc *scenario.Scenario) (report.Summary, error) {
		res, err := probe.Run(ctx, e, sc.Action())
		if err != nil {
			return report.Summary{}, err
		}
		return report.FromState(sc.Name, res.RunID, res.Duration, res.State), nil
	})
}

// Server serves the API.
type Server struct {
	Engine  Engine
	Streams *StreamManager
}

// NewHandler creates a new HTTP handler for the engine. Records accepted by
// streams are pushed to /events subscribers; streams may be nil.
func NewHandler(engine Engine, streams *StreamManager) http.Handler {
	if streams == nil {
		streams = NewStreamManager()
	}
	s := &Server{Engine: engine, Streams: streams}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/validate", s.Validate)
	r.Post("/runs", s.CreateRun)
	r.Get("/events", s.SubscribeEvents)
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "probe-http",
		"version": probe.Version,
	})
}

// Validate handles POST /validate with a YAML scenario as the body.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.readScenario(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    sc.Name,
		"steps":   sc.StepCount(),
		"drivers": sc.Drivers,
	})
}

// CreateRun handles POST /runs: it runs the posted scenario and answers with
// its report once finished. ?format= selects the report format, JSON by
// default. A failing scenario is still a 200; the report tells.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	format := report.FormatJSON
	if name := r.URL.Query().Get("format"); name != "" {
		f, err := report.ParseFormat(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		format = f
	}

	sc, ok := s.readScenario(w, r)
	if !ok {
		return
	}

	summary, err := s.Engine.Run(r.Context(), sc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("run error: %w", err))
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if err := report.Render(w, format, summary); err != nil {
		slog.Error("CreateRun: failed to write report", "error", err)
	}
}

var contentTypes = map[report.Format]string{
	report.FormatJSON:     "application/json",
	report.FormatText:     "text/plain; charset=utf-8",
	report.FormatMarkdown: "text/markdown; charset=utf-8",
	report.FormatMermaid:  "text/plain; charset=utf-8",
}

func (s *Server) readScenario(w http.ResponseWriter, r *http.Request) (*scenario.Scenario, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxScenarioBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return nil, false
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return nil, false
	}

	sc, err := scenario.Parse(body)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return nil, false
	}
	return sc, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// StreamManager fans log records out to SSE subscribers. It is a
// domain.LogSink.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
	}
}

// Subscribe registers a subscriber. The returned function unregisters it and
// closes the channel.
func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 64)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Broadcast sends msg to every subscriber, dropping it for those whose
// buffer is full.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			slog.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

// Accept broadcasts rec as JSON.
func (sm *StreamManager) Accept(rec domain.LogRecord) {
	data, err := json.Marshal(map[string]any{
		"kind":    rec.Kind,
		"message": rec.Message,
		"indent":  rec.Indent,
	})
	if err != nil {
		return
	}
	sm.Broadcast(string(data))
}

// SubscribeEvents handles GET /events, streaming log records as server-sent
// events until the client goes away.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
