package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpadapter "github.com/aretw0/probe/pkg/adapters/http"
)

// newServeHandler mounts the run API and the metrics endpoint on one router.
func newServeHandler(env *engineEnv, streams *httpadapter.StreamManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", env.metrics.Handler())
	r.Mount("/", httpadapter.NewHandler(httpadapter.NewEngine(env.engine), streams))
	return r
}

// Serve runs the HTTP API on addr until ctx is done, then shuts down
// gracefully. Scenarios are posted to /runs; progress streams from /events.
func Serve(ctx context.Context, opts RunOptions, addr string) error {
	opts.defaults()
	logger, err := createLogger(opts)
	if err != nil {
		return err
	}

	streams := httpadapter.NewStreamManager()
	opts.extraSink = streams

	env, err := createEngine(opts, logger)
	if err != nil {
		return err
	}
	defer env.Close()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	srv := &http.Server{Handler: newServeHandler(env, streams), ReadHeaderTimeout: 5 * time.Second}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(opts.Stderr, "Starting Probe Server on %s", ln.Addr())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		printSystemMessage(opts.Stderr, "Start shutdown...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		printSystemMessage(opts.Stderr, "Probe Server stopped gracefully")
		return nil
	}
}
