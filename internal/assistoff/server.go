package assistoff

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"assistoff.io/assistoff/pkg/log"
	"assistoff.io/assistoff/pkg/options"
)

// Server exposes metrics and probes over HTTP.
type Server struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewServer wires /metrics, /healthz and /readyz. /readyz answers 503 with the
// error returned by ready.
func NewServer(opts *options.HttpOptions, metrics *Metrics, ready func(context.Context) error) *Server {
	r := mux.NewRouter()

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// Basic Liveness Probe
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if err := ready(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return &Server{
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		shutdownTimeout: opts.ShutdownTimeout,
	}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	log.Info("Starting HTTP Server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
