// Package server exposes the resolve-and-render pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eupsforge/depview/pkg/deps"
	"github.com/eupsforge/depview/pkg/errors"
	"github.com/eupsforge/depview/pkg/integrations/eups"
	"github.com/eupsforge/depview/pkg/render"
)

// DefaultListen is the default listen address for serve mode.
const DefaultListen = ":8080"

// shutdownGrace bounds how long in-flight requests may finish after the
// serve context is cancelled.
const shutdownGrace = 5 * time.Second

// Config holds the server settings.
type Config struct {
	Listen  string        // Listen address (host:port)
	BaseURL string        // Distribution server root URL
	Timeout time.Duration // Per-fetch timeout against the distribution
}

// Server resolves dependency graphs on demand. Each request runs the full
// fetch-index/resolve/render pipeline; nothing is cached between requests.
type Server struct {
	cfg     Config
	logger  *log.Logger
	client  *eups.Client
	handler http.Handler
}

// New creates a Server for the given distribution.
func New(cfg Config, logger *log.Logger) *Server {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		client: eups.NewClient(cfg.BaseURL, cfg.Timeout),
	}
	s.client.SetLogger(logger.Debugf)

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Get("/healthz", s.handleHealth)
	r.Get("/graphs/{name}", s.handleGraph)
	s.handler = r
	return s
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Listen, Handler: s.handler}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s (distribution %s)", s.cfg.Listen, s.client.BaseURL())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestID tags every request with a UUID for log correlation.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		s.logger.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidatePackageName(name); err != nil {
		http.Error(w, errors.UserMessage(err), http.StatusBadRequest)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "dot"
	}
	if format != "dot" && format != "svg" {
		http.Error(w, fmt.Sprintf("unsupported format %q (want dot or svg)", format), http.StatusBadRequest)
		return
	}

	index, err := s.client.FetchIndex(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if !index.Has(name) {
		http.Error(w, fmt.Sprintf("package %q is not in %s", name, s.client.IndexURL()), http.StatusNotFound)
		return
	}

	resolver := deps.NewResolver(index, s.client.BaseURL(), s.client)
	root, err := resolver.Resolve(r.Context(), name, deps.Options{Logger: s.logger.Debugf})
	if err != nil {
		s.fail(w, err)
		return
	}

	dot := render.ToDOT(root, "Dependencies for "+name)
	if format == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		fmt.Fprint(w, dot)
		return
	}

	svg, err := render.SVG(dot)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// fail maps pipeline errors onto HTTP status codes: upstream fetch problems
// are a bad gateway, anything else is internal.
func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("graph request failed", "err", err)
	switch errors.GetCode(err) {
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout, errors.ErrCodeNotFound:
		http.Error(w, errors.UserMessage(err), http.StatusBadGateway)
	default:
		http.Error(w, errors.UserMessage(err), http.StatusInternalServerError)
	}
}
