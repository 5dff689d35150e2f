// Package server exposes the memo desk over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/memodesk/internal/platform"
	"github.com/aretw0/memodesk/internal/pill"
	"github.com/aretw0/memodesk/internal/schemaform"
	"github.com/aretw0/memodesk/internal/view"
)

// ShutdownTimeout bounds graceful shutdown in Run.
const ShutdownTimeout = 5 * time.Second

// Server routes HTTP requests to the memo services.
type Server struct {
	app      *platform.App
	catalog  *pill.Catalog
	schema   schemaform.Schema
	pageSize int
	location *time.Location
	profiles *view.ProfileCache
	logger   *slog.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog replaces the default pill catalog.
func WithCatalog(c *pill.Catalog) Option {
	return func(s *Server) { s.catalog = c }
}

// WithSchema replaces the default create form.
func WithSchema(sc schemaform.Schema) Option {
	return func(s *Server) { s.schema = sc }
}

// WithPageSize sets the dashboard page size.
func WithPageSize(n int) Option {
	return func(s *Server) { s.pageSize = n }
}

// WithLocation anchors date filters to loc.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) { s.location = loc }
}

// WithLogger sets the request logger. Defaults to the app logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New builds a server over app.
func New(app *platform.App, opts ...Option) *Server {
	s := &Server{
		app:     app,
		catalog: pill.DefaultCatalog(),
		schema:  schemaform.DefaultCreateSchema(),
		logger:  app.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.profiles = view.NewProfileCache(app.Data, s.logger)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(identify)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/pages", s.listPages)
		r.Get("/pages/{page}/pills", s.listPills)
		r.Get("/pages/{page}/memos", s.listMemos)

		r.Post("/memos", s.createMemo)
		r.Get("/memos/{id}", s.getMemo)
		r.Patch("/memos/{id}", s.updateMemo)
		r.Post("/memos/{id}/reviews", s.appendReview)

		r.Post("/files", s.uploadFile)
		r.Get("/files/{ref}", s.downloadFile)

		r.Get("/dashboard", s.dashboard)
		r.Get("/form", s.form)
		r.Get("/events", s.events)

		r.Get("/debug/state", s.debugState)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	done := make(chan error, 1)
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			done <- nil
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		close(stopped)
		<-done
		return err
	}
	return <-done
}
