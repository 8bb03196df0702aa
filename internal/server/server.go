// Package server exposes saved views, source lists and view
// materialization over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vegasq/listview/view"
)

// Lists is the collaborator rows and column metadata are fetched from
type Lists interface {
	Fetch(ctx context.Context, sources []view.Source) (view.Snapshot, error)
	Columns(siteID, listID string) ([]view.ColumnMetadata, error)
	Sources() []view.Source
}

// Views persists view definitions
type Views interface {
	List() ([]view.ViewDefinition, error)
	Get(id string) (view.ViewDefinition, error)
	Save(def view.ViewDefinition) (view.ViewDefinition, error)
	Delete(id string) error
}

// Options configures a Server
type Options struct {
	Lists  Lists
	Views  Views
	Logger *slog.Logger

	// Registry receives the server metrics and backs /metrics.
	// A fresh registry is used when nil.
	Registry *prometheus.Registry

	// FetchTimeout bounds fetching the lists of one view; zero means no bound
	FetchTimeout time.Duration
}

// Server is the HTTP API
type Server struct {
	lists        Lists
	views        Views
	logger       *slog.Logger
	registry     *prometheus.Registry
	metrics      *metrics
	fetchTimeout time.Duration
}

// New creates a Server and registers its metrics
func New(opts Options) (*Server, error) {
	if opts.Lists == nil || opts.Views == nil {
		return nil, errors.New("server: lists and views are required")
	}

	s := &Server{
		lists:        opts.Lists,
		views:        opts.Views,
		logger:       opts.Logger,
		registry:     opts.Registry,
		metrics:      newMetrics(),
		fetchTimeout: opts.FetchTimeout,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if err := s.metrics.register(s.registry); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/views", s.listViews)
		r.Post("/views", s.createView)
		r.Get("/views/{id}", s.getView)
		r.Put("/views/{id}", s.updateView)
		r.Delete("/views/{id}", s.deleteView)
		r.Post("/views/{id}/materialize", s.materializeSaved)
		r.Post("/materialize", s.materializePreview)

		r.Get("/lists", s.listLists)
		r.Get("/lists/{siteId}/{listId}/columns", s.listColumns)
	})

	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs every request once it completes
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}
