// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server serves the search API backed by the local catalog and the
// result pages rendered from any search backend.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pdiddy/research-view/internal/cache"
	"github.com/pdiddy/research-view/internal/catalog"
	"github.com/pdiddy/research-view/internal/observability"
	"github.com/pdiddy/research-view/internal/search"
	"github.com/pdiddy/research-view/internal/view"
	"github.com/pdiddy/research-view/pkg/types"
)

// Deps are the collaborators a Server needs. Store may be nil when pages
// are served from a remote backend only; the /api routes then answer 503.
// Cache and Metrics default to a noop cache and a fresh registry.
type Deps struct {
	Store   *catalog.Store
	Backend search.Backend
	Cache   cache.Cache
	Metrics *observability.Metrics
	Logger  zerolog.Logger
}

// Server is the HTTP server.
type Server struct {
	cfg            types.ServerConfig
	router         chi.Router
	httpServer     *http.Server
	store          *catalog.Store
	backend        search.Backend
	metrics        *observability.Metrics
	labels         view.Labels
	defaultSources []string
	logger         zerolog.Logger
}

// New creates a server. deps.Backend answers page searches; when nil and
// a store is given, the catalog answers in process.
func New(cfg *types.Config, deps Deps) (*Server, error) {
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetrics("research_view")
	}
	if deps.Cache == nil {
		var err error
		if deps.Cache, err = cache.NewCache(context.Background(), types.CacheConfig{Type: "none"}); err != nil {
			return nil, err
		}
	}
	if deps.Backend == nil {
		if deps.Store == nil {
			return nil, errors.New("server needs a search backend or a catalog store")
		}
		deps.Backend = &search.CatalogBackend{Store: deps.Store}
	}

	s := &Server{
		cfg:            cfg.Server,
		store:          deps.Store,
		metrics:        deps.Metrics,
		labels:         view.LabelsFor(cfg.View.Language),
		defaultSources: cfg.View.DefaultSources,
		logger:         deps.Logger.With().Str("component", "http-server").Logger(),
	}
	s.backend = &cachedBackend{
		Backend: deps.Backend,
		cache:   deps.Cache,
		metrics: deps.Metrics,
		logger:  s.logger,
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.healthHandler)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/static/app.js", staticHandler("application/javascript; charset=utf-8", scriptAsset))
	r.Get("/static/app.css", staticHandler("text/css; charset=utf-8", stylesheetAsset))

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Get("/", s.pageHandler)
		r.Get("/search", s.pageHandler)

		r.Route("/api", func(r chi.Router) {
			r.Get("/search", s.apiSearch)
			r.Get("/{source}", s.apiSource)
		})
	})

	return r
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	s.logger.Info().Str("address", ln.Addr().String()).Msg("HTTP server starting")
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then shuts down within the
// configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info().Msg("HTTP server shutting down")
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "backend": s.backend.Name()}
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"catalog": "unreachable",
				"error":   err.Error(),
			})
			return
		}
		status["catalog"] = "ok"
	}
	writeJSON(w, http.StatusOK, status)
}
