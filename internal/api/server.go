// Package api provides the HTTP server of the photo album: the page routes
// that drive page sessions and the JSON search, index and health routes.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/photoalbum/photoalbum-server/internal/ratelimit"
	"github.com/photoalbum/photoalbum-server/internal/service"
	"github.com/photoalbum/photoalbum-server/internal/sse"
	"github.com/photoalbum/photoalbum-server/internal/validation"
)

// Services groups the business services used by the API server.
type Services struct {
	Pages  *service.PageService
	Search *service.SearchService
	Index  *service.IndexService
}

// IndexStats reports on the search index for health checks.
type IndexStats interface {
	DocumentCount() (uint64, error)
}

// Options holds request limits of the server.
type Options struct {
	// MaxUploadBytes caps the multipart body of a page upload.
	MaxUploadBytes int64
	// SearchLimiter limits GET /search per client IP. Nil disables it.
	SearchLimiter *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services   *Services
	index      IndexStats
	sseManager *sse.Manager
	sseHandler *sse.Handler
	validator  *validation.Validator
	opts       Options
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, index IndexStats, sseManager *sse.Manager, sseHandler *sse.Handler, v *validation.Validator, opts Options, logger *slog.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	s := &Server{
		services:   services,
		index:      index,
		sseManager: sseManager,
		sseHandler: sseHandler,
		validator:  v,
		opts:       opts,
		router:     chi.NewRouter(),
		logger:     logger,
	}

	s.setupMiddleware()

	RegisterErrorHandler()
	s.api = humachi.New(s.router, newHumaConfig())

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Shutdown stops background work owned by the server.
func (s *Server) Shutdown(_ context.Context) {
	if s.opts.SearchLimiter != nil {
		s.opts.SearchLimiter.Stop()
	}
}

func newHumaConfig() huma.Config {
	cfg := huma.DefaultConfig("Photo Album API", "1.0.0")
	cfg.Info.Description = "Photo search by label and storage notification indexing."
	cfg.Transformers = append(cfg.Transformers, EnvelopeTransformer)
	return cfg
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Page.
	s.router.Get("/", s.handleIndexPage)
	s.router.Route("/pages/{id}", func(r chi.Router) {
		r.Get("/events", s.handlePageEvents)
		r.Post("/search", s.handlePageSearch)
		r.Post("/upload", s.handlePageUpload)
		r.Delete("/", s.handleClosePage)
	})
	s.router.With(middleware.Compress(5)).Handle("/static/*", staticHandler())

	// JSON API.
	s.registerHealthRoutes()
	s.registerSearchRoutes()
	s.registerIndexRoutes()
}
