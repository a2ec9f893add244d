// Package api serves the book club over HTTP: server-rendered pages for
// browsers and a versioned JSON API under /api/v1.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookclub/bookclub-server/internal/config"
	"github.com/bookclub/bookclub-server/internal/http/response"
	"github.com/bookclub/bookclub-server/internal/ratelimit"
	"github.com/bookclub/bookclub-server/internal/store"
	"github.com/bookclub/bookclub-server/internal/validation"
)

// APIVersion is reported in the OpenAPI document.
const APIVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	cfg             *config.Config
	services        *Services
	visitors        *Visitors
	persistent      store.KV
	sessions        *store.Memory
	router          *chi.Mux
	api             huma.API
	pages           *pages
	validator       *validation.Validator
	authRateLimiter *ratelimit.KeyedRateLimiter
	logger          *slog.Logger
}

// NewServer creates the HTTP handler with all routes configured.
func NewServer(cfg *config.Config, services *Services, visitors *Visitors, persistent store.KV, sessions *store.Memory, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		cfg:             cfg,
		services:        services,
		visitors:        visitors,
		persistent:      persistent,
		sessions:        sessions,
		router:          router,
		pages:           mustParsePages(cfg.Server.Name),
		validator:       validation.New(),
		authRateLimiter: ratelimit.PerInterval(cfg.Auth.RateLimit, rateLimitInterval),
		logger:          logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig(cfg.Server.Name+" API", APIVersion)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(s.rateLimitAuth)
	s.router.Use(s.visitors.Middleware)
}

func (s *Server) setupRoutes() {
	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleMethodNotAllowed)

	s.router.Handle("/metrics", promhttp.Handler())

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerBookRoutes()
	s.registerSearchRoutes()
	s.registerPageRoutes()
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if isAPIPath(r.URL.Path) {
		response.NotFound(w, "Not found", s.logger)
		return
	}
	s.renderStatus(w, r, http.StatusNotFound, "notfound.html", pageData{Title: "Not found"})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if isAPIPath(r.URL.Path) {
		response.MethodNotAllowed(w, s.logger)
		return
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}
