package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/amped/internal/aggregate"
	"github.com/claude/amped/internal/ingest"
	"github.com/claude/amped/internal/manual"
	"github.com/claude/amped/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	orch   *aggregate.Orchestrator
	ing    *ingest.Provider
	manual *manual.Store
	cache  *aggregate.Cache
	db     *storage.DB
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(orch *aggregate.Orchestrator, ing *ingest.Provider, manualStore *manual.Store, cache *aggregate.Cache, db *storage.DB, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		orch:   orch,
		ing:    ing,
		manual: manualStore,
		cache:  cache,
		db:     db,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/ingest", s.handleIngest)
		r.Post("/api/v1/questionnaire", s.handleQuestionnaire)
		r.Put("/api/v1/profile", s.handlePutProfile)
	})

	// Read endpoints
	s.router.Get("/api/v1/metrics", s.handleFetchAll)
	s.router.Get("/api/v1/metrics/latest", s.handleFetchLatest)
	s.router.Get("/api/v1/catalog", s.handleCatalog)
	s.router.Get("/api/v1/profile", s.handleGetProfile)
	s.router.Get("/api/v1/imports", s.handleImports)

	s.router.Handle("/metrics", promhttp.Handler())
}
