package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seokeys/internal/handlers"
	"seokeys/internal/handlers/api"
	"seokeys/internal/keywords"
	"seokeys/internal/store"
)

// Deps are the collaborators the routes need.
type Deps struct {
	Pipeline     *keywords.Pipeline
	Store        store.Store
	StoreBackend string
	Gatherer     prometheus.Gatherer // nil disables /metrics
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Deps) {
	// Initialize handlers
	keywordHandler := handlers.NewKeywordHandler(deps.Pipeline, s.Cfg)
	apiKeywordHandler := api.NewKeywordHandler(deps.Pipeline)
	healthHandler := api.NewHealthHandler(deps.Store, deps.StoreBackend)
	probeHandler := handlers.NewProbeHandler(deps.Store)

	limit := s.generateLimiter()

	// Frontend routes
	s.App.Get("/", keywordHandler.Index)
	s.App.Post("/generate", limit, keywordHandler.Generate)
	s.App.Get("/export.csv", keywordHandler.ExportCSV)
	s.App.Get("/keywords.txt", keywordHandler.KeywordsText)

	// JSON API
	apiGroup := s.App.Group("/api")
	apiGroup.Post("/keywords", limit, apiKeywordHandler.Generate)
	apiGroup.Get("/keywords", apiKeywordHandler.Lookup)

	// Operations
	s.App.Get("/healthz", healthHandler.Healthz)
	s.App.Get("/livez", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	if deps.Gatherer != nil {
		s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
}
