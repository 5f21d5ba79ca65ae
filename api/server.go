// Package api is the thin HTTP layer over the proposal engine.
// Handlers decode requests, call the engine and serialize the rounded view.
// They never perform calculation logic.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solar-proposal/core/consumption"
	"solar-proposal/core/engine"
	"solar-proposal/core/output"
	"solar-proposal/internal/config"
)

// Server is the API server
type Server struct {
	engine      *engine.Engine
	consumption *consumption.Estimator
	formatters  *output.Registry
	router      *gin.Engine
	logger      *zap.Logger
	version     string
}

// NewServer creates the router and registers every route
func NewServer(eng *engine.Engine, cfg config.ServerConfig, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{
		engine:      eng,
		consumption: consumption.NewEstimator(),
		formatters:  output.NewRegistry(output.Options{ShowMonthly: true}),
		router:      gin.New(),
		logger:      logger,
		version:     version,
	}

	s.router.Use(requestID(), requestLogger(logger), gin.Recovery())
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/regions", s.handleListRegions)
		v1.GET("/regions/:id", s.handleGetRegion)
		v1.GET("/catalog/:tier", s.handleCatalog)
		v1.GET("/utilities/:name/region", s.handleUtilityRegion)

		v1.POST("/proposals", s.handleCreateProposal)
		v1.POST("/consumption/estimate", s.handleEstimateConsumption)
	}
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() http.Handler {
	return s.router
}
