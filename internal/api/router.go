package api

import (
	"github.com/Conceptual-Machines/sightread-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/sightread-api/internal/api/middleware"
	"github.com/Conceptual-Machines/sightread-api/internal/config"
	"github.com/Conceptual-Machines/sightread-api/internal/i18n"
	"github.com/Conceptual-Machines/sightread-api/internal/library"
	"github.com/Conceptual-Machines/sightread-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Dependencies are the long-lived services the router wires into handlers.
type Dependencies struct {
	Store    library.Store
	Manager  *library.Manager
	Recorder *metrics.Recorder
}

func SetupRouter(cfg *config.Config, deps Dependencies, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.Recorder))

	// CORS middleware
	router.Use(apimiddleware.CORS())

	tr := i18n.New(cfg.DefaultLocale)
	limiter := apimiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Health check
	healthHandler := handlers.NewHealthHandler(deps.Store, cfg.StorageBackend)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, cfg.StorageBackend, deps.Recorder)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	if cfg.IsGatewayMode() {
		v1.Use(apimiddleware.GatewayAuth())
	} else {
		v1.Use(apimiddleware.NoAuth())
	}
	{
		scoreHandler := handlers.NewScoreHandler(deps.Manager, deps.Recorder, tr)
		v1.GET("/keys", scoreHandler.Keys)
		v1.GET("/time-signatures", scoreHandler.TimeSignatures)

		v1.GET("/scores/params", scoreHandler.Params)
		v1.POST("/scores/generate", limiter.Middleware(tr), scoreHandler.Generate)
		v1.GET("/scores/current", scoreHandler.Current)
		v1.GET("/scores/current/layout", scoreHandler.Layout)
		v1.GET("/scores/current/playback", scoreHandler.Playback)

		libraryHandler := handlers.NewLibraryHandler(deps.Manager, deps.Recorder, tr)
		v1.GET("/library", libraryHandler.List)
		v1.POST("/library", libraryHandler.Save)
		v1.GET("/library/:id", libraryHandler.Get)
		v1.POST("/library/:id/apply", libraryHandler.Apply)
		v1.DELETE("/library/:id", libraryHandler.Delete)

		transferHandler := handlers.NewTransferHandler(deps.Manager, deps.Recorder, tr)
		v1.GET("/scores/current/export", transferHandler.Export)
		v1.GET("/library/:id/export", transferHandler.Export)
		v1.POST("/library/import", limiter.Middleware(tr), transferHandler.Import)
	}

	return router
}
