package api

import (
	"github.com/Conceptual-Machines/storyforge-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/storyforge-api/internal/api/middleware"
	"github.com/Conceptual-Machines/storyforge-api/internal/config"
	"github.com/Conceptual-Machines/storyforge-api/internal/metrics"
	"github.com/Conceptual-Machines/storyforge-api/internal/store"
	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the HTTP layer is built on
type Dependencies struct {
	Pipeline   handlers.StoryPipeline
	Repository store.Repository
	// DB is nil when the in-memory store is in use
	DB         handlers.Pinger
	CloudWatch *metrics.Client
}

func SetupRouter(cfg *config.Config, deps Dependencies, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.CloudWatch))

	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(deps.DB)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, cfg.TextModel, cfg.ImageModel)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	storyHandler := handlers.NewStoryHandler(deps.Pipeline)
	galleryHandler := handlers.NewGalleryHandler(deps.Repository)

	// Public gallery needs no user
	router.GET("/api/publicstories", galleryHandler.ListPublicStories)
	router.GET("/api/publicstory/:storyId", galleryHandler.GetPublicStory)

	// Story routes, authenticated according to AUTH_MODE
	api := router.Group("/api")
	api.Use(apimiddleware.Authenticate(cfg))
	{
		api.POST("/genstory", storyHandler.GenerateStory)
		api.POST("/genimg", storyHandler.IllustrateStory)

		api.GET("/getstory/:userId/:storyId", galleryHandler.GetStory)
		api.GET("/getfullstory/:userId", galleryHandler.ListStories)
		api.POST("/publishstory/:userId/:storyId", galleryHandler.PublishStory)
	}

	return router
}
