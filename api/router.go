package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/audio-extract-go/api/handlers"
	"github.com/yourusername/audio-extract-go/api/middleware"
	"github.com/yourusername/audio-extract-go/internal/app"
)

// RouterOptions carries the optional parts of the HTTP surface
type RouterOptions struct {
	// LogsDir enables the /api/v1/logs endpoints when non-empty
	LogsDir     string
	RateLimiter *middleware.RateLimiter
}

// SetupRouter builds the HTTP router around the extraction service
func SetupRouter(service *app.ExtractionService, log *zap.Logger, opts RouterOptions) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS())

	healthHandler := handlers.NewHealthHandler(service)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(opts.RateLimiter))
	{
		extractionHandler := handlers.NewExtractionHandler(service)

		v1.POST("/info", extractionHandler.Info)
		v1.GET("/output-path", extractionHandler.GetOutputPath)
		v1.PUT("/output-path", extractionHandler.SetOutputPath)

		extractions := v1.Group("/extractions")
		{
			extractions.POST("", extractionHandler.Extract)
			extractions.GET("", extractionHandler.ListExtractions)
			extractions.GET("/stats", extractionHandler.GetStats)
			extractions.GET("/:id", extractionHandler.GetExtraction)
			extractions.DELETE("/:id", extractionHandler.DeleteExtraction)
		}

		if opts.LogsDir != "" {
			logHandler := handlers.NewLogHandler(opts.LogsDir)
			logs := v1.Group("/logs")
			{
				logs.GET("/categories", logHandler.GetCategories)
				logs.GET("/:category", logHandler.GetLogs)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "not found"})
	})

	return router
}
