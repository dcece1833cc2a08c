package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/api/handlers"
	"github.com/rebilt/catalogadmin/internal/api/middleware"
	"github.com/rebilt/catalogadmin/internal/config"
	"github.com/rebilt/catalogadmin/internal/service"
)

const maxUploadMemory = 32 << 20

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svc *service.Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	v1.Use(middleware.BearerAuth(logger))
	{
		v1.GET("/partners", handlers.HandleFindPartner(svc, logger))
		v1.GET("/configurations", handlers.HandleListConfigurations(svc, logger))

		partners := v1.Group("/partners/:id")
		{
			partners.GET("", handlers.HandleGetPartner(svc, logger))
			partners.GET("/configurations", handlers.HandleGetConfigurations(svc, logger))
			partners.GET("/products", handlers.HandleListProducts(svc, logger))
			partners.POST("/products", handlers.HandleCreateProduct(svc, logger))
			partners.GET("/product-types", handlers.HandleProductTypes(svc, logger))
			partners.GET("/options/used", handlers.HandleUsedOptions(svc, logger))
			partners.POST("/assets", handlers.HandleUploadAssets(svc, logger))
			partners.GET("/submissions", handlers.HandleListSubmissions(svc, logger))
		}

		v1.GET("/products/:id", handlers.HandleGetProduct(svc, logger))
		v1.POST("/options", handlers.HandleCreateOption(svc, logger))
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
