package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/api"
	"github.com/rebilt/catalogadmin/internal/catalog"
	"github.com/rebilt/catalogadmin/internal/cloudinary"
	"github.com/rebilt/catalogadmin/internal/config"
	"github.com/rebilt/catalogadmin/internal/repository"
	"github.com/rebilt/catalogadmin/internal/repository/mongodb"
	"github.com/rebilt/catalogadmin/internal/repository/postgres"
	"github.com/rebilt/catalogadmin/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting catalog admin server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("catalog_api", cfg.Catalog.BaseURL),
	)

	// Submission audit is optional
	repos := repository.NewNopRepositories()
	if cfg.Audit.Enabled {
		switch cfg.Audit.Driver {
		case "mongo":
			client, db, err := mongodb.Connect(context.Background(), cfg.Mongo)
			if err != nil {
				logger.Fatal("Failed to connect to mongo", zap.Error(err))
			}
			defer client.Disconnect(context.Background())

			repos, err = mongodb.NewRepositories(context.Background(), db, logger)
			if err != nil {
				logger.Fatal("Failed to prepare mongo collections", zap.Error(err))
			}
		default:
			db, err := postgres.NewConnection(cfg.Database)
			if err != nil {
				logger.Fatal("Failed to connect to database", zap.Error(err))
			}
			defer db.Close()

			if err := postgres.EnsureSchema(context.Background(), db); err != nil {
				logger.Fatal("Failed to prepare database schema", zap.Error(err))
			}
			repos = postgres.NewRepositories(db, logger)
		}
		logger.Info("Submission audit enabled", zap.String("driver", cfg.Audit.Driver))
	}

	catalogClient := catalog.NewClient(cfg.Catalog, logger)
	mediaClient := cloudinary.NewClient(cfg.Cloudinary, logger)
	svc := service.NewServices(cfg, catalogClient, mediaClient, repos, logger)

	// Initialize router
	router := api.NewRouter(cfg, svc, logger)

	// Create HTTP server; uploads of 3D models take longer than plain API calls
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 2 * cfg.Cloudinary.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}
