package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"branchboard-core/internal/application/service"
	"branchboard-core/internal/config"
	"branchboard-core/internal/database"
	infraGitHub "branchboard-core/internal/infrastructure/github"
	"branchboard-core/internal/infrastructure/persistence"
	"branchboard-core/internal/middleware"
	"branchboard-core/internal/presentation/handlers"
	"branchboard-core/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Branchboard Core API
// @version 1.0
// @description Branch merge-status reconciliation backend for the branchboard dashboard

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ProviderToken
// @in header
// @name Authorization
// @description Git provider bearer token, passed through unmodified

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize infrastructure layer
	githubProvider := infraGitHub.NewProvider(&cfg.Provider)

	// Initialize application layer
	reconciliationService := service.NewReconciliationService(githubProvider, cfg.Reconcile.MaxConcurrentBranches)
	statsService := service.NewStatsService(githubProvider)

	// The recents store is optional: without a DSN the dashboard simply has
	// no server-side recent-repositories list.
	var recentHandler *handlers.RecentHandler
	if cfg.RecentsEnabled() {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			logger.Error("Failed to initialize database", zap.Error(err))
			os.Exit(1)
		}
		defer db.Close()

		recentRepository := persistence.NewRecentRepository(db)
		if err := recentRepository.EnsureSchema(context.Background()); err != nil {
			logger.Error("Failed to prepare recents schema", zap.Error(err))
			os.Exit(1)
		}

		recentService := service.NewRecentService(recentRepository)
		recentHandler = handlers.NewRecentHandler(recentService)
	}

	// Initialize presentation layer
	healthHandler := handlers.NewHealthHandler()
	branchHandler := handlers.NewBranchHandler(reconciliationService, cfg.Reconcile.DefaultTargets)
	statsHandler := handlers.NewStatsHandler(statsService, cfg.Reconcile.DefaultTargets)

	authMiddleware := middleware.NewAuthMiddleware(cfg)

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// Add middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders,
		"Authorization", middleware.ServiceTokenHeader)
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.ProviderToken())
	{
		// Health check endpoint (no auth required)
		v1.GET("/health", healthHandler.Health)

		// Repository routes
		repos := v1.Group("/repos/:owner/:repo")
		{
			repos.GET("/branches", branchHandler.Reconcile)
			repos.GET("/branches/stream", branchHandler.StreamReconcile)
			repos.GET("/stats", statsHandler.GetStats)
			repos.GET("/readme", statsHandler.GetReadme)

			// Mutating routes carry the optional service auth guard
			guarded := repos.Group("")
			guarded.Use(authMiddleware.RequireAuth())
			{
				guarded.POST("/branches/delete", branchHandler.BulkDelete)
				guarded.DELETE("/branches/*name", branchHandler.DeleteBranch)
			}
		}

		// Recent repositories routes
		if recentHandler != nil {
			recents := v1.Group("/recents")
			{
				recents.GET("", recentHandler.ListRecent)
				recents.POST("", recentHandler.RecordOpened)
				recents.DELETE("/:id", recentHandler.Forget)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", cfg.GetServerAddress()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Server exited")
}
