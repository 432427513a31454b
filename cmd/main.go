// Package main is the entry point for the Terminus Railway Dashboard server.
// It initializes the Railway client, the audit database, and the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"terminus/core/repository"
	"terminus/core/service"
	"terminus/database"
	"terminus/handler"
	"terminus/render"
	"terminus/utils/config"
	"terminus/utils/railway"
)

// requestLogRetentionDays bounds the local audit log.
const requestLogRetentionDays = 30

func main() {
	log.Println("Starting Terminus Railway Dashboard...")

	// A local .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize audit database
	if err := database.Initialize(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	requestLogRepo := repository.NewRequestLogRepository(database.GetDB())
	if deleted, err := requestLogRepo.DeleteOlderThan(requestLogRetentionDays); err != nil {
		log.Printf("Failed to prune request logs: %v", err)
	} else if deleted > 0 {
		log.Printf("Pruned %d request log entries older than %d days", deleted, requestLogRetentionDays)
	}

	// Initialize Railway client
	railwayClient, err := railway.NewClient(cfg.Railway.Endpoint, cfg.Railway.Token)
	if err != nil {
		log.Fatalf("Failed to initialize Railway client: %v", err)
	}
	log.Println("Railway client initialized successfully")

	// Create service instances
	extractor := service.NewActionExtractor(service.ExtractorConfig{
		Algorithm: cfg.Logs.Algorithm,
		Pattern:   cfg.Logs.ActionRegex,
		MaxLength: cfg.Logs.ActionMaxLength,
	})
	dashboardService := service.NewDashboardService(railwayClient, extractor, cfg.Logs.Filter, cfg.Logs.Limit)
	renderer := render.NewRenderer(cfg.Display.Location)

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
		log.Println("Running in RELEASE mode")
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	}

	// Create Gin engine
	engine := gin.New()
	engine.Use(gin.Recovery())
	if cfg.Server.Mode != "release" {
		engine.Use(gin.Logger())
	}
	engine.Use(handler.Metrics())

	// Add CORS middleware
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", handler.HeaderProjectID, handler.HeaderServiceID, handler.HeaderEnvironmentID, handler.HeaderLogsEnvironmentID},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Liveness and metrics endpoints (no auth)
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now(),
		})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected dashboard routes
	dashboardHandler := handler.NewDashboardHandler(dashboardService, renderer, requestLogRepo, cfg.Logs.EnvironmentID)
	debugHandler := handler.NewDebugHandler(dashboardService, requestLogRepo, cfg.Logs.EnvironmentID)
	streamHandler := handler.NewStreamHandler(dashboardService, cfg.Logs.EnvironmentID, cfg.Display.RefreshInterval)

	protected := engine.Group("/", handler.RequireToken(cfg.Auth.Secret))
	{
		protected.GET("", dashboardHandler.GetDashboard)
		protected.GET("api/data", dashboardHandler.GetData)
		protected.GET("debug", debugHandler.Debug)
		protected.GET("debug/advanced", debugHandler.DebugAdvanced)
		protected.GET("ws", streamHandler.StreamSnapshots)
	}

	// Create HTTP server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Terminus server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
