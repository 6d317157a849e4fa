package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"finsight/config"
	"finsight/logging"
	"finsight/routes"
	"finsight/scheduler"
	"finsight/services/alerts"
	"finsight/services/marketdata"
	"finsight/services/notify"
	"finsight/services/stream"
	"finsight/services/trending"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	log.Info().Str("environment", cfg.Environment).Msg("FinSight API starting")

	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestLogger(log))

	setupHealthEndpoints(router)

	// Wire services
	quotes := marketdata.NewClient(cfg.QuoteAPIBaseURL, cfg.HTTPTimeout, log)
	store := alerts.NewStore()
	notifier := buildNotifier(cfg, log)
	evaluator := alerts.NewEvaluator(store, quotes, notifier, log)
	resolver := trending.NewDefaultResolver(cfg, quotes, log)
	feed := stream.NewFeed(quotes, cfg.StreamInterval, log)

	routes.SetupRoutes(router, &routes.Dependencies{
		Config:   cfg,
		Log:      log,
		Quotes:   quotes,
		Store:    store,
		Resolver: resolver,
		Feed:     feed,
	})

	// Start background alert evaluation
	jobScheduler := scheduler.NewScheduler(evaluator, cfg.AlertInterval, log)
	jobScheduler.Start()

	// No WriteTimeout: the websocket quote streams are long-lived.
	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	gracefulShutdown(server, jobScheduler, log)
}

// buildNotifier picks the notification sink: a webhook when configured,
// otherwise the process log.
func buildNotifier(cfg *config.Config, log zerolog.Logger) notify.Notifier {
	if cfg.NotifyWebhookURL != "" {
		log.Info().Msg("Using webhook notification sink")
		return notify.NewWebhookNotifier(cfg.NotifyWebhookURL, cfg.NotifyTimeout)
	}
	log.Info().Msg("No webhook configured, notifications go to the log")
	return notify.NewLogNotifier(log)
}

// setupHealthEndpoints sets up liveness endpoints
func setupHealthEndpoints(router *gin.Engine) {
	// Root endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Welcome to FinSight API",
			"version": "1.0.0",
		})
	})

	// Liveness probe - always returns OK if server is running
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}

// corsMiddleware returns a CORS middleware handler
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogger returns a request logging middleware
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip logging for health checks to reduce noise
		path := c.Request.URL.Path
		if path == "/health" || path == "/" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request")
	}
}

// gracefulShutdown handles graceful shutdown of the server
func gracefulShutdown(server *http.Server, jobScheduler *scheduler.Scheduler, log zerolog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	// Stop scheduler first so no cycle starts mid-shutdown
	jobScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server shutdown completed")
}
