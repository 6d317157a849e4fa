package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"finsight/config"
	"finsight/controllers"
	"finsight/middleware"
	"finsight/services/alerts"
	"finsight/services/stream"
	"finsight/services/trending"
)

// Dependencies carries the wired services the routes need.
type Dependencies struct {
	Config   *config.Config
	Log      zerolog.Logger
	Quotes   controllers.QuoteSource
	Store    *alerts.Store
	Resolver *trending.Resolver
	Feed     *stream.Feed
}

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, deps *Dependencies) {
	// Initialize controllers
	priceController := controllers.NewPriceController(deps.Quotes)
	alertController := controllers.NewAlertController(deps.Store)
	trendingController := controllers.NewTrendingController(deps.Resolver)
	streamController := controllers.NewStreamController(deps.Feed, deps.Log)

	rateLimiter := middleware.NewRateLimiter(deps.Config.RateLimitRequests, deps.Config.RateLimitWindow)

	// API v1 group
	api := router.Group("/api/v1")
	api.Use(rateLimiter.Middleware())
	{
		api.GET("/price", priceController.GetPrice)
		api.GET("/history", priceController.GetHistory)
		api.GET("/moving-average", priceController.GetMovingAverage)

		alertRoutes := api.Group("/alerts")
		{
			alertRoutes.POST("", alertController.CreateAlert)
			alertRoutes.GET("", alertController.ListAlerts)
		}

		api.GET("/trending", trendingController.GetTrending)
		api.GET("/market-status", trendingController.GetMarketStatus)
	}

	// Streaming feed sits outside the rate-limited group: one upgrade per
	// subscription, then a long-lived connection.
	router.GET("/ws/quotes/:symbol", streamController.StreamQuotes)
}
