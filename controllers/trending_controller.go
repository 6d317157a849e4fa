package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"finsight/config"
	"finsight/services/trending"
)

// TrendingController handles trending ticker and market status requests.
type TrendingController struct {
	resolver *trending.Resolver
}

// NewTrendingController creates a new trending controller.
func NewTrendingController(resolver *trending.Resolver) *TrendingController {
	return &TrendingController{resolver: resolver}
}

// GetTrending returns the top trending tickers for a region, enriched with
// current quotes where available.
// GET /api/v1/trending?region=US&count=10
func (tc *TrendingController) GetTrending(c *gin.Context) {
	region := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("region", "US")))

	count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
	if err != nil || count < 1 || count > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Count must be between 1 and 50"})
		return
	}

	symbols, err := tc.resolver.Resolve(c.Request.Context(), region, count)
	if err != nil {
		if errors.Is(err, trending.ErrNoResults) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No trending symbols found for region"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve trending symbols"})
		return
	}

	tickers := tc.resolver.Enrich(c.Request.Context(), symbols)

	c.JSON(http.StatusOK, gin.H{
		"region": region,
		"count":  len(tickers),
		"data":   tickers,
	})
}

// GetMarketStatus reports whether a region's market is inside its regular
// trading session.
// GET /api/v1/market-status?region=US
func (tc *TrendingController) GetMarketStatus(c *gin.Context) {
	region := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("region", "US")))

	hours, ok := config.HoursFor(region)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown region"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"region":   region,
		"timezone": hours.Timezone,
		"open":     hours.Open,
		"close":    hours.Close,
		"is_open":  config.IsMarketOpen(region, time.Now()),
	})
}
