package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finsight/models"
	"finsight/services/marketdata"
)

// QuoteSource is the market data surface the price endpoints consume.
type QuoteSource interface {
	FetchLatest(ctx context.Context, symbol string) (*models.Quote, error)
	FetchRange(ctx context.Context, symbol, lookback string) ([]models.HistoricalQuote, error)
}

// PriceController handles quote and history requests.
type PriceController struct {
	quotes QuoteSource
}

// NewPriceController creates a new price controller.
func NewPriceController(quotes QuoteSource) *PriceController {
	return &PriceController{quotes: quotes}
}

// GetPrice returns the current price snapshot for a symbol.
// GET /api/v1/price?symbol=AAPL
func (pc *PriceController) GetPrice(c *gin.Context) {
	symbol := normalizeSymbol(c.Query("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'symbol' is required"})
		return
	}

	quote, err := pc.quotes.FetchLatest(c.Request.Context(), symbol)
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	if quote == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Symbol not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

// GetHistory returns daily OHLCV data for a lookback window.
// GET /api/v1/history?symbol=AAPL&range=1mo
func (pc *PriceController) GetHistory(c *gin.Context) {
	symbol := normalizeSymbol(c.Query("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'symbol' is required"})
		return
	}
	lookback := c.DefaultQuery("range", "1mo")

	history, err := pc.quotes.FetchRange(c.Request.Context(), symbol, lookback)
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	if len(history) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No historical data for symbol"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol": symbol,
		"range":  lookback,
		"data":   history,
	})
}

// GetMovingAverage returns the simple moving average of the closing price.
// The fetch window is padded by ten days so weekends and holidays still
// leave enough closes.
// GET /api/v1/moving-average?symbol=AAPL&period=50
func (pc *PriceController) GetMovingAverage(c *gin.Context) {
	symbol := normalizeSymbol(c.Query("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'symbol' is required"})
		return
	}

	period, err := strconv.Atoi(c.DefaultQuery("period", "50"))
	if err != nil || period < 1 || period > 250 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Period must be between 1 and 250"})
		return
	}

	history, err := pc.quotes.FetchRange(c.Request.Context(), symbol, fmt.Sprintf("%dd", period+10))
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	if len(history) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No historical data for symbol"})
		return
	}

	if len(history) > period {
		history = history[len(history)-period:]
	}
	closes := make([]decimal.Decimal, 0, len(history))
	for _, h := range history {
		closes = append(closes, h.Close)
	}
	average := decimal.Avg(closes[0], closes[1:]...).Round(2)

	c.JSON(http.StatusOK, gin.H{
		"symbol":         symbol,
		"period":         period,
		"moving_average": average,
	})
}

// normalizeSymbol trims and uppercases a raw symbol. Normalization happens
// here, before anything reaches the store or the adapter.
func normalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// respondQuoteError maps adapter failures onto HTTP statuses: bad input is
// the caller's fault, an unreachable source is a gateway problem.
func respondQuoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, marketdata.ErrInvalidSymbol):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid symbol"})
	case errors.Is(err, marketdata.ErrSourceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Market data source unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quote data"})
	}
}
