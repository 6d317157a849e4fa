package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/models"
	"finsight/services/marketdata"
)

// fakeQuoteSource serves canned quotes and histories keyed by symbol.
type fakeQuoteSource struct {
	quotes    map[string]*models.Quote
	histories map[string][]models.HistoricalQuote
	err       error
}

func (f *fakeQuoteSource) FetchLatest(_ context.Context, symbol string) (*models.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes[symbol], nil
}

func (f *fakeQuoteSource) FetchRange(_ context.Context, symbol, _ string) ([]models.HistoricalQuote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.histories[symbol], nil
}

func priceRouter(source QuoteSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	pc := NewPriceController(source)
	r := gin.New()
	r.GET("/api/v1/price", pc.GetPrice)
	r.GET("/api/v1/history", pc.GetHistory)
	r.GET("/api/v1/moving-average", pc.GetMovingAverage)
	return r
}

func doGET(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetPrice(t *testing.T) {
	p := decimal.NewFromFloat(233.5)
	source := &fakeQuoteSource{quotes: map[string]*models.Quote{
		"AAPL": {Symbol: "AAPL", Price: p, DayHigh: p, DayLow: p, PrevClose: p, Timestamp: time.Now().UTC()},
	}}
	r := priceRouter(source)

	w := doGET(r, "/api/v1/price?symbol=aapl")
	require.Equal(t, http.StatusOK, w.Code, "symbols are normalized before lookup")

	var resp struct {
		Data models.Quote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AAPL", resp.Data.Symbol)
	assert.True(t, resp.Data.Price.Equal(p))
}

func TestGetPriceMissingSymbol(t *testing.T) {
	r := priceRouter(&fakeQuoteSource{})
	w := doGET(r, "/api/v1/price")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPriceUnknownSymbolIs404(t *testing.T) {
	r := priceRouter(&fakeQuoteSource{})
	w := doGET(r, "/api/v1/price?symbol=NOSUCH")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuoteErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{marketdata.ErrInvalidSymbol, http.StatusBadRequest},
		{marketdata.ErrSourceUnavailable, http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		r := priceRouter(&fakeQuoteSource{err: tc.err})
		w := doGET(r, "/api/v1/price?symbol=AAPL")
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
	}
}

func TestGetHistory(t *testing.T) {
	source := &fakeQuoteSource{histories: map[string][]models.HistoricalQuote{
		"AAPL": {
			{Date: "2026-08-25", Close: decimal.NewFromFloat(233.5)},
			{Date: "2026-08-26", Close: decimal.NewFromFloat(234.0)},
		},
	}}
	r := priceRouter(source)

	w := doGET(r, "/api/v1/history?symbol=AAPL&range=5d")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Symbol string                   `json:"symbol"`
		Range  string                   `json:"range"`
		Data   []models.HistoricalQuote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AAPL", resp.Symbol)
	assert.Equal(t, "5d", resp.Range)
	assert.Len(t, resp.Data, 2)
}

func TestGetHistoryEmptyIs404(t *testing.T) {
	r := priceRouter(&fakeQuoteSource{})
	w := doGET(r, "/api/v1/history?symbol=NOSUCH")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMovingAverage(t *testing.T) {
	history := make([]models.HistoricalQuote, 0, 10)
	for i := 0; i < 10; i++ {
		history = append(history, models.HistoricalQuote{
			Date:  fmt.Sprintf("2026-08-%02d", i+1),
			Close: decimal.NewFromInt(int64(100 + i)),
		})
	}
	source := &fakeQuoteSource{histories: map[string][]models.HistoricalQuote{"AAPL": history}}
	r := priceRouter(source)

	// Average of the last 4 closes (106..109) is 107.5.
	w := doGET(r, "/api/v1/moving-average?symbol=AAPL&period=4")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Symbol        string          `json:"symbol"`
		Period        int             `json:"period"`
		MovingAverage decimal.Decimal `json:"moving_average"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Period)
	assert.True(t, resp.MovingAverage.Equal(decimal.NewFromFloat(107.5)), resp.MovingAverage.String())
}

func TestGetMovingAverageRejectsBadPeriod(t *testing.T) {
	r := priceRouter(&fakeQuoteSource{})
	for _, period := range []string{"0", "251", "ten", "-5"} {
		w := doGET(r, "/api/v1/moving-average?symbol=AAPL&period="+period)
		assert.Equal(t, http.StatusBadRequest, w.Code, period)
	}
}
