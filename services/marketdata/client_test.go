package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL"},
      "timestamp": [1755561600, 1755648000, 1755734400],
      "indicators": {"quote": [{
        "open":   [230.0, null, 232.5],
        "high":   [234.0, null, 236.0],
        "low":    [229.0, null, 231.0],
        "close":  [233.5, null, 235.25],
        "volume": [52000000, null, 48000000]
      }]}
    }],
    "error": null
  }
}`

const unknownSymbolFixture = `{
  "chart": {
    "result": null,
    "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, zerolog.Nop())
}

func TestFetchLatestParsesLastBar(t *testing.T) {
	var gotPath, gotRange string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		fmt.Fprint(w, chartFixture)
	})

	quote, err := client.FetchLatest(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, quote)

	assert.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	assert.Equal(t, "1d", gotRange)

	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "235.25", quote.Price.String())
	assert.Equal(t, "236", quote.DayHigh.String())
	assert.Equal(t, "231", quote.DayLow.String())
	assert.Equal(t, "232.5", quote.PrevClose.String())
	assert.Equal(t, time.Unix(1755734400, 0).UTC(), quote.Timestamp)
}

func TestFetchLatestUnknownSymbolIsEmptyNotError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, unknownSymbolFixture)
	})

	quote, err := client.FetchLatest(context.Background(), "NOSUCH")
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestFetchLatestServerErrorIsSourceUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchLatest(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestFetchLatestGarbageBodyIsSourceUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>maintenance</html>")
	})

	_, err := client.FetchLatest(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestFetchLatestRejectsInvalidSymbolWithoutCalling(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.FetchLatest(context.Background(), "not a symbol!")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
	assert.False(t, called, "invalid symbols never reach the network")
}

func TestFetchRangeSkipsNullBars(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5d", r.URL.Query().Get("range"))
		fmt.Fprint(w, chartFixture)
	})

	quotes, err := client.FetchRange(context.Background(), "AAPL", "5d")
	require.NoError(t, err)
	require.Len(t, quotes, 2, "the null middle bar is dropped")

	assert.Equal(t, "2025-08-19", quotes[0].Date)
	assert.Equal(t, "233.5", quotes[0].Close.String())
	assert.Equal(t, int64(52000000), quotes[0].Volume)

	assert.Equal(t, "2025-08-21", quotes[1].Date)
	assert.Equal(t, "235.25", quotes[1].Close.String())
}

func TestFetchRangeUnknownSymbolIsEmptySlice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, unknownSymbolFixture)
	})

	quotes, err := client.FetchRange(context.Background(), "NOSUCH", "1mo")
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestFetchRangeRejectsBadLookback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("bad lookback must not reach the network")
	})

	_, err := client.FetchRange(context.Background(), "AAPL", "last-week")
	assert.Error(t, err)
}

func TestValidateSymbol(t *testing.T) {
	for _, symbol := range []string{"AAPL", "BRK.B", "^GSPC", "EURUSD=X", "BTC-USD", "7203"} {
		assert.NoError(t, ValidateSymbol(symbol), symbol)
	}
	for _, symbol := range []string{"", "aapl", "WAY.TOO.LONG.SYMBOL", "AA PL", "$SPY"} {
		assert.ErrorIs(t, ValidateSymbol(symbol), ErrInvalidSymbol, symbol)
	}
}
