// Package marketdata fetches point-in-time and historical quotes from the
// upstream chart API. An empty result (unknown symbol, no data for the
// window) is a normal outcome, returned as nil / an empty slice with a nil
// error; only transport-level problems surface as ErrSourceUnavailable.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"finsight/models"
)

// Lookback tokens accepted by the chart API, e.g. "5d", "1mo", "1y".
var rangePattern = regexp.MustCompile(`^(\d{1,3}d|\d{1,2}mo|\d{1,2}y|ytd|max)$`)

// Client is the quote source adapter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a chart API client. baseURL has no trailing slash.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// chartResponse mirrors the v8 chart API payload. Bar arrays use pointers
// because the API emits null for halted periods.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol string `json:"symbol"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartBars `json:"quote"`
	} `json:"indicators"`
}

type chartBars struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// FetchLatest returns the latest single-period quote for a symbol, or
// (nil, nil) when the source has no data for it.
func (c *Client) FetchLatest(ctx context.Context, symbol string) (*models.Quote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	result, err := c.fetchChart(ctx, symbol, "1d")
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	series := barSeries(result)
	if len(series) == 0 {
		return nil, nil
	}
	last := series[len(series)-1]

	return &models.Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(last.close),
		DayHigh:   decimal.NewFromFloat(last.high),
		DayLow:    decimal.NewFromFloat(last.low),
		PrevClose: decimal.NewFromFloat(last.open),
		Timestamp: time.Unix(last.ts, 0).UTC(),
	}, nil
}

// FetchRange returns daily OHLCV periods for a lookback window such as
// "5d" or "1mo", oldest first. An empty slice means no data.
func (c *Client) FetchRange(ctx context.Context, symbol, lookback string) ([]models.HistoricalQuote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if !rangePattern.MatchString(lookback) {
		return nil, fmt.Errorf("%w: bad lookback %q", ErrInvalidSymbol, lookback)
	}

	result, err := c.fetchChart(ctx, symbol, lookback)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return []models.HistoricalQuote{}, nil
	}

	series := barSeries(result)
	quotes := make([]models.HistoricalQuote, 0, len(series))
	for _, b := range series {
		quotes = append(quotes, models.HistoricalQuote{
			Date:   time.Unix(b.ts, 0).UTC().Format("2006-01-02"),
			Open:   decimal.NewFromFloat(b.open),
			High:   decimal.NewFromFloat(b.high),
			Low:    decimal.NewFromFloat(b.low),
			Close:  decimal.NewFromFloat(b.close),
			Volume: b.volume,
		})
	}
	return quotes, nil
}

// fetchChart performs the upstream call. A nil result with nil error is the
// EMPTY outcome: the API reported an unknown symbol or returned no series.
func (c *Client) fetchChart(ctx context.Context, symbol, lookback string) (*chartResult, error) {
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(lookback))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrSourceUnavailable, err)
	}

	var chartResp chartResponse
	parseErr := json.Unmarshal(body, &chartResp)

	// The API answers 404 with a structured chart error for unknown
	// symbols. That is "no data", not an outage.
	if resp.StatusCode == http.StatusNotFound && parseErr == nil && chartResp.Chart.Error != nil {
		c.log.Debug().Str("symbol", symbol).Str("code", chartResp.Chart.Error.Code).
			Msg("chart API reported unknown symbol")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("%w: parsing response: %v", ErrSourceUnavailable, parseErr)
	}
	if chartResp.Chart.Error != nil || len(chartResp.Chart.Result) == 0 {
		return nil, nil
	}
	return &chartResp.Chart.Result[0], nil
}

// bar is one fully populated OHLCV period.
type bar struct {
	ts                     int64
	open, high, low, close float64
	volume                 int64
}

// barSeries flattens a chart result into complete bars, dropping periods
// with null prices.
func barSeries(result *chartResult) []bar {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	q := result.Indicators.Quote[0]

	series := make([]bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(q.Open) || i >= len(q.High) || i >= len(q.Low) || i >= len(q.Close) {
			break
		}
		if q.Open[i] == nil || q.High[i] == nil || q.Low[i] == nil || q.Close[i] == nil {
			continue
		}
		b := bar{
			ts:    ts,
			open:  *q.Open[i],
			high:  *q.High[i],
			low:   *q.Low[i],
			close: *q.Close[i],
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			b.volume = *q.Volume[i]
		}
		series = append(series, b)
	}
	return series
}
