// Package trending resolves "top N symbols for a region" through an ordered
// chain of data-source strategies with cascading fallback, then enriches the
// winning list with current quotes.
package trending

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Strategy is one concrete data-source lookup in the fallback chain.
// It succeeds iff it returns at least one symbol without error.
type Strategy interface {
	Name() string
	Symbols(ctx context.Context, count int) ([]string, error)
}

// quoteFeedResponse is the shared payload shape of the trending feed and the
// predefined screeners.
type quoteFeedResponse struct {
	Finance struct {
		Result []struct {
			Quotes []struct {
				Symbol string `json:"symbol"`
			} `json:"quotes"`
		} `json:"result"`
	} `json:"finance"`
}

// feedStrategy covers the primary-provider feeds: the per-region trending
// list and the predefined day-gainers / most-actives screeners.
type feedStrategy struct {
	name       string
	urlFor     func(count int) string
	httpClient *http.Client
}

func (s *feedStrategy) Name() string { return s.name }

func (s *feedStrategy) Symbols(ctx context.Context, count int) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.urlFor(count), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var feed quoteFeedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(feed.Finance.Result) == 0 {
		return nil, nil
	}

	symbols := make([]string, 0, len(feed.Finance.Result[0].Quotes))
	for _, q := range feed.Finance.Result[0].Quotes {
		if q.Symbol != "" {
			symbols = append(symbols, q.Symbol)
		}
	}
	return symbols, nil
}

// NewTrendingFeed looks up the primary provider's trending list for a region.
func NewTrendingFeed(baseURL, region string, timeout time.Duration) Strategy {
	return &feedStrategy{
		name: "trending_feed",
		urlFor: func(count int) string {
			return fmt.Sprintf("%s/v1/finance/trending/%s?count=%d",
				baseURL, url.PathEscape(region), count)
		},
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewPredefinedScreener looks up one of the primary provider's saved
// screeners, e.g. "day_gainers" or "most_actives".
func NewPredefinedScreener(baseURL, screenerID string, timeout time.Duration) Strategy {
	return &feedStrategy{
		name: screenerID,
		urlFor: func(count int) string {
			return fmt.Sprintf("%s/v1/finance/screener/predefined/saved?scrnIds=%s&count=%d",
				baseURL, url.QueryEscape(screenerID), count)
		},
		httpClient: &http.Client{Timeout: timeout},
	}
}

// exchangeScreener is the provider-agnostic secondary screener, keyed by an
// exchange code. It backs every region whose primary strategies fail and is
// the only strategy for regions without a trending feed.
type exchangeScreener struct {
	baseURL    string
	apiKey     string
	exchange   string
	httpClient *http.Client
}

// NewExchangeScreener creates the secondary-provider screener for an exchange.
func NewExchangeScreener(baseURL, apiKey, exchange string, timeout time.Duration) Strategy {
	return &exchangeScreener{
		baseURL:    baseURL,
		apiKey:     apiKey,
		exchange:   exchange,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *exchangeScreener) Name() string {
	return "exchange_screener:" + s.exchange
}

func (s *exchangeScreener) Symbols(ctx context.Context, count int) ([]string, error) {
	reqURL := fmt.Sprintf("%s/api/v3/stock-screener?exchange=%s&limit=%d&apikey=%s",
		s.baseURL, url.QueryEscape(s.exchange), count, url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("screener returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var rows []struct {
		Symbol string `json:"symbol"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	symbols := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Symbol != "" {
			symbols = append(symbols, r.Symbol)
		}
	}
	return symbols, nil
}
