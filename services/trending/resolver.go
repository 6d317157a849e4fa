package trending

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"finsight/config"
	"finsight/models"
)

// ErrNoResults means every tier was exhausted without a single symbol.
var ErrNoResults = errors.New("no trending symbols found")

// defaultEnrichLimit bounds concurrent enrichment fetches so a long trending
// list does not hammer the quote source.
const defaultEnrichLimit = 4

// QuoteFetcher is the slice of the market data client used for enrichment.
type QuoteFetcher interface {
	FetchLatest(ctx context.Context, symbol string) (*models.Quote, error)
}

// Resolver tries an ordered list of strategies per region and falls back to
// the secondary exchange screener when all of them fail. Each resolution
// call is independent; the resolver holds no mutable state.
type Resolver struct {
	regional    map[string][]Strategy
	fallbackFor func(exchange string) Strategy
	quotes      QuoteFetcher
	enrichLimit int
	log         zerolog.Logger
}

// NewResolver wires a resolver from explicit strategy tables. fallbackFor
// builds the secondary screener for an exchange code.
func NewResolver(regional map[string][]Strategy, fallbackFor func(exchange string) Strategy,
	quotes QuoteFetcher, log zerolog.Logger) *Resolver {
	return &Resolver{
		regional:    regional,
		fallbackFor: fallbackFor,
		quotes:      quotes,
		enrichLimit: defaultEnrichLimit,
		log:         log,
	}
}

// NewDefaultResolver builds the production strategy tables: the US gets the
// trending feed, then day gainers, then most actives; every other region
// resolves through the secondary screener for its mapped exchange.
func NewDefaultResolver(cfg *config.Config, quotes QuoteFetcher, log zerolog.Logger) *Resolver {
	regional := map[string][]Strategy{
		"US": {
			NewTrendingFeed(cfg.QuoteAPIBaseURL, "US", cfg.HTTPTimeout),
			NewPredefinedScreener(cfg.QuoteAPIBaseURL, "day_gainers", cfg.HTTPTimeout),
			NewPredefinedScreener(cfg.QuoteAPIBaseURL, "most_actives", cfg.HTTPTimeout),
		},
	}
	fallbackFor := func(exchange string) Strategy {
		return NewExchangeScreener(cfg.ScreenerAPIBaseURL, cfg.ScreenerAPIKey, exchange, cfg.HTTPTimeout)
	}
	return NewResolver(regional, fallbackFor, quotes, log)
}

// Resolve returns up to count symbols for a region, in the order produced by
// the first succeeding tier. Tier failures (error, timeout, empty list) are
// swallowed and the chain advances; only full exhaustion surfaces, as
// ErrNoResults.
func (r *Resolver) Resolve(ctx context.Context, region string, count int) ([]string, error) {
	for _, strategy := range r.regional[region] {
		symbols, ok := r.try(ctx, strategy, count)
		if ok {
			return truncate(symbols, count), nil
		}
	}

	fallback := r.fallbackFor(config.ExchangeFor(region))
	symbols, ok := r.try(ctx, fallback, count)
	if !ok {
		return nil, ErrNoResults
	}
	return truncate(symbols, count), nil
}

// try runs one strategy and normalizes every failure mode to "advance".
func (r *Resolver) try(ctx context.Context, strategy Strategy, count int) ([]string, bool) {
	symbols, err := strategy.Symbols(ctx, count)
	if err != nil {
		r.log.Debug().Err(err).Str("strategy", strategy.Name()).
			Msg("Strategy failed, advancing to next tier")
		return nil, false
	}
	if len(symbols) == 0 {
		r.log.Debug().Str("strategy", strategy.Name()).
			Msg("Strategy returned no symbols, advancing to next tier")
		return nil, false
	}
	return symbols, true
}

// Enrich fetches a current quote for each symbol, preserving order. A failed
// or empty fetch yields a partial record with only the symbol set; one bad
// symbol never drops the others.
func (r *Resolver) Enrich(ctx context.Context, symbols []string) []models.TrendingTicker {
	tickers := make([]models.TrendingTicker, len(symbols))

	g := new(errgroup.Group)
	g.SetLimit(r.enrichLimit)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		tickers[i] = models.TrendingTicker{Symbol: symbol}
		g.Go(func() error {
			quote, err := r.quotes.FetchLatest(ctx, symbol)
			if err != nil {
				r.log.Debug().Err(err).Str("symbol", symbol).
					Msg("Enrichment fetch failed, emitting partial record")
				return nil
			}
			if quote == nil {
				return nil
			}
			tickers[i] = models.TickerFromQuote(*quote)
			return nil
		})
	}
	g.Wait()

	return tickers
}

func truncate(symbols []string, count int) []string {
	if count > 0 && len(symbols) > count {
		return symbols[:count]
	}
	return symbols
}
