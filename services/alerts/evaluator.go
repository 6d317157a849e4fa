package alerts

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"finsight/models"
	"finsight/services/notify"
)

// QuoteFetcher is the slice of the market data client the evaluator needs.
type QuoteFetcher interface {
	FetchLatest(ctx context.Context, symbol string) (*models.Quote, error)
}

// Evaluator runs evaluation cycles over the alert store. One cycle scans
// every pending alert in store order; a failed fetch for one alert never
// aborts the rest of the cycle.
type Evaluator struct {
	store    *Store
	quotes   QuoteFetcher
	notifier notify.Notifier
	log      zerolog.Logger
}

// NewEvaluator creates an evaluator over the given store, quote source and
// notification sink.
func NewEvaluator(store *Store, quotes QuoteFetcher, notifier notify.Notifier, log zerolog.Logger) *Evaluator {
	return &Evaluator{
		store:    store,
		quotes:   quotes,
		notifier: notifier,
		log:      log,
	}
}

// RunCycle performs one full evaluation pass. Alerts that already fired are
// filtered out before any fetch.
func (e *Evaluator) RunCycle(ctx context.Context) {
	pending := e.store.Pending()
	if len(pending) == 0 {
		return
	}

	e.log.Debug().Int("pending", len(pending)).Msg("Starting alert evaluation cycle")
	for _, alert := range pending {
		e.evaluate(ctx, alert)
	}
}

// evaluate checks a single pending alert against a fresh quote. No quote
// (source down or no data) leaves the alert untouched; it is retried on the
// next cycle.
func (e *Evaluator) evaluate(ctx context.Context, alert models.Alert) {
	quote, err := e.quotes.FetchLatest(ctx, alert.Symbol)
	if err != nil {
		e.log.Debug().Err(err).Int("alert_id", alert.ID).Str("symbol", alert.Symbol).
			Msg("Quote fetch failed, will retry next cycle")
		return
	}
	if quote == nil {
		e.log.Debug().Int("alert_id", alert.ID).Str("symbol", alert.Symbol).
			Msg("No quote data, will retry next cycle")
		return
	}

	if !conditionMet(alert, quote.Price) {
		return
	}

	if !e.store.MarkTriggered(alert.ID) {
		return
	}

	e.log.Info().Int("alert_id", alert.ID).Str("symbol", alert.Symbol).
		Str("price", quote.Price.StringFixed(2)).Msg("Alert triggered")

	// One delivery attempt per trigger. The alert stays fired even when
	// delivery fails.
	title, body := formatNotification(alert, quote.Price)
	if err := e.notifier.Send(ctx, title, body); err != nil {
		e.log.Warn().Err(err).Int("alert_id", alert.ID).
			Msg("Alert notification delivery failed")
	}
}

// conditionMet applies the threshold predicate: strictly above or strictly
// below the target.
func conditionMet(alert models.Alert, price decimal.Decimal) bool {
	switch alert.Condition {
	case models.ConditionAbove:
		return price.GreaterThan(alert.TargetPrice)
	case models.ConditionBelow:
		return price.LessThan(alert.TargetPrice)
	default:
		return false
	}
}

// formatNotification builds the title/body pair sent to the sink.
func formatNotification(alert models.Alert, price decimal.Decimal) (string, string) {
	title := fmt.Sprintf("Price alert: %s", alert.Symbol)
	body := fmt.Sprintf("%s is %s your target of %s: current price %s",
		alert.Symbol,
		string(alert.Condition),
		alert.TargetPrice.StringFixed(2),
		price.StringFixed(2),
	)
	return title, body
}
