// Package stream pushes a per-symbol quote feed over a websocket. Each
// subscriber gets its own loop with exactly one in-flight fetch; there is no
// shared hub and no buffering.
package stream

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"finsight/models"
)

const writeTimeout = 10 * time.Second

// QuoteFetcher is the slice of the market data client the feed needs.
type QuoteFetcher interface {
	FetchLatest(ctx context.Context, symbol string) (*models.Quote, error)
}

// Feed streams quotes for one symbol per subscriber connection.
type Feed struct {
	quotes   QuoteFetcher
	interval time.Duration
	log      zerolog.Logger
}

// NewFeed creates a feed that emits a fresh quote every interval.
func NewFeed(quotes QuoteFetcher, interval time.Duration, log zerolog.Logger) *Feed {
	return &Feed{
		quotes:   quotes,
		interval: interval,
		log:      log,
	}
}

// Run drives one subscriber until it disconnects, the context ends, or the
// quote source becomes unavailable. A disconnect is normal termination; a
// source failure closes the connection with an explicit error frame.
func (f *Feed) Run(ctx context.Context, conn *websocket.Conn, symbol string) {
	defer conn.Close()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.log.Info().Str("symbol", symbol).Msg("Quote stream opened")
	for {
		quote, err := f.quotes.FetchLatest(ctx, symbol)
		if err != nil {
			f.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote stream closing on source failure")
			f.closeWithError(conn, "quote source unavailable")
			return
		}

		// No data this period is not fatal; skip the frame and keep going.
		if quote != nil {
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(quote); err != nil {
				f.log.Debug().Str("symbol", symbol).Msg("Quote stream subscriber disconnected")
				return
			}
		}

		select {
		case <-ctx.Done():
			f.closeNormal(conn)
			return
		case <-ticker.C:
		}
	}
}

func (f *Feed) closeWithError(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, reason)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
}

func (f *Feed) closeNormal(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
}
