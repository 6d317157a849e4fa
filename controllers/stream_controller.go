package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"finsight/services/marketdata"
	"finsight/services/stream"
)

// StreamController upgrades websocket subscriptions to the quote feed.
type StreamController struct {
	feed     *stream.Feed
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewStreamController creates a new stream controller.
func NewStreamController(feed *stream.Feed, log zerolog.Logger) *StreamController {
	return &StreamController{
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

// StreamQuotes streams the latest quote for a symbol at a fixed interval
// until the subscriber disconnects.
// GET /ws/quotes/:symbol
func (sc *StreamController) StreamQuotes(c *gin.Context) {
	symbol := normalizeSymbol(c.Param("symbol"))
	if err := marketdata.ValidateSymbol(symbol); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid symbol"})
		return
	}

	conn, err := sc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		sc.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	sc.feed.Run(c.Request.Context(), conn, symbol)
}
