package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

const (
	streamWriteTimeout = 10 * time.Second
	streamSendBuffer   = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Demo service, same-origin policy is not a concern here
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamBars handles GET /api/v1/stream: it upgrades to a WebSocket and
// pushes live bar updates for one symbol/resolution until the client goes
// away. Each connection gets its own subscription id, so closing the socket
// cancels exactly one timer.
func (h *APIHandler) StreamBars(c *gin.Context) {
	symbol, resolution, err := h.validator.ValidateStreamRequest(c.Query("symbol"), c.Query("resolution"))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	var (
		symbolInfo model.SymbolInfo
		reason     string
		resolvedOK bool
	)
	h.feed.ResolveSymbol(symbol,
		func(info model.SymbolInfo) { symbolInfo, resolvedOK = info, true },
		func(r string) { reason = r })
	if !resolvedOK {
		c.JSON(http.StatusNotFound, gin.H{"error": reason})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	subscriptionID := uuid.New().String()
	send := make(chan model.Bar, streamSendBuffer)

	h.feed.SubscribeBars(symbolInfo, resolution, func(bar model.Bar) {
		select {
		case send <- bar:
		default:
			// Slow client; dropping a tick is fine, the next one supersedes it
		}
	}, subscriptionID)
	defer h.feed.UnsubscribeBars(subscriptionID)

	h.logger.Info("bar stream opened",
		"symbol", symbolInfo.Name,
		"resolution", resolution,
		"subscription_id", subscriptionID)

	// Reader goroutine only watches for the client closing the connection
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case bar := <-send:
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteJSON(bar); err != nil {
				h.logger.Info("bar stream closed on write",
					"subscription_id", subscriptionID,
					"error", err)
				return
			}
		case <-done:
			h.logger.Info("bar stream closed by client", "subscription_id", subscriptionID)
			return
		}
	}
}
