// Package ws pushes order and note events to connected dashboards over websockets.
package ws

import (
	"log/slog"
	"net/http"
	"time"

	"driverdesk/internal/adapters/out/notify"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Subscriber hands out event feeds.
type Subscriber interface {
	Subscribe() *notify.Subscription
}

// Handler upgrades GET /ws and streams every published event as JSON.
// Messages sent by the client are read and discarded.
type Handler struct {
	hub      Subscriber
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewHandler(hub Subscriber, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.With("component", "ws"),
	}
}

// Serve is the echo handler of the websocket endpoint.
func (h *Handler) Serve(ctx echo.Context) error {
	conn, err := h.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		h.logger.WarnContext(ctx.Request().Context(), "upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	sub := h.hub.Subscribe()
	defer sub.Unsubscribe()

	closed := make(chan struct{})
	go h.readLoop(conn, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return nil
			}
			if err = conn.WriteJSON(event); err != nil {
				h.logger.Debug("write failed, dropping client", "error", err)
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err = conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-closed:
			return nil
		}
	}
}

// readLoop keeps the pong deadline fresh and signals when the client goes away.
func (h *Handler) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
