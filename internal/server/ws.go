package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 5 * time.Second

// The zero CheckOrigin rejects handshakes whose Origin host differs from Host.
var upgrader = websocket.Upgrader{}

// TicksHandler streams tick reports to WebSocket clients.
type TicksHandler struct {
	hub *Hub
	log zerolog.Logger
}

// NewTicksHandler creates a TicksHandler reading from hub.
func NewTicksHandler(hub *Hub, log zerolog.Logger) *TicksHandler {
	return &TicksHandler{hub: hub, log: log}
}

func (h *TicksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ticks, cancel := h.hub.SubscribeTicks()
	defer cancel()

	// The reader notices the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case msg := <-ticks:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}
