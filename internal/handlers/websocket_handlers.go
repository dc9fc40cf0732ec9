package handlers

import (
	"net/http"

	"saarthi/internal/ws"
	"saarthi/pkg/logger"

	"github.com/gorilla/websocket"
)

type WebSocketHandlers struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewWebSocketHandlers(hub *ws.Hub) *WebSocketHandlers {
	return &WebSocketHandlers{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Configure for production
		},
	}
}

// HandleWebSocket upgrades the connection and starts the client pumps. The
// connection carries no identity yet; that arrives with its join-room frame.
func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
