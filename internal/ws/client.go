package ws

import (
	"encoding/json"
	"time"

	"saarthi/internal/models"
	"saarthi/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Client owns one websocket connection and pumps frames between the socket
// and the hub. The hub never touches the socket directly.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Enqueue hands a frame to the write pump without blocking the hub loop.
// Returns false when the client's buffer is full.
func (c *Client) Enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// ReadPump decodes inbound frames and forwards them to the hub. It fires the
// disconnect transition on exit, whatever the reason for leaving the loop.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket error: %v", err)
			}
			break
		}

		var env models.Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			logger.Debug("discarding malformed frame from %s: %v", c.id, err)
			continue
		}

		switch env.Type {
		case models.EventJoinRoom:
			var payload models.JoinRoomPayload
			if err := json.Unmarshal(frame, &payload); err != nil {
				logger.Debug("discarding malformed join from %s: %v", c.id, err)
				continue
			}
			c.hub.Join(c, NormalizeJoin(payload))
		case models.EventChatMessage:
			var payload models.ChatMessagePayload
			if err := json.Unmarshal(frame, &payload); err != nil {
				logger.Debug("discarding malformed message from %s: %v", c.id, err)
				continue
			}
			c.hub.Message(c, payload)
		default:
			logger.Debug("unknown event type %q from %s", env.Type, c.id)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				logger.Error("Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// NormalizeJoin translates legacy field aliases into the canonical join
// payload. Older clients send the class under student_class or studentClass;
// the protocol itself only ever sees room.
func NormalizeJoin(payload models.JoinRoomPayload) models.JoinRoomPayload {
	if payload.Room == "" {
		if payload.LegacyClassSnake != "" {
			payload.Room = payload.LegacyClassSnake
		} else if payload.LegacyClassCamel != "" {
			payload.Room = payload.LegacyClassCamel
		}
	}
	payload.LegacyClassSnake = ""
	payload.LegacyClassCamel = ""
	return payload
}
