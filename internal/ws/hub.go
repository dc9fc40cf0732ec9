package ws

import (
	"encoding/json"
	"strings"
	"time"

	"saarthi/internal/models"
	"saarthi/internal/presence"
	"saarthi/pkg/logger"

	"github.com/google/uuid"
)

// conn is the transport seam: one live connection the hub can push frames to.
type conn interface {
	ID() string
	Enqueue(frame []byte) bool
}

// Sink receives relayed messages for durable history. Implementations must
// not block; delivery never waits on them.
type Sink interface {
	Append(msg *models.ChatMessage)
}

type joinEvent struct {
	c       conn
	payload models.JoinRoomPayload
}

type inboundEvent struct {
	c       conn
	payload models.ChatMessagePayload
}

// Hub runs the room session protocol: connect -> join -> (message|rejoin)* ->
// disconnect. All registry and session mutations happen on the Run loop's
// goroutine, one event at a time, and every membership change is followed
// synchronously by a presence broadcast to the affected room.
type Hub struct {
	registry *presence.Registry
	sessions *presence.Sessions
	conns    map[string]conn

	register   chan conn
	join       chan joinEvent
	inbound    chan inboundEvent
	unregister chan conn
	shutdown   chan struct{}

	history Sink

	now   func() time.Time
	newID func() string
}

// NewHub creates a hub with its own registry and session map. history may be
// nil when chat persistence is disabled.
func NewHub(history Sink) *Hub {
	return &Hub{
		registry:   presence.NewRegistry(),
		sessions:   presence.NewSessions(),
		conns:      make(map[string]conn),
		register:   make(chan conn),
		join:       make(chan joinEvent),
		inbound:    make(chan inboundEvent),
		unregister: make(chan conn),
		shutdown:   make(chan struct{}),
		history:    history,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.shutdown:
			return
		case c := <-h.register:
			h.conns[c.ID()] = c
		case ev := <-h.join:
			h.handleJoin(ev.c, ev.payload)
		case ev := <-h.inbound:
			h.handleMessage(ev.c, ev.payload)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		}
	}
}

func (h *Hub) Shutdown() {
	close(h.shutdown)
}

// Register announces a connection that has not joined any room yet.
func (h *Hub) Register(c conn) {
	h.register <- c
}

func (h *Hub) Join(c conn, payload models.JoinRoomPayload) {
	h.join <- joinEvent{c: c, payload: payload}
}

func (h *Hub) Message(c conn, payload models.ChatMessagePayload) {
	h.inbound <- inboundEvent{c: c, payload: payload}
}

func (h *Hub) Unregister(c conn) {
	h.unregister <- c
}

// handleJoin validates the request and records the connection in the room.
// A malformed join is refused without touching any state; the connection
// stays connected and may retry.
func (h *Hub) handleJoin(c conn, payload models.JoinRoomPayload) {
	room := strings.TrimSpace(payload.Room)
	userID := strings.TrimSpace(payload.UserID)
	if room == "" || userID == "" {
		logger.Warn("join refused: missing room or userId (conn %s)", c.ID())
		return
	}

	// A re-join moves the connection: drop the previous registration first so
	// no ghost entry survives in the old room.
	if prev, ok := h.sessions.Lookup(c.ID()); ok && (prev.Room != room || prev.UserID != userID) {
		h.registry.Remove(prev.Room, prev.UserID, c.ID())
		h.broadcastPresence(prev.Room)
	}

	h.sessions.Attach(c.ID(), presence.Session{
		UserID:      userID,
		Room:        room,
		DisplayName: payload.DisplayName,
		AvatarRef:   payload.AvatarRef,
	})
	h.registry.Add(room, presence.UserInfo{
		ID:          userID,
		DisplayName: payload.DisplayName,
		AvatarRef:   payload.AvatarRef,
	}, c.ID())
	h.broadcastPresence(room)

	logger.Info("JOIN: %s -> %q (%d unique users)", userID, room, h.registry.Count(room))
}

// handleMessage relays a chat message to the sender's joined room. The room
// comes from the stored session, never from the payload, so a connection can
// only ever post into the room it joined. Messages from never-joined
// connections are dropped.
func (h *Hub) handleMessage(c conn, payload models.ChatMessagePayload) {
	sess, ok := h.sessions.Lookup(c.ID())
	if !ok {
		logger.Debug("dropping message from conn %s with no joined room", c.ID())
		return
	}

	createdAt := h.now().UTC()
	broadcast := models.ChatBroadcast{
		Type:        models.EventChatBroadcast,
		ID:          h.newID(),
		UserID:      sess.UserID,
		DisplayName: sess.DisplayName,
		Text:        payload.Text,
		CreatedAt:   createdAt.Format(time.RFC3339),
		AvatarRef:   sess.AvatarRef,
	}
	h.emitToRoom(sess.Room, broadcast)

	if h.history != nil {
		h.history.Append(&models.ChatMessage{
			ID:        broadcast.ID,
			UserID:    sess.UserID,
			Room:      sess.Room,
			Message:   payload.Text,
			CreatedAt: createdAt,
		})
	}
}

// handleDisconnect removes the connection from its room, if it ever joined
// one, and re-broadcasts presence. A disconnect with no recorded session is
// a no-op beyond forgetting the connection handle.
func (h *Hub) handleDisconnect(c conn) {
	delete(h.conns, c.ID())

	sess, ok := h.sessions.Lookup(c.ID())
	if !ok {
		return
	}
	h.registry.Remove(sess.Room, sess.UserID, c.ID())
	h.sessions.Detach(c.ID())
	h.broadcastPresence(sess.Room)

	logger.Info("LEAVE: %s left %q (%d unique users)", sess.UserID, sess.Room, h.registry.Count(sess.Room))
}

func (h *Hub) broadcastPresence(room string) {
	entries := h.registry.Snapshot(room)
	users := make([]models.PresenceUser, 0, len(entries))
	for _, e := range entries {
		users = append(users, models.PresenceUser{
			UserID:          e.UserID,
			ConnectionCount: e.ConnectionCount,
			DisplayName:     e.DisplayName,
			AvatarRef:       e.AvatarRef,
		})
	}
	h.emitToRoom(room, models.PresenceSnapshot{
		Type:  models.EventPresenceSnapshot,
		Users: users,
		Count: h.registry.Count(room),
	})
}

func (h *Hub) emitToRoom(room string, payload interface{}) {
	frame, err := json.Marshal(payload)
	if err != nil {
		logger.Error("marshaling room event: %v", err)
		return
	}
	for _, connID := range h.registry.Connections(room) {
		c, ok := h.conns[connID]
		if !ok {
			continue
		}
		if !c.Enqueue(frame) {
			logger.Warn("dropping slow connection %s", connID)
		}
	}
}
