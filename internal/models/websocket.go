package models

type EventType string

const (
	EventJoinRoom         EventType = "join-room"
	EventChatMessage      EventType = "chat-message"
	EventPresenceSnapshot EventType = "presence-snapshot"
	EventChatBroadcast    EventType = "chat-broadcast"
)

// Envelope is decoded first to dispatch on Type; the full frame is then
// decoded into the matching payload struct.
type Envelope struct {
	Type EventType `json:"type"`
}

type JoinRoomPayload struct {
	UserID      string `json:"userId"`
	Room        string `json:"room"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarRef   string `json:"avatarRef,omitempty"`

	// Legacy clients send the class under one of these names instead of
	// "room". Translated at the transport edge, never inside the protocol.
	LegacyClassSnake string `json:"student_class,omitempty"`
	LegacyClassCamel string `json:"studentClass,omitempty"`
}

type ChatMessagePayload struct {
	Text string `json:"text"`
	// A room field here is ignored: the room is always taken from the
	// sender's joined session.
}

type PresenceUser struct {
	UserID          string `json:"userId"`
	ConnectionCount int    `json:"connectionCount"`
	DisplayName     string `json:"displayName"`
	AvatarRef       string `json:"avatarRef,omitempty"`
}

type PresenceSnapshot struct {
	Type  EventType      `json:"type"`
	Users []PresenceUser `json:"users"`
	Count int            `json:"count"`
}

type ChatBroadcast struct {
	Type        EventType `json:"type"`
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	Text        string    `json:"text"`
	CreatedAt   string    `json:"createdAt"`
	AvatarRef   string    `json:"avatarRef,omitempty"`
}
