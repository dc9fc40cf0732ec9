package models

import "time"

// ChatMessage is the durable form of a relayed message. Persistence is
// best-effort; delivery never depends on it.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Room      string    `json:"room"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
