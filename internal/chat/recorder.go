// Package chat persists relayed messages and serves recent history. All
// writes are best-effort and decoupled from message delivery.
package chat

import (
	"context"
	"time"

	"saarthi/internal/models"
	"saarthi/pkg/logger"
)

// MessageStore is the durable side of the history, backed by postgres.
type MessageStore interface {
	SaveChatMessage(ctx context.Context, msg *models.ChatMessage) error
	RecentChatMessages(ctx context.Context, room string, limit int) ([]*models.ChatMessage, error)
}

// Recorder fans a relayed message out to the relational store and, when
// configured, the redis cache. It satisfies the hub's Sink: Append returns
// immediately and the writes happen on their own goroutine.
type Recorder struct {
	store MessageStore
	cache *RedisStore
}

func NewRecorder(store MessageStore, cache *RedisStore) *Recorder {
	return &Recorder{store: store, cache: cache}
}

func (r *Recorder) Append(msg *models.ChatMessage) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := r.store.SaveChatMessage(ctx, msg); err != nil {
			logger.Error("saving chat message: %v", err)
		}
		if r.cache != nil {
			r.cache.Append(msg)
		}
	}()
}

// Recent serves room history for the REST endpoint, preferring the cache.
func (r *Recorder) Recent(ctx context.Context, room string, limit int) ([]*models.ChatMessage, error) {
	if r.cache != nil {
		if msgs := r.cache.Recent(room, limit); len(msgs) > 0 {
			return msgs, nil
		}
	}
	return r.store.RecentChatMessages(ctx, room, limit)
}
