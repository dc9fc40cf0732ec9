package handlers

import (
	"net/http"
	"strconv"

	"saarthi/internal/auth"
	"saarthi/internal/chat"
	"saarthi/internal/models"
	"saarthi/pkg/logger"
)

const defaultHistoryLimit = 50

type ChatHandlers struct {
	authService *auth.Service
	recorder    *chat.Recorder
}

func NewChatHandlers(authService *auth.Service, recorder *chat.Recorder) *ChatHandlers {
	return &ChatHandlers{
		authService: authService,
		recorder:    recorder,
	}
}

// History returns recent messages for a room, oldest first. The room
// defaults to the caller's class, which is where their live session lands.
func (h *ChatHandlers) History(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	room := r.URL.Query().Get("room")
	if room == "" {
		room = user.StudentClass
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 500 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}

	msgs, err := h.recorder.Recent(r.Context(), room, limit)
	if err != nil {
		logger.Error("Chat history error: %v", err)
		http.Error(w, "error reading history", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []*models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}
