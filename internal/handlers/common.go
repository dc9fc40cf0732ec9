package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"saarthi/internal/auth"
	"saarthi/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// bearerToken pulls the JWT out of the Authorization header, the token
// cookie set at login, or a query parameter (websocket and legacy clients).
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if c, err := r.Cookie("token"); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

func userFromRequest(r *http.Request, authService *auth.Service) (*models.User, error) {
	return authService.GetUserFromToken(r.Context(), bearerToken(r))
}
