package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"saarthi/internal/auth"
	"saarthi/internal/config"
	"saarthi/internal/models"
	"saarthi/internal/services"
	"saarthi/pkg/logger"
)

type UserHandlers struct {
	authService *auth.Service
	userService *services.UserService
	uploadDir   string
}

func NewUserHandlers(authService *auth.Service, userService *services.UserService, cfg *config.Config) *UserHandlers {
	return &UserHandlers{
		authService: authService,
		userService: userService,
		uploadDir:   cfg.Uploads.Dir,
	}
}

func (h *UserHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		user.PasswordHash = ""
		writeJSON(w, http.StatusOK, user)
	case http.MethodPut:
		var req models.UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		updated, err := h.userService.UpdateProfile(r.Context(), user.ID, &req)
		if err != nil {
			if errors.Is(err, services.ErrWrongPassword) {
				http.Error(w, err.Error(), http.StatusForbidden)
				return
			}
			logger.Error("Profile update error: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Face serves and replaces the descriptor used for face attendance.
func (h *UserHandlers) Face(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		descriptor, err := h.userService.FaceDescriptor(r.Context(), user.ID)
		if err != nil {
			logger.Error("Face descriptor read error: %v", err)
			http.Error(w, "error reading face descriptor", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"enrolled":       len(descriptor) > 0,
			"faceDescriptor": descriptor,
		})
	case http.MethodPost:
		var req struct {
			FaceDescriptor []float64 `json:"faceDescriptor"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := h.userService.EnrollFace(r.Context(), user.ID, req.FaceDescriptor); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "enrolled"})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// UploadPhoto stores an ID photo and records its URL on the profile.
func (h *UserHandlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "missing photo", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := savePhoto(h.uploadDir, file, header.Filename)
	if err != nil {
		logger.Error("Photo upload error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, &models.UpdateProfileRequest{
		IDPhotoURL: &url,
	})
	if err != nil {
		logger.Error("Recording photo URL: %v", err)
		http.Error(w, "error storing photo", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
