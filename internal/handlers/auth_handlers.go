package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"saarthi/internal/auth"
	"saarthi/internal/config"
	"saarthi/internal/email"
	"saarthi/internal/models"
	"saarthi/pkg/logger"
)

type AuthHandlers struct {
	authService *auth.Service
	mail        email.Service
	uploadDir   string
	tokenTTL    time.Duration
}

func NewAuthHandlers(authService *auth.Service, mail email.Service, cfg *config.Config) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		mail:        mail,
		uploadDir:   cfg.Uploads.Dir,
		tokenTTL:    cfg.JWT.ExpiresIn,
	}
}

func (h *AuthHandlers) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register accepts either a JSON body or a multipart form with an optional
// idPhoto file alongside the registration fields.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		req = models.RegisterRequest{
			CollegeRollNo: r.FormValue("collegeRollNo"),
			FullName:      r.FormValue("fullName"),
			StudentPhone:  r.FormValue("studentPhone"),
			ParentPhone:   r.FormValue("parentPhone"),
			StudentEmail:  r.FormValue("studentEmail"),
			ParentEmail:   r.FormValue("parentEmail"),
			StudentClass:  r.FormValue("studentClass"),
			Password:      r.FormValue("password"),
		}
		if file, header, err := r.FormFile("idPhoto"); err == nil {
			defer file.Close()
			url, err := savePhoto(h.uploadDir, file, header.Filename)
			if err != nil {
				logger.Error("ID photo upload error: %v", err)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			req.IDPhotoURL = url
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	response, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		logger.Error("Registration error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mail.Send(&email.Message{
		ToName:    response.User.FullName,
		ToAddress: response.User.StudentEmail,
		Subject:   "Welcome to Saarthi",
		TextBody: fmt.Sprintf("Hi %s,\n\nYour account (%s) is ready. Log in with your roll number to get started.",
			response.User.FullName, response.User.CollegeRollNo),
	})

	h.setTokenCookie(w, response.Token)
	writeJSON(w, http.StatusCreated, response)
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	response, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		logger.Error("Login error: %v", err)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	h.setTokenCookie(w, response.Token)
	writeJSON(w, http.StatusOK, response)
}

// Logout clears the token cookie. Tokens themselves are stateless, so there
// is nothing to revoke server-side.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	user.PasswordHash = ""
	writeJSON(w, http.StatusOK, user)
}
