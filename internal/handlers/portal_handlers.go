package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"saarthi/internal/auth"
	"saarthi/internal/models"
	"saarthi/internal/services"
	"saarthi/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// PortalHandlers exposes the shared campus data: calendar, exams, syllabus
// and the feedback form. Reads and writes both require a logged-in user.
type PortalHandlers struct {
	authService   *auth.Service
	portalService *services.PortalService
}

func NewPortalHandlers(authService *auth.Service, portalService *services.PortalService) *PortalHandlers {
	return &PortalHandlers{
		authService:   authService,
		portalService: portalService,
	}
}

// itemID extracts the trailing id from paths like /api/exams/{id}.
func itemID(path, prefix string) string {
	return strings.Trim(strings.TrimPrefix(path, prefix), "/")
}

// Calendar

func (h *PortalHandlers) Calendar(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		start, end, err := parseDateRange(r)
		if err != nil {
			http.Error(w, "invalid date range", http.StatusBadRequest)
			return
		}
		events, err := h.portalService.CalendarEvents(r.Context(), start, end)
		if err != nil {
			logger.Error("Calendar read error: %v", err)
			http.Error(w, "error reading calendar", http.StatusInternalServerError)
			return
		}
		if events == nil {
			events = []*models.CalendarEvent{}
		}
		writeJSON(w, http.StatusOK, events)

	case http.MethodPost:
		var req models.CalendarEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		event, err := h.portalService.CreateCalendarEvent(r.Context(), user.ID, &req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, event)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PortalHandlers) CalendarItem(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := itemID(r.URL.Path, "/api/calendar/")
	if id == "" {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req models.CalendarEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		event, err := h.portalService.UpdateCalendarEvent(r.Context(), id, &req)
		if err != nil {
			h.writeUpdateError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, event)

	case http.MethodDelete:
		if err := h.portalService.DeleteCalendarEvent(r.Context(), id); err != nil {
			h.writeUpdateError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Exams

func (h *PortalHandlers) Exams(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		exams, err := h.portalService.ExamSchedule(r.Context())
		if err != nil {
			logger.Error("Exam schedule read error: %v", err)
			http.Error(w, "error reading exam schedule", http.StatusInternalServerError)
			return
		}
		if exams == nil {
			exams = []*models.Exam{}
		}
		writeJSON(w, http.StatusOK, exams)

	case http.MethodPost:
		var req models.ExamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		exam, err := h.portalService.CreateExam(r.Context(), &req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, exam)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PortalHandlers) ExamItem(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := itemID(r.URL.Path, "/api/exams/")
	if id == "" {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req models.ExamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		exam, err := h.portalService.UpdateExam(r.Context(), id, &req)
		if err != nil {
			h.writeUpdateError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, exam)

	case http.MethodDelete:
		if err := h.portalService.DeleteExam(r.Context(), id); err != nil {
			h.writeUpdateError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Syllabus

func (h *PortalHandlers) Syllabus(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		items, err := h.portalService.Syllabus(r.Context())
		if err != nil {
			logger.Error("Syllabus read error: %v", err)
			http.Error(w, "error reading syllabus", http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []*models.SyllabusItem{}
		}
		writeJSON(w, http.StatusOK, items)

	case http.MethodPost:
		var req models.SyllabusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		item, err := h.portalService.CreateSyllabusItem(r.Context(), &req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, item)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PortalHandlers) SyllabusItem(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := itemID(r.URL.Path, "/api/syllabus/")
	if id == "" {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req models.SyllabusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		item, err := h.portalService.UpdateSyllabusItem(r.Context(), id, &req)
		if err != nil {
			h.writeUpdateError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)

	case http.MethodDelete:
		if err := h.portalService.DeleteSyllabusItem(r.Context(), id); err != nil {
			h.writeUpdateError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Feedback

func (h *PortalHandlers) Feedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.portalService.SubmitFeedback(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "submitted"})
}

func (h *PortalHandlers) writeUpdateError(w http.ResponseWriter, err error) {
	var vErrs validator.ValidationErrors
	switch {
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.As(err, &vErrs):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logger.Error("Portal write error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
