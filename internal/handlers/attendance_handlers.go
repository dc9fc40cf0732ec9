package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"saarthi/internal/auth"
	"saarthi/internal/models"
	"saarthi/internal/services"
	"saarthi/pkg/logger"
)

type AttendanceHandlers struct {
	authService       *auth.Service
	attendanceService *services.AttendanceService
}

func NewAttendanceHandlers(authService *auth.Service, attendanceService *services.AttendanceService) *AttendanceHandlers {
	return &AttendanceHandlers{
		authService:       authService,
		attendanceService: attendanceService,
	}
}

// parseDateRange reads the optional startDate/endDate query parameters
// (start/end also accepted), in date-only or RFC3339 form.
func parseDateRange(r *http.Request) (start, end *time.Time, err error) {
	q := r.URL.Query()
	param := func(name, alias string) string {
		if v := q.Get(name); v != "" {
			return v
		}
		return q.Get(alias)
	}
	parse := func(value string) (*time.Time, error) {
		if value == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			t, err = time.Parse("2006-01-02", value)
			if err != nil {
				return nil, err
			}
		}
		return &t, nil
	}

	if start, err = parse(param("startDate", "start")); err != nil {
		return nil, nil, err
	}
	end, err = parse(param("endDate", "end"))
	return start, end, err
}

func (h *AttendanceHandlers) Attendance(w http.ResponseWriter, r *http.Request) {
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
		records, err := h.attendanceService.Records(r.Context(), user.ID, start, end)
		if err != nil {
			logger.Error("Attendance read error: %v", err)
			http.Error(w, "error reading attendance", http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []*models.AttendanceRecord{}
		}
		writeJSON(w, http.StatusOK, records)

	case http.MethodPost:
		var req models.MarkAttendanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		rec, err := h.attendanceService.Mark(r.Context(), user.ID, &req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrFaceNotEnrolled),
				errors.Is(err, services.ErrMissingLocation):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, services.ErrFaceMismatch),
				errors.Is(err, services.ErrOutsideCampus):
				http.Error(w, err.Error(), http.StatusForbidden)
			default:
				logger.Error("Attendance mark error: %v", err)
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}
		writeJSON(w, http.StatusCreated, rec)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AttendanceHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		http.Error(w, "invalid date range", http.StatusBadRequest)
		return
	}

	stats, err := h.attendanceService.Stats(r.Context(), user.ID, start, end)
	if err != nil {
		logger.Error("Attendance stats error: %v", err)
		http.Error(w, "error computing stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
