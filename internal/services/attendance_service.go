package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"saarthi/internal/config"
	"saarthi/internal/database"
	"saarthi/internal/face"
	"saarthi/internal/geo"
	"saarthi/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	ErrFaceNotEnrolled = errors.New("no face descriptor enrolled for user")
	ErrFaceMismatch    = errors.New("face does not match enrolled descriptor")
	ErrOutsideCampus   = errors.New("location is outside the campus geofence")
	ErrMissingLocation = errors.New("face attendance requires a device location")
)

// AttendanceStore is the slice of the database the service needs.
type AttendanceStore interface {
	database.AttendanceRepository
	GetFaceDescriptor(ctx context.Context, userID string) ([]float64, error)
}

type AttendanceService struct {
	db       AttendanceStore
	fence    geo.Fence
	faceThr  float64
	validate *validator.Validate
}

func NewAttendanceService(db AttendanceStore, cfg *config.Config) *AttendanceService {
	return &AttendanceService{
		db: db,
		fence: geo.Fence{
			Center:  geo.Point{Lat: cfg.Attendance.CampusLat, Lng: cfg.Attendance.CampusLng},
			RadiusM: cfg.Attendance.CampusRadiusM,
		},
		faceThr:  cfg.Attendance.FaceThreshold,
		validate: validator.New(),
	}
}

// Mark records attendance for the user. Face-verified marks must carry a
// descriptor matching the enrolled one and a position inside the campus
// fence; manual marks are stored unverified.
func (s *AttendanceService) Mark(ctx context.Context, userID string, req *models.MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid attendance request: %w", err)
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	rec := &models.AttendanceRecord{
		UserID:    userID,
		Date:      date,
		Status:    req.Status,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if req.Subject != "" {
		rec.Subject = &req.Subject
	}
	if req.Reason != "" {
		rec.Reason = &req.Reason
	}
	method := req.Method
	if method == "" {
		method = "manual"
	}
	rec.Method = &method

	if method == "face" {
		if err := s.verifyFace(ctx, userID, req); err != nil {
			return nil, err
		}
		rec.Verified = true
		location := "campus"
		rec.Location = &location
	}

	return s.db.CreateAttendanceRecord(ctx, rec)
}

func (s *AttendanceService) verifyFace(ctx context.Context, userID string, req *models.MarkAttendanceRequest) error {
	enrolled, err := s.db.GetFaceDescriptor(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading face descriptor: %w", err)
	}
	if len(enrolled) == 0 {
		return ErrFaceNotEnrolled
	}

	ok, err := face.Match(enrolled, req.FaceDescriptor, s.faceThr)
	if err != nil {
		return fmt.Errorf("comparing face descriptors: %w", err)
	}
	if !ok {
		return ErrFaceMismatch
	}

	if req.Latitude == nil || req.Longitude == nil {
		return ErrMissingLocation
	}
	if !s.fence.Contains(geo.Point{Lat: *req.Latitude, Lng: *req.Longitude}) {
		return ErrOutsideCampus
	}
	return nil
}

func (s *AttendanceService) Records(ctx context.Context, userID string, start, end *time.Time) ([]*models.AttendanceRecord, error) {
	return s.db.GetAttendanceRecords(ctx, userID, start, end)
}

// Stats aggregates a user's records. The percentage counts present against
// present plus absent; leave days do not lower it.
func (s *AttendanceService) Stats(ctx context.Context, userID string, start, end *time.Time) (*models.AttendanceStats, error) {
	records, err := s.db.GetAttendanceRecords(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	stats := &models.AttendanceStats{}
	for _, rec := range records {
		switch rec.Status {
		case models.AttendanceStatusPresent:
			stats.TotalPresent++
		case models.AttendanceStatusAbsent:
			stats.TotalAbsent++
		case models.AttendanceStatusLeave:
			stats.TotalLeave++
		}
	}

	countable := stats.TotalPresent + stats.TotalAbsent
	if countable > 0 {
		stats.Percentage = int(math.Round(float64(stats.TotalPresent) * 100 / float64(countable)))
	}
	return stats, nil
}
