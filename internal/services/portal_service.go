package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"saarthi/internal/config"
	"saarthi/internal/database"
	"saarthi/internal/email"
	"saarthi/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("not found")

// mapUpdateError distinguishes an update that matched no row from a real
// database failure; only the former becomes ErrNotFound.
func mapUpdateError(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("updating %s: %w", what, err)
}

// PortalService covers the shared campus data: calendar, exam schedule,
// syllabus tracker and the feedback form.
type PortalService struct {
	db       database.Database
	mail     email.Service
	cfg      *config.Config
	validate *validator.Validate
}

func NewPortalService(db database.Database, mail email.Service, cfg *config.Config) *PortalService {
	return &PortalService{
		db:       db,
		mail:     mail,
		cfg:      cfg,
		validate: validator.New(),
	}
}

// Calendar

func (s *PortalService) CalendarEvents(ctx context.Context, start, end *time.Time) ([]*models.CalendarEvent, error) {
	return s.db.GetCalendarEvents(ctx, start, end)
}

func (s *PortalService) CreateCalendarEvent(ctx context.Context, createdBy string, req *models.CalendarEventRequest) (*models.CalendarEvent, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid calendar event: %w", err)
	}

	event := &models.CalendarEvent{
		Title:   req.Title,
		Date:    req.Date,
		EndDate: req.EndDate,
		Type:    req.Type,
	}
	if req.Description != "" {
		event.Description = &req.Description
	}
	if createdBy != "" {
		event.CreatedBy = &createdBy
	}
	return s.db.CreateCalendarEvent(ctx, event)
}

func (s *PortalService) UpdateCalendarEvent(ctx context.Context, id string, req *models.CalendarEventRequest) (*models.CalendarEvent, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid calendar event: %w", err)
	}
	event, err := s.db.UpdateCalendarEvent(ctx, id, req)
	if err != nil {
		return nil, mapUpdateError(err, "calendar event")
	}
	return event, nil
}

func (s *PortalService) DeleteCalendarEvent(ctx context.Context, id string) error {
	deleted, err := s.db.DeleteCalendarEvent(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Exams

func (s *PortalService) ExamSchedule(ctx context.Context) ([]*models.Exam, error) {
	return s.db.GetExamSchedule(ctx)
}

func (s *PortalService) CreateExam(ctx context.Context, req *models.ExamRequest) (*models.Exam, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid exam: %w", err)
	}

	exam := &models.Exam{
		Subject:   req.Subject,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
	}
	if req.Instructions != "" {
		exam.Instructions = &req.Instructions
	}
	return s.db.CreateExam(ctx, exam)
}

func (s *PortalService) UpdateExam(ctx context.Context, id string, req *models.ExamRequest) (*models.Exam, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid exam: %w", err)
	}
	exam, err := s.db.UpdateExam(ctx, id, req)
	if err != nil {
		return nil, mapUpdateError(err, "exam")
	}
	return exam, nil
}

func (s *PortalService) DeleteExam(ctx context.Context, id string) error {
	deleted, err := s.db.DeleteExam(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Syllabus

func (s *PortalService) Syllabus(ctx context.Context) ([]*models.SyllabusItem, error) {
	return s.db.GetSyllabus(ctx)
}

func (s *PortalService) CreateSyllabusItem(ctx context.Context, req *models.SyllabusRequest) (*models.SyllabusItem, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid syllabus item: %w", err)
	}

	item := &models.SyllabusItem{
		Subject: req.Subject,
		Topic:   req.Topic,
		DueDate: req.DueDate,
	}
	if req.Description != "" {
		item.Description = &req.Description
	}
	if req.Completed != nil {
		item.Completed = *req.Completed
	}
	return s.db.CreateSyllabusItem(ctx, item)
}

func (s *PortalService) UpdateSyllabusItem(ctx context.Context, id string, req *models.SyllabusRequest) (*models.SyllabusItem, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid syllabus item: %w", err)
	}
	item, err := s.db.UpdateSyllabusItem(ctx, id, req)
	if err != nil {
		return nil, mapUpdateError(err, "syllabus item")
	}
	return item, nil
}

func (s *PortalService) DeleteSyllabusItem(ctx context.Context, id string) error {
	deleted, err := s.db.DeleteSyllabusItem(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Feedback

func (s *PortalService) SubmitFeedback(req *models.FeedbackRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid feedback: %w", err)
	}

	s.mail.Send(&email.Message{
		ToName:    "Staff",
		ToAddress: s.cfg.Email.StaffAddress,
		Subject:   fmt.Sprintf("Feedback from %s", req.Name),
		TextBody:  fmt.Sprintf("From: %s <%s>\n\n%s", req.Name, req.Email, req.Description),
		HTMLBody: fmt.Sprintf("<p><strong>From:</strong> %s &lt;%s&gt;</p><p>%s</p>",
			html.EscapeString(req.Name), html.EscapeString(req.Email), html.EscapeString(req.Description)),
	})
	s.mail.Send(&email.Message{
		ToName:    req.Name,
		ToAddress: req.Email,
		Subject:   "We received your feedback",
		TextBody:  fmt.Sprintf("Hi %s,\n\nThanks for writing in. Your feedback has been passed on to the staff.", req.Name),
	})
	return nil
}
