package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"saarthi/internal/config"
	"saarthi/internal/database"
	"saarthi/internal/email"
	"saarthi/internal/models"

	"github.com/jackc/pgx/v5"
)

// portalStore stubs the database surface the portal service touches. The
// embedded interface covers the methods a test does not override.
type portalStore struct {
	database.Database
	updateExam func(ctx context.Context, id string, req *models.ExamRequest) (*models.Exam, error)
	deleteExam func(ctx context.Context, id string) (bool, error)
}

func (s *portalStore) UpdateExam(ctx context.Context, id string, req *models.ExamRequest) (*models.Exam, error) {
	return s.updateExam(ctx, id, req)
}

func (s *portalStore) DeleteExam(ctx context.Context, id string) (bool, error) {
	return s.deleteExam(ctx, id)
}

type fakeMail struct {
	sent []*email.Message
}

func (f *fakeMail) Send(msg *email.Message) {
	f.sent = append(f.sent, msg)
}

func examRequest() *models.ExamRequest {
	return &models.ExamRequest{
		Subject:   "Maths",
		Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "11:00",
		Location:  "Hall A",
	}
}

func TestUpdateExamMissingRowIsNotFound(t *testing.T) {
	store := &portalStore{
		updateExam: func(context.Context, string, *models.ExamRequest) (*models.Exam, error) {
			return nil, pgx.ErrNoRows
		},
	}
	svc := NewPortalService(store, &fakeMail{}, &config.Config{})

	_, err := svc.UpdateExam(context.Background(), "missing", examRequest())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing row, got %v", err)
	}
}

func TestUpdateExamDatabaseFailureIsNotNotFound(t *testing.T) {
	dbErr := errors.New("connection refused")
	store := &portalStore{
		updateExam: func(context.Context, string, *models.ExamRequest) (*models.Exam, error) {
			return nil, dbErr
		},
	}
	svc := NewPortalService(store, &fakeMail{}, &config.Config{})

	_, err := svc.UpdateExam(context.Background(), "e1", examRequest())
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("a database failure must not masquerade as not-found")
	}
	if !errors.Is(err, dbErr) {
		t.Fatalf("underlying error must be preserved, got %v", err)
	}
}

func TestDeleteExamMapsAffectedRows(t *testing.T) {
	deleted := true
	store := &portalStore{
		deleteExam: func(context.Context, string) (bool, error) {
			return deleted, nil
		},
	}
	svc := NewPortalService(store, &fakeMail{}, &config.Config{})

	if err := svc.DeleteExam(context.Background(), "e1"); err != nil {
		t.Fatalf("delete of an existing exam failed: %v", err)
	}
	deleted = false
	if err := svc.DeleteExam(context.Background(), "e1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when nothing was deleted, got %v", err)
	}
}

func TestSubmitFeedbackMailsStaffAndSender(t *testing.T) {
	mail := &fakeMail{}
	cfg := &config.Config{
		Email: config.EmailConfig{StaffAddress: "staff@saarthi.local"},
	}
	svc := NewPortalService(&portalStore{}, mail, cfg)

	err := svc.SubmitFeedback(&models.FeedbackRequest{
		Name:        "Asha",
		Email:       "asha@example.com",
		Description: "The mess menu page is stale.",
	})
	if err != nil {
		t.Fatalf("feedback failed: %v", err)
	}
	if len(mail.sent) != 2 {
		t.Fatalf("expected staff + confirmation mail, got %d", len(mail.sent))
	}
	if mail.sent[0].ToAddress != "staff@saarthi.local" {
		t.Fatalf("first mail must go to staff, got %s", mail.sent[0].ToAddress)
	}
	if mail.sent[1].ToAddress != "asha@example.com" {
		t.Fatalf("confirmation must go to the sender, got %s", mail.sent[1].ToAddress)
	}
}

func TestSubmitFeedbackRejectsInvalid(t *testing.T) {
	mail := &fakeMail{}
	svc := NewPortalService(&portalStore{}, mail, &config.Config{})

	err := svc.SubmitFeedback(&models.FeedbackRequest{Name: "Asha", Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected invalid feedback to be rejected")
	}
	if len(mail.sent) != 0 {
		t.Fatal("invalid feedback must not send mail")
	}
}
