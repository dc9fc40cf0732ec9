package database

import (
	"context"
	"time"

	"saarthi/internal/models"
)

// UserUpdates is a partial update; nil fields are left untouched.
type UserUpdates struct {
	CollegeRollNo  *string
	FullName       *string
	StudentPhone   *string
	ParentPhone    *string
	StudentEmail   *string
	ParentEmail    *string
	StudentClass   *string
	IDPhotoURL     *string
	PasswordHash   *string
	FaceDescriptor []float64
}

type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByRollNo(ctx context.Context, rollNo string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id string, updates *UserUpdates) (*models.User, error)
	GetFaceDescriptor(ctx context.Context, userID string) ([]float64, error)
	UpdateFaceDescriptor(ctx context.Context, userID string, descriptor []float64) error
}

type AttendanceRepository interface {
	GetAttendanceRecords(ctx context.Context, userID string, start, end *time.Time) ([]*models.AttendanceRecord, error)
	CreateAttendanceRecord(ctx context.Context, rec *models.AttendanceRecord) (*models.AttendanceRecord, error)
}

type CalendarRepository interface {
	GetCalendarEvents(ctx context.Context, start, end *time.Time) ([]*models.CalendarEvent, error)
	CreateCalendarEvent(ctx context.Context, event *models.CalendarEvent) (*models.CalendarEvent, error)
	UpdateCalendarEvent(ctx context.Context, id string, req *models.CalendarEventRequest) (*models.CalendarEvent, error)
	DeleteCalendarEvent(ctx context.Context, id string) (bool, error)
}

type ExamRepository interface {
	GetExamSchedule(ctx context.Context) ([]*models.Exam, error)
	CreateExam(ctx context.Context, exam *models.Exam) (*models.Exam, error)
	UpdateExam(ctx context.Context, id string, req *models.ExamRequest) (*models.Exam, error)
	DeleteExam(ctx context.Context, id string) (bool, error)
}

type SyllabusRepository interface {
	GetSyllabus(ctx context.Context) ([]*models.SyllabusItem, error)
	CreateSyllabusItem(ctx context.Context, item *models.SyllabusItem) (*models.SyllabusItem, error)
	UpdateSyllabusItem(ctx context.Context, id string, req *models.SyllabusRequest) (*models.SyllabusItem, error)
	DeleteSyllabusItem(ctx context.Context, id string) (bool, error)
}

type ChatMessageRepository interface {
	SaveChatMessage(ctx context.Context, msg *models.ChatMessage) error
	RecentChatMessages(ctx context.Context, room string, limit int) ([]*models.ChatMessage, error)
}

type Database interface {
	UserRepository
	AttendanceRepository
	CalendarRepository
	ExamRepository
	SyllabusRepository
	ChatMessageRepository
	Close() error
}
