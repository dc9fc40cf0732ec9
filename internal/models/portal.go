package models

import "time"

type CalendarEvent struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Date        time.Time  `json:"date"`
	EndDate     *time.Time `json:"endDate"`
	Type        string     `json:"type"`
	CreatedBy   *string    `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type CalendarEventRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date" validate:"required"`
	EndDate     *time.Time `json:"endDate"`
	Type        string     `json:"type" validate:"required"`
}

type Exam struct {
	ID           string    `json:"id"`
	Subject      string    `json:"subject"`
	Date         time.Time `json:"date"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Location     string    `json:"location"`
	Instructions *string   `json:"instructions"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ExamRequest struct {
	Subject      string    `json:"subject" validate:"required"`
	Date         time.Time `json:"date" validate:"required"`
	StartTime    string    `json:"startTime" validate:"required"`
	EndTime      string    `json:"endTime" validate:"required"`
	Location     string    `json:"location" validate:"required"`
	Instructions string    `json:"instructions"`
}

type SyllabusItem struct {
	ID          string     `json:"id"`
	Subject     string     `json:"subject"`
	Topic       string     `json:"topic"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type SyllabusRequest struct {
	Subject     string     `json:"subject" validate:"required"`
	Topic       string     `json:"topic" validate:"required"`
	Description string     `json:"description"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
}

type FeedbackRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Description string `json:"description" validate:"required"`
}
