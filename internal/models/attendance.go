package models

import "time"

const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusLeave   = "leave"
)

type AttendanceRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	Subject   *string   `json:"subject"`
	Reason    *string   `json:"reason"`
	Method    *string   `json:"method"`
	Verified  bool      `json:"verified"`
	Location  *string   `json:"location"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
}

type MarkAttendanceRequest struct {
	Date    *time.Time `json:"date"`
	Status  string     `json:"status" validate:"required,oneof=present absent leave"`
	Subject string     `json:"subject"`
	Reason  string     `json:"reason"`
	Method  string     `json:"method" validate:"omitempty,oneof=manual face"`
	// Supplied when Method is "face": the descriptor extracted from the
	// camera frame, plus the device's reported position.
	FaceDescriptor []float64 `json:"faceDescriptor"`
	Latitude       *float64  `json:"latitude"`
	Longitude      *float64  `json:"longitude"`
}

type AttendanceStats struct {
	TotalPresent int `json:"totalPresent"`
	TotalAbsent  int `json:"totalAbsent"`
	TotalLeave   int `json:"totalLeave"`
	Percentage   int `json:"percentage"`
}
