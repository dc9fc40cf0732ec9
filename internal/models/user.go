package models

import "time"

type User struct {
	ID             string     `json:"id"`
	CollegeRollNo  string     `json:"collegeRollNo"`
	FullName       string     `json:"fullName"`
	StudentPhone   string     `json:"studentPhone"`
	ParentPhone    string     `json:"parentPhone"`
	StudentEmail   string     `json:"studentEmail"`
	ParentEmail    string     `json:"parentEmail"`
	StudentClass   string     `json:"studentClass"`
	PasswordHash   string     `json:"-"`
	IDPhotoURL     *string    `json:"idPhotoUrl"`
	FaceDescriptor []float64  `json:"faceDescriptor,omitempty"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type RegisterRequest struct {
	CollegeRollNo string `json:"collegeRollNo" validate:"required"`
	FullName      string `json:"fullName" validate:"required"`
	StudentPhone  string `json:"studentPhone" validate:"required"`
	ParentPhone   string `json:"parentPhone" validate:"required"`
	StudentEmail  string `json:"studentEmail" validate:"required,email"`
	ParentEmail   string `json:"parentEmail" validate:"required,email"`
	StudentClass  string `json:"studentClass" validate:"required"`
	Password      string `json:"password" validate:"required,min=8"`
	IDPhotoURL    string `json:"idPhotoUrl"`
}

type LoginRequest struct {
	CollegeRollNo string `json:"collegeRollNo" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateProfileRequest carries a partial update; nil fields are left untouched.
type UpdateProfileRequest struct {
	CollegeRollNo   *string `json:"collegeRollNo"`
	FullName        *string `json:"fullName"`
	StudentPhone    *string `json:"studentPhone"`
	ParentPhone     *string `json:"parentPhone"`
	StudentEmail    *string `json:"studentEmail" validate:"omitempty,email"`
	ParentEmail     *string `json:"parentEmail" validate:"omitempty,email"`
	StudentClass    *string `json:"studentClass"`
	IDPhotoURL      *string `json:"idPhotoUrl"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword" validate:"omitempty,min=8"`
}
