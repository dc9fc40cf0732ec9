package services

import (
	"context"
	"errors"
	"fmt"

	"saarthi/internal/database"
	"saarthi/internal/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var ErrWrongPassword = errors.New("current password is incorrect")

type UserService struct {
	db       database.UserRepository
	validate *validator.Validate
}

func NewUserService(db database.UserRepository) *UserService {
	return &UserService{db: db, validate: validator.New()}
}

// UpdateProfile applies a partial profile update. Changing the password
// requires the current one.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid profile update: %w", err)
	}

	updates := &database.UserUpdates{
		CollegeRollNo: req.CollegeRollNo,
		FullName:      req.FullName,
		StudentPhone:  req.StudentPhone,
		ParentPhone:   req.ParentPhone,
		StudentEmail:  req.StudentEmail,
		ParentEmail:   req.ParentEmail,
		StudentClass:  req.StudentClass,
		IDPhotoURL:    req.IDPhotoURL,
	}

	if req.NewPassword != "" {
		user, err := s.db.GetUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return nil, ErrWrongPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hashed := string(hash)
		updates.PasswordHash = &hashed
	}

	updated, err := s.db.UpdateUser(ctx, userID, updates)
	if err != nil {
		return nil, err
	}
	updated.PasswordHash = ""
	return updated, nil
}

// EnrollFace stores the reference descriptor used by face attendance.
func (s *UserService) EnrollFace(ctx context.Context, userID string, descriptor []float64) error {
	if len(descriptor) == 0 {
		return fmt.Errorf("descriptor must not be empty")
	}
	return s.db.UpdateFaceDescriptor(ctx, userID, descriptor)
}

func (s *UserService) FaceDescriptor(ctx context.Context, userID string) ([]float64, error) {
	return s.db.GetFaceDescriptor(ctx, userID)
}
