package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"saarthi/internal/config"
	"saarthi/internal/database"
	"saarthi/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	db       database.UserRepository
	cfg      *config.Config
	validate *validator.Validate
}

func NewService(db database.UserRepository, cfg *config.Config) *Service {
	return &Service{
		db:       db,
		cfg:      cfg,
		validate: validator.New(),
	}
}

func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.LoginResponse, error) {
	req.CollegeRollNo = strings.TrimSpace(req.CollegeRollNo)
	req.FullName = strings.TrimSpace(req.FullName)

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid registration request: %w", err)
	}

	if _, err := s.db.GetUserByRollNo(ctx, req.CollegeRollNo); err == nil {
		return nil, fmt.Errorf("roll number %s is already registered", req.CollegeRollNo)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		CollegeRollNo: req.CollegeRollNo,
		FullName:      req.FullName,
		StudentPhone:  req.StudentPhone,
		ParentPhone:   req.ParentPhone,
		StudentEmail:  req.StudentEmail,
		ParentEmail:   req.ParentEmail,
		StudentClass:  req.StudentClass,
		PasswordHash:  string(hash),
		IsActive:      true,
	}
	if req.IDPhotoURL != "" {
		user.IDPhotoURL = &req.IDPhotoURL
	}

	created, err := s.db.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.generateToken(created)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	created.PasswordHash = ""
	return &models.LoginResponse{
		Token: token,
		User:  *created,
	}, nil
}

func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.db.GetUserByRollNo(ctx, strings.TrimSpace(req.CollegeRollNo))
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// Remove sensitive data
	user.PasswordHash = ""

	return &models.LoginResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *Service) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.cfg.JWT.Secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *Service) GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, ok := (*claims)["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	return s.db.GetUserByID(ctx, userID)
}

func (s *Service) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"rollNo":  user.CollegeRollNo,
		"class":   user.StudentClass,
		"exp":     time.Now().Add(s.cfg.JWT.ExpiresIn).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.JWT.Secret)
}
