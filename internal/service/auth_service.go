package service

import (
	"context"
	"errors"
	"fmt"

	"wcm/internal/auth"
	"wcm/internal/models"
	"wcm/internal/repository"
)

// AuthService handles registration, login and token issuance
type AuthService struct {
	userRepo    repository.UserRepository
	jwtSecret   string
	expiryHours int
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, expiryHours int) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		expiryHours: expiryHours,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request. Login accepts username or email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult carries the issued token and the public user record
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new account and returns a session token.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if req.Username == "" {
		return nil, &ValidationError{Message: "username is required"}
	}
	if req.Email == "" {
		return nil, &ValidationError{Message: "email is required"}
	}
	if req.Password == "" {
		return nil, &ValidationError{Message: "password is required"}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Message: "username or email already taken"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.expiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and returns a session token. Unknown user and
// wrong password produce the same error so existence never leaks.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if req.Username == "" || req.Password == "" {
		return nil, &ValidationError{Message: "username and password are required"}
	}

	user, err := s.userRepo.GetByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &AuthError{Message: "invalid credentials"}
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, &AuthError{Message: "invalid credentials"}
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.expiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}
