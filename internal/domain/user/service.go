package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"horizon/internal/shared/auth"
)

// SignUpParams contains the profile fields collected at registration
type SignUpParams struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Address1    string
	City        string
	State       string
	PostalCode  string
	DateOfBirth string
}

// Service contains the business logic for user registration and sign-in
type Service struct {
	repo Repository
}

// NewService creates a new user service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SignUp registers a new user: hashes the password, allocates an
// authentication identity and persists the profile record.
func (s *Service) SignUp(ctx context.Context, params SignUpParams) (*User, error) {
	if len(params.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	existing, err := s.repo.GetByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	createParams := CreateParams{
		UserID:       uuid.NewString(),
		Email:        params.Email,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Address1:     params.Address1,
		City:         params.City,
		State:        params.State,
		PostalCode:   params.PostalCode,
		DateOfBirth:  params.DateOfBirth,
	}
	if err := createParams.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, createParams)
}

// SignIn verifies the credentials and returns the matching user record.
// Returns ErrInvalidCredentials for both unknown emails and bad passwords
// so callers cannot distinguish the two.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := auth.VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetByUserID resolves the record for an authenticated identity.
// Backs the session middleware's "current user" lookup.
func (s *Service) GetByUserID(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	return s.repo.GetByUserID(ctx, userID)
}
