package user

import (
	"context"
	"errors"
	"testing"

	"horizon/internal/shared/auth"
)

// MockRepo implements Repository for testing
type MockRepo struct {
	CreateFunc      func(ctx context.Context, params CreateParams) (*User, error)
	GetByUserIDFunc func(ctx context.Context, userID string) (*User, error)
	GetByEmailFunc  func(ctx context.Context, email string) (*User, error)
	ListFunc        func(ctx context.Context) ([]*User, error)
}

func (m *MockRepo) Create(ctx context.Context, params CreateParams) (*User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepo) GetByUserID(ctx context.Context, userID string) (*User, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, ErrNotFound
}

func (m *MockRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, ErrNotFound
}

func (m *MockRepo) List(ctx context.Context) ([]*User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func validSignUpParams() SignUpParams {
	return SignUpParams{
		Email:       "jane@example.com",
		Password:    "secret-password",
		FirstName:   "Jane",
		LastName:    "Doe",
		Address1:    "1 Main St",
		City:        "Springfield",
		State:       "IL",
		PostalCode:  "62701",
		DateOfBirth: "1990-01-01",
	}
}

func TestSignUp(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var created CreateParams
		repo := &MockRepo{
			CreateFunc: func(ctx context.Context, params CreateParams) (*User, error) {
				created = params
				return &User{ID: "doc-1", UserID: params.UserID, Email: params.Email}, nil
			},
		}
		service := NewService(repo)

		u, err := service.SignUp(context.Background(), validSignUpParams())
		if err != nil {
			t.Fatalf("SignUp() failed: %v", err)
		}

		if u.UserID == "" {
			t.Error("SignUp() should allocate a user ID")
		}
		if created.PasswordHash == "secret-password" || created.PasswordHash == "" {
			t.Error("SignUp() must store a password hash, not the password")
		}
		if err := auth.VerifyPassword(created.PasswordHash, "secret-password"); err != nil {
			t.Error("stored hash should verify against the original password")
		}
	})

	t.Run("Email Taken", func(t *testing.T) {
		repo := &MockRepo{
			GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
				return &User{ID: "doc-1", Email: email}, nil
			},
		}
		service := NewService(repo)

		_, err := service.SignUp(context.Background(), validSignUpParams())
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("Short Password", func(t *testing.T) {
		service := NewService(&MockRepo{})

		params := validSignUpParams()
		params.Password = "short"
		if _, err := service.SignUp(context.Background(), params); err == nil {
			t.Error("expected error for short password")
		}
	})
}

func TestSignIn(t *testing.T) {
	hash, _ := auth.HashPassword("secret-password")
	repo := &MockRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			if email == "jane@example.com" {
				return &User{ID: "doc-1", UserID: "user-1", Email: email, PasswordHash: hash}, nil
			}
			return nil, ErrNotFound
		},
	}
	service := NewService(repo)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "Success", email: "jane@example.com", password: "secret-password"},
		{name: "Wrong Password", email: "jane@example.com", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "Unknown Email", email: "nobody@example.com", password: "secret-password", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := service.SignIn(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SignIn() failed: %v", err)
			}
			if u.UserID != "user-1" {
				t.Errorf("UserID: got %s, want user-1", u.UserID)
			}
		})
	}
}

// Two registrations can race past the email pre-check; the store's
// uniqueness guard is the backstop and its error must surface unchanged.
func TestSignUp_StoreRejectsDuplicateEmail(t *testing.T) {
	repo := &MockRepo{
		CreateFunc: func(ctx context.Context, params CreateParams) (*User, error) {
			return nil, ErrEmailTaken
		},
	}
	service := NewService(repo)

	_, err := service.SignUp(context.Background(), validSignUpParams())
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken from store, got %v", err)
	}
}
