package user

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User represents a registered user and their profile document.
// UserID is the authentication identity; ID is the document id of the
// profile record. Both are stable for the lifetime of the account.
type User struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Address1     string    `json:"address1"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postalCode"`
	DateOfBirth  string    `json:"dateOfBirth"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateParams contains parameters for persisting a new user record
type CreateParams struct {
	UserID       string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Address1     string
	City         string
	State        string
	PostalCode   string
	DateOfBirth  string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return errors.New("valid email is required")
	}
	if p.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if p.FirstName == "" {
		return errors.New("first name is required")
	}
	if p.LastName == "" {
		return errors.New("last name is required")
	}
	return nil
}
