package user

import "context"

// Repository defines the interface for user record data access
type Repository interface {
	// Create persists a new user record and returns it with its document id
	Create(ctx context.Context, params CreateParams) (*User, error)

	// GetByUserID retrieves a user record by its authentication identity
	GetByUserID(ctx context.Context, userID string) (*User, error)

	// GetByEmail retrieves a user record by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List retrieves all user records
	List(ctx context.Context) ([]*User, error)
}
