package bank

import "context"

// Repository defines the interface for bank record data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// Create persists a new bank record and returns it with its generated id
	Create(ctx context.Context, params CreateParams) (*Bank, error)

	// GetByID retrieves a bank record by its document id
	GetByID(ctx context.Context, id string) (*Bank, error)

	// ListByUserID retrieves all bank records for a specific user
	ListByUserID(ctx context.Context, userID string) ([]*Bank, error)
}
