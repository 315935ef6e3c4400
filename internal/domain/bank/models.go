package bank

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrNotFound     = errors.New("bank record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Bank is the persisted link between a user and one externally aggregated
// bank account. A record is created when a linking flow completes and is
// never mutated afterwards.
type Bank struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ItemID    string    `json:"bankId"`    // provider item id for the bank connection
	AccountID string    `json:"accountId"` // provider account id within that item
	CreatedAt time.Time `json:"createdAt"`
}

// CreateParams contains parameters for creating a new bank record
type CreateParams struct {
	UserID    string
	ItemID    string
	AccountID string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.ItemID == "" {
		return errors.New("item ID is required")
	}
	if p.AccountID == "" {
		return errors.New("account ID is required")
	}
	return nil
}
