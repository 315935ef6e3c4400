// Package linking handles the bank linking handshake: connect-token
// issuance for the client-side widget and persistence of the bank record
// once the widget reports a successful connection.
package linking

import (
	"context"
	"errors"
	"fmt"
	"log"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/aggregator"
)

// Domain errors
var (
	ErrNoAccounts = errors.New("item has no accounts")
)

// SummaryInvalidator drops a user's cached summary after their set of
// linked banks changes.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// Service contains the business logic for the linking flow
type Service struct {
	provider    aggregator.ClientInterface
	banks       bank.Repository
	invalidator SummaryInvalidator // may be nil when caching is disabled
}

// NewService creates a new linking service. invalidator may be nil.
func NewService(provider aggregator.ClientInterface, banks bank.Repository, invalidator SummaryInvalidator) *Service {
	return &Service{provider: provider, banks: banks, invalidator: invalidator}
}

// IssueConnectToken requests a connect token for the linking widget.
// itemID is optional; when set the widget updates that existing
// connection instead of creating a new one. Tokens are never reused:
// two calls yield two independent tokens.
func (s *Service) IssueConnectToken(ctx context.Context, itemID string) (string, error) {
	token, err := s.provider.CreateConnectToken(ctx, itemID)
	if err != nil {
		return "", fmt.Errorf("failed to issue connect token: %w", err)
	}
	return token, nil
}

// CompleteLinking resolves the accounts of a freshly linked item and
// persists the bank record binding the user to one of them. Nothing is
// persisted when the item has no accounts.
func (s *Service) CompleteLinking(ctx context.Context, u *user.User, itemID string) (*bank.Bank, error) {
	if u == nil || u.UserID == "" {
		return nil, errors.New("authenticated user is required")
	}
	if itemID == "" {
		return nil, errors.New("item ID is required")
	}

	accounts, err := s.provider.FetchAccounts(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounts for item %s: %w", itemID, err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAccounts, itemID)
	}

	chosen := chooseLinkAccount(accounts)

	record, err := s.banks.Create(ctx, bank.CreateParams{
		UserID:    u.UserID,
		ItemID:    itemID,
		AccountID: chosen.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bank record: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, u.UserID)
	}

	log.Printf("User %s: linked item %s (account %s)", u.UserID, itemID, chosen.ID)
	return record, nil
}

// chooseLinkAccount picks which of an item's accounts gets linked.
//
// Policy: first account in the provider's returned order. Items with
// multiple accounts get no disambiguation; the rest are ignored. A
// selection UI would replace this.
func chooseLinkAccount(accounts []aggregator.Account) aggregator.Account {
	return accounts[0]
}
