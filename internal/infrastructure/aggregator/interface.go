package aggregator

import (
	"context"
)

// ClientInterface defines the methods required from the aggregation API client
type ClientInterface interface {
	// CreateConnectToken requests a connect token for the linking widget.
	// itemID is optional; when set the token is scoped to update that item.
	CreateConnectToken(ctx context.Context, itemID string) (string, error)

	// FetchAccount retrieves a single account snapshot by provider account id
	FetchAccount(ctx context.Context, accountID string) (*Account, error)

	// FetchItem retrieves the item (bank connection) an account belongs to
	FetchItem(ctx context.Context, itemID string) (*Item, error)

	// FetchAccounts lists the accounts belonging to an item
	FetchAccounts(ctx context.Context, itemID string) ([]Account, error)

	// FetchTransactions lists the transactions of an account (single page)
	FetchTransactions(ctx context.Context, accountID string) (*TransactionPage, error)
}
