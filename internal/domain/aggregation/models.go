// Package aggregation builds the consolidated account views a user sees on
// the dashboard by joining persisted bank records with live data from the
// aggregation provider. Nothing here is persisted; every view is rebuilt
// per read.
package aggregation

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrInvalidInput = errors.New("invalid input")
)

// defaultTransactionIcon is the placeholder icon attached to every
// transaction view until per-merchant icons exist.
const defaultTransactionIcon = "/icons/logo.svg"

// AccountView is one linked account joined with its live snapshot.
// LinkedRecordID traces the view back to the bank record it came from.
type AccountView struct {
	ID             string          `json:"id"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	InstitutionID  string          `json:"institutionId"`
	Name           string          `json:"name"`
	MarketingName  string          `json:"marketingName"`
	Number         string          `json:"number"`
	Type           string          `json:"type"`
	LinkedRecordID string          `json:"linkedRecordId"`
}

// TransactionView is one provider transaction reshaped for the dashboard.
// RawStatus carries the provider's status string verbatim ("PENDING",
// "POSTED", ...); it is not a boolean.
type TransactionView struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	PaymentChannel string          `json:"paymentChannel"`
	Type           string          `json:"type"`
	AccountID      string          `json:"accountId"`
	Amount         decimal.Decimal `json:"amount"`
	RawStatus      string          `json:"rawStatus"`
	Category       string          `json:"category"`
	Date           string          `json:"date"`
	Icon           string          `json:"icon"`
}

// Summary is the consolidated view of all of a user's linked accounts
type Summary struct {
	Accounts            []AccountView   `json:"accounts"`
	TotalBanks          int             `json:"totalBanks"`
	TotalCurrentBalance decimal.Decimal `json:"totalCurrentBalance"`
}

// AccountDetail is a single account view plus its transaction history
type AccountDetail struct {
	Account      AccountView       `json:"account"`
	Transactions []TransactionView `json:"transactions"`
}
