package aggregation

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"horizon/internal/domain/bank"
	"horizon/internal/infrastructure/aggregator"
)

// SummaryCache caches computed summaries per user. Implementations must
// treat misses and storage failures as cache misses, never as errors.
type SummaryCache interface {
	Get(ctx context.Context, userID string) (*Summary, bool)
	Set(ctx context.Context, userID string, summary *Summary)
	Invalidate(ctx context.Context, userID string)
}

// Service composes the bank record store and the aggregation provider into
// the summary and detail read paths.
type Service struct {
	banks    bank.Repository
	provider aggregator.ClientInterface
	cache    SummaryCache // may be nil; reads then always hit the provider
}

// NewService creates a new aggregation service. cache may be nil to
// disable summary caching.
func NewService(banks bank.Repository, provider aggregator.ClientInterface, cache SummaryCache) *Service {
	return &Service{banks: banks, provider: provider, cache: cache}
}

// GetAccountsSummary assembles the consolidated summary for a user.
//
// Each bank record's account snapshot and institution are fetched
// concurrently; the first failure fails the whole summary. A user with no
// linked banks gets an empty summary, not an error.
func (s *Service) GetAccountsSummary(ctx context.Context, userID string) (*Summary, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID); ok {
			return cached, nil
		}
	}

	summary, err := s.computeSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, summary)
	}

	return summary, nil
}

// RefreshSummary recomputes a user's summary and re-primes the cache,
// bypassing any cached value. Used by the background refresh job.
func (s *Service) RefreshSummary(ctx context.Context, userID string) (*Summary, error) {
	summary, err := s.computeSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, userID, summary)
	}
	return summary, nil
}

type viewResult struct {
	view AccountView
	err  error
}

func (s *Service) computeSummary(ctx context.Context, userID string) (*Summary, error) {
	records, err := s.banks.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank records: %w", err)
	}

	summary := &Summary{
		Accounts:            []AccountView{},
		TotalCurrentBalance: decimal.Zero,
	}
	if len(records) == 0 {
		return summary, nil
	}

	// One pipeline per record; the buffered channel lets late goroutines
	// finish after an early return on the first failure.
	results := make(chan viewResult, len(records))
	for _, rec := range records {
		go func(rec *bank.Bank) {
			view, err := s.buildAccountView(ctx, rec)
			results <- viewResult{view: view, err: err}
		}(rec)
	}

	for range records {
		res := <-results
		if res.err != nil {
			return nil, res.err
		}
		summary.Accounts = append(summary.Accounts, res.view)
		summary.TotalCurrentBalance = summary.TotalCurrentBalance.Add(res.view.CurrentBalance)
	}
	summary.TotalBanks = len(summary.Accounts)

	log.Printf("User %s: assembled summary with %d accounts", userID, summary.TotalBanks)
	return summary, nil
}

// GetAccountDetail loads one bank record and assembles its account view
// plus transaction history. An unknown record id fails before any
// provider call is made, and a record owned by a different user is
// reported as not found rather than forbidden.
func (s *Service) GetAccountDetail(ctx context.Context, userID, recordID string) (*AccountDetail, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}
	if recordID == "" {
		return nil, fmt.Errorf("%w: record ID is required", ErrInvalidInput)
	}

	rec, err := s.banks.GetByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank record %s: %w", recordID, err)
	}
	if rec.UserID != userID {
		return nil, fmt.Errorf("bank record %s: %w", recordID, bank.ErrNotFound)
	}

	view, err := s.buildAccountView(ctx, rec)
	if err != nil {
		return nil, err
	}

	transactions, err := s.ListTransactions(ctx, view.ID)
	if err != nil {
		return nil, err
	}

	return &AccountDetail{Account: view, Transactions: transactions}, nil
}

// ListTransactions fetches one account's transactions from the provider
// and reshapes them into views. The provider's single page is used
// verbatim.
func (s *Service) ListTransactions(ctx context.Context, accountID string) ([]TransactionView, error) {
	page, err := s.provider.FetchTransactions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	views := make([]TransactionView, 0, len(page.Results))
	for _, tx := range page.Results {
		views = append(views, mapTransaction(tx))
	}
	return views, nil
}

// buildAccountView joins one bank record with its live snapshot and
// owning institution.
func (s *Service) buildAccountView(ctx context.Context, rec *bank.Bank) (AccountView, error) {
	snapshot, err := s.provider.FetchAccount(ctx, rec.AccountID)
	if err != nil {
		return AccountView{}, fmt.Errorf("failed to fetch account snapshot: %w", err)
	}

	institution, err := s.provider.FetchItem(ctx, snapshot.ItemID)
	if err != nil {
		return AccountView{}, fmt.Errorf("failed to fetch institution: %w", err)
	}

	return AccountView{
		ID:             snapshot.ID,
		CurrentBalance: snapshot.Balance,
		InstitutionID:  institution.ID,
		Name:           snapshot.Name,
		MarketingName:  snapshot.MarketingName,
		Number:         snapshot.Number,
		Type:           snapshot.Type,
		LinkedRecordID: rec.ID,
	}, nil
}

func mapTransaction(tx aggregator.Transaction) TransactionView {
	category := ""
	if tx.Category != nil {
		category = *tx.Category
	}

	paymentChannel := ""
	if tx.PaymentData != nil {
		paymentChannel = tx.PaymentData.PaymentMethod
	}

	return TransactionView{
		ID:             tx.ID,
		Name:           tx.Description,
		PaymentChannel: paymentChannel,
		Type:           tx.Type,
		AccountID:      tx.AccountID,
		Amount:         tx.Amount,
		RawStatus:      tx.Status,
		Category:       category,
		Date:           tx.Date,
		Icon:           defaultTransactionIcon,
	}
}
