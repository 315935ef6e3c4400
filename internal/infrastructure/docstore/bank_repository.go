package docstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"horizon/internal/domain/bank"
)

// bankDoc is the stored shape of a bank record. The "bankId" field name
// carries the provider item id, matching the wire shape clients already
// consume.
type bankDoc struct {
	UserID    string    `firestore:"userId"`
	ItemID    string    `firestore:"bankId"`
	AccountID string    `firestore:"accountId"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type BankRepository struct {
	store *Store
}

// Ensure BankRepository implements the domain interface
var _ bank.Repository = (*BankRepository)(nil)

func NewBankRepository(store *Store) *BankRepository {
	return &BankRepository{store: store}
}

func (r *BankRepository) collection() *firestore.CollectionRef {
	return r.store.client.Collection(r.store.cfg.BanksCollection)
}

// Create persists a new bank record under a generated unique id
func (r *BankRepository) Create(ctx context.Context, params bank.CreateParams) (*bank.Bank, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", bank.ErrInvalidInput, err)
	}

	id := uuid.NewString()
	doc := bankDoc{
		UserID:    params.UserID,
		ItemID:    params.ItemID,
		AccountID: params.AccountID,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := r.collection().Doc(id).Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create bank record: %w", err)
	}

	return &bank.Bank{
		ID:        id,
		UserID:    doc.UserID,
		ItemID:    doc.ItemID,
		AccountID: doc.AccountID,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// GetByID retrieves a bank record by its document id
func (r *BankRepository) GetByID(ctx context.Context, id string) (*bank.Bank, error) {
	snap, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, bank.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bank record %s: %w", id, err)
	}

	var doc bankDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode bank record %s: %w", id, err)
	}

	return &bank.Bank{
		ID:        snap.Ref.ID,
		UserID:    doc.UserID,
		ItemID:    doc.ItemID,
		AccountID: doc.AccountID,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// ListByUserID retrieves all bank records for a user
func (r *BankRepository) ListByUserID(ctx context.Context, userID string) ([]*bank.Bank, error) {
	iter := r.collection().Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	var records []*bank.Bank
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list bank records for user %s: %w", userID, err)
		}

		var doc bankDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode bank record %s: %w", snap.Ref.ID, err)
		}

		records = append(records, &bank.Bank{
			ID:        snap.Ref.ID,
			UserID:    doc.UserID,
			ItemID:    doc.ItemID,
			AccountID: doc.AccountID,
			CreatedAt: doc.CreatedAt,
		})
	}

	return records, nil
}
