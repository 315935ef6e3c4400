package docstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"horizon/internal/domain/user"
)

type userDoc struct {
	UserID       string    `firestore:"userId"`
	Email        string    `firestore:"email"`
	PasswordHash string    `firestore:"passwordHash"`
	FirstName    string    `firestore:"firstName"`
	LastName     string    `firestore:"lastName"`
	Address1     string    `firestore:"address1"`
	City         string    `firestore:"city"`
	State        string    `firestore:"state"`
	PostalCode   string    `firestore:"postalCode"`
	DateOfBirth  string    `firestore:"dateOfBirth"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

type UserRepository struct {
	store *Store
}

// Ensure UserRepository implements the domain interface
var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) collection() *firestore.CollectionRef {
	return r.store.client.Collection(r.store.cfg.UsersCollection)
}

// Create persists a new user record. The document id is derived from the
// email, so a concurrent registration for the same address fails at the
// store with ErrEmailTaken instead of producing a duplicate record.
func (r *UserRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	id := emailDocID(params.Email)
	doc := userDoc{
		UserID:       params.UserID,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Address1:     params.Address1,
		City:         params.City,
		State:        params.State,
		PostalCode:   params.PostalCode,
		DateOfBirth:  params.DateOfBirth,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := r.collection().Doc(id).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, user.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user record: %w", err)
	}

	return toUser(id, doc), nil
}

// emailDocID maps an email to a fixed-length Firestore document id.
// Case and surrounding whitespace do not change the id.
func emailDocID(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

// GetByUserID retrieves a user record by its authentication identity
func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	return r.queryOne(ctx, "userId", userID)
}

// GetByEmail retrieves a user record by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.queryOne(ctx, "email", email)
}

// List retrieves all user records
func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var users []*user.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}

		var doc userDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user record %s: %w", snap.Ref.ID, err)
		}
		users = append(users, toUser(snap.Ref.ID, doc))
	}

	return users, nil
}

func (r *UserRepository) queryOne(ctx context.Context, field, value string) (*user.User, error) {
	iter := r.collection().Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by %s: %w", field, err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode user record %s: %w", snap.Ref.ID, err)
	}

	return toUser(snap.Ref.ID, doc), nil
}

func toUser(id string, doc userDoc) *user.User {
	return &user.User{
		ID:           id,
		UserID:       doc.UserID,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Address1:     doc.Address1,
		City:         doc.City,
		State:        doc.State,
		PostalCode:   doc.PostalCode,
		DateOfBirth:  doc.DateOfBirth,
		CreatedAt:    doc.CreatedAt,
	}
}
