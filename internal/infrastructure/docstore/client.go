// Package docstore implements the domain repositories over the document
// database. Records live as documents in named collections and are read
// back with equality queries; the store is used as an opaque CRUD layer.
package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Config holds the store connection settings and collection names
type Config struct {
	CredentialsFile string
	UsersCollection string
	BanksCollection string
}

// Store wraps the Firestore client shared by the repositories
type Store struct {
	client *firestore.Client
	cfg    Config
}

// New initializes the Firebase app from the credentials file and opens
// its Firestore client.
func New(ctx context.Context, cfg Config) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}

	return &Store{client: client, cfg: cfg}, nil
}

// Close releases the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}
