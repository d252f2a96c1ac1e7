// Package mongo implements the filecab metadata repositories on MongoDB.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	filesCollection = "files"
)

// Config holds the connection settings for the document store.
type Config struct {
	// URI is the MongoDB connection string.
	URI string `mapstructure:"uri" validate:"required"`
	// Database is the database name holding the users and files collections.
	Database string `mapstructure:"database" validate:"required"`
}

// Store wraps a single MongoDB client. It is opened once at startup and
// closed on shutdown; repositories share the underlying client.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client, verifies connectivity, and returns a Store.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)

	// Email uniqueness is enforced by the store, not just the registration
	// pre-check, so concurrent signups cannot race into duplicate accounts.
	_, err = db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create email index: %w", err)
	}

	return &Store{client: client, db: db}, nil
}

// Users returns the user repository backed by this store.
func (s *Store) Users() *UserRepo {
	return &UserRepo{coll: s.db.Collection(usersCollection)}
}

// Files returns the file repository backed by this store.
func (s *Store) Files() *FileRepo {
	return &FileRepo{coll: s.db.Collection(filesCollection)}
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("close mongo: %w", err)
	}
	return nil
}
