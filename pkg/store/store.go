package store

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds document store settings.
type Config struct {
	// URI is the Mongo connection string. Required.
	URI string

	// Database is the database holding the entity collections.
	Database string
}

// DefaultDatabase is used when no database name is configured.
const DefaultDatabase = "devhub"

// Store owns the process-wide Mongo client. The client is acquired exactly
// once, on first use; concurrent first uses block on the same acquisition.
type Store struct {
	cfg Config

	once   sync.Once
	client *mongo.Client
	db     *mongo.Database
	err    error
}

// New creates a Store. No connection is made until the first operation.
func New(cfg Config) *Store {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	return &Store{cfg: cfg}
}

// Database returns the shared database handle, connecting on first call.
func (s *Store) Database(ctx context.Context) (*mongo.Database, error) {
	s.once.Do(func() {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.cfg.URI))
		if err != nil {
			s.err = fmt.Errorf("connecting to document store: %w", err)
			return
		}
		s.client = client
		s.db = client.Database(s.cfg.Database)
	})
	return s.db, s.err
}

// Ping verifies connectivity to the store, connecting if necessary.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.Database(ctx); err != nil {
		return err
	}
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client if a connection was ever established.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
