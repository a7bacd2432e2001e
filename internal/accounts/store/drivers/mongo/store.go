package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// UsersCollection holds one document per user with its sessions embedded.
const UsersCollection = "users"

// setupTimeout bounds connecting and index creation.
const setupTimeout = 30 * time.Second

type Store struct {
	client *mongo.Client
	users  *mongo.Collection
}

// NewStore connects to uri and uses database for all collections.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &Store{
		client: client,
		users:  client.Database(database).Collection(UsersCollection),
	}, nil
}

// ApplyMigrations creates the indexes the users collection relies on.
// Creating an index that already exists is a no-op.
func (s *Store) ApplyMigrations() error {
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys: bson.D{{Key: "activationID", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("activation_id_unique").
				SetPartialFilterExpression(bson.M{"activationID": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "passwordResetID", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("password_reset_id_unique").
				SetPartialFilterExpression(bson.M{"passwordResetID": bson.M{"$type": "string"}}),
		},
		{
			Keys:    bson.D{{Key: "tokens.expiresAt", Value: 1}},
			Options: options.Index().SetName("tokens_expires_at"),
		},
	})
	return err
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Users() store.Users { return &usersRepo{c: s.users} }

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

func mapDuplicate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrAlreadyExists
	}
	return err
}
