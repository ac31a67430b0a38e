package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names inside the LanguageLoom database.
const (
	ClassesCollection         = "classes"
	InstructorsCollection     = "instructors"
	UsersCollection           = "users"
	SelectedClassesCollection = "selectedClasses"
	EnrolledClassesCollection = "enrolledClass"
	PaymentsCollection        = "payments"
)

// Store holds the collections shared by every handler for the lifetime of the process.
type Store struct {
	Classes         Collection
	Instructors     Collection
	Users           Collection
	SelectedClasses Collection
	EnrolledClasses Collection
	Payments        Collection

	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a MongoDB session using the Stable API v1 and verifies it with a ping
// against the admin database.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Database("admin").RunCommand(pingCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	database := client.Database(dbName)
	return &Store{
		Classes:         NewMongoCollection(database.Collection(ClassesCollection)),
		Instructors:     NewMongoCollection(database.Collection(InstructorsCollection)),
		Users:           NewMongoCollection(database.Collection(UsersCollection)),
		SelectedClasses: NewMongoCollection(database.Collection(SelectedClassesCollection)),
		EnrolledClasses: NewMongoCollection(database.Collection(EnrolledClassesCollection)),
		Payments:        NewMongoCollection(database.Collection(PaymentsCollection)),
		client:          client,
		db:              database,
	}, nil
}

// NewMemoryStore returns a Store backed by in-memory collections.
func NewMemoryStore() *Store {
	return &Store{
		Classes:         NewMemoryCollection(),
		Instructors:     NewMemoryCollection(),
		Users:           NewMemoryCollection(),
		SelectedClasses: NewMemoryCollection(),
		EnrolledClasses: NewMemoryCollection(),
		Payments:        NewMemoryCollection(),
	}
}

// EnsureIndexes creates the lookup indexes used by the email-keyed routes.
// It is a no-op for the in-memory store.
func (s *Store) EnsureIndexes(ctx context.Context, logger *slog.Logger) error {
	if s.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create users.email index: %w", err)
	}

	for _, name := range []string{ClassesCollection, SelectedClassesCollection, EnrolledClassesCollection, PaymentsCollection} {
		if _, err := s.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "email", Value: 1}},
		}); err != nil {
			return fmt.Errorf("create %s.email index: %w", name, err)
		}
	}
	logger.Info("mongodb indexes ensured")
	return nil
}

// Close releases the underlying session, if any.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
