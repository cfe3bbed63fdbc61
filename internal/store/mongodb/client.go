// Package mongodb implements the store interfaces on MongoDB.
//
// Record identifiers are stored as 24-hex-character strings (ObjectID hex)
// so the rest of the system never handles driver types. Every mutation is
// a single document update; the login upsert and the available→requested
// transition rely on MongoDB's atomicity for single-document writes.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookbridge.io/bookbridge/internal/config"
	"bookbridge.io/bookbridge/internal/store"
)

const (
	collUsers    = "users"
	collBooks    = "books"
	collRequests = "requests"
)

// sortNewestFirst is the mandatory explicit order for every listing:
// creation time descending with the id as tiebreak, so skip/limit
// pagination stays stable across calls.
var sortNewestFirst = bson.D{
	{Key: "createdAt", Value: -1},
	{Key: "_id", Value: -1},
}

// Connect opens a client and verifies connectivity within the configured
// timeout.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// NewStores builds the store bundle on a connected client.
func NewStores(client *mongo.Client, dbName string) store.Stores {
	db := client.Database(dbName)
	return store.Stores{
		Accounts: &AccountStore{coll: db.Collection(collUsers)},
		Books:    &BookStore{coll: db.Collection(collBooks)},
		Requests: &RequestStore{coll: db.Collection(collRequests)},
	}
}

// EnsureIndexes creates the unique email index backing the atomic login
// upsert, plus the listing sort indexes.
func EnsureIndexes(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)

	_, err := db.Collection(collUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure users email index: %w", err)
	}

	for _, coll := range []string{collBooks, collRequests} {
		_, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		})
		if err != nil {
			return fmt.Errorf("ensure %s sort index: %w", coll, err)
		}
	}
	return nil
}
