package models

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB bundles the collections the application works with.
type MongoDB struct {
	Users    *mongo.Collection
	Products *mongo.Collection
	Orders   *mongo.Collection
	Payments *mongo.Collection

	client *mongo.Client
	logger zerolog.Logger
}

// Open connects, pings, and builds the collection aggregate. The returned
// *mongo.Database is shared with the session store and the blob store.
func Open(ctx context.Context, uri, database string, logger zerolog.Logger) (*MongoDB, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, errors.Wrap(err, "pinging mongodb")
	}

	db := client.Database(database)
	m := &MongoDB{
		Users:    db.Collection("users"),
		Products: db.Collection("products"),
		Orders:   db.Collection("orders"),
		Payments: db.Collection("payments"),
		client:   client,
		logger:   logger,
	}

	if err := m.ensureIndexes(ctx); err != nil {
		return nil, nil, err
	}
	return m, db, nil
}

// ensureIndexes enforces the identity-key uniqueness for both credential
// variants: email for password accounts, provider id for OAuth accounts.
func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	_, err := m.Users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(
				bson.M{"credential.kind": CredentialPassword},
			),
		},
		{
			Keys: bson.D{{Key: "credential.providerId", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(
				bson.M{"credential.kind": CredentialGoogle},
			),
		},
	})
	return errors.Wrap(err, "creating user indexes")
}

func (m *MongoDB) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
