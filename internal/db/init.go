// Package db establishes the MongoDB connection and declares the indexes
// the repositories rely on.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by the repositories.
const (
	UsersCollection        = "users"
	CategoriesCollection   = "categories"
	TransactionsCollection = "transactions"
)

// InitMongo connects to the document store at uri, verifies the connection
// with a ping, and ensures the unique indexes on the named database.
func InitMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	if err := ensureIndexes(connectCtx, db); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	return db, nil
}

// ensureIndexes declares the unique constraints: one account per email and
// username, and one category per (owner, name, type) so find-or-create has
// a conflict to retry on.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	categoryIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "ownerId", Value: 1},
			{Key: "name", Value: 1},
			{Key: "type", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(CategoriesCollection).Indexes().CreateOne(ctx, categoryIndex); err != nil {
		return fmt.Errorf("categories index: %w", err)
	}

	transactionIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
	}
	if _, err := db.Collection(TransactionsCollection).Indexes().CreateOne(ctx, transactionIndex); err != nil {
		return fmt.Errorf("transactions index: %w", err)
	}

	return nil
}
