package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Wendyydxiao/personalfinaceapp/internal/db"
	"github.com/Wendyydxiao/personalfinaceapp/internal/models"
)

// MongoTransactionRepository persists transaction documents in the
// transactions collection.
type MongoTransactionRepository struct {
	collection *mongo.Collection
}

// NewMongoTransactionRepository creates a transaction repository on the
// given database.
func NewMongoTransactionRepository(database *mongo.Database) *MongoTransactionRepository {
	return &MongoTransactionRepository{collection: database.Collection(db.TransactionsCollection)}
}

// Create inserts a new transaction document.
func (r *MongoTransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = newID()
	}
	if _, err := r.collection.InsertOne(ctx, transaction); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// FindByID fetches a transaction by id. Returns ErrNotFound if absent.
func (r *MongoTransactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&transaction)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction by id: %w", err)
	}
	return &transaction, nil
}

// ListByOwner returns all transactions owned by userID, newest first.
func (r *MongoTransactionRepository) ListByOwner(ctx context.Context, userID string) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	transactions := []models.Transaction{}
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return transactions, nil
}

// Update applies the non-nil fields of the update to the stored document
// and returns the updated transaction. Absent fields are left untouched,
// never nulled. Returns ErrNotFound if the id has no matching document.
func (r *MongoTransactionRepository) Update(ctx context.Context, update models.TransactionUpdate) (*models.Transaction, error) {
	set := bson.M{}
	if update.Type != nil {
		set["type"] = *update.Type
	}
	if update.Amount != nil {
		set["amount"] = *update.Amount
	}
	if update.CategoryID != nil {
		set["category"] = *update.CategoryID
	}
	if update.Date != nil {
		set["date"] = *update.Date
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}

	if len(set) == 0 {
		return r.FindByID(ctx, update.ID)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var transaction models.Transaction
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": update.ID}, bson.M{"$set": set}, opts).Decode(&transaction)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return &transaction, nil
}

// Delete removes a transaction by id and returns the deleted document.
// Returns ErrNotFound if absent.
func (r *MongoTransactionRepository) Delete(ctx context.Context, id string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&transaction)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete transaction: %w", err)
	}
	return &transaction, nil
}
