package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Wendyydxiao/personalfinaceapp/internal/db"
	"github.com/Wendyydxiao/personalfinaceapp/internal/models"
)

// MongoCategoryRepository persists category documents in the categories
// collection. (ownerId, name, type) carries a unique index, which is the
// idempotency key for FindOrCreate.
type MongoCategoryRepository struct {
	collection *mongo.Collection
}

// NewMongoCategoryRepository creates a category repository on the given database.
func NewMongoCategoryRepository(database *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{collection: database.Collection(db.CategoriesCollection)}
}

// FindOrCreate returns the category matching (ownerID, name, entryType),
// creating it if absent. A concurrent first use races on the unique index;
// the loser of that race retries the lookup once and returns the winner's
// document, so both callers observe the same category id.
func (r *MongoCategoryRepository) FindOrCreate(ctx context.Context, ownerID, name string, entryType models.EntryType, description string) (*models.Category, error) {
	key := bson.M{"ownerId": ownerID, "name": name, "type": entryType}

	var existing models.Category
	err := r.collection.FindOne(ctx, key).Decode(&existing)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find category: %w", err)
	}

	category := models.Category{
		ID:          newID(),
		OwnerID:     ownerID,
		Name:        name,
		Type:        entryType,
		Description: description,
	}
	_, err = r.collection.InsertOne(ctx, category)
	if err == nil {
		return &category, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	// Lost the creation race; the winner's document must exist now.
	if err := r.collection.FindOne(ctx, key).Decode(&existing); err != nil {
		return nil, fmt.Errorf("refetch category after conflict: %w", err)
	}
	return &existing, nil
}

// FindByID fetches a category by id. Returns ErrNotFound if absent.
func (r *MongoCategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return &category, nil
}

// ListByOwner returns the owner's categories, optionally filtered by type.
func (r *MongoCategoryRepository) ListByOwner(ctx context.Context, ownerID string, entryType *models.EntryType) ([]models.Category, error) {
	filter := bson.M{"ownerId": ownerID}
	if entryType != nil {
		filter["type"] = *entryType
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

// Delete removes a category by id and returns the deleted document.
// Returns ErrNotFound if absent. Transactions referencing the category are
// left untouched; their category resolves to null on population.
func (r *MongoCategoryRepository) Delete(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}
	return &category, nil
}
