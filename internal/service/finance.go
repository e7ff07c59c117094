package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Wendyydxiao/personalfinaceapp/internal/apperr"
	"github.com/Wendyydxiao/personalfinaceapp/internal/models"
	"github.com/Wendyydxiao/personalfinaceapp/internal/repository"
)

// CategoryRepository defines the persistence operations required by the
// finance service for categories.
type CategoryRepository interface {
	// FindOrCreate returns the category for (ownerID, name, entryType),
	// creating it if absent. Must be idempotent under concurrent first use.
	FindOrCreate(ctx context.Context, ownerID, name string, entryType models.EntryType, description string) (*models.Category, error)
	// FindByID fetches a category by id, returning repository.ErrNotFound if absent.
	FindByID(ctx context.Context, id string) (*models.Category, error)
	// ListByOwner returns the owner's categories, optionally filtered by type.
	ListByOwner(ctx context.Context, ownerID string, entryType *models.EntryType) ([]models.Category, error)
	// Delete removes a category and returns it, or repository.ErrNotFound.
	Delete(ctx context.Context, id string) (*models.Category, error)
}

// TransactionRepository defines the persistence operations required by the
// finance service for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Transaction, error)
	// Update applies the non-nil fields only; absent fields stay untouched.
	Update(ctx context.Context, update models.TransactionUpdate) (*models.Transaction, error)
	Delete(ctx context.Context, id string) (*models.Transaction, error)
}

// UserRefRepository is the slice of user persistence the finance service
// needs: reading records and maintaining the transaction reference list.
type UserRefRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	PushTransaction(ctx context.Context, userID, transactionID string) error
	PullTransaction(ctx context.Context, userID, transactionID string) error
}

// FinanceService implements transaction and category operations. Every
// operation is scoped to the requesting owner; the service never trusts a
// caller-supplied user id over the authenticated one.
type FinanceService struct {
	users        UserRefRepository
	categories   CategoryRepository
	transactions TransactionRepository
	logger       *zap.Logger
	// now is the clock, overridable in tests.
	now func() time.Time
}

// NewFinanceService constructs a FinanceService over the given repositories.
func NewFinanceService(users UserRefRepository, categories CategoryRepository, transactions TransactionRepository, logger *zap.Logger) *FinanceService {
	return &FinanceService{
		users:        users,
		categories:   categories,
		transactions: transactions,
		logger:       logger,
		now:          time.Now,
	}
}

// GetUser returns the user record for the identity with its transactions
// populated, each carrying its resolved category.
func (s *FinanceService) GetUser(ctx context.Context, userID string) (*models.User, []models.Transaction, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperr.NotFound("user not found")
		}
		return nil, nil, apperr.Internal("unable to fetch user", err)
	}

	transactions, err := s.Transactions(ctx, userID, nil)
	if err != nil {
		return nil, nil, err
	}
	return user, transactions, nil
}

// Transactions returns the transactions owned by ownerID, newest first,
// with categories resolved. A non-nil requestedUserID differing from the
// owner is rejected: one authenticated user may not read another's records.
func (s *FinanceService) Transactions(ctx context.Context, ownerID string, requestedUserID *string) ([]models.Transaction, error) {
	if requestedUserID != nil && *requestedUserID != ownerID {
		return nil, apperr.Authorization("cannot read another user's transactions")
	}

	transactions, err := s.transactions.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal("unable to fetch transactions", err)
	}
	if err := s.populateCategories(ctx, transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// Categories returns the owner's categories, optionally filtered by the raw
// type string ("income" or "expense").
func (s *FinanceService) Categories(ctx context.Context, ownerID string, rawType *string) ([]models.Category, error) {
	var filter *models.EntryType
	if rawType != nil && *rawType != "" {
		entryType, ok := models.ParseEntryType(*rawType)
		if !ok {
			return nil, apperr.Validation("type must be income or expense")
		}
		filter = &entryType
	}

	categories, err := s.categories.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, apperr.Internal("unable to fetch categories", err)
	}
	return categories, nil
}

// AddTransaction validates and creates a transaction under the owner's
// identity. The category is resolved by name with find-or-create, the type
// is normalized to lowercase, and the date defaults to creation time. The
// transaction id is appended to the owner's reference list; if that append
// fails, the freshly created transaction is removed again so the two
// records cannot drift apart.
func (s *FinanceService) AddTransaction(ctx context.Context, ownerID string, input models.TransactionInput) (*models.Transaction, error) {
	entryType, ok := models.ParseEntryType(input.Type)
	if !ok {
		return nil, apperr.Validation("type must be income or expense")
	}
	if input.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	name := strings.TrimSpace(input.Category)
	if name == "" {
		return nil, apperr.Validation("category is required")
	}

	category, err := s.categories.FindOrCreate(ctx, ownerID, name, entryType, "")
	if err != nil {
		return nil, apperr.Internal("unable to resolve category", err)
	}

	date := s.now().UTC()
	if input.Date != nil {
		date = *input.Date
	}

	transaction := &models.Transaction{
		UserID:      ownerID,
		Type:        entryType,
		Amount:      input.Amount,
		CategoryID:  category.ID,
		Date:        date,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.transactions.Create(ctx, transaction); err != nil {
		return nil, apperr.Internal("unable to add transaction", err)
	}

	if err := s.users.PushTransaction(ctx, ownerID, transaction.ID); err != nil {
		// Compensate: roll back the insert rather than leave a transaction
		// the owner's list never learns about.
		if _, delErr := s.transactions.Delete(ctx, transaction.ID); delErr != nil {
			s.logger.Error("compensating delete failed",
				zap.String("transaction_id", transaction.ID),
				zap.Error(delErr),
			)
		}
		return nil, apperr.Internal("unable to add transaction", err)
	}

	transaction.Category = category
	return transaction, nil
}

// UpdateTransaction applies the present fields of the update to an owned
// transaction. Absent fields are left untouched, never nulled. Fails with
// not-found for an unknown id and with an authorization error when the
// record belongs to someone else.
func (s *FinanceService) UpdateTransaction(ctx context.Context, ownerID string, update models.TransactionUpdate) (*models.Transaction, error) {
	existing, err := s.transactions.FindByID(ctx, update.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, apperr.Internal("unable to update transaction", err)
	}
	if existing.UserID != ownerID {
		return nil, apperr.Authorization("cannot modify another user's transaction")
	}

	if update.Type != nil {
		entryType, ok := models.ParseEntryType(*update.Type)
		if !ok {
			return nil, apperr.Validation("type must be income or expense")
		}
		normalized := string(entryType)
		update.Type = &normalized
	}
	if update.Amount != nil && *update.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	if update.CategoryID != nil {
		category, err := s.categories.FindByID(ctx, *update.CategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.NotFound("category not found")
			}
			return nil, apperr.Internal("unable to update transaction", err)
		}
		if category.OwnerID != ownerID {
			return nil, apperr.Authorization("cannot use another user's category")
		}
	}

	updated, err := s.transactions.Update(ctx, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, apperr.Internal("unable to update transaction", err)
	}

	if err := s.populateCategory(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction removes an owned transaction and prunes its id from the
// owner's reference list. Fails with not-found for an unknown id and with
// an authorization error when the record belongs to someone else, leaving
// the record untouched in that case.
func (s *FinanceService) DeleteTransaction(ctx context.Context, ownerID, id string) (*models.Transaction, error) {
	existing, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, apperr.Internal("unable to delete transaction", err)
	}
	if existing.UserID != ownerID {
		return nil, apperr.Authorization("cannot delete another user's transaction")
	}

	deleted, err := s.transactions.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, apperr.Internal("unable to delete transaction", err)
	}

	if err := s.users.PullTransaction(ctx, ownerID, id); err != nil {
		// The document is gone; a stale reference is the lesser defect.
		s.logger.Error("prune transaction ref failed",
			zap.String("user_id", ownerID),
			zap.String("transaction_id", id),
			zap.Error(err),
		)
	}

	if err := s.populateCategory(ctx, deleted); err != nil {
		return nil, err
	}
	return deleted, nil
}

// AddCategory returns the existing category for (name, type) under the
// owner, or creates it. Calling it twice with the same key yields the same
// category id both times.
func (s *FinanceService) AddCategory(ctx context.Context, ownerID, name, rawType, description string) (*models.Category, error) {
	entryType, ok := models.ParseEntryType(rawType)
	if !ok {
		return nil, apperr.Validation("type must be income or expense")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	category, err := s.categories.FindOrCreate(ctx, ownerID, name, entryType, strings.TrimSpace(description))
	if err != nil {
		return nil, apperr.Internal("unable to add category", err)
	}
	return category, nil
}

// DeleteCategory removes an owned category by id. Transactions referencing
// it are not cascaded; their category resolves to null afterwards.
func (s *FinanceService) DeleteCategory(ctx context.Context, ownerID, id string) (*models.Category, error) {
	existing, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Internal("unable to delete category", err)
	}
	if existing.OwnerID != ownerID {
		return nil, apperr.Authorization("cannot delete another user's category")
	}

	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Internal("unable to delete category", err)
	}
	return deleted, nil
}

// populateCategories resolves the category of each transaction in place,
// fetching each distinct category once. A dangling reference (category
// deleted after the transaction was written) resolves to nil.
func (s *FinanceService) populateCategories(ctx context.Context, transactions []models.Transaction) error {
	cache := map[string]*models.Category{}
	for i := range transactions {
		id := transactions[i].CategoryID
		if id == "" {
			continue
		}
		if cached, ok := cache[id]; ok {
			transactions[i].Category = cached
			continue
		}
		category, err := s.categories.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			cache[id] = nil
			continue
		}
		if err != nil {
			return apperr.Internal("unable to resolve category", err)
		}
		cache[id] = category
		transactions[i].Category = category
	}
	return nil
}

// populateCategory resolves the category of a single transaction in place.
func (s *FinanceService) populateCategory(ctx context.Context, transaction *models.Transaction) error {
	if transaction.CategoryID == "" {
		return nil
	}
	category, err := s.categories.FindByID(ctx, transaction.CategoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperr.Internal("unable to resolve category", err)
	}
	transaction.Category = category
	return nil
}
