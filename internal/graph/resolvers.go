// Package graph exposes the API schema: queries and mutations over the
// auth and finance services, resolved against the per-request identity.
package graph

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/Wendyydxiao/personalfinaceapp/internal/apperr"
	"github.com/Wendyydxiao/personalfinaceapp/internal/middleware"
	"github.com/Wendyydxiao/personalfinaceapp/internal/models"
)

// AuthService defines the authentication operations required by the resolvers.
type AuthService interface {
	// Signup registers a user and returns a bearer token with the record.
	Signup(ctx context.Context, username, email, password string) (string, *models.User, error)
	// Login authenticates by email and password.
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	// UpdatePassword overwrites the identified user's password.
	UpdatePassword(ctx context.Context, userID, newPassword string) (string, error)
}

// FinanceService defines the finance operations required by the resolvers.
type FinanceService interface {
	GetUser(ctx context.Context, userID string) (*models.User, []models.Transaction, error)
	Transactions(ctx context.Context, ownerID string, requestedUserID *string) ([]models.Transaction, error)
	Categories(ctx context.Context, ownerID string, rawType *string) ([]models.Category, error)
	AddTransaction(ctx context.Context, ownerID string, input models.TransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, ownerID string, update models.TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id string) (*models.Transaction, error)
	AddCategory(ctx context.Context, ownerID, name, rawType, description string) (*models.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id string) (*models.Category, error)
}

// Resolver implements every query and mutation of the schema.
type Resolver struct {
	auth    AuthService
	finance FinanceService
}

// NewResolver constructs a Resolver over the given services.
func NewResolver(auth AuthService, finance FinanceService) *Resolver {
	return &Resolver{auth: auth, finance: finance}
}

// userPayload is the resolver source for the User type: the record plus its
// populated transactions, when the operation populates them.
type userPayload struct {
	User         *models.User
	Transactions []models.Transaction
}

// authPayload is the resolver source for the Auth type.
type authPayload struct {
	Token string
	User  userPayload
}

// messagePayload is the resolver source for the Message type.
type messagePayload struct {
	Message string `json:"message"`
}

// identity resolves the requesting identity from the three-state auth
// result attached by the middleware. An anonymous request and a failed
// credential are distinct failures: the latter tells the client its
// session is gone rather than pretending no attempt was made.
func identity(ctx context.Context) (models.Identity, error) {
	result := middleware.AuthFromContext(ctx)
	switch result.State {
	case middleware.Authenticated:
		return result.Identity, nil
	case middleware.InvalidCredential:
		return models.Identity{}, gqlError(apperr.Authentication("invalid or expired token"))
	default:
		return models.Identity{}, gqlError(apperr.Authentication("authentication required"))
	}
}

// Signup resolves the signup mutation.
func (r *Resolver) Signup(p graphql.ResolveParams) (any, error) {
	username, _ := p.Args["username"].(string)
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)

	tok, user, err := r.auth.Signup(p.Context, username, email, password)
	if err != nil {
		return nil, gqlError(err)
	}
	return authPayload{Token: tok, User: userPayload{User: user}}, nil
}

// Login resolves the login mutation.
func (r *Resolver) Login(p graphql.ResolveParams) (any, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)

	tok, user, err := r.auth.Login(p.Context, email, password)
	if err != nil {
		return nil, gqlError(err)
	}
	return authPayload{Token: tok, User: userPayload{User: user}}, nil
}

// GetUser resolves the getUser query: the identity's record with
// transactions populated.
func (r *Resolver) GetUser(p graphql.ResolveParams) (any, error) {
	ident, err := identity(p.Context)
	if err != nil {
		return nil, err
	}

	user, transactions, err := r.finance.GetUser(p.Context, ident.ID)
	if err != nil {
		return nil, gqlError(err)
	}
	return userPayload{User: user, Transactions: transactions}, nil
}

// GetTransactions resolves the getTransactions query. The optional userId
// argument is only accepted when it names the requesting identity.
func (r *Resolver) GetTransactions(p graphql.ResolveParams) (any, error) {
	ident, err := identity(p.Context)
	if err != nil {
		return nil, err
	}

	var requested *string
	if raw, ok := p.Args["userId"].(string); ok && raw != "" {
		requested = &raw
	}

	transactions, err := r.finance.Transactions(p.Context, ident.ID, requested)
	if err != nil {
		return nil, gqlError(err)
	}
	return transactions, nil
}

// GetCategories resolves the getCategories query with its optional type filter.
func (r *Resolver) GetCategories(p graphql.ResolveParams) (any, error) {
	ident, err := identity(p.Context)
	if err != nil {
		return nil, err
	}

	var rawType *string
	if raw, ok := p.Args["type"].(string); ok && raw != "" {
		rawType = &raw
	}

	categories, err := r.finance.Categories(p.Context, ident.ID, rawType)
	if err != nil {
		return nil, gqlError(err)
	}
	return categories, nil
}

// AddTransaction resolves the addTransaction mutation.
func (r *Resolver) AddTransaction(p graphql.ResolveParams) (any, error) {
	ident, err := identity(p.Context)
	if err != nil {
		return nil, err
	}

	raw, _ := p.Args["input"].(map[string]any)
	input := models.TransactionInput{}
	if v, ok := raw["type"].(string); ok {
		input.Type = v
	}
	if v, ok := raw["amount"].(float64); ok {
		input.Amount = v
	}
	if v, ok := raw["category"].(string); ok {
		input.Category = v
	}
	if v, ok := raw["description"].(string); ok {
		input.Description = v
	}
	if v, ok := raw["date"].(string); ok && v != "" {
		date, err := parseDate(v)
		if err != nil {
			return nil, gqlError(apperr.Validation("date must be YYYY-MM-DD or RFC 3339"))
		}
		input.Date = &date
	}

	transaction, err := r.finance.AddTransaction(p.Context, ident.ID, input)
	if err != nil {
		return nil, gqlError(err)
	}
	return *transaction, nil
}

// UpdateTransaction resolves the updateTransaction mutation. Only the
// fields present in the input are applied.
func (r *Resolver) UpdateTransaction(p graphql.ResolveParams) (any, error) {
	ident, err := identity(p.Context)
	if err != nil {
		return nil, err
	}

	raw, _ := p.Args["input"].(map[string]any)
	update := models.TransactionUpdate{}
	if v, ok := raw["id"].(string); ok {
		update.ID = v
	}
	if v, ok := raw["type"].(string); ok {
		update.Type = &v
	}
	if v, ok := raw["amount"].(float64); ok {
		update.Amount = &v
	}
	if v, ok := raw["categoryId"].(string); ok {
		update.CategoryID = &v
	}
	if v, ok := raw["description"].(string); ok {
		update.Description = &v
	}
	if v, ok := raw["date"].(string); ok && v != "" {
		date, err := parseDate(v)
		if err != nil {
			return nil, gqlError(apperr.Validation("date must be YYYY-MM-DD or RFC 3339"))
		}
		update.Date = &date
	}

	transaction, err := r.finance.UpdateTransaction(p.Context, ident.ID, update)
	if err != nil {
		return nil, gqlError(err)
	}
	return *transaction, nil
}

// DeleteTransaction resolves the deleteTransaction mutation.
func (r *Resolver) DeleteTransaction(p graphql.ResolveParams) (any, error) {
	ident, err := identity(p.Context)
	if err != nil {
		return nil, err
	}

	id, _ := p.Args["id"].(string)
	transaction, err := r.finance.DeleteTransaction(p.Context, ident.ID, id)
	if err != nil {
		return nil, gqlError(err)
	}
	return *transaction, nil
}

// AddCategory resolves the addCategory mutation (idempotent on name+type).
func (r *Resolver) AddCategory(p graphql.ResolveParams) (any, error) {
	ident, err := identity(p.Context)
	if err != nil {
		return nil, err
	}

	name, _ := p.Args["name"].(string)
	rawType, _ := p.Args["type"].(string)
	description, _ := p.Args["description"].(string)

	category, err := r.finance.AddCategory(p.Context, ident.ID, name, rawType, description)
	if err != nil {
		return nil, gqlError(err)
	}
	return *category, nil
}

// DeleteCategory resolves the deleteCategory mutation.
func (r *Resolver) DeleteCategory(p graphql.ResolveParams) (any, error) {
	ident, err := identity(p.Context)
	if err != nil {
		return nil, err
	}

	id, _ := p.Args["id"].(string)
	category, err := r.finance.DeleteCategory(p.Context, ident.ID, id)
	if err != nil {
		return nil, gqlError(err)
	}
	return *category, nil
}

// UpdatePassword resolves the updatePassword mutation.
func (r *Resolver) UpdatePassword(p graphql.ResolveParams) (any, error) {
	ident, err := identity(p.Context)
	if err != nil {
		return nil, err
	}

	newPassword, _ := p.Args["newPassword"].(string)
	msg, err := r.auth.UpdatePassword(p.Context, ident.ID, newPassword)
	if err != nil {
		return nil, gqlError(err)
	}
	return messagePayload{Message: msg}, nil
}

// dateLayout is the plain calendar-date form accepted alongside RFC 3339.
const dateLayout = "2006-01-02"

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, raw)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
