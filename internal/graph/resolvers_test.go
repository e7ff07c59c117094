package graph

import (
	"context"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wendyydxiao/personalfinaceapp/internal/apperr"
	"github.com/Wendyydxiao/personalfinaceapp/internal/middleware"
	"github.com/Wendyydxiao/personalfinaceapp/internal/models"
)

type fakeAuthService struct {
	SignupFunc         func(ctx context.Context, username, email, password string) (string, *models.User, error)
	LoginFunc          func(ctx context.Context, email, password string) (string, *models.User, error)
	UpdatePasswordFunc func(ctx context.Context, userID, newPassword string) (string, error)
}

func (f *fakeAuthService) Signup(ctx context.Context, username, email, password string) (string, *models.User, error) {
	return f.SignupFunc(ctx, username, email, password)
}
func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	return f.LoginFunc(ctx, email, password)
}
func (f *fakeAuthService) UpdatePassword(ctx context.Context, userID, newPassword string) (string, error) {
	return f.UpdatePasswordFunc(ctx, userID, newPassword)
}

type fakeFinanceService struct {
	GetUserFunc           func(ctx context.Context, userID string) (*models.User, []models.Transaction, error)
	TransactionsFunc      func(ctx context.Context, ownerID string, requestedUserID *string) ([]models.Transaction, error)
	CategoriesFunc        func(ctx context.Context, ownerID string, rawType *string) ([]models.Category, error)
	AddTransactionFunc    func(ctx context.Context, ownerID string, input models.TransactionInput) (*models.Transaction, error)
	UpdateTransactionFunc func(ctx context.Context, ownerID string, update models.TransactionUpdate) (*models.Transaction, error)
	DeleteTransactionFunc func(ctx context.Context, ownerID, id string) (*models.Transaction, error)
	AddCategoryFunc       func(ctx context.Context, ownerID, name, rawType, description string) (*models.Category, error)
	DeleteCategoryFunc    func(ctx context.Context, ownerID, id string) (*models.Category, error)
}

func (f *fakeFinanceService) GetUser(ctx context.Context, userID string) (*models.User, []models.Transaction, error) {
	return f.GetUserFunc(ctx, userID)
}
func (f *fakeFinanceService) Transactions(ctx context.Context, ownerID string, requestedUserID *string) ([]models.Transaction, error) {
	return f.TransactionsFunc(ctx, ownerID, requestedUserID)
}
func (f *fakeFinanceService) Categories(ctx context.Context, ownerID string, rawType *string) ([]models.Category, error) {
	return f.CategoriesFunc(ctx, ownerID, rawType)
}
func (f *fakeFinanceService) AddTransaction(ctx context.Context, ownerID string, input models.TransactionInput) (*models.Transaction, error) {
	return f.AddTransactionFunc(ctx, ownerID, input)
}
func (f *fakeFinanceService) UpdateTransaction(ctx context.Context, ownerID string, update models.TransactionUpdate) (*models.Transaction, error) {
	return f.UpdateTransactionFunc(ctx, ownerID, update)
}
func (f *fakeFinanceService) DeleteTransaction(ctx context.Context, ownerID, id string) (*models.Transaction, error) {
	return f.DeleteTransactionFunc(ctx, ownerID, id)
}
func (f *fakeFinanceService) AddCategory(ctx context.Context, ownerID, name, rawType, description string) (*models.Category, error) {
	return f.AddCategoryFunc(ctx, ownerID, name, rawType, description)
}
func (f *fakeFinanceService) DeleteCategory(ctx context.Context, ownerID, id string) (*models.Category, error) {
	return f.DeleteCategoryFunc(ctx, ownerID, id)
}

func buildSchema(t *testing.T, auth AuthService, finance FinanceService) graphql.Schema {
	t.Helper()
	schema, err := NewSchema(NewResolver(auth, finance))
	require.NoError(t, err)
	return schema
}

func authedCtx(id, username, email string) context.Context {
	return middleware.WithAuthResult(context.Background(), middleware.AuthResult{
		State:    middleware.Authenticated,
		Identity: models.Identity{ID: id, Username: username, Email: email},
	})
}

// errorCode extracts the extensions code from the first response error.
func errorCode(t *testing.T, result *graphql.Result) string {
	t.Helper()
	require.NotEmpty(t, result.Errors)
	code, _ := result.Errors[0].Extensions["code"].(string)
	return code
}

func TestSignup_ReturnsTokenAndUser(t *testing.T) {
	auth := &fakeAuthService{
		SignupFunc: func(ctx context.Context, username, email, password string) (string, *models.User, error) {
			require.Equal(t, "alice", username)
			require.Equal(t, "a@x.com", email)
			require.Equal(t, "secret1", password)
			return "tok-1", &models.User{ID: "u1", Username: username, Email: email}, nil
		},
	}
	schema := buildSchema(t, auth, &fakeFinanceService{})

	result := graphql.Do(graphql.Params{
		Schema: schema,
		RequestString: `mutation {
			signup(username: "alice", email: "a@x.com", password: "secret1") {
				token
				user { _id username email }
			}
		}`,
		Context: context.Background(),
	})
	require.Empty(t, result.Errors)

	data := result.Data.(map[string]any)["signup"].(map[string]any)
	assert.Equal(t, "tok-1", data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "u1", user["_id"])
	assert.Equal(t, "alice", user["username"])
}

func TestSignup_ConflictCode(t *testing.T) {
	auth := &fakeAuthService{
		SignupFunc: func(ctx context.Context, username, email, password string) (string, *models.User, error) {
			return "", nil, apperr.Conflict("email already in use")
		},
	}
	schema := buildSchema(t, auth, &fakeFinanceService{})

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `mutation { signup(username: "a", email: "a@x.com", password: "secret1") { token } }`,
		Context:       context.Background(),
	})
	assert.Equal(t, string(apperr.CodeConflict), errorCode(t, result))
	assert.Equal(t, "email already in use", result.Errors[0].Message)
}

func TestGetUser_RequiresIdentity(t *testing.T) {
	finance := &fakeFinanceService{
		GetUserFunc: func(ctx context.Context, userID string) (*models.User, []models.Transaction, error) {
			t.Fatal("GetUser must not be reached without identity")
			return nil, nil, nil
		},
	}
	schema := buildSchema(t, &fakeAuthService{}, finance)

	// Anonymous request.
	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ getUser { username } }`,
		Context:       context.Background(),
	})
	assert.Equal(t, string(apperr.CodeAuthentication), errorCode(t, result))
	assert.Equal(t, "authentication required", result.Errors[0].Message)

	// A presented-but-invalid credential is called out explicitly.
	result = graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ getUser { username } }`,
		Context: middleware.WithAuthResult(context.Background(),
			middleware.AuthResult{State: middleware.InvalidCredential}),
	})
	assert.Equal(t, string(apperr.CodeAuthentication), errorCode(t, result))
	assert.Equal(t, "invalid or expired token", result.Errors[0].Message)
}

func TestGetUser_PopulatedTransactions(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	finance := &fakeFinanceService{
		GetUserFunc: func(ctx context.Context, userID string) (*models.User, []models.Transaction, error) {
			require.Equal(t, "u1", userID)
			salary := &models.Category{ID: "c1", Name: "Salary", Type: models.Income}
			return &models.User{ID: "u1", Username: "alice", Email: "a@x.com", CreatedAt: date},
				[]models.Transaction{{
					ID: "t1", UserID: "u1", Type: models.Income, Amount: 100,
					Category: salary, Date: date,
				}}, nil
		},
	}
	schema := buildSchema(t, &fakeAuthService{}, finance)

	result := graphql.Do(graphql.Params{
		Schema: schema,
		RequestString: `{
			getUser {
				username
				transactions { _id amount category { name type } date }
			}
		}`,
		Context: authedCtx("u1", "alice", "a@x.com"),
	})
	require.Empty(t, result.Errors)

	user := result.Data.(map[string]any)["getUser"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	transactions := user["transactions"].([]any)
	require.Len(t, transactions, 1)
	tr := transactions[0].(map[string]any)
	assert.Equal(t, 100.0, tr["amount"])
	assert.Equal(t, "2024-01-01T00:00:00Z", tr["date"])
	category := tr["category"].(map[string]any)
	assert.Equal(t, "Salary", category["name"])
	assert.Equal(t, "income", category["type"])
}

func TestAddTransaction_ParsesInput(t *testing.T) {
	var gotInput models.TransactionInput
	finance := &fakeFinanceService{
		AddTransactionFunc: func(ctx context.Context, ownerID string, input models.TransactionInput) (*models.Transaction, error) {
			require.Equal(t, "u1", ownerID)
			gotInput = input
			return &models.Transaction{
				ID: "t1", UserID: ownerID, Type: models.Income, Amount: input.Amount,
				Category: &models.Category{ID: "c1", Name: input.Category, Type: models.Income},
				Date:     *input.Date,
			}, nil
		},
	}
	schema := buildSchema(t, &fakeAuthService{}, finance)

	result := graphql.Do(graphql.Params{
		Schema: schema,
		RequestString: `mutation($input: TransactionInput!) {
			addTransaction(input: $input) { _id amount category { name type } }
		}`,
		VariableValues: map[string]any{
			"input": map[string]any{
				"type":     "income",
				"amount":   100,
				"category": "Salary",
				"date":     "2024-01-01",
			},
		},
		Context: authedCtx("u1", "alice", "a@x.com"),
	})
	require.Empty(t, result.Errors)

	assert.Equal(t, "income", gotInput.Type)
	assert.Equal(t, 100.0, gotInput.Amount)
	assert.Equal(t, "Salary", gotInput.Category)
	require.NotNil(t, gotInput.Date)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *gotInput.Date)

	data := result.Data.(map[string]any)["addTransaction"].(map[string]any)
	category := data["category"].(map[string]any)
	assert.Equal(t, "Salary", category["name"])
	assert.Equal(t, "income", category["type"])
}

func TestAddTransaction_BadDate(t *testing.T) {
	finance := &fakeFinanceService{
		AddTransactionFunc: func(ctx context.Context, ownerID string, input models.TransactionInput) (*models.Transaction, error) {
			t.Fatal("service must not be reached with an unparseable date")
			return nil, nil
		},
	}
	schema := buildSchema(t, &fakeAuthService{}, finance)

	result := graphql.Do(graphql.Params{
		Schema: schema,
		RequestString: `mutation {
			addTransaction(input: {type: "income", amount: 1, category: "X", date: "January 1st"}) { _id }
		}`,
		Context: authedCtx("u1", "alice", "a@x.com"),
	})
	assert.Equal(t, string(apperr.CodeValidation), errorCode(t, result))
}

func TestUpdateTransaction_PartialFields(t *testing.T) {
	var gotUpdate models.TransactionUpdate
	finance := &fakeFinanceService{
		UpdateTransactionFunc: func(ctx context.Context, ownerID string, update models.TransactionUpdate) (*models.Transaction, error) {
			gotUpdate = update
			return &models.Transaction{ID: update.ID, UserID: ownerID, Type: models.Expense, Amount: *update.Amount}, nil
		},
	}
	schema := buildSchema(t, &fakeAuthService{}, finance)

	result := graphql.Do(graphql.Params{
		Schema: schema,
		RequestString: `mutation {
			updateTransaction(input: {id: "t1", amount: 42.5}) { _id amount }
		}`,
		Context: authedCtx("u1", "alice", "a@x.com"),
	})
	require.Empty(t, result.Errors)

	assert.Equal(t, "t1", gotUpdate.ID)
	require.NotNil(t, gotUpdate.Amount)
	assert.Equal(t, 42.5, *gotUpdate.Amount)
	// Fields absent from the input stay nil.
	assert.Nil(t, gotUpdate.Type)
	assert.Nil(t, gotUpdate.CategoryID)
	assert.Nil(t, gotUpdate.Date)
	assert.Nil(t, gotUpdate.Description)
}

func TestDeleteTransaction_ForeignOwnerCode(t *testing.T) {
	finance := &fakeFinanceService{
		DeleteTransactionFunc: func(ctx context.Context, ownerID, id string) (*models.Transaction, error) {
			return nil, apperr.Authorization("cannot delete another user's transaction")
		},
	}
	schema := buildSchema(t, &fakeAuthService{}, finance)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `mutation { deleteTransaction(id: "t9") { _id } }`,
		Context:       authedCtx("u1", "alice", "a@x.com"),
	})
	assert.Equal(t, string(apperr.CodeAuthorization), errorCode(t, result))
}

func TestGetCategories_TypeArg(t *testing.T) {
	finance := &fakeFinanceService{
		CategoriesFunc: func(ctx context.Context, ownerID string, rawType *string) ([]models.Category, error) {
			require.NotNil(t, rawType)
			require.Equal(t, "expense", *rawType)
			return []models.Category{{ID: "c1", Name: "Food", Type: models.Expense}}, nil
		},
	}
	schema := buildSchema(t, &fakeAuthService{}, finance)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ getCategories(type: "expense") { _id name type } }`,
		Context:       authedCtx("u1", "alice", "a@x.com"),
	})
	require.Empty(t, result.Errors)

	categories := result.Data.(map[string]any)["getCategories"].([]any)
	require.Len(t, categories, 1)
	assert.Equal(t, "Food", categories[0].(map[string]any)["name"])
}

func TestUpdatePassword_Message(t *testing.T) {
	auth := &fakeAuthService{
		UpdatePasswordFunc: func(ctx context.Context, userID, newPassword string) (string, error) {
			require.Equal(t, "u1", userID)
			require.Equal(t, "newsecret", newPassword)
			return "password updated successfully", nil
		},
	}
	schema := buildSchema(t, auth, &fakeFinanceService{})

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `mutation { updatePassword(newPassword: "newsecret") { message } }`,
		Context:       authedCtx("u1", "alice", "a@x.com"),
	})
	require.Empty(t, result.Errors)

	data := result.Data.(map[string]any)["updatePassword"].(map[string]any)
	assert.Equal(t, "password updated successfully", data["message"])
}

func TestGetTransactions_PassesUserIDArg(t *testing.T) {
	var gotRequested *string
	finance := &fakeFinanceService{
		TransactionsFunc: func(ctx context.Context, ownerID string, requestedUserID *string) ([]models.Transaction, error) {
			gotRequested = requestedUserID
			return []models.Transaction{}, nil
		},
	}
	schema := buildSchema(t, &fakeAuthService{}, finance)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ getTransactions(userId: "u2") { _id } }`,
		Context:       authedCtx("u1", "alice", "a@x.com"),
	})
	require.Empty(t, result.Errors)
	require.NotNil(t, gotRequested)
	assert.Equal(t, "u2", *gotRequested)
}
