package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/Wendyydxiao/personalfinaceapp/internal/models"
)

// NewSchema builds the executable schema wired to the given resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"_id":         {Type: graphql.NewNonNull(graphql.ID)},
			"name":        {Type: graphql.NewNonNull(graphql.String)},
			"type":        {Type: graphql.NewNonNull(graphql.String)},
			"description": {Type: graphql.String},
		},
	})

	transactionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Transaction",
		Fields: graphql.Fields{
			"_id":    {Type: graphql.NewNonNull(graphql.ID)},
			"userId": {Type: graphql.NewNonNull(graphql.ID)},
			"type":   {Type: graphql.NewNonNull(graphql.String)},
			"amount": {Type: graphql.NewNonNull(graphql.Float)},
			"category": {
				Type: categoryType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					t, ok := p.Source.(models.Transaction)
					if !ok || t.Category == nil {
						return nil, nil
					}
					return *t.Category, nil
				},
			},
			"date": {
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					t, ok := p.Source.(models.Transaction)
					if !ok {
						return nil, nil
					}
					return formatDate(t.Date), nil
				},
			},
			"description": {Type: graphql.String},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"_id": {
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(userPayload).User.ID, nil
				},
			},
			"username": {
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(userPayload).User.Username, nil
				},
			},
			"email": {
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(userPayload).User.Email, nil
				},
			},
			"createdAt": {
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return formatDate(p.Source.(userPayload).User.CreatedAt), nil
				},
			},
			"transactions": {
				Type: graphql.NewList(transactionType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(userPayload).Transactions, nil
				},
			},
		},
	})

	authType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Auth",
		Fields: graphql.Fields{
			"token": {
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(authPayload).Token, nil
				},
			},
			"user": {
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(authPayload).User, nil
				},
			},
		},
	})

	messageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Message",
		Fields: graphql.Fields{
			"message": {Type: graphql.NewNonNull(graphql.String)},
		},
	})

	transactionInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "TransactionInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"type":        {Type: graphql.NewNonNull(graphql.String)},
			"amount":      {Type: graphql.NewNonNull(graphql.Float)},
			"category":    {Type: graphql.NewNonNull(graphql.String)},
			"date":        {Type: graphql.String},
			"description": {Type: graphql.String},
		},
	})

	updateTransactionInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateTransactionInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":          {Type: graphql.NewNonNull(graphql.ID)},
			"type":        {Type: graphql.String},
			"amount":      {Type: graphql.Float},
			"categoryId":  {Type: graphql.ID},
			"date":        {Type: graphql.String},
			"description": {Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getUser": {
				Type:    userType,
				Resolve: r.GetUser,
			},
			"getTransactions": {
				Type: graphql.NewList(transactionType),
				Args: graphql.FieldConfigArgument{
					"userId": {Type: graphql.ID},
				},
				Resolve: r.GetTransactions,
			},
			"getCategories": {
				Type: graphql.NewList(categoryType),
				Args: graphql.FieldConfigArgument{
					"type": {Type: graphql.String},
				},
				Resolve: r.GetCategories,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signup": {
				Type: authType,
				Args: graphql.FieldConfigArgument{
					"username": {Type: graphql.NewNonNull(graphql.String)},
					"email":    {Type: graphql.NewNonNull(graphql.String)},
					"password": {Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.Signup,
			},
			"login": {
				Type: authType,
				Args: graphql.FieldConfigArgument{
					"email":    {Type: graphql.NewNonNull(graphql.String)},
					"password": {Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.Login,
			},
			"addTransaction": {
				Type: transactionType,
				Args: graphql.FieldConfigArgument{
					"input": {Type: graphql.NewNonNull(transactionInput)},
				},
				Resolve: r.AddTransaction,
			},
			"updateTransaction": {
				Type: transactionType,
				Args: graphql.FieldConfigArgument{
					"input": {Type: graphql.NewNonNull(updateTransactionInput)},
				},
				Resolve: r.UpdateTransaction,
			},
			"deleteTransaction": {
				Type: transactionType,
				Args: graphql.FieldConfigArgument{
					"id": {Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.DeleteTransaction,
			},
			"addCategory": {
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"name":        {Type: graphql.NewNonNull(graphql.String)},
					"type":        {Type: graphql.NewNonNull(graphql.String)},
					"description": {Type: graphql.String},
				},
				Resolve: r.AddCategory,
			},
			"deleteCategory": {
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"id": {Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.DeleteCategory,
			},
			"updatePassword": {
				Type: messageType,
				Args: graphql.FieldConfigArgument{
					"newPassword": {Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.UpdatePassword,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
