// Package http provides the HTTP surface of the service: the GraphQL
// endpoint, the payment checkout endpoint, and routing.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
)

// GraphQLHandler serves the single GraphQL endpoint. Authorization happens
// inside the resolvers against the identity the auth middleware attached to
// the request context.
type GraphQLHandler struct {
	// Schema is the executable schema.
	Schema graphql.Schema
}

// graphqlRequest is the JSON body of a GraphQL-over-HTTP request.
type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Query handles POST /graphql requests. Operation failures are returned in
// the standard "errors" array of an HTTP 200 response; only a malformed
// envelope is rejected at the transport level.
func (h *GraphQLHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.Schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
