package graph

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/geodesk/spatial-api/internal/auth"
)

// Handler serves the /graphql endpoint. It resolves the caller's identity
// exactly once per request and hands it to the resolvers via the context, so
// every protected field consumes the same typed identity.
type Handler struct {
	schema graphql.Schema
	tokens *auth.TokenService
}

// NewHandler builds the schema and returns the transport handler.
func NewHandler(r *Resolver, tokens *auth.TokenService) (*Handler, error) {
	schema, err := NewSchema(r)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema, tokens: tokens}, nil
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// ServeHTTP executes a GraphQL request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid request body"})
		return
	}

	// An invalid or absent token leaves the request anonymous; protected
	// fields reject it individually.
	ctx := r.Context()
	if tokenStr := auth.BearerToken(r); tokenStr != "" {
		if subject, err := h.tokens.Validate(tokenStr); err == nil {
			ctx = auth.WithIdentity(ctx, auth.Identity{Username: subject})
		}
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
