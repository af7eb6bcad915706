package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/vidgram/internal/database"
)

// SurrealTokenStore keeps tokens in a SurrealDB table, one record per scope.
// It suits hosts that share a session between machines.
type SurrealTokenStore struct {
	db    database.Database
	scope string
}

// NewSurrealTokenStore creates a SurrealDB-backed token store
func NewSurrealTokenStore(db database.Database, scope string) *SurrealTokenStore {
	if scope == "" {
		scope = DefaultScope
	}
	return &SurrealTokenStore{db: db, scope: scope}
}

// Get returns the stored token for this scope, or "" if none
func (s *SurrealTokenStore) Get(ctx context.Context) (string, error) {
	query := `SELECT token FROM session_token WHERE scope = $scope LIMIT 1`
	vars := map[string]interface{}{"scope": s.scope}

	result, err := s.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	return parseTokenResult(result)
}

// Set replaces the token for this scope
func (s *SurrealTokenStore) Set(ctx context.Context, token string) error {
	query := `
		DELETE session_token WHERE scope = $scope;
		CREATE session_token CONTENT {
			scope: $scope,
			token: $token,
			saved_at: time::now()
		};
	`
	vars := map[string]interface{}{
		"scope": s.scope,
		"token": token,
	}

	if err := s.db.Execute(ctx, query, vars); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Clear removes the token for this scope
func (s *SurrealTokenStore) Clear(ctx context.Context) error {
	query := `DELETE session_token WHERE scope = $scope`
	vars := map[string]interface{}{"scope": s.scope}

	if err := s.db.Execute(ctx, query, vars); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

func parseTokenResult(result interface{}) (string, error) {
	record, ok := result.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("%w: unexpected record type %T", database.ErrQuery, result)
	}
	token, _ := record["token"].(string)
	return token, nil
}
