// Package database provides the SurrealDB connection used by the durable
// session store.
//
// Only a small surface is needed: the client keeps one record per profile
// scope, so the Database interface exposes a multi-result Query, a
// single-record QueryOne and a result-less Execute. There is no transaction
// support; every statement the client issues is a single-record upsert,
// select or delete.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: the record does not exist
//   - ErrConnection: the database could not be reached or signed into
//   - ErrQuery: a statement failed
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // nothing stored for this scope
//	}
//
// # Usage Example
//
//	db := database.NewSurrealDB(cfg)
//	if err := db.Connect(ctx); err != nil {
//	    return err
//	}
//	defer db.Close()
package database

import (
	"context"
	"errors"
	"fmt"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a statement failed.
	ErrQuery = errors.New("query error")
)

// Database defines the operations the session store needs
type Database interface {
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a statement and returns the records of its first result set
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a statement and returns its first record
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a statement without returning results
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}

// Endpoint returns the websocket RPC endpoint
func (c Config) Endpoint() string {
	return fmt.Sprintf("ws://%s:%s", c.Host, c.Port)
}
