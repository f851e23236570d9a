// Package graphdb talks to the Neo4j database holding the credit dataset.
package graphdb

import (
	"context"
	"errors"
)

// Client defines the minimal contract the credit repository needs from the database.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	// StreamRead runs a read query and hands records to fn one at a time without
	// buffering the full result. A non-nil error from fn aborts the stream.
	StreamRead(ctx context.Context, cypher string, params map[string]any, fn func(Record) error) error
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// Record groups key-value pairs returned from the database.
type Record map[string]any

// Int64 reads key as an integer, accepting the numeric types drivers and fixtures use.
func (r Record) Int64(key string) (int64, bool) {
	switch v := r[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// String reads key as a string.
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Options configures a client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the database URI is not provided.
var ErrMissingURI = errors.New("graph database URI is required")
