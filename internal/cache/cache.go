// Package cache provides the response cache used by the catalog clients on
// the link-resolution path. Pagination and search state never touch the
// cache; cursors carry that state through the chat UI instead.
package cache

import (
	"context"
	"time"
)

// Cache defines the operations the catalog clients need.
type Cache interface {
	// Get retrieves a value; a nil slice with nil error means a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with expiration.
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error

	// Close closes the cache connection.
	Close() error

	// Health checks cache health.
	Health(ctx context.Context) error
}

// CacheError represents a cache operation error.
type CacheError struct {
	Operation string
	Key       string
	Err       error
}

func (e *CacheError) Error() string {
	return "cache " + e.Operation + " failed for key '" + e.Key + "': " + e.Err.Error()
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
