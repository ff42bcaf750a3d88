// Package persist defines the key/value blob port the stores persist through,
// an in-memory implementation, and the asynchronous writer that keeps
// persistence off the caller's path.
package persist

import (
	"context"
	"errors"
)

// Keys under which each store keeps its blob.
const (
	FinanceKey   = "finance-storage"
	AssistantKey = "baxik-storage"
)

var (
	// ErrNotFound is returned by Load for a key that was never saved.
	ErrNotFound = errors.New("persist: key not found")
	// ErrClosed is reported for writes scheduled after Close.
	ErrClosed = errors.New("persist: persister closed")
)

// Storage stores whole blobs by key. Every Save replaces the previous value.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
