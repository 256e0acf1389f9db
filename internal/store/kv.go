package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value
var ErrNotFound = errors.New("key not found")

// KV is the persistence port the session store runs on. Backends are
// selected by configuration; all values are serialized JSON strings.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
