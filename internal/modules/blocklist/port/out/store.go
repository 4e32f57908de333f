package out

import "context"

// KVStore persists opaque values by key. Get returns an error wrapping
// ErrNotFound for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
