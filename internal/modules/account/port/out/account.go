package out

import "context"

// LedgerResetter clears the coin balance when the login scope ends.
type LedgerResetter interface {
	Reset(ctx context.Context) error
}

// ProfileStore persists opaque values by key. Get returns an error wrapping
// ErrNotFound for a missing key.
type ProfileStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
