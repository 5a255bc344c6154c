package session

import "context"

// Repository persists small session-scoped values, like the auth token and
// the id of the signed-in user, between runs.
type Repository interface {
	// Get returns nil with no error when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Clear removes every stored session value.
	Clear(ctx context.Context) error
}
