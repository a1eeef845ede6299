package ports

import "context"

// TokenStore persists the single credential token in client-local storage.
// Get returns "" and a nil error when no token is stored.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}
