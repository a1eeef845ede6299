// Package memory holds the token for the lifetime of the process only.
package memory

import (
	"context"
	"sync"

	"github.com/growthzi/dashboard/internal/core/ports"
)

type TokenStore struct {
	mu    sync.RWMutex
	token string
}

var _ ports.TokenStore = (*TokenStore)(nil)

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (s *TokenStore) Get(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *TokenStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *TokenStore) Delete(context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
