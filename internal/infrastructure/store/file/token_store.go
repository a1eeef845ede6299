// Package file persists the token in a small JSON document on disk, so a
// session survives restarts of the dashboard.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/growthzi/dashboard/internal/core/ports"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// TokenStore keeps the token under key in a JSON object at path. Other keys
// in the document are preserved.
type TokenStore struct {
	path string
	key  string
	mu   sync.Mutex
}

var _ ports.TokenStore = (*TokenStore)(nil)

func NewTokenStore(path, key string) *TokenStore {
	return &TokenStore{path: path, key: key}
}

func (s *TokenStore) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", err
	}
	return doc[s.key], nil
}

func (s *TokenStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		doc = map[string]string{}
	}
	doc[s.key] = token
	return s.write(doc)
}

func (s *TokenStore) Delete(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		// An unreadable document holds no usable token; start over.
		return s.write(map[string]string{})
	}
	if _, ok := doc[s.key]; !ok {
		return nil
	}
	delete(doc, s.key)
	return s.write(doc)
}

func (s *TokenStore) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	if len(raw) == 0 {
		return map[string]string{}, nil
	}

	doc := map[string]string{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", s.path, err)
	}
	return doc, nil
}

// write replaces the file atomically through a temp file in the same directory.
func (s *TokenStore) write(doc map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}
