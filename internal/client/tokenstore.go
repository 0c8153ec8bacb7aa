package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore mirrors the session token between memory and a file under a
// fixed path, the durable-storage analogue of the browser's token key. The
// store is the token's single writer; at most one token is live per path.
type TokenStore struct {
	path string

	mu     sync.Mutex
	token  string
	loaded bool
}

// NewTokenStore creates a store persisting to the given file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Token returns the current token, loading it from disk on first use.
// An absent file means unauthenticated, not an error.
func (s *TokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.loaded = true
		data, err := os.ReadFile(s.path)
		if err == nil {
			s.token = strings.TrimSpace(string(data))
		}
	}
	return s.token
}

// Set stores the token in memory and persists it with owner-only permissions.
func (s *TokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}

	s.token = token
	s.loaded = true
	return nil
}

// Clear drops the in-memory token and removes the persisted file, so no
// later call can pick up a stale token.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.loaded = true

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

// Present reports whether a token is currently held.
func (s *TokenStore) Present() bool {
	return s.Token() != ""
}
