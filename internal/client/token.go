package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const tokenFile = "credentials.json"

// TokenStore persists the bearer token between invocations under the key
// "token" in a credentials file inside dir.
type TokenStore struct {
	dir string
}

func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{dir: dir}
}

// Path returns the credentials file location.
func (s *TokenStore) Path() string {
	return filepath.Join(s.dir, tokenFile)
}

// Load returns the stored token, or "" when none has been saved.
func (s *TokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &creds); err != nil {
		return "", fmt.Errorf("failed to parse credentials: %w", err)
	}
	return creds.Token, nil
}

// Save writes the token, readable by the current user only.
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path(), raw, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *TokenStore) Clear() error {
	err := os.Remove(s.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}
