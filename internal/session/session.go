// Package session persists the bearer token between runs.
//
// The store is an explicit object handed to the API client and the TUI at
// construction; there is no ambient global. A missing token file simply means
// "logged out" and is never an error.
package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const tokenFileName = "token"

type Store struct {
	path  string
	token string
}

// NewStore creates a store backed by the given file path. Call Load before
// reading the token.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the standard token location
// ($XDG_CONFIG_HOME|~/.config)/askbob/token.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "askbob", tokenFileName), nil
}

// Load reads the persisted token, if any.
func (s *Store) Load() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.token = ""
		return nil
	}
	if err != nil {
		return err
	}
	s.token = strings.TrimSpace(string(b))
	return nil
}

// Token returns the current token and whether one is set.
func (s *Store) Token() (string, bool) {
	return s.token, s.token != ""
}

// Set stores the token in memory and on disk (0600, dir 0700).
func (s *Store) Set(token string) error {
	token = strings.TrimSpace(token)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return err
	}
	s.token = token
	return nil
}

// Clear forgets the token and removes the file. Clearing an already-cleared
// session is a no-op.
func (s *Store) Clear() error {
	s.token = ""
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
