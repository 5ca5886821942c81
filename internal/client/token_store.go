package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// tokenKey is the fixed name the token is persisted under.
const tokenKey = "token"

// ErrNoToken means nothing is persisted.
var ErrNoToken = errors.New("no stored token")

// TokenStore persists the session token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in <dir>/token, readable only by the owner.
type FileTokenStore struct {
	dir string
}

func NewFileTokenStore(dir string) *FileTokenStore {
	return &FileTokenStore{dir: dir}
}

func (s *FileTokenStore) path() string { return filepath.Join(s.dir, tokenKey) }

func (s *FileTokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	tok := strings.TrimSpace(string(raw))
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := os.WriteFile(s.path(), []byte(token), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// MemoryTokenStore is a non-persistent TokenStore.
type MemoryTokenStore struct {
	token string
}

func (m *MemoryTokenStore) Load() (string, error) {
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}

func (m *MemoryTokenStore) Save(token string) error { m.token = token; return nil }

func (m *MemoryTokenStore) Clear() error { m.token = ""; return nil }
