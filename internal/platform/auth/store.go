package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore persists the session token between runs.
type TokenStore interface {
	Token() string
	Save(token string) error
	Clear() error
}

// DefaultTokenPath returns the token file under the user's config directory.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "campus-admin", "token"), nil
}

// FileStore keeps the token in a file readable only by the current user.
type FileStore struct {
	path string

	mu     sync.Mutex
	loaded bool
	token  string
}

// NewFileStore creates a store backed by path. The file is read lazily.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Token returns the stored token, or "" when none is stored or the file is unreadable.
func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		data, err := os.ReadFile(s.path)
		if err == nil {
			s.token = strings.TrimSpace(string(data))
		}
		s.loaded = true
	}
	return s.token
}

// Save writes token with 0600 permissions, creating the directory if needed.
func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	s.token = token
	s.loaded = true
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.loaded = true
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing token: %w", err)
	}
	return nil
}

// MemoryStore keeps the token in memory only.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates a store holding token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Compile-time interface checks
var (
	_ TokenStore = (*FileStore)(nil)
	_ TokenStore = (*MemoryStore)(nil)
)
