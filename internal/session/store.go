// Package session owns the client-side login state: the persisted token and
// cached user, the expiry check that decides whether they are still usable,
// and the login, register and logout operations that change them.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/naveenspark/liftlog/pkg/domain"
)

// Store persists the token and the cached user record. Reads never fail;
// a missing or unreadable value reads as empty.
type Store interface {
	Save(token string, user domain.User) error
	Clear() error
	ReadToken() string
	ReadUser() *domain.User
}

// TokenEnv overrides the token file when set.
const TokenEnv = "LIFTLOG_TOKEN"

// FileStore keeps the token and user under a directory, ~/.liftlog by default.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) tokenPath() string { return filepath.Join(s.dir, "token") }
func (s *FileStore) userPath() string  { return filepath.Join(s.dir, "user.json") }

// Save overwrites both values.
func (s *FileStore) Save(token string, user domain.User) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("session.Save: create %s: %w", s.dir, err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session.Save: marshal user: %w", err)
	}
	if err := os.WriteFile(s.tokenPath(), []byte(token), 0o600); err != nil {
		return fmt.Errorf("session.Save: write token: %w", err)
	}
	if err := os.WriteFile(s.userPath(), data, 0o600); err != nil {
		return fmt.Errorf("session.Save: write user: %w", err)
	}
	return nil
}

// Clear removes both values. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	var errs []error
	for _, p := range []string{s.tokenPath(), s.userPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}

// ReadToken returns the token using precedence: env var > file > empty.
func (s *FileStore) ReadToken() string {
	if tok := os.Getenv(TokenEnv); tok != "" {
		return tok
	}
	data, err := os.ReadFile(s.tokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *FileStore) ReadUser() *domain.User {
	data, err := os.ReadFile(s.userPath())
	if err != nil {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil
	}
	return &u
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  *domain.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(token string, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}

func (s *MemoryStore) ReadToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) ReadUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}
