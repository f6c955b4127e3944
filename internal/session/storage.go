// Package session owns the authenticated-user state of the admin client:
// who is logged in, the bearer token, and their durable local copies.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/openpos/pos-admin/internal/model"
)

// Storage persists the session snapshot between runs. Both values are
// written and cleared together; no other component writes them.
type Storage interface {
	// Load returns the stored token and user snapshot. Absent values come
	// back as "" and nil; an unreadable or corrupt store is reported as an
	// error so the caller can invalidate.
	Load() (token string, user *model.User, err error)
	// Save atomically replaces both values.
	Save(token string, user *model.User) error
	// Clear removes both values. Clearing an empty store is a no-op.
	Clear() error
}

// fileStorage keeps the snapshot as a small JSON file in the user config
// directory, mode 0600 since it contains a live bearer token.
type fileStorage struct {
	path string
}

// NewFileStorage returns a Storage rooted at the platform config dir
// (e.g. ~/.config/posadmin/session.json).
func NewFileStorage() (Storage, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(base, "posadmin")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &fileStorage{path: filepath.Join(dir, "session.json")}, nil
}

// sessionFile mirrors the two persisted keys.
type sessionFile struct {
	AuthToken string      `json:"authToken"`
	User      *model.User `json:"user"`
}

func (s *fileStorage) Load() (string, *model.User, error) {
	bs, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	var f sessionFile
	if err := json.Unmarshal(bs, &f); err != nil {
		return "", nil, err
	}
	return f.AuthToken, f.User, nil
}

func (s *fileStorage) Save(token string, user *model.User) error {
	bs, err := json.Marshal(sessionFile{AuthToken: token, User: user})
	if err != nil {
		return err
	}
	// Write-then-rename so a crash never leaves a torn file behind.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, bs, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStorage) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemoryStorage is an in-memory Storage for tests.
type MemoryStorage struct {
	mu    sync.Mutex
	token string
	user  *model.User
	// FailLoad, when set, is returned from Load to simulate corruption.
	FailLoad error
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

func (m *MemoryStorage) Load() (string, *model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailLoad != nil {
		return "", nil, m.FailLoad
	}
	return m.token, m.user, nil
}

func (m *MemoryStorage) Save(token string, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.user = token, user
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.user = "", nil
	return nil
}

// Snapshot returns the stored pair for assertions in tests.
func (m *MemoryStorage) Snapshot() (string, *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.user
}
