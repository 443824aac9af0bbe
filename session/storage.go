package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Storage persists a session across process restarts. Load returns (nil,
// nil) when nothing has been saved yet.
type Storage interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// FileStorage keeps the session as a JSON blob at a fixed path, created with
// owner-only permissions.
type FileStorage struct {
	path string
}

var _ Storage = (*FileStorage)(nil)

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", f.path)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrapf(err, "parse %s", f.path)
	}
	return &session, nil
}

func (f *FileStorage) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrapf(err, "create dir for %s", f.path)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return errors.Wrapf(err, "write %s", f.path)
	}
	return nil
}

func (f *FileStorage) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", f.path)
	}
	return nil
}

// MemoryStorage is an in-process Storage for tests and ephemeral use.
type MemoryStorage struct {
	mu      sync.Mutex
	session *Session
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	session := *m.session
	return &session, nil
}

func (m *MemoryStorage) Save(session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *session
	m.session = &saved
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
