// Package storage provides the persistence backends for the report store.
// The editor keeps the whole record under a single local key, written on
// every mutation and read once at startup.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the record as a single JSON file on the local disk.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path. The parent
// directory is created if it does not exist.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("cannot create storage directory %s: %w", dir, err)
	}

	return &FileStore{path: path}, nil
}

// Load reads the persisted record. A missing file is reported via
// os.IsNotExist so callers can fall back to a default record.
func (f *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save writes the record atomically: the data lands in a temporary file
// first and is renamed into place, so a crash never leaves a half-written
// record behind.
func (f *FileStore) Save(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".report-*")
	if err != nil {
		return fmt.Errorf("cannot create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("cannot write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cannot close temporary file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cannot replace record file: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// MemStore is an in-memory persistence backend used in tests.
type MemStore struct {
	mu   sync.Mutex
	data []byte
	// FailSave makes every Save return an error, for exercising persist
	// failure paths.
	FailSave bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns the stored bytes or os.ErrNotExist when nothing was saved.
func (m *MemStore) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, os.ErrNotExist
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Save stores a copy of the given bytes.
func (m *MemStore) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave {
		return fmt.Errorf("save disabled")
	}
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}

// Bytes returns a copy of the current contents, or nil when empty.
func (m *MemStore) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}
