// Package storage provides the key-value persistence capability the drawing
// layer writes through. Implementations are synchronous; callers treat write
// failures as soft.
package storage

import (
	"os"
	"path/filepath"
	"regexp"
)

// Store is a minimal key-value capability. Get reports whether the key exists;
// Set replaces the value wholesale.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// FileStore keeps one file per key under a directory.
type FileStore struct {
	dir string
}

var keySanitizer = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// OpenDefault opens the store under the user config dir
// (~/.config/chartmark on Linux).
func OpenDefault() (*FileStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return NewFileStore(filepath.Join(configDir, "chartmark"))
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, keySanitizer.ReplaceAllString(key, "_")+".json")
}

// Get reads a key's value from disk.
func (fs *FileStore) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set writes a key's value to disk.
func (fs *FileStore) Set(key string, value []byte) error {
	return os.WriteFile(fs.path(key), value, 0o644)
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	values map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string][]byte)}
}

// Get returns the stored value for key.
func (ms *MemStore) Get(key string) ([]byte, bool) {
	v, ok := ms.values[key]
	return v, ok
}

// Set stores a copy of value under key.
func (ms *MemStore) Set(key string, value []byte) error {
	buf := make([]byte, len(value))
	copy(buf, value)
	ms.values[key] = buf
	return nil
}
