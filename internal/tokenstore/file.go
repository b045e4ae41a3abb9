package tokenstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a file-based token store implementation for testing.
// This should ONLY be used for testing, never in production.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a new file-based token store.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory path is required")
	}

	// Ensure directory exists with secure permissions
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

func (f *FileStore) IsAvailable() error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("%w: directory not accessible: %v", ErrStoreUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: path is not a directory", ErrStoreUnavailable)
	}
	return nil
}

func (f *FileStore) path() string {
	return filepath.Join(f.dir, ServicePrefix+"_"+TokenKey)
}

func (f *FileStore) Get() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.IsAvailable(); err != nil {
		return "", err
	}

	// #nosec G304 - path is constructed from the configured store directory
	data, err := os.ReadFile(f.path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrTokenNotFound
		}
		return "", ErrTokenRetrieve
	}

	return string(data), nil
}

func (f *FileStore) Set(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.IsAvailable(); err != nil {
		return err
	}

	if token == "" {
		return ErrTokenEmpty
	}

	path := f.path()
	_ = os.Remove(path)

	// #nosec G304 - path is constructed from the configured store directory
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return ErrTokenStore
	}
	defer file.Close()

	if _, err := file.Write([]byte(token)); err != nil {
		return ErrTokenStore
	}

	return nil
}

func (f *FileStore) Delete() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.IsAvailable(); err != nil {
		return err
	}

	err := os.Remove(f.path())
	if err != nil && !os.IsNotExist(err) {
		return ErrTokenDelete
	}

	return nil
}
