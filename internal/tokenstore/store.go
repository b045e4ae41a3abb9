// Package tokenstore provides durable storage for the bearer credential.
package tokenstore

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrTokenEmpty is returned when a token is empty.
	ErrTokenEmpty = errors.New("token cannot be empty")
	// ErrTokenNotFound is returned when no token is stored.
	ErrTokenNotFound = errors.New("token not found in store")

	// ErrTokenStore is returned when a token cannot be stored.
	ErrTokenStore = errors.New("failed to store token")
	// ErrTokenRetrieve is returned when a token cannot be retrieved.
	ErrTokenRetrieve = errors.New("failed to retrieve token")
	// ErrTokenDelete is returned when a token cannot be deleted.
	ErrTokenDelete = errors.New("failed to delete token")

	// ErrStoreUnavailable is returned when no secure store is available.
	ErrStoreUnavailable = errors.New("token store is not available")
	// ErrStoreAccessDenied is returned when access to the store is denied.
	ErrStoreAccessDenied = errors.New("access to token store denied")
)

const (
	// ServicePrefix is the prefix used for keyring service names.
	ServicePrefix = "ewan"

	// TokenKey is the storage key for the bearer credential. The client
	// holds at most one credential at a time, so the key is fixed.
	TokenKey = "auth_token"

	// TestStoreEnvVar is the environment variable that, when set to a
	// directory path, causes the CLI to use a file-based store instead of
	// the OS keyring. Intended for testing only.
	TestStoreEnvVar = "EWAN_TEST_KEYRING_DIR"
)

// TokenStore is durable storage for one opaque bearer credential.
type TokenStore interface {
	// IsAvailable checks if the store is available.
	IsAvailable() error
	// Get retrieves the stored token.
	Get() (string, error)
	// Set stores a token, replacing any previous one.
	Set(token string) error
	// Delete removes the stored token. Deleting an absent token is not an error.
	Delete() error
}

// NewTokenStore returns the default token store for the current platform.
// If EWAN_TEST_KEYRING_DIR is set, a file-based store is used instead.
func NewTokenStore() TokenStore {
	if testDir := os.Getenv(TestStoreEnvVar); testDir != "" {
		fileStore, err := NewFileStore(testDir)
		if err != nil {
			panic(fmt.Sprintf("failed to create file store for testing: %v", err))
		}
		return fileStore
	}
	return NewKeyringStore()
}
