package tokenstore

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	gokeyring "github.com/zalando/go-keyring"
)

// KeyringStore implements TokenStore using the OS keyring.
type KeyringStore struct {
	mu sync.Mutex
}

// NewKeyringStore creates a new KeyringStore instance.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (k *KeyringStore) IsAvailable() error {
	_, err := gokeyring.Get(ServicePrefix+"_availability_check", "test")
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return nil
		}

		errStr := err.Error()

		if runtime.GOOS == "linux" {
			if containsAny(errStr, "secret service", "dbus", "org.freedesktop.secrets") {
				return fmt.Errorf("%w: D-Bus secret service not available", ErrStoreUnavailable)
			}
		}

		if runtime.GOOS == "darwin" {
			if containsAny(errStr, "keychain", "security") {
				return fmt.Errorf("%w: macOS Keychain not accessible", ErrStoreUnavailable)
			}
		}

		if runtime.GOOS == "windows" {
			if containsAny(errStr, "credential", "wincred") {
				return fmt.Errorf("%w: Windows Credential Manager not accessible", ErrStoreUnavailable)
			}
		}

		return nil
	}

	return nil
}

func (k *KeyringStore) Get() (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.IsAvailable(); err != nil {
		return "", err
	}

	token, err := gokeyring.Get(ServicePrefix, TokenKey)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrTokenNotFound
		}
		return "", wrapKeyringError(err, ErrTokenRetrieve)
	}

	return token, nil
}

func (k *KeyringStore) Set(token string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.IsAvailable(); err != nil {
		return err
	}

	if token == "" {
		return ErrTokenEmpty
	}

	if err := gokeyring.Set(ServicePrefix, TokenKey, token); err != nil {
		return wrapKeyringError(err, ErrTokenStore)
	}

	return nil
}

func (k *KeyringStore) Delete() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.IsAvailable(); err != nil {
		return err
	}

	if err := gokeyring.Delete(ServicePrefix, TokenKey); err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return nil
		}
		return wrapKeyringError(err, ErrTokenDelete)
	}

	return nil
}

func wrapKeyringError(err error, errType error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if containsAny(errStr, "denied", "permission", "not allowed", "unauthorized") {
		return fmt.Errorf("%w: %s: %v", ErrStoreAccessDenied, errType, err)
	}

	if containsAny(errStr, "not found", "no keyring", "unavailable", "secret service") {
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, errType, err)
	}

	return fmt.Errorf("%s: %w", errType, err)
}

// containsAny checks if s contains any of the substrings (case-insensitive).
func containsAny(s string, substrings ...string) bool {
	sLower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(sLower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
