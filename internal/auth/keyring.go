package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const serviceName = "impact"

// DefaultStore stores tokens in the system keychain, falling back to a
// plaintext file when no keyring is available.
type DefaultStore struct {
	useKeyring bool
	file       *FileStore
}

// NewDefaultStore creates a token store. fallbackDir holds the token file
// used when the keyring is unavailable.
func NewDefaultStore(fallbackDir string) *DefaultStore {
	file := NewFileStore(fallbackDir)

	// Skip keyring for tests or when explicitly disabled
	if os.Getenv("IMPACT_NO_KEYRING") != "" {
		return &DefaultStore{useKeyring: false, file: file}
	}

	// Test if keyring is available
	testKey := "impact::test"
	err := keyring.Set(serviceName, testKey, "test")
	if err == nil {
		_ = keyring.Delete(serviceName, testKey) // Best-effort cleanup
		return &DefaultStore{useKeyring: true, file: file}
	}
	fmt.Fprintf(os.Stderr, "warning: system keyring unavailable, token stored in plaintext at %s\n",
		filepath.Join(fallbackDir, "credentials.json"))
	return &DefaultStore{useKeyring: false, file: file}
}

// key returns the keyring key for an origin.
func key(origin string) string {
	return fmt.Sprintf("impact::%s", origin)
}

// Load retrieves the token for the given origin.
func (s *DefaultStore) Load(origin string) (string, error) {
	if s.useKeyring {
		token, err := keyring.Get(serviceName, key(origin))
		if err != nil {
			return "", fmt.Errorf("token not found: %w", err)
		}
		return token, nil
	}
	return s.file.Load(origin)
}

// Save stores the token for the given origin.
func (s *DefaultStore) Save(origin, token string) error {
	if s.useKeyring {
		return keyring.Set(serviceName, key(origin), token)
	}
	return s.file.Save(origin, token)
}

// Delete removes the token for the given origin.
func (s *DefaultStore) Delete(origin string) error {
	if s.useKeyring {
		err := keyring.Delete(serviceName, key(origin))
		if err == keyring.ErrNotFound {
			return nil
		}
		return err
	}
	return s.file.Delete(origin)
}

// UsingKeyring returns true if the store is using the system keyring.
func (s *DefaultStore) UsingKeyring() bool {
	return s.useKeyring
}
