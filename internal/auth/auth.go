// Package auth manages the bearer-token credential used for Impact API calls.
//
// The credential is a single opaque string. It is never parsed, validated,
// or expired here: it is created by a successful login or registration,
// replaced by the next one, and destroyed by logout.
package auth

import (
	"os"

	"github.com/ImpactDevelopment/impact-cli/internal/config"
	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// Store provides persistent storage for the access token, keyed by API
// origin. Implementations can use keychain, file storage, or memory.
type Store interface {
	// Load retrieves the token for the given origin (e.g. "https://api.impactclient.net").
	Load(origin string) (string, error)

	// Save stores the token for the given origin.
	Save(origin, token string) error

	// Delete removes the token for the given origin.
	Delete(origin string) error
}

// Manager owns the credential for the configured origin.
//
// Tokens are read from the store on every call, so a login or logout
// between calls changes subsequent behavior without re-initialization.
// Writes are last-writer-wins; concurrent login/logout is not serialized.
type Manager struct {
	store  Store
	origin string
}

// NewManager creates an auth manager for the origin derived from cfg.BaseURL.
func NewManager(cfg *config.Config, store Store) *Manager {
	if store == nil {
		store = NewDefaultStore(config.GlobalConfigDir())
	}
	return &Manager{
		store:  store,
		origin: config.NormalizeBaseURL(cfg.BaseURL),
	}
}

// Token returns the stored access token, or "" when logged out.
// The IMPACT_TOKEN env var takes priority over the store.
func (m *Manager) Token() string {
	if token := os.Getenv("IMPACT_TOKEN"); token != "" {
		return token
	}
	token, err := m.store.Load(m.origin)
	if err != nil {
		return ""
	}
	return token
}

// RequireToken returns the stored token or an auth error when absent.
func (m *Manager) RequireToken() (string, error) {
	token := m.Token()
	if token == "" {
		return "", output.ErrAuth("Not logged in")
	}
	return token, nil
}

// SetToken stores a new access token, replacing any previous one.
func (m *Manager) SetToken(token string) error {
	return m.store.Save(m.origin, token)
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (m *Manager) Clear() error {
	return m.store.Delete(m.origin)
}

// IsLoggedIn reports whether a non-empty token is stored.
func (m *Manager) IsLoggedIn() bool {
	return m.Token() != ""
}
