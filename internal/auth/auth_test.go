package auth

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImpactDevelopment/impact-cli/internal/config"
)

func newTestManager(t *testing.T, store Store) *Manager {
	t.Helper()
	t.Setenv("IMPACT_TOKEN", "")
	cfg := config.Default()
	return NewManager(cfg, store)
}

func TestManagerLifecycle(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())

	assert.Empty(t, m.Token())
	assert.False(t, m.IsLoggedIn())

	require.NoError(t, m.SetToken("tok-1"))
	assert.Equal(t, "tok-1", m.Token())
	assert.True(t, m.IsLoggedIn())

	require.NoError(t, m.SetToken("tok-2"))
	assert.Equal(t, "tok-2", m.Token(), "a new login replaces the previous token")

	require.NoError(t, m.Clear())
	assert.Empty(t, m.Token())
	assert.False(t, m.IsLoggedIn())
}

func TestManagerClearIsIdempotent(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	require.NoError(t, m.Clear())
	require.NoError(t, m.Clear())
}

func TestRequireToken(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())

	_, err := m.RequireToken()
	require.Error(t, err)

	require.NoError(t, m.SetToken("tok"))
	token, err := m.RequireToken()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestEnvTokenOverridesStore(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	require.NoError(t, m.SetToken("stored"))

	t.Setenv("IMPACT_TOKEN", "from-env")
	assert.Equal(t, "from-env", m.Token())
	assert.True(t, m.IsLoggedIn())

	t.Setenv("IMPACT_TOKEN", "")
	assert.Equal(t, "stored", m.Token())
}

func TestManagerKeysByOrigin(t *testing.T) {
	t.Setenv("IMPACT_TOKEN", "")
	store := NewMemoryStore()

	prod := config.Default()
	staging := config.Default()
	staging.BaseURL = "https://staging.impactclient.net/v1"

	prodMgr := NewManager(prod, store)
	stagingMgr := NewManager(staging, store)

	require.NoError(t, prodMgr.SetToken("prod-tok"))
	assert.Empty(t, stagingMgr.Token(), "tokens must not leak across origins")

	require.NoError(t, stagingMgr.SetToken("staging-tok"))
	assert.Equal(t, "prod-tok", prodMgr.Token())
	assert.Equal(t, "staging-tok", stagingMgr.Token())
}

func TestFileStorePersistence(t *testing.T) {
	dir := t.TempDir()

	store := NewFileStore(dir)
	require.NoError(t, store.Save("https://api.impactclient.net", "tok-1"))

	// A fresh store over the same dir sees the saved token.
	reopened := NewFileStore(dir)
	token, err := reopened.Load("https://api.impactclient.net")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, reopened.Delete("https://api.impactclient.net"))
	_, err = NewFileStore(dir).Load("https://api.impactclient.net")
	assert.Error(t, err)
}

func TestFileStoreMultipleOrigins(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Save("https://a.example", "tok-a"))
	require.NoError(t, store.Save("https://b.example", "tok-b"))

	require.NoError(t, store.Delete("https://a.example"))

	token, err := store.Load("https://b.example")
	require.NoError(t, err)
	assert.Equal(t, "tok-b", token, "deleting one origin must not touch another")
}

func TestFileStorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, store.Save("https://api.impactclient.net", "tok"))

	info, err := os.Stat(filepath.Join(dir, "credentials.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nonexistent"))
	_, err := store.Load("https://api.impactclient.net")
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load("origin")
	assert.Error(t, err)

	require.NoError(t, store.Save("origin", "tok"))
	token, err := store.Load("origin")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Delete("origin"))
	_, err = store.Load("origin")
	assert.Error(t, err)
}
