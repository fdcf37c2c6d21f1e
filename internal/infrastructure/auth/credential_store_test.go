package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileCredentialStore_RoundTrip(t *testing.T) {
	store, err := NewFileCredentialStore(t.TempDir())
	assert.NoError(t, err)

	// Empty store reads as absent tokens, not an error.
	access, err := store.AccessToken()
	assert.NoError(t, err)
	assert.Empty(t, access)

	assert.NoError(t, store.SetTokens("access-1", "refresh-1"))

	access, err = store.AccessToken()
	assert.NoError(t, err)
	assert.Equal(t, "access-1", access)

	refresh, err := store.RefreshToken()
	assert.NoError(t, err)
	assert.Equal(t, "refresh-1", refresh)
}

func TestFileCredentialStore_SetOverwritesBothTokens(t *testing.T) {
	store, err := NewFileCredentialStore(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, store.SetTokens("access-1", "refresh-1"))
	assert.NoError(t, store.SetTokens("access-2", "refresh-2"))

	access, _ := store.AccessToken()
	refresh, _ := store.RefreshToken()
	assert.Equal(t, "access-2", access)
	assert.Equal(t, "refresh-2", refresh)
}

func TestFileCredentialStore_Clear(t *testing.T) {
	store, err := NewFileCredentialStore(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, store.SetTokens("access-1", "refresh-1"))
	assert.NoError(t, store.Clear())

	access, err := store.AccessToken()
	assert.NoError(t, err)
	assert.Empty(t, access)

	// Clearing an already-empty store is a no-op, not an error.
	assert.NoError(t, store.Clear())
}

func TestFileCredentialStore_FileOnDiskIsEncrypted(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileCredentialStore(dir)
	assert.NoError(t, err)

	assert.NoError(t, store.SetTokens("secret-access-token", "secret-refresh-token"))

	raw, err := os.ReadFile(filepath.Join(dir, ".credentials"))
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-access-token")
	assert.NotContains(t, string(raw), "secret-refresh-token")
}

func TestFileCredentialStore_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileCredentialStore(dir)
	assert.NoError(t, err)

	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".credentials"), []byte("not ciphertext"), 0600))

	_, err = store.AccessToken()
	assert.Error(t, err)
}

func TestMemoryCredentialStore(t *testing.T) {
	store := NewMemoryCredentialStore()

	access, err := store.AccessToken()
	assert.NoError(t, err)
	assert.Empty(t, access)

	assert.NoError(t, store.SetTokens("access-1", "refresh-1"))

	access, _ = store.AccessToken()
	refresh, _ := store.RefreshToken()
	assert.Equal(t, "access-1", access)
	assert.Equal(t, "refresh-1", refresh)

	assert.NoError(t, store.Clear())
	access, _ = store.AccessToken()
	assert.Empty(t, access)
}
