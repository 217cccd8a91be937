package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.yaml"))

	creds, err := store.Load()
	require.NoError(t, err)
	assert.True(t, creds.IsZero())
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	store := NewFileStore(path)

	saved := Credentials{AccessToken: "tok1", UserID: "7", Role: "admin"}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_SaveReplacesWholeFragment(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.yaml"))

	require.NoError(t, store.Save(Credentials{AccessToken: "tok1", UserID: "7", Role: "admin"}))
	require.NoError(t, store.Save(Credentials{AccessToken: "tok2", UserID: "9", Role: "operator"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok2", loaded.AccessToken)
	assert.Equal(t, "9", loaded.UserID)
	assert.Equal(t, "operator", loaded.Role)
}

func TestFileStore_ClearRemovesAllKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	store := NewFileStore(path)

	require.NoError(t, store.Save(Credentials{AccessToken: "tok1", UserID: "7", Role: "admin"}))
	require.NoError(t, store.Clear())

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	creds, err := store.Load()
	require.NoError(t, err)
	assert.True(t, creds.IsZero())
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.yaml"))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}

func TestFileStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "credentials.yaml")
	store := NewFileStore(path)

	require.NoError(t, store.Save(Credentials{AccessToken: "tok1", UserID: "1", Role: "manager"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok1", loaded.AccessToken)
}
