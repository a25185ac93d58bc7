package filestore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cfcastillo/go-franchise-client/session"
	"github.com/cfcastillo/go-franchise-client/session/filestore"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)

	saved := session.Session{
		Username:               "admin",
		Roles:                  []string{"ADMIN", "USER"},
		Token:                  "token-abc",
		ExpiresAt:              1700000000000,
		PasswordChangeRequired: true,
	}
	require.NoError(t, store.Save(saved))

	loaded, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, saved, loaded)
}

func TestStore_MalformedRecord(t *testing.T) {
	dir := t.TempDir()
	store, err := filestore.New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "franchise-auth.json"), []byte("{not json"), 0o600))

	_, ok, err := store.Load()
	require.Error(t, err)
	require.False(t, ok)
}

func TestStore_Clear(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(session.Session{Username: "admin"}))
	require.NoError(t, store.Clear())

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)

	// clearing an empty store is a no-op
	require.NoError(t, store.Clear())
}
