package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpos/pos-admin/internal/model"
)

func newTestFileStorage(t *testing.T) Storage {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	st, err := NewFileStorage()
	require.NoError(t, err)
	return st
}

func TestFileStorageRoundTrip(t *testing.T) {
	st := newTestFileStorage(t)

	u := &model.User{ID: 7, Email: "avery@example.com", Role: model.RoleManager, IsActive: true}
	require.NoError(t, st.Save("tok-1", u))

	tok, got, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	require.NotNil(t, got)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, model.RoleManager, got.Role)
}

func TestFileStorageEmptyLoad(t *testing.T) {
	st := newTestFileStorage(t)

	tok, u, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
	assert.Nil(t, u)
}

func TestFileStorageClear(t *testing.T) {
	st := newTestFileStorage(t)
	require.NoError(t, st.Save("tok-1", &model.User{ID: 1}))

	require.NoError(t, st.Clear())
	require.NoError(t, st.Clear(), "clearing twice must be a no-op")

	tok, u, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
	assert.Nil(t, u)
}

func TestFileStorageCorruptFileReportsError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	st, err := NewFileStorage()
	require.NoError(t, err)

	path := filepath.Join(dir, "posadmin", "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err = st.Load()
	assert.Error(t, err, "a torn snapshot must surface so the session can invalidate")
}

func TestFileStoragePermissions(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	st, err := NewFileStorage()
	require.NoError(t, err)
	require.NoError(t, st.Save("tok-1", &model.User{ID: 1}))

	info, err := os.Stat(filepath.Join(dir, "posadmin", "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "the file holds a live bearer token")
}
