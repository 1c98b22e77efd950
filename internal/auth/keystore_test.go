package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamishal/echoos/internal/common"
	"github.com/mamishal/echoos/internal/cryptox"
)

func TestGetOrCreateKey_GeneratesThenReturnsSameKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".key")

	key, err := GetOrCreateKey(path)
	require.NoError(t, err)
	require.Len(t, key, cryptox.KeySize)

	again, err := GetOrCreateKey(path)
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestGetOrCreateKey_RejectsWrongSizeKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".key")
	require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))

	_, err := GetOrCreateKey(path)
	require.ErrorIs(t, err, common.ErrKeyStorage)
}

func TestGetOrCreateKey_UnwritableLocation(t *testing.T) {
	// parent directory does not exist, so the key cannot be persisted
	path := filepath.Join(t.TempDir(), "missing", ".key")

	_, err := GetOrCreateKey(path)
	require.ErrorIs(t, err, common.ErrKeyStorage)
}

func TestGetOrCreateKey_UnreadableLocation(t *testing.T) {
	// the path is a directory, so reading key material fails
	dir := t.TempDir()

	_, err := GetOrCreateKey(dir)
	require.ErrorIs(t, err, common.ErrKeyStorage)
}
