package securestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riconnect/internal/domain"
)

func TestFileStore_RoundTripAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "secure.store")

	s, err := Open(path, "correct horse")
	require.NoError(t, err)
	_, ok, err := s.Get(domain.KeyJWTToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(domain.KeyJWTToken, "jwt-1"))
	require.NoError(t, s.Set(domain.KeyRefreshToken, "refresh-1"))
	require.NoError(t, s.Delete(domain.KeyRefreshToken))
	require.NoError(t, s.Delete("never-set"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "jwt-1", "values are encrypted at rest")

	reopened, err := Open(path, "correct horse")
	require.NoError(t, err)
	v, ok, err := reopened.Get(domain.KeyJWTToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jwt-1", v)
	_, ok, _ = reopened.Get(domain.KeyRefreshToken)
	assert.False(t, ok)
}

func TestFileStore_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure.store")
	s, err := Open(path, "one")
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))

	_, err = Open(path, "two")
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure.store")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	_, err := Open(path, "one")
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestFileStore_RequiresPassphrase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "s"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
