package cryptox

import (
	"testing"

	"github.com/mamishal/echoos/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Identity string `json:"identity"`
	Note     string `json:"note"`
}

func TestSealOpenRecord_RoundTrip(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	in := testRecord{Identity: "alice", Note: "hello"}

	ciphertext, nonce, err := SealRecord(in, key)
	require.NoError(t, err)
	require.Len(t, nonce, 12)

	var out testRecord
	require.NoError(t, OpenRecord(ciphertext, nonce, key, &out))
	assert.Equal(t, in, out)
}

func TestOpenRecord_TamperedCiphertextFails(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)

	ciphertext, nonce, err := SealRecord(testRecord{Identity: "alice"}, key)
	require.NoError(t, err)

	ciphertext[0] ^= 0xFF
	var out testRecord
	assert.Error(t, OpenRecord(ciphertext, nonce, key, &out))
}

func TestOpenRecord_TruncatedCiphertextFails(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)

	ciphertext, nonce, err := SealRecord(testRecord{Identity: "alice"}, key)
	require.NoError(t, err)

	var out testRecord
	assert.Error(t, OpenRecord(ciphertext[:len(ciphertext)/2], nonce, key, &out))
}

func TestOpenRecord_WrongKeyFails(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	other := common.GenerateRandByteArray(KeySize)

	ciphertext, nonce, err := SealRecord(testRecord{Identity: "alice"}, key)
	require.NoError(t, err)

	var out testRecord
	assert.Error(t, OpenRecord(ciphertext, nonce, other, &out))
}

func TestSealRecord_FreshNoncePerCall(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)

	_, nonce1, err := SealRecord(testRecord{Identity: "a"}, key)
	require.NoError(t, err)
	_, nonce2, err := SealRecord(testRecord{Identity: "a"}, key)
	require.NoError(t, err)

	assert.NotEqual(t, nonce1, nonce2)
}

func TestHashPassword_Deterministic(t *testing.T) {
	password := []byte("Secret1")
	salt := []byte("fixed-salt")

	assert.Equal(t, HashPassword(password, salt), HashPassword(password, salt))
}

func TestHashPassword_DifferentSaltsDiffer(t *testing.T) {
	password := []byte("Secret1")

	h1 := HashPassword(password, []byte("salt-1"))
	h2 := HashPassword(password, []byte("salt-2"))
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword(t *testing.T) {
	salt := common.GenerateRandByteArray(SaltSize)
	digest := HashPassword([]byte("Secret1"), salt)

	assert.True(t, VerifyPassword([]byte("Secret1"), salt, digest))
	// exact and case-sensitive
	assert.False(t, VerifyPassword([]byte("secret1"), salt, digest))
	assert.False(t, VerifyPassword([]byte("Secret1 "), salt, digest))
}
