// Package cryptox implements the cryptographic primitives of the
// authentication subsystem: authenticated encryption of serialized records
// (AES-256-GCM) and salted password hashing (argon2id).
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"

	"golang.org/x/crypto/argon2"
)

// KeySize is the symmetric key length in bytes (AES-256).
const KeySize = 32

// SaltSize is the per-identity password salt length in bytes.
const SaltSize = 32

// SealRecord serializes record to JSON and encrypts it with AES-GCM under
// key. A fresh random 12-byte nonce is generated per call and returned
// alongside the ciphertext; both are needed to open the record again.
//
// The key must be a valid AES key length; the subsystem always uses
// KeySize (32) bytes.
func SealRecord(record any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(record)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// OpenRecord decrypts ciphertext with AES-GCM and unmarshals the plaintext
// JSON into v. Any tampering or truncation of the ciphertext or nonce fails
// authentication and returns an error; the record is never partially
// decoded.
func OpenRecord(ciphertext, nonce, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}

// HashPassword derives a 32-byte argon2id digest from the password and salt.
// Deterministic for equal inputs, which is what equality comparison needs;
// the salt must be random per identity.
func HashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// VerifyPassword reports whether candidate hashes to digest under salt,
// using a constant-time comparison.
func VerifyPassword(candidate, salt, digest []byte) bool {
	return subtle.ConstantTimeCompare(HashPassword(candidate, salt), digest) == 1
}
