// Package cryptox derives and checks account password hashes.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltLength = 16
	KeyLength  = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// NewSalt returns a fresh random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltLength)
}

// HashPassword derives an Argon2id key from password and salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, KeyLength)
}

// VerifyPassword recomputes the hash for candidate and compares it in
// constant time.
func VerifyPassword(hash, salt, candidate []byte) bool {
	got := HashPassword(candidate, salt)
	defer common.WipeByteArray(got)
	return subtle.ConstantTimeCompare(hash, got) == 1
}
